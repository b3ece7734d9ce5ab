package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{20, 9, 3},
		{18, 9, 2},
		{1, 9, 1},
		{0, 9, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestCatalogQuery(t *testing.T) {
	q := CatalogQuery{Page: 2, Limit: 9}
	assert.NoError(t, q.Validate())
	assert.Equal(t, 9, q.Offset())

	assert.ErrorIs(t, CatalogQuery{Page: 0, Limit: 9}.Validate(), ErrInvalidPagination)
	assert.ErrorIs(t, CatalogQuery{Page: 1, Limit: 0}.Validate(), ErrInvalidPagination)
}

func TestCatalogQuery_LargeValues(t *testing.T) {
	q := CatalogQuery{Page: 2, Limit: math.MaxInt}.ClampLimit()
	assert.Equal(t, MaxPageLimit, q.Limit)
	require.NoError(t, q.Validate())
	assert.Equal(t, MaxPageLimit, q.Offset())

	assert.ErrorIs(t, CatalogQuery{Page: math.MaxInt, Limit: 9}.Validate(), ErrInvalidPagination)
	assert.NoError(t, CatalogQuery{Page: math.MaxInt/9 + 1, Limit: 9}.Validate())
}

func TestOrderValidate(t *testing.T) {
	assert.NoError(t, Order{UserEmail: "a@nobab.test", Items: []OrderLine{{CuisineID: "x", Quantity: 1}}}.Validate())
	assert.ErrorIs(t, Order{UserEmail: "a@nobab.test"}.Validate(), ErrInvalidOrder)
	assert.ErrorIs(t, Order{Items: []OrderLine{{CuisineID: "x", Quantity: 1}}}.Validate(), ErrInvalidOrder)

	for _, line := range []OrderLine{
		{CuisineID: "x", Quantity: 0},
		{CuisineID: "x", Quantity: -3},
		{CuisineID: "", Quantity: 1},
	} {
		order := Order{UserEmail: "a@nobab.test", Items: []OrderLine{{CuisineID: "ok", Quantity: 1}, line}}
		assert.ErrorIs(t, order.Validate(), ErrInvalidOrder, "%+v", line)
	}
}

func TestCuisineWireNames(t *testing.T) {
	var c Cuisine
	err := json.Unmarshal([]byte(`{"_id":"a1","name":"Borhani","quantity":4,"price":"2.50","purchase_count":7,"email":"chef@nobab.test"}`), &c)
	require.NoError(t, err)
	assert.Equal(t, "a1", c.ID)
	assert.Equal(t, 4, c.Quantity)
	assert.True(t, c.Price.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 7, c.PurchaseCount)

	var line CartLine
	require.NoError(t, json.Unmarshal([]byte(`{"cuisineId":"a1","inputqty":3,"email":"b@nobab.test"}`), &line))
	assert.Equal(t, "a1", line.CuisineID)
	assert.Equal(t, 3, line.Quantity)
}
