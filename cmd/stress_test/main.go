package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

// stress_test fires concurrent single-item orders at a running server and
// reports how the item's stock moved. Without STRICT_STOCK on the server the
// final quantity can go below zero.
func main() {
	baseURL := flag.String("url", "http://localhost:5000", "server base URL")
	cuisineID := flag.String("cuisine", "", "id of the cuisine to order")
	totalRequests := flag.Int("n", 50, "number of concurrent orders")
	quantity := flag.Int("qty", 1, "quantity per order")
	flag.Parse()

	if *cuisineID == "" {
		log.Fatal("-cuisine is required")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	ctx := context.Background()

	before, err := fetchCuisine(ctx, client, *baseURL, *cuisineID)
	if err != nil {
		log.Fatalf("failed to read cuisine: %v", err)
	}

	var applied, notApplied, failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		i := i
		g.Go(func() error {
			order := domain.Order{
				UserEmail: fmt.Sprintf("stress-%d@nobabdine.test", i),
				Items:     []domain.OrderLine{{CuisineID: *cuisineID, Quantity: *quantity}},
			}
			result, err := placeOrder(gctx, client, *baseURL, order)
			if err != nil {
				failed.Add(1)
				return nil
			}
			if len(result.Lines) > 0 && result.Lines[0].Status == domain.LineApplied {
				applied.Add(1)
			} else {
				notApplied.Add(1)
			}
			return nil
		})
	}
	g.Wait()
	elapsed := time.Since(start)

	after, err := fetchCuisine(ctx, client, *baseURL, *cuisineID)
	if err != nil {
		log.Fatalf("failed to read cuisine: %v", err)
	}

	fmt.Println("========== Stress Test Results ==========")
	fmt.Printf("Total requests:    %d\n", *totalRequests)
	fmt.Printf("Lines applied:     %d\n", applied.Load())
	fmt.Printf("Lines not applied: %d\n", notApplied.Load())
	fmt.Printf("Requests failed:   %d\n", failed.Load())
	fmt.Printf("Quantity:          %d -> %d\n", before.Quantity, after.Quantity)
	fmt.Printf("Purchase count:    %d -> %d\n", before.PurchaseCount, after.PurchaseCount)
	fmt.Printf("Elapsed:           %v\n", elapsed)
	fmt.Println("==========================================")

	if after.Quantity < 0 {
		fmt.Printf("OVERSOLD: quantity is %d\n", after.Quantity)
	}
}

func fetchCuisine(ctx context.Context, client *http.Client, baseURL, id string) (*domain.Cuisine, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/allcuisin/"+id, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var c domain.Cuisine
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func placeOrder(ctx context.Context, client *http.Client, baseURL string, order domain.Order) (*domain.PlacementResult, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var result domain.PlacementResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
