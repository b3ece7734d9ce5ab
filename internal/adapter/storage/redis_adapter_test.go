package storage

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestSetIdempotency_Mock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisAdapter(db)
	ctx := context.Background()

	mock.ExpectSetNX("idempotency:order:req-1", 1, idempotencyKeyTTL).SetVal(true)
	mock.ExpectSetNX("idempotency:order:req-1", 1, idempotencyKeyTTL).SetVal(false)

	ok, err := adapter.SetIdempotency(ctx, "order:req-1")
	if err != nil || !ok {
		t.Errorf("expected first claim to succeed, got ok=%v err=%v", ok, err)
	}

	ok, err = adapter.SetIdempotency(ctx, "order:req-1")
	if err != nil || ok {
		t.Errorf("expected second claim to fail, got ok=%v err=%v", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetIdempotency_MockError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisAdapter(db)
	boom := errors.New("connection refused")

	mock.ExpectSetNX("idempotency:order:req-2", 1, 24*time.Hour).SetErr(boom)

	ok, err := adapter.SetIdempotency(context.Background(), "order:req-2")
	if !errors.Is(err, boom) {
		t.Errorf("expected redis error, got: %v", err)
	}
	if ok {
		t.Error("expected claim to fail on error")
	}
}

func TestPing_Mock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisAdapter(db)

	mock.ExpectPing().SetVal("PONG")

	if err := adapter.Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReleaseIdempotency_Mock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisAdapter(db)
	ctx := context.Background()

	mock.ExpectSetNX("idempotency:order:req-3", 1, idempotencyKeyTTL).SetVal(true)
	mock.ExpectDel("idempotency:order:req-3").SetVal(1)
	mock.ExpectSetNX("idempotency:order:req-3", 1, idempotencyKeyTTL).SetVal(true)

	if ok, err := adapter.SetIdempotency(ctx, "order:req-3"); err != nil || !ok {
		t.Fatalf("expected claim, got ok=%v err=%v", ok, err)
	}
	if err := adapter.ReleaseIdempotency(ctx, "order:req-3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, err := adapter.SetIdempotency(ctx, "order:req-3"); err != nil || !ok {
		t.Errorf("expected released key to be claimable, got ok=%v err=%v", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// orderKey builds the key shape OrderService claims for an Idempotency-Key header.
func orderKey(t *testing.T) string {
	return "order:" + t.Name() + "-" + strconv.FormatInt(time.Now().UnixNano(), 36)
}

func TestIdempotency_ClaimReleaseAndTTL(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	key := orderKey(t)
	defer client.Del(ctx, idempotencyKeyPrefix+key)

	if ok, err := adapter.SetIdempotency(ctx, key); err != nil || !ok {
		t.Fatalf("first checkout should claim the key, got ok=%v err=%v", ok, err)
	}
	if ok, err := adapter.SetIdempotency(ctx, key); err != nil || ok {
		t.Fatalf("repeated checkout should be refused, got ok=%v err=%v", ok, err)
	}

	ttl, err := client.TTL(ctx, idempotencyKeyPrefix+key).Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl <= 0 || ttl > idempotencyKeyTTL {
		t.Errorf("expected ttl within (0, %v], got %v", idempotencyKeyTTL, ttl)
	}

	if err := adapter.ReleaseIdempotency(ctx, key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, err := adapter.SetIdempotency(ctx, key); err != nil || !ok {
		t.Errorf("retry after release should claim the key, got ok=%v err=%v", ok, err)
	}
}

func TestIdempotency_ConcurrentCheckouts(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	key := orderKey(t)
	defer client.Del(ctx, idempotencyKeyPrefix+key)

	const submissions = 100
	var claimed, refused atomic.Int32
	var wg sync.WaitGroup
	for n := 0; n < submissions; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := adapter.SetIdempotency(ctx, key)
			switch {
			case err != nil:
				t.Errorf("unexpected error: %v", err)
			case ok:
				claimed.Add(1)
			default:
				refused.Add(1)
			}
		}()
	}
	wg.Wait()

	if claimed.Load() != 1 || refused.Load() != submissions-1 {
		t.Errorf("expected 1 claim and %d refusals, got %d and %d", submissions-1, claimed.Load(), refused.Load())
	}
}
