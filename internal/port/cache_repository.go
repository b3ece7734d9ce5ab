package port

import "context"

type IdempotencyRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
	// ReleaseIdempotency frees a key claimed for a request that did not complete
	ReleaseIdempotency(ctx context.Context, key string) error
}
