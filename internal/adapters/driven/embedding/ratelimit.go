// Package embedding provides decorators shared by the embedding adapters.
package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/kwak-labs/kwak-cli/internal/core/ports/driven"
)

// Ensure RateLimited implements the interface.
var _ driven.EmbeddingProvider = (*RateLimited)(nil)

// DefaultRate is the proactive throttle for cloud embedding APIs
// (requests per second).
const DefaultRate = 2.0

// RateLimited wraps an embedding provider with proactive throttling so
// batch ingestion does not trip provider-side request limits.
type RateLimited struct {
	inner  driven.EmbeddingProvider
	bucket *rate.Limiter
}

// NewRateLimited wraps the provider with a token bucket of the given
// requests-per-second rate. A non-positive rate uses DefaultRate.
func NewRateLimited(inner driven.EmbeddingProvider, perSecond float64) *RateLimited {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	return &RateLimited{
		inner:  inner,
		bucket: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Embed waits for the token bucket, then delegates the batch call.
func (r *RateLimited) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := r.bucket.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.inner.Embed(ctx, texts)
}

// Dimensions returns the wrapped provider's vector size.
func (r *RateLimited) Dimensions() int {
	return r.inner.Dimensions()
}

// ModelName returns the wrapped provider's model name.
func (r *RateLimited) ModelName() string {
	return r.inner.ModelName()
}

// Ping delegates to the wrapped provider without consuming a token.
func (r *RateLimited) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}

// Close releases the wrapped provider's resources.
func (r *RateLimited) Close() error {
	return r.inner.Close()
}
