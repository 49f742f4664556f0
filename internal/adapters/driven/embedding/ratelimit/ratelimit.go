// Package ratelimit paces calls to an embedding provider.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/pdfqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// retryAfterError is implemented by provider errors that carry a server backoff hint.
type retryAfterError interface {
	error
	RetryAfter() time.Duration
}

// EmbeddingService wraps another EmbeddingService with a token bucket.
// Every request (single or batch) consumes one token.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// New wraps inner so that at most requestsPerSecond calls are made.
// A non-positive rate returns inner unchanged.
func New(inner driven.EmbeddingService, requestsPerSecond float64) driven.EmbeddingService {
	if requestsPerSecond <= 0 {
		return inner
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &EmbeddingService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Embed waits for a token, then delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	vec, err := s.inner.Embed(ctx, text)
	s.observe(err)
	return vec, err
}

// EmbedBatch waits for a token, then delegates.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	vecs, err := s.inner.EmbedBatch(ctx, texts)
	s.observe(err)
	return vecs, err
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping is not rate limited.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }

// wait honours any pending backoff, then the token bucket.
func (s *EmbeddingService) wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return s.limiter.Wait(ctx)
}

// observe records a backoff when the provider reports throttling.
func (s *EmbeddingService) observe(err error) {
	var ra retryAfterError
	if !errors.As(err, &ra) {
		return
	}
	d := ra.RetryAfter()
	if d <= 0 {
		return
	}

	s.mu.Lock()
	s.retryAt = time.Now().Add(d)
	s.mu.Unlock()
}
