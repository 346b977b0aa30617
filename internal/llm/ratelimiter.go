package llm

import (
	"context"
	"sync"
	"time"
)

// rateLimited caps a provider at a number of requests per minute using
// a sliding window of recent call times.
type rateLimited struct {
	Provider
	rpm    int
	mu     sync.Mutex
	stamps []time.Time
}

// WithRateLimit wraps p so that Complete blocks once rpm requests have
// been started within the last minute, until a slot frees up or the
// context is done.
func WithRateLimit(p Provider, rpm int) Provider {
	return &rateLimited{Provider: p, rpm: rpm}
}

func (r *rateLimited) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.reserve(ctx); err != nil {
		return nil, err
	}
	return r.Provider.Complete(ctx, req)
}

func (r *rateLimited) reserve(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()
		cutoff := now.Add(-time.Minute)
		keep := r.stamps[:0]
		for _, ts := range r.stamps {
			if ts.After(cutoff) {
				keep = append(keep, ts)
			}
		}
		r.stamps = keep

		if len(r.stamps) < r.rpm {
			r.stamps = append(r.stamps, now)
			r.mu.Unlock()
			return nil
		}
		wait := time.Until(r.stamps[0].Add(time.Minute))
		r.mu.Unlock()

		if wait < 10*time.Millisecond {
			wait = 10 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
