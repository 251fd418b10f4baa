package awsorg

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedLister paces ListAccounts calls with a token bucket.
// It only delays requests and never retries one.
type RateLimitedLister struct {
	next    AccountLister
	limiter *rate.Limiter
}

var _ AccountLister = (*RateLimitedLister)(nil)

// NewRateLimitedLister allows rps requests per second with the given burst.
// rps <= 0 disables pacing; burst < 1 is raised to 1.
func NewRateLimitedLister(next AccountLister, rps float64, burst int) *RateLimitedLister {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}

	if burst < 1 {
		burst = 1
	}

	return &RateLimitedLister{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// ListAccounts waits for a token, then delegates.
func (l *RateLimitedLister) ListAccounts(ctx context.Context, nextToken string) (Page, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return Page{}, fmt.Errorf("rate limiter wait: %w", err)
	}

	return l.next.ListAccounts(ctx, nextToken)
}
