package ratelimit

import (
	"context"
	"sync"
	"time"

	"daybrief/internal/apierr"
	"daybrief/internal/httpjson"

	"golang.org/x/time/rate"
)

// DefaultMinGap keeps a provider with a 3 requests/second ceiling safely below it.
const DefaultMinGap = 380 * time.Millisecond

// Gateway serializes requests to a QPS-limited provider. Every dispatched request
// starts at least minGap after the previous one. Create one per provider and share it.
type Gateway struct {
	provider string
	next     httpjson.Getter
	limiter  *rate.Limiter
	minGap   time.Duration

	mu        sync.Mutex
	watermark time.Time // earliest start of the next dispatch

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New wraps next so that requests through it are spaced by minGap.
// A non-positive minGap disables throttling.
func New(provider string, next httpjson.Getter, minGap time.Duration) *Gateway {
	limit := rate.Inf
	if minGap > 0 {
		limit = rate.Every(minGap)
	} else {
		minGap = 0
	}
	return &Gateway{
		provider: provider,
		next:     next,
		limiter:  rate.NewLimiter(limit, 1),
		minGap:   minGap,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// MinGap returns the configured minimum gap between requests.
func (g *Gateway) MinGap() time.Duration { return g.minGap }

// GetJSON waits for the provider's next allowed time, then dispatches the request.
// The limiter paces callers; the watermark holds the exact gap, as the limiter's
// float token math may release a request a few nanoseconds early.
func (g *Gateway) GetJSON(ctx context.Context, rawURL string, out any) error {
	now := g.now()
	r := g.limiter.ReserveN(now, 1)
	if err := g.sleep(ctx, r.DelayFrom(now)); err != nil {
		r.CancelAt(g.now())
		return g.aborted(err)
	}
	if err := g.claim(ctx); err != nil {
		return g.aborted(err)
	}
	return g.next.GetJSON(ctx, rawURL, out)
}

// claim blocks until the watermark has passed, then moves it to now+minGap.
func (g *Gateway) claim(ctx context.Context) error {
	for {
		g.mu.Lock()
		now := g.now()
		if !now.Before(g.watermark) {
			g.watermark = now.Add(g.minGap)
			g.mu.Unlock()
			return nil
		}
		wait := g.watermark.Sub(now)
		g.mu.Unlock()
		if err := g.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (g *Gateway) aborted(err error) error {
	return &apierr.TransportError{Provider: g.provider, Message: "rate limit wait aborted", Err: err}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
