// Package location wraps a position provider into an observable "current
// location or unknown" stream. Provider failures never terminate the
// feed; subscribers simply keep the last known value.
package location

import (
	"context"
	"sync"
	"time"

	"restaurante/internal/events"
	"restaurante/internal/geo"

	"github.com/rs/zerolog"
)

// Provider yields one position fix per call. Implementations may block up
// to the context deadline.
type Provider interface {
	Next(ctx context.Context) (geo.Point, error)
}

// Feed polls a Provider and publishes positions. A nil published point
// means location is unknown.
type Feed struct {
	provider Provider
	interval time.Duration
	logger   zerolog.Logger

	value *events.Value[*geo.Point]

	mu          sync.Mutex
	firstFix    bool
	initRegion  *geo.Region
	firstRadius float64
}

// NewFeed builds a feed around provider. firstRadius sizes the initial
// viewing region fixed by the first fix; provider may be nil, in which
// case only manual Set calls publish positions.
func NewFeed(provider Provider, interval time.Duration, firstRadius float64, logger *zerolog.Logger) *Feed {
	f := &Feed{
		provider:    provider,
		interval:    interval,
		logger:      logger.With().Str("component", "location").Logger(),
		value:       events.NewValue[*geo.Point](),
		firstFix:    true,
		firstRadius: firstRadius,
	}
	// Until a fix arrives the location is unknown.
	f.value.Publish(nil)
	return f
}

// Run polls the provider until ctx is canceled. It is a no-op without a
// provider.
func (f *Feed) Run(ctx context.Context) {
	if f.provider == nil {
		return
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.poll(ctx)
		}
	}
}

func (f *Feed) poll(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, f.interval)
	defer cancel()

	p, err := f.provider.Next(pollCtx)
	if err != nil {
		f.logger.Warn().Err(err).Msg("location fix failed")
		return
	}
	f.Set(p)
}

// Set publishes a position, fixing the initial viewing region on the
// first fix.
func (f *Feed) Set(p geo.Point) {
	f.mu.Lock()
	if f.firstFix {
		f.initRegion = &geo.Region{
			Center:    p,
			LatMeters: f.firstRadius * 2,
			LonMeters: f.firstRadius * 2,
		}
		f.firstFix = false
	}
	f.mu.Unlock()

	f.value.Publish(&p)
}

// RecenterRegion recomputes the viewing region around the current
// position with the given radius. Called on explicit user request only;
// ordinary fixes never move the region after the first one.
func (f *Feed) RecenterRegion(radius float64) *geo.Region {
	cur, _ := f.value.Current()
	if cur == nil {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.initRegion = &geo.Region{
		Center:    *cur,
		LatMeters: radius * 2,
		LonMeters: radius * 2,
	}
	return f.initRegion
}

// Region returns the current viewing region, nil before the first fix.
func (f *Feed) Region() *geo.Region {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initRegion
}

// Subscribe registers fn for position changes, replaying the latest value.
func (f *Feed) Subscribe(fn func(*geo.Point)) (cancel func()) {
	return f.value.Subscribe(fn)
}

// Current returns the latest position, nil when unknown.
func (f *Feed) Current() *geo.Point {
	p, _ := f.value.Current()
	return p
}
