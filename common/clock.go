// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package common

import (
	"sync"
	"time"
)

// Clock is a monotonic time source, overridable in tests the same way
// the teacher's benchmark harnesses stub time.Now.
type Clock struct {
	now func() time.Time
}

// NewClock returns a Clock backed by the real wall clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockAt returns a Clock frozen at t, advancing only when Advance
// is called. Intended for deterministic tests.
func NewClockAt(t time.Time) *Clock {
	return &Clock{now: func() time.Time { return t }}
}

// Now returns the current time.
func (c *Clock) Now() time.Time { return c.now() }

// Unix returns the current Unix timestamp in seconds, the wire
// granularity of every created_at field in the packet model.
func (c *Clock) Unix() uint64 {
	now := c.now()
	if now.Unix() < 0 {
		return 0
	}
	return uint64(now.Unix())
}

// EMA is an exponential moving average with smoothing factor alpha,
// shared by the protocol engine's one-way-latency estimator (§4.2) and
// the routing topology's quality-score decay. Grounded on the same
// smoothed-observation shape as github.com/luxfi/metric.Averager,
// used directly in ghost for the latency EMA; EMA itself backs the
// lighter-weight quality decay in routing where a full Averager is
// unnecessary.
type EMA struct {
	mu      sync.Mutex
	alpha   float64
	value   float64
	primed  bool
}

// NewEMA returns an EMA with the given smoothing factor. alpha must be
// in (0, 1]; values outside that range are clamped.
func NewEMA(alpha float64) *EMA {
	if alpha <= 0 {
		alpha = 0.01
	}
	if alpha > 1 {
		alpha = 1
	}
	return &EMA{alpha: alpha}
}

// Observe folds a new sample into the average and returns the updated
// value. The first observation seeds the average directly.
func (e *EMA) Observe(sample float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.primed {
		e.value = sample
		e.primed = true
		return e.value
	}
	e.value = e.alpha*sample + (1-e.alpha)*e.value
	return e.value
}

// Value returns the current average without observing a new sample.
func (e *EMA) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
