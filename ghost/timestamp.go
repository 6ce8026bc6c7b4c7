// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"time"

	"github.com/ghostnet-labs/core/common"
)

// DefaultLatencyAlpha is the EMA smoothing factor for the one-way
// latency estimate, spec §4.2's α=0.3.
const DefaultLatencyAlpha = 0.3

// DefaultBaseSkew and DefaultMaxAge are spec §6's base_skew_s and
// max_age_s defaults, used when a caller constructs a validator with a
// zero duration for either bound.
const (
	DefaultBaseSkew = 60 * time.Second
	DefaultMaxAge   = 86400 * time.Second
)

// Future-tolerance and max-age clamp bounds, spec §4.2: "the allowed
// clock-skew tolerance T is clamp(BASE + 2*EMA + 10, 30s, 300s); the
// allowed maximum age A scales in [1h, 48h] against the same EMA."
const (
	minFutureTolerance = 30 * time.Second
	maxFutureTolerance = 300 * time.Second
	futureTolerancePad = 10 * time.Second

	minMaxAge = time.Hour
	maxMaxAge = 48 * time.Hour
)

// TimestampValidator enforces spec §4.2's adaptive timestamp bounds: a
// tight, EMA-scaled future-tolerance T and a much looser, EMA-scaled
// past max-age A, rather than one symmetric window applied to both
// directions. Grounded on common.EMA, shared with routing's
// quality-score decay.
type TimestampValidator struct {
	latency  *common.EMA
	baseSkew time.Duration // BASE in the T formula, spec §6's base_skew_s
	maxAge   time.Duration // baseline A scales around, spec §6's max_age_s
}

// NewTimestampValidator returns a validator with the given BASE
// (future-tolerance baseline) and max-age baseline; a zero value for
// either falls back to spec §6's default (60s, 24h).
func NewTimestampValidator(baseSkew, maxAge time.Duration) *TimestampValidator {
	if baseSkew <= 0 {
		baseSkew = DefaultBaseSkew
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &TimestampValidator{
		latency:  common.NewEMA(DefaultLatencyAlpha),
		baseSkew: baseSkew,
		maxAge:   maxAge,
	}
}

// ObserveLatency folds a freshly measured one-way latency sample into
// the estimator. The production call site is the broadcast fabric's
// delivery feedback: an Engine forwards collab.Transport.ReportDelivery
// outcomes to Engine.ObserveDeliveryLatency, which calls this. Without
// that wiring the EMA never rises above zero and every bound below
// collapses to its floor, which would wrongly reject any packet that
// spends more than a few seconds in transit.
func (v *TimestampValidator) ObserveLatency(d time.Duration) {
	if d < 0 {
		return
	}
	v.latency.Observe(float64(d))
}

// EMA returns the current one-way latency estimate.
func (v *TimestampValidator) EMA() time.Duration {
	return time.Duration(v.latency.Value())
}

// FutureTolerance returns T, the current acceptance bound for a
// packet timestamped ahead of the local clock.
func (v *TimestampValidator) FutureTolerance() time.Duration {
	t := v.baseSkew + 2*v.EMA() + futureTolerancePad
	return clampDuration(t, minFutureTolerance, maxFutureTolerance)
}

// MaxAge returns A, the current acceptance bound for a packet
// timestamped behind the local clock. It scales with the same EMA as
// FutureTolerance, but around the much larger max-age baseline and
// clamp range, since a stale-but-genuine packet is far more likely
// under a slow broadcast fabric than a forged one from the future.
func (v *TimestampValidator) MaxAge() time.Duration {
	a := v.maxAge + 2*v.EMA()
	return clampDuration(a, minMaxAge, maxMaxAge)
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

// Validate reports whether createdAt (unix seconds) is acceptable
// relative to nowUnix. A zero createdAt is always rejected (spec
// §4.2); otherwise a packet ahead of now is checked against
// FutureTolerance and a packet behind now is checked against MaxAge —
// two distinct, asymmetric bounds, not one symmetric window.
func (v *TimestampValidator) Validate(createdAt, nowUnix uint64) error {
	if createdAt == 0 {
		return common.New(common.KindTimestampInvalid, "packet timestamp is zero")
	}

	if createdAt > nowUnix {
		age := time.Duration(createdAt-nowUnix) * time.Second
		if age > v.FutureTolerance() {
			return common.New(common.KindTimestampInvalid, "packet timestamp is too far in the future")
		}
		return nil
	}

	age := time.Duration(nowUnix-createdAt) * time.Second
	if age > v.MaxAge() {
		return common.New(common.KindTimestampInvalid, "packet timestamp is too old")
	}
	return nil
}
