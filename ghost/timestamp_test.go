// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestampValidatorRejectsZero(t *testing.T) {
	v := NewTimestampValidator(0, 0)
	require.Error(t, v.Validate(0, 1000))
}

func TestTimestampValidatorDefaultBounds(t *testing.T) {
	v := NewTimestampValidator(0, 0)
	require.NoError(t, v.Validate(1000, 1000))
	require.NoError(t, v.Validate(1000, 1001))

	// future tolerance defaults to BASE(60s)+10s = 70s with no EMA observed
	require.NoError(t, v.Validate(1000, 1000-70))
	require.Error(t, v.Validate(1000, 1000-71))

	// max age defaults to 24h, comfortably inside the [1h,48h] clamp
	require.NoError(t, v.Validate(1000, 1000+uint64(24*time.Hour/time.Second)))
	require.Error(t, v.Validate(1000, 1000+uint64(49*time.Hour/time.Second)))
}

func TestTimestampValidatorRejectsFuture(t *testing.T) {
	v := NewTimestampValidator(0, 0)
	err := v.Validate(2000, 1000)
	require.Error(t, err)
}

func TestTimestampValidatorFutureToleranceAdaptsToLatency(t *testing.T) {
	v := NewTimestampValidator(0, 0)
	for i := 0; i < 20; i++ {
		v.ObserveLatency(30 * time.Second)
	}
	require.InDelta(t, 30*time.Second, v.EMA(), float64(2*time.Second))

	// T = clamp(60 + 2*30 + 10, 30, 300) = 130s, wider than the
	// zero-latency default of 70s.
	require.NoError(t, v.Validate(1000, 1000-120))
	require.Error(t, v.Validate(1000, 1000-140))
}

func TestTimestampValidatorFutureToleranceClampsAtCeiling(t *testing.T) {
	v := NewTimestampValidator(0, 0)
	for i := 0; i < 50; i++ {
		v.ObserveLatency(10 * time.Minute)
	}
	require.Equal(t, 300*time.Second, v.FutureTolerance())
}

func TestTimestampValidatorMaxAgeScalesWithLatency(t *testing.T) {
	v := NewTimestampValidator(0, time.Hour)
	require.Equal(t, time.Hour, v.MaxAge())

	for i := 0; i < 50; i++ {
		v.ObserveLatency(10 * time.Hour)
	}
	require.Equal(t, 21*time.Hour, v.MaxAge())
}
