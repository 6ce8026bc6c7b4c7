// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config collects the process-start tunables of spec §6 into
// a single struct, in the same DefaultParams/MainnetParams/TestnetParams
// tiering shape as the teacher's config/config.go — here Default,
// Strict and Permissive tiers, since this core has no mainnet/testnet
// split of its own.
package config

import (
	"errors"
	"time"

	"github.com/ghostnet-labs/core/ghost"
	"github.com/ghostnet-labs/core/operators/stego"
	"github.com/ghostnet-labs/core/routing"
)

// Errors mirroring the teacher's config.Err* parameter-validation
// sentinels.
var (
	ErrEpochDurationZero  = errors.New("epoch_duration_s must be > 0")
	ErrRateLimitZero      = errors.New("rate_limit_max_failures must be > 0")
	ErrRateWindowZero     = errors.New("rate_limit_window_s must be > 0")
	ErrCarrierBitsInvalid = errors.New("carrier_capacity_bits_per_sample must be between 1 and 3")
	ErrRoutingWeightsNeg  = errors.New("routing_weights components must be >= 0")
)

// Config is the spec §6 configuration table, process-start tunables
// for every subsystem the core drives.
type Config struct {
	EpochDurationSecs         uint64
	ForwardSecrecy            bool
	BaseSkewSecs              uint64
	MaxAgeSecs                uint64
	RateLimitWindowSecs       uint64
	RateLimitMaxFailures      int
	CarrierCapacityBitsPerSample int
	RoutingWeights            routing.Weights
	DecoyRatePPS              float64
}

// Default returns spec §6's stated defaults.
func Default() Config {
	return Config{
		EpochDurationSecs:            3600,
		ForwardSecrecy:               true,
		BaseSkewSecs:                 60,
		MaxAgeSecs:                   86400,
		RateLimitWindowSecs:          60,
		RateLimitMaxFailures:         10,
		CarrierCapacityBitsPerSample: 2,
		RoutingWeights:               routing.DefaultWeights,
		DecoyRatePPS:                 0,
	}
}

// Strict tightens the defaults for a deployment that would rather drop
// a marginal packet than admit a forged one: a shorter epoch (smaller
// forward-secrecy compromise window), a tighter rate-limit budget, and
// a higher decoy rate to raise the traffic-analysis noise floor.
func Strict() Config {
	c := Default()
	c.EpochDurationSecs = 900
	c.BaseSkewSecs = 30
	c.MaxAgeSecs = 3600
	c.RateLimitMaxFailures = 5
	c.DecoyRatePPS = 2
	return c
}

// Permissive relaxes the defaults for a development or low-latency
// test deployment with generous clock skew and rate-limit tolerance.
func Permissive() Config {
	c := Default()
	c.EpochDurationSecs = 7200
	c.BaseSkewSecs = 300
	c.MaxAgeSecs = 172800
	c.RateLimitMaxFailures = 100
	c.RateLimitWindowSecs = 300
	return c
}

// Validate rejects a Config with out-of-range fields before it is used
// to build an Engine, rather than surfacing the problem as a confusing
// runtime rejection of every packet.
func (c Config) Validate() error {
	if c.EpochDurationSecs == 0 {
		return ErrEpochDurationZero
	}
	if c.RateLimitMaxFailures <= 0 {
		return ErrRateLimitZero
	}
	if c.RateLimitWindowSecs == 0 {
		return ErrRateWindowZero
	}
	if c.CarrierCapacityBitsPerSample < 1 || c.CarrierCapacityBitsPerSample > 3 {
		return ErrCarrierBitsInvalid
	}
	if c.RoutingWeights.Alpha < 0 || c.RoutingWeights.Beta < 0 || c.RoutingWeights.Gamma < 0 {
		return ErrRoutingWeightsNeg
	}
	return nil
}

// EngineConfig projects the subset of Config that ghost.NewEngine
// consumes directly, leaving Masker/Carrier/Window to the caller (they
// depend on the host's chosen carrier backend and resonance window,
// which this package has no opinion on).
func (c Config) EngineConfig() ghost.Config {
	return ghost.Config{
		RateLimit:      c.RateLimitMaxFailures,
		RateWindowSecs: c.RateLimitWindowSecs,
		EpochDuration:  c.EpochDurationSecs,
		ForwardSecrecy: c.ForwardSecrecy,
		BaseSkew:       c.BaseSkew(),
		MaxAge:         c.MaxAge(),
	}
}

// BaseSkew and MaxAge return the two durations as time.Duration, for
// callers composing their own adaptive-timestamp policy on top of
// ghost.TimestampValidator's EMA.
func (c Config) BaseSkew() time.Duration { return time.Duration(c.BaseSkewSecs) * time.Second }
func (c Config) MaxAge() time.Duration   { return time.Duration(c.MaxAgeSecs) * time.Second }

// ImageCarrier and AudioCarrier build stego carriers at the configured
// bits-per-sample density.
func (c Config) ImageCarrier() stego.Carrier { return stego.LSBImage{BitsPerSample: c.CarrierCapacityBitsPerSample} }
func (c Config) AudioCarrier() stego.Carrier { return stego.LSBAudio{BitsPerSample: c.CarrierCapacityBitsPerSample} }
