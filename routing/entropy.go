// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package routing

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"

	"github.com/ghostnet-labs/core/common"
	"gonum.org/v1/gonum/stat/distuv"
)

// EntropySource supplies the noise term of the next-hop scoring
// function. Pluggable so a hardware QRNG can substitute for the
// CSPRNG default without changing Route's call site (spec §4.5).
type EntropySource interface {
	// Noise returns a value in [0,1).
	Noise() (float64, error)
}

// CSPRNGSource draws uniform noise in [0,1) from crypto/rand, the
// default entropy source.
type CSPRNGSource struct{}

// Noise implements EntropySource.
func (CSPRNGSource) Noise() (float64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, common.Wrap(common.KindUnknown, "entropy source failed", err)
	}
	return float64(binary.BigEndian.Uint64(buf[:])) / float64(^uint64(0)), nil
}

// GonumSource draws noise from a gonum stat/distuv uniform
// distribution, the shape a hardware QRNG substitute would plug into:
// a deterministic, seedable Src swaps in for whatever hardware
// entropy feed a host wires up. Intended primarily for reproducible
// tests; production code defaults to CSPRNGSource.
type GonumSource struct {
	dist distuv.Uniform
}

// NewGonumSource returns a GonumSource seeded deterministically from
// seed.
func NewGonumSource(seed int64) GonumSource {
	return GonumSource{dist: distuv.Uniform{Min: 0, Max: 1, Src: mrand.NewSource(seed)}}
}

// Noise implements EntropySource.
func (g GonumSource) Noise() (float64, error) {
	return g.dist.Rand(), nil
}
