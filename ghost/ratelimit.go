// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"encoding/binary"
	"math"

	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/luxfi/crypto/hashing"
)

// fingerprintPrecision is the number of decimal places a resonance
// component is rounded to before fingerprinting, so that two packets
// from the same sender in the presence of harmless floating-point
// jitter still collide into the same rate-limiter bucket.
const fingerprintPrecision = 1e6

// Fingerprint derives a stable bucket key for a sender's resonance
// state (spec §4.2's rate limiting keyed by sender-resonance
// fingerprint, since there is no address to key on).
func Fingerprint(s resonance.State) [32]byte {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(math.Round(s.Psi*fingerprintPrecision)))
	binary.BigEndian.PutUint64(buf[8:16], uint64(math.Round(s.Rho*fingerprintPrecision)))
	binary.BigEndian.PutUint64(buf[16:24], uint64(math.Round(s.Omega*fingerprintPrecision)))
	return hashing.ComputeHash256Array(buf[:])
}

// RateLimiter is a sliding-window limiter keyed by sender-resonance
// fingerprint: at most Limit timestamp-validation failures from one
// fingerprint within Window (spec §4.2), after which further packets
// from that fingerprint are rejected for the remainder of the window.
// Grounded on common.RWGuard for the poison-tolerant locking
// discipline the rest of the core uses for shared mutable tables.
type RateLimiter struct {
	guard  common.RWGuard
	limit  int
	window uint64 // seconds
	hits   map[[32]byte][]uint64
}

// NewRateLimiter returns a limiter blocking a fingerprint once it has
// accrued limit timestamp-validation failures within windowSeconds.
// Spec §6's defaults are limit=10, windowSeconds=60.
func NewRateLimiter(limit int, windowSeconds uint64) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: windowSeconds,
		hits:   make(map[[32]byte][]uint64),
	}
}

// Blocked reports whether sender's fingerprint has already accrued
// Limit-or-more timestamp-validation failures within the sliding
// window as of now (spec §4.2: "reject further packets from that
// fingerprint for the remainder of the window"). It does not itself
// record anything; callers check Blocked before validating a
// timestamp and call RecordFailure only when that validation fails.
// Fails closed (reports blocked) if the guard has been poisoned by a
// prior panic, per the poison-tolerant lock contract.
func (r *RateLimiter) Blocked(sender resonance.State, now uint64) (bool, error) {
	fp := Fingerprint(sender)
	blocked := false

	err := r.guard.Write(func() {
		cutoff := uint64(0)
		if now > r.window {
			cutoff = now - r.window
		}
		hits := r.hits[fp]
		kept := hits[:0]
		for _, t := range hits {
			if t >= cutoff {
				kept = append(kept, t)
			}
		}
		r.hits[fp] = kept
		blocked = len(kept) >= r.limit
	})
	if err != nil {
		return true, err
	}
	return blocked, nil
}

// RecordFailure records a timestamp-validation failure from sender at
// time now, counting toward the sliding-window threshold Blocked
// checks.
func (r *RateLimiter) RecordFailure(sender resonance.State, now uint64) error {
	fp := Fingerprint(sender)
	return r.guard.Write(func() {
		cutoff := uint64(0)
		if now > r.window {
			cutoff = now - r.window
		}
		hits := r.hits[fp]
		kept := hits[:0]
		for _, t := range hits {
			if t >= cutoff {
				kept = append(kept, t)
			}
		}
		r.hits[fp] = append(kept, now)
	})
}

// Entries returns the number of distinct fingerprints currently
// tracked, for Health reporting.
func (r *RateLimiter) Entries() int {
	n := 0
	r.guard.Read(func() { n = len(r.hits) })
	return n
}

// Prune drops fingerprints with no hits inside the window as of now,
// bounding the table's memory growth over a long-running process.
func (r *RateLimiter) Prune(now uint64) error {
	return r.guard.Write(func() {
		cutoff := uint64(0)
		if now > r.window {
			cutoff = now - r.window
		}
		for fp, hits := range r.hits {
			kept := hits[:0]
			for _, t := range hits {
				if t >= cutoff {
					kept = append(kept, t)
				}
			}
			if len(kept) == 0 {
				delete(r.hits, fp)
			} else {
				r.hits[fp] = kept
			}
		}
	})
}
