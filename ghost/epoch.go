// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/masking"
	"github.com/luxfi/crypto/hashing"
)

// DefaultEpochDuration is the default epoch length in seconds, the
// rotation period for masking keys derived from a shared secret
// (spec §4.2's epoch-based key-agreement). Grounded on
// protocol/quasar/epoch.go's fixed-duration epoch clock.
const DefaultEpochDuration = uint64(3600)

// Keyring derives per-epoch masking.Params from a long-lived shared
// secret, the same shared-secret-plus-epoch-counter key-agreement
// shape as protocol/quasar/epoch.go, adapted from validator-set epoch
// rotation to masking-key rotation. A receiver who has fallen one
// epoch behind still recovers the packet (the one-epoch grace window
// of spec §4.2) by additionally trying epoch-1.
type Keyring struct {
	secret   [32]byte
	duration uint64
}

// NewKeyring returns a Keyring rotating every duration seconds off of
// secret. duration=0 selects DefaultEpochDuration.
func NewKeyring(secret [32]byte, duration uint64) *Keyring {
	if duration == 0 {
		duration = DefaultEpochDuration
	}
	return &Keyring{secret: secret, duration: duration}
}

// EpochAt returns the epoch number in effect at unix time t.
func (k *Keyring) EpochAt(t uint64) uint64 { return t / k.duration }

// Params derives the masking.Params for a given epoch. Seed and Phase
// are independently domain-separated so neither can be derived from
// the other.
func (k *Keyring) Params(epoch uint64) masking.Params {
	var epochBuf [8]byte
	binary.BigEndian.PutUint64(epochBuf[:], epoch)

	var p masking.Params
	p.Seed = hashing.ComputeHash256Array(append(append([]byte("ghost_network_epoch_seed_v1"), k.secret[:]...), epochBuf[:]...))
	p.Phase = hashing.ComputeHash256Array(append(append([]byte("ghost_network_epoch_phase_v1"), k.secret[:]...), epochBuf[:]...))
	return p
}

// CurrentParams derives the masking.Params in effect at unix time t.
func (k *Keyring) CurrentParams(t uint64) (epoch uint64, params masking.Params) {
	epoch = k.EpochAt(t)
	return epoch, k.Params(epoch)
}

// CandidateParams returns the masking.Params to try when receiving a
// packet at unix time t: the current epoch first, then the
// immediately prior epoch (the grace window), in that order.
func (k *Keyring) CandidateParams(t uint64) []masking.Params {
	epoch := k.EpochAt(t)
	candidates := []masking.Params{k.Params(epoch)}
	if epoch > 0 {
		candidates = append(candidates, k.Params(epoch-1))
	}
	return candidates
}

// EphemeralKey derives a per-packet forward-secrecy keystream
// supplement from an ephemeral key carried on the wire (spec §4.2's
// optional forward secrecy), folding it into the epoch masking.Params
// so a compromised long-lived secret alone cannot unmask a captured
// packet retroactively.
func EphemeralKey() ([32]byte, error) {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		return [32]byte{}, common.Wrap(common.KindInvalidInput, "failed to generate ephemeral key", err)
	}
	return key, nil
}

// WithEphemeral folds an ephemeral key into base params, producing the
// effective per-packet params used for forward-secrecy-enabled sends.
func WithEphemeral(base masking.Params, ephemeral [32]byte) masking.Params {
	out := base
	out.Seed = hashing.ComputeHash256Array(append(append([]byte("ghost_network_ephemeral_seed_v1"), base.Seed[:]...), ephemeral[:]...))
	out.Phase = hashing.ComputeHash256Array(append(append([]byte("ghost_network_ephemeral_phase_v1"), base.Phase[:]...), ephemeral[:]...))
	return out
}
