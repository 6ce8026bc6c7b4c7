// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ghost implements the packet/transaction data model and the
// six-step send/receive pipeline of spec §4.2: compose, mask, embed,
// broadcast, receive-and-gate, commit. Grounded on
// protocol/quasar/epoch.go's epoch-rotated key lifecycle and
// protocol/wave/wave.go's Config/Tick shape for the engine's
// step-by-step gate; metrics via prometheus/client_golang, mirroring
// metrics/metrics.go; logging via github.com/luxfi/log, mirroring
// log/log.go's NoLog.
package ghost

import (
	"time"

	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/ghostnet-labs/core/operators/stego"
	"github.com/ghostnet-labs/core/operators/zk"
	"github.com/google/uuid"
	"github.com/luxfi/math/set"
)

// NodeIdentity is a host's addressless identity: a 128-bit UUID, its
// current resonance position, and the capability set it advertises
// (spec §3). Identities may be regenerated at will; none of it
// persists beyond the host's chosen session. Capabilities uses the
// teacher's generic set.Set[T] (engine/core/interfaces.go's
// set.Set[ids.NodeID]) rather than a hand-rolled map, the same type
// beacon.Beacon and routing.Route use for their own string/NodeID
// sets.
type NodeIdentity struct {
	ID           uuid.UUID
	Resonance    resonance.State
	Capabilities set.Set[string]
	CreatedAt    uint64
}

// NewNodeIdentity builds an identity with a fresh random UUID.
func NewNodeIdentity(state resonance.State, capabilities []string, createdAt uint64) (NodeIdentity, error) {
	if err := state.Validate(); err != nil {
		return NodeIdentity{}, err
	}
	return NodeIdentity{
		ID:           uuid.New(),
		Resonance:    state,
		Capabilities: set.Of(capabilities...),
		CreatedAt:    createdAt,
	}, nil
}

// Has reports whether the identity advertises capability c.
func (n NodeIdentity) Has(c string) bool {
	return n.Capabilities.Contains(c)
}

// GhostTransaction is the payload-bearing unit that eventually reaches
// the ledger: an action, its zero-knowledge proof, and the sender's
// resonance at composition time (spec §3).
type GhostTransaction struct {
	ID              uuid.UUID
	Action          []byte
	Proof           zk.Proof
	Statement       zk.Statement
	SenderResonance resonance.State
	CreatedAt       uint64
}

// NewGhostTransaction builds a GhostTransaction (step 1, "compose"),
// assigning a fresh UUID and validating the invariants of spec §3.
func NewGhostTransaction(action []byte, proof zk.Proof, statement zk.Statement, sender resonance.State, createdAt uint64) (GhostTransaction, error) {
	if len(action) == 0 {
		return GhostTransaction{}, common.New(common.KindInvalidInput, "action must not be empty")
	}
	if err := sender.Validate(); err != nil {
		return GhostTransaction{}, err
	}
	if createdAt == 0 {
		return GhostTransaction{}, common.New(common.KindInvalidInput, "created_at must be non-zero")
	}
	return GhostTransaction{
		ID:              uuid.New(),
		Action:          action,
		Proof:           proof,
		Statement:       statement,
		SenderResonance: sender,
		CreatedAt:       createdAt,
	}, nil
}

// GhostPacket is the wire-level envelope: masked_payload never
// reveals the sender's identity or the action it carries, but both
// endpoints' resonance states travel in clear so that resonance
// matching can happen without addresses (spec §3).
type GhostPacket struct {
	ID              uuid.UUID
	MaskedPayload   []byte
	TargetResonance resonance.State
	SenderResonance resonance.State
	CarrierType     stego.CarrierType
	TTL             uint32
	CreatedAt       uint64
	EphemeralKey    *[32]byte // present iff forward secrecy is enabled
	IntegrityTag    [32]byte
}

// NewGhostPacket builds a GhostPacket and computes its integrity tag.
// Construction fails if masked_payload is empty, ttl < 1, or either
// resonance state is non-finite — the invariants of spec §3.
func NewGhostPacket(maskedPayload []byte, target, sender resonance.State, carrier stego.CarrierType, ttl uint32, createdAt uint64, ephemeralKey *[32]byte) (GhostPacket, error) {
	if len(maskedPayload) == 0 {
		return GhostPacket{}, common.New(common.KindInvalidInput, "masked_payload must not be empty")
	}
	if ttl < 1 {
		return GhostPacket{}, common.New(common.KindInvalidInput, "ttl must be >= 1")
	}
	if err := target.Validate(); err != nil {
		return GhostPacket{}, err
	}
	if err := sender.Validate(); err != nil {
		return GhostPacket{}, err
	}

	p := GhostPacket{
		ID:              uuid.New(),
		MaskedPayload:   maskedPayload,
		TargetResonance: target,
		SenderResonance: sender,
		CarrierType:     carrier,
		TTL:             ttl,
		CreatedAt:       createdAt,
		EphemeralKey:    ephemeralKey,
	}
	p.IntegrityTag = computeIntegrityTag(p)
	return p, nil
}

// VerifyIntegrity recomputes the tag and reports whether it matches.
func (p GhostPacket) VerifyIntegrity() bool {
	return p.IntegrityTag == computeIntegrityTag(p)
}

// Expired reports whether the packet's TTL (interpreted as a
// lifetime in seconds from CreatedAt) has elapsed as of now.
func (p GhostPacket) Expired(now uint64) bool {
	return now > p.CreatedAt+uint64(p.TTL)
}

// Health is a point-in-time snapshot of engine-owned state, exposed so
// a host can wire it into a liveness probe without reaching into
// internals (SPEC_FULL.md's supplemented health-reporting feature,
// grounded on core/health.go / api/health/health.go).
type Health struct {
	RateLimiterEntries int
	LatencyEMA         time.Duration
	Metrics            Snapshot
}
