// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package collab declares the two external collaborator surfaces the
// core consumes but never implements (spec §1, §6): the ledger (an
// opaque append-and-verify service) and the transport (broadcast/
// receive/neighbor discovery). Grounded on the teacher's narrow,
// consumer-defined collaborator interfaces
// (core/interfaces/context.go, bootstrap/common.go) rather than a
// single monolithic dependency.
package collab

import (
	"context"
	"time"

	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/luxfi/ids"
)

// BlockHandle is an opaque reference to a committed block, returned by
// Ledger.Append; the core never interprets its contents.
type BlockHandle struct {
	Hash   [32]byte
	Height uint64
}

// Block is the ledger-reported shape the fork healing engine ranks
// candidates over (spec §3).
type Block struct {
	Hash          [32]byte
	Height        uint64
	ParentHash    [32]byte
	Resonance     resonance.State
	PayloadDigest [32]byte
	Timestamp     uint64
}

// ResonanceField is the reference field fork healing scores candidate
// blocks against (spec §4.6).
type ResonanceField struct {
	Center resonance.State
	Radius float64
}

// TxMetadata carries whatever the engine knows about a transaction at
// append time, beyond the raw action bytes: the resonance state it
// observed the transaction under and the packet id it arrived in.
type TxMetadata struct {
	TransactionID [16]byte
	SenderState   resonance.State
	ObservedAt    uint64
}

// Ledger is the opaque append-and-verify service the protocol engine
// and fork healing engine consume (spec §6). The core never sees or
// manipulates block internals beyond this surface.
type Ledger interface {
	Append(ctx context.Context, action []byte, meta TxMetadata) (BlockHandle, error)
	CompetingBlocks(ctx context.Context, height uint64) ([]Block, error)
	ReplaceBranch(ctx context.Context, newTip Block) error
	ResonanceField(ctx context.Context) (ResonanceField, error)
}

// Transport is the external carrier the broadcast fabric and routing
// component hand packets to; the core defines only what a transport
// must carry (spec §1), never how it carries it.
type Transport interface {
	Broadcast(ctx context.Context, packet []byte) error
	NextInbound(ctx context.Context, deadline time.Time) ([]byte, error)
	Neighbors(ctx context.Context) ([]Neighbor, error)
	ReportDelivery(ctx context.Context, peer NodeID, outcome DeliveryOutcome)
}

// NodeID identifies a transport-level peer. Distinct from the spec's
// 128-bit entity UUIDs (NodeIdentity.id, packet ids): this is the
// routing/topology identity, aliased directly to the teacher's
// ids.NodeID rather than re-declared, since routing and transport
// feedback operate on the same peer identity the teacher's networking
// layer does.
type NodeID = ids.NodeID

// Neighbor is one entry in a transport's view of its directly
// reachable peers (spec §4.5/§6).
type Neighbor struct {
	ID        NodeID
	Resonance resonance.State
	Quality   float64
}

// DeliveryOutcome reports whether a send to a peer succeeded, driving
// the topology's quality-score feedback loop (spec §6).
type DeliveryOutcome struct {
	Success bool
	Latency time.Duration
}
