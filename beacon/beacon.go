// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package beacon implements discovery (spec §4.4): short-lived
// advertisements of a node's resonance and capabilities, indexed so a
// receiver can find_by_capabilities against non-expired beacons.
// Grounded on the same TTL-sweep shape as fabric (uptime/manager.go's
// RWGuard-protected table), capability-indexed the way
// protocol/wave/wave.go's vote tallies are keyed by proposer.
package beacon

import (
	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/google/uuid"
	"github.com/luxfi/math/set"
)

// Beacon is a DiscoveryBeacon (spec §3): a short-lived advertisement
// of a node's resonance and capability set. Capabilities uses the
// teacher's set.Set[T] (see ghost.NodeIdentity.Capabilities), the
// same generic type routing.Route uses for its visited set.
type Beacon struct {
	BeaconID     uuid.UUID
	NodeID       uuid.UUID
	Resonance    resonance.State
	Capabilities set.Set[string]
	TTL          uint64 // seconds from CreatedAt
	CreatedAt    uint64
}

// New builds a Beacon with a fresh beacon id, validating the
// invariants of spec §3 (non-nil node id, finite resonance).
func New(nodeID uuid.UUID, state resonance.State, capabilities []string, ttl, now uint64) (Beacon, error) {
	if nodeID == uuid.Nil {
		return Beacon{}, common.New(common.KindInvalidInput, "node_id must not be nil")
	}
	if err := state.Validate(); err != nil {
		return Beacon{}, err
	}
	return Beacon{
		BeaconID:     uuid.New(),
		NodeID:       nodeID,
		Resonance:    state,
		Capabilities: set.Of(capabilities...),
		TTL:          ttl,
		CreatedAt:    now,
	}, nil
}

// Expired reports whether the beacon's TTL has elapsed as of now.
func (b Beacon) Expired(now uint64) bool {
	return now > b.CreatedAt+b.TTL
}

// Has reports whether the beacon advertises capability c.
func (b Beacon) Has(c string) bool {
	return b.Capabilities.Contains(c)
}

// hasAll reports whether b advertises every capability in want.
func (b Beacon) hasAll(want []string) bool {
	for _, c := range want {
		if !b.Has(c) {
			return false
		}
	}
	return true
}

// Table is the discovery index: a bounded-lifetime set of beacons,
// protected by the same poison-tolerant RWGuard every shared table in
// the core uses. The view is eventually consistent by design (spec
// §4.4): beacons may arrive out of order or be re-published, but every
// reachable, non-expired beacon is findable once its Publish call has
// returned.
type Table struct {
	guard   common.RWGuard
	entries map[uuid.UUID]Beacon
}

// NewTable returns an empty discovery table.
func NewTable() *Table {
	return &Table{entries: make(map[uuid.UUID]Beacon)}
}

// Publish registers or refreshes a beacon.
func (t *Table) Publish(b Beacon) error {
	return t.guard.Write(func() {
		t.entries[b.BeaconID] = b
	})
}

// Revoke removes a beacon immediately, ahead of its natural TTL
// expiry (e.g. a host withdrawing a capability advertisement).
func (t *Table) Revoke(id uuid.UUID) error {
	return t.guard.Write(func() {
		delete(t.entries, id)
	})
}

// FindByCapabilities returns every non-expired beacon advertising all
// of want (spec §4.4's find_by_capabilities). An empty want matches
// every non-expired beacon.
func (t *Table) FindByCapabilities(want []string, now uint64) []Beacon {
	var out []Beacon
	t.guard.Read(func() {
		for _, b := range t.entries {
			if b.Expired(now) {
				continue
			}
			if b.hasAll(want) {
				out = append(out, b)
			}
		}
	})
	return out
}

// Sweep removes every beacon expired as of now, returning how many
// were dropped. Cooperative, like fabric's channel sweeper.
func (t *Table) Sweep(now uint64) (removed int, err error) {
	err = t.guard.Write(func() {
		for id, b := range t.entries {
			if b.Expired(now) {
				delete(t.entries, id)
				removed++
			}
		}
	})
	return removed, err
}

// ActiveCount returns the number of beacons currently held, expired or
// not (a cheap liveness signal; callers wanting only live beacons
// should use FindByCapabilities with an empty want or call Sweep
// first).
func (t *Table) ActiveCount() int {
	n := 0
	t.guard.Read(func() { n = len(t.entries) })
	return n
}
