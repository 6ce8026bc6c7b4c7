// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package routing implements the addressless routing fabric of spec
// §4.5: resonance+entropy weighted next-hop selection over a
// transport-fed topology view, with loop avoidance. Grounded on
// protocol/wave/wave.go's Transport.RequestVotes/sampler pairing
// (weighted peer sampling) and the teacher's topology-as-feedback-loop
// shape; entropy source via crypto/rand per spec §4.5, with
// gonum.org/v1/gonum/stat/distuv available as the pluggable
// QRNG-substitute's default noise distribution.
package routing

import (
	"github.com/ghostnet-labs/core/collab"
	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
)

type link struct {
	resonance   resonance.State
	quality     float64
	successRate float64
}

// Topology is the routing component's read-mostly view of directly
// reachable neighbors (spec §4.5). It is fed exclusively by upstream
// transport feedback (Observe, ReportDelivery); routing itself only
// reads it via Neighbors.
type Topology struct {
	guard common.RWGuard
	links map[collab.NodeID]*link
	alpha float64
}

// NewTopology returns an empty Topology. alpha is the exponential
// smoothing factor applied to delivery-outcome feedback; <=0 defaults
// to 0.3, the same smoothing constant ghost's latency EMA uses.
func NewTopology(alpha float64) *Topology {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.3
	}
	return &Topology{links: make(map[collab.NodeID]*link), alpha: alpha}
}

// Observe registers or refreshes a neighbor's advertised resonance and
// quality, typically sourced from collab.Transport.Neighbors.
func (t *Topology) Observe(n collab.Neighbor) error {
	return t.guard.Write(func() {
		lm, ok := t.links[n.ID]
		if !ok {
			t.links[n.ID] = &link{resonance: n.Resonance, quality: n.Quality, successRate: 1}
			return
		}
		lm.resonance = n.Resonance
		lm.quality = n.Quality
	})
}

// Forget removes a neighbor from the topology, e.g. once a transport
// reports it permanently unreachable.
func (t *Topology) Forget(id collab.NodeID) error {
	return t.guard.Write(func() {
		delete(t.links, id)
	})
}

// ReportDelivery folds a delivery outcome into peer's exponentially
// decayed success rate and quality score (spec §6; SPEC_FULL.md's
// topology feedback loop), the same smoothing shape as ghost's
// adaptive-timestamp EMA. Unknown peers are ignored: there is nothing
// to decay for a neighbor Observe has not yet registered.
func (t *Topology) ReportDelivery(peer collab.NodeID, outcome collab.DeliveryOutcome) error {
	return t.guard.Write(func() {
		lm, ok := t.links[peer]
		if !ok {
			return
		}
		sample := 0.0
		if outcome.Success {
			sample = 1.0
		}
		lm.successRate = t.alpha*sample + (1-t.alpha)*lm.successRate
		lm.quality = common.Clamp(t.alpha*lm.successRate+(1-t.alpha)*lm.quality, 0, 1)
	})
}

// Neighbors returns a best-effort snapshot of every tracked neighbor,
// in the shape routing.Route consumes.
func (t *Topology) Neighbors() []collab.Neighbor {
	var out []collab.Neighbor
	t.guard.Read(func() {
		out = make([]collab.Neighbor, 0, len(t.links))
		for id, lm := range t.links {
			out = append(out, collab.Neighbor{ID: id, Resonance: lm.resonance, Quality: lm.quality})
		}
	})
	return out
}

// Len reports how many neighbors are currently tracked.
func (t *Topology) Len() int {
	n := 0
	t.guard.Read(func() { n = len(t.links) })
	return n
}
