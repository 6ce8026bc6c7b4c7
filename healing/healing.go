// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package healing implements fork self-healing (spec §4.6): ranking
// candidate blocks at a contested height by coherence against a
// reference resonance field, with a deterministic lexicographic
// tie-break (the "attractor" mechanism). Grounded on
// core/dag/horizon.go / protocol/quasar/horizon.go's candidate-block
// ranking over a DAG, and on the teacher's ids.ID lexicographic
// tie-break convention used throughout core/block and core/dag.
package healing

import (
	"bytes"
	"sort"

	"github.com/ghostnet-labs/core/collab"
	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
)

// CoherenceFunc scores a candidate block against a reference
// resonance field, in [0,1]. Pluggable per spec §9's first Open
// Question: the richer "Mandorla Eigenstate Fractal" formulation is
// future work and is deliberately not attempted here.
type CoherenceFunc func(block collab.Block, field collab.ResonanceField) (float64, error)

// DefaultCoherence is the baseline coherence function, spec §4.6:
// 1 / (1 + dist(block.resonance, field.center)). Deterministic and
// bounded in (0,1] for any well-formed, finite input.
func DefaultCoherence(block collab.Block, field collab.ResonanceField) (float64, error) {
	d, err := resonance.Distance(block.Resonance, field.Center, resonance.Weights{})
	if err != nil {
		return 0, err
	}
	return 1 / (1 + d), nil
}

// Candidate pairs a block with its computed coherence score.
type Candidate struct {
	Block     collab.Block
	Coherence float64
}

var zeroHash [32]byte

// isMalformed reports whether a block must be dropped before scoring
// (spec §4.6): a zero hash (no real identity) or a non-finite
// resonance state.
func isMalformed(b collab.Block) bool {
	if b.Hash == zeroHash {
		return true
	}
	return b.Resonance.Validate() != nil
}

// Rank scores every well-formed candidate and returns them sorted by
// descending coherence, breaking ties by lexicographically smallest
// hash (spec §4.6's resolution rule). The first element is the
// resolution winner. Malformed candidates are silently dropped and do
// not participate; if every surviving candidate scores zero, the
// tie-break alone still produces a unique, deterministic ordering.
func Rank(candidates []collab.Block, field collab.ResonanceField, coherenceFn CoherenceFunc) ([]Candidate, error) {
	if coherenceFn == nil {
		coherenceFn = DefaultCoherence
	}

	out := make([]Candidate, 0, len(candidates))
	for _, b := range candidates {
		if isMalformed(b) {
			continue
		}
		score, err := coherenceFn(b, field)
		if err != nil {
			return nil, err
		}
		out = append(out, Candidate{Block: b, Coherence: common.Clamp(score, 0, 1)})
	}
	if len(out) == 0 {
		return nil, common.New(common.KindInvalidInput, "no well-formed fork candidates to rank")
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Coherence != out[j].Coherence {
			return out[i].Coherence > out[j].Coherence
		}
		return bytes.Compare(out[i].Block.Hash[:], out[j].Block.Hash[:]) < 0
	})
	return out, nil
}

// Resolve picks the single winning candidate: Rank's first element.
func Resolve(candidates []collab.Block, field collab.ResonanceField, coherenceFn CoherenceFunc) (collab.Block, error) {
	ranked, err := Rank(candidates, field, coherenceFn)
	if err != nil {
		return collab.Block{}, err
	}
	return ranked[0].Block, nil
}
