// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package routing

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/ghostnet-labs/core/collab"
	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/luxfi/math/set"
)

// Weights are the per-term coefficients of the next-hop scoring
// function (spec §4.5): w = alpha*strength + beta*quality + gamma*noise.
// All three fall in [0,1].
type Weights struct {
	Alpha, Beta, Gamma float64
}

// DefaultWeights is the spec's default (0.6, 0.3, 0.1).
var DefaultWeights = Weights{Alpha: 0.6, Beta: 0.3, Gamma: 0.1}

// Decision is a routing outcome: the chosen next hop plus an ordered
// list of alternatives (by descending score) so a transport can fall
// back without re-invoking Route (spec §4.5).
type Decision struct {
	Hop          collab.NodeID
	Alternatives []collab.NodeID
}

type scored struct {
	id     collab.NodeID
	weight float64
}

// Route selects a next hop for target by weighted sampling over
// neighbors, refusing to select any neighbor present in visited (loop
// avoidance). Fails with NoRoute if every neighbor has already been
// visited. entropy defaults to CSPRNGSource if nil. visited uses the
// teacher's set.Set[T] (see ghost.NodeIdentity.Capabilities); its zero
// value is an empty set, so a caller routing a packet's first hop can
// pass one uninitialized.
func Route(target resonance.State, neighbors []collab.Neighbor, visited set.Set[collab.NodeID], window resonance.Window, weights Weights, entropy EntropySource) (Decision, error) {
	if entropy == nil {
		entropy = CSPRNGSource{}
	}
	if weights == (Weights{}) {
		weights = DefaultWeights
	}

	candidates := make([]scored, 0, len(neighbors))
	for _, n := range neighbors {
		if visited.Contains(n.ID) {
			continue
		}
		strength, err := resonance.Strength(n.Resonance, target, window)
		if err != nil {
			return Decision{}, err
		}
		noise, err := entropy.Noise()
		if err != nil {
			return Decision{}, err
		}
		w := weights.Alpha*strength + weights.Beta*n.Quality + weights.Gamma*noise
		if w < 0 {
			w = 0
		}
		candidates = append(candidates, scored{id: n.ID, weight: w})
	}
	if len(candidates) == 0 {
		return Decision{}, common.New(common.KindNoRoute, "no unvisited neighbor available")
	}

	idx, err := sampleWeighted(candidates)
	if err != nil {
		return Decision{}, err
	}

	ordered := orderByWeightDesc(candidates)
	alts := make([]collab.NodeID, 0, len(ordered)-1)
	for _, c := range ordered {
		if c.id != candidates[idx].id {
			alts = append(alts, c.id)
		}
	}
	return Decision{Hop: candidates[idx].id, Alternatives: alts}, nil
}

// sampleWeighted draws an index proportional to each candidate's
// weight. If every weight is zero (a degenerate field), it falls back
// to a uniform draw so a route is still produced.
func sampleWeighted(candidates []scored) (int, error) {
	total := 0.0
	for _, c := range candidates {
		total += c.weight
	}
	if total <= 0 {
		return uniformIndex(len(candidates))
	}
	r, err := uniformFloat(total)
	if err != nil {
		return 0, err
	}
	cum := 0.0
	for i, c := range candidates {
		cum += c.weight
		if r < cum {
			return i, nil
		}
	}
	return len(candidates) - 1, nil
}

// orderByWeightDesc returns a copy of candidates sorted by descending
// weight, used to build Decision.Alternatives.
func orderByWeightDesc(candidates []scored) []scored {
	out := make([]scored, len(candidates))
	copy(out, candidates)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].weight > out[j-1].weight; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func uniformFloat(max float64) (float64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, common.Wrap(common.KindUnknown, "entropy read failed", err)
	}
	u := float64(binary.BigEndian.Uint64(buf[:])) / float64(^uint64(0))
	return u * max, nil
}

func uniformIndex(n int) (int, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, common.Wrap(common.KindUnknown, "entropy read failed", err)
	}
	u := binary.BigEndian.Uint64(buf[:])
	return int(u % uint64(n)), nil
}
