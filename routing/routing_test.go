// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package routing

import (
	"testing"

	"github.com/ghostnet-labs/core/collab"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/luxfi/math/set"
	"github.com/stretchr/testify/require"
)

func mustState(t *testing.T, psi, rho, omega float64) resonance.State {
	t.Helper()
	s, err := resonance.New(psi, rho, omega)
	require.NoError(t, err)
	return s
}

func TestRoute_LoopAvoidance(t *testing.T) {
	target := mustState(t, 1, 1, 1)
	near := collab.NodeID{1}
	far := collab.NodeID{2}
	neighbors := []collab.Neighbor{
		{ID: near, Resonance: mustState(t, 1.01, 1, 1), Quality: 1},
		{ID: far, Resonance: mustState(t, 50, 50, 50), Quality: 0.1},
	}

	visited := set.Of(near)
	d, err := Route(target, neighbors, visited, resonance.Window{Epsilon: 100}, DefaultWeights, CSPRNGSource{})
	require.NoError(t, err)
	require.Equal(t, far, d.Hop)
	require.Empty(t, d.Alternatives)
}

func TestRoute_NoRouteWhenAllVisited(t *testing.T) {
	target := mustState(t, 1, 1, 1)
	id := collab.NodeID{9}
	neighbors := []collab.Neighbor{{ID: id, Resonance: target, Quality: 1}}

	_, err := Route(target, neighbors, set.Of(id), resonance.Window{Epsilon: 1}, DefaultWeights, CSPRNGSource{})
	require.Error(t, err)
}

func TestRoute_PrefersHigherStrengthOverManyDraws(t *testing.T) {
	target := mustState(t, 1, 1, 1)
	near := collab.NodeID{1}
	far := collab.NodeID{2}
	neighbors := []collab.Neighbor{
		{ID: near, Resonance: mustState(t, 1.0, 1.0, 1.0), Quality: 0.5},
		{ID: far, Resonance: mustState(t, 1000, 1000, 1000), Quality: 0.5},
	}

	counts := map[collab.NodeID]int{}
	for i := 0; i < 200; i++ {
		d, err := Route(target, neighbors, nil, resonance.Window{Epsilon: 10}, DefaultWeights, NewGonumSource(int64(i)))
		require.NoError(t, err)
		counts[d.Hop]++
	}
	require.Greater(t, counts[near], counts[far])
}

func TestRoute_DegenerateWeightsStillPicksSomeone(t *testing.T) {
	target := mustState(t, 1, 1, 1)
	a := collab.NodeID{1}
	b := collab.NodeID{2}
	neighbors := []collab.Neighbor{
		{ID: a, Resonance: mustState(t, 1000, 1000, 1000), Quality: 0},
		{ID: b, Resonance: mustState(t, 2000, 2000, 2000), Quality: 0},
	}
	d, err := Route(target, neighbors, nil, resonance.Window{Epsilon: 0.001}, Weights{Alpha: 1, Beta: 0, Gamma: 0}, CSPRNGSource{})
	require.NoError(t, err)
	require.Contains(t, []collab.NodeID{a, b}, d.Hop)
}

func TestTopology_ObserveAndReportDelivery(t *testing.T) {
	top := NewTopology(0.5)
	id := collab.NodeID{7}
	require.NoError(t, top.Observe(collab.Neighbor{ID: id, Resonance: mustState(t, 1, 1, 1), Quality: 0.4}))
	require.Equal(t, 1, top.Len())

	require.NoError(t, top.ReportDelivery(id, collab.DeliveryOutcome{Success: true}))
	neighbors := top.Neighbors()
	require.Len(t, neighbors, 1)
	require.Greater(t, neighbors[0].Quality, 0.4)

	require.NoError(t, top.Forget(id))
	require.Equal(t, 0, top.Len())
}

func TestTopology_ReportDeliveryIgnoresUnknownPeer(t *testing.T) {
	top := NewTopology(0.5)
	require.NoError(t, top.ReportDelivery(collab.NodeID{1}, collab.DeliveryOutcome{Success: true}))
	require.Equal(t, 0, top.Len())
}
