// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package beacon

import (
	"testing"

	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func mustState(t *testing.T, psi, rho, omega float64) resonance.State {
	t.Helper()
	s, err := resonance.New(psi, rho, omega)
	require.NoError(t, err)
	return s
}

func TestNew_RejectsNilNodeID(t *testing.T) {
	_, err := New(uuid.Nil, mustState(t, 0, 0, 0), []string{"relay"}, 100, 1)
	require.Error(t, err)
	kind, ok := common.GetKind(err)
	require.True(t, ok)
	require.Equal(t, common.KindInvalidInput, kind)
}

func TestTable_FindByCapabilities(t *testing.T) {
	table := NewTable()
	node := uuid.New()
	b, err := New(node, mustState(t, 1, 1, 1), []string{"relay", "voting"}, 100, 1)
	require.NoError(t, err)
	require.NoError(t, table.Publish(b))

	found := table.FindByCapabilities([]string{"relay"}, 10)
	require.Len(t, found, 1)
	require.Equal(t, node, found[0].NodeID)

	require.Empty(t, table.FindByCapabilities([]string{"marketplace"}, 10))
}

func TestTable_FindByCapabilitiesExcludesExpired(t *testing.T) {
	table := NewTable()
	b, err := New(uuid.New(), mustState(t, 0, 0, 0), []string{"relay"}, 10, 1)
	require.NoError(t, err)
	require.NoError(t, table.Publish(b))

	require.Len(t, table.FindByCapabilities([]string{"relay"}, 5), 1)
	require.Empty(t, table.FindByCapabilities([]string{"relay"}, 50))
}

func TestTable_Sweep(t *testing.T) {
	table := NewTable()
	b1, err := New(uuid.New(), mustState(t, 0, 0, 0), nil, 10, 1)
	require.NoError(t, err)
	b2, err := New(uuid.New(), mustState(t, 0, 0, 0), nil, 1000, 1)
	require.NoError(t, err)
	require.NoError(t, table.Publish(b1))
	require.NoError(t, table.Publish(b2))

	removed, err := table.Sweep(50)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, table.ActiveCount())
}

func TestTable_Revoke(t *testing.T) {
	table := NewTable()
	b, err := New(uuid.New(), mustState(t, 0, 0, 0), []string{"relay"}, 1000, 1)
	require.NoError(t, err)
	require.NoError(t, table.Publish(b))
	require.NoError(t, table.Revoke(b.BeaconID))
	require.Empty(t, table.FindByCapabilities(nil, 1))
}

func TestTable_FindByCapabilitiesEmptyWantMatchesAllNonExpired(t *testing.T) {
	table := NewTable()
	b1, err := New(uuid.New(), mustState(t, 0, 0, 0), []string{"a"}, 1000, 1)
	require.NoError(t, err)
	b2, err := New(uuid.New(), mustState(t, 0, 0, 0), []string{"b"}, 1000, 1)
	require.NoError(t, err)
	require.NoError(t, table.Publish(b1))
	require.NoError(t, table.Publish(b2))

	require.Len(t, table.FindByCapabilities(nil, 1), 2)
}
