// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package fabric

import (
	"testing"
	"time"

	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/stretchr/testify/require"
)

func mustState(t *testing.T, psi, rho, omega float64) resonance.State {
	t.Helper()
	s, err := resonance.New(psi, rho, omega)
	require.NoError(t, err)
	return s
}

func TestTable_PublishAndDrain(t *testing.T) {
	table := NewTable(0)
	center := mustState(t, 1, 1, 1)
	ch, err := table.Open(center, 0.5, 100, 1, 10, false)
	require.NoError(t, err)

	target := mustState(t, 1.01, 1, 1)
	delivered, err := table.Publish(target, []byte("packet-1"))
	require.NoError(t, err)
	require.Equal(t, 1, delivered)

	out, err := table.Drain(ch.ID, nil)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("packet-1")}, out)

	snap := table.StatsSnapshot()
	require.EqualValues(t, 1, snap.Published)
	require.EqualValues(t, 1, snap.Consumed)
}

func TestTable_PublishDoesNotMatchOutOfRangeTarget(t *testing.T) {
	table := NewTable(0)
	center := mustState(t, 1, 1, 1)
	_, err := table.Open(center, 0.01, 100, 1, 10, false)
	require.NoError(t, err)

	far := mustState(t, 100, 100, 100)
	delivered, err := table.Publish(far, []byte("packet"))
	require.NoError(t, err)
	require.Equal(t, 0, delivered)
}

func TestTable_CapacityExceeded(t *testing.T) {
	table := NewTable(1)
	center := mustState(t, 0, 0, 0)
	_, err := table.Open(center, 1, 100, 1, 10, false)
	require.NoError(t, err)

	_, err = table.Open(center, 1, 100, 1, 10, false)
	require.Error(t, err)
	kind, ok := common.GetKind(err)
	require.True(t, ok)
	require.Equal(t, common.KindCapacityExceeded, kind)
}

func TestTable_Sweep(t *testing.T) {
	table := NewTable(0)
	center := mustState(t, 0, 0, 0)
	ch, err := table.Open(center, 1, 10, 1, 10, false)
	require.NoError(t, err)
	_, err = table.Publish(center, []byte("x"))
	require.NoError(t, err)

	droppedCh, droppedPkt, err := table.Sweep(5)
	require.NoError(t, err)
	require.Equal(t, 0, droppedCh)
	require.Equal(t, 0, droppedPkt)

	droppedCh, droppedPkt, err = table.Sweep(20)
	require.NoError(t, err)
	require.Equal(t, 1, droppedCh)
	require.Equal(t, 1, droppedPkt)
	require.Equal(t, 0, table.ActiveCount())

	_, err = table.Drain(ch.ID, nil)
	require.NoError(t, err)
}

func TestTable_DecoyChannelIsolatesRealChannels(t *testing.T) {
	table := NewTable(0)
	center := mustState(t, 0, 0, 0)
	real, err := table.Open(center, 1000, 100, 1, 10, false)
	require.NoError(t, err)
	decoy, err := table.Open(center, 1000, 100, 1, 10, true)
	require.NoError(t, err)

	table.publishDecoy(center, []byte("noise"))

	realOut, err := table.Drain(real.ID, nil)
	require.NoError(t, err)
	require.Empty(t, realOut)

	decoyOut, err := table.Drain(decoy.ID, nil)
	require.NoError(t, err)
	require.Len(t, decoyOut, 1)

	require.EqualValues(t, 1, table.StatsSnapshot().DecoysEmitted)
}

func TestDecoyGenerator_EmitsAtConfiguredRate(t *testing.T) {
	table := NewTable(0)
	center := mustState(t, 0, 0, 0)
	_, err := table.Open(center, 2000, 100, 1, 100, true)
	require.NoError(t, err)

	gen := NewDecoyGenerator(table, 200) // 200 pps: fast enough for a short test
	gen.Start()
	defer gen.Stop()

	require.Eventually(t, func() bool {
		return table.StatsSnapshot().DecoysEmitted > 0
	}, time.Second, 5*time.Millisecond)
}

func TestStartExpirySweeper(t *testing.T) {
	table := NewTable(0)
	center := mustState(t, 0, 0, 0)
	clock := common.NewClockAt(time.Unix(100, 0))
	_, err := table.Open(center, 1, 1, clock.Unix(), 10, false)
	require.NoError(t, err)
	require.Equal(t, 1, table.ActiveCount())

	laterClock := common.NewClockAt(time.Unix(200, 0))
	sweeper := StartExpirySweeper(table, 5*time.Millisecond, laterClock)
	require.Eventually(t, func() bool { return table.ActiveCount() == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, sweeper.Stop())
}
