// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package healing

import (
	"context"
	"testing"

	"github.com/ghostnet-labs/core/collab"
	"github.com/ghostnet-labs/core/collab/collabmock"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func mustState(t *testing.T, psi, rho, omega float64) resonance.State {
	t.Helper()
	s, err := resonance.New(psi, rho, omega)
	require.NoError(t, err)
	return s
}

func blockWithHash(t *testing.T, hashByte byte, res resonance.State) collab.Block {
	t.Helper()
	var h [32]byte
	h[31] = hashByte
	return collab.Block{Hash: h, Height: 10, Resonance: res}
}

func TestResolve_HighestCoherenceWins(t *testing.T) {
	field := collab.ResonanceField{Center: mustState(t, 0, 0, 0), Radius: 1}
	near := blockWithHash(t, 2, mustState(t, 0.1, 0, 0))
	far := blockWithHash(t, 1, mustState(t, 10, 0, 0))

	winner, err := Resolve([]collab.Block{far, near}, field, nil)
	require.NoError(t, err)
	require.Equal(t, near.Hash, winner.Hash)
}

func TestResolve_TiesBreakByLexicographicHash(t *testing.T) {
	field := collab.ResonanceField{Center: mustState(t, 0, 0, 0), Radius: 1}
	sameRes := mustState(t, 1, 1, 1)
	b1 := blockWithHash(t, 0x01, sameRes)
	b2 := blockWithHash(t, 0x02, sameRes)

	winner, err := Resolve([]collab.Block{b2, b1}, field, nil)
	require.NoError(t, err)
	require.Equal(t, b1.Hash, winner.Hash)
}

func TestResolve_TieBreakSurvivesDegenerateZeroField(t *testing.T) {
	field := collab.ResonanceField{Center: mustState(t, 0, 0, 0), Radius: 1}
	zeroCoherence := func(collab.Block, collab.ResonanceField) (float64, error) { return 0, nil }

	b1 := blockWithHash(t, 0x01, mustState(t, 5, 5, 5))
	b2 := blockWithHash(t, 0x02, mustState(t, 9, 9, 9))

	winner, err := Resolve([]collab.Block{b2, b1}, field, zeroCoherence)
	require.NoError(t, err)
	require.Equal(t, b1.Hash, winner.Hash)
}

func TestRank_DropsMalformedCandidates(t *testing.T) {
	field := collab.ResonanceField{Center: mustState(t, 0, 0, 0), Radius: 1}
	good := blockWithHash(t, 1, mustState(t, 1, 1, 1))
	var zero [32]byte
	malformed := collab.Block{Hash: zero, Resonance: mustState(t, 1, 1, 1)}

	ranked, err := Rank([]collab.Block{good, malformed}, field, nil)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	require.Equal(t, good.Hash, ranked[0].Block.Hash)
}

func TestRank_NoSurvivingCandidatesErrors(t *testing.T) {
	field := collab.ResonanceField{Center: mustState(t, 0, 0, 0), Radius: 1}
	var zero [32]byte
	malformed := collab.Block{Hash: zero}
	_, err := Rank([]collab.Block{malformed}, field, nil)
	require.Error(t, err)
}

func TestEngine_HealSwapsAndReplays(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := collabmock.NewMockLedger(ctrl)

	field := collab.ResonanceField{Center: mustState(t, 0, 0, 0), Radius: 1}
	winner := blockWithHash(t, 1, mustState(t, 0, 0, 0))
	loser := blockWithHash(t, 2, mustState(t, 50, 50, 50))

	ledger.EXPECT().CompetingBlocks(gomock.Any(), uint64(10)).Return([]collab.Block{winner, loser}, nil)
	ledger.EXPECT().ResonanceField(gomock.Any()).Return(field, nil)
	ledger.EXPECT().ReplaceBranch(gomock.Any(), winner).Return(nil)

	engine := NewEngine(ledger, nil, nil)

	losing := []LosingBranch{{Block: loser, Actions: [][]byte{[]byte("a1"), []byte("a2")}}}
	replayed := [][]byte{}
	replay := func(ctx context.Context, action []byte) (bool, error) {
		replayed = append(replayed, action)
		return true, nil
	}

	got, results, err := engine.Heal(context.Background(), 10, losing, replay)
	require.NoError(t, err)
	require.Equal(t, winner.Hash, got.Hash)
	require.Len(t, results, 2)
	require.Equal(t, [][]byte{[]byte("a1"), []byte("a2")}, replayed)
	for _, r := range results {
		require.True(t, r.Accepted)
	}
}

func TestEngine_HealSkipsWinnerBranchActions(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := collabmock.NewMockLedger(ctrl)

	field := collab.ResonanceField{Center: mustState(t, 0, 0, 0), Radius: 1}
	winner := blockWithHash(t, 1, mustState(t, 0, 0, 0))

	ledger.EXPECT().CompetingBlocks(gomock.Any(), uint64(5)).Return([]collab.Block{winner}, nil)
	ledger.EXPECT().ResonanceField(gomock.Any()).Return(field, nil)
	ledger.EXPECT().ReplaceBranch(gomock.Any(), winner).Return(nil)

	engine := NewEngine(ledger, nil, nil)
	losing := []LosingBranch{{Block: winner, Actions: [][]byte{[]byte("should-not-replay")}}}
	called := false
	replay := func(ctx context.Context, action []byte) (bool, error) {
		called = true
		return true, nil
	}

	_, results, err := engine.Heal(context.Background(), 5, losing, replay)
	require.NoError(t, err)
	require.False(t, called)
	require.Empty(t, results)
}
