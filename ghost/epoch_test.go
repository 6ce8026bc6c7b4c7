// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyringDerivesDistinctEpochs(t *testing.T) {
	var secret [32]byte
	secret[0] = 1
	k := NewKeyring(secret, 100)

	p0 := k.Params(0)
	p1 := k.Params(1)
	require.NotEqual(t, p0.Seed, p1.Seed)
	require.NotEqual(t, p0.Phase, p1.Phase)
}

func TestKeyringDeterministic(t *testing.T) {
	var secret [32]byte
	secret[0] = 7
	k := NewKeyring(secret, 100)

	require.Equal(t, k.Params(5), k.Params(5))
}

func TestCandidateParamsIncludesGraceWindow(t *testing.T) {
	var secret [32]byte
	k := NewKeyring(secret, 100)

	candidates := k.CandidateParams(250)
	require.Len(t, candidates, 2)
	require.Equal(t, k.Params(2), candidates[0])
	require.Equal(t, k.Params(1), candidates[1])
}

func TestCandidateParamsAtEpochZero(t *testing.T) {
	var secret [32]byte
	k := NewKeyring(secret, 100)

	candidates := k.CandidateParams(50)
	require.Len(t, candidates, 1)
}

func TestWithEphemeralChangesParams(t *testing.T) {
	var secret [32]byte
	k := NewKeyring(secret, 100)
	base := k.Params(1)

	key, err := EphemeralKey()
	require.NoError(t, err)

	withEph := WithEphemeral(base, key)
	require.NotEqual(t, base.Seed, withEph.Seed)
	require.NotEqual(t, base.Phase, withEph.Phase)
}
