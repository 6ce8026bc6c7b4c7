// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package zk

import (
	"math/big"
	"testing"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeProveVerify(t *testing.T) {
	value := big.NewInt(42)
	blind := big.NewInt(7)
	commitment := Commit(value, blind)
	st := Statement{Shape: ShapeKnowledge, Commitment: commitment, Context: []byte("ctx")}

	proof, err := Prove(ShapeKnowledge, Witness{Value: value, Blind: blind}, st, time.Hour, 1000)
	require.NoError(t, err)

	ok, err := Verify(proof, st, 1000)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestKnowledgeRejectsWrongWitness(t *testing.T) {
	value := big.NewInt(42)
	blind := big.NewInt(7)
	commitment := Commit(value, blind)
	st := Statement{Shape: ShapeKnowledge, Commitment: commitment}

	proof, err := Prove(ShapeKnowledge, Witness{Value: big.NewInt(43), Blind: blind}, st, time.Hour, 1000)
	require.NoError(t, err)

	ok, err := Verify(proof, st, 1000)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProofExpiry(t *testing.T) {
	value := big.NewInt(1)
	blind := big.NewInt(2)
	commitment := Commit(value, blind)
	st := Statement{Shape: ShapeKnowledge, Commitment: commitment}

	proof, err := Prove(ShapeKnowledge, Witness{Value: value, Blind: blind}, st, time.Second, 1000)
	require.NoError(t, err)

	ok, err := Verify(proof, st, 1000)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = Verify(proof, st, 1002)
	require.Error(t, err)
}

func TestMembershipProveVerify(t *testing.T) {
	values := []*big.Int{big.NewInt(10), big.NewInt(20), big.NewInt(30)}
	blinds := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}

	commitments := make([]bn254.G1Affine, len(values))
	for i := range values {
		commitments[i] = Commit(values[i], blinds[i])
	}

	st := Statement{Shape: ShapeMembership, Set: commitments}
	proof, err := Prove(ShapeMembership, Witness{Value: values[1], Blind: blinds[1]}, st, time.Hour, 0)
	require.NoError(t, err)

	ok, err := Verify(proof, st, 0)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMembershipRejectsNonMember(t *testing.T) {
	values := []*big.Int{big.NewInt(10), big.NewInt(20)}
	blinds := []*big.Int{big.NewInt(1), big.NewInt(2)}
	commitments := make([]bn254.G1Affine, len(values))
	for i := range values {
		commitments[i] = Commit(values[i], blinds[i])
	}
	st := Statement{Shape: ShapeMembership, Set: commitments}

	_, err := Prove(ShapeMembership, Witness{Value: big.NewInt(999), Blind: big.NewInt(1)}, st, time.Hour, 0)
	require.Error(t, err)
}

func TestRangeProveVerify(t *testing.T) {
	value := big.NewInt(55)
	blind := big.NewInt(9)
	commitment := Commit(value, blind)
	st := Statement{
		Shape:      ShapeRange,
		Commitment: commitment,
		Min:        big.NewInt(0),
		Max:        big.NewInt(100),
	}

	proof, err := Prove(ShapeRange, Witness{Value: value, Blind: blind}, st, time.Hour, 0)
	require.NoError(t, err)

	ok, err := Verify(proof, st, 0)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGenericProveVerify(t *testing.T) {
	value := big.NewInt(7)
	blind := big.NewInt(3)
	commitment := Commit(value, blind)
	st := Statement{Shape: ShapeGeneric, Commitment: commitment, Context: []byte("app-specific-claim")}

	proof, err := Prove(ShapeGeneric, Witness{Value: value, Blind: blind}, st, time.Hour, 0)
	require.NoError(t, err)

	ok, err := Verify(proof, st, 0)
	require.NoError(t, err)
	require.True(t, ok)
}
