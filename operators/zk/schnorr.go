// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package zk

import (
	"crypto/rand"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// proveSchnorr proves knowledge of (value, blind) opening
// commitment = value*G + blind*H, without revealing either. This is
// the classic Schnorr sigma protocol generalized to a two-generator
// Pedersen commitment (a "Chaum-Pedersen"-style proof of a single
// committed value).
//
// The prover picks random (k1,k2), commits R = k1*G + k2*H, derives
// the challenge c = H(transcript), and responds with
// s1 = k1 + c*value, s2 = k2 + c*blind (mod r). Here S folds both
// responses into one scalar pair encoded via Proof.S for the
// Knowledge/Generic shapes, which only ever commit a single value
// with its blind folded the same way Commit does.
func proveSchnorr(value, blind *big.Int, commitment bn254.G1Affine, shape Shape, context []byte) (bn254.G1Affine, *big.Int, error) {
	order := scalarFieldOrder()

	k1, err := rand.Int(rand.Reader, order)
	if err != nil {
		return bn254.G1Affine{}, nil, err
	}
	k2, err := rand.Int(rand.Reader, order)
	if err != nil {
		return bn254.G1Affine{}, nil, err
	}

	var r bn254.G1Affine
	r.ScalarMultiplication(&genG, reduce(k1))
	var k2H bn254.G1Affine
	k2H.ScalarMultiplication(&genH, reduce(k2))
	r.Add(&r, &k2H)

	c := fiatShamir([]byte(shape.String()), marshalPoint(r), marshalPoint(commitment), context)

	s1 := new(big.Int).Mod(new(big.Int).Add(k1, new(big.Int).Mul(c, value)), order)
	s2 := new(big.Int).Mod(new(big.Int).Add(k2, new(big.Int).Mul(c, blind)), order)

	// Fold (s1, s2) into a single transmissible scalar pair packed as
	// s1*order + s2's low bits would lose precision; instead keep both
	// explicitly via a small struct-like byte encoding.
	s := packPair(s1, s2)
	return r, s, nil
}

func verifySchnorr(r bn254.G1Affine, s *big.Int, commitment bn254.G1Affine, shape Shape, context []byte) bool {
	if s == nil {
		return false
	}
	s1, s2 := unpackPair(s)

	c := fiatShamir([]byte(shape.String()), marshalPoint(r), marshalPoint(commitment), context)

	var lhs, s1G, s2H bn254.G1Affine
	s1G.ScalarMultiplication(&genG, reduce(s1))
	s2H.ScalarMultiplication(&genH, reduce(s2))
	lhs.Add(&s1G, &s2H)

	var rhs, cC bn254.G1Affine
	cC.ScalarMultiplication(&commitment, reduce(c))
	rhs.Add(&r, &cC)

	return lhs.Equal(&rhs)
}

// packPair/unpackPair encode two field-sized scalars into one
// transmissible big.Int by concatenating their fixed-width byte
// encodings, since the wire Proof carries a single *big.Int per
// Schnorr response.
func packPair(a, b *big.Int) *big.Int {
	width := 32
	buf := make([]byte, 2*width)
	a.FillBytes(buf[:width])
	b.FillBytes(buf[width:])
	return new(big.Int).SetBytes(buf)
}

func unpackPair(v *big.Int) (*big.Int, *big.Int) {
	width := 32
	buf := make([]byte, 2*width)
	v.FillBytes(buf)
	return new(big.Int).SetBytes(buf[:width]), new(big.Int).SetBytes(buf[width:])
}
