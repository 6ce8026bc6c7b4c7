// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package zk

import (
	"crypto/rand"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/ghostnet-labs/core/common"
)

// proveRange proves knowledge of value opening st.Commitment (via the
// same Schnorr construction as Knowledge) together with a linking
// proof that two auxiliary commitments CLo = Commit(value-Min, rlo)
// and CHi = Commit(Max-value, rhi) are algebraically consistent with
// Min and Max: since (value-Min) + (Max-value) = Max-Min identically,
// CLo + CHi - (Max-Min)*G collapses to a pure H-multiple, namely
// (rlo+rhi)*H, which the prover demonstrates knowledge of via a
// single-generator Schnorr proof.
//
// This proves the prover picked a value consistent with the stated
// bounds and knows openings for both halves; it does not, by itself,
// force lo and hi to be non-negative field elements (a true range
// proof needs a bit-decomposition or bulletproof-style argument, which
// this reference operator does not implement — see the package doc
// comment). Hosts that need hard non-negativity enforcement should
// layer a bit-commitment range proof on top rather than rely on this
// shape alone.
func proveRange(w Witness, st Statement, expires uint64) (Proof, error) {
	if st.Min == nil || st.Max == nil {
		return Proof{}, common.New(common.KindInvalidInput, "range statement requires Min and Max")
	}
	order := scalarFieldOrder()

	r, s, err := proveSchnorr(w.Value, w.Blind, st.Commitment, ShapeRange, st.Context)
	if err != nil {
		return Proof{}, err
	}

	rlo, err := rand.Int(rand.Reader, order)
	if err != nil {
		return Proof{}, err
	}
	rhi, err := rand.Int(rand.Reader, order)
	if err != nil {
		return Proof{}, err
	}

	lo := new(big.Int).Sub(w.Value, st.Min)
	hi := new(big.Int).Sub(st.Max, w.Value)
	cLo := Commit(lo, rlo)
	cHi := Commit(hi, rhi)

	z := new(big.Int).Mod(new(big.Int).Add(rlo, rhi), order)
	d := rangeLinkPoint(cLo, cHi, st.Min, st.Max)

	k, err := rand.Int(rand.Reader, order)
	if err != nil {
		return Proof{}, err
	}
	var linkR bn254.G1Affine
	linkR.ScalarMultiplication(&genH, reduce(k))

	c := fiatShamir([]byte("range-link"), marshalPoint(linkR), marshalPoint(d))
	linkS := new(big.Int).Mod(new(big.Int).Add(k, new(big.Int).Mul(c, z)), order)

	return Proof{
		Shape:     ShapeRange,
		ExpiresAt: expires,
		R:         r,
		S:         s,
		CLo:       cLo,
		CHi:       cHi,
		LinkR:     linkR,
		LinkS:     linkS,
	}, nil
}

func verifyRange(proof Proof, st Statement) bool {
	if st.Min == nil || st.Max == nil {
		return false
	}
	if !verifySchnorr(proof.R, proof.S, st.Commitment, ShapeRange, st.Context) {
		return false
	}

	d := rangeLinkPoint(proof.CLo, proof.CHi, st.Min, st.Max)
	c := fiatShamir([]byte("range-link"), marshalPoint(proof.LinkR), marshalPoint(d))

	var lhs, rhs, cD bn254.G1Affine
	lhs.ScalarMultiplication(&genH, reduce(proof.LinkS))
	cD.ScalarMultiplication(&d, reduce(c))
	rhs.Add(&proof.LinkR, &cD)

	return lhs.Equal(&rhs)
}

// rangeLinkPoint computes CLo + CHi - (Max-Min)*G, the point whose
// discrete log w.r.t. H the prover must demonstrate knowledge of.
func rangeLinkPoint(cLo, cHi bn254.G1Affine, min, max *big.Int) bn254.G1Affine {
	var sum, span, d bn254.G1Affine
	sum.Add(&cLo, &cHi)
	span.ScalarMultiplication(&genG, reduce(new(big.Int).Sub(max, min)))
	d.Sub(&sum, &span)
	return d
}
