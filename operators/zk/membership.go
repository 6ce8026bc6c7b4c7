// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package zk

import (
	"crypto/rand"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/ghostnet-labs/core/common"
)

// proveMembership builds a 1-of-N OR proof (Cramer-Damgard-Schoenmakers)
// showing the witness opens exactly one of st.Set's candidate
// commitments, without revealing which. All but the real branch are
// simulated: the prover picks that branch's response and challenge
// first and solves backward for a consistent commitment, which is
// indistinguishable from a real proof to a verifier that only checks
// each branch's equation and the challenge sum.
func proveMembership(w Witness, st Statement, expires uint64) (Proof, error) {
	n := len(st.Set)
	if n == 0 {
		return Proof{}, common.New(common.KindInvalidInput, "membership set must not be empty")
	}

	order := scalarFieldOrder()
	myCommit := Commit(w.Value, w.Blind)

	idx := -1
	for i, cand := range st.Set {
		if cand.Equal(&myCommit) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Proof{}, common.New(common.KindInvalidInput, "witness does not open any candidate in the membership set")
	}

	Rs := make([]bn254.G1Affine, n)
	chal := make([]*big.Int, n)
	resp := make([]*big.Int, n)

	sumOtherChal := new(big.Int)
	for j := 0; j < n; j++ {
		if j == idx {
			continue
		}
		c, err := rand.Int(rand.Reader, order)
		if err != nil {
			return Proof{}, err
		}
		s1, err := rand.Int(rand.Reader, order)
		if err != nil {
			return Proof{}, err
		}
		s2, err := rand.Int(rand.Reader, order)
		if err != nil {
			return Proof{}, err
		}

		// R_j = s1*G + s2*H - c*Set[j]
		var s1G, s2H, cSet, r bn254.G1Affine
		s1G.ScalarMultiplication(&genG, reduce(s1))
		s2H.ScalarMultiplication(&genH, reduce(s2))
		cSet.ScalarMultiplication(&st.Set[j], reduce(c))
		r.Sub(&s1G, &cSet)
		r.Add(&r, &s2H)

		Rs[j] = r
		chal[j] = c
		resp[j] = packPair(s1, s2)
		sumOtherChal.Mod(new(big.Int).Add(sumOtherChal, c), order)
	}

	k1, err := rand.Int(rand.Reader, order)
	if err != nil {
		return Proof{}, err
	}
	k2, err := rand.Int(rand.Reader, order)
	if err != nil {
		return Proof{}, err
	}
	var rIdx, k2H bn254.G1Affine
	rIdx.ScalarMultiplication(&genG, reduce(k1))
	k2H.ScalarMultiplication(&genH, reduce(k2))
	rIdx.Add(&rIdx, &k2H)
	Rs[idx] = rIdx

	global := membershipTranscript(st.Set, Rs)
	cIdx := new(big.Int).Mod(new(big.Int).Sub(global, sumOtherChal), order)
	chal[idx] = cIdx

	s1 := new(big.Int).Mod(new(big.Int).Add(k1, new(big.Int).Mul(cIdx, w.Value)), order)
	s2 := new(big.Int).Mod(new(big.Int).Add(k2, new(big.Int).Mul(cIdx, w.Blind)), order)
	resp[idx] = packPair(s1, s2)

	return Proof{
		Shape:     ShapeMembership,
		ExpiresAt: expires,
		ORCommit:  Rs,
		ORChal:    chal,
		ORResp:    resp,
	}, nil
}

func verifyMembership(proof Proof, st Statement) bool {
	n := len(st.Set)
	if n == 0 || len(proof.ORCommit) != n || len(proof.ORChal) != n || len(proof.ORResp) != n {
		return false
	}
	order := scalarFieldOrder()

	sum := new(big.Int)
	for j := 0; j < n; j++ {
		s1, s2 := unpackPair(proof.ORResp[j])

		var lhs, s1G, s2H bn254.G1Affine
		s1G.ScalarMultiplication(&genG, reduce(s1))
		s2H.ScalarMultiplication(&genH, reduce(s2))
		lhs.Add(&s1G, &s2H)

		var rhs, cSet bn254.G1Affine
		cSet.ScalarMultiplication(&st.Set[j], reduce(proof.ORChal[j]))
		rhs.Add(&proof.ORCommit[j], &cSet)

		if !lhs.Equal(&rhs) {
			return false
		}
		sum.Mod(new(big.Int).Add(sum, proof.ORChal[j]), order)
	}

	expected := membershipTranscript(st.Set, proof.ORCommit)
	return sum.Cmp(new(big.Int).Mod(expected, order)) == 0
}

func membershipTranscript(set []bn254.G1Affine, rs []bn254.G1Affine) *big.Int {
	parts := make([][]byte, 0, 2*len(set))
	for _, c := range set {
		parts = append(parts, marshalPoint(c))
	}
	for _, r := range rs {
		parts = append(parts, marshalPoint(r))
	}
	return fiatShamir(parts...)
}
