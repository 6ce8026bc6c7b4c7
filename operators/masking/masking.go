// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package masking implements the Masking (M) operator: a deterministic,
// reversible, length-preserving scramble of a message keyed by a
// 32-byte seed and a 32-byte phase. Grounded on the wipe-on-drop key
// discipline of ringtail/keys.go and the epoch-rotation lifecycle of
// protocol/quasar/epoch.go; H() is github.com/luxfi/crypto/hashing's
// ComputeHash256Array, as used in protocol/mysticeti/types.go.
package masking

import (
	"encoding/binary"

	"github.com/ghostnet-labs/core/common"
	"github.com/luxfi/crypto/hashing"
)

// MaxMessageSize is the hard bound on mask() input, configurable by
// the host. The default matches spec.md's 100 MiB boundary.
const MaxMessageSize = 100 * 1024 * 1024

// Params holds the two secrets that key a Mask operation. Both fields
// must be wiped via Zero once the packet they key has been
// encrypted/decrypted; Params is exclusively owned by one goroutine
// at a time and never copied across a boundary without the caller
// first taking responsibility for the copy's lifetime.
type Params struct {
	Seed  [32]byte
	Phase [32]byte
}

// Zero overwrites both secrets with zero bytes. Safe to call multiple
// times; called on every drop path, including panic recovery, per
// spec §9's hard wipe-on-drop contract.
func (p *Params) Zero() {
	for i := range p.Seed {
		p.Seed[i] = 0
	}
	for i := range p.Phase {
		p.Phase[i] = 0
	}
}

// Masker is the minimal operator interface every masking backend
// implements (spec §9's variant-typed operator surface: name,
// describe, formula).
type Masker interface {
	Name() string
	Describe() string
	Mask(msg []byte, params Params) ([]byte, error)
}

// Default is the bespoke permutation+keystream masker described in
// spec §4.1: a seed-keyed involutive permutation composed with a
// phase-keyed keystream XOR, built so that Mask(Mask(m,p),p) == m
// using the exact same code path for both directions.
type Default struct {
	maxSize int
}

// New returns the default masker with the standard 100 MiB bound.
func New() *Default { return &Default{maxSize: MaxMessageSize} }

// NewWithBound returns the default masker with a caller-chosen bound.
func NewWithBound(maxSize int) *Default { return &Default{maxSize: maxSize} }

func (*Default) Name() string { return "masking.default" }

func (*Default) Describe() string {
	return "involutive seed-keyed permutation composed with a phase-keyed keystream XOR"
}

// Mask applies the operator. Calling Mask twice with the same params
// recovers the original message (mask(mask(m,p),p) = m) because the
// permutation is an involution and the keystream value assigned to
// each pair of positions under that involution is identical, so the
// two XORs at paired positions cancel exactly.
func (d *Default) Mask(msg []byte, params Params) ([]byte, error) {
	if len(msg) == 0 {
		return nil, common.New(common.KindInvalidInput, "message must not be empty")
	}
	bound := d.maxSize
	if bound <= 0 {
		bound = MaxMessageSize
	}
	if len(msg) > bound {
		return nil, common.New(common.KindInvalidInput, "message exceeds maximum size")
	}

	n := len(msg)
	pairOf, involution, fixedIdx := buildInvolution(n, params.Seed)
	acc := accumulate(msg, fixedIdx)
	keystream := buildPairKeystream(n, pairOf, params.Phase, acc)

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[involution[i]] = msg[i] ^ keystream[i]
	}
	return out, nil
}

// accumulate XORs together every byte of msg except the one at
// fixedIdx (pass -1 when there is no fixed point), giving a single
// content-dependent byte that buildPairKeystream folds into every
// pair's keystream value. This is what gives the operator real
// diffusion: flipping any one message byte changes acc, which changes
// every pair's derived keystream byte, which in turn changes
// essentially every output byte (see Mask's Sensitivity note below).
//
// acc is invariant under Mask itself: the permutation only reassigns
// each pair's two values between its two positions, so the pair's
// contribution to the XOR-fold (msg[a]^msg[b]) is unchanged by
// masking, and the fixed point — the one position whose own value
// really does change under masking — is excluded. That invariance is
// exactly what lets the second Mask call (over the masked output)
// recompute the identical acc, and therefore the identical keystream,
// that the first call used, preserving Mask(Mask(m,p),p) = m even
// though the keystream now depends on message content.
func accumulate(msg []byte, fixedIdx int) byte {
	var acc byte
	for i, b := range msg {
		if i == fixedIdx {
			continue
		}
		acc ^= b
	}
	return acc
}

// buildInvolution derives a seed-keyed involutive permutation over
// [0,n): a Fisher-Yates shuffle of the index list, then paired up
// two-at-a-time into transpositions (the last index is a fixed point
// when n is odd, reported as fixedIdx; fixedIdx is -1 when n is even).
// pairOf[i] gives the pair index (0..n/2] that i belongs to, shared by
// both members of a transposition; involution is the permutation
// itself.
func buildInvolution(n int, seed [32]byte) (pairOf []int, involution []int, fixedIdx int) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	stream := newSeededStream(seed, "ghost_network_masking_perm_v1")
	for i := n - 1; i > 0; i-- {
		j := int(stream.uint64() % uint64(i+1))
		idx[i], idx[j] = idx[j], idx[i]
	}

	involution = make([]int, n)
	pairOf = make([]int, n)
	fixedIdx = -1
	pair := 0
	i := 0
	for ; i+1 < n; i += 2 {
		a, b := idx[i], idx[i+1]
		involution[a] = b
		involution[b] = a
		pairOf[a] = pair
		pairOf[b] = pair
		pair++
	}
	if i < n {
		// odd element left over: fixed point, its own pair
		involution[idx[i]] = idx[i]
		pairOf[idx[i]] = pair
		fixedIdx = idx[i]
	}
	return pairOf, involution, fixedIdx
}

// buildPairKeystream derives one keystream byte per message position,
// but positions sharing a pair index receive the identical byte, so
// that the permutation swap and the XOR cancel under a second
// application (see Mask's doc comment). acc (from accumulate) is
// folded into every pair's hash so the keystream — and hence the
// output — depends on the whole message, not just position and key.
func buildPairKeystream(n int, pairOf []int, phase [32]byte, acc byte) []byte {
	numPairs := n/2 + 1
	pairBytes := make([]byte, numPairs)
	for p := 0; p < numPairs; p++ {
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], uint64(p))
		preimage := append(append([]byte("ghost_network_masking_phase_v1"), phase[:]...), ctr[:]...)
		preimage = append(preimage, acc)
		h := hashing.ComputeHash256Array(preimage)
		pairBytes[p] = h[0]
	}

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = pairBytes[pairOf[i]]
	}
	return out
}

// seededStream is a deterministic counter-mode byte stream derived
// from a 32-byte seed via repeated H(seed||domain||counter), used only
// to drive the Fisher-Yates shuffle above.
type seededStream struct {
	seed    [32]byte
	domain  string
	counter uint64
	buf     []byte
}

func newSeededStream(seed [32]byte, domain string) *seededStream {
	return &seededStream{seed: seed, domain: domain}
}

func (s *seededStream) uint64() uint64 {
	if len(s.buf) < 8 {
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], s.counter)
		s.counter++
		h := hashing.ComputeHash256Array(append(append([]byte(s.domain), s.seed[:]...), ctr[:]...))
		s.buf = append(s.buf, h[:]...)
	}
	v := binary.BigEndian.Uint64(s.buf[:8])
	s.buf = s.buf[8:]
	return v
}
