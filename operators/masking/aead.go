// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package masking

import (
	"github.com/ghostnet-labs/core/common"
	"golang.org/x/crypto/chacha20poly1305"
)

// AEAD is the reviewed-primitive masking backend spec §9's second Open
// Question asks implementers to expose: a drop-in replacement for
// Default behind the same Masker interface and the same resonance
// key-agreement surface, built on golang.org/x/crypto/chacha20poly1305
// instead of the bespoke permutation+XOR construction.
//
// Unlike Default, AEAD is not length-preserving (it appends a 16-byte
// tag) and is not a pure involution — encryption and decryption are
// distinct operations that both happen to be called "Mask" here to
// satisfy the common interface, keyed by params.Seed as the AEAD key
// and params.Phase's first 12 bytes as the nonce. Callers that need
// strict length preservation (e.g. a fixed-size carrier capacity
// check in operators/stego) should use Default instead.
type AEAD struct{}

// NewAEAD returns the chacha20poly1305-backed masker.
func NewAEAD() *AEAD { return &AEAD{} }

func (*AEAD) Name() string { return "masking.aead-chacha20poly1305" }

func (*AEAD) Describe() string {
	return "reviewed AEAD primitive (ChaCha20-Poly1305) behind the masking operator's interface"
}

// Mask satisfies the Masker interface by sealing msg under params. It
// always encrypts — AEAD is not an involution like Default, so the
// protocol engine cannot call the same method to unmask; a caller
// that selects AEAD as its backend must use Open directly for the
// receive path instead of going through Masker.Mask both ways.
func (a *AEAD) Mask(msg []byte, params Params) ([]byte, error) {
	if len(msg) == 0 {
		return nil, common.New(common.KindInvalidInput, "message must not be empty")
	}
	return a.Seal(msg, params)
}

// Seal and Open expose the AEAD directionality explicitly.
func (*AEAD) Seal(msg []byte, params Params) ([]byte, error) {
	aead, err := chacha20poly1305.New(params.Seed[:])
	if err != nil {
		return nil, common.Wrap(common.KindInvalidInput, "invalid AEAD key", err)
	}
	return aead.Seal(nil, params.Phase[:chacha20poly1305.NonceSize], msg, nil), nil
}

func (*AEAD) Open(ciphertext []byte, params Params) ([]byte, error) {
	aead, err := chacha20poly1305.New(params.Seed[:])
	if err != nil {
		return nil, common.Wrap(common.KindInvalidInput, "invalid AEAD key", err)
	}
	plain, err := aead.Open(nil, params.Phase[:chacha20poly1305.NonceSize], ciphertext, nil)
	if err != nil {
		return nil, common.Wrap(common.KindDecryptFailed, "AEAD open failed", err)
	}
	return plain, nil
}
