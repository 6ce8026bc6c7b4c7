// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package masking

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randParams(t *testing.T) Params {
	t.Helper()
	var p Params
	_, err := rand.Read(p.Seed[:])
	require.NoError(t, err)
	_, err = rand.Read(p.Phase[:])
	require.NoError(t, err)
	return p
}

func TestMaskReversible(t *testing.T) {
	m := New()
	params := randParams(t)
	msg := []byte("hello, ghost network")

	masked, err := m.Mask(msg, params)
	require.NoError(t, err)
	require.NotEqual(t, msg, masked)

	back, err := m.Mask(masked, params)
	require.NoError(t, err)
	require.Equal(t, msg, back)
}

func TestMaskLengthPreserving(t *testing.T) {
	m := New()
	params := randParams(t)
	for _, n := range []int{1, 2, 3, 7, 64, 255, 1024} {
		msg := bytes.Repeat([]byte{0xAB}, n)
		masked, err := m.Mask(msg, params)
		require.NoError(t, err)
		require.Len(t, masked, n)
	}
}

func TestMaskDeterministic(t *testing.T) {
	m := New()
	params := randParams(t)
	msg := []byte("deterministic payload")

	a, err := m.Mask(msg, params)
	require.NoError(t, err)
	b, err := m.Mask(msg, params)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestMaskSensitivity(t *testing.T) {
	m := New()
	params := randParams(t)
	msg := bytes.Repeat([]byte{0x00}, 256)

	base, err := m.Mask(msg, params)
	require.NoError(t, err)

	mutated := bytes.Clone(msg)
	mutated[0] ^= 0x01
	out, err := m.Mask(mutated, params)
	require.NoError(t, err)
	require.NotEqual(t, base, out)

	diffBits := 0
	for i := range base {
		diffBits += popcount(base[i] ^ out[i])
	}
	require.Greater(t, diffBits, len(base)) // roughly half of 2048 bits differ
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

func TestMaskRejectsEmpty(t *testing.T) {
	m := New()
	_, err := m.Mask(nil, randParams(t))
	require.Error(t, err)
}

func TestMaskRejectsOversize(t *testing.T) {
	m := NewWithBound(10)
	_, err := m.Mask(bytes.Repeat([]byte{1}, 11), randParams(t))
	require.Error(t, err)

	_, err = m.Mask(bytes.Repeat([]byte{1}, 10), randParams(t))
	require.NoError(t, err)
}

func TestParamsZero(t *testing.T) {
	p := randParams(t)
	p.Zero()
	var zero [32]byte
	require.Equal(t, zero, p.Seed)
	require.Equal(t, zero, p.Phase)
}

func TestAEADSealOpenRoundTrip(t *testing.T) {
	a := NewAEAD()
	params := randParams(t)
	msg := []byte("forward secret payload")

	ct, err := a.Seal(msg, params)
	require.NoError(t, err)
	require.NotEqual(t, msg, ct)

	pt, err := a.Open(ct, params)
	require.NoError(t, err)
	require.Equal(t, msg, pt)
}
