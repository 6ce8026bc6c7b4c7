// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"testing"

	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/ghostnet-labs/core/operators/stego"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	target, err := resonance.New(1.5, -2.25, 0.125)
	require.NoError(t, err)
	sender, err := resonance.New(0.1, 0.2, 0.3)
	require.NoError(t, err)

	packet, err := NewGhostPacket([]byte("masked-payload"), target, sender, stego.CarrierText, 300, 1000, nil)
	require.NoError(t, err)

	buf := Encode(packet)
	got, err := Decode(buf)
	require.NoError(t, err)

	require.Equal(t, packet.ID, got.ID)
	require.Equal(t, packet.MaskedPayload, got.MaskedPayload)
	require.Equal(t, packet.TargetResonance, got.TargetResonance)
	require.Equal(t, packet.SenderResonance, got.SenderResonance)
	require.Equal(t, packet.CarrierType, got.CarrierType)
	require.Equal(t, packet.TTL, got.TTL)
	require.Equal(t, packet.CreatedAt, got.CreatedAt)
	require.Nil(t, got.EphemeralKey)
	require.Equal(t, packet.IntegrityTag, got.IntegrityTag)
	require.True(t, got.VerifyIntegrity())
}

func TestEncodeDecodeWithEphemeralKey(t *testing.T) {
	target, _ := resonance.New(1, 1, 1)
	sender, _ := resonance.New(2, 2, 2)
	var key [32]byte
	key[0] = 0xAB

	packet, err := NewGhostPacket([]byte("m"), target, sender, stego.CarrierImage, 10, 42, &key)
	require.NoError(t, err)

	buf := Encode(packet)
	got, err := Decode(buf)
	require.NoError(t, err)
	require.NotNil(t, got.EphemeralKey)
	require.Equal(t, key, *got.EphemeralKey)
}

func TestVerifyIntegrityDetectsTampering(t *testing.T) {
	target, _ := resonance.New(1, 1, 1)
	sender, _ := resonance.New(2, 2, 2)
	packet, err := NewGhostPacket([]byte("m"), target, sender, stego.CarrierNone, 10, 42, nil)
	require.NoError(t, err)

	packet.MaskedPayload = []byte("tampered")
	require.False(t, packet.VerifyIntegrity())
}

func TestNewGhostPacketRejectsInvalidInput(t *testing.T) {
	target, _ := resonance.New(1, 1, 1)
	sender, _ := resonance.New(2, 2, 2)

	_, err := NewGhostPacket(nil, target, sender, stego.CarrierNone, 1, 1, nil)
	require.Error(t, err)

	_, err = NewGhostPacket([]byte("m"), target, sender, stego.CarrierNone, 0, 1, nil)
	require.Error(t, err)
}

func TestExpired(t *testing.T) {
	target, _ := resonance.New(1, 1, 1)
	sender, _ := resonance.New(2, 2, 2)
	packet, err := NewGhostPacket([]byte("m"), target, sender, stego.CarrierNone, 10, 1000, nil)
	require.NoError(t, err)

	require.False(t, packet.Expired(1005))
	require.True(t, packet.Expired(1011))
}
