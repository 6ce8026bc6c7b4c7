// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"encoding/binary"
	"math"

	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/ghostnet-labs/core/operators/stego"
	"github.com/luxfi/crypto/hashing"
)

// wire layout (spec §6), all integers big-endian:
//
//	packet_id            16B
//	masked_payload_len    4B (u32)
//	masked_payload        variable
//	target_resonance     24B (3x f64)
//	sender_resonance     24B (3x f64)
//	carrier_type          1B
//	ttl                   4B (u32)
//	created_at            8B (u64)
//	has_ephemeral_key     1B
//	ephemeral_key        32B (present iff has_ephemeral_key == 1)
//	integrity_tag        32B
const (
	ephemeralKeyLen = 32
	integrityTagLen = 32
)

// Encode serializes p into the wire format of spec §6.
func Encode(p GhostPacket) []byte {
	hasEph := byte(0)
	if p.EphemeralKey != nil {
		hasEph = 1
	}

	size := 16 + 4 + len(p.MaskedPayload) + 24 + 24 + 1 + 4 + 8 + 1 + 32
	out := make([]byte, 0, size)

	out = append(out, p.ID[:]...)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(p.MaskedPayload)))
	out = append(out, lenBuf[:]...)
	out = append(out, p.MaskedPayload...)

	out = appendResonance(out, p.TargetResonance)
	out = appendResonance(out, p.SenderResonance)

	out = append(out, byte(p.CarrierType))

	var ttlBuf [4]byte
	binary.BigEndian.PutUint32(ttlBuf[:], p.TTL)
	out = append(out, ttlBuf[:]...)

	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], p.CreatedAt)
	out = append(out, tsBuf[:]...)

	out = append(out, hasEph)
	if hasEph == 1 {
		out = append(out, p.EphemeralKey[:]...)
	}

	out = append(out, p.IntegrityTag[:]...)
	return out
}

// Decode parses the wire format of spec §6 back into a GhostPacket. It
// does not re-validate construction invariants beyond what is needed
// to safely slice the buffer; callers call VerifyIntegrity separately.
func Decode(buf []byte) (GhostPacket, error) {
	const minFixed = 16 + 4 + 24 + 24 + 1 + 4 + 8 + 1 + 32
	if len(buf) < minFixed {
		return GhostPacket{}, common.New(common.KindInvalidInput, "packet buffer too short")
	}

	var p GhostPacket
	off := 0

	copy(p.ID[:], buf[off:off+16])
	off += 16

	payloadLen := binary.BigEndian.Uint32(buf[off : off+4])
	off += 4
	if uint64(off)+uint64(payloadLen) > uint64(len(buf)) {
		return GhostPacket{}, common.New(common.KindInvalidInput, "masked_payload_len exceeds buffer")
	}
	p.MaskedPayload = append([]byte(nil), buf[off:off+int(payloadLen)]...)
	off += int(payloadLen)

	target, n, err := readResonance(buf[off:])
	if err != nil {
		return GhostPacket{}, err
	}
	p.TargetResonance = target
	off += n

	sender, n, err := readResonance(buf[off:])
	if err != nil {
		return GhostPacket{}, err
	}
	p.SenderResonance = sender
	off += n

	if off+1 > len(buf) {
		return GhostPacket{}, common.New(common.KindInvalidInput, "truncated carrier_type")
	}
	p.CarrierType = stego.CarrierType(buf[off])
	off++

	if off+4 > len(buf) {
		return GhostPacket{}, common.New(common.KindInvalidInput, "truncated ttl")
	}
	p.TTL = binary.BigEndian.Uint32(buf[off : off+4])
	off += 4

	if off+8 > len(buf) {
		return GhostPacket{}, common.New(common.KindInvalidInput, "truncated created_at")
	}
	p.CreatedAt = binary.BigEndian.Uint64(buf[off : off+8])
	off += 8

	if off+1 > len(buf) {
		return GhostPacket{}, common.New(common.KindInvalidInput, "truncated has_ephemeral_key")
	}
	hasEph := buf[off]
	off++

	if hasEph == 1 {
		if off+ephemeralKeyLen > len(buf) {
			return GhostPacket{}, common.New(common.KindInvalidInput, "truncated ephemeral_key")
		}
		var key [32]byte
		copy(key[:], buf[off:off+ephemeralKeyLen])
		p.EphemeralKey = &key
		off += ephemeralKeyLen
	}

	if off+integrityTagLen > len(buf) {
		return GhostPacket{}, common.New(common.KindInvalidInput, "truncated integrity_tag")
	}
	copy(p.IntegrityTag[:], buf[off:off+integrityTagLen])
	off += integrityTagLen

	return p, nil
}

func appendResonance(out []byte, s resonance.State) []byte {
	var buf [8]byte
	for _, v := range s.Vector() {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		out = append(out, buf[:]...)
	}
	return out
}

func readResonance(buf []byte) (resonance.State, int, error) {
	if len(buf) < 24 {
		return resonance.State{}, 0, common.New(common.KindInvalidInput, "truncated resonance state")
	}
	vals := make([]float64, 3)
	for i := 0; i < 3; i++ {
		bits := binary.BigEndian.Uint64(buf[i*8 : i*8+8])
		vals[i] = math.Float64frombits(bits)
	}
	s, err := resonance.New(vals[0], vals[1], vals[2])
	if err != nil {
		return resonance.State{}, 0, err
	}
	return s, 24, nil
}

// computeIntegrityTag hashes every field of p except the tag itself,
// using the same H() as operators/masking and operators/zk so the
// core has exactly one hash primitive to reason about.
func computeIntegrityTag(p GhostPacket) [32]byte {
	var buf []byte
	buf = append(buf, p.ID[:]...)
	buf = append(buf, p.MaskedPayload...)
	buf = appendResonance(buf, p.TargetResonance)
	buf = appendResonance(buf, p.SenderResonance)
	buf = append(buf, byte(p.CarrierType))

	var ttlBuf [4]byte
	binary.BigEndian.PutUint32(ttlBuf[:], p.TTL)
	buf = append(buf, ttlBuf[:]...)

	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], p.CreatedAt)
	buf = append(buf, tsBuf[:]...)

	if p.EphemeralKey != nil {
		buf = append(buf, p.EphemeralKey[:]...)
	}

	return hashing.ComputeHash256Array(buf)
}
