// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stego implements the Steganography (T) operator: embedding
// an already-masked payload into an innocuous carrier and extracting
// it back out. No pack example implements carrier steganography; this
// package is new code in the teacher's terse, variant-typed operator
// style (spec §9's {name, describe, formula} minimal interface), built
// on the standard library only since nothing in the retrieval pack
// offers a steganographic codec to wire in (see DESIGN.md).
//
// embed's contract: payload must already be masked by
// operators/masking before it reaches here. This package never embeds
// plaintext and does not enforce that itself — it is a documented
// caller contract, checked by the protocol engine's pipeline ordering.
package stego

import (
	"encoding/binary"

	"github.com/ghostnet-labs/core/common"
)

// CarrierType enumerates the wire carrier_type values from spec §6.
type CarrierType uint8

const (
	CarrierNone CarrierType = iota
	CarrierText
	CarrierImage
	CarrierAudio
)

// Carrier is the minimal operator interface for a steganographic
// backend: bits-per-sample capacity, embed, and extract.
type Carrier interface {
	Type() CarrierType
	Name() string
	Describe() string
	// Capacity returns how many payload bits the carrier of the given
	// sample count can hold.
	Capacity(samples int) int
	Embed(payload []byte, carrier []byte) ([]byte, error)
	Extract(carrier []byte) ([]byte, error)
}

// ZeroWidthText embeds one bit per character using zero-width Unicode
// code points (U+200B zero-width space for 0, U+200C zero-width
// non-joiner for 1), appended after the visible carrier text. Capacity
// is 1 bit per carrier rune, per spec §4.1.
type ZeroWidthText struct{}

func (ZeroWidthText) Type() CarrierType   { return CarrierText }
func (ZeroWidthText) Name() string        { return "stego.zero-width-text" }
func (ZeroWidthText) Describe() string    { return "1 bit per character via zero-width Unicode markers" }
func (ZeroWidthText) Capacity(samples int) int { return samples }

const (
	zwsp byte = 0 // marker value for bit 0 (U+200B)
	zwnj byte = 1 // marker value for bit 1 (U+200C)
)

var (
	zwspRunes = []byte{0xE2, 0x80, 0x8B} // UTF-8 for U+200B
	zwnjRunes = []byte{0xE2, 0x80, 0x8C} // UTF-8 for U+200C
)

// Embed appends one zero-width marker per payload bit after the
// visible carrier text. carrier's visible rune count is the sample
// count used for the capacity check.
func (z ZeroWidthText) Embed(payload []byte, carrier []byte) ([]byte, error) {
	samples := runeCount(carrier)
	need := len(payload) * 8
	if need > z.Capacity(samples) {
		return nil, common.New(common.KindCarrierTooSmall, "payload exceeds zero-width text carrier capacity")
	}

	out := make([]byte, 0, len(carrier)+need*len(zwspRunes))
	out = append(out, carrier...)
	for _, b := range payload {
		for bit := 7; bit >= 0; bit-- {
			if (b>>uint(bit))&1 == 1 {
				out = append(out, zwnjRunes...)
			} else {
				out = append(out, zwspRunes...)
			}
		}
	}
	return out, nil
}

// Extract walks backward from the end of carrier decoding one marker
// triplet at a time, stopping at the first triplet that isn't a
// marker. Anchoring at the end (rather than striding forward from
// byte 0) is what makes this correct regardless of the visible
// carrier text's length: Embed never pads or aligns the boundary
// between visible text and the marker run.
func (ZeroWidthText) Extract(carrier []byte) ([]byte, error) {
	var bitsReversed []byte
	i := len(carrier)
	for i >= 3 {
		chunk := carrier[i-3 : i]
		switch {
		case equal3(chunk, zwspRunes):
			bitsReversed = append(bitsReversed, 0)
		case equal3(chunk, zwnjRunes):
			bitsReversed = append(bitsReversed, 1)
		default:
			i = 0 // force loop exit; chunk belongs to visible text
			continue
		}
		i -= 3
	}
	if len(bitsReversed) == 0 {
		return nil, common.New(common.KindInvalidCarrier, "no embedded payload found")
	}
	if len(bitsReversed)%8 != 0 {
		return nil, common.New(common.KindInvalidCarrier, "zero-width marker run is not byte-aligned")
	}

	bits := make([]byte, len(bitsReversed))
	for j := range bitsReversed {
		bits[j] = bitsReversed[len(bitsReversed)-1-j]
	}

	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | bits[i*8+j]
		}
		out[i] = b
	}
	return out, nil
}

func equal3(a, b []byte) bool { return a[0] == b[0] && a[1] == b[1] && a[2] == b[2] }

func runeCount(b []byte) int {
	n := 0
	for range string(b) {
		n++
	}
	return n
}

// LSBImage embeds bits in the low-order bits of raw sample bytes
// (e.g. pixel channel bytes) at a configurable density, per spec §6's
// carrier_capacity_bits_per_sample option.
type LSBImage struct {
	BitsPerSample int // 1..3
}

func (l LSBImage) Type() CarrierType { return CarrierImage }
func (l LSBImage) Name() string      { return "stego.lsb-image" }
func (l LSBImage) Describe() string  { return "least-significant-bit embedding over raw image sample bytes" }

func (l LSBImage) bits() int {
	if l.BitsPerSample < 1 || l.BitsPerSample > 3 {
		return 2
	}
	return l.BitsPerSample
}

func (l LSBImage) Capacity(samples int) int { return samples * l.bits() }

func (l LSBImage) Embed(payload []byte, carrier []byte) ([]byte, error) {
	return lsbEmbed(payload, carrier, l.bits())
}

func (l LSBImage) Extract(carrier []byte) ([]byte, error) {
	return lsbExtract(carrier, l.bits())
}

// LSBAudio is the audio-sample analog of LSBImage, sharing the same
// bit-packing logic over a differently-sourced byte stream.
type LSBAudio struct {
	BitsPerSample int
}

func (a LSBAudio) Type() CarrierType { return CarrierAudio }
func (a LSBAudio) Name() string      { return "stego.lsb-audio" }
func (a LSBAudio) Describe() string  { return "least-significant-bit embedding over raw audio sample bytes" }

func (a LSBAudio) bits() int {
	if a.BitsPerSample < 1 || a.BitsPerSample > 3 {
		return 2
	}
	return a.BitsPerSample
}

func (a LSBAudio) Capacity(samples int) int { return samples * a.bits() }

func (a LSBAudio) Embed(payload []byte, carrier []byte) ([]byte, error) {
	return lsbEmbed(payload, carrier, a.bits())
}

func (a LSBAudio) Extract(carrier []byte) ([]byte, error) {
	return lsbExtract(carrier, a.bits())
}

// lsbEmbed writes a 32-bit big-endian payload length header into the
// first samples, then the payload bits into the low bitsPerSample bits
// of each subsequent sample byte.
func lsbEmbed(payload []byte, carrier []byte, bitsPerSample int) ([]byte, error) {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(payload)))
	full := append(header, payload...)

	needBits := len(full) * 8
	needSamples := (needBits + bitsPerSample - 1) / bitsPerSample
	if needSamples > len(carrier) {
		return nil, common.New(common.KindCarrierTooSmall, "payload exceeds carrier capacity")
	}

	out := make([]byte, len(carrier))
	copy(out, carrier)

	bitIdx := 0
	totalBits := needBits
	mask := byte(0xFF) << uint(bitsPerSample)
	for s := 0; s < needSamples; s++ {
		var chunk byte
		for pos := 0; pos < bitsPerSample; pos++ {
			var bit byte
			if bitIdx < totalBits {
				byteIdx := bitIdx / 8
				bitInByte := 7 - bitIdx%8
				bit = (full[byteIdx] >> uint(bitInByte)) & 1
				bitIdx++
			}
			// first-embedded bit lands at the MSB of the low
			// bitsPerSample bits, matching extractBits' read order.
			chunk |= bit << uint(bitsPerSample-1-pos)
		}
		out[s] = (out[s] & mask) | chunk
	}
	return out, nil
}

func lsbExtract(carrier []byte, bitsPerSample int) ([]byte, error) {
	headerBits := 32
	headerSamples := (headerBits + bitsPerSample - 1) / bitsPerSample
	if len(carrier) < headerSamples {
		return nil, common.New(common.KindInvalidCarrier, "carrier too small to hold a length header")
	}

	bits := extractBits(carrier, 0, headerSamples, bitsPerSample)
	length := binary.BigEndian.Uint32(packBits(bits[:32]))

	totalBits := 32 + int(length)*8
	totalSamples := (totalBits + bitsPerSample - 1) / bitsPerSample
	if totalSamples > len(carrier) {
		return nil, common.New(common.KindInvalidCarrier, "embedded length exceeds carrier size")
	}

	allBits := extractBits(carrier, 0, totalSamples, bitsPerSample)
	payloadBits := allBits[32:totalBits]
	return packBits(payloadBits), nil
}

func extractBits(carrier []byte, fromSample, toSample, bitsPerSample int) []byte {
	var bits []byte
	for s := fromSample; s < toSample; s++ {
		v := carrier[s]
		for b := bitsPerSample - 1; b >= 0; b-- {
			bits = append(bits, (v>>uint(b))&1)
		}
	}
	return bits
}

func packBits(bits []byte) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | bits[i*8+j]
		}
		out[i] = b
	}
	return out
}
