// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"encoding/binary"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/zk"
)

// encodeTransaction serializes a GhostTransaction into the bytes
// carried as a GhostPacket's pre-mask payload. This is an internal
// wire format, never transmitted outside a masked packet.
func encodeTransaction(tx GhostTransaction) ([]byte, error) {
	var out []byte
	out = append(out, tx.ID[:]...)

	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], tx.CreatedAt)
	out = append(out, tsBuf[:]...)

	out = appendResonance(out, tx.SenderResonance)
	out = appendLenPrefixed(out, tx.Action)

	stmtBytes, err := encodeStatement(tx.Statement)
	if err != nil {
		return nil, err
	}
	out = appendLenPrefixed(out, stmtBytes)

	proofBytes, err := encodeProof(tx.Proof)
	if err != nil {
		return nil, err
	}
	out = appendLenPrefixed(out, proofBytes)

	return out, nil
}

func decodeTransaction(buf []byte) (GhostTransaction, error) {
	var tx GhostTransaction
	if len(buf) < 16+8+24 {
		return tx, common.New(common.KindInvalidInput, "transaction buffer too short")
	}
	off := 0
	copy(tx.ID[:], buf[off:off+16])
	off += 16

	tx.CreatedAt = binary.BigEndian.Uint64(buf[off : off+8])
	off += 8

	sender, n, err := readResonance(buf[off:])
	if err != nil {
		return tx, err
	}
	tx.SenderResonance = sender
	off += n

	action, n, err := readLenPrefixed(buf[off:])
	if err != nil {
		return tx, err
	}
	tx.Action = action
	off += n

	stmtBytes, n, err := readLenPrefixed(buf[off:])
	if err != nil {
		return tx, err
	}
	off += n
	statement, err := decodeStatement(stmtBytes)
	if err != nil {
		return tx, err
	}
	tx.Statement = statement

	proofBytes, n, err := readLenPrefixed(buf[off:])
	if err != nil {
		return tx, err
	}
	off += n
	proof, err := decodeProof(proofBytes)
	if err != nil {
		return tx, err
	}
	tx.Proof = proof

	return tx, nil
}

func appendLenPrefixed(out []byte, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	out = append(out, lenBuf[:]...)
	return append(out, data...)
}

func readLenPrefixed(buf []byte) ([]byte, int, error) {
	if len(buf) < 4 {
		return nil, 0, common.New(common.KindInvalidInput, "truncated length prefix")
	}
	l := binary.BigEndian.Uint32(buf[:4])
	if uint64(4)+uint64(l) > uint64(len(buf)) {
		return nil, 0, common.New(common.KindInvalidInput, "length prefix exceeds buffer")
	}
	return append([]byte(nil), buf[4:4+l]...), 4 + int(l), nil
}

func appendPoint(out []byte, p bn254.G1Affine) []byte {
	b := p.Bytes()
	return append(out, b[:]...)
}

func readPoint(buf []byte) (bn254.G1Affine, int, error) {
	const size = 32
	if len(buf) < size {
		return bn254.G1Affine{}, 0, common.New(common.KindInvalidInput, "truncated curve point")
	}
	var p bn254.G1Affine
	if _, err := p.SetBytes(buf[:size]); err != nil {
		return bn254.G1Affine{}, 0, common.Wrap(common.KindInvalidInput, "invalid curve point encoding", err)
	}
	return p, size, nil
}

func appendBigInt(out []byte, v *big.Int) []byte {
	if v == nil {
		v = big.NewInt(0)
	}
	b := v.Bytes()
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(b)))
	out = append(out, lenBuf[:]...)
	return append(out, b...)
}

func readBigInt(buf []byte) (*big.Int, int, error) {
	if len(buf) < 2 {
		return nil, 0, common.New(common.KindInvalidInput, "truncated bigint length")
	}
	l := binary.BigEndian.Uint16(buf[:2])
	if uint64(2)+uint64(l) > uint64(len(buf)) {
		return nil, 0, common.New(common.KindInvalidInput, "bigint length exceeds buffer")
	}
	v := new(big.Int).SetBytes(buf[2 : 2+l])
	return v, 2 + int(l), nil
}

func encodeStatement(st zk.Statement) ([]byte, error) {
	var out []byte
	out = append(out, byte(st.Shape))
	out = appendPoint(out, st.Commitment)
	out = appendBigInt(out, st.Min)
	out = appendBigInt(out, st.Max)

	var setLenBuf [4]byte
	binary.BigEndian.PutUint32(setLenBuf[:], uint32(len(st.Set)))
	out = append(out, setLenBuf[:]...)
	for _, p := range st.Set {
		out = appendPoint(out, p)
	}

	out = appendLenPrefixed(out, st.Context)
	return out, nil
}

func decodeStatement(buf []byte) (zk.Statement, error) {
	var st zk.Statement
	if len(buf) < 1 {
		return st, common.New(common.KindInvalidInput, "statement buffer too short")
	}
	off := 0
	st.Shape = zk.Shape(buf[off])
	off++

	commitment, n, err := readPoint(buf[off:])
	if err != nil {
		return st, err
	}
	st.Commitment = commitment
	off += n

	min, n, err := readBigInt(buf[off:])
	if err != nil {
		return st, err
	}
	st.Min = min
	off += n

	max, n, err := readBigInt(buf[off:])
	if err != nil {
		return st, err
	}
	st.Max = max
	off += n

	if len(buf[off:]) < 4 {
		return st, common.New(common.KindInvalidInput, "truncated statement set length")
	}
	setLen := binary.BigEndian.Uint32(buf[off : off+4])
	off += 4
	st.Set = make([]bn254.G1Affine, setLen)
	for i := 0; i < int(setLen); i++ {
		p, n, err := readPoint(buf[off:])
		if err != nil {
			return st, err
		}
		st.Set[i] = p
		off += n
	}

	ctx, _, err := readLenPrefixed(buf[off:])
	if err != nil {
		return st, err
	}
	st.Context = ctx

	return st, nil
}

func encodeProof(p zk.Proof) ([]byte, error) {
	var out []byte
	out = append(out, byte(p.Shape))

	var expBuf [8]byte
	binary.BigEndian.PutUint64(expBuf[:], p.ExpiresAt)
	out = append(out, expBuf[:]...)

	out = appendPoint(out, p.R)
	out = appendBigInt(out, p.S)

	var orLenBuf [4]byte
	binary.BigEndian.PutUint32(orLenBuf[:], uint32(len(p.ORCommit)))
	out = append(out, orLenBuf[:]...)
	for _, c := range p.ORCommit {
		out = appendPoint(out, c)
	}
	for _, c := range p.ORChal {
		out = appendBigInt(out, c)
	}
	for _, r := range p.ORResp {
		out = appendBigInt(out, r)
	}

	out = appendPoint(out, p.CLo)
	out = appendPoint(out, p.CHi)
	out = appendPoint(out, p.LinkR)
	out = appendBigInt(out, p.LinkS)

	return out, nil
}

func decodeProof(buf []byte) (zk.Proof, error) {
	var p zk.Proof
	if len(buf) < 1+8 {
		return p, common.New(common.KindInvalidInput, "proof buffer too short")
	}
	off := 0
	p.Shape = zk.Shape(buf[off])
	off++

	p.ExpiresAt = binary.BigEndian.Uint64(buf[off : off+8])
	off += 8

	r, n, err := readPoint(buf[off:])
	if err != nil {
		return p, err
	}
	p.R = r
	off += n

	s, n, err := readBigInt(buf[off:])
	if err != nil {
		return p, err
	}
	p.S = s
	off += n

	if len(buf[off:]) < 4 {
		return p, common.New(common.KindInvalidInput, "truncated OR-proof count")
	}
	orLen := int(binary.BigEndian.Uint32(buf[off : off+4]))
	off += 4

	p.ORCommit = make([]bn254.G1Affine, orLen)
	for i := 0; i < orLen; i++ {
		c, n, err := readPoint(buf[off:])
		if err != nil {
			return p, err
		}
		p.ORCommit[i] = c
		off += n
	}
	p.ORChal = make([]*big.Int, orLen)
	for i := 0; i < orLen; i++ {
		c, n, err := readBigInt(buf[off:])
		if err != nil {
			return p, err
		}
		p.ORChal[i] = c
		off += n
	}
	p.ORResp = make([]*big.Int, orLen)
	for i := 0; i < orLen; i++ {
		r, n, err := readBigInt(buf[off:])
		if err != nil {
			return p, err
		}
		p.ORResp[i] = r
		off += n
	}

	cLo, n, err := readPoint(buf[off:])
	if err != nil {
		return p, err
	}
	p.CLo = cLo
	off += n

	cHi, n, err := readPoint(buf[off:])
	if err != nil {
		return p, err
	}
	p.CHi = cHi
	off += n

	linkR, n, err := readPoint(buf[off:])
	if err != nil {
		return p, err
	}
	p.LinkR = linkR
	off += n

	linkS, _, err := readBigInt(buf[off:])
	if err != nil {
		return p, err
	}
	p.LinkS = linkS

	return p, nil
}
