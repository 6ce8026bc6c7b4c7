// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fabric implements the broadcast fabric of spec §4.3:
// resonance-keyed channels, a decoy-traffic generator, and a
// cooperative expiry sweeper. Grounded on the teacher's
// ticker-driven Start/Stop/run background-loop shape
// (protocol/quasar/quantum_block.go's BundleRunner) and on
// uptime/manager.go's RWGuard-protected table of ephemeral entries.
package fabric

import (
	"sync/atomic"

	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/google/uuid"
)

// Channel is a resonance-keyed broadcast channel (spec §4.3): packets
// published to it are buffered until consumed or the channel itself
// expires, at which point the whole buffer is dropped.
type Channel struct {
	ID      uuid.UUID
	Center  resonance.State
	Radius  float64
	TTL     uint64 // seconds from CreatedAt
	Created uint64
	IsDecoy bool

	capacity int
	buffer   [][]byte
}

func newChannel(center resonance.State, radius float64, ttl uint64, now uint64, isDecoy bool, capacity int) *Channel {
	return &Channel{
		ID:       uuid.New(),
		Center:   center,
		Radius:   radius,
		TTL:      ttl,
		Created:  now,
		IsDecoy:  isDecoy,
		capacity: capacity,
	}
}

// Expired reports whether the channel's TTL has elapsed as of now.
func (c *Channel) Expired(now uint64) bool {
	return now > c.Created+c.TTL
}

// Matches reports whether target falls within this channel's
// resonance region.
func (c *Channel) Matches(target resonance.State) (bool, error) {
	return resonance.Within(target, c.Center, resonance.Window{Epsilon: c.Radius})
}

// Table is the fabric's channel registry: a bounded set of channels,
// indexed by id, protected by a poison-tolerant RWGuard the way every
// other shared table in the core is.
type Table struct {
	guard   common.RWGuard
	bound   int
	entries map[uuid.UUID]*Channel
	stats   Stats
}

// NewTable returns a channel table refusing new channels past bound.
// bound<=0 means unbounded.
func NewTable(bound int) *Table {
	return &Table{bound: bound, entries: make(map[uuid.UUID]*Channel)}
}

// Stats is the fabric's stats view (spec §4.3): monotonically
// increasing counters a host can read without locking the channel
// table itself.
type Stats struct {
	Published     atomic.Uint64
	Consumed      atomic.Uint64
	DecoysEmitted atomic.Uint64
}

// StatsSnapshot is a point-in-time read of Stats.
type StatsSnapshot struct {
	Published      uint64
	Consumed       uint64
	DecoysEmitted  uint64
	ActiveChannels int
}

// StatsSnapshot returns a snapshot of the table's counters plus its
// current active-channel count.
func (t *Table) StatsSnapshot() StatsSnapshot {
	return StatsSnapshot{
		Published:      t.stats.Published.Load(),
		Consumed:       t.stats.Consumed.Load(),
		DecoysEmitted:  t.stats.DecoysEmitted.Load(),
		ActiveChannels: t.ActiveCount(),
	}
}

// Open creates and registers a new channel, refusing with
// CapacityExceeded once the table is at its bound (spec §4.3).
func (t *Table) Open(center resonance.State, radius float64, ttl uint64, now uint64, capacityPerChannel int, isDecoy bool) (*Channel, error) {
	var ch *Channel
	err := t.guard.Write(func() {
		if t.bound > 0 && len(t.entries) >= t.bound {
			return
		}
		ch = newChannel(center, radius, ttl, now, isDecoy, capacityPerChannel)
		t.entries[ch.ID] = ch
	})
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, common.New(common.KindCapacityExceeded, "channel table is at capacity")
	}
	return ch, nil
}

// Publish enqueues an already wire-encoded, masked, embedded GhostPacket
// onto every channel whose resonance region contains target. Each
// channel's buffer is bounded independently; a full channel returns
// BufferFull for that channel without blocking publication to others.
func (t *Table) Publish(target resonance.State, encoded []byte) (delivered int, err error) {
	err = t.guard.Write(func() {
		for _, ch := range t.entries {
			match, merr := ch.Matches(target)
			if merr != nil || !match {
				continue
			}
			if ch.capacity > 0 && len(ch.buffer) >= ch.capacity {
				continue
			}
			ch.buffer = append(ch.buffer, encoded)
			delivered++
		}
	})
	if err == nil {
		t.stats.Published.Add(uint64(delivered))
	}
	return delivered, err
}

// Drain removes and returns all buffered packets on channel id whose
// sender resonance (recovered by the caller-supplied predicate)
// matches. The core passes ghost.Decode+carrier-extraction as part of
// that predicate; Drain itself is carrier-agnostic.
func (t *Table) Drain(id uuid.UUID, predicate func(encoded []byte) bool) ([][]byte, error) {
	var out [][]byte
	err := t.guard.Write(func() {
		ch, ok := t.entries[id]
		if !ok {
			return
		}
		kept := ch.buffer[:0]
		for _, pkt := range ch.buffer {
			if predicate == nil || predicate(pkt) {
				out = append(out, pkt)
			} else {
				kept = append(kept, pkt)
			}
		}
		ch.buffer = kept
	})
	if err == nil {
		t.stats.Consumed.Add(uint64(len(out)))
	}
	return out, err
}

// publishDecoy enqueues a randomly-generated packet onto every
// resonance-matching decoy channel, mirroring Publish but restricted
// to IsDecoy channels so decoy traffic never lands in a real
// subscriber's buffer. Errors are swallowed by the caller (the decoy
// generator treats a quiet tick as harmless).
func (t *Table) publishDecoy(target resonance.State, payload []byte) {
	_ = t.guard.Write(func() {
		for _, ch := range t.entries {
			if !ch.IsDecoy {
				continue
			}
			match, merr := ch.Matches(target)
			if merr != nil || !match {
				continue
			}
			if ch.capacity > 0 && len(ch.buffer) >= ch.capacity {
				continue
			}
			ch.buffer = append(ch.buffer, payload)
			t.stats.DecoysEmitted.Add(1)
		}
	})
}

// Sweep removes every channel expired as of now, returning the number
// of buffered packets dropped with them (spec §4.3's expiry sweeper).
func (t *Table) Sweep(now uint64) (droppedChannels, droppedPackets int, err error) {
	err = t.guard.Write(func() {
		for id, ch := range t.entries {
			if ch.Expired(now) {
				droppedPackets += len(ch.buffer)
				delete(t.entries, id)
				droppedChannels++
			}
		}
	})
	return droppedChannels, droppedPackets, err
}

// ActiveCount returns the number of live channels, for the stats view.
func (t *Table) ActiveCount() int {
	n := 0
	t.guard.Read(func() { n = len(t.entries) })
	return n
}
