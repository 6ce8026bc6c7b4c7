// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package fabric

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"time"

	"github.com/ghostnet-labs/core/operators/resonance"
)

// DefaultDecoyPayloadSize is the byte length of a generated decoy
// payload, chosen to resemble a small masked transaction so decoys are
// not distinguishable from real traffic by size alone.
const DefaultDecoyPayloadSize = 256

// DecoyGenerator periodically publishes syntactically indistinguishable
// packets with random resonance and random payload bytes to a decoy
// channel, raising the noise floor against traffic analysis (spec
// §4.3). Grounded on protocol/quasar/quantum_block.go's
// BundleRunner Start/Stop/run ticker loop.
type DecoyGenerator struct {
	table       *Table
	rate        float64 // packets per second
	payloadSize int

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDecoyGenerator returns a generator publishing at ratePPS packets
// per second into table's decoy channels. ratePPS<=0 disables
// generation (Start becomes a no-op loop that only watches stopCh).
func NewDecoyGenerator(table *Table, ratePPS float64) *DecoyGenerator {
	return &DecoyGenerator{
		table:       table,
		rate:        ratePPS,
		payloadSize: DefaultDecoyPayloadSize,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the decoy production loop in a new goroutine.
func (g *DecoyGenerator) Start() {
	go g.run()
}

// Stop signals the loop to exit and blocks until it has.
func (g *DecoyGenerator) Stop() {
	close(g.stopCh)
	<-g.doneCh
}

func (g *DecoyGenerator) run() {
	defer close(g.doneCh)

	if g.rate <= 0 {
		<-g.stopCh
		return
	}

	interval := time.Duration(float64(time.Second) / g.rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopCh:
			return
		case <-ticker.C:
			g.emit()
		}
	}
}

func (g *DecoyGenerator) emit() {
	target, err := randomResonance()
	if err != nil {
		return
	}
	payload := make([]byte, g.payloadSize)
	if _, err := rand.Read(payload); err != nil {
		return
	}
	g.table.publishDecoy(target, payload)
}

// randomResonance draws a uniformly random resonance state from
// CSPRNG bytes, scaled into a bounded cube so decoy packets fall
// inside the same resonance space as real traffic.
func randomResonance() (resonance.State, error) {
	var buf [24]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return resonance.State{}, err
	}
	const span = 1000.0
	psi := toUnit(buf[0:8]) * span
	rho := toUnit(buf[8:16]) * span
	omega := toUnit(buf[16:24]) * span
	return resonance.New(psi, rho, omega)
}

func toUnit(b []byte) float64 {
	v := binary.BigEndian.Uint64(b)
	return (float64(v) / math.MaxUint64) - 0.5
}
