// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"context"
	"time"

	"github.com/ghostnet-labs/core/collab"
	"github.com/ghostnet-labs/core/common"
	"github.com/ghostnet-labs/core/operators/masking"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/ghostnet-labs/core/operators/stego"
	"github.com/ghostnet-labs/core/operators/zk"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Broadcaster is the narrow surface the engine needs to hand a
// wire-encoded packet off for delivery. Declared locally (rather than
// importing the fabric package directly) so fabric can depend on
// ghost's packet types without an import cycle, the same
// consumer-defines-the-interface shape as collab.Transport.
type Broadcaster interface {
	Broadcast(ctx context.Context, packet []byte) error
}

// Config holds the tunables for an Engine.
type Config struct {
	Window          resonance.Window
	Masker          masking.Masker
	Carrier         stego.Carrier
	RateLimit       int    // max timestamp-validation failures per sender fingerprint within RateWindowSecs
	RateWindowSecs  uint64
	EpochDuration   uint64
	ForwardSecrecy  bool
	CollectiveQuota float64       // threshold for resonance.Collective on receive gating
	BaseSkew        time.Duration // BASE in the adaptive future-tolerance formula, spec §6's base_skew_s
	MaxAge          time.Duration // baseline A scales around, spec §6's max_age_s
}

// Engine drives the six-step send/receive pipeline of spec §4.2:
// compose, mask, embed, broadcast, receive-and-gate, commit. Grounded
// on protocol/wave/wave.go's Config-holding, step-by-step consensus
// engine shape.
type Engine struct {
	cfg     Config
	keyring *Keyring
	limiter *RateLimiter
	tsValid *TimestampValidator
	clock   *common.Clock
	ledger  collab.Ledger
	bcast   Broadcaster
	metrics *Metrics
	log     log.Logger

	self NodeIdentity
}

// NewEngine builds an Engine for a given identity, talking to ledger
// through bcast for delivery. secret seeds the epoch keyring.
func NewEngine(self NodeIdentity, cfg Config, secret [32]byte, ledger collab.Ledger, bcast Broadcaster, registerer prometheus.Registerer, logger log.Logger) (*Engine, error) {
	if cfg.Masker == nil {
		cfg.Masker = masking.New()
	}
	if cfg.Carrier == nil {
		cfg.Carrier = stego.ZeroWidthText{}
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateWindowSecs == 0 {
		cfg.RateWindowSecs = 60
	}
	if logger == nil {
		logger = log.NewNoOpLogger()
	}

	metrics, err := NewMetrics("ghost", registerer)
	if err != nil {
		return nil, common.Wrap(common.KindUnknown, "failed to register metrics", err)
	}

	return &Engine{
		cfg:     cfg,
		keyring: NewKeyring(secret, cfg.EpochDuration),
		limiter: NewRateLimiter(cfg.RateLimit, cfg.RateWindowSecs),
		tsValid: NewTimestampValidator(cfg.BaseSkew, cfg.MaxAge),
		clock:   common.NewClock(),
		ledger:  ledger,
		bcast:   bcast,
		metrics: metrics,
		log:     logger,
		self:    self,
	}, nil
}

// Send runs steps 1-4 of the pipeline (compose, mask, embed,
// broadcast): it builds a GhostTransaction from action and its proof,
// masks and embeds it addressed to target, and hands the resulting
// wire bytes to the Broadcaster.
func (e *Engine) Send(ctx context.Context, action []byte, proof zk.Proof, statement zk.Statement, target resonance.State, carrier []byte) error {
	now := e.clock.Unix()

	// step 1: compose
	tx, err := NewGhostTransaction(action, proof, statement, e.self.Resonance, now)
	if err != nil {
		return err
	}
	e.metrics.incComposed()

	payload, err := encodeTransaction(tx)
	if err != nil {
		return err
	}

	// step 2: mask
	epoch, params := e.keyring.CurrentParams(now)
	var ephemeral *[32]byte
	if e.cfg.ForwardSecrecy {
		k, err := EphemeralKey()
		if err != nil {
			return err
		}
		params = WithEphemeral(params, k)
		ephemeral = &k
	}
	masked, err := e.cfg.Masker.Mask(payload, params)
	if err != nil {
		return common.Wrap(common.KindDecryptFailed, "mask failed", err)
	}
	e.log.Debug("masked ghost transaction",
		zap.Uint64("epoch", epoch),
		zap.Stringer("txID", tx.ID),
	)

	packet, err := NewGhostPacket(masked, target, e.self.Resonance, e.cfg.Carrier.Type(), defaultTTL, now, ephemeral)
	if err != nil {
		return err
	}

	// step 3: embed
	wirePacket := Encode(packet)
	embedded, err := e.cfg.Carrier.Embed(wirePacket, carrier)
	if err != nil {
		return err
	}

	// step 4: broadcast
	if err := e.bcast.Broadcast(ctx, embedded); err != nil {
		return common.Wrap(common.KindTransportError, "broadcast failed", err)
	}
	e.metrics.incSent()
	return nil
}

// defaultTTL is the packet lifetime, in seconds, used when the caller
// does not need finer control; exposed as a var so a host can
// override it for tests without threading a parameter through Send.
var defaultTTL uint32 = 300

// Receive runs steps 5-6 of the pipeline (receive-and-gate, commit)
// over a single embedded carrier payload pulled off the transport. It
// returns the committed ledger handle, or an error identifying which
// gate rejected the packet.
func (e *Engine) Receive(ctx context.Context, embedded []byte) (collab.BlockHandle, error) {
	now := e.clock.Unix()
	e.metrics.incReceived()

	// gate 1: extract carrier payload
	wirePacket, err := e.cfg.Carrier.Extract(embedded)
	if err != nil {
		e.metrics.incGateFailed("extract")
		return collab.BlockHandle{}, err
	}

	// gate 2: decode wire format
	packet, err := Decode(wirePacket)
	if err != nil {
		e.metrics.incGateFailed("decode")
		return collab.BlockHandle{}, err
	}

	// gate 3: rate limiting by sender-resonance fingerprint, checked
	// first per spec §4.2 so a sender already over its timestamp-failure
	// budget is rejected before any further work is spent on it.
	blocked, err := e.limiter.Blocked(packet.SenderResonance, now)
	if err != nil {
		e.metrics.incGateFailed("rate_limiter_poisoned")
		return collab.BlockHandle{}, err
	}
	if blocked {
		e.metrics.incGateFailed("rate_limited")
		return collab.BlockHandle{}, common.New(common.KindRateLimited, "sender exceeded timestamp-failure rate limit")
	}

	// gate 4: adaptive timestamp validation
	if err := e.tsValid.Validate(packet.CreatedAt, now); err != nil {
		e.metrics.incGateFailed("timestamp")
		if rerr := e.limiter.RecordFailure(packet.SenderResonance, now); rerr != nil {
			e.metrics.incGateFailed("rate_limiter_poisoned")
			return collab.BlockHandle{}, rerr
		}
		return collab.BlockHandle{}, err
	}
	e.metrics.setLatencyEMA(e.tsValid.EMA().Seconds())

	// gate 5: masked_payload non-empty
	if len(packet.MaskedPayload) == 0 {
		e.metrics.incGateFailed("empty_payload")
		return collab.BlockHandle{}, common.New(common.KindInvalidInput, "masked_payload must not be empty")
	}

	// gate 6: integrity tag
	if !packet.VerifyIntegrity() {
		e.metrics.incGateFailed("integrity")
		return collab.BlockHandle{}, common.New(common.KindIntegrityFailed, "packet integrity tag mismatch")
	}

	// gate 7: TTL expiry
	if packet.Expired(now) {
		e.metrics.incGateFailed("expired")
		return collab.BlockHandle{}, common.New(common.KindInvalidInput, "packet has expired")
	}

	// gate 8: resonance match against self
	within, err := resonance.Within(e.self.Resonance, packet.TargetResonance, e.cfg.Window)
	if err != nil {
		e.metrics.incGateFailed("resonance_invalid")
		return collab.BlockHandle{}, err
	}
	if !within {
		e.metrics.incGateFailed("not_resonant")
		return collab.BlockHandle{}, common.New(common.KindNotResonant, "packet target resonance does not match this node")
	}

	// gate 9: unmask and decode, trying the current epoch then the
	// grace-window epoch. The default masker has no authentication of
	// its own (it is a pure involution, not an AEAD), so "wrong key"
	// surfaces as a malformed inner transaction rather than a decrypt
	// error; decodeTransaction's structural checks are what actually
	// distinguishes the right epoch from the wrong one.
	tx, err := e.unmaskAndDecode(packet, now)
	if err != nil {
		e.metrics.incGateFailed("decrypt")
		return collab.BlockHandle{}, err
	}

	// gate 10: validate the embedded transaction's own timestamp
	if err := e.tsValid.Validate(tx.CreatedAt, now); err != nil {
		e.metrics.incGateFailed("tx_timestamp")
		if rerr := e.limiter.RecordFailure(packet.SenderResonance, now); rerr != nil {
			e.metrics.incGateFailed("rate_limiter_poisoned")
			return collab.BlockHandle{}, rerr
		}
		return collab.BlockHandle{}, err
	}

	// gate 11: verify the attached zero-knowledge proof
	ok, err := zk.Verify(tx.Proof, tx.Statement, now)
	if err != nil {
		e.metrics.incGateFailed("proof_invalid")
		return collab.BlockHandle{}, err
	}
	if !ok {
		e.metrics.incGateFailed("proof_invalid")
		return collab.BlockHandle{}, common.New(common.KindProofInvalid, "zero-knowledge proof failed verification")
	}

	// step 6: commit
	handle, err := e.ledger.Append(ctx, tx.Action, collab.TxMetadata{
		TransactionID: [16]byte(tx.ID),
		SenderState:   tx.SenderResonance,
		ObservedAt:    now,
	})
	if err != nil {
		e.metrics.incGateFailed("ledger")
		return collab.BlockHandle{}, common.Wrap(common.KindLedgerError, "ledger append failed", err)
	}
	e.metrics.incCommitted()
	return handle, nil
}

func (e *Engine) unmaskAndDecode(packet GhostPacket, now uint64) (GhostTransaction, error) {
	candidates := e.keyring.CandidateParams(now)
	var lastErr error
	for _, params := range candidates {
		effective := params
		if packet.EphemeralKey != nil {
			effective = WithEphemeral(params, *packet.EphemeralKey)
		}
		payload, err := e.cfg.Masker.Mask(packet.MaskedPayload, effective)
		if err != nil {
			lastErr = err
			continue
		}
		tx, err := decodeTransaction(payload)
		if err != nil {
			lastErr = err
			continue
		}
		return tx, nil
	}
	return GhostTransaction{}, common.Wrap(common.KindDecryptFailed, "unable to unmask packet under current or grace-window epoch", lastErr)
}

// ObserveDeliveryLatency feeds a measured one-way latency sample into
// the adaptive timestamp validator's EMA. The intended caller is a
// host's collab.Transport.ReportDelivery implementation (or whatever
// wraps it), forwarding each outcome's Latency here so the
// future-tolerance and max-age bounds actually widen to match the
// broadcast fabric's real delivery time instead of sitting at their
// EMA=0 floor indefinitely.
func (e *Engine) ObserveDeliveryLatency(d time.Duration) {
	e.tsValid.ObserveLatency(d)
}

// Health returns a point-in-time snapshot of engine-owned state.
func (e *Engine) Health() Health {
	return Health{
		RateLimiterEntries: e.limiter.Entries(),
		LatencyEMA:         e.tsValid.EMA(),
		Metrics:            e.metrics.Snapshot(),
	}
}

// Close releases resources the engine owns. It does not close the
// ledger or transport, which outlive the engine.
func (e *Engine) Close(ctx context.Context) error {
	return nil
}
