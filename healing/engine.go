// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package healing

import (
	"context"

	"github.com/ghostnet-labs/core/collab"
	"github.com/ghostnet-labs/core/common"
	"github.com/luxfi/log"
	"go.uber.org/zap"
)

// ReplayFunc re-validates a losing-branch transaction's raw action
// under current state, returning whether it should be replayed (spec
// §4.6's "Semantics": "replay is accepted if the transaction still
// validates under current state and rejected otherwise"). A host
// typically wires this to the protocol engine's transaction-validation
// path, not its own healing.Engine.
type ReplayFunc func(ctx context.Context, action []byte) (bool, error)

// LosingBranch is one non-winning candidate at a healed height, paired
// with the actions that were on it in the order they originally
// appeared.
type LosingBranch struct {
	Block   collab.Block
	Actions [][]byte
}

// ReplayResult records the outcome of offering one losing-branch
// action back for replay.
type ReplayResult struct {
	Block    collab.Block
	Action   []byte
	Accepted bool
	Err      error
}

// Engine drives one fork-resolution pass end to end: fetch competing
// blocks from the ledger collaborator, rank them, hand the winner back
// to the ledger for the branch swap, and offer losing-branch
// transactions for replay (spec §4.6). The engine itself never
// mutates ledger state beyond what Ledger.ReplaceBranch performs.
type Engine struct {
	ledger    collab.Ledger
	coherence CoherenceFunc
	log       log.Logger
}

// NewEngine builds a healing Engine. coherenceFn defaults to
// DefaultCoherence if nil; logger defaults to a no-op logger.
func NewEngine(ledger collab.Ledger, coherenceFn CoherenceFunc, logger log.Logger) *Engine {
	if coherenceFn == nil {
		coherenceFn = DefaultCoherence
	}
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Engine{ledger: ledger, coherence: coherenceFn, log: logger}
}

// Heal resolves the fork at height: it asks the ledger for the
// competing blocks, ranks them against the ledger's current resonance
// field, tells the ledger to swap to the winner, then walks losing,
// in the order supplied, offering each of their actions to replay.
func (e *Engine) Heal(ctx context.Context, height uint64, losing []LosingBranch, replay ReplayFunc) (collab.Block, []ReplayResult, error) {
	candidates, err := e.ledger.CompetingBlocks(ctx, height)
	if err != nil {
		return collab.Block{}, nil, common.Wrap(common.KindLedgerError, "failed to fetch competing blocks", err)
	}

	field, err := e.ledger.ResonanceField(ctx)
	if err != nil {
		return collab.Block{}, nil, common.Wrap(common.KindLedgerError, "failed to fetch resonance field", err)
	}

	winner, err := Resolve(candidates, field, e.coherence)
	if err != nil {
		return collab.Block{}, nil, err
	}

	if err := e.ledger.ReplaceBranch(ctx, winner); err != nil {
		return collab.Block{}, nil, common.Wrap(common.KindLedgerError, "failed to replace branch", err)
	}
	e.log.Info("fork resolved",
		zap.Uint64("height", height),
		zap.Int("candidates", len(candidates)),
	)

	var results []ReplayResult
	if replay != nil {
		for _, branch := range losing {
			if branch.Block.Hash == winner.Hash {
				continue
			}
			for _, action := range branch.Actions {
				ok, rerr := replay(ctx, action)
				results = append(results, ReplayResult{Block: branch.Block, Action: action, Accepted: ok, Err: rerr})
				if rerr != nil {
					e.log.Debug("replay validation failed", zap.Error(rerr))
				}
			}
		}
	}

	return winner, results, nil
}
