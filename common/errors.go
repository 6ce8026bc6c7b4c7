// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package common holds small invariants shared across the ghost
// network core: the closed error taxonomy, monotonic clock helpers,
// and the poison-tolerant read-write lock wrapper.
package common

import "errors"

// Kind is the closed set of error kinds the core ever returns. Every
// core entry point fails with one of these; nothing escapes as a bare
// fmt.Errorf with no Kind attached.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindIntegrityFailed
	KindTimestampInvalid
	KindRateLimited
	KindNotResonant
	KindDecryptFailed
	KindProofInvalid
	KindCarrierTooSmall
	KindInvalidCarrier
	KindNoRoute
	KindBufferFull
	KindCapacityExceeded
	KindLockPoisoned
	KindTimeout
	KindLedgerError
	KindTransportError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindIntegrityFailed:
		return "IntegrityFailed"
	case KindTimestampInvalid:
		return "TimestampInvalid"
	case KindRateLimited:
		return "RateLimited"
	case KindNotResonant:
		return "NotResonant"
	case KindDecryptFailed:
		return "DecryptFailed"
	case KindProofInvalid:
		return "ProofInvalid"
	case KindCarrierTooSmall:
		return "CarrierTooSmall"
	case KindInvalidCarrier:
		return "InvalidCarrier"
	case KindNoRoute:
		return "NoRoute"
	case KindBufferFull:
		return "BufferFull"
	case KindCapacityExceeded:
		return "CapacityExceeded"
	case KindLockPoisoned:
		return "LockPoisoned"
	case KindTimeout:
		return "Timeout"
	case KindLedgerError:
		return "LedgerError"
	case KindTransportError:
		return "TransportError"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind with a message and an optional cause, satisfying
// errors.Is/errors.As against both the Kind sentinels below and the
// wrapped cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Cause.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for e's Kind, so callers
// can write errors.Is(err, common.ErrInvalidInput) without type-asserting.
func (e *Error) Is(target error) bool {
	s, ok := target.(*sentinel)
	return ok && s.kind == e.Kind
}

// New builds an *Error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error of the given kind around a cause.
func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// GetKind extracts the Kind from err, if any *Error is present in its
// chain.
func GetKind(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindUnknown, false
}

type sentinel struct{ kind Kind }

func (s *sentinel) Error() string { return s.kind.String() }

// Sentinels for errors.Is comparisons, one per Kind, mirroring the
// Err* sentinel-var convention used throughout the teacher package
// (config.ErrInvalidK, quasar.ErrEpochRateLimited, ...).
var (
	ErrInvalidInput     = &sentinel{KindInvalidInput}
	ErrIntegrityFailed  = &sentinel{KindIntegrityFailed}
	ErrTimestampInvalid = &sentinel{KindTimestampInvalid}
	ErrRateLimited      = &sentinel{KindRateLimited}
	ErrNotResonant      = &sentinel{KindNotResonant}
	ErrDecryptFailed    = &sentinel{KindDecryptFailed}
	ErrProofInvalid     = &sentinel{KindProofInvalid}
	ErrCarrierTooSmall  = &sentinel{KindCarrierTooSmall}
	ErrInvalidCarrier   = &sentinel{KindInvalidCarrier}
	ErrNoRoute          = &sentinel{KindNoRoute}
	ErrBufferFull       = &sentinel{KindBufferFull}
	ErrCapacityExceeded = &sentinel{KindCapacityExceeded}
	ErrLockPoisoned     = &sentinel{KindLockPoisoned}
	ErrTimeout          = &sentinel{KindTimeout}
	ErrLedgerError      = &sentinel{KindLedgerError}
	ErrTransportError   = &sentinel{KindTransportError}
)
