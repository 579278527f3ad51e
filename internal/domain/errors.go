package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
const (
	ErrMsgUserNotFound      = "user not found"
	ErrMsgInvalidInput      = "invalid input"
	ErrMsgUnknownRarity     = "unknown rarity"
	ErrMsgInvalidBoost      = "invalid boost"
	ErrMsgBoostNotDefined   = "boost source not defined"
	ErrMsgLockNotAcquired   = "lock not acquired"
	ErrMsgSessionActive     = "auto-roll session already active"
	ErrMsgSessionNotFound   = "auto-roll session not found"
	ErrMsgCatalogEmpty      = "catalog is empty"
	ErrMsgInsufficientCoins = "insufficient coins"
	ErrMsgStorageFull       = "storage full"
	ErrMsgNoFumoFound       = "no fumo found"
	ErrMsgRollFailed        = "roll failed"
)

// Common domain errors.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound    = errors.New(ErrMsgUserNotFound)
	ErrInvalidInput    = errors.New(ErrMsgInvalidInput)
	ErrUnknownRarity   = errors.New(ErrMsgUnknownRarity)
	ErrInvalidBoost    = errors.New(ErrMsgInvalidBoost)
	ErrBoostNotDefined = errors.New(ErrMsgBoostNotDefined)
	ErrLockNotAcquired = errors.New(ErrMsgLockNotAcquired)
	ErrSessionActive   = errors.New(ErrMsgSessionActive)
	ErrSessionNotFound = errors.New(ErrMsgSessionNotFound)
	ErrCatalogEmpty    = errors.New(ErrMsgCatalogEmpty)
)

// RollErrorKind is the error category surfaced by roll transactions.
type RollErrorKind string

const (
	RollErrInsufficientCoins RollErrorKind = "INSUFFICIENT_COINS"
	RollErrStorageFull       RollErrorKind = "STORAGE_FULL"
	RollErrNoFumoFound       RollErrorKind = "NO_FUMO_FOUND"
	RollErrRollFailed        RollErrorKind = "ROLL_FAILED"
)

// Sentinels for errors.Is matching against a RollError's kind.
var (
	ErrInsufficientCoins = &RollError{Kind: RollErrInsufficientCoins}
	ErrStorageFull       = &RollError{Kind: RollErrStorageFull}
	ErrNoFumoFound       = &RollError{Kind: RollErrNoFumoFound}
	ErrRollFailed        = &RollError{Kind: RollErrRollFailed}
)

// RollError is returned by roll transactions. Details carries diagnostics for ROLL_FAILED.
// Cause, when set, is the underlying error and is reachable through errors.Is and errors.As.
type RollError struct {
	Kind    RollErrorKind
	Details string
	Cause   error
}

func (e *RollError) Error() string {
	var msg string
	switch e.Kind {
	case RollErrInsufficientCoins:
		msg = ErrMsgInsufficientCoins
	case RollErrStorageFull:
		msg = ErrMsgStorageFull
	case RollErrNoFumoFound:
		msg = ErrMsgNoFumoFound
	default:
		msg = ErrMsgRollFailed
	}
	if e.Details == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, e.Details)
}

// Is matches any RollError of the same kind.
func (e *RollError) Is(target error) bool {
	t, ok := target.(*RollError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Unwrap returns the underlying cause.
func (e *RollError) Unwrap() error {
	return e.Cause
}

// NewRollError builds a RollError of kind with formatted details.
func NewRollError(kind RollErrorKind, format string, args ...interface{}) *RollError {
	return &RollError{Kind: kind, Details: fmt.Sprintf(format, args...)}
}

// WrapRollError builds a RollError of kind that keeps cause for errors.Is matching.
func WrapRollError(kind RollErrorKind, cause error, format string, args ...interface{}) *RollError {
	e := NewRollError(kind, format, args...)
	e.Cause = cause
	return e
}
