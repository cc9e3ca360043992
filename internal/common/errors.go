// Package common defines the error vocabulary and small shared helpers used
// across authgate components. Repository code returns the sentinel values and
// callers match them with errors.Is; the orchestrator translates storage
// outcomes into tagged Errors that carry a Kind for the transport layer.
package common

import "errors"

// Repository-level sentinels.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Kind enumerates the closed set of failure categories an auth operation can
// report. The transport layer maps kinds to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindConflict
	KindUnauthorized
	KindNotFound
	KindInvalidToken
	KindAlreadyUsed
	KindExpired
	KindInvalidArgument
)

// String returns a stable label for the kind.
func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindInvalidToken:
		return "invalid_token"
	case KindAlreadyUsed:
		return "already_used"
	case KindExpired:
		return "expired"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Error is a tagged error: a kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is reports kind equality, so errors.Is(err, common.ErrInvalidToken) matches
// any tagged error of the same kind regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// E builds a tagged error.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Canonical instances, usable both as return values and as errors.Is targets.
var (
	ErrConflict        = E(KindConflict, "already registered")
	ErrUnauthorized    = E(KindUnauthorized, "invalid email or password")
	ErrUserNotFound    = E(KindNotFound, "user not found")
	ErrInvalidToken    = E(KindInvalidToken, "invalid token")
	ErrAlreadyUsed     = E(KindAlreadyUsed, "token already used")
	ErrExpired         = E(KindExpired, "token expired")
	ErrInvalidArgument = E(KindInvalidArgument, "invalid argument")
	ErrInternal        = E(KindInternal, "internal error")
)

// KindOf extracts the kind from err, or KindInternal when err carries no tag.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
