package errs

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures so callers can tell a hard fetch failure
// from a rate limit (never retried the same way) or a store problem. An
// extraction miss is not an error at all — absent fields stay unset.
type Kind string

const (
	KindFetch     Kind = "fetch"
	KindParse     Kind = "parse"
	KindStore     Kind = "store"
	KindRateLimit Kind = "rate_limit"
	KindGenerate  Kind = "generate"
)

// Error is a classified pipeline error.
type Error struct {
	Kind Kind
	Op   string // e.g. "listing-page", "host-profile", "upsert"
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind and operation name.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Fetch(op string, err error) *Error     { return New(KindFetch, op, err) }
func Parse(op string, err error) *Error     { return New(KindParse, op, err) }
func Store(op string, err error) *Error     { return New(KindStore, op, err) }
func RateLimit(op string, err error) *Error { return New(KindRateLimit, op, err) }
func Generate(op string, err error) *Error  { return New(KindGenerate, op, err) }

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsRateLimit reports whether err is a rate-limit failure, which gets
// backoff instead of plain retries.
func IsRateLimit(err error) bool { return Is(err, KindRateLimit) }

// Retryable reports whether a plain retry of the same operation can help.
func Retryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return true
	}
	switch e.Kind {
	case KindFetch, KindStore:
		return true
	default:
		return false
	}
}
