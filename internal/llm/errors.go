package llm

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the chat client can surface.
type Kind int

const (
	KindCredential Kind = iota + 1
	KindConfig
	KindTransport
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindResponse:
		return "response"
	default:
		return "unknown"
	}
}

// Fatal reports whether the kind aborts startup. Transport and response
// failures only affect the exchange that produced them.
func (k Kind) Fatal() bool {
	return k == KindCredential || k == KindConfig
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func CredentialError(op string, err error) error {
	return newError(KindCredential, op, err)
}

func ConfigError(op string, err error) error {
	return newError(KindConfig, op, err)
}

func TransportError(op string, err error) error {
	return newError(KindTransport, op, err)
}

func ResponseError(op string, err error) error {
	return newError(KindResponse, op, err)
}

// KindOf returns the kind of the first *Error in err's chain. Errors that
// were never classified count as transport failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

// IsFatal is shorthand for KindOf(err).Fatal().
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(err).Fatal()
}
