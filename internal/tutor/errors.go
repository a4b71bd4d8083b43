package tutor

import (
	"context"
	"errors"
	"net"

	"github.com/abhisek/tutorpro/internal/llm"
)

// Kind classifies a tutor failure.
type Kind string

const (
	KindInput      Kind = "input"
	KindTransport  Kind = "transport"
	KindParse      Kind = "parse"
	KindValidation Kind = "validation"
	KindUpstream   Kind = "upstream"
	KindConfig     Kind = "config"
	KindInternal   Kind = "internal"
)

// Error is the single failure type returned by a Service. Message is meant
// for display; Err keeps the underlying cause for errors.Is/As.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err. Errors that are not an *Error report
// KindInternal; a nil error reports "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindInternal
}

// AsError converts any error into an *Error, keeping an existing one.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

func inputError(msg string) *Error {
	return &Error{Kind: KindInput, Message: msg}
}

// generationError classifies a failure from the generation client.
func generationError(err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTransport, Message: "request timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindTransport, Message: "request cancelled", Err: err}
	}

	var (
		rateLimit   *llm.ErrRateLimit
		unavailable *llm.ErrProviderUnavailable
		invalid     *llm.ErrInvalidResponse
		truncated   *llm.ErrMaxTokensExceeded
		netErr      net.Error
	)
	switch {
	case errors.As(err, &rateLimit),
		errors.As(err, &unavailable),
		errors.As(err, &invalid),
		errors.As(err, &truncated):
		return &Error{Kind: KindUpstream, Message: "failed to get response from AI tutor", Err: err}
	case errors.As(err, &netErr):
		return &Error{Kind: KindTransport, Message: "could not reach generation service", Err: err}
	default:
		return &Error{Kind: KindUpstream, Message: "failed to get response from AI tutor", Err: err}
	}
}
