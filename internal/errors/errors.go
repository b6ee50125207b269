// Package errors provides error handling for the interview engine.
//
// It re-exports github.com/cockroachdb/errors and defines the error kinds
// the engine distinguishes:
//
//   - ErrValidation: user input fails local rules
//   - ErrTransport: the oracle or description fetch could not be reached
//   - ErrMalformedResponse: the oracle answered with an unusable payload
//   - ErrCancelled: an in-flight request was aborted
//
// Cancelled errors are also transport errors, so callers that only care
// about "retry later" can test for ErrTransport.
package errors

import (
	"context"
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Mark   = crdb.Mark
	Is     = crdb.Is
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// User-facing hints
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	GetAllHints = crdb.GetAllHints
)

// Sentinel kinds. Wrap or Mark errors with these and test with Is.
var (
	ErrValidation        = New("validation failed")
	ErrTransport         = New("transport failure")
	ErrMalformedResponse = New("malformed response")
	ErrCancelled         = New("request cancelled")
)

// Kind classifies an error for presentation.
type Kind string

const (
	KindNone       Kind = ""
	KindValidation Kind = "validation"
	KindTransport  Kind = "transport"
	KindMalformed  Kind = "malformed_response"
	KindCancelled  Kind = "cancelled"
	KindUnknown    Kind = "unknown"
)

// ValidationError reports user input rejected by local rules. It never
// advances interview state.
type ValidationError struct {
	QuestionID string
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid answer for %s: %s", e.QuestionID, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a *ValidationError.
func Invalid(questionID, message string) error {
	return &ValidationError{QuestionID: questionID, Message: message}
}

// Transport marks err as a transport failure. Context cancellation is
// reported as Cancelled instead.
func Transport(err error, msg string) error {
	if err == nil {
		return nil
	}
	if crdb.Is(err, context.Canceled) {
		return Cancelled(err, msg)
	}
	return Mark(Wrap(err, msg), ErrTransport)
}

// Malformed marks err as a malformed oracle response.
func Malformed(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, msg), ErrMalformedResponse)
}

// Cancelled marks err as a cancellation. The result also matches
// ErrTransport.
func Cancelled(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Mark(Mark(Wrap(err, msg), ErrCancelled), ErrTransport)
}

// KindOf returns the kind of err. Cancellation wins over transport.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case Is(err, ErrValidation):
		return KindValidation
	case Is(err, ErrCancelled):
		return KindCancelled
	case Is(err, ErrMalformedResponse):
		return KindMalformed
	case Is(err, ErrTransport):
		return KindTransport
	default:
		return KindUnknown
	}
}

// Retryable reports whether the user can retry the failed operation as is.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindTransport, KindCancelled, KindMalformed:
		return true
	default:
		return false
	}
}

// UserMessage renders err as the message shown to the person being
// interviewed.
func UserMessage(err error) string {
	var verr *ValidationError
	if As(err, &verr) {
		return verr.Message
	}
	switch KindOf(err) {
	case KindNone:
		return ""
	case KindCancelled:
		return "La requête a été interrompue. Veuillez réessayer."
	case KindMalformed:
		return "Le service a renvoyé une réponse inattendue. Veuillez réessayer."
	case KindTransport:
		return "Le service est injoignable pour le moment. Veuillez réessayer."
	default:
		return "Une erreur inattendue est survenue."
	}
}
