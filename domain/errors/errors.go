// Package errors provides the structured error type shared by the capture,
// detection and fishing packages.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure by the recovery it allows.
type Kind int

const (
	KindUnknown Kind = iota
	// KindCapture: the window or viewport could not be read. Transient.
	KindCapture
	// KindTemplateLoad: template I/O or decode failure. Fatal at startup.
	KindTemplateLoad
	// KindDetection: a detection precondition was violated. Configuration bug.
	KindDetection
)

func (k Kind) String() string {
	switch k {
	case KindCapture:
		return "capture"
	case KindTemplateLoad:
		return "template_load"
	case KindDetection:
		return "detection"
	default:
		return "unknown"
	}
}

// BotError is the base error type with kind, stage and diagnostic metadata.
type BotError struct {
	Kind     Kind
	Stage    string
	Message  string
	Metadata map[string]string
	Cause    error
}

// Error implements the error interface.
func (e *BotError) Error() string {
	s := fmt.Sprintf("[%s] %s: %s", e.Kind, e.Stage, e.Message)
	if len(e.Metadata) > 0 {
		s += fmt.Sprintf(" %v", e.Metadata)
	}
	if e.Cause != nil {
		s += fmt.Sprintf(" caused by: %v", e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *BotError) Unwrap() error { return e.Cause }

// New creates a new BotError.
func New(kind Kind, stage, msg string) *BotError {
	return &BotError{Kind: kind, Stage: stage, Message: msg}
}

// Newf creates a new BotError with formatted message.
func Newf(kind Kind, stage, format string, args ...any) *BotError {
	return &BotError{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error.
func Wrap(err error, kind Kind, stage, msg string) *BotError {
	return &BotError{Kind: kind, Stage: stage, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, kind Kind, stage, format string, args ...any) *BotError {
	return &BotError{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WithMetadata adds metadata to a BotError.
func (e *BotError) WithMetadata(key, value string) *BotError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// WithDims records a width x height pair under key.
func (e *BotError) WithDims(key string, w, h int) *BotError {
	return e.WithMetadata(key, fmt.Sprintf("%dx%d", w, h))
}

// KindOf returns the kind of the first BotError in err's chain.
func KindOf(err error) Kind {
	var be *BotError
	if stderrors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries a BotError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRetryable returns true if the error is potentially transient.
func IsRetryable(err error) bool {
	return IsKind(err, KindCapture)
}
