package algo

import (
	"errors"
	"fmt"
)

// Kind classifies an invocation failure by the dispatch stage it occurred in.
type Kind string

const (
	// KindDecode: the wire payload is malformed for its declared content type.
	KindDecode Kind = "DecodeError"

	// KindTypeMismatch: the payload decoded, but does not match the shape a
	// typed entry point declared.
	KindTypeMismatch Kind = "TypeMismatchError"

	// KindAlgorithm: the user's entry point returned an error or panicked.
	KindAlgorithm Kind = "AlgorithmError"

	// KindEncode: the entry point's output cannot be serialized for the
	// response content type.
	KindEncode Kind = "EncodeError"
)

// Error is a classified invocation failure. Every failure a Dispatcher
// reports is an *Error; errors raised by user logic are wrapped with
// KindAlgorithm so the caller can always distinguish framework faults from
// algorithm faults.
type Error struct {
	kind  Kind
	msg   string
	cause error
	stack []byte
}

func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.cause != nil:
		return e.msg + ": " + e.cause.Error()
	case e.msg != "":
		return e.msg
	case e.cause != nil:
		return e.cause.Error()
	}
	return string(e.kind)
}

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the failure classification.
func (e *Error) Kind() Kind { return e.kind }

// Stacktrace returns the captured stack for panics recovered inside the
// dispatcher, or "" when no stack was captured.
func (e *Error) Stacktrace() string { return string(e.stack) }

// Errorf builds a classified failure. Hosts wrapping a Dispatcher use it to
// report faults that occur before a request reaches Dispatch, such as a
// request line the transport refuses to buffer.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func decodeErrorf(format string, args ...any) *Error {
	return &Error{kind: KindDecode, msg: fmt.Sprintf(format, args...)}
}

func typeMismatchErrorf(format string, args ...any) *Error {
	return &Error{kind: KindTypeMismatch, msg: fmt.Sprintf(format, args...)}
}

func encodeErrorf(format string, args ...any) *Error {
	return &Error{kind: KindEncode, msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf classifies err. Errors produced outside the framework — anything
// user logic returns — classify as KindAlgorithm.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindAlgorithm
}

// asError normalizes err into an *Error, wrapping unclassified errors as
// algorithm failures.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{kind: KindAlgorithm, cause: err}
}
