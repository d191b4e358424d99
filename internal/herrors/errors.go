// Package herrors defines Hyperion's error taxonomy: a small closed set of
// typed failures every send/receive operation surfaces, so callers can tell
// a cancelled operation from a malformed peer from a dead transport without
// string matching.
package herrors

import (
	stdErrors "errors"
	"fmt"
)

// Kind classifies a Hyperion failure.
type Kind int

const (
	// KindArgumentInvalid marks a null/unusable transport handle or a
	// transport that is not readable/writable as required by the call.
	KindArgumentInvalid Kind = iota
	// KindCancelled marks cancellation observed at a checkpoint.
	KindCancelled
	// KindEndOfStream marks a short read: the peer closed mid-frame.
	KindEndOfStream
	// KindProtocolViolation marks any header/validation invariant failure.
	KindProtocolViolation
	// KindSerializerError marks a rejected encode/decode by the serializer.
	KindSerializerError
	// KindTransportError marks an underlying transport I/O error other
	// than EOF or cancellation.
	KindTransportError
)

func (k Kind) String() string {
	switch k {
	case KindArgumentInvalid:
		return "ArgumentInvalid"
	case KindCancelled:
		return "Cancelled"
	case KindEndOfStream:
		return "EndOfStream"
	case KindProtocolViolation:
		return "ProtocolViolation"
	case KindSerializerError:
		return "SerializerError"
	case KindTransportError:
		return "TransportError"
	default:
		return "Unknown"
	}
}

// Error is the single error type the engine raises. Op names the operation
// that failed (e.g. "chunk.send", "header.decode"); Err is the wrapped
// cause, possibly nil.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("hyperion: %s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("hyperion: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, op string, cause error) error { return &Error{Kind: k, Op: op, Err: cause} }

func ArgumentInvalid(op string, cause error) error  { return newErr(KindArgumentInvalid, op, cause) }
func Cancelled(op string) error                     { return newErr(KindCancelled, op, nil) }
func EndOfStream(op string, cause error) error      { return newErr(KindEndOfStream, op, cause) }
func ProtocolViolation(op, reason string) error {
	return newErr(KindProtocolViolation, op, stdErrors.New(reason))
}
func SerializerError(op string, cause error) error { return newErr(KindSerializerError, op, cause) }
func TransportError(op string, cause error) error  { return newErr(KindTransportError, op, cause) }

// As reports whether err is (or wraps) a *Error and, if so, returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if stdErrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err is (or wraps) a *Error of the given Kind.
func Is(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}
