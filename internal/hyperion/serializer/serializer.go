// Package serializer defines Hyperion's pluggable application-value codec
// and a default implementation. The framing engine never imports this
// package's concrete types — it operates purely on []byte, so the generic
// value type V lives entirely on this side of the boundary, one call-site
// type parameter per application.
package serializer

import (
	"bytes"
	"encoding/json"

	"github.com/TechTeaStudio/HyperionProtocol/internal/herrors"
)

// Serializer converts an application value of type V to and from an
// opaque byte buffer. Implementations must be pure — no hidden state
// between calls — and safe for concurrent use across independent
// connections.
type Serializer[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(data []byte) (V, error)
}

// Default passes []byte and string through unchanged and falls back to
// encoding/json for any other Go type. It holds no state and is safe to
// share across goroutines and connections.
type Default[V any] struct{}

// NewDefault constructs the reference serializer for value type V.
func NewDefault[V any]() Default[V] { return Default[V]{} }

// Encode implements Serializer.
func (Default[V]) Encode(v V) ([]byte, error) {
	switch val := any(v).(type) {
	case []byte:
		return val, nil
	case string:
		return []byte(val), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, herrors.SerializerError("serializer.encode", err)
		}
		return b, nil
	}
}

// Decode implements Serializer.
func (Default[V]) Decode(data []byte) (V, error) {
	var zero V
	switch any(zero).(type) {
	case []byte:
		return any(append([]byte(nil), data...)).(V), nil
	case string:
		return any(string(data)).(V), nil
	default:
		if len(data) == 0 {
			return zero, nil
		}
		var v V
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&v); err != nil {
			return zero, herrors.SerializerError("serializer.decode", err)
		}
		return v, nil
	}
}
