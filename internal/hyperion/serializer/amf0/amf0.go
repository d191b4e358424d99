// Package amf0 adapts the AMF0 object encoding (as used by RTMP command
// messages) into a Hyperion Serializer implementation. It exists to show
// that any self-describing binary encoding can plug into the framing
// engine in place of the JSON-backed serializer.Default — Hyperion's core
// is opaque to payload semantics.
//
// Supported markers: 0x00 Number, 0x01 Boolean, 0x02 String, 0x03 Object,
// 0x05 Null, 0x0A Strict Array. Any other marker, or any unsupported Go
// value on encode, is rejected.
package amf0

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

const (
	markerNumber      = 0x00
	markerBoolean     = 0x01
	markerString      = 0x02
	markerObject      = 0x03
	markerNull        = 0x05
	markerStrictArray = 0x0A
	markerObjectEnd   = 0x09
)

// Serializer implements hyperion/serializer.Serializer[V] using AMF0, for
// any V the AMF0 object model can represent: nil, float64, bool, string,
// map[string]any, or []any.
type Serializer[V any] struct{}

// New constructs the AMF0 serializer for value type V. It is stateless
// and safe to share.
func New[V any]() Serializer[V] { return Serializer[V]{} }

// Encode implements serializer.Serializer.
func (Serializer[V]) Encode(v V) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, any(v)); err != nil {
		return nil, fmt.Errorf("amf0: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode implements serializer.Serializer.
func (Serializer[V]) Decode(data []byte) (V, error) {
	var zero V
	v, err := decodeValue(bytes.NewReader(data))
	if err != nil {
		return zero, fmt.Errorf("amf0: decode: %w", err)
	}
	if v == nil && any(zero) == nil {
		return zero, nil
	}
	typed, ok := v.(V)
	if !ok {
		return zero, fmt.Errorf("amf0: decoded value is %T, not %T", v, zero)
	}
	return typed, nil
}

func encodeValue(w io.Writer, v any) error {
	switch val := v.(type) {
	case nil:
		_, err := w.Write([]byte{markerNull})
		return err
	case float64:
		return encodeNumber(w, val)
	case int:
		return encodeNumber(w, float64(val))
	case bool:
		return encodeBoolean(w, val)
	case string:
		return encodeString(w, val)
	case map[string]any:
		return encodeObject(w, val)
	case []any:
		return encodeStrictArray(w, val)
	default:
		return fmt.Errorf("unsupported type %T", v)
	}
}

func encodeNumber(w io.Writer, f float64) error {
	var buf [9]byte
	buf[0] = markerNumber
	binary.BigEndian.PutUint64(buf[1:], math.Float64bits(f))
	_, err := w.Write(buf[:])
	return err
}

func encodeBoolean(w io.Writer, b bool) error {
	v := byte(0)
	if b {
		v = 1
	}
	_, err := w.Write([]byte{markerBoolean, v})
	return err
}

func encodeString(w io.Writer, s string) error {
	b := []byte(s)
	if len(b) > 0xFFFF {
		return fmt.Errorf("string length %d exceeds 65535", len(b))
	}
	var hdr [3]byte
	hdr[0] = markerString
	binary.BigEndian.PutUint16(hdr[1:], uint16(len(b)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func encodeObject(w io.Writer, m map[string]any) error {
	if _, err := w.Write([]byte{markerObject}); err != nil {
		return err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var hdr [2]byte
	for _, k := range keys {
		kb := []byte(k)
		if len(kb) > 0xFFFF {
			return fmt.Errorf("key %q length %d exceeds 65535", k, len(kb))
		}
		binary.BigEndian.PutUint16(hdr[:], uint16(len(kb)))
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := w.Write(kb); err != nil {
			return err
		}
		if err := encodeValue(w, m[k]); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	_, err := w.Write([]byte{0x00, 0x00, markerObjectEnd})
	return err
}

func encodeStrictArray(w io.Writer, a []any) error {
	var hdr [5]byte
	hdr[0] = markerStrictArray
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(a)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	for i, v := range a {
		if err := encodeValue(w, v); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}

func decodeValue(r io.Reader) (any, error) {
	var marker [1]byte
	if _, err := io.ReadFull(r, marker[:]); err != nil {
		return nil, fmt.Errorf("marker: %w", err)
	}
	switch marker[0] {
	case markerNumber:
		return decodeNumber(r)
	case markerBoolean:
		return decodeBoolean(r)
	case markerString:
		return decodeString(r)
	case markerNull:
		return nil, nil
	case markerObject:
		return decodeObject(r)
	case markerStrictArray:
		return decodeStrictArray(r)
	default:
		return nil, fmt.Errorf("unsupported marker 0x%02x", marker[0])
	}
}

func decodeNumber(r io.Reader) (float64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b[:])), nil
}

func decodeBoolean(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func decodeString(r io.Reader) (string, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeObject(r io.Reader) (map[string]any, error) {
	out := make(map[string]any)
	for {
		var lenBuf [2]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, err
		}
		n := binary.BigEndian.Uint16(lenBuf[:])
		if n == 0 {
			var end [1]byte
			if _, err := io.ReadFull(r, end[:]); err != nil {
				return nil, err
			}
			if end[0] != markerObjectEnd {
				return nil, fmt.Errorf("expected object-end marker, got 0x%02x", end[0])
			}
			return out, nil
		}
		kb := make([]byte, n)
		if _, err := io.ReadFull(r, kb); err != nil {
			return nil, err
		}
		v, err := decodeValue(r)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", string(kb), err)
		}
		out[string(kb)] = v
	}
}

func decodeStrictArray(r io.Reader) ([]any, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	out := make([]any, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := decodeValue(r)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
