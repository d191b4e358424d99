// Package wire implements Hyperion's fixed-width big-endian integer codecs
// and the exact-read helper every framing path (lightweight, direct,
// chunked) builds on.
package wire

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/TechTeaStudio/HyperionProtocol/internal/bufpool"
	"github.com/TechTeaStudio/HyperionProtocol/internal/herrors"
)

// WriteUint16BE writes v to w as two big-endian bytes.
func WriteUint16BE(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// WriteInt32BE writes v to w as four big-endian bytes.
func WriteInt32BE(w io.Writer, v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return err
}

// ReadUint16BE reads two big-endian bytes from r and returns the value.
func ReadUint16BE(r io.Reader) (uint16, error) {
	b, err := ReadExact(r, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadInt32BE reads four big-endian bytes from r and returns the value.
func ReadInt32BE(r io.Reader) (int32, error) {
	b, err := ReadExact(r, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ReadExact reads exactly n bytes from r. A partial read followed by the
// peer closing the stream surfaces as herrors.KindEndOfStream rather than
// a short success — a caller must never see fewer bytes than it asked for
// without an error. The returned slice is acquired from bufpool; callers
// that consume it transiently (a header, a single chunk payload) should
// release it with bufpool.Put once they're done.
func ReadExact(r io.Reader, n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	buf := bufpool.Get(n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, herrors.EndOfStream("wire.read_exact", err)
		}
		return nil, herrors.TransportError("wire.read_exact", err)
	}
	return buf, nil
}
