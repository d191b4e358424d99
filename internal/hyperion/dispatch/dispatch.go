// Package dispatch implements Hyperion's adaptive "smart" dispatcher: it
// picks one of three wire encodings on send based on payload size, and
// auto-detects the encoding on receive from a single discriminator byte.
// It is a thin wrapper composing a chunk.Engine, not a subtype of it.
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/TechTeaStudio/HyperionProtocol/internal/herrors"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hyperion/chunk"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hyperion/stats"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hyperion/wire"
)

const (
	// ModeLightweight is the discriminator byte for payloads under
	// LightweightMax bytes.
	ModeLightweight byte = 0xFF
	// ModeDirect is the discriminator byte for payloads between
	// LightweightMax and DirectMax bytes.
	ModeDirect byte = 0xFE
)

const (
	// LightweightMax is the exclusive upper bound for lightweight mode.
	LightweightMax = 1024
	// DirectMax is the exclusive upper bound for direct mode.
	DirectMax = 65536
)

type flusher interface{ Flush() error }

// SmartEngine adaptively selects among lightweight, direct, and chunked
// wire encodings. The chunked path is bit-compatible with a plain
// chunk.Engine's wire format: a smart sender interoperates with a plain
// chunked receiver for payloads >= DirectMax.
type SmartEngine struct {
	chunked *chunk.Engine
	// Stats, if non-nil, is updated by the owning Send/Receive call only,
	// across all three modes.
	Stats *stats.Counters
}

// New constructs a smart dispatcher over a fresh chunk.Engine.
func New() *SmartEngine {
	return &SmartEngine{chunked: chunk.New()}
}

// WithStats attaches a shared counters object and returns s for chaining.
func (s *SmartEngine) WithStats(c *stats.Counters) *SmartEngine {
	s.Stats = c
	s.chunked.Stats = c
	return s
}

// Send writes data to w using the mode selected by len(data): lightweight
// for payloads under LightweightMax, direct for payloads under DirectMax,
// chunked otherwise.
func (s *SmartEngine) Send(ctx context.Context, data []byte, w io.Writer) error {
	if w == nil {
		return herrors.ArgumentInvalid("dispatch.send", errors.New("nil transport"))
	}
	switch {
	case len(data) < LightweightMax:
		return s.sendLightweight(data, w)
	case len(data) < DirectMax:
		return s.sendDirect(data, w)
	default:
		return s.chunked.Send(ctx, data, w)
	}
}

func (s *SmartEngine) sendLightweight(data []byte, w io.Writer) error {
	if _, err := w.Write([]byte{ModeLightweight}); err != nil {
		return herrors.TransportError("dispatch.send.lightweight", err)
	}
	if err := wire.WriteUint16BE(w, uint16(len(data))); err != nil {
		return herrors.TransportError("dispatch.send.lightweight", err)
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return herrors.TransportError("dispatch.send.lightweight", err)
		}
	}
	if err := flush(w); err != nil {
		return err
	}
	if s.Stats != nil {
		s.Stats.RecordSend(stats.ModeLightweight, len(data), 1)
	}
	return nil
}

func (s *SmartEngine) sendDirect(data []byte, w io.Writer) error {
	if _, err := w.Write([]byte{ModeDirect}); err != nil {
		return herrors.TransportError("dispatch.send.direct", err)
	}
	if err := wire.WriteInt32BE(w, int32(len(data))); err != nil {
		return herrors.TransportError("dispatch.send.direct", err)
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return herrors.TransportError("dispatch.send.direct", err)
		}
	}
	if err := flush(w); err != nil {
		return err
	}
	if s.Stats != nil {
		s.Stats.RecordSend(stats.ModeDirect, len(data), 1)
	}
	return nil
}

func flush(w io.Writer) error {
	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return herrors.TransportError("dispatch.send.flush", err)
		}
	}
	return nil
}

// Receive reads one packet from r, auto-detecting its mode from the
// leading discriminator byte, and returns the reassembled payload.
func (s *SmartEngine) Receive(ctx context.Context, r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, herrors.ArgumentInvalid("dispatch.receive", errors.New("nil transport"))
	}
	select {
	case <-ctx.Done():
		return nil, herrors.Cancelled("dispatch.receive")
	default:
	}
	mode, err := wire.ReadExact(r, 1)
	if err != nil {
		return nil, err
	}
	switch mode[0] {
	case ModeLightweight:
		n, err := wire.ReadUint16BE(r)
		if err != nil {
			return nil, err
		}
		data, err := wire.ReadExact(r, int(n))
		if err != nil {
			return nil, err
		}
		if s.Stats != nil {
			s.Stats.RecordReceive(len(data))
		}
		return data, nil
	case ModeDirect:
		n, err := wire.ReadInt32BE(r)
		if err != nil {
			return nil, err
		}
		if n < 0 || n >= DirectMax {
			return nil, herrors.ProtocolViolation("dispatch.receive.direct", "length outside [0,DirectMax)")
		}
		data, err := wire.ReadExact(r, int(n))
		if err != nil {
			return nil, err
		}
		if s.Stats != nil {
			s.Stats.RecordReceive(len(data))
		}
		return data, nil
	default:
		// mode[0] is the most-significant byte of the chunked path's
		// 32-bit header length. Read the remaining 3 bytes to complete
		// it, then hand the stream to the chunk engine behind a reader
		// that replays the four already-consumed length bytes, so the
		// engine reads the header length from the replay and continues
		// with the header.
		rest, err := wire.ReadExact(r, 3)
		if err != nil {
			return nil, err
		}
		lenBytes := append([]byte{mode[0]}, rest...)
		return s.chunked.Receive(ctx, io.MultiReader(bytes.NewReader(lenBytes), r))
	}
}
