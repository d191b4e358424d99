// Package chunk implements Hyperion's chunked framing engine: splitting
// a byte buffer into one or more chunks on send, and validating and
// reassembling a chunk sequence on receive. The engine is monomorphic
// over opaque byte buffers — the generic application-value layer lives
// one level up, in the serializer package.
package chunk

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/TechTeaStudio/HyperionProtocol/internal/bufpool"
	"github.com/TechTeaStudio/HyperionProtocol/internal/herrors"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hyperion/header"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hyperion/stats"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hyperion/wire"
)

// ChunkSize is the maximum payload bytes carried by a single chunk.
const ChunkSize = header.ChunkSize

// flusher is implemented by transports that buffer writes and need an
// explicit flush at packet boundaries: every write is followed by one
// flush per packet, never per chunk.
type flusher interface{ Flush() error }

// Engine is the chunked framing engine. It holds no per-packet state
// between calls — packets are ephemeral — so a single Engine value is
// safe to reuse (but not to use concurrently for two interleaved packets
// on the same transport).
type Engine struct {
	// Stats, if non-nil, is updated by the owning Send/Receive call only.
	Stats *stats.Counters
}

// New constructs a chunked framing engine.
func New() *Engine { return &Engine{} }

// Send splits data into chunks of at most ChunkSize bytes, framing each
// with a JSON header, and writes the resulting sequence to w. A fresh
// PacketId is generated for the packet. Cancellation is checked before
// each chunk.
func (e *Engine) Send(ctx context.Context, data []byte, w io.Writer) error {
	if w == nil {
		return herrors.ArgumentInvalid("chunk.send", errors.New("nil transport"))
	}
	totalChunks := totalChunksFor(len(data))
	packetID := uuid.New()

	offset := 0
	for i := int32(0); i < totalChunks; i++ {
		select {
		case <-ctx.Done():
			return herrors.Cancelled("chunk.send")
		default:
		}

		size := len(data) - offset
		if size > ChunkSize {
			size = ChunkSize
		}

		h := header.New(packetID, i, totalChunks, int32(size))
		hb, err := header.Encode(h)
		if err != nil {
			return err
		}
		if err := wire.WriteInt32BE(w, int32(len(hb))); err != nil {
			return herrors.TransportError("chunk.send", err)
		}
		if _, err := w.Write(hb); err != nil {
			return herrors.TransportError("chunk.send", err)
		}
		if size > 0 {
			if _, err := w.Write(data[offset : offset+size]); err != nil {
				return herrors.TransportError("chunk.send", err)
			}
		}
		offset += size
	}

	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return herrors.TransportError("chunk.send.flush", err)
		}
	}
	if e.Stats != nil {
		e.Stats.RecordSend(stats.ModeChunked, len(data), int(totalChunks))
	}
	return nil
}

// Receive reads one complete chunked packet from r, validates every chunk,
// and returns the reassembled payload bytes. Any validation failure or
// premature EOF is terminal: the engine never attempts to resynchronize.
func (e *Engine) Receive(ctx context.Context, r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, herrors.ArgumentInvalid("chunk.receive", errors.New("nil transport"))
	}

	var (
		expectedID    uuid.UUID
		expectedTotal int32 = -1
		chunks        [][]byte
	)

	for expectedTotal == -1 || int32(len(chunks)) < expectedTotal {
		select {
		case <-ctx.Done():
			return nil, herrors.Cancelled("chunk.receive")
		default:
		}

		hlen, err := wire.ReadInt32BE(r)
		if err != nil {
			return nil, err
		}
		if hlen < 1 || hlen > header.HeaderLengthLimit {
			return nil, herrors.ProtocolViolation("chunk.receive", "header length outside HeaderLengthLimit")
		}
		hb, err := wire.ReadExact(r, int(hlen))
		if err != nil {
			return nil, err
		}
		h, err := header.Decode(hb)
		bufpool.Put(hb)
		if err != nil {
			return nil, err
		}

		if expectedTotal == -1 {
			expectedID = h.PacketID
			expectedTotal = h.TotalChunks
		} else {
			if h.PacketID != expectedID {
				return nil, herrors.ProtocolViolation("chunk.receive", "PacketId changed within packet")
			}
			if h.TotalChunks != expectedTotal {
				return nil, herrors.ProtocolViolation("chunk.receive", "TotalChunks changed within packet")
			}
		}
		if int(h.ChunkNumber) != len(chunks) {
			return nil, herrors.ProtocolViolation("chunk.receive", "Chunk received out of order")
		}

		var payload []byte
		if h.DataLength > 0 {
			payload, err = wire.ReadExact(r, int(h.DataLength))
			if err != nil {
				return nil, err
			}
		}
		chunks = append(chunks, payload)
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := bufpool.Get(total)
	pos := 0
	for _, c := range chunks {
		pos += copy(out[pos:], c)
		bufpool.Put(c)
	}
	if e.Stats != nil {
		e.Stats.RecordReceive(len(out))
	}
	return out, nil
}

// totalChunksFor returns max(1, ceil(n/ChunkSize)).
func totalChunksFor(n int) int32 {
	total := n / ChunkSize
	if n%ChunkSize != 0 {
		total++
	}
	if total < 1 {
		total = 1
	}
	return int32(total)
}
