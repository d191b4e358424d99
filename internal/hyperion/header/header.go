// Package header implements Hyperion's packet header codec: pure
// encode/decode functions over a ChunkHeader, never touching the
// transport. The wire representation is JSON text.
package header

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/TechTeaStudio/HyperionProtocol/internal/herrors"
)

// Magic is the required tag every chunk header must carry.
const Magic = "TTS"

// FlagEndOfPacket is bit 0 of Flags: set iff ChunkNumber == TotalChunks-1.
const FlagEndOfPacket uint8 = 1

// ChunkSize is the maximum payload bytes carried by a single chunk.
const ChunkSize = 1 << 20 // 1 MiB

// HeaderLengthLimit bounds the encoded size of a single header.
const HeaderLengthLimit = 65536

// ChunkHeader is the per-chunk header carried in front of every chunk's
// payload bytes.
type ChunkHeader struct {
	Magic       string    `json:"magic"`
	PacketID    uuid.UUID `json:"packet_id"`
	ChunkNumber int32     `json:"chunk_number"`
	TotalChunks int32     `json:"total_chunks"`
	DataLength  int32     `json:"data_length"`
	Flags       uint8     `json:"flags"`
}

// New builds a header for chunk `chunkNumber` of `totalChunks`, carrying
// `dataLength` payload bytes, with the end-of-packet flag set according to
// position.
func New(packetID uuid.UUID, chunkNumber, totalChunks, dataLength int32) ChunkHeader {
	var flags uint8
	if chunkNumber == totalChunks-1 {
		flags = FlagEndOfPacket
	}
	return ChunkHeader{
		Magic:       Magic,
		PacketID:    packetID,
		ChunkNumber: chunkNumber,
		TotalChunks: totalChunks,
		DataLength:  dataLength,
		Flags:       flags,
	}
}

// Encode serializes h to JSON and enforces HeaderLengthLimit. Encode does
// not validate field invariants beyond what New already guarantees — the
// receiver, not the sender, enforces field invariants on untrusted input
// (see Decode).
func Encode(h ChunkHeader) ([]byte, error) {
	b, err := json.Marshal(h)
	if err != nil {
		return nil, herrors.ProtocolViolation("header.encode", fmt.Sprintf("json marshal: %v", err))
	}
	if len(b) < 1 || len(b) > HeaderLengthLimit {
		return nil, herrors.ProtocolViolation("header.encode",
			fmt.Sprintf("encoded header length %d outside [1,%d]", len(b), HeaderLengthLimit))
	}
	return b, nil
}

// Decode parses and validates a chunk header. Unknown JSON fields are
// tolerated for forward compatibility; missing required fields, a magic
// mismatch, or any invariant violation is rejected as a
// ProtocolViolation.
func Decode(data []byte) (ChunkHeader, error) {
	var raw struct {
		Magic       *string    `json:"magic"`
		PacketID    *uuid.UUID `json:"packet_id"`
		ChunkNumber *int32     `json:"chunk_number"`
		TotalChunks *int32     `json:"total_chunks"`
		DataLength  *int32     `json:"data_length"`
		Flags       *uint8     `json:"flags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ChunkHeader{}, herrors.ProtocolViolation("header.decode", fmt.Sprintf("invalid json: %v", err))
	}
	if raw.Magic == nil || raw.PacketID == nil || raw.ChunkNumber == nil ||
		raw.TotalChunks == nil || raw.DataLength == nil || raw.Flags == nil {
		return ChunkHeader{}, herrors.ProtocolViolation("header.decode", "missing required field")
	}
	h := ChunkHeader{
		Magic:       *raw.Magic,
		PacketID:    *raw.PacketID,
		ChunkNumber: *raw.ChunkNumber,
		TotalChunks: *raw.TotalChunks,
		DataLength:  *raw.DataLength,
		Flags:       *raw.Flags,
	}
	if err := Validate(h); err != nil {
		return ChunkHeader{}, err
	}
	return h, nil
}

// Validate enforces every header invariant that is local to a single
// header (cross-chunk rules — matching PacketId/TotalChunks and in-order
// ChunkNumber — are enforced by the chunk engine, which has the receiving
// state to check them against).
func Validate(h ChunkHeader) error {
	if h.Magic != Magic {
		return herrors.ProtocolViolation("header.validate", "Invalid protocol magic")
	}
	if h.TotalChunks <= 0 {
		return herrors.ProtocolViolation("header.validate", "TotalChunks must be > 0")
	}
	if h.ChunkNumber < 0 || h.ChunkNumber >= h.TotalChunks {
		return herrors.ProtocolViolation("header.validate", "ChunkNumber out of range")
	}
	if h.DataLength < 0 || h.DataLength > ChunkSize {
		return herrors.ProtocolViolation("header.validate", "DataLength out of range")
	}
	if h.Flags&^FlagEndOfPacket != 0 {
		return herrors.ProtocolViolation("header.validate", "reserved Flags bits set")
	}
	isLast := h.ChunkNumber == h.TotalChunks-1
	hasFlag := h.Flags&FlagEndOfPacket != 0
	if isLast != hasFlag {
		return herrors.ProtocolViolation("header.validate", "end-of-packet flag disagrees with chunk position")
	}
	return nil
}
