// Package stats tracks observational counters for a Hyperion engine
// instance. The engine's send/receive decision logic never reads from
// this package — it is write-only from the owning call, read-only for
// everyone else.
package stats

import "sync/atomic"

// Mode identifies which wire encoding a packet used.
type Mode int

const (
	ModeLightweight Mode = iota
	ModeDirect
	ModeChunked
)

// Counters accumulates send/receive activity. The zero value is ready to
// use. Safe for concurrent use: every field is updated with atomic ops.
type Counters struct {
	packetsSent     atomic.Int64
	packetsReceived atomic.Int64
	bytesSent       atomic.Int64
	bytesReceived   atomic.Int64
	chunksEmitted   atomic.Int64
	lightweightSent atomic.Int64
	directSent      atomic.Int64
	chunkedSent     atomic.Int64
}

// RecordSend updates counters for one outbound packet.
func (c *Counters) RecordSend(mode Mode, payloadBytes int, chunks int) {
	c.packetsSent.Add(1)
	c.bytesSent.Add(int64(payloadBytes))
	c.chunksEmitted.Add(int64(chunks))
	switch mode {
	case ModeLightweight:
		c.lightweightSent.Add(1)
	case ModeDirect:
		c.directSent.Add(1)
	case ModeChunked:
		c.chunkedSent.Add(1)
	}
}

// RecordReceive updates counters for one inbound packet.
func (c *Counters) RecordReceive(payloadBytes int) {
	c.packetsReceived.Add(1)
	c.bytesReceived.Add(int64(payloadBytes))
}

// Snapshot is a point-in-time copy of Counters, safe to read without
// further synchronization.
type Snapshot struct {
	PacketsSent     int64
	PacketsReceived int64
	BytesSent       int64
	BytesReceived   int64
	ChunksEmitted   int64
	LightweightSent int64
	DirectSent      int64
	ChunkedSent     int64
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		PacketsSent:     c.packetsSent.Load(),
		PacketsReceived: c.packetsReceived.Load(),
		BytesSent:       c.bytesSent.Load(),
		BytesReceived:   c.bytesReceived.Load(),
		ChunksEmitted:   c.chunksEmitted.Load(),
		LightweightSent: c.lightweightSent.Load(),
		DirectSent:      c.directSent.Load(),
		ChunkedSent:     c.chunkedSent.Load(),
	}
}
