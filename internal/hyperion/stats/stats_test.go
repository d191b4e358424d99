package stats

import (
	"sync"
	"testing"
)

func TestRecordSendAccumulatesByMode(t *testing.T) {
	var c Counters
	c.RecordSend(ModeLightweight, 10, 1)
	c.RecordSend(ModeDirect, 2000, 1)
	c.RecordSend(ModeChunked, 3000000, 3)

	snap := c.Snapshot()
	if snap.PacketsSent != 3 {
		t.Fatalf("got %d packets sent, want 3", snap.PacketsSent)
	}
	if snap.BytesSent != 10+2000+3000000 {
		t.Fatalf("got %d bytes sent", snap.BytesSent)
	}
	if snap.ChunksEmitted != 5 {
		t.Fatalf("got %d chunks emitted, want 5", snap.ChunksEmitted)
	}
	if snap.LightweightSent != 1 || snap.DirectSent != 1 || snap.ChunkedSent != 1 {
		t.Fatalf("unexpected per-mode counts: %+v", snap)
	}
}

func TestRecordReceiveAccumulates(t *testing.T) {
	var c Counters
	c.RecordReceive(100)
	c.RecordReceive(50)

	snap := c.Snapshot()
	if snap.PacketsReceived != 2 || snap.BytesReceived != 150 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestZeroValueIsReadyToUse(t *testing.T) {
	var c Counters
	snap := c.Snapshot()
	if snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestCountersSafeForConcurrentUse(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup
	const n = 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			c.RecordSend(ModeDirect, 10, 1)
		}()
	}
	wg.Wait()

	if got := c.Snapshot().PacketsSent; got != n {
		t.Fatalf("got %d packets sent, want %d", got, n)
	}
}
