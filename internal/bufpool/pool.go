// Package bufpool provides sized byte-slice pooling to reduce GC churn
// across the framing engine's three wire paths (lightweight, direct,
// chunked), each of which has a characteristic payload size ceiling.
package bufpool

import "sync"

// Size classes mirror Hyperion's own thresholds: lightweight payloads stay
// under 1 KiB, direct payloads under 64 KiB, and chunked payloads are cut
// into at most 1 MiB pieces (dispatch.LightweightMax, dispatch.DirectMax,
// chunk.ChunkSize).
var sizeClasses = []int{1024, 65536, 1048576}

type classPool struct {
	size int
	pool *sync.Pool
}

// Pool hands out byte slices from a small set of predefined size classes.
type Pool struct {
	pools []classPool
}

var defaultPool = New()

// Get acquires a buffer from the package-level default pool.
func Get(size int) []byte { return defaultPool.Get(size) }

// Put releases a buffer back to the package-level default pool.
func Put(buf []byte) { defaultPool.Put(buf) }

// New creates a buffer pool sized for Hyperion's three wire paths.
func New() *Pool {
	pools := make([]classPool, len(sizeClasses))
	for i, classSize := range sizeClasses {
		size := classSize
		pools[i] = classPool{
			size: size,
			pool: &sync.Pool{New: func() any { return make([]byte, size) }},
		}
	}
	return &Pool{pools: pools}
}

// Get returns a byte slice of exactly the requested length, backed by the
// nearest size class that can accommodate it. Requests larger than the
// largest class allocate a fresh, unpooled slice.
func (p *Pool) Get(size int) []byte {
	if p == nil || size <= 0 {
		return nil
	}
	for i := range p.pools {
		class := &p.pools[i]
		if size <= class.size {
			buf := class.pool.Get().([]byte)
			return buf[:size]
		}
	}
	return make([]byte, size)
}

// Put returns buf to the pool if its capacity matches a predefined size
// class; otherwise it is discarded. The buffer is zeroed before reuse so
// one caller's payload bytes never leak into another's buffer.
func (p *Pool) Put(buf []byte) {
	if p == nil || buf == nil {
		return
	}
	capBuf := cap(buf)
	for i := range p.pools {
		class := &p.pools[i]
		if capBuf == class.size {
			full := buf[:class.size]
			clear(full)
			class.pool.Put(full)
			return
		}
	}
}
