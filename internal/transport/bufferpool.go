package transport

import "sync"

var buffers = sync.Pool{
	New: func() interface{} {
		return make([]byte, bufferSize)
	},
}

// getBuffer fetches a buffer from the pool, sized for a full-size packet.
func getBuffer() []byte {
	return buffers.Get().([]byte)[:bufferSize]
}

// putBuffer returns a buffer to the pool.
func putBuffer(buf []byte) {
	if cap(buf) >= bufferSize {
		buffers.Put(buf[:bufferSize])
	}
}
