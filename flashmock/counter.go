package flashmock

import "sync/atomic"

// Counter wraps a Flash and tallies operation counts and byte volumes with
// atomic counters, so it can be shared across goroutines exercising the
// same device concurrently. It is meant for wear/throughput assertions in
// tests, not for production use.
type Counter struct {
	flash interface {
		Read(addr uint32, buf []byte) error
		Write(addr uint32, data []byte) error
		Erase(addr uint32) error
	}

	reads, writes, erases   int64
	bytesRead, bytesWritten int64
}

// NewCounter wraps flash, counting every Read, Write, and Erase call made
// through it.
func NewCounter(flash interface {
	Read(addr uint32, buf []byte) error
	Write(addr uint32, data []byte) error
	Erase(addr uint32) error
}) *Counter {
	return &Counter{flash: flash}
}

func (c *Counter) Read(addr uint32, buf []byte) error {
	atomic.AddInt64(&c.reads, 1)
	atomic.AddInt64(&c.bytesRead, int64(len(buf)))
	return c.flash.Read(addr, buf)
}

func (c *Counter) Write(addr uint32, data []byte) error {
	atomic.AddInt64(&c.writes, 1)
	atomic.AddInt64(&c.bytesWritten, int64(len(data)))
	return c.flash.Write(addr, data)
}

func (c *Counter) Erase(addr uint32) error {
	atomic.AddInt64(&c.erases, 1)
	return c.flash.Erase(addr)
}

// Reads, Writes, Erases, BytesRead, and BytesWritten report cumulative
// operation counts since construction.
func (c *Counter) Reads() int64        { return atomic.LoadInt64(&c.reads) }
func (c *Counter) Writes() int64       { return atomic.LoadInt64(&c.writes) }
func (c *Counter) Erases() int64       { return atomic.LoadInt64(&c.erases) }
func (c *Counter) BytesRead() int64    { return atomic.LoadInt64(&c.bytesRead) }
func (c *Counter) BytesWritten() int64 { return atomic.LoadInt64(&c.bytesWritten) }
