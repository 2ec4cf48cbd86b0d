// Package flashmock provides in-memory Flash test doubles and
// instrumentation, the flashsave analogue of bitdb's SetupTempDB helper:
// fixtures for exercising the store against both byte-addressable
// (EEPROM-like) and sector-addressable (NOR-like) write semantics without
// real hardware.
package flashmock

// ByteFlash is a byte-addressable in-memory Flash double. Writes land
// exactly where addressed and erase clears a single byte to 0xFF, matching
// the write granularity of an I2C/SPI EEPROM.
type ByteFlash struct {
	data []byte
}

// NewByteFlash returns a ByteFlash of the given size, initialized to 0xFF
// throughout (the erased state every header/chksum validity check assumes).
func NewByteFlash(size int) *ByteFlash {
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xFF
	}
	return &ByteFlash{data: data}
}

func (f *ByteFlash) Read(addr uint32, buf []byte) error {
	copy(buf, f.data[addr:])
	return nil
}

func (f *ByteFlash) Write(addr uint32, data []byte) error {
	copy(f.data[addr:], data)
	return nil
}

func (f *ByteFlash) Erase(addr uint32) error {
	f.data[addr] = 0xFF
	return nil
}

// Snapshot returns a copy of the underlying bytes, useful for constructing a
// second Flash that resumes from the same on-device state (simulating a
// reboot) or for tearing a write mid-flight in a power-fail test.
func (f *ByteFlash) Snapshot() []byte {
	return append([]byte(nil), f.data...)
}

// FromSnapshot builds a ByteFlash from previously captured bytes.
func FromSnapshot(data []byte) *ByteFlash {
	return &ByteFlash{data: append([]byte(nil), data...)}
}
