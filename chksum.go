package flashsave

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// chksumSize is the on-disk width of a Chksum: 4 bytes, big-endian.
const chksumSize = 4

// chksumMask keeps the lower 31 bits of a checksum. The high bit is reserved
// as the written/erased marker: erased flash reads back as all-ones, so any
// slot whose first byte has its high bit set can never hold a legitimately
// produced checksum.
const chksumMask uint32 = 1<<31 - 1

// Chksum is a 31-bit chained hash with a validity marker in its most
// significant bit. The exact hash function is part of the on-media format
// and must never change without a format version bump: it is frozen as the
// lower 31 bits of xxh3.Hash(prev.Bytes() || data).
type Chksum uint32

// ZeroChksum is the prev checksum of the very first committed record.
const ZeroChksum Chksum = 0

// HashChksum computes a new checksum chained from prev over data.
func HashChksum(prev Chksum, data []byte) Chksum {
	prevBytes := prev.Bytes()
	buf := make([]byte, 0, chksumSize+len(data))
	buf = append(buf, prevBytes[:]...)
	buf = append(buf, data...)
	return Chksum(uint32(xxh3.Hash(buf)) & chksumMask)
}

// IsValid reports whether the checksum's most significant bit is zero, i.e.
// it could have been legitimately produced rather than read back from
// erased flash.
func (c Chksum) IsValid() bool {
	return uint32(c)&^chksumMask == 0
}

// Bytes serializes the checksum to its fixed 4-byte big-endian form.
func (c Chksum) Bytes() [chksumSize]byte {
	var b [chksumSize]byte
	binary.BigEndian.PutUint32(b[:], uint32(c))
	return b
}

// ChksumFromBytes parses a checksum from its big-endian form. Parsing is
// infallible; the result is only meaningful when IsValid reports true.
func ChksumFromBytes(b [chksumSize]byte) Chksum {
	return Chksum(binary.BigEndian.Uint32(b[:]))
}
