package flashsave

import "encoding/binary"

// lengthSize is the on-disk width of the payload length field.
const lengthSize = 4

// HeaderSize is the fixed size, in bytes, of a slot header: the current
// checksum, the payload length, and the previous checksum.
const HeaderSize = chksumSize + lengthSize + chksumSize

// Header is the fixed-size record header placed at the start of a
// committed slot. It is only meaningful once IsValid reports true: parsing
// a header from bytes is infallible, but the bytes may simply be erased
// flash or the mid-span payload of some other record.
type Header struct {
	Idx    int    // owning slot index, not serialized
	Chksum Chksum // hash of (Prev || payload)
	Length uint32 // payload byte count
	Prev   Chksum // chksum of the immediately preceding committed record, or zero
}

// CreateHeader builds an in-memory header for a new record at slot idx,
// chained off prev, covering data.
func CreateHeader(idx int, prev Chksum, data []byte) Header {
	return Header{
		Idx:    idx,
		Chksum: HashChksum(prev, data),
		Length: uint32(len(data)),
		Prev:   prev,
	}
}

// IsValid reports whether both embedded checksums have their high bit
// clear. A slot whose first byte has the high bit set fails this
// immediately (see Store.Scan's early-skip).
func (h Header) IsValid() bool {
	return h.Chksum.IsValid() && h.Prev.IsValid()
}

// IsUpdateTo reports whether h is the record that immediately follows
// other in the commit chain, i.e. h.Prev == other.Chksum.
func (h Header) IsUpdateTo(other Header) bool {
	return h.Prev == other.Chksum
}

// UsedBytes returns the number of bytes on the device this record
// occupies, including its own header and the one-byte continuation marker
// reserved at the start of every slot after the first.
func (h Header) UsedBytes(slotSize int) int {
	size := HeaderSize
	remainingData := int(h.Length)
	remainingSpace := slotSize - HeaderSize

	for {
		step := remainingSpace
		if remainingData < step {
			step = remainingData
		}
		size += step
		remainingData -= step

		if remainingData == 0 {
			break
		}

		size++ // continuation marker byte of the next slot
		remainingSpace = slotSize - 1
	}

	return size
}

// NextSlot returns the index of the first slot that is free once this
// record has been committed, wrapped modulo slotCount.
func (h Header) NextSlot(slotSize, slotCount int) int {
	usedSlots := ceilDiv(h.UsedBytes(slotSize), slotSize)
	return (h.Idx + usedSlots) % slotCount
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Bytes serializes the header to its fixed-width wire form:
// chksum(4) || length(4) || prev(4), all big-endian.
func (h Header) Bytes() [HeaderSize]byte {
	var b [HeaderSize]byte
	chk := h.Chksum.Bytes()
	copy(b[0:chksumSize], chk[:])
	binary.BigEndian.PutUint32(b[chksumSize:chksumSize+lengthSize], h.Length)
	prev := h.Prev.Bytes()
	copy(b[chksumSize+lengthSize:], prev[:])
	return b
}

// HeaderFromBytes parses a header from its wire form. idx records which
// slot it was read from. Parsing never fails; check IsValid before trusting
// the result.
func HeaderFromBytes(idx int, b [HeaderSize]byte) Header {
	var chk, prev [chksumSize]byte
	copy(chk[:], b[0:chksumSize])
	copy(prev[:], b[chksumSize+lengthSize:])

	return Header{
		Idx:    idx,
		Chksum: ChksumFromBytes(chk),
		Length: binary.BigEndian.Uint32(b[chksumSize : chksumSize+lengthSize]),
		Prev:   ChksumFromBytes(prev),
	}
}
