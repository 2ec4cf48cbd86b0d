package flashmock

import "testing"

func TestByteFlashReadWriteErase(t *testing.T) {
	f := NewByteFlash(16)

	if err := f.Write(4, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf := make([]byte, 3)
	if err := f.Read(4, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf) != "\x01\x02\x03" {
		t.Errorf("Read = %v, want [1 2 3]", buf)
	}

	if err := f.Erase(4); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if err := f.Read(4, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if buf[0] != 0xFF {
		t.Errorf("Read after Erase = %v, want first byte 0xFF", buf)
	}
}

func TestByteFlashSnapshotRoundTrip(t *testing.T) {
	f := NewByteFlash(8)
	if err := f.Write(0, []byte("abcd")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	snap := f.Snapshot()
	restored := FromSnapshot(snap)

	buf := make([]byte, 4)
	if err := restored.Read(0, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf) != "abcd" {
		t.Errorf("Read = %q, want %q", buf, "abcd")
	}
}

func TestSectorFlashWriteOnlyClearsBits(t *testing.T) {
	f := NewSectorFlash(8, 2)

	// Erased state is all-ones; writing 0b1010_1010 should AND into place.
	if err := f.Write(0, []byte{0b10101010}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf := make([]byte, 1)
	if err := f.Read(0, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if buf[0] != 0b10101010 {
		t.Errorf("Read = %08b, want %08b", buf[0], 0b10101010)
	}

	// A second write can only clear further bits, never set them back.
	if err := f.Write(0, []byte{0b11111111}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Read(0, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if buf[0] != 0b10101010 {
		t.Errorf("second write changed set bits: Read = %08b, want %08b", buf[0], 0b10101010)
	}
}

func TestSectorFlashEraseClearsWholeSector(t *testing.T) {
	f := NewSectorFlash(4, 2)
	if err := f.Write(1, []byte{0x00, 0x00}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Erase(1); err != nil {
		t.Fatalf("Erase: %v", err)
	}

	buf := make([]byte, 4)
	if err := f.Read(0, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	for i, b := range buf {
		if b != 0xFF {
			t.Errorf("byte %d = %#x after erase, want 0xFF", i, b)
		}
	}
}

func TestSectorFlashEraseAll(t *testing.T) {
	f := NewSectorFlash(4, 4)
	for i := 0; i < 4; i++ {
		if err := f.Write(uint32(i*4), []byte{0, 0, 0, 0}); err != nil {
			t.Fatalf("Write(%d): %v", i, err)
		}
	}

	if err := f.EraseAll(2); err != nil {
		t.Fatalf("EraseAll: %v", err)
	}

	buf := make([]byte, 4)
	for i := 0; i < 2; i++ {
		if err := f.Read(uint32(i*4), buf); err != nil {
			t.Fatalf("Read(%d): %v", i, err)
		}
		for _, b := range buf {
			if b != 0xFF {
				t.Errorf("sector %d not erased: %v", i, buf)
			}
		}
	}
	if err := f.Read(8, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	for _, b := range buf {
		if b != 0 {
			t.Errorf("sector 2 should be untouched by EraseAll(2), got %v", buf)
		}
	}
}

func TestCounterTracksOperations(t *testing.T) {
	inner := NewByteFlash(32)
	c := NewCounter(inner)

	if err := c.Write(0, []byte("hi")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	buf := make([]byte, 2)
	if err := c.Read(0, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := c.Erase(0); err != nil {
		t.Fatalf("Erase: %v", err)
	}

	if c.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", c.Writes())
	}
	if c.Reads() != 1 {
		t.Errorf("Reads() = %d, want 1", c.Reads())
	}
	if c.Erases() != 1 {
		t.Errorf("Erases() = %d, want 1", c.Erases())
	}
	if c.BytesWritten() != 2 {
		t.Errorf("BytesWritten() = %d, want 2", c.BytesWritten())
	}
	if c.BytesRead() != 2 {
		t.Errorf("BytesRead() = %d, want 2", c.BytesRead())
	}
}

func TestWearAuditorFindsColdSlots(t *testing.T) {
	auditor := NewWearAuditor(4)
	flash := NewAuditedFlash(NewByteFlash(64), 16, auditor)

	if err := flash.Erase(0); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if err := flash.Erase(32); err != nil {
		t.Fatalf("Erase: %v", err)
	}

	cold := auditor.ColdSlots()
	if len(cold) != 2 {
		t.Fatalf("ColdSlots() = %v, want 2 entries", cold)
	}

	want := map[int]bool{1: true, 3: true}
	for _, idx := range cold {
		if !want[idx] {
			t.Errorf("unexpected cold slot %d", idx)
		}
	}
}
