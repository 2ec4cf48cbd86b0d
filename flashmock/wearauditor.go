package flashmock

import (
	"log"

	mapset "github.com/deckarep/golang-set/v2"
)

// WearAuditor tracks which slot indices have ever been erased, the same
// set-difference technique bitdb uses to flag orphaned segment files after
// a merge: an expected set built from the full slot range is compared
// against the set actually observed, and whatever never shows up is logged
// as a warning. Here the roles are reversed — the set of slots that never
// wore is the interesting one, since it points at ranges the wear-leveling
// scheme is failing to cycle through.
type WearAuditor struct {
	slotCount int
	erased    mapset.Set[int]
}

// NewWearAuditor returns an auditor for a device with the given slot count.
func NewWearAuditor(slotCount int) *WearAuditor {
	return &WearAuditor{
		slotCount: slotCount,
		erased:    mapset.NewSet[int](),
	}
}

// Observe records that slot idx was erased. Call this from a test's Flash
// double, or wrap one with it, each time Erase(addr) is invoked.
func (w *WearAuditor) Observe(idx int) {
	w.erased.Add(idx % w.slotCount)
}

// ColdSlots returns every slot index that has never been erased. A healthy
// wear-leveling run over enough appends should shrink this to empty; a
// persistently nonempty result after many cycles indicates a slot (or
// range) the circular allocator is starving.
func (w *WearAuditor) ColdSlots() []int {
	all := mapset.NewSet[int]()
	for i := 0; i < w.slotCount; i++ {
		all.Add(i)
	}

	cold := all.Difference(w.erased).ToSlice()
	if len(cold) != 0 {
		log.Printf("flashmock: wear auditor found cold slots: %v", cold)
	}
	return cold
}

// AuditedFlash wraps a Flash and feeds every Erase call into a WearAuditor.
type AuditedFlash struct {
	flash interface {
		Read(addr uint32, buf []byte) error
		Write(addr uint32, data []byte) error
		Erase(addr uint32) error
	}
	slotSize int
	auditor  *WearAuditor
}

// NewAuditedFlash wraps flash, recording every erased slot (computed from
// slotSize) into auditor.
func NewAuditedFlash(flash interface {
	Read(addr uint32, buf []byte) error
	Write(addr uint32, data []byte) error
	Erase(addr uint32) error
}, slotSize int, auditor *WearAuditor) *AuditedFlash {
	return &AuditedFlash{flash: flash, slotSize: slotSize, auditor: auditor}
}

func (a *AuditedFlash) Read(addr uint32, buf []byte) error { return a.flash.Read(addr, buf) }
func (a *AuditedFlash) Write(addr uint32, data []byte) error {
	return a.flash.Write(addr, data)
}

func (a *AuditedFlash) Erase(addr uint32) error {
	a.auditor.Observe(int(addr) / a.slotSize)
	return a.flash.Erase(addr)
}
