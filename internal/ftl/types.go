package ftl

import "fmt"

// LBA is a logical block address: an index into the logical page space
// presented to the host, in [0, LogicalPages).
type LBA int64

// PhysPage is a physical page index in [0, TotalPages), identifying a
// (block, offset) pair as block*PagesPerBlock + offset.
type PhysPage int64

// BlockID is a physical block index in [0, TotalBlocks).
type BlockID int32

// Block returns the block that contains physical page pp, under geometry g.
func (pp PhysPage) Block(g Geometry) BlockID {
	return BlockID(int64(pp) / int64(g.PagesPerBlock))
}

// Offset returns the offset within its block of physical page pp, under
// geometry g.
func (pp PhysPage) Offset(g Geometry) int {
	return int(int64(pp) % int64(g.PagesPerBlock))
}

// pageAt computes the physical page for a (block, offset) pair.
func pageAt(g Geometry, b BlockID, offset int) PhysPage {
	return PhysPage(int64(b)*int64(g.PagesPerBlock) + int64(offset))
}

// FwdEntry is one slot of the forward map (logical page → physical page).
// "Unmapped" is its own zero value (Valid == false), never an overloaded
// numeric sentinel — see the design note on sentinel values in DESIGN.md.
type FwdEntry struct {
	Valid bool
	Page  PhysPage
}

func (e FwdEntry) String() string {
	if !e.Valid {
		return "unmapped"
	}
	return fmt.Sprintf("page=%d", e.Page)
}

// OobEntry is one slot of the reverse (out-of-band) map (physical page →
// logical page). Stale entries — where the corresponding validity bit is
// clear — must be ignored by callers even if Valid is still true; Block's
// validity bitmap is the sole authority on liveness.
type OobEntry struct {
	Valid bool
	LBA   LBA
}

func (e OobEntry) String() string {
	if !e.Valid {
		return "unmapped"
	}
	return fmt.Sprintf("lba=%d", e.LBA)
}
