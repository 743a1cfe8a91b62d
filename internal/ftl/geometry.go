// Package ftl implements a page-mapped, log-structured flash translation
// layer simulator: block/page validity tracking, a free-block queue, a
// forward/reverse indirection map, a write path, and a greedy copying
// garbage collector.
//
// What: models an SSD FTL closely enough to replay a timestamped I/O trace
// and account for write amplification and utilization, without simulating
// any real page payload — only validity bits and mapping metadata.
// How: one Sim value owns every piece of mutable state (blocks, maps,
// free queue, counters); every operation is a method on *Sim and runs to
// completion synchronously, matching the single-threaded replay model.
// Why: the invariants behind GC's victim selection and relocation order
// only hold if there is exactly one owner and one caller at a time.
package ftl

import "fmt"

// PageSize is the size in bytes of one physical page.
const PageSize = 4096

// PagesPerBlock is the number of pages in one physical block.
const PagesPerBlock = 1024

// TotalBlocks is the total number of physical blocks on the device.
const TotalBlocks = 2048

// TotalPages is the total number of physical pages on the device.
const TotalPages = TotalBlocks * PagesPerBlock

// BlockSize is the size in bytes of one physical block.
const BlockSize = PageSize * PagesPerBlock

// DefaultLogicalSizeBytes is the default user-visible capacity (8 GB,
// decimal), strictly smaller than the 8 GiB physical capacity; the gap is
// overprovisioning.
const DefaultLogicalSizeBytes = 8 * 1000 * 1000 * 1000

// DefaultGCThreshold is the minimum number of free blocks that must remain
// before the next write; falling below it triggers GC.
const DefaultGCThreshold = 2

// DefaultStatisticsStride is the default byte interval between statistics
// emissions (8 GiB).
const DefaultStatisticsStride = 8 * 1024 * 1024 * 1024

// Geometry is the compile-time-equivalent configuration of a simulated
// device. It is immutable after New; changing sizing is a matter of
// constructing a different Geometry, never of patching running state.
type Geometry struct {
	PageSize         int
	PagesPerBlock    int
	TotalBlocks      int
	LogicalSizeBytes int64
	GCThreshold      int
	StatisticsStride int64
}

// DefaultGeometry returns the geometry used by the reference run: 4 KiB
// pages, 1024 pages/block, 2048 blocks, 8 GB logical capacity, GC threshold
// of 2 free blocks, and an 8 GiB statistics stride.
func DefaultGeometry() Geometry {
	return Geometry{
		PageSize:         PageSize,
		PagesPerBlock:    PagesPerBlock,
		TotalBlocks:      TotalBlocks,
		LogicalSizeBytes: DefaultLogicalSizeBytes,
		GCThreshold:      DefaultGCThreshold,
		StatisticsStride: DefaultStatisticsStride,
	}
}

// TotalPages returns the total number of physical pages under this geometry.
func (g Geometry) TotalPages() int { return g.TotalBlocks * g.PagesPerBlock }

// BlockSize returns the size in bytes of one block under this geometry.
func (g Geometry) BlockSize() int { return g.PageSize * g.PagesPerBlock }

// LogicalPages returns ⌊LogicalSizeBytes/PageSize⌋, the logical address
// space size presented to the host.
func (g Geometry) LogicalPages() int {
	return int(g.LogicalSizeBytes / int64(g.PageSize))
}

// Validate checks that the geometry describes a usable device: positive
// sizes, logical capacity strictly smaller than physical capacity (so
// overprovisioning exists), and a GC threshold that leaves room for an
// active block.
func (g Geometry) Validate() error {
	if g.PageSize <= 0 || g.PagesPerBlock <= 0 || g.TotalBlocks <= 0 {
		return fmt.Errorf("ftl: geometry must have positive page size, pages/block and total blocks")
	}
	if g.LogicalSizeBytes <= 0 {
		return fmt.Errorf("ftl: logical size must be positive")
	}
	if g.LogicalPages() >= g.TotalPages() {
		return fmt.Errorf("ftl: logical capacity (%d pages) must be strictly smaller than physical capacity (%d pages)", g.LogicalPages(), g.TotalPages())
	}
	if g.GCThreshold < 0 || g.GCThreshold >= g.TotalBlocks {
		return fmt.Errorf("ftl: GC threshold %d out of range [0, %d)", g.GCThreshold, g.TotalBlocks)
	}
	if g.StatisticsStride <= 0 {
		return fmt.Errorf("ftl: statistics stride must be positive")
	}
	return nil
}
