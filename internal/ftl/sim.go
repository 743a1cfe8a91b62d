package ftl

import "github.com/google/uuid"

// ───────────────────────────────────────────────────────────────────────────
// Sim — single ownership root
// ───────────────────────────────────────────────────────────────────────────
//
// Sim groups every piece of simulator state — blocks, the free queue, both
// indirection maps, and the running counters — behind one value so that
// external code holds exactly one instance and there is no module-scope
// mutable state to reason about.

// Sim is a flash translation layer simulator instance.
type Sim struct {
	RunID uuid.UUID

	geo Geometry

	blocks []*Block
	free   *FreeQueue
	ind    *indirection

	active BlockID

	userWrites int64
	gcWrites   int64
	erases     int64
	utl        int64 // count of currently valid pages, Σ blocks[i].ValidCount()

	// Windowed counters, reset at each statistics emission.
	windowUserWrites int64
	windowGCWrites   int64
	windowErases     int64
}

// New creates a simulator for the given geometry. All blocks start erased
// and enqueued except the one dequeued to become the initial active block.
func New(g Geometry) (*Sim, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	s := &Sim{
		RunID:  uuid.New(),
		geo:    g,
		blocks: make([]*Block, g.TotalBlocks),
		free:   NewFreeQueue(g.TotalBlocks),
		ind:    newIndirection(g),
	}
	for i := range s.blocks {
		s.blocks[i] = newBlock(g)
	}
	for i := 0; i < g.TotalBlocks; i++ {
		s.free.Enqueue(BlockID(i))
	}
	active, _ := s.free.Dequeue() // queue has TotalBlocks entries, never empty here
	s.active = active
	return s, nil
}

// Geometry returns the geometry this simulator was constructed with.
func (s *Sim) Geometry() Geometry { return s.geo }

// UserWrites returns the cumulative number of host-issued page writes.
func (s *Sim) UserWrites() int64 { return s.userWrites }

// GCWrites returns the cumulative number of GC relocation page writes.
func (s *Sim) GCWrites() int64 { return s.gcWrites }

// Erases returns the cumulative number of block erases.
func (s *Sim) Erases() int64 { return s.erases }

// Utilization returns the current count of valid physical pages (utl).
func (s *Sim) Utilization() int64 { return s.utl }

// FreeBlocks returns the number of blocks currently on the free queue.
func (s *Sim) FreeBlocks() int { return s.free.Size() }

// ActiveBlock returns the index of the block currently receiving appends.
func (s *Sim) ActiveBlock() BlockID { return s.active }

// usedBlocks counts blocks with at least one valid page — the denominator
// for the valid-data ratio. Distinct from the statistics header's used-block
// count, which is every non-free block regardless of validity.
func (s *Sim) usedBlocks() int {
	n := 0
	for _, b := range s.blocks {
		if b.ValidCount() > 0 {
			n++
		}
	}
	return n
}

// inUseBlocks counts blocks that are full or partially written and not yet
// erased: every block except the active one and those on the free queue.
func (s *Sim) inUseBlocks() int {
	n := 0
	for i, b := range s.blocks {
		id := BlockID(i)
		if id == s.active || s.free.Contains(id) {
			continue
		}
		if b.FreeOffset() > 0 {
			n++
		}
	}
	return n
}
