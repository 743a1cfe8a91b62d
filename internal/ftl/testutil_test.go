package ftl

import "testing"

// smallGeometry returns the reduced geometry used across scenario tests:
// 4 pages/block, 4 blocks, 12 logical pages, GC threshold 1.
func smallGeometry() Geometry {
	return Geometry{
		PageSize:         4096,
		PagesPerBlock:    4,
		TotalBlocks:      4,
		LogicalSizeBytes: 12 * 4096,
		GCThreshold:      1,
		StatisticsStride: 1 << 30,
	}
}

func newSmallSim(t *testing.T) *Sim {
	t.Helper()
	s, err := New(smallGeometry())
	if err != nil {
		t.Fatalf("New(smallGeometry()): %v", err)
	}
	return s
}

// checkInvariants verifies P1-P3, P6, P7 and the per-block bounds against
// the live state of s.
func checkInvariants(t *testing.T, s *Sim) {
	t.Helper()

	var sumValid int64
	for i, b := range s.blocks {
		if b.popcount() != b.ValidCount() {
			t.Errorf("block %d: popcount %d != ValidCount %d", i, b.popcount(), b.ValidCount())
		}
		if b.ValidCount() > b.FreeOffset() {
			t.Errorf("block %d: ValidCount %d > FreeOffset %d", i, b.ValidCount(), b.FreeOffset())
		}
		if b.FreeOffset() > s.geo.PagesPerBlock {
			t.Errorf("block %d: FreeOffset %d exceeds PagesPerBlock", i, b.FreeOffset())
		}
		sumValid += int64(b.ValidCount())
	}
	if sumValid != s.utl {
		t.Errorf("utl %d != sum of valid_count %d", s.utl, sumValid)
	}

	for lba := 0; lba < s.geo.LogicalPages(); lba++ {
		e := s.ind.forward(LBA(lba))
		if !e.Valid {
			continue
		}
		b := e.Page.Block(s.geo)
		off := e.Page.Offset(s.geo)
		if !s.blocks[b].IsValid(off) {
			t.Errorf("lba %d: fwd points at invalid page %d", lba, e.Page)
		}
		rev := s.ind.reverse(e.Page)
		if !rev.Valid || rev.LBA != LBA(lba) {
			t.Errorf("lba %d: oob[%d] = %+v, want lba=%d", lba, e.Page, rev, lba)
		}
	}

	for pp := 0; pp < s.geo.TotalPages(); pp++ {
		b := PhysPage(pp).Block(s.geo)
		off := PhysPage(pp).Offset(s.geo)
		if !s.blocks[b].IsValid(off) {
			continue
		}
		rev := s.ind.reverse(PhysPage(pp))
		if !rev.Valid {
			t.Errorf("pp %d: valid but reverse map unmapped", pp)
			continue
		}
		fwd := s.ind.forward(rev.LBA)
		if !fwd.Valid || fwd.Page != PhysPage(pp) {
			t.Errorf("pp %d: fwd[oob[%d]=%d] = %+v, want this page", pp, pp, rev.LBA, fwd)
		}
	}

	seen := make(map[BlockID]bool)
	for i := 0; i < s.free.Size(); i++ {
		b, ok := s.free.Dequeue()
		if !ok {
			t.Fatalf("free queue reported size %d but dequeue failed at %d", s.free.Size(), i)
		}
		if seen[b] {
			t.Errorf("block %d appears twice in free queue", b)
		}
		seen[b] = true
		s.free.Enqueue(b)
	}

	inUse := s.inUseBlocks()
	total := s.free.Size() + 1 + inUse
	if total != s.geo.TotalBlocks {
		t.Errorf("free(%d) + active(1) + in_use(%d) = %d, want %d", s.free.Size(), inUse, total, s.geo.TotalBlocks)
	}
}
