package ftl

import "testing"

// doWrite mirrors the driver's per-record sequence: write, then run GC if
// the free-queue threshold has been breached.
func doWrite(t *testing.T, s *Sim, lba LBA, isGC bool) {
	t.Helper()
	if err := s.WritePage(lba, isGC); err != nil {
		t.Fatalf("WritePage(%d, %v): %v", lba, isGC, err)
	}
	if err := s.MaybeRunGC(); err != nil {
		t.Fatalf("MaybeRunGC after lba %d: %v", lba, err)
	}
}

// S1 — pure sequential fill, no overwrite.
func TestScenarioS1SequentialFill(t *testing.T) {
	s := newSmallSim(t)
	for lba := LBA(0); lba < LBA(s.geo.LogicalPages()); lba++ {
		doWrite(t, s, lba, false)
	}

	if got, want := s.UserWrites(), int64(12); got != want {
		t.Errorf("UserWrites() = %d, want %d", got, want)
	}
	if got, want := s.GCWrites(), int64(0); got != want {
		t.Errorf("GCWrites() = %d, want %d", got, want)
	}
	if got, want := s.Erases(), int64(0); got != want {
		t.Errorf("Erases() = %d, want %d", got, want)
	}
	if got, want := s.Utilization(), int64(12); got != want {
		t.Errorf("Utilization() = %d, want %d", got, want)
	}
	if waf := s.Snapshot(0).WAF; waf != 1.0 {
		t.Errorf("WAF = %v, want 1.000", waf)
	}
	checkInvariants(t, s)
}

// S2 — full overwrite of an already-full device triggers GC.
func TestScenarioS2FullOverwriteTriggersGC(t *testing.T) {
	s := newSmallSim(t)
	for lba := LBA(0); lba < LBA(s.geo.LogicalPages()); lba++ {
		doWrite(t, s, lba, false)
	}
	for lba := LBA(0); lba < LBA(s.geo.LogicalPages()); lba++ {
		doWrite(t, s, lba, false)
	}

	if got, want := s.UserWrites(), int64(24); got != want {
		t.Errorf("UserWrites() = %d, want %d", got, want)
	}
	if s.Erases() < 1 {
		t.Errorf("Erases() = %d, want at least 1", s.Erases())
	}
	for lba := LBA(0); lba < LBA(s.geo.LogicalPages()); lba++ {
		e := s.ind.forward(lba)
		if !e.Valid {
			t.Errorf("lba %d: no valid forward mapping after full overwrite", lba)
		}
	}
	checkInvariants(t, s)
}

// L1 — overwrite idempotence: writing the same LBA repeatedly leaves
// exactly one valid physical page for that LBA.
func TestLawOverwriteIdempotence(t *testing.T) {
	s := newSmallSim(t)
	for i := 0; i < 5; i++ {
		doWrite(t, s, 0, false)
	}

	count := 0
	for pp := 0; pp < s.geo.TotalPages(); pp++ {
		b := PhysPage(pp).Block(s.geo)
		off := PhysPage(pp).Offset(s.geo)
		if !s.blocks[b].IsValid(off) {
			continue
		}
		rev := s.ind.reverse(PhysPage(pp))
		if rev.Valid && rev.LBA == 0 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("lba 0 has %d valid physical pages after repeated overwrite, want 1", count)
	}
	checkInvariants(t, s)
}

func TestWritePageOutOfRange(t *testing.T) {
	s := newSmallSim(t)
	err := s.WritePage(LBA(s.geo.LogicalPages()), false)
	if err == nil {
		t.Fatal("expected an out-of-range error")
	}
	if _, ok := err.(*ErrOutOfRange); !ok {
		t.Errorf("error type = %T, want *ErrOutOfRange", err)
	}
}
