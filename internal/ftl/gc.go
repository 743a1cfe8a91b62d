package ftl

// ───────────────────────────────────────────────────────────────────────────
// Garbage collector
// ───────────────────────────────────────────────────────────────────────────
//
// Policy: greedy / minimum valid pages. The victim is the eligible block
// with the fewest live pages, ties broken by smallest block index so a
// run's statistics are reproducible. Relocation replays every live page of
// the victim through WritePage(isGC=true) in increasing offset order; the
// write path invalidates each source page as it goes, so by the time the
// scan completes the victim has zero valid pages and can be erased.

// RunGC selects a victim (if any is eligible) and relocates it. It is a
// silent no-op when no eligible victim exists.
func (s *Sim) RunGC() error {
	victim, ok := s.selectVictim()
	if !ok {
		return nil
	}

	b := s.blocks[victim]
	for offset := 0; offset < s.geo.PagesPerBlock; offset++ {
		if !b.IsValid(offset) {
			continue
		}
		pp := pageAt(s.geo, victim, offset)
		entry := s.ind.reverse(pp)
		if !entry.Valid {
			continue
		}
		if err := s.WritePage(entry.LBA, true); err != nil {
			return err
		}
	}

	s.eraseBlock(victim)
	return nil
}

// selectVictim scans every block and returns the one minimizing ValidCount,
// excluding the active block and any block never written to (free_offset
// == 0 — already erased blocks live on the free queue and are implicitly
// excluded that way too).
func (s *Sim) selectVictim() (BlockID, bool) {
	best := BlockID(-1)
	bestValid := s.geo.PagesPerBlock + 1

	for i, b := range s.blocks {
		id := BlockID(i)
		if id == s.active {
			continue
		}
		if b.FreeOffset() == 0 {
			continue
		}
		if b.ValidCount() < bestValid {
			bestValid = b.ValidCount()
			best = id
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// eraseBlock clears all validity bits of b, resets its counters, increments
// the cumulative erase count, and enqueues it onto the free queue.
func (s *Sim) eraseBlock(b BlockID) {
	s.blocks[b].reset()
	s.erases++
	s.windowErases++
	s.free.Enqueue(b)
}

// MaybeRunGC invokes RunGC while the free-queue size is below the
// configured GC threshold. A single pass may not clear the threshold if
// the victim relocated many pages into an otherwise near-empty block; the
// loop keeps running GC until it does, or until a pass leaves the
// free-queue size unchanged (no eligible victim, or a relocation that
// rotated onto as many free blocks as the erase returned). The loop then
// stops below the threshold, and if no block frees up the next write
// fails with a free-queue underflow.
func (s *Sim) MaybeRunGC() error {
	for s.free.Size() < s.geo.GCThreshold {
		before := s.free.Size()
		if err := s.RunGC(); err != nil {
			return err
		}
		if s.free.Size() == before {
			// No net gain in free blocks (including the no-victim case):
			// stop looping, avoid spinning forever on a logically
			// overfull device.
			return nil
		}
	}
	return nil
}

// Trim erases the block addressed by lba/PagesPerBlock outright. This is
// a coarse, alias-prone approximation: every other LBA mapped into that
// block is discarded along with the targeted one, and their forward
// mappings are cleared. It is a no-op when that block is the active block
// or is already on the free queue.
func (s *Sim) Trim(lba LBA) error {
	if lba < 0 || int(lba) >= s.geo.LogicalPages() {
		return &ErrOutOfRange{LBA: lba, LogicalPages: s.geo.LogicalPages()}
	}

	b := BlockID(int64(lba) / int64(s.geo.PagesPerBlock))
	if b == s.active || s.free.Contains(b) {
		return nil
	}
	for offset := 0; offset < s.geo.PagesPerBlock; offset++ {
		if !s.blocks[b].IsValid(offset) {
			continue
		}
		if entry := s.ind.reverse(pageAt(s.geo, b, offset)); entry.Valid {
			s.ind.fwd[entry.LBA] = FwdEntry{}
		}
	}
	before := s.blocks[b].ValidCount()
	s.utl -= int64(before)
	s.eraseBlock(b)
	return nil
}
