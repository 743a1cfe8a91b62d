package ftl

// ───────────────────────────────────────────────────────────────────────────
// Write path
// ───────────────────────────────────────────────────────────────────────────

// WritePage allocates the next physical page in the active block for lba,
// invalidating its previous mapping first. isGC distinguishes a GC
// relocation from a host write for counter purposes; the two share this
// single code path so GC writes are credited exactly once, here, never a
// second time by the caller.
func (s *Sim) WritePage(lba LBA, isGC bool) error {
	if lba < 0 || int(lba) >= s.geo.LogicalPages() {
		return &ErrOutOfRange{LBA: lba, LogicalPages: s.geo.LogicalPages()}
	}

	if s.blocks[s.active].Full(s.geo) {
		if err := s.rotateActive(lba); err != nil {
			return err
		}
	}

	// Invalidate the previous mapping before installing the new one, so
	// every live forward entry keeps pointing at a valid, correctly
	// OOB-tagged page with no transient gap. A stale entry, the old page
	// already invalidated by a prior GC relocation, is silently left
	// alone: that is expected, not an error.
	old := s.ind.forward(lba)
	if old.Valid {
		b := old.Page.Block(s.geo)
		off := old.Page.Offset(s.geo)
		if s.blocks[b].IsValid(off) {
			s.blocks[b].MarkInvalid(off)
			s.utl--
		}
	}

	active := s.blocks[s.active]
	offset := active.FreeOffset()
	pp := pageAt(s.geo, s.active, offset)

	active.MarkValid(offset)
	active.freeOffset++
	s.ind.setReverse(pp, lba)
	s.ind.setForward(lba, pp)
	s.utl++

	if isGC {
		s.gcWrites++
		s.windowGCWrites++
	} else {
		s.userWrites++
		s.windowUserWrites++
	}
	return nil
}

// rotateActive dequeues a fresh free block to replace a full active block.
// The old active block is not re-enqueued here — it is simply replaced,
// because it is still full of live (or invalid-but-unerased) pages and is
// not yet eligible for erase.
func (s *Sim) rotateActive(lba LBA) error {
	next, ok := s.free.Dequeue()
	if !ok {
		return &ErrFreeQueueUnderflow{LBA: lba, QueueSize: s.free.Size()}
	}
	s.active = next
	return nil
}
