package ftl

// ───────────────────────────────────────────────────────────────────────────
// Indirection maps
// ───────────────────────────────────────────────────────────────────────────
//
// Two flat arrays, sized LogicalPages and TotalPages respectively and
// allocated once at startup. Both read and update in O(1).

// indirection owns the forward and reverse (out-of-band) maps.
type indirection struct {
	fwd []FwdEntry // [LogicalPages]: lba -> physical page
	oob []OobEntry // [TotalPages]: physical page -> lba
}

func newIndirection(g Geometry) *indirection {
	return &indirection{
		fwd: make([]FwdEntry, g.LogicalPages()),
		oob: make([]OobEntry, g.TotalPages()),
	}
}

func (ind *indirection) forward(lba LBA) FwdEntry {
	return ind.fwd[lba]
}

func (ind *indirection) setForward(lba LBA, pp PhysPage) {
	ind.fwd[lba] = FwdEntry{Valid: true, Page: pp}
}

func (ind *indirection) reverse(pp PhysPage) OobEntry {
	return ind.oob[pp]
}

func (ind *indirection) setReverse(pp PhysPage, lba LBA) {
	ind.oob[pp] = OobEntry{Valid: true, LBA: lba}
}
