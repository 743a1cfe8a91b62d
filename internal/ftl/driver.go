package ftl

import (
	"fmt"
	"io"

	"github.com/KwonByeongjun/ftlsim/internal/trace"
)

// ───────────────────────────────────────────────────────────────────────────
// Trace driver
// ───────────────────────────────────────────────────────────────────────────

const gib = 1024 * 1024 * 1024

// Driver replays a trace through a Sim, dispatching writes and trims,
// invoking GC per the threshold policy, and emitting statistics at each
// configured byte stride.
type Driver struct {
	sim *Sim

	processedBytes int64
	progressGiB    int

	// Publish, if non-nil, receives a copy of every emitted StatsSnapshot.
	// The send is non-blocking: a full or absent channel never stalls or
	// reorders replay, per the single-threaded concurrency model.
	Publish chan<- StatsSnapshot

	// Emit, if non-nil, is called with each StatsSnapshot, in the exact
	// order they are produced. NewDriver leaves it nil; cmd/ftlsim sets it
	// to print FormatStatistics to stdout, and tests set a capturing Emit.
	Emit func(StatsSnapshot)
}

// NewDriver creates a Driver around sim. The progress boundary starts at
// one stride's worth of GiB, matching the source's initial
// progress_boundary = 8 (one stride, not zero).
func NewDriver(sim *Sim) *Driver {
	return &Driver{
		sim:         sim,
		progressGiB: int(sim.geo.StatisticsStride / gib),
	}
}

// Sim returns the underlying simulator.
func (d *Driver) Sim() *Sim { return d.sim }

// Run replays every record r yields until EOF, returning the first fatal
// error encountered (trace parse failure, out-of-range LBA, or free-queue
// underflow). A clean EOF emits one final snapshot covering whatever
// partial stride remains, then returns nil — statistics are printed once
// per stride and once more at the end of the trace, even if that last
// window never filled.
func (d *Driver) Run(r *trace.Reader) error {
	for {
		rec, err := r.Next()
		if err == io.EOF {
			d.emitStatistics()
			return nil
		}
		if err != nil {
			return err
		}

		if err := d.dispatch(rec); err != nil {
			return err
		}

		if err := d.sim.MaybeRunGC(); err != nil {
			return err
		}

		d.processedBytes += int64(rec.Size)
		if d.processedBytes >= d.sim.geo.StatisticsStride {
			d.emitStatistics()
			d.processedBytes = 0
		}
	}
}

// dispatch applies one trace record to the simulator. WRITE splits into
// page-sized sub-writes in increasing LBA order, TRIM erases the
// addressed block when eligible, READ and unknown types are accepted and
// ignored.
func (d *Driver) dispatch(rec trace.Record) error {
	switch rec.IOType {
	case trace.IOWrite:
		pageSize := int64(d.sim.geo.PageSize)
		pages := (int64(rec.Size) + pageSize - 1) / pageSize
		for i := int64(0); i < pages; i++ {
			lba := LBA(rec.LBA) + LBA(i)
			if err := d.sim.WritePage(lba, false); err != nil {
				return err
			}
		}
	case trace.IOTrim:
		if err := d.sim.Trim(LBA(rec.LBA)); err != nil {
			return err
		}
	case trace.IORead, trace.IOUnknown:
		// accepted, ignored — reads do not affect counters
	default:
		// unknown io_type values are silently ignored per the grammar
	}
	return nil
}

func (d *Driver) emitStatistics() {
	snap := d.sim.Snapshot(d.progressGiB)
	d.sim.ResetWindow()
	d.progressGiB += int(d.sim.geo.StatisticsStride / gib)

	if d.Emit != nil {
		d.Emit(snap)
	}
	if d.Publish != nil {
		select {
		case d.Publish <- snap:
		default:
		}
	}
}

// FormatStatistics renders a snapshot in the canonical two-line statistics
// format: a progress/WAF/utilization header followed by a per-group valid
// data ratio and erase count.
func FormatStatistics(s StatsSnapshot) string {
	return fmt.Sprintf(
		"[Progress: %d GiB] WAF: %.3f, TMP_WAF: %.3f, Utilization: %.3f\nGROUP 0[%d]: %.6f (ERASE: %d)\n",
		s.ProgressGiB, s.WAF, s.WindowWAF, s.Utilization, s.HeaderUsedBlocks, s.ValidDataRatio, s.Erases,
	)
}
