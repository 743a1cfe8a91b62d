package ftl

import "time"

// ───────────────────────────────────────────────────────────────────────────
// Statistics
// ───────────────────────────────────────────────────────────────────────────

// StatsSnapshot is one computed statistics record — printed on stdout
// and, when a run publishes through a channel, also consumed by
// internal/monitor for its HTTP/gRPC/websocket views.
type StatsSnapshot struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`

	ProgressGiB int `json:"progress_gib"`

	WAF            float64 `json:"waf"`
	WindowWAF      float64 `json:"window_waf"`
	Utilization    float64 `json:"utilization"`
	ValidDataRatio float64 `json:"valid_data_ratio"`

	// HeaderUsedBlocks is TotalBlocks − free_blocks.size — every block
	// that is not currently free, whether or not it still holds any
	// valid page. This is the count printed in the statistics header.
	HeaderUsedBlocks int `json:"header_used_blocks"`

	Erases int64 `json:"erases"`

	WindowErases int64 `json:"window_erases"`
}

// Snapshot computes the current statistics record. progressGiB is the
// cumulative progress boundary in GiB at which this snapshot is taken; it
// is supplied by the caller (the trace driver) because the boundary is a
// property of the replay loop, not of Sim's own state.
func (s *Sim) Snapshot(progressGiB int) StatsSnapshot {
	waf := 1.0
	if s.userWrites > 0 {
		waf = float64(s.userWrites+s.gcWrites) / float64(s.userWrites)
	}

	windowWAF := 1.0
	if s.windowUserWrites > 0 {
		windowWAF = float64(s.windowUserWrites+s.windowGCWrites) / float64(s.windowUserWrites)
	}

	utilization := float64(s.utl) / float64(s.geo.LogicalPages())

	used := s.usedBlocks()
	validDataRatio := 0.0
	if used > 0 {
		var sumValid int64
		for _, b := range s.blocks {
			sumValid += int64(b.ValidCount())
		}
		validDataRatio = float64(sumValid) / float64(used*s.geo.PagesPerBlock)
	}

	return StatsSnapshot{
		RunID:            s.RunID.String(),
		Timestamp:        now(),
		ProgressGiB:      progressGiB,
		WAF:              waf,
		WindowWAF:        windowWAF,
		Utilization:      utilization,
		ValidDataRatio:   validDataRatio,
		HeaderUsedBlocks: s.geo.TotalBlocks - s.free.Size(),
		Erases:           s.erases,
		WindowErases:     s.windowErases,
	}
}

// ResetWindow zeroes the windowed counters. Called by the driver right
// after a statistics emission; the cumulative counters (userWrites,
// gcWrites, erases) are never reset.
func (s *Sim) ResetWindow() {
	s.windowUserWrites = 0
	s.windowGCWrites = 0
	s.windowErases = 0
}

// now is a thin indirection over time.Now so tests can't accidentally rely
// on wall-clock ordering across snapshots taken in the same instant.
func now() time.Time { return time.Now() }
