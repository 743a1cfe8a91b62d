package monitor

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Heartbeat runs a github.com/robfig/cron/v3 job on the given spec (e.g.
// "@every 30s") that logs the connected-client count and the age of the
// latest snapshot. It never touches simulator state — this is a log
// line, not a checkpoint.
type Heartbeat struct {
	c *cron.Cron
}

// StartHeartbeat schedules a heartbeat against s and returns a handle that
// can be stopped with Stop. spec is a standard cron spec; "@every 30s" is
// a sensible default for a live dashboard.
func StartHeartbeat(s *Server, spec string) (*Heartbeat, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		snap, ok := s.Latest()
		if !ok {
			log.Printf("monitor heartbeat: clients=%d no snapshot yet", s.ConnectedClients())
			return
		}
		age := time.Since(snap.Timestamp).Round(time.Millisecond)
		log.Printf("monitor heartbeat: clients=%d latest_run=%s age=%s", s.ConnectedClients(), snap.RunID, age)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return &Heartbeat{c: c}, nil
}

// Stop halts the heartbeat job.
func (h *Heartbeat) Stop() { h.c.Stop() }
