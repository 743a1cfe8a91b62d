package monitor

import (
	"context"
	"testing"

	"github.com/KwonByeongjun/ftlsim/internal/ftl"
)

func TestSnapshotRPCBeforeIngest(t *testing.T) {
	s := NewServer()
	resp, err := s.Snapshot(context.Background(), &snapshotRequest{})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if resp.Ready {
		t.Error("Ready = true before any snapshot was ingested")
	}
	if resp.Snapshot != nil {
		t.Error("Snapshot field set before any snapshot was ingested")
	}
}

func TestSnapshotRPCAfterIngest(t *testing.T) {
	s := NewServer()
	s.Ingest(ftl.StatsSnapshot{RunID: "run-9", Erases: 2})

	resp, err := s.Snapshot(context.Background(), &snapshotRequest{})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !resp.Ready {
		t.Fatal("Ready = false after a snapshot was ingested")
	}
	snap, ok := resp.Snapshot.(ftl.StatsSnapshot)
	if !ok {
		t.Fatalf("Snapshot field type = %T, want ftl.StatsSnapshot", resp.Snapshot)
	}
	if snap.RunID != "run-9" {
		t.Errorf("RunID = %q, want %q", snap.RunID, "run-9")
	}
}

func TestJSONCodecRoundTrip(t *testing.T) {
	c := jsonCodec{}
	if c.Name() != "json" {
		t.Errorf("Name() = %q, want %q", c.Name(), "json")
	}
	in := ftl.StatsSnapshot{RunID: "codec", WAF: 2.5}
	data, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out ftl.StatsSnapshot
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
