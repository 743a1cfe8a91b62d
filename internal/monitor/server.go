// Package monitor exposes a running or completed simulation's statistics
// over HTTP (JSON), a hand-rolled gRPC service, and a live websocket
// stream — a read-only view of data internal/ftl has already computed,
// never a control surface for the simulator.
//
// What: an HTTP router (github.com/labstack/echo/v4) serving /status and
// /snapshot, a JSON-codec gRPC service (google.golang.org/grpc, no
// protobuf-generated stubs) serving the same snapshot, a websocket hub
// (github.com/gorilla/websocket) broadcasting every snapshot as it is
// produced, and a heartbeat job (github.com/robfig/cron/v3) logging
// connected-client counts on a fixed interval.
// How: Server.Ingest is fed StatsSnapshot values from a driver's publish
// channel; it stores the latest one under a mutex and fans it out to the
// websocket hub. Nothing here ever calls back into internal/ftl.
package monitor

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/KwonByeongjun/ftlsim/internal/ftl"
)

// Server holds the latest published snapshot and serves it over HTTP,
// gRPC, and websocket.
type Server struct {
	mu        sync.RWMutex
	latest    ftl.StatsSnapshot
	hasLatest bool

	hub *hub

	echo *echo.Echo
}

// NewServer constructs a Server. Call Ingest (directly, or via Watch) to
// feed it snapshots, and ListenHTTP/ListenGRPC to serve them.
func NewServer() *Server {
	s := &Server{hub: newHub()}
	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.GET("/status", s.handleStatus)
	s.echo.GET("/snapshot", s.handleSnapshot)
	s.echo.GET("/stream", s.handleStream)
	return s
}

// Ingest records snap as the latest snapshot and broadcasts it to every
// connected websocket client.
func (s *Server) Ingest(snap ftl.StatsSnapshot) {
	s.mu.Lock()
	s.latest = snap
	s.hasLatest = true
	s.mu.Unlock()

	s.hub.broadcast(snap)
}

// Watch drains ch, calling Ingest for every snapshot, until ch is closed
// or ctx is cancelled. Run it in its own goroutine alongside a Driver
// whose Publish channel is ch — this is the only concurrency the monitor
// introduces; it never mutates simulator state.
func (s *Server) Watch(ctx context.Context, ch <-chan ftl.StatsSnapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			s.Ingest(snap)
		}
	}
}

// Latest returns the most recently ingested snapshot, or false if none
// has arrived yet.
func (s *Server) Latest() (ftl.StatsSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.hasLatest
}

// ConnectedClients returns the number of open websocket connections.
func (s *Server) ConnectedClients() int { return s.hub.count() }

// ListenHTTP starts the echo HTTP server, blocking until it exits.
func (s *Server) ListenHTTP(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleStatus(c echo.Context) error {
	_, ok := s.Latest()
	return c.JSON(http.StatusOK, map[string]any{
		"ok":      true,
		"clients": s.ConnectedClients(),
		"ready":   ok,
	})
}

func (s *Server) handleSnapshot(c echo.Context) error {
	snap, ok := s.Latest()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no snapshot yet"})
	}
	return c.JSON(http.StatusOK, snap)
}

func (s *Server) handleStream(c echo.Context) error {
	return s.hub.serveWS(c.Response(), c.Request())
}
