package monitor

import (
	"log"
	"net"

	"google.golang.org/grpc"
)

// ListenGRPC starts the gRPC server on addr, serving FTLStatsServer with
// the JSON codec registered by RegisterJSONCodec. It blocks until Serve
// returns; callers typically run it in its own goroutine.
func (s *Server) ListenGRPC(addr string) error {
	RegisterJSONCodec()

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	gs := grpc.NewServer()
	RegisterFTLStatsServer(gs, s)
	log.Printf("monitor: gRPC listening on %s", addr)
	return gs.Serve(lis)
}
