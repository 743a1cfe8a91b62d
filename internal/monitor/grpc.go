package monitor

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// ───────────────────────────────────────────────────────────────────────────
// gRPC service — manual ServiceDesc + JSON codec
// ───────────────────────────────────────────────────────────────────────────
//
// No .proto file and no protoc-generated stubs: a grpc.ServiceDesc is
// built by hand and requests/responses are marshalled with a JSON codec.
// This is the only reason gRPC is usable here without running the Go
// toolchain's code generators.

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// RegisterJSONCodec installs the JSON codec globally. Call it once before
// starting a gRPC server or dialing a client that uses this package's
// service.
func RegisterJSONCodec() {
	encoding.RegisterCodec(jsonCodec{})
}

type snapshotRequest struct{}

// FTLStatsServer is the service interface backing the manual ServiceDesc
// below — a single read-only RPC returning the latest statistics snapshot.
type FTLStatsServer interface {
	Snapshot(context.Context, *snapshotRequest) (*ftlSnapshotResponse, error)
}

type ftlSnapshotResponse struct {
	Ready    bool        `json:"ready"`
	Snapshot interface{} `json:"snapshot,omitempty"`
}

// RegisterFTLStatsServer wires srv into gs under the "ftlsim.FTLStats"
// service name.
func RegisterFTLStatsServer(gs *grpc.Server, srv FTLStatsServer) {
	gs.RegisterService(&grpc.ServiceDesc{
		ServiceName: "ftlsim.FTLStats",
		HandlerType: (*FTLStatsServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Snapshot", Handler: snapshotHandler},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "ftlsim",
	}, srv)
}

func snapshotHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(snapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FTLStatsServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ftlsim.FTLStats/Snapshot"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FTLStatsServer).Snapshot(ctx, req.(*snapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Snapshot implements FTLStatsServer.
func (s *Server) Snapshot(ctx context.Context, _ *snapshotRequest) (*ftlSnapshotResponse, error) {
	snap, ok := s.Latest()
	if !ok {
		return &ftlSnapshotResponse{Ready: false}, nil
	}
	return &ftlSnapshotResponse{Ready: true, Snapshot: snap}, nil
}
