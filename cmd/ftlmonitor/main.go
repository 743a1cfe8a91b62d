// Command ftlmonitor replays a trace exactly like ftlsim, but additionally
// publishes every statistics snapshot to a live dashboard: HTTP/JSON,
// websocket, a hand-rolled gRPC service, and a periodic heartbeat log.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/KwonByeongjun/ftlsim/internal/ftl"
	"github.com/KwonByeongjun/ftlsim/internal/ftlconfig"
	"github.com/KwonByeongjun/ftlsim/internal/monitor"
	"github.com/KwonByeongjun/ftlsim/internal/trace"
)

var (
	flagTrace     = flag.String("trace", "", "path to the trace file (required)")
	flagConfig    = flag.String("config", "", "optional YAML config file overriding default geometry")
	flagHTTPAddr  = flag.String("http-addr", ":8090", "address for the HTTP/JSON/websocket dashboard")
	flagGRPCAddr  = flag.String("grpc-addr", ":8091", "address for the gRPC statistics service")
	flagHeartbeat = flag.String("heartbeat", "@every 30s", "cron spec for the connected-client heartbeat log")
	flagVerbose   = flag.Bool("v", false, "verbose diagnostics, including full error stacks")
)

func main() {
	flag.Parse()

	if *flagTrace == "" {
		fmt.Fprintln(os.Stderr, "ftlmonitor: -trace is required")
		os.Exit(1)
	}

	cfg := ftlconfig.Default()
	if *flagConfig != "" {
		loaded, err := ftlconfig.Load(*flagConfig)
		if err != nil {
			fail(err)
		}
		cfg = loaded
	}

	sim, err := ftl.New(cfg.Geometry())
	if err != nil {
		fail(err)
	}

	f, err := os.Open(*flagTrace)
	if err != nil {
		fail(errors.Wrapf(err, "open trace file %q", *flagTrace))
	}
	defer f.Close()

	srv := monitor.NewServer()

	hb, err := monitor.StartHeartbeat(srv, *flagHeartbeat)
	if err != nil {
		fail(errors.Wrap(err, "start heartbeat"))
	}
	defer hb.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publish := make(chan ftl.StatsSnapshot, 16)
	go srv.Watch(ctx, publish)

	go func() {
		if err := srv.ListenHTTP(*flagHTTPAddr); err != nil {
			fmt.Fprintf(os.Stderr, "ftlmonitor: http server: %v\n", err)
		}
	}()
	go func() {
		if err := srv.ListenGRPC(*flagGRPCAddr); err != nil {
			fmt.Fprintf(os.Stderr, "ftlmonitor: grpc server: %v\n", err)
		}
	}()

	driver := ftl.NewDriver(sim)
	driver.Publish = publish
	driver.Emit = func(snap ftl.StatsSnapshot) {
		fmt.Print(ftl.FormatStatistics(snap))
	}

	if err := driver.Run(trace.NewReader(f)); err != nil {
		close(publish)
		if *flagVerbose {
			fmt.Fprintf(os.Stderr, "ftlmonitor: fatal: %+v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "ftlmonitor: fatal: %v\n", err)
		}
		os.Exit(1)
	}
	close(publish)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ftlmonitor: %v\n", err)
	os.Exit(1)
}
