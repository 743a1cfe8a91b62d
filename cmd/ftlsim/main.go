// Command ftlsim replays a timestamped I/O trace through the flash
// translation layer simulator and prints write-amplification and
// utilization statistics at a configured byte stride.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/KwonByeongjun/ftlsim/internal/ftl"
	"github.com/KwonByeongjun/ftlsim/internal/ftlconfig"
	"github.com/KwonByeongjun/ftlsim/internal/trace"
)

var (
	flagTrace       = flag.String("trace", "", "path to the trace file (required)")
	flagConfig      = flag.String("config", "", "optional YAML config file overriding default geometry")
	flagStride      = flag.Int64("stride", 0, "statistics stride in bytes (0 = use config/default)")
	flagGCThreshold = flag.Int("gc-threshold", -1, "free-block GC threshold (-1 = use config/default)")
	flagLogicalGiB  = flag.Int64("logical-gib", 0, "logical capacity override in GiB (0 = use config/default)")
	flagVerbose     = flag.Bool("v", false, "verbose diagnostics, including full error stacks")
)

func main() {
	flag.Parse()

	if *flagTrace == "" {
		fmt.Fprintln(os.Stderr, "ftlsim: -trace is required")
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
	if *flagStride > 0 {
		cfg.StatisticsStride = *flagStride
	}
	if *flagGCThreshold >= 0 {
		cfg.GCThreshold = *flagGCThreshold
	}
	if *flagLogicalGiB > 0 {
		cfg.LogicalSizeBytes = *flagLogicalGiB * 1024 * 1024 * 1024
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

	out := statsWriter()
	driver := ftl.NewDriver(sim)
	driver.Emit = func(snap ftl.StatsSnapshot) {
		fmt.Fprint(out, ftl.FormatStatistics(snap))
		if *flagVerbose {
			fmt.Fprintf(out, "  (run=%s mapped=%s)\n",
				snap.RunID, humanize.IBytes(uint64(sim.Utilization())*uint64(cfg.PageSize)))
		}
	}

	if err := driver.Run(trace.NewReader(f)); err != nil {
		if *flagVerbose {
			fmt.Fprintf(os.Stderr, "ftlsim: fatal: %+v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "ftlsim: fatal: %v\n", err)
		}
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ftlsim: %v\n", err)
	os.Exit(1)
}

// statsWriter picks a terminal-aware writer for the statistics stream:
// mattn/go-colorable on a real terminal (translating ANSI sequences on
// Windows consoles that don't natively understand them) and plain stdout
// otherwise, using mattn/go-isatty to tell the two cases apart.
func statsWriter() io.Writer {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return colorable.NewColorable(os.Stdout)
	}
	return os.Stdout
}
