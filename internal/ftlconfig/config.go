// Package ftlconfig loads and layers the run configuration for a trace
// replay: device geometry, GC threshold, statistics stride, and I/O paths.
//
// What: a Config struct mirroring internal/ftl.Geometry plus the paths a
// CLI needs, loadable from YAML and overridable by flags.
// How: Default returns the reference geometry; Load parses a YAML file
// with gopkg.in/yaml.v3; zero-valued fields after a flag parse are left
// at whatever Load or Default produced, so flags only override what the
// caller set.
// Why: layering config this way — defaults, then file, then flags —
// lets an operator keep a checked-in baseline file and still override a
// single knob for one run without editing it.
package ftlconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/KwonByeongjun/ftlsim/internal/ftl"
)

// Config is the on-disk/flag-facing configuration for a trace replay run.
type Config struct {
	PageSize         int    `yaml:"page_size"`
	PagesPerBlock    int    `yaml:"pages_per_block"`
	TotalBlocks      int    `yaml:"total_blocks"`
	LogicalSizeBytes int64  `yaml:"logical_size_bytes"`
	GCThreshold      int    `yaml:"gc_threshold"`
	StatisticsStride int64  `yaml:"statistics_stride"`
	TracePath        string `yaml:"trace_path"`
}

// Default returns the reference configuration: the geometry from
// ftl.DefaultGeometry, with no trace path set.
func Default() Config {
	g := ftl.DefaultGeometry()
	return Config{
		PageSize:         g.PageSize,
		PagesPerBlock:    g.PagesPerBlock,
		TotalBlocks:      g.TotalBlocks,
		LogicalSizeBytes: g.LogicalSizeBytes,
		GCThreshold:      g.GCThreshold,
		StatisticsStride: g.StatisticsStride,
	}
}

// Load reads a YAML config file, starting from Default and overwriting
// only the fields present in the file (yaml.v3 leaves omitted fields at
// their current zero/default value since Unmarshal decodes into cfg).
func Load(path string) (Config, error) {
	cfg := Default()
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %q", path)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %q", path)
	}
	return cfg, nil
}

// Geometry converts Config into the ftl.Geometry the simulator needs.
func (c Config) Geometry() ftl.Geometry {
	return ftl.Geometry{
		PageSize:         c.PageSize,
		PagesPerBlock:    c.PagesPerBlock,
		TotalBlocks:      c.TotalBlocks,
		LogicalSizeBytes: c.LogicalSizeBytes,
		GCThreshold:      c.GCThreshold,
		StatisticsStride: c.StatisticsStride,
	}
}
