// Package config loads the gridscope TOML configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/gridscope/animation"
	"github.com/lixenwraith/gridscope/lattice"
	"github.com/lixenwraith/gridscope/vmath"
)

const (
	MinFPS     = 10
	MaxFPS     = 120
	DefaultFPS = 30
)

// Config holds gridscope configuration
type Config struct {
	View        ViewConfig        `toml:"view"`
	Environment EnvironmentConfig `toml:"environment"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Transport   TransportConfig   `toml:"transport"`
	Files       FilesConfig       `toml:"files"`
	Debug       bool              `toml:"debug"`
}

// ViewConfig controls the render loop
type ViewConfig struct {
	FPS       int    `toml:"fps"`
	Seed      uint64 `toml:"seed"`
	Particles int    `toml:"particles"`
	Mute      bool   `toml:"mute"`
}

// EnvironmentConfig selects the structured lattice; disabled means idle drift
type EnvironmentConfig struct {
	Enabled  bool    `toml:"enabled"`
	ID       string  `toml:"id"`
	Sizes    []int   `toml:"sizes"` // Explicit per-axis sizes, wins over dims
	Dims     int     `toml:"dims"`  // Scalar dimensionality
	Count    int     `toml:"count"` // Target node count for scalar dims
	Distance float64 `toml:"distance"`
}

// MetricsConfig controls the prometheus endpoint; empty address disables it
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// TransportConfig holds mangos endpoints; empty disables each side
type TransportConfig struct {
	SnapshotURL string `toml:"snapshot_url"` // SUB dial target for inbound snapshots
	PublishURL  string `toml:"publish_url"`  // PUB listen address for outbound events
}

// FilesConfig points at optional on-disk inputs
type FilesConfig struct {
	Snapshot string `toml:"snapshot"`
	NCFG     string `toml:"ncfg"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		View: ViewConfig{
			FPS:       DefaultFPS,
			Seed:      1,
			Particles: animation.DefaultParticles,
		},
		Environment: EnvironmentConfig{
			ID:    "default",
			Dims:  3,
			Count: 125,
		},
	}
}

// Dir returns the gridscope config directory path
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "gridscope")
}

// DefaultPath is the config file used when none is given
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over defaults; a missing file yields defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to path
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Normalize clamps every numeric field into its valid range
func (c *Config) Normalize() {
	c.View.FPS = vmath.ClampI(c.View.FPS, MinFPS, MaxFPS)
	c.View.Particles = vmath.ClampI(c.View.Particles, lattice.MinCount, lattice.MaxCount)

	env := &c.Environment
	for i, s := range env.Sizes {
		env.Sizes[i] = vmath.ClampI(s, lattice.MinAxisSize, lattice.MaxAxisSize)
	}
	env.Dims = vmath.ClampI(env.Dims, lattice.MinDims, lattice.MaxDims)
	env.Count = vmath.ClampI(env.Count, lattice.MinCount, lattice.MaxCount)
	if env.Distance < 0 {
		env.Distance = 0
	}
}

// Lattice converts the environment section into a solver configuration
func (e EnvironmentConfig) Lattice() lattice.Config {
	return lattice.Config{
		Sizes:    e.Sizes,
		Dims:     e.Dims,
		Count:    e.Count,
		Distance: e.Distance,
	}
}
