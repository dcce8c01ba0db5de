package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridscope/config"
)

var version = "0.3.0"

// options holds flags shared by subcommands; zero values defer to the config file
type options struct {
	configPath  string
	debug       bool
	dims        string
	count       int
	distance    float64
	fps         int
	seed        uint64
	mute        bool
	metricsAddr string
	listen      string
	publish     string
	snapshot    string
	ncfgFile    string
	env         string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "gridscope",
		Short:         "gridscope - terminal 3D lattice and graph explorer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts)
		},
	}
	root.SetVersionTemplate("gridscope {{ .Version }}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	pf.BoolVar(&opts.debug, "debug", false, "Write debug log to logs/gridscope.log")
	pf.StringVar(&opts.dims, "dims", "", "Lattice sizes: one value for dimensionality, comma list for explicit axes")
	pf.IntVar(&opts.count, "count", 0, "Target node count with scalar dimensionality")
	pf.Float64Var(&opts.distance, "distance", 0, "Spacing distance parameter")

	root.AddCommand(
		runCmd(opts),
		layoutCmd(opts),
		ncfgCmd(opts),
		feedCmd(opts),
	)
	return root
}

func runCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive view (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.fps, "fps", 0, "Frames per second")
	f.Uint64Var(&opts.seed, "seed", 0, "Random seed for scatter and drift")
	f.BoolVar(&opts.mute, "mute", false, "Disable audio cues")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
	f.StringVar(&opts.listen, "listen", "", "Dial this mangos URL for graph snapshots")
	f.StringVar(&opts.publish, "publish", "", "Publish view events on this mangos URL")
	f.StringVar(&opts.snapshot, "snapshot", "", "Load a graph snapshot file (.json or .yaml)")
	f.StringVar(&opts.ncfgFile, "ncfg-file", "", "Load and save position configuration here")
	f.StringVar(&opts.env, "env", "", "Select a structured environment with this id")
	return cmd
}

// loadConfig reads the config file and applies flags that were set explicitly
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if opts.debug {
		cfg.Debug = true
	}
	env := &cfg.Environment
	if changed("dims") {
		sizes, err := parseDims(opts.dims)
		if err != nil {
			return nil, err
		}
		if len(sizes) == 1 {
			env.Sizes = nil
			env.Dims = sizes[0]
		} else {
			env.Sizes = sizes
		}
		env.Enabled = true
	}
	if changed("count") {
		env.Count = opts.count
		env.Enabled = true
	}
	if changed("distance") {
		env.Distance = opts.distance
	}
	if changed("env") {
		env.ID = opts.env
		env.Enabled = true
	}
	if changed("fps") {
		cfg.View.FPS = opts.fps
	}
	if changed("seed") {
		cfg.View.Seed = opts.seed
	}
	if changed("mute") {
		cfg.View.Mute = opts.mute
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if changed("listen") {
		cfg.Transport.SnapshotURL = opts.listen
	}
	if changed("publish") {
		cfg.Transport.PublishURL = opts.publish
	}
	if changed("snapshot") {
		cfg.Files.Snapshot = opts.snapshot
	}
	if changed("ncfg-file") {
		cfg.Files.NCFG = opts.ncfgFile
	}

	cfg.Normalize()
	return cfg, nil
}

// parseDims reads "3" or "3,3,3"
func parseDims(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid --dims %q: %w", s, err)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("invalid --dims %q: no sizes", s)
	}
	return sizes, nil
}
