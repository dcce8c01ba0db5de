package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridscope/lattice"
)

func layoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print lattice positions, one \"x y z\" line per node",
		Example: "  gridscope layout --dims 3,3,3 --distance 5\n" +
			"  gridscope layout --dims 2 --count 50",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			res := lattice.Compute(cfg.Environment.Lattice())

			out := cmd.OutOrStdout()
			for i := 0; i < res.Count; i++ {
				p := res.Positions[i*3 : i*3+3]
				if _, err := fmt.Fprintf(out, "%.4f %.4f %.4f\n", p[0], p[1], p[2]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "# %d nodes, sizes %v, spacing %.3f\n", res.Count, res.Sizes, res.Spacing)
			return nil
		},
	}
}
