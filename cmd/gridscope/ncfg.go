package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridscope/ncfg"
)

func ncfgCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ncfg",
		Short: "Inspect persisted position configuration",
	}

	var file string
	export := &cobra.Command{
		Use:   "export",
		Short: "Validate an NCFG file and print it normalized",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				cfg, err := loadConfig(cmd, opts)
				if err != nil {
					return err
				}
				file = cfg.Files.NCFG
			}
			if file == "" {
				return fmt.Errorf("no NCFG file: pass --file or set files.ncfg")
			}

			store := ncfg.NewStore()
			loaded, skipped, err := loadNCFG(file, store)
			if err != nil {
				return err
			}
			if err := ncfg.SaveYAML(cmd.OutOrStdout(), store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "# %d entries, %d skipped\n", loaded, skipped)
			return nil
		},
	}
	export.Flags().StringVar(&file, "file", "", "NCFG YAML file")

	cmd.AddCommand(export)
	return cmd
}

// loadNCFG merges file into store; a missing file loads nothing
func loadNCFG(path string, store *ncfg.Store) (loaded, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("open ncfg: %w", err)
	}
	defer f.Close()
	return ncfg.LoadYAML(f, store)
}

// saveNCFG writes store to path through a temp file
func saveNCFG(path string, store *ncfg.Store) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create ncfg: %w", err)
	}
	if err := ncfg.SaveYAML(f, store); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
