package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridscope/snapshot"
	"github.com/lixenwraith/gridscope/transport"
)

func feedCmd(opts *options) *cobra.Command {
	var (
		listen   string
		file     string
		interval time.Duration
		repeat   int
	)
	cmd := &cobra.Command{
		Use:     "feed",
		Short:   "Broadcast a snapshot file to running views",
		Example: "  gridscope feed --listen tcp://127.0.0.1:40899 --file graph.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.LoadFile(file)
			if err != nil {
				return err
			}
			feeder := transport.NewFeeder(listen)
			if err := feeder.Start(); err != nil {
				return err
			}
			defer feeder.Stop()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for i := 0; repeat <= 0 || i < repeat; i++ {
				if err := feeder.Publish(snap); err != nil {
					return err
				}
				select {
				case <-ticker.C:
				case <-cmd.Context().Done():
					return nil
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "# sent %d snapshots\n", feeder.Sent())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&listen, "listen", "tcp://127.0.0.1:40899", "PUB listen URL")
	f.StringVar(&file, "file", "", "Snapshot file (.json or .yaml)")
	f.DurationVar(&interval, "interval", time.Second, "Delay between sends")
	f.IntVar(&repeat, "repeat", 0, "Number of sends, 0 for unlimited")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
