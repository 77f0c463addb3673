package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMapCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Print the maze as text",
		Long:  "Print the maze for the current seed and size. S marks the start and E the exit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := opts.setup()
			if err != nil {
				return err
			}
			defer closeLog()

			g, err := newGame(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed %d\n%s", cfg.Seed, g.Maze)
			return nil
		},
	}
}
