package main

import (
	"github.com/spf13/cobra"

	"github.com/vnykmshr/gobounce/pkg/config"
)

func newThrottleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "throttle",
		Short: "Let through at most one line per window",
		Long: `Let through at most one line per --delay window. By default the last line of
each window is written when the window closes; with --leading the first line
is written immediately and the rest of the window is dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, config.ModeThrottle)
		},
	}
	cmd.Flags().Duration("delay", 0, "window length")
	cmd.Flags().Bool("leading", false, "write the first line of a window instead of the last")
	return cmd
}
