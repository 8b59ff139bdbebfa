package main

import (
	"github.com/spf13/cobra"

	"github.com/vnykmshr/gobounce/pkg/config"
)

func newDebounceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debounce",
		Short: "Write a line once input has been quiet for a while",
		Long: `Write the last line of every burst once no new line has arrived for --delay.
With --timeout, a burst that does not settle in time is reported as a fault
and all later input is dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, config.ModeDebounce)
		},
	}
	cmd.Flags().Duration("delay", 0, "quiet period that ends a burst")
	cmd.Flags().Bool("leading", false, "write the first line of a burst instead of the last")
	cmd.Flags().Duration("timeout", 0, "report a fault when a burst lasts longer than this (0 disables)")
	return cmd
}
