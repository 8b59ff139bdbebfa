package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gobounce",
		Short: "Throttle or debounce a stream of lines",
		Long: `gobounce reads lines from stdin, feeds each one into a throttle or debounce
wrapper, and writes the lines the wrapper lets through to stdout.`,
		SilenceUsage: true,
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML file with named profiles")
	flags.String("profile", "", "profile to load from --config")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "write logs as JSON")
	flags.String("stats", "", "cron expression for periodic stats logs, e.g. \"@every 10s\"")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	rootCmd.AddCommand(newThrottleCmd(), newDebounceCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
