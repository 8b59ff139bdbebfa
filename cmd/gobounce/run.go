package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vnykmshr/gobounce/internal/logging"
	"github.com/vnykmshr/gobounce/pkg/clock"
	"github.com/vnykmshr/gobounce/pkg/common/errors"
	"github.com/vnykmshr/gobounce/pkg/common/validation"
	"github.com/vnykmshr/gobounce/pkg/config"
	"github.com/vnykmshr/gobounce/pkg/metrics"
	"github.com/vnykmshr/gobounce/pkg/ratelimit"
	"github.com/vnykmshr/gobounce/pkg/ratelimit/debounce"
	"github.com/vnykmshr/gobounce/pkg/ratelimit/throttle"
	"github.com/vnykmshr/gobounce/pkg/scheduling/scheduler"
)

// maxDrainPoll bounds how long the command sleeps between checks for
// pending work after stdin is exhausted.
const maxDrainPoll = 50 * time.Millisecond

func run(cmd *cobra.Command, mode string) error {
	ctx := cmd.Context()

	profile, err := resolveProfile(cmd, mode)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	name := profile.Name
	if name == "" {
		name = mode
	}
	logger = logger.With().Str("mode", mode).Str("name", name).Logger()

	reg := prometheus.NewRegistry()
	metricsConfig := metrics.Config{Enabled: true, Registry: reg}

	out := cmd.OutOrStdout()
	var read, written atomic.Int64
	emit := func(_ any, line string) (string, error) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return "", err
		}
		written.Add(1)
		return line, nil
	}
	onError := func(err error) {
		logger.Error().Err(err).Msg("write failed")
	}

	var w ratelimit.SuperHandler[string, string]
	switch mode {
	case config.ModeThrottle:
		c := profile.ThrottleConfig()
		c.OnError = onError
		c.Logger = &logger
		w = throttle.NewWithMetrics(emit, c, name, metricsConfig)
	case config.ModeDebounce:
		c := profile.DebounceConfig()
		c.OnError = onError
		c.OnTimeout = func(err error) {
			logger.Warn().Err(err).Msg("burst did not settle, dropping further input")
		}
		c.Logger = &logger
		w = debounce.NewWithMetrics(emit, c, name, metricsConfig)
	}

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		srv, bound, err := serveMetrics(addr, reg, logger)
		if err != nil {
			return err
		}
		logger.Info().Str("addr", bound).Msg("serving metrics")
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if expr, _ := cmd.Flags().GetString("stats"); expr != "" {
		trig, err := scheduler.NewCron(expr, scheduler.Config{
			Name:   "stats",
			Logger: &logger,
			Fire: func(context.Context, time.Time) error {
				logger.Info().
					Int64("read", read.Load()).
					Int64("written", written.Load()).
					Bool("pending", w.Pending()).
					Msg("stats")
				return nil
			},
		})
		if err != nil {
			return err
		}
		if err := trig.Start(ctx); err != nil {
			return err
		}
		defer func() { <-trig.Stop() }()
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		read.Add(1)
		if _, err := w.Call(scanner.Text()); err != nil {
			onError(err)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.NewOperationError("gobounce", "read", err).WithContext("stdin")
	}

	drain(ctx, w, time.Duration(profile.Delay))
	logger.Debug().Int64("read", read.Load()).Int64("written", written.Load()).Msg("done")
	return nil
}

// drain waits until w has no pending invocation, or cancels it when ctx is
// done first.
func drain(ctx context.Context, w ratelimit.SuperHandler[string, string], delay time.Duration) {
	poll := delay
	if poll <= 0 || poll > maxDrainPoll {
		poll = maxDrainPoll
	}
	for w.Pending() {
		select {
		case <-ctx.Done():
			w.Cancel()
			return
		case <-clock.Wait(nil, poll):
		}
	}
}

// resolveProfile merges the --config profile, if any, with explicitly set
// flags. Flags win.
func resolveProfile(cmd *cobra.Command, mode string) (config.Profile, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	name, _ := flags.GetString("profile")

	profile := config.Profile{Mode: mode}
	switch {
	case path != "":
		if err := validation.ValidateNotEmpty("gobounce", "profile", name); err != nil {
			return profile, err
		}
		f, err := config.LoadFile(path)
		if err != nil {
			return profile, err
		}
		if profile, err = f.Profile(name); err != nil {
			return profile, err
		}
		if profile.Mode != mode {
			return profile, errors.NewValidationError("gobounce", "profile", name, "is a "+profile.Mode+" profile").
				WithHint("run gobounce " + profile.Mode + " instead")
		}
	case name != "":
		return profile, errors.NewValidationError("gobounce", "profile", name, "requires --config")
	}

	if flags.Changed("delay") {
		d, _ := flags.GetDuration("delay")
		profile.Delay = config.Duration(d)
	}
	if flags.Changed("leading") {
		profile.Leading, _ = flags.GetBool("leading")
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		profile.Timeout = config.Duration(d)
	}
	return profile, profile.Validate()
}

func newLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	name, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(name)
	if err != nil {
		return zerolog.Logger{}, errors.NewValidationError("gobounce", "log-level", name, "unknown level").
			WithHint("use one of: debug, info, warn, error")
	}
	if asJSON, _ := cmd.Flags().GetBool("log-json"); asJSON {
		return logging.NewJSON(level, cmd.ErrOrStderr()), nil
	}
	return logging.New(level, cmd.ErrOrStderr()), nil
}

// serveMetrics serves reg on addr and returns the bound address.
func serveMetrics(addr string, reg *prometheus.Registry, logger zerolog.Logger) (*http.Server, string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.NewOperationError("gobounce", "serve metrics", err).WithContext(addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	return srv, ln.Addr().String(), nil
}
