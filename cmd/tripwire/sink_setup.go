package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tripwire/dbg"
	"tripwire/internal/config"
	"tripwire/internal/engine"
	"tripwire/internal/sink"
)

// loadConfig resolves the configuration from --config (or TRIPWIRE_CONFIG),
// the environment and the persistent sink flags, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if !flags.Changed("config") {
		path = os.Getenv(config.EnvConfig)
	}

	cfg, err := config.LoadFrom(path, os.LookupEnv)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"output", &cfg.Sink.Output},
		{"format", &cfg.Sink.Format},
		{"color", &cfg.Sink.Color},
	}
	for _, sf := range strs {
		if !flags.Changed(sf.name) {
			continue
		}
		v, err := flags.GetString(sf.name)
		if err != nil {
			return cfg, fmt.Errorf("failed to get %s flag: %w", sf.name, err)
		}
		*sf.dst = v
	}
	if flags.Changed("max-width") {
		w, err := flags.GetInt("max-width")
		if err != nil {
			return cfg, fmt.Errorf("failed to get max-width flag: %w", err)
		}
		cfg.Sink.MaxWidth = w
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupSink builds the engine for this command, installs it for package dbg
// and attaches its sink to the command context. The returned cleanup flushes
// and closes the sink; it is not reached when the engine terminates the
// process, the trap flushes on its own in that case.
func setupSink(cmd *cobra.Command) (*engine.Engine, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	e, err := engine.FromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create engine: %w", err)
	}
	restore := dbg.Use(e)
	prevDefault := sink.SetDefault(e.Sink())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(sink.WithSink(ctx, e.Sink()))

	cleanup := func() {
		restore()
		sink.SetDefault(prevDefault)

		if err := e.Sink().Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "tripwire: flush error: %v\n", err)
		}
		if err := e.Sink().Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "tripwire: close error: %v\n", err)
		}
	}
	return e, cleanup, nil
}
