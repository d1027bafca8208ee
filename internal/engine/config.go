package engine

import (
	"fmt"

	"tripwire/internal/config"
	"tripwire/internal/debugger"
	"tripwire/internal/sink"
	"tripwire/internal/trap"
)

// FromConfig builds an Engine whose sink, exit code and width limit come from
// cfg. The trap controller uses the OS debugger detector and flushes the sink
// before exiting. Extra trap options are applied last.
func FromConfig(cfg config.Config, trapOpts ...trap.Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sinkOpts, err := cfg.SinkOptions()
	if err != nil {
		return nil, err
	}
	s, err := sink.New(sinkOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create sink: %w", err)
	}

	opts := []trap.Option{
		trap.WithExitCode(cfg.Trap.ExitCode),
		trap.WithBeforeExit(func() { _ = s.Flush() }),
	}
	opts = append(opts, trapOpts...)

	return New(Options{
		Sink:     s,
		Trap:     trap.New(debugger.OS, opts...),
		MaxWidth: cfg.Sink.MaxWidth,
	}), nil
}
