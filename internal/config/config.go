// Package config loads the diagnostic sink and trap settings.
//
// Sources are applied in order, later ones winning: built-in defaults, the
// TOML file named by TRIPWIRE_CONFIG, then TRIPWIRE_* environment variables.
// The CLI applies its flags on top.
//
// Example file:
//
//	[sink]
//	output = "-"          # "-"/"stderr", "stdout" or a file path
//	format = "text"       # text | ndjson | msgpack
//	color = "auto"        # auto | on | off
//	max_width = 160       # 0 disables truncation
//	ring_size = 64        # recent traces attached to fatal reports
//
//	[trap]
//	exit_code = 1
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"tripwire/internal/sink"
	"tripwire/internal/trap"
)

// Environment variable names.
const (
	EnvConfig   = "TRIPWIRE_CONFIG"
	EnvOutput   = "TRIPWIRE_OUTPUT"
	EnvFormat   = "TRIPWIRE_FORMAT"
	EnvColor    = "TRIPWIRE_COLOR"
	EnvMaxWidth = "TRIPWIRE_MAX_WIDTH"
	EnvRingSize = "TRIPWIRE_RING_SIZE"
	EnvExitCode = "TRIPWIRE_EXIT_CODE"
)

// Sink holds the [sink] table.
type Sink struct {
	Output   string `toml:"output"`
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	MaxWidth int    `toml:"max_width"`
	RingSize int    `toml:"ring_size"`
}

// Trap holds the [trap] table.
type Trap struct {
	ExitCode int `toml:"exit_code"`
}

// Config is the full configuration.
type Config struct {
	Sink Sink `toml:"sink"`
	Trap Trap `toml:"trap"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sink: Sink{
			Output:   "-",
			Format:   sink.FormatText.String(),
			Color:    sink.ColorAuto.String(),
			RingSize: sink.DefaultRingSize,
		},
		Trap: Trap{ExitCode: trap.DefaultExitCode},
	}
}

// Load builds the configuration from defaults, the file named by
// TRIPWIRE_CONFIG and the environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv(EnvConfig), os.LookupEnv)
}

// LoadFrom builds the configuration from defaults, the TOML file at path
// (skipped when empty) and the variables read through lookup. Parse errors
// return Default(); a configuration that parses but does not validate is
// returned together with the error.
func LoadFrom(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return Default(), err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return Default(), err
	}
	return cfg, cfg.Validate()
}

// MergeFile overlays the keys present in a TOML file onto cfg.
func (c *Config) MergeFile(path string) error {
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("sink", "output") {
		c.Sink.Output = file.Sink.Output
	}
	if meta.IsDefined("sink", "format") {
		c.Sink.Format = file.Sink.Format
	}
	if meta.IsDefined("sink", "color") {
		c.Sink.Color = file.Sink.Color
	}
	if meta.IsDefined("sink", "max_width") {
		c.Sink.MaxWidth = file.Sink.MaxWidth
	}
	if meta.IsDefined("sink", "ring_size") {
		c.Sink.RingSize = file.Sink.RingSize
	}
	if meta.IsDefined("trap", "exit_code") {
		c.Trap.ExitCode = file.Trap.ExitCode
	}
	return nil
}

// ApplyEnv overlays TRIPWIRE_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvOutput); ok {
		c.Sink.Output = v
	}
	if v, ok := lookup(EnvFormat); ok {
		c.Sink.Format = v
	}
	if v, ok := lookup(EnvColor); ok {
		c.Sink.Color = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvMaxWidth, &c.Sink.MaxWidth},
		{EnvRingSize, &c.Sink.RingSize},
		{EnvExitCode, &c.Trap.ExitCode},
	}
	for _, iv := range ints {
		v, ok := lookup(iv.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", iv.name, err)
		}
		*iv.dst = n
	}
	return nil
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if _, err := sink.ParseFormat(c.Sink.Format); err != nil {
		return err
	}
	if _, err := sink.ParseColorMode(c.Sink.Color); err != nil {
		return err
	}
	if c.Sink.MaxWidth < 0 {
		return fmt.Errorf("max_width must be >= 0, got %d", c.Sink.MaxWidth)
	}
	if c.Sink.RingSize < 0 {
		return fmt.Errorf("ring_size must be >= 0, got %d", c.Sink.RingSize)
	}
	if c.Trap.ExitCode <= 0 || c.Trap.ExitCode > 255 {
		return fmt.Errorf("exit_code must be in 1..255, got %d", c.Trap.ExitCode)
	}
	return nil
}

// SinkOptions converts the [sink] table into sink.Options.
func (c Config) SinkOptions() (sink.Options, error) {
	format, err := sink.ParseFormat(c.Sink.Format)
	if err != nil {
		return sink.Options{}, err
	}
	colorMode, err := sink.ParseColorMode(c.Sink.Color)
	if err != nil {
		return sink.Options{}, err
	}
	return sink.Options{
		Format:     format,
		Color:      colorMode,
		OutputPath: c.Sink.Output,
		RingSize:   c.Sink.RingSize,
	}, nil
}
