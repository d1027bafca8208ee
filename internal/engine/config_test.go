package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tripwire/internal/config"
	"tripwire/internal/debugger"
	"tripwire/internal/sink"
	"tripwire/internal/trap"
)

func TestFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.ndjson")
	cfg := config.Default()
	cfg.Sink.Output = path
	cfg.Sink.Format = "ndjson"
	cfg.Sink.MaxWidth = 20
	cfg.Trap.ExitCode = 9

	var exited int
	e, err := FromConfig(cfg,
		trap.WithDetector(debugger.Static(false)),
		trap.WithExit(func(code int) { exited = code }),
	)
	require.NoError(t, err)
	require.Equal(t, 9, e.Trap().ExitCode())
	require.NotNil(t, sink.RingOf(e.Sink()))

	e.Trace(strings.Repeat("z", 40), nil, doWork)
	d := e.Report("bye", doWork)
	require.Equal(t, trap.Terminated, d.Outcome)
	require.Equal(t, 9, exited)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind":"trace"`)
	require.Contains(t, string(data), `"text":"zzzzzzzzzzzzzzzzzzz…"`)
}

func TestFromConfigRejectsInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Sink.Format = "xml"
	_, err := FromConfig(cfg)
	require.Error(t, err)

	cfg = config.Default()
	cfg.Sink.Output = filepath.Join(t.TempDir(), "no", "such", "dir.log")
	_, err = FromConfig(cfg)
	require.ErrorContains(t, err, "failed to create sink")
}
