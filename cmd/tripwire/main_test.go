package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"tripwire/dbg"
	"tripwire/internal/config"
	"tripwire/internal/debugger"
	"tripwire/internal/engine"
	"tripwire/internal/location"
	"tripwire/internal/sink"
	"tripwire/internal/trap"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvConfig, config.EnvOutput, config.EnvFormat, config.EnvColor,
		config.EnvMaxWidth, config.EnvRingSize, config.EnvExitCode,
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func newTestRoot(t *testing.T) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "tripwire-test"}
	addSinkFlags(root)
	return root
}

func TestParseWatchView(t *testing.T) {
	cases := []struct {
		input string
		want  watchView
	}{
		{"", watchViewAuto},
		{"auto", watchViewAuto},
		{" TUI ", watchViewTUI},
		{"lines", watchViewLines},
	}
	for _, tc := range cases {
		got, err := parseWatchView(tc.input)
		if err != nil {
			t.Fatalf("parseWatchView(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("parseWatchView(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
	if _, err := parseWatchView("on"); err == nil {
		t.Fatal("expected error for invalid view")
	}
}

func TestInteractiveNeedsTerminals(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdio")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if interactive(watchViewAuto, f, f) {
		t.Error("auto picked the TUI without a terminal")
	}
	if !interactive(watchViewTUI, f, f) {
		t.Error("tui must be honored without a terminal")
	}
	if interactive(watchViewLines, f, f) {
		t.Error("lines must never pick the TUI")
	}
}

func TestLoadConfigFlagsWin(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tripwire.toml")
	if err := os.WriteFile(path, []byte("[sink]\nformat = \"msgpack\"\nmax_width = 40\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvColor, "on")

	root := newTestRoot(t)
	mustSet(t, root, "config", path)
	mustSet(t, root, "format", "ndjson")

	cfg, err := loadConfig(root)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Sink.Format != "ndjson" {
		t.Errorf("format = %q, want flag value ndjson", cfg.Sink.Format)
	}
	if cfg.Sink.MaxWidth != 40 {
		t.Errorf("max_width = %d, want file value 40", cfg.Sink.MaxWidth)
	}
	if cfg.Sink.Color != "on" {
		t.Errorf("color = %q, want env value on", cfg.Sink.Color)
	}
}

func TestLoadConfigRejectsInvalidFlag(t *testing.T) {
	clearEnv(t)
	root := newTestRoot(t)
	mustSet(t, root, "max-width", "-3")

	if _, err := loadConfig(root); err == nil || !strings.Contains(err.Error(), "max_width") {
		t.Fatalf("loadConfig error = %v, want max_width complaint", err)
	}
}

func TestSetupSinkInstallsEngine(t *testing.T) {
	clearEnv(t)
	out := filepath.Join(t.TempDir(), "diag.log")
	root := newTestRoot(t)
	mustSet(t, root, "output", out)
	mustSet(t, root, "color", "off")

	e, cleanup, err := setupSink(root)
	if err != nil {
		t.Fatalf("setupSink: %v", err)
	}
	if dbg.Engine() != e {
		t.Error("dbg does not use the command engine")
	}
	if sink.FromContext(root.Context()) != e.Sink() {
		t.Error("command context does not carry the engine sink")
	}

	e.Trace("hello from %s", nil, doWork)
	cleanup()
	if dbg.Engine() == e {
		t.Error("cleanup did not restore the previous engine")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello from %s") {
		t.Errorf("diagnostic file = %q", data)
	}
}

func mustSet(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	if err := cmd.PersistentFlags().Set(name, value); err != nil {
		t.Fatalf("set --%s: %v", name, err)
	}
}

var doWork = location.New("file.ext", 42, "doWork")

type recordingEngine struct {
	*engine.Engine
	out   *bytes.Buffer
	ring  *sink.Ring
	exits atomic.Int32
}

func newRecordingEngine(t *testing.T) *recordingEngine {
	t.Helper()
	r := &recordingEngine{out: &bytes.Buffer{}, ring: sink.NewRing(256)}
	r.Engine = engine.New(engine.Options{
		Sink: sink.NewMulti(sink.NewStream(r.out, sink.FormatText, false), r.ring),
		Trap: trap.New(debugger.Static(false), trap.WithExit(func(int) { r.exits.Add(1) })),
	})
	return r
}

func TestFireTraceConcurrent(t *testing.T) {
	r := newRecordingEngine(t)

	err := fire(context.Background(), r.Engine, "trace", fireOptions{goroutines: 8, count: 5, message: "tick"})
	if err != nil {
		t.Fatalf("fire: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(r.out.String(), "\n"), "\n")
	if len(lines) != 40 {
		t.Fatalf("got %d lines, want 40", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, ".fire] worker ") || !strings.HasSuffix(line, ": tick") {
			t.Fatalf("torn or malformed line %q", line)
		}
	}
	if r.exits.Load() != 0 {
		t.Error("trace must not trap")
	}
}

func TestFireAssertTerminatesOnce(t *testing.T) {
	r := newRecordingEngine(t)

	if err := fire(context.Background(), r.Engine, "assert", fireOptions{goroutines: 4, count: 1}); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if got := strings.Count(r.out.String(), "1 == 2\n"); got != 4 {
		t.Errorf("got %d assertion messages, want 4", got)
	}
	if r.exits.Load() != 1 {
		t.Errorf("exit called %d times, want 1", r.exits.Load())
	}
}

func TestFireDie(t *testing.T) {
	r := newRecordingEngine(t)

	if err := fire(context.Background(), r.Engine, "die", fireOptions{goroutines: 1, count: 1, message: "boom"}); err != nil {
		t.Fatalf("fire: %v", err)
	}
	msgs := r.ring.Snapshot()
	if len(msgs) != 1 || msgs[0].Kind != sink.KindFatal || msgs[0].Text != "boom" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if len(msgs[0].Stack) == 0 {
		t.Error("fatal report without call stack")
	}
}

func TestFireUnknownAction(t *testing.T) {
	r := newRecordingEngine(t)
	if err := fire(context.Background(), r.Engine, "explode", fireOptions{goroutines: 1, count: 1}); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestFireStopsOnCancel(t *testing.T) {
	r := newRecordingEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fire(ctx, r.Engine, "trace", fireOptions{goroutines: 2, count: 10})
	if err == nil {
		t.Fatal("expected context error")
	}
	if r.ring.Len() != 0 {
		t.Errorf("wrote %d messages after cancel", r.ring.Len())
	}
}

func TestStatus(t *testing.T) {
	report := collectStatus(debugger.Static(true))
	if !report.Attached || report.PID != os.Getpid() || report.Mode != dbg.Mode().String() {
		t.Fatalf("unexpected report %+v", report)
	}

	var buf bytes.Buffer
	if err := renderStatusJSON(&buf, report); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("status JSON: %v", err)
	}
	if decoded["debugger_attached"] != true {
		t.Errorf("debugger_attached = %v", decoded["debugger_attached"])
	}

	buf.Reset()
	renderStatusPretty(&buf, collectStatus(debugger.Static(false)))
	if !strings.Contains(buf.String(), "not attached") {
		t.Errorf("pretty status = %q", buf.String())
	}
}

func TestStreamTransitions(t *testing.T) {
	events := make(chan debugger.Transition, 2)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events <- debugger.Transition{Attached: false, At: at, Polls: 1}
	events <- debugger.Transition{Attached: true, At: at.Add(time.Second), Polls: 4}
	close(events)

	ring := sink.NewRing(8)
	if err := streamTransitions(sink.WithSink(context.Background(), ring), events); err != nil {
		t.Fatal(err)
	}

	msgs := ring.Snapshot()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != "debugger detached (poll 1)" || msgs[1].Text != "debugger attached (poll 4)" {
		t.Fatalf("unexpected texts %q, %q", msgs[0].Text, msgs[1].Text)
	}
	if msgs[0].Kind != sink.KindTrace || !msgs[1].Time.Equal(at.Add(time.Second)) {
		t.Fatalf("unexpected message %+v", msgs[1])
	}
	if !strings.HasSuffix(msgs[0].Location.Function, "streamTransitions") {
		t.Errorf("location = %v", msgs[0].Location)
	}
}

func TestSetupSinkFeedsStreamTransitions(t *testing.T) {
	clearEnv(t)
	out := filepath.Join(t.TempDir(), "watch.ndjson")
	root := newTestRoot(t)
	mustSet(t, root, "output", out)
	mustSet(t, root, "format", "ndjson")

	_, cleanup, err := setupSink(root)
	if err != nil {
		t.Fatalf("setupSink: %v", err)
	}
	events := make(chan debugger.Transition, 1)
	events <- debugger.Transition{Attached: true, At: time.Now(), Polls: 2}
	close(events)
	if err := streamTransitions(root.Context(), events); err != nil {
		t.Fatal(err)
	}
	cleanup()

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"text":"debugger attached (poll 2)"`) {
		t.Errorf("diagnostic file = %q", data)
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3", Mode: "debug"}
	if err := renderVersionJSON(&buf, info, versionOptions{json: true, showHash: true}); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "tripwire" || payload.Version != "1.2.3" || payload.GitCommit != "unknown" || payload.BuildDate != "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}
