package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tripwire/internal/debugger"
	"tripwire/internal/location"
	"tripwire/internal/sink"
	"tripwire/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the debugger attach state of this process",
	Long: `Poll the debugger state of the tripwire process and show every change.
Attach a debugger to the printed pid to see the transition.

The interactive view needs a terminal on both stdin and stdout. Otherwise
each transition is written as a trace message to the diagnostic sink.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("interval", 500*time.Millisecond, "poll interval")
	watchCmd.Flags().String("view", "auto", "how transitions are shown (auto|tui|lines)")
}

// watchView selects between the interactive spinner and sink trace lines.
type watchView string

const (
	watchViewAuto  watchView = "auto"
	watchViewTUI   watchView = "tui"
	watchViewLines watchView = "lines"
)

func parseWatchView(value string) (watchView, error) {
	switch v := watchView(strings.TrimSpace(strings.ToLower(value))); v {
	case "":
		return watchViewAuto, nil
	case watchViewAuto, watchViewTUI, watchViewLines:
		return v, nil
	default:
		return "", fmt.Errorf("invalid --view value %q (expected auto|tui|lines)", value)
	}
}

// interactive reports whether view resolves to the TUI. The spinner reads
// keys from stdin and redraws stdout, so auto needs both to be terminals.
func interactive(view watchView, stdin, stdout *os.File) bool {
	switch view {
	case watchViewTUI:
		return true
	case watchViewLines:
		return false
	default:
		return isTerminal(stdin) && isTerminal(stdout)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	interval, err := cmd.Flags().GetDuration("interval")
	if err != nil {
		return fmt.Errorf("failed to get interval flag: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", interval)
	}
	viewStr, err := cmd.Flags().GetString("view")
	if err != nil {
		return fmt.Errorf("failed to get view flag: %w", err)
	}
	view, err := parseWatchView(viewStr)
	if err != nil {
		return err
	}

	w := debugger.Watch(debugger.OS, interval)
	defer w.Stop()

	if interactive(view, os.Stdin, os.Stdout) {
		title := fmt.Sprintf("watching pid %d every %s", os.Getpid(), interval)
		program := tea.NewProgram(ui.NewWatchModel(title, w.Events()), tea.WithOutput(cmd.OutOrStdout()))
		_, err := program.Run()
		return err
	}

	_, cleanup, err := setupSink(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	fmt.Fprintf(cmd.ErrOrStderr(), "watching pid %d every %s, interrupt to stop\n", os.Getpid(), interval)
	return streamTransitions(ctx, w.Events())
}

// streamTransitions writes one trace message per transition to the sink
// carried by ctx until ctx is done or events is closed. Messages are stamped
// with the poll time of the transition.
func streamTransitions(ctx context.Context, events <-chan debugger.Transition) error {
	s := sink.FromContext(ctx)
	loc := location.Caller(0)
	for {
		select {
		case <-ctx.Done():
			return nil
		case tr, ok := <-events:
			if !ok {
				return nil
			}
			state := "detached"
			if tr.Attached {
				state = "attached"
			}
			msg := sink.NewMessage(sink.KindTrace, loc, fmt.Sprintf("debugger %s (poll %d)", state, tr.Polls))
			msg.Time = tr.At
			s.Write(msg)
		}
	}
}
