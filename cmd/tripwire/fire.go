package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tripwire/internal/engine"
	"tripwire/internal/location"
	"tripwire/internal/tmpl"
)

type fireOptions struct {
	goroutines int
	count      int
	message    string
}

var fireCmd = &cobra.Command{
	Use:   "fire assert|trace|die",
	Short: "Trigger an assertion, trace or fatal report",
	Long: `Drive the diagnostic engine end to end. "trace" writes messages and
returns; "assert" and "die" break into an attached debugger or terminate the
process with the configured exit code.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"assert", "trace", "die"},
	RunE:      runFire,
}

func init() {
	fireCmd.Flags().Int("goroutines", 1, "number of goroutines firing concurrently")
	fireCmd.Flags().Int("count", 1, "messages per goroutine")
	fireCmd.Flags().String("message", "", "message text (defaults depend on the action)")
}

func runFire(cmd *cobra.Command, args []string) error {
	var opts fireOptions
	var err error
	if opts.goroutines, err = cmd.Flags().GetInt("goroutines"); err != nil {
		return fmt.Errorf("failed to get goroutines flag: %w", err)
	}
	if opts.count, err = cmd.Flags().GetInt("count"); err != nil {
		return fmt.Errorf("failed to get count flag: %w", err)
	}
	if opts.message, err = cmd.Flags().GetString("message"); err != nil {
		return fmt.Errorf("failed to get message flag: %w", err)
	}
	if opts.goroutines < 1 || opts.count < 1 {
		return fmt.Errorf("--goroutines and --count must be at least 1")
	}

	e, cleanup, err := setupSink(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return fire(cmd.Context(), e, strings.ToLower(args[0]), opts)
}

// fire runs action from opts.goroutines goroutines, opts.count times each.
// Every message of one call shares the call site of fire.
func fire(ctx context.Context, e *engine.Engine, action string, opts fireOptions) error {
	loc := location.Caller(0)

	var do func(worker, seq int)
	switch action {
	case "trace":
		text := opts.message
		if text == "" {
			text = "tick"
		}
		do = func(worker, seq int) {
			e.Trace("worker %d message %d: %s", []tmpl.Arg{tmpl.Int(worker), tmpl.Int(seq), tmpl.Str(text)}, loc)
		}
	case "assert":
		text := opts.message
		if text == "" {
			text = "1 == 2"
		}
		do = func(int, int) { e.Evaluate(false, text, loc) }
	case "die":
		text := opts.message
		if text == "" {
			text = "invariant X broken"
		}
		do = func(int, int) { e.Report(text, loc) }
	default:
		return fmt.Errorf("unknown action %q (expected assert|trace|die)", action)
	}

	g, ctx := errgroup.WithContext(ctx)
	for worker := range opts.goroutines {
		g.Go(func() error {
			for seq := range opts.count {
				if err := ctx.Err(); err != nil {
					return err
				}
				do(worker, seq)
			}
			return nil
		})
	}
	return g.Wait()
}
