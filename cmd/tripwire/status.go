package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tripwire/dbg"
	"tripwire/internal/debugger"
	"tripwire/internal/version"
)

type statusReport struct {
	Tool     string `json:"tool"`
	Version  string `json:"version"`
	Mode     string `json:"mode"`
	PID      int    `json:"pid"`
	Attached bool   `json:"debugger_attached"`
}

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the report as JSON")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the build mode and whether a debugger is attached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := collectStatus(debugger.OS)
		if statusJSON {
			return renderStatusJSON(cmd.OutOrStdout(), report)
		}
		renderStatusPretty(cmd.OutOrStdout(), report)
		return nil
	},
}

func collectStatus(d debugger.Detector) statusReport {
	return statusReport{
		Tool:     "tripwire",
		Version:  version.Version,
		Mode:     dbg.Mode().String(),
		PID:      os.Getpid(),
		Attached: d.Attached(),
	}
}

func renderStatusPretty(out io.Writer, r statusReport) {
	state := color.New(color.FgYellow).Sprint("not attached")
	if r.Attached {
		state = color.New(color.FgGreen, color.Bold).Sprint("attached")
	}
	fmt.Fprintf(out, "%s %s (%s build)\n", r.Tool, version.Styled(r.Version), r.Mode)
	fmt.Fprintf(out, "pid:      %d\n", r.PID)
	fmt.Fprintf(out, "debugger: %s\n", state)
}

func renderStatusJSON(out io.Writer, r statusReport) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
