package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pulse-sim/pulse-sim/sim"
	"github.com/pulse-sim/pulse-sim/tui"
)

const fallbackWidth = 80

var (
	demoPolicies []string // Policies to compare; empty means all four
	demoOutput   string   // Report format
)

// demoCmd replays the synthetic moment sequence into one lane per policy
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Compare the four policies on the same synthetic event sequence",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDemo(os.Stdout, cfg, demoPolicies, demoOutput, terminalWidth()); err != nil {
			logrus.Fatalf("Demo failed: %v", err)
		}
	},
}

func runDemo(w io.Writer, c sim.Config, names []string, output string, width int) error {
	policies, err := sim.ParsePolicies(names)
	if err != nil {
		return err
	}
	d, err := sim.NewDemo(c, policies)
	if err != nil {
		return err
	}
	res := d.Run()

	switch output {
	case "json":
		return writeJSON(w, res)
	case "text":
		_, _ = fmt.Fprintln(w, tui.RenderDemo(res, width))
		res.Print(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q; valid: text, json", output)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// terminalWidth returns the stdout width, or a fallback when stdout is not
// a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackWidth
}

func init() {
	demoCmd.Flags().StringSliceVar(&demoPolicies, "policies", nil, "Comma-separated policies to compare (merge, switch, exhaust, concat)")
	demoCmd.Flags().StringVar(&demoOutput, "output", "text", "Report format (text, json)")
	demoCmd.Flags().Int64("tick", sim.DefaultConfig().TickIntervalMs, "Clock interval in milliseconds")
	demoCmd.Flags().Int64("ticks-per-moment", sim.DefaultConfig().TicksPerMoment, "Clock ticks per synthetic moment")
	demoCmd.Flags().Int64("moments", sim.DefaultConfig().MomentLimit, "Number of synthetic moments")
}
