package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pulse-sim/pulse-sim/sim"
	"github.com/pulse-sim/pulse-sim/sim/scenario"
)

var (
	scenarioPath string // YAML scenario file
	replayOutput string // Report format
	replaySeed   int64  // Overrides generate.seed when set
)

// replayCmd runs a scripted event timeline through every policy
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a YAML event timeline through the selected policies",
	Run: func(cmd *cobra.Command, args []string) {
		var seed *int64
		if cmd.Flags().Changed("seed") {
			seed = &replaySeed
		}
		if err := runReplay(os.Stdout, cfg, scenarioPath, replayOutput, seed); err != nil {
			logrus.Fatalf("Replay failed: %v", err)
		}
	},
}

func runReplay(w io.Writer, c sim.Config, path, output string, seed *int64) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	if seed != nil {
		if s.Generate == nil {
			return fmt.Errorf("--seed given but scenario %s has no generate block", path)
		}
		logrus.Infof("overriding generate.seed %d with %d", s.Generate.Seed, *seed)
		s.Generate.Seed = *seed
	}
	res, err := s.Replay(c.TaskDelayMs)
	if err != nil {
		return err
	}
	switch output {
	case "json":
		return writeJSON(w, res)
	case "text":
		res.Print(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q; valid: text, json", output)
	}
}

func init() {
	replayCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario YAML file")
	replayCmd.Flags().StringVar(&replayOutput, "output", "text", "Report format (text, json)")
	replayCmd.Flags().Int64Var(&replaySeed, "seed", 0, "Seed for the scenario's generate block (overrides the YAML seed)")
	_ = replayCmd.MarkFlagRequired("scenario")
}
