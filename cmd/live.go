package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pulse-sim/pulse-sim/sim"
	"github.com/pulse-sim/pulse-sim/tui"
)

var livePolicy string // Policy selected at startup

// liveCmd opens the interactive canvas
var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Click to emit events and watch the selected policy schedule them",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := sim.ParsePolicy(livePolicy)
		if err != nil {
			logrus.Fatalf("Invalid --policy: %v", err)
		}
		app, err := tui.NewApp(cfg, p)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := app.Run(); err != nil {
			logrus.Fatalf("Live session failed: %v", err)
		}
	},
}

func init() {
	liveCmd.Flags().StringVar(&livePolicy, "policy", "merge", "Initial policy (merge, switch, exhaust, concat)")
	liveCmd.Flags().Int64("tick", sim.DefaultConfig().TickIntervalMs, "Screen refresh interval in milliseconds")
}
