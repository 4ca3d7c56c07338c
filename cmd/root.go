package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solipsim/solipsim/sim/scenario"
	"github.com/solipsim/solipsim/sim/trace"
)

var (
	// CLI flags
	scenarioPath string // YAML scenario file; empty = built-in default
	logLevel     string // Log verbosity level
	traceLevel   string // Execution trace level ("none" or "execution")
	seed         int64  // Overrides the scenario's seed when >= 0
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "solipsim",
	Short: "Deterministic virtual-time event loop with simulated sockets",
}

// runCmd executes an echo scenario on a virtual-time loop
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an echo scenario to completion on virtual time",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		cfg := scenario.Default()
		if scenarioPath != "" {
			cfg, err = scenario.Load(scenarioPath)
			if err != nil {
				logrus.Fatalf("Could not load scenario: %v", err)
			}
		}
		if seed >= 0 {
			cfg.Seed = seed
		}

		runner := scenario.NewRunner(cfg)
		var et *trace.ExecutionTrace
		if trace.TraceLevel(traceLevel) == trace.TraceLevelExecution {
			et = trace.NewExecutionTrace(trace.TraceConfig{Level: trace.TraceLevelExecution})
			runner.Loop().AttachTrace(et)
		}

		metrics, err := runner.Run()
		if err != nil {
			logrus.Fatalf("Scenario failed: %v", err)
		}

		logrus.Infof("virtual end time: %v", metrics.EndTime)
		logrus.Infof("messages: %d, bytes sent: %d, bytes echoed: %d",
			metrics.Messages, metrics.BytesSent, metrics.BytesEchoed)
		for name, cm := range metrics.PerClient {
			logrus.Infof("client %s: %d messages, %d bytes, done at %v",
				name, cm.Messages, cm.Bytes, cm.DoneAt)
		}
		if et != nil {
			s := et.Summarize()
			logrus.Infof("trace: %d callbacks executed, %d skipped, %d clock advances",
				s.Executed, s.Skipped, s.Advances)
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file (default: built-in two-client echo)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Execution trace level (none, execution)")
	runCmd.Flags().Int64Var(&seed, "seed", -1, "Override the scenario seed (-1 keeps the file's value)")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
