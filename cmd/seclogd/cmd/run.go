package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hostwatch/seclogd/internal/config"
	"github.com/hostwatch/seclogd/internal/logging"
	"github.com/hostwatch/seclogd/internal/orchestrator"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the event pipeline in the foreground",
	Long: `Discovers readable well-known log paths, tails them, normalizes
matching lines into events, and evaluates the detection rule catalog on
a timer until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(globalConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: globalLogFormat,
		Output: os.Stderr,
	})
	logging.SetDefault(logger)

	o, err := orchestrator.New(cfg)
	if err != nil {
		return fmt.Errorf("starting orchestrator: %w", err)
	}

	return o.Run(GetContext())
}
