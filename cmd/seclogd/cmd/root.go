// Package cmd implements the seclogd CLI commands.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hostwatch/seclogd/internal/logging"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

var (
	globalConfigPath string
	globalLogFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "seclogd",
	Short: "Host-resident security event pipeline",
	Long: `seclogd tails a host's auth, syslog, kernel, firewall, and audit logs,
normalizes matching lines into a typed event stream, and periodically
evaluates a detection rule catalog over recent events to raise alerts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns a context that cancels on SIGINT/SIGTERM.
func GetContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, "config", "", "path to the seclogd YAML config file")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "log output format (text or json)")
}

func setupLogging() {
	logger := logging.NewLogger(logging.Config{
		Level:  "info",
		Format: globalLogFormat,
		Output: os.Stderr,
	})
	logging.SetDefault(logger)
}
