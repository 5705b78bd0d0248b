package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"wgslsp/internal/version"
)

// errFindings is returned when check found errors; the report is already
// printed, only the exit status is left.
var errFindings = errors.New("errors found")

var rootCmd = &cobra.Command{
	Use:           "wgslsp",
	Short:         "Language server and checker for modular WGSL shaders",
	Long:          `wgslsp resolves #import directives between WGSL files, validates each module with its dependencies and reports diagnostics to editors or the terminal`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|always|never)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides wgslsp.toml")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "crash", "trace level (off|crash|request|stage|module)")
	rootCmd.PersistentFlags().String("trace-mode", "ring", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the trace ring")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, "wgslsp:", err)
		}
		os.Exit(1)
	}
}

// newLogger builds the process logger. It always writes to stderr: in serve
// mode stdout carries the protocol.
func newLogger(cmd *cobra.Command, fallback log.Level) (*log.Logger, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "wgslsp",
		ReportTimestamp: true,
		Level:           fallback,
	})
	value, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	if value != "" {
		level, err := log.ParseLevel(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
	}
	return logger, nil
}
