// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package commands implements the triagebot command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/similigh/triagebot/internal/metrics"
)

var (
	cfgFile     string
	repoFlag    string
	verbose     bool
	live        bool
	useTUI      bool
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "triagebot",
	Short: "Oracle-assisted issue triage and pull request review",
	Long: `triagebot asks an LLM for judgments about issues and pull requests
and turns the verdicts into labels and comments.

Every command is a dry run unless --live is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cmd.SetContext(clog.WithLogger(cmd.Context(), newLogger(cmd.ErrOrStderr())))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: .github/triagebot.yaml)")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "", "Repository in owner/name format (or set GITHUB_REPOSITORY)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&live, "live", false, "Apply labels and comments instead of logging them")
	rootCmd.PersistentFlags().BoolVar(&useTUI, "tui", false, "Show interactive progress for sweeps")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}

// Execute runs the root command. Metrics are written even when the command fails.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if metricsFile != "" {
		if werr := metrics.WriteFile(metricsFile); werr != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", werr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func newLogger(w io.Writer) *clog.Logger {
	if useTUI {
		w = io.Discard
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return clog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
