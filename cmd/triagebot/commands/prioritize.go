// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/similigh/triagebot/internal/core/sweep"
	"github.com/similigh/triagebot/internal/orchestrator"
)

var prioritizeCmd = &cobra.Command{
	Use:   "prioritize [max]",
	Short: "Label high-engagement open issues",
	Long: `Label open issues whose upvotes or comment count cross the configured
thresholds. Issues that already carry the priority label are skipped
without fetching their engagement.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxItems, err := optionalMax(args, 0)
		if err != nil {
			return err
		}

		rt, err := newRuntime(cmd.Context(), needs{})
		if err != nil {
			return err
		}
		defer rt.Close()

		return runSweep(cmd, rt, "Priority sweep", func(ctx context.Context, e *orchestrator.Engine) (*sweep.Summary, error) {
			return e.PrioritizeIssues(ctx, maxItems)
		})
	},
}

func init() {
	rootCmd.AddCommand(prioritizeCmd)
}
