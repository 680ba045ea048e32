// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/similigh/triagebot/internal/core/sweep"
	"github.com/similigh/triagebot/internal/orchestrator"
)

var indexCmd = &cobra.Command{
	Use:   "index [max]",
	Short: "Index open issues for related-issue hints",
	Long: `Embed open issues and store them in Qdrant. Triage uses the index to
show the oracle possibly related issues when related.enabled is set.

Requires GEMINI_API_KEY or OPENAI_API_KEY for embeddings, and QDRANT_URL
(default localhost:6334).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxItems, err := optionalMax(args, 0)
		if err != nil {
			return err
		}

		rt, err := newRuntime(cmd.Context(), needs{index: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		return runSweep(cmd, rt, "Indexing", func(ctx context.Context, e *orchestrator.Engine) (*sweep.Summary, error) {
			return e.IndexIssues(ctx, maxItems)
		})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
