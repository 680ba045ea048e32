// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/similigh/triagebot/internal/core/sweep"
	"github.com/similigh/triagebot/internal/orchestrator"
)

// defaultBacklogMax keeps local backlog runs small unless asked otherwise.
const defaultBacklogMax = 3

var issueCmd = &cobra.Command{
	Use:   "issue <number>",
	Short: "Triage a single issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parsePositive(args[0], "issue number")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		rt, err := newRuntime(ctx, needs{oracle: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		issue, err := rt.deps.GitHub.GetIssue(ctx, rt.org, rt.repo, number)
		if err != nil {
			return err
		}
		result, err := rt.engine().TriageIssue(ctx, issue)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), result)
		return nil
	},
}

var backlogCmd = &cobra.Command{
	Use:   "backlog [max]",
	Short: "Triage untriaged open issues, oldest work first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxItems, err := optionalMax(args, defaultBacklogMax)
		if err != nil {
			return err
		}

		rt, err := newRuntime(cmd.Context(), needs{oracle: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		return runSweep(cmd, rt, "Backlog triage", func(ctx context.Context, e *orchestrator.Engine) (*sweep.Summary, error) {
			return e.TriageBacklog(ctx, maxItems)
		})
	},
}

func init() {
	issueCmd.AddCommand(backlogCmd)
	rootCmd.AddCommand(issueCmd)
}

func parsePositive(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return n, nil
}

// optionalMax parses an optional [max] argument. A zero fallback defers to
// the config default.
func optionalMax(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	return parsePositive(args[0], "max")
}
