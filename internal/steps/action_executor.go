// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package steps provides the action executor step.
package steps

import (
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/metrics"
)

// ActionExecutor applies the plan: labels, then the comment, then marker
// removal. In dry-run mode it logs the same plan and mutates nothing.
type ActionExecutor struct {
	github pipeline.HostAPI
	dryRun bool
}

// NewActionExecutor creates a new action executor step.
func NewActionExecutor(deps *pipeline.Dependencies) *ActionExecutor {
	return &ActionExecutor{
		github: deps.GitHub,
		dryRun: deps.DryRun,
	}
}

// Name returns the step name.
func (s *ActionExecutor) Name() string {
	return "action_executor"
}

// Run executes ctx.Plan. A failed mutation stops the remaining ones, so the
// marker is only removed once labels and comment went through.
func (s *ActionExecutor) Run(ctx *pipeline.Context) error {
	plan := ctx.Plan
	ctx.Result.Labels = nil
	ctx.Result.Comment = ""
	ctx.Result.CommentKind = ""
	if plan.Empty() {
		return nil
	}

	ctx.Result.Labels = plan.AddLabels
	ctx.Result.Comment = plan.Comment
	ctx.Result.CommentKind = plan.CommentKind

	log := clog.FromContext(ctx.Ctx)
	org, repo := ctx.Repo()
	number := ctx.Number()
	mode := metrics.Mode(s.dryRun)

	if len(plan.AddLabels) > 0 {
		metrics.Mutations.WithLabelValues("add_labels", mode).Inc()
		if s.dryRun {
			log.Infof("DRY RUN: Would add labels to #%d: %s", number, strings.Join(plan.AddLabels, ", "))
		} else {
			if err := s.github.AddLabels(ctx.Ctx, org, repo, number, plan.AddLabels); err != nil {
				return err
			}
			ctx.Result.LabelsApplied = plan.AddLabels
			log.Infof("Added labels to #%d: %s", number, strings.Join(plan.AddLabels, ", "))
		}
	}

	if plan.Comment != "" {
		metrics.Mutations.WithLabelValues("comment", mode).Inc()
		if s.dryRun {
			log.Infof("DRY RUN: Would post %s comment on #%d:\n%s", plan.CommentKind, number, plan.Comment)
		} else {
			if err := s.github.CreateComment(ctx.Ctx, org, repo, number, plan.Comment); err != nil {
				return err
			}
			ctx.Result.CommentPosted = true
			log.Infof("Posted %s comment on #%d", plan.CommentKind, number)
		}
	}

	if plan.RemoveLabel != "" {
		metrics.Mutations.WithLabelValues("remove_label", mode).Inc()
		if s.dryRun {
			log.Infof("DRY RUN: Would remove label %q from #%d", plan.RemoveLabel, number)
		} else {
			if err := s.github.RemoveLabel(ctx.Ctx, org, repo, number, plan.RemoveLabel); err != nil {
				return err
			}
			ctx.Result.MarkerRemoved = true
			log.Infof("Removed label %q from #%d", plan.RemoveLabel, number)
		}
	}

	return nil
}
