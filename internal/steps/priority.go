// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/router"
	"github.com/similigh/triagebot/internal/triage"
)

// PriorityGate skips issues that already carry the priority label, before
// any engagement is fetched.
type PriorityGate struct{}

// NewPriorityGate creates a new priority gate step.
func NewPriorityGate(*pipeline.Dependencies) *PriorityGate {
	return &PriorityGate{}
}

// Name returns the step name.
func (s *PriorityGate) Name() string {
	return "priority_gate"
}

// Run stops the pipeline for already-prioritized issues.
func (s *PriorityGate) Run(ctx *pipeline.Context) error {
	if !triage.NeedsPriority(ctx.Issue, ctx.Config.Labels.Priority) {
		return ctx.Skip("already prioritized")
	}
	return nil
}

// Engagement measures reactions and comments and plans the priority label.
type Engagement struct {
	github pipeline.HostAPI
}

// NewEngagement creates a new engagement step.
func NewEngagement(deps *pipeline.Dependencies) *Engagement {
	return &Engagement{github: deps.GitHub}
}

// Name returns the step name.
func (s *Engagement) Name() string {
	return "engagement"
}

// Run evaluates the issue against the configured thresholds.
func (s *Engagement) Run(ctx *pipeline.Context) error {
	issue := ctx.Issue

	reactions, err := s.github.ListIssueReactions(ctx.Ctx, issue.Org, issue.Repo, issue.Number)
	if err != nil {
		return err
	}
	commentCount, err := s.github.CountIssueComments(ctx.Ctx, issue.Org, issue.Repo, issue.Number)
	if err != nil {
		return err
	}

	p := ctx.Config.Priority
	eval := triage.Evaluate(triage.CountUpvotes(reactions), commentCount,
		triage.Thresholds{MinUpvotes: p.MinUpvotes, MinComments: p.MinComments})

	ctx.Result.Upvotes = eval.Upvotes
	ctx.Result.Comments = eval.Comments
	ctx.Result.HighPriority = eval.IsHighPriority
	ctx.Result.PriorityReason = eval.Reason
	ctx.Plan = router.RoutePriority(eval, ctx.Config.Labels.Priority)

	if eval.IsHighPriority {
		clog.FromContext(ctx.Ctx).Infof("#%d is high priority: %s", issue.Number, eval.Reason)
	}
	return nil
}
