// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/comments"
	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/router"
)

// TriageRouter turns the triage verdict into an action plan.
type TriageRouter struct {
	renderer *comments.Renderer
}

// NewTriageRouter creates a new triage router step.
func NewTriageRouter(deps *pipeline.Dependencies) *TriageRouter {
	return &TriageRouter{renderer: comments.NewRenderer(deps.Config)}
}

// Name returns the step name.
func (s *TriageRouter) Name() string {
	return "triage_router"
}

// Run builds ctx.Plan from ctx.Triage.
func (s *TriageRouter) Run(ctx *pipeline.Context) error {
	if ctx.Triage == nil {
		return fmt.Errorf("no triage verdict for #%d", ctx.Number())
	}

	ctx.Plan = router.RouteTriage(ctx.Ctx, ctx.Triage, ctx.Labels, ctx.MarkerLabel, s.renderer)
	ctx.Triage.Labels = ctx.Plan.AddLabels
	if ctx.Triage.Comment != nil && ctx.Plan.Comment == "" {
		clog.FromContext(ctx.Ctx).Warnf("Unknown comment type %q for #%d, no comment", ctx.Triage.Comment.RawType, ctx.Number())
	}
	return nil
}

// ReviewRouter turns the review verdict into an action plan.
type ReviewRouter struct {
	renderer *comments.Renderer
}

// NewReviewRouter creates a new review router step.
func NewReviewRouter(deps *pipeline.Dependencies) *ReviewRouter {
	return &ReviewRouter{renderer: comments.NewRenderer(deps.Config)}
}

// Name returns the step name.
func (s *ReviewRouter) Name() string {
	return "review_router"
}

// Run builds ctx.Plan from ctx.Review. Whether a linked issue was resolved
// is decided here, never by the oracle.
func (s *ReviewRouter) Run(ctx *pipeline.Context) error {
	if ctx.Review == nil {
		return fmt.Errorf("no review verdict for #%d", ctx.Number())
	}

	ctx.Plan = router.RouteReview(ctx.Review, ctx.LinkedIssue != nil, ctx.Config.Labels.Review, s.renderer)
	if len(ctx.Plan.AddLabels) == 0 {
		clog.FromContext(ctx.Ctx).Warnf("Unknown assessment %q for #%d, commenting without a label", ctx.Review.RawAssessment, ctx.Number())
	}
	return nil
}
