// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package router maps parsed oracle verdicts to action plans.
package router

import (
	"context"

	"github.com/similigh/triagebot/internal/comments"
	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/triage"
	"github.com/similigh/triagebot/internal/verdict"
)

// RouteTriage turns a triage verdict into a plan. Labels are reconciled
// against available; at most one comment is rendered; a marker label, when
// given, is scheduled for removal after the other mutations.
func RouteTriage(ctx context.Context, v *verdict.Triage, available []pipeline.Label, marker string, r *comments.Renderer) *pipeline.Plan {
	plan := &pipeline.Plan{
		AddLabels:   triage.Reconcile(ctx, v.Labels, available),
		RemoveLabel: marker,
	}
	plan.Comment, plan.CommentKind = r.Intent(v.Comment)
	return plan
}

// AssessmentLabel maps a known assessment to its PR label. Unknown
// assessments map to no label.
func AssessmentLabel(a verdict.Assessment, labels config.ReviewLabels) (string, bool) {
	switch a {
	case verdict.AssessmentApprove:
		return labels.Approve, true
	case verdict.AssessmentChangesRequested:
		return labels.ChangesRequested, true
	case verdict.AssessmentNeedsReview:
		return labels.NeedsReview, true
	case verdict.AssessmentUnknown:
		return "", false
	default:
		return "", false
	}
}

// RouteReview injects hasLinkedIssue into the verdict and turns it into a
// plan. A comment is always produced.
func RouteReview(v *verdict.Review, hasLinkedIssue bool, labels config.ReviewLabels, r *comments.Renderer) *pipeline.Plan {
	v.HasLinkedIssue = hasLinkedIssue

	plan := &pipeline.Plan{}
	if label, ok := AssessmentLabel(v.Assessment, labels); ok {
		plan.AddLabels = []string{label}
	}
	plan.Comment, plan.CommentKind = r.Review(v)
	return plan
}

// RoutePriority plans the priority label for a high-priority evaluation.
func RoutePriority(e triage.Evaluation, label string) *pipeline.Plan {
	if !e.IsHighPriority {
		return &pipeline.Plan{}
	}
	return &pipeline.Plan{AddLabels: []string{label}}
}
