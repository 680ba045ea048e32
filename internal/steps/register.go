// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package steps

import (
	"github.com/similigh/triagebot/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("related_issues", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewRelatedIssues(deps), nil
	})

	r.Register("triage", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		step, err := NewTriage(deps)
		if err != nil {
			return nil, err
		}
		return step, nil
	})

	r.Register("triage_router", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewTriageRouter(deps), nil
	})

	r.Register("pr_context", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewPRContext(deps), nil
	})

	r.Register("pr_review", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		step, err := NewPRReview(deps)
		if err != nil {
			return nil, err
		}
		return step, nil
	})

	r.Register("review_router", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewReviewRouter(deps), nil
	})

	r.Register("priority_gate", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewPriorityGate(deps), nil
	})

	r.Register("engagement", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewEngagement(deps), nil
	})

	r.Register("action_executor", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewActionExecutor(deps), nil
	})

	r.Register("indexer", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewIndexer(deps), nil
	})
}
