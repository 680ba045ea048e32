// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package steps contains the modular "Lego block" pipeline steps.
// Each step implements the pipeline.Step interface.
package steps

import (
	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/triage"
)

// Gatekeeper decides whether an issue is eligible for triage.
type Gatekeeper struct{}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(*pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run skips pull requests and already-triaged issues, and records the
// needs-triage marker for later removal.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	log := clog.FromContext(ctx.Ctx)
	e := triage.Classify(ctx.Issue, ctx.Config.Labels)

	switch e.Decision {
	case triage.SkipNotIssue:
		log.Infof("#%d is a pull request, skipping", ctx.Issue.Number)
		return ctx.Skip("pull request")
	case triage.SkipAlreadyTriaged:
		log.Infof("#%d already carries taxonomy labels, skipping", ctx.Issue.Number)
		return ctx.Skip("already triaged")
	}

	ctx.MarkerLabel = e.Marker
	if e.HasMarker() {
		log.Infof("#%d carries marker %q, triaging", ctx.Issue.Number, e.Marker)
	}
	return nil
}
