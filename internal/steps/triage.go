// Package steps provides the triage step.
package steps

import (
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/integrations/llm"
	"github.com/similigh/triagebot/internal/prompts"
	"github.com/similigh/triagebot/internal/verdict"
)

// Triage asks the oracle to classify the issue. Oracle and parse failures
// are fatal for the item.
type Triage struct {
	github   pipeline.HostAPI
	oracle   llm.Oracle
	composer *prompts.Composer
}

// NewTriage creates a new triage step.
func NewTriage(deps *pipeline.Dependencies) (*Triage, error) {
	composer, err := prompts.NewComposer(deps.Config)
	if err != nil {
		return nil, err
	}
	return &Triage{
		github:   deps.GitHub,
		oracle:   deps.Oracle,
		composer: composer,
	}, nil
}

// Name returns the step name.
func (s *Triage) Name() string {
	return "triage"
}

// Run composes the request, calls the oracle and parses its verdict.
func (s *Triage) Run(ctx *pipeline.Context) error {
	if err := loadLabels(ctx, s.github); err != nil {
		return err
	}

	cfg := ctx.Config.Triage
	raw, err := s.oracle.Complete(ctx.Ctx,
		s.composer.IssueSystemPrompt(),
		s.composer.IssuePrompt(ctx.Issue, ctx.Labels, ctx.Related),
		llm.CallOptions{Model: cfg.Model, MaxTokens: cfg.MaxTokens, Purpose: llm.PurposeTriage},
	)
	if err != nil {
		return err
	}

	v, err := verdict.ParseTriage(raw)
	if err != nil {
		return fmt.Errorf("triage verdict for #%d: %w", ctx.Issue.Number, err)
	}
	fillDuplicateTitle(v, ctx.Related)

	ctx.Triage = v
	ctx.Result.Summary = v.Reasoning
	clog.FromContext(ctx.Ctx).Infof("#%d: oracle suggested %d labels (confidence %s)",
		ctx.Issue.Number, len(v.Labels), v.Confidence)
	return nil
}

// loadLabels fetches the authoritative label set unless a sweep already
// provided it.
func loadLabels(ctx *pipeline.Context, gh pipeline.HostAPI) error {
	if ctx.Labels != nil {
		return nil
	}
	org, repo := ctx.Repo()
	labels, err := gh.ListRepositoryLabels(ctx.Ctx, org, repo)
	if err != nil {
		return err
	}
	if labels == nil {
		labels = []pipeline.Label{}
	}
	ctx.Labels = labels
	return nil
}

// fillDuplicateTitle names the original issue when the oracle only gave
// its number and the lookup already saw it.
func fillDuplicateTitle(v *verdict.Triage, related []pipeline.RelatedIssue) {
	ci := v.Comment
	if ci == nil || ci.Kind != verdict.CommentDuplicate || ci.IssueTitle != "" {
		return
	}
	for _, r := range related {
		if r.Number == ci.IssueNumber {
			ci.IssueTitle = r.Title
			return
		}
	}
}
