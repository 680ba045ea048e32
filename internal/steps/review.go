// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/integrations/llm"
	"github.com/similigh/triagebot/internal/prompts"
	"github.com/similigh/triagebot/internal/triage"
	"github.com/similigh/triagebot/internal/verdict"
)

// PRContext gathers the diff, changed files and linked issue of a pull
// request.
type PRContext struct {
	github pipeline.HostAPI
}

// NewPRContext creates a new pull request context step.
func NewPRContext(deps *pipeline.Dependencies) *PRContext {
	return &PRContext{github: deps.GitHub}
}

// Name returns the step name.
func (s *PRContext) Name() string {
	return "pr_context"
}

// Run fills ctx.Diff, ctx.Files and ctx.LinkedIssue. A linked issue that
// cannot be fetched is treated as absent.
func (s *PRContext) Run(ctx *pipeline.Context) error {
	pr := ctx.PR
	log := clog.FromContext(ctx.Ctx)

	diff, err := s.github.GetPullRequestDiff(ctx.Ctx, pr.Org, pr.Repo, pr.Number)
	if err != nil {
		return err
	}
	files, err := s.github.ListPullRequestFiles(ctx.Ctx, pr.Org, pr.Repo, pr.Number)
	if err != nil {
		return err
	}
	ctx.Diff, ctx.Files = diff, files

	number, ok := triage.ExtractLinkedIssue(pr.Body)
	if !ok {
		log.Infof("PR #%d references no issue", pr.Number)
		return nil
	}

	linked, err := s.github.GetIssue(ctx.Ctx, pr.Org, pr.Repo, number)
	if err != nil {
		log.Warnf("Linked issue #%d of PR #%d could not be fetched: %v", number, pr.Number, err)
		return nil
	}
	ctx.LinkedIssue = linked
	log.Infof("PR #%d links issue #%d", pr.Number, number)
	return nil
}

// PRReview asks the oracle to review a pull request.
type PRReview struct {
	oracle   llm.Oracle
	composer *prompts.Composer
}

// NewPRReview creates a new pull request review step.
func NewPRReview(deps *pipeline.Dependencies) (*PRReview, error) {
	composer, err := prompts.NewComposer(deps.Config)
	if err != nil {
		return nil, err
	}
	return &PRReview{oracle: deps.Oracle, composer: composer}, nil
}

// Name returns the step name.
func (s *PRReview) Name() string {
	return "pr_review"
}

// Run calls the oracle and parses its review verdict.
func (s *PRReview) Run(ctx *pipeline.Context) error {
	cfg := ctx.Config.Review
	raw, err := s.oracle.Complete(ctx.Ctx,
		s.composer.ReviewSystemPrompt(),
		s.composer.ReviewPrompt(ctx.PR, ctx.Diff, ctx.LinkedIssue, ctx.Files),
		llm.CallOptions{Model: cfg.Model, MaxTokens: cfg.MaxTokens, Purpose: llm.PurposeReview},
	)
	if err != nil {
		return err
	}

	v, err := verdict.ParseReview(raw)
	if err != nil {
		return fmt.Errorf("review verdict for PR #%d: %w", ctx.PR.Number, err)
	}

	ctx.Review = v
	ctx.Result.Summary = v.Summary
	clog.FromContext(ctx.Ctx).Infof("PR #%d assessed as %s", ctx.PR.Number, v.RawAssessment)
	return nil
}
