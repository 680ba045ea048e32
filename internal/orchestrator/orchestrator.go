// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package orchestrator sequences the pipeline presets against one item or
// a paced sweep of items.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/core/sweep"
	"github.com/similigh/triagebot/internal/steps"
	"github.com/similigh/triagebot/internal/triage"
)

// Sweep names, also used as metric labels.
const (
	SweepBacklog  = "backlog"
	SweepPriority = "priority"
	SweepIndex    = "index"
)

// Engine runs triage, review, priority and indexing operations against one
// repository.
type Engine struct {
	deps      *pipeline.Dependencies
	registry  *pipeline.Registry
	org       string
	repo      string
	observers []sweep.Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver reports sweep progress to o.
func WithObserver(o sweep.Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// New creates an engine for org/repo.
func New(deps *pipeline.Dependencies, org, repo string, opts ...Option) *Engine {
	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	e := &Engine{deps: deps, registry: registry, org: org, repo: repo}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) sweepOptions() []sweep.Option {
	opts := make([]sweep.Option, 0, len(e.observers))
	for _, o := range e.observers {
		opts = append(opts, sweep.WithObserver(o))
	}
	return opts
}

func (e *Engine) runIssue(ctx context.Context, p *pipeline.Pipeline, issue *pipeline.Issue, labels []pipeline.Label) (*pipeline.Result, error) {
	pctx := pipeline.NewContext(ctx, issue, e.deps.Config)
	pctx.Labels = labels
	err := p.Run(pctx)
	return pctx.Result, err
}

// TriageIssue triages one already-fetched issue. Oracle and parse failures
// propagate to the caller.
func (e *Engine) TriageIssue(ctx context.Context, issue *pipeline.Issue) (*pipeline.Result, error) {
	p, err := e.registry.BuildPreset(pipeline.PresetIssueTriage, e.deps)
	if err != nil {
		return nil, err
	}
	return e.runIssue(ctx, p, issue, nil)
}

// TriageBacklog triages up to maxItems untriaged open issues. The label set is
// fetched once for the whole sweep.
func (e *Engine) TriageBacklog(ctx context.Context, maxItems int) (*sweep.Summary, error) {
	cfg := e.deps.Config
	if maxItems <= 0 {
		maxItems = cfg.Backlog.MaxIssues
	}
	log := clog.FromContext(ctx)

	open, err := e.deps.GitHub.ListOpenIssues(ctx, e.org, e.repo, 2*maxItems)
	if err != nil {
		return nil, err
	}
	var candidates []*pipeline.Issue
	for _, issue := range open {
		if triage.NeedsTriage(issue, cfg.Labels) {
			candidates = append(candidates, issue)
		}
	}
	log.Infof("Found %d untriaged issues among %d open issues", len(candidates), len(open))

	labels, err := e.deps.GitHub.ListRepositoryLabels(ctx, e.org, e.repo)
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []pipeline.Label{}
	}

	p, err := e.registry.BuildPreset(pipeline.PresetIssueTriage, e.deps)
	if err != nil {
		return nil, err
	}

	q := sweep.New(SweepBacklog, sweep.Policy{Delay: cfg.Backlog.Delay, MaxItems: maxItems}, e.sweepOptions()...)
	return q.Run(ctx, candidates, func(ctx context.Context, issue *pipeline.Issue) (*pipeline.Result, error) {
		return e.runIssue(ctx, p, issue, labels)
	})
}

// ReviewPR reviews one pull request.
func (e *Engine) ReviewPR(ctx context.Context, number int) (*pipeline.Result, error) {
	pr, err := e.deps.GitHub.GetPullRequest(ctx, e.org, e.repo, number)
	if err != nil {
		return nil, err
	}
	p, err := e.registry.BuildPreset(pipeline.PresetPRReview, e.deps)
	if err != nil {
		return nil, err
	}

	pctx := pipeline.NewPRContext(ctx, pr, e.deps.Config)
	err = p.Run(pctx)
	return pctx.Result, err
}

// PrioritizeIssues labels high-engagement open issues. Issues already
// carrying the priority label are skipped before any engagement fetch.
func (e *Engine) PrioritizeIssues(ctx context.Context, maxItems int) (*sweep.Summary, error) {
	cfg := e.deps.Config
	if maxItems <= 0 {
		maxItems = cfg.Priority.MaxIssues
	}
	clog.FromContext(ctx).Infof("Prioritizing up to %d issues (thresholds: %d upvotes, %d comments)",
		maxItems, cfg.Priority.MinUpvotes, cfg.Priority.MinComments)

	open, err := e.deps.GitHub.ListOpenIssues(ctx, e.org, e.repo, maxItems)
	if err != nil {
		return nil, err
	}
	p, err := e.registry.BuildPreset(pipeline.PresetPriority, e.deps)
	if err != nil {
		return nil, err
	}

	precheck := func(issue *pipeline.Issue) (bool, string) {
		return !triage.NeedsPriority(issue, cfg.Labels.Priority), "already prioritized"
	}
	opts := append(e.sweepOptions(), sweep.WithPrecheck(precheck))
	q := sweep.New(SweepPriority, sweep.Policy{Delay: cfg.Priority.Delay, MaxItems: maxItems}, opts...)
	return q.Run(ctx, open, func(ctx context.Context, issue *pipeline.Issue) (*pipeline.Result, error) {
		return e.runIssue(ctx, p, issue, nil)
	})
}

// IndexIssues embeds up to maxItems open issues into the related-issue index.
func (e *Engine) IndexIssues(ctx context.Context, maxItems int) (*sweep.Summary, error) {
	cfg := e.deps.Config
	if maxItems <= 0 {
		maxItems = cfg.Backlog.MaxIssues
	}
	if e.deps.Embedder == nil || e.deps.VectorStore == nil {
		return nil, fmt.Errorf("indexing requires an embedder and a vector store")
	}

	if !e.deps.DryRun {
		if err := e.deps.VectorStore.EnsureCollection(ctx, cfg.Related.Collection, e.deps.Embedder.Dimensions()); err != nil {
			return nil, err
		}
	}

	open, err := e.deps.GitHub.ListOpenIssues(ctx, e.org, e.repo, maxItems)
	if err != nil {
		return nil, err
	}
	p, err := e.registry.BuildPreset(pipeline.PresetIndex, e.deps)
	if err != nil {
		return nil, err
	}

	q := sweep.New(SweepIndex, sweep.Policy{Delay: cfg.Priority.Delay, MaxItems: maxItems}, e.sweepOptions()...)
	return q.Run(ctx, open, func(ctx context.Context, issue *pipeline.Issue) (*pipeline.Result, error) {
		return e.runIssue(ctx, p, issue, nil)
	})
}
