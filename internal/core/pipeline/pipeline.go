// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package pipeline provides the core pipeline engine for triagebot.
// It defines the Step interface and Context structure used by all pipeline steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/verdict"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., already triaged).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// Issue is the issue being processed. Nil on the review path.
	Issue *Issue

	// PR is the pull request being reviewed. Nil on the issue path.
	PR *PullRequest

	// Config is the loaded configuration.
	Config *config.Config

	// Result accumulates the processing results.
	Result *Result

	// Labels is the repository's authoritative label set. Steps fetch it
	// when a sweep has not already provided it.
	Labels []Label

	// Related holds vector-store hints for the triage prompt.
	Related []RelatedIssue

	// MarkerLabel is the needs-triage marker found on the issue, in stored casing.
	MarkerLabel string

	// Review path inputs.
	Files       []ChangedFile
	Diff        string
	LinkedIssue *Issue

	// Oracle verdicts after parsing.
	Triage *verdict.Triage
	Review *verdict.Review

	// Plan is the action plan produced by a router step.
	Plan *Plan

	// Metadata allows steps to pass arbitrary data to subsequent steps.
	Metadata map[string]interface{}
}

// NewContext creates a new pipeline context for an issue.
func NewContext(ctx context.Context, issue *Issue, cfg *config.Config) *Context {
	return &Context{
		Ctx:      ctx,
		Issue:    issue,
		Config:   cfg,
		Result:   &Result{IssueNumber: issue.Number},
		Metadata: make(map[string]interface{}),
	}
}

// NewPRContext creates a new pipeline context for a pull request.
func NewPRContext(ctx context.Context, pr *PullRequest, cfg *config.Config) *Context {
	return &Context{
		Ctx:      ctx,
		PR:       pr,
		Config:   cfg,
		Result:   &Result{IssueNumber: pr.Number},
		Metadata: make(map[string]interface{}),
	}
}

// Number returns the number of the item being processed.
func (c *Context) Number() int {
	if c.PR != nil {
		return c.PR.Number
	}
	if c.Issue != nil {
		return c.Issue.Number
	}
	return 0
}

// Repo returns the owner and name of the item's repository.
func (c *Context) Repo() (string, string) {
	if c.PR != nil {
		return c.PR.Org, c.PR.Repo
	}
	if c.Issue != nil {
		return c.Issue.Org, c.Issue.Repo
	}
	return "", ""
}

// Skip marks the result skipped and returns ErrSkipPipeline.
func (c *Context) Skip(reason string) error {
	c.Result.Skipped = true
	c.Result.SkipReason = reason
	return ErrSkipPipeline
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
// Each step sees a logger tagged with its name.
func (p *Pipeline) Run(ctx *Context) error {
	base := ctx.Ctx
	defer func() { ctx.Ctx = base }()

	for _, step := range p.steps {
		ctx.Ctx = clog.WithLogger(base, clog.FromContext(base).With("step", step.Name()))
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Wrap returns a pipeline whose steps are each wrapped by fn.
func (p *Pipeline) Wrap(fn func(Step) Step) *Pipeline {
	wrapped := make([]Step, 0, len(p.steps))
	for _, s := range p.steps {
		wrapped = append(wrapped, fn(s))
	}
	return New(wrapped...)
}
