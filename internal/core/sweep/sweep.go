// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package sweep runs a sequential, paced queue of per-item tasks and
// collects a structured summary. A failing item never aborts the sweep.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/time/rate"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/metrics"
)

// Outcome is the terminal state of one item.
type Outcome string

const (
	Success Outcome = "success"
	Skip    Outcome = "skip"
	Error   Outcome = "error"
)

// ItemResult records what happened to one item.
type ItemResult struct {
	Number  int
	Outcome Outcome
	Reason  string
	Err     error

	// Result is the pipeline result for processed items.
	Result *pipeline.Result
}

// Summary aggregates a sweep.
type Summary struct {
	Name      string
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Items     []ItemResult
}

func (s *Summary) add(r ItemResult) {
	s.Items = append(s.Items, r)
	s.Total++
	switch r.Outcome {
	case Success:
		s.Succeeded++
	case Skip:
		s.Skipped++
	case Error:
		s.Failed++
	}
}

// Policy bounds a sweep.
type Policy struct {
	// Delay is the minimum gap between the end of one processed item and
	// the start of the next.
	Delay time.Duration

	// MaxItems caps how many items are examined. Zero means no cap.
	MaxItems int
}

// Handler processes one item. A pipeline.ErrSkipPipeline error, or a
// result marked Skipped, records a skip.
type Handler func(ctx context.Context, issue *pipeline.Issue) (*pipeline.Result, error)

// Precheck decides, before any pacing or fetching, whether an item can be
// skipped outright.
type Precheck func(issue *pipeline.Issue) (skip bool, reason string)

// Observer is notified as the sweep progresses.
type Observer interface {
	ItemStarted(number, index, total int)
	ItemDone(result ItemResult)
}

// Queue is a sequential task queue with an inter-item pacing policy.
type Queue struct {
	name      string
	policy    Policy
	precheck  Precheck
	observers []Observer
}

// Option configures a Queue.
type Option func(*Queue)

// WithPrecheck sets a pre-skip check. Pre-skipped items are not paced.
func WithPrecheck(p Precheck) Option {
	return func(q *Queue) { q.precheck = p }
}

// WithObserver adds a progress observer.
func WithObserver(o Observer) Option {
	return func(q *Queue) { q.observers = append(q.observers, o) }
}

// New creates a queue named name.
func New(name string, policy Policy, opts ...Option) *Queue {
	q := &Queue{name: name, policy: policy}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Run processes items strictly in order. Item failures are recorded and
// the sweep continues. Only context cancellation stops it early, in which
// case the partial summary is returned with the context error.
func (q *Queue) Run(ctx context.Context, items []*pipeline.Issue, handle Handler) (*Summary, error) {
	log := clog.FromContext(ctx).With("sweep", q.name)

	if q.policy.MaxItems > 0 && len(items) > q.policy.MaxItems {
		items = items[:q.policy.MaxItems]
	}

	pace := pacer{delay: q.policy.Delay}

	summary := &Summary{Name: q.name}
	log.Infof("Starting sweep over %d items (delay %s)", len(items), q.policy.Delay)

	for i, issue := range items {
		q.started(issue.Number, i, len(items))

		if q.precheck != nil {
			if skip, reason := q.precheck(issue); skip {
				q.record(summary, ItemResult{Number: issue.Number, Outcome: Skip, Reason: reason})
				continue
			}
		}

		if err := pace.wait(ctx); err != nil {
			log.Warnf("Sweep interrupted before #%d: %v", issue.Number, err)
			return summary, err
		}

		result, err := handle(ctx, issue)
		pace.finished(time.Now())
		q.record(summary, classify(issue.Number, result, err))
		if err != nil && !errors.Is(err, pipeline.ErrSkipPipeline) {
			log.Errorf("Item #%d failed: %v", issue.Number, err)
		}
	}

	log.Infof("Sweep complete: %d total, %d succeeded, %d skipped, %d failed",
		summary.Total, summary.Succeeded, summary.Skipped, summary.Failed)
	return summary, nil
}

// pacer holds the next processed item back until delay has passed since
// the previous one finished. The first item never waits.
type pacer struct {
	delay   time.Duration
	limiter *rate.Limiter
}

func (p *pacer) wait(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// finished drains the limiter at t so the next token is due at t+delay.
func (p *pacer) finished(t time.Time) {
	if p.delay <= 0 {
		return
	}
	p.limiter = rate.NewLimiter(rate.Every(p.delay), 1)
	p.limiter.AllowN(t, 1)
}

func classify(number int, result *pipeline.Result, err error) ItemResult {
	r := ItemResult{Number: number, Result: result}
	switch {
	case errors.Is(err, pipeline.ErrSkipPipeline):
		r.Outcome = Skip
		r.Reason = skipReason(result, err)
	case err != nil:
		r.Outcome = Error
		r.Reason = err.Error()
		r.Err = err
	case result != nil && result.Skipped:
		r.Outcome = Skip
		r.Reason = result.SkipReason
	default:
		r.Outcome = Success
	}
	return r
}

func skipReason(result *pipeline.Result, err error) string {
	if result != nil && result.SkipReason != "" {
		return result.SkipReason
	}
	return err.Error()
}

func (q *Queue) started(number, index, total int) {
	for _, o := range q.observers {
		o.ItemStarted(number, index, total)
	}
}

func (q *Queue) record(s *Summary, r ItemResult) {
	s.add(r)
	metrics.SweepItems.WithLabelValues(q.name, string(r.Outcome)).Inc()
	for _, o := range q.observers {
		o.ItemDone(r)
	}
}

// String renders a one-line summary.
func (s *Summary) String() string {
	return fmt.Sprintf("%s: %d total, %d succeeded, %d skipped, %d failed",
		s.Name, s.Total, s.Succeeded, s.Skipped, s.Failed)
}
