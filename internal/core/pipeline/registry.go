// Package pipeline provides step registration and preset workflow building.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/integrations/llm"
	"github.com/similigh/triagebot/internal/integrations/qdrant"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// HostAPI is the repository host surface the engine consumes.
type HostAPI interface {
	GetIssue(ctx context.Context, org, repo string, number int) (*Issue, error)
	ListOpenIssues(ctx context.Context, org, repo string, limit int) ([]*Issue, error)
	GetPullRequest(ctx context.Context, org, repo string, number int) (*PullRequest, error)
	GetPullRequestDiff(ctx context.Context, org, repo string, number int) (string, error)
	ListPullRequestFiles(ctx context.Context, org, repo string, number int) ([]ChangedFile, error)
	ListIssueReactions(ctx context.Context, org, repo string, number int) ([]string, error)
	CountIssueComments(ctx context.Context, org, repo string, number int) (int, error)
	ListRepositoryLabels(ctx context.Context, org, repo string) ([]Label, error)
	AddLabels(ctx context.Context, org, repo string, number int, labels []string) error
	RemoveLabel(ctx context.Context, org, repo string, number int, label string) error
	CreateComment(ctx context.Context, org, repo string, number int, body string) error
}

// Embedder turns text into a vector for related-issue lookups.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	GitHub      HostAPI
	Oracle      llm.Oracle
	Embedder    Embedder
	VectorStore qdrant.VectorStore

	// Config is threaded into the prompt composer and comment renderer.
	Config *config.Config

	// DryRun computes every mutation but never issues it.
	DryRun bool
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// BuildPreset creates a pipeline from a named preset.
func (r *Registry) BuildPreset(name string, deps *Dependencies) (*Pipeline, error) {
	names, ok := GetPreset(name)
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return r.BuildFromNames(names, deps)
}

// Preset names.
const (
	PresetIssueTriage = "issue-triage"
	PresetPRReview    = "pr-review"
	PresetPriority    = "priority"
	PresetIndex       = "index"
)

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// issue-triage: eligibility, oracle triage, routing, mutations
	PresetIssueTriage: {
		"gatekeeper",
		"related_issues",
		"triage",
		"triage_router",
		"action_executor",
	},

	// pr-review: gather PR context, oracle review, routing, mutations
	PresetPRReview: {
		"pr_context",
		"pr_review",
		"review_router",
		"action_executor",
	},

	// priority: engagement-driven priority labeling
	PresetPriority: {
		"priority_gate",
		"engagement",
		"action_executor",
	},

	// index: embed issues for related-issue hints
	PresetIndex: {
		"indexer",
	},
}

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}
