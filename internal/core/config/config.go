// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package config handles loading and merging triagebot configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config lives inside a repository.
const DefaultPath = ".github/triagebot.yaml"

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// Repository identifies the repository being maintained.
	Repository RepositoryConfig `yaml:"repository"`

	// Library describes the project for prompt and comment placeholders.
	Library LibraryConfig `yaml:"library"`

	Labels   LabelsConfig   `yaml:"labels"`
	Triage   TriageConfig   `yaml:"triage"`
	Review   ReviewConfig   `yaml:"review"`
	Backlog  SweepConfig    `yaml:"backlog"`
	Priority PriorityConfig `yaml:"priority"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Prompts  PromptsConfig  `yaml:"prompts"`
	Related  RelatedConfig  `yaml:"related"`
}

// RepositoryConfig names the maintained repository.
type RepositoryConfig struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// LibraryConfig holds the values substituted into prompt and comment templates.
type LibraryConfig struct {
	Name           string `yaml:"name"`
	RepositoryURL  string `yaml:"repository_url"`
	DocsURL        string `yaml:"docs_url"`
	DiscordURL     string `yaml:"discord_url"`
	DiscussionsURL string `yaml:"discussions_url"`
	Framework      string `yaml:"framework"`
}

// LabelsConfig holds the label vocabulary the engine reasons about.
type LabelsConfig struct {
	// NeedsTriage lists marker labels, matched case-insensitively.
	NeedsTriage []string `yaml:"needs_triage,omitempty"`

	// TaxonomyPrefixes lists the case-sensitive prefixes of triage labels.
	TaxonomyPrefixes []string `yaml:"taxonomy_prefixes,omitempty"`

	// Priority is the label applied to high-engagement issues.
	Priority string `yaml:"priority"`

	Review ReviewLabels `yaml:"review"`
}

// ReviewLabels maps review assessments to PR labels.
type ReviewLabels struct {
	Approve          string `yaml:"approve"`
	ChangesRequested string `yaml:"changes_requested"`
	NeedsReview      string `yaml:"needs_review"`
}

// TriageConfig configures the issue triage oracle call.
type TriageConfig struct {
	Model              string   `yaml:"model"`
	MaxTokens          int      `yaml:"max_tokens"`
	DefaultMissingInfo []string `yaml:"default_missing_info,omitempty"`
}

// ReviewConfig configures the PR review oracle call.
type ReviewConfig struct {
	Model        string `yaml:"model"`
	MaxTokens    int    `yaml:"max_tokens"`
	MaxDiffChars int    `yaml:"max_diff_chars"`
}

// SweepConfig caps and paces a sweep.
type SweepConfig struct {
	MaxIssues int           `yaml:"max_issues"`
	Delay     time.Duration `yaml:"delay"`
}

// PriorityConfig configures the priority sweep and its thresholds.
type PriorityConfig struct {
	SweepConfig `yaml:",inline"`
	MinUpvotes  int `yaml:"min_upvotes"`
	MinComments int `yaml:"min_comments"`
}

// OracleConfig selects the LLM provider.
type OracleConfig struct {
	// Provider is "anthropic", "gemini" or "openai". Empty resolves from available keys.
	Provider string `yaml:"provider,omitempty"`
}

// PromptsConfig points at an optional directory of system prompt overrides.
type PromptsConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// RelatedConfig configures related-issue hints from the vector store.
type RelatedConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Collection     string  `yaml:"collection"`
	Threshold      float64 `yaml:"threshold"`
	Limit          int     `yaml:"limit"`
	EmbeddingModel string  `yaml:"embedding_model,omitempty"`
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Parse decodes YAML config content after expanding environment variables.
// Defaults are not applied.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		cfg.applyDefaults()
		return cfg, nil
	}

	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}
	parent, err := Parse(parentData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	// Merge: child overrides parent
	merged := mergeConfigs(parent, cfg)
	merged.applyDefaults()

	return merged, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		DefaultPath,
		".github/triagebot.yml",
		".triagebot.yaml",
		".triagebot.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if len(c.Labels.NeedsTriage) == 0 {
		c.Labels.NeedsTriage = []string{"needs triage", "status: needs triage"}
	}
	if len(c.Labels.TaxonomyPrefixes) == 0 {
		c.Labels.TaxonomyPrefixes = []string{"Type:", "Component:", "Resolution:", "Status:"}
	}
	if c.Labels.Priority == "" {
		c.Labels.Priority = "priority: high"
	}
	if c.Labels.Review.Approve == "" {
		c.Labels.Review.Approve = "bot: looks-good"
	}
	if c.Labels.Review.ChangesRequested == "" {
		c.Labels.Review.ChangesRequested = "bot: needs-changes"
	}
	if c.Labels.Review.NeedsReview == "" {
		c.Labels.Review.NeedsReview = "bot: needs-human-review"
	}

	if c.Triage.Model == "" {
		c.Triage.Model = "claude-haiku-4-5"
	}
	if c.Triage.MaxTokens == 0 {
		c.Triage.MaxTokens = 1024
	}
	if c.Triage.DefaultMissingInfo == nil {
		c.Triage.DefaultMissingInfo = []string{
			"Library version",
			"Framework version",
			"Browser and version",
			"Minimal reproduction",
			"Steps to reproduce",
		}
	}

	if c.Review.Model == "" {
		c.Review.Model = "claude-sonnet-4-5"
	}
	if c.Review.MaxTokens == 0 {
		c.Review.MaxTokens = 2048
	}
	if c.Review.MaxDiffChars == 0 {
		c.Review.MaxDiffChars = 8000
	}

	if c.Backlog.MaxIssues == 0 {
		c.Backlog.MaxIssues = 50
	}
	if c.Backlog.Delay == 0 {
		c.Backlog.Delay = 2 * time.Second
	}

	if c.Priority.MaxIssues == 0 {
		c.Priority.MaxIssues = 100
	}
	if c.Priority.Delay == 0 {
		c.Priority.Delay = 500 * time.Millisecond
	}
	if c.Priority.MinUpvotes == 0 {
		c.Priority.MinUpvotes = 5
	}
	if c.Priority.MinComments == 0 {
		c.Priority.MinComments = 10
	}

	if c.Related.Collection == "" {
		c.Related.Collection = "triagebot-issues"
	}
	if c.Related.Threshold == 0 {
		c.Related.Threshold = 0.75
	}
	if c.Related.Limit == 0 {
		c.Related.Limit = 3
	}
	if c.Related.EmbeddingModel == "" {
		c.Related.EmbeddingModel = "gemini-embedding-001"
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent
	result.Extends = ""

	if child.Repository.Owner != "" {
		result.Repository.Owner = child.Repository.Owner
	}
	if child.Repository.Name != "" {
		result.Repository.Name = child.Repository.Name
	}

	mergeString(&result.Library.Name, child.Library.Name)
	mergeString(&result.Library.RepositoryURL, child.Library.RepositoryURL)
	mergeString(&result.Library.DocsURL, child.Library.DocsURL)
	mergeString(&result.Library.DiscordURL, child.Library.DiscordURL)
	mergeString(&result.Library.DiscussionsURL, child.Library.DiscussionsURL)
	mergeString(&result.Library.Framework, child.Library.Framework)

	// Label lists: child completely overrides if non-empty
	if len(child.Labels.NeedsTriage) > 0 {
		result.Labels.NeedsTriage = child.Labels.NeedsTriage
	}
	if len(child.Labels.TaxonomyPrefixes) > 0 {
		result.Labels.TaxonomyPrefixes = child.Labels.TaxonomyPrefixes
	}
	mergeString(&result.Labels.Priority, child.Labels.Priority)
	mergeString(&result.Labels.Review.Approve, child.Labels.Review.Approve)
	mergeString(&result.Labels.Review.ChangesRequested, child.Labels.Review.ChangesRequested)
	mergeString(&result.Labels.Review.NeedsReview, child.Labels.Review.NeedsReview)

	mergeString(&result.Triage.Model, child.Triage.Model)
	mergeInt(&result.Triage.MaxTokens, child.Triage.MaxTokens)
	if child.Triage.DefaultMissingInfo != nil {
		result.Triage.DefaultMissingInfo = child.Triage.DefaultMissingInfo
	}

	mergeString(&result.Review.Model, child.Review.Model)
	mergeInt(&result.Review.MaxTokens, child.Review.MaxTokens)
	mergeInt(&result.Review.MaxDiffChars, child.Review.MaxDiffChars)

	mergeInt(&result.Backlog.MaxIssues, child.Backlog.MaxIssues)
	if child.Backlog.Delay != 0 {
		result.Backlog.Delay = child.Backlog.Delay
	}
	mergeInt(&result.Priority.MaxIssues, child.Priority.MaxIssues)
	if child.Priority.Delay != 0 {
		result.Priority.Delay = child.Priority.Delay
	}
	mergeInt(&result.Priority.MinUpvotes, child.Priority.MinUpvotes)
	mergeInt(&result.Priority.MinComments, child.Priority.MinComments)

	mergeString(&result.Oracle.Provider, child.Oracle.Provider)
	mergeString(&result.Prompts.Dir, child.Prompts.Dir)

	// Related.Enabled: always take the child value so it can switch hints off
	result.Related.Enabled = child.Related.Enabled
	mergeString(&result.Related.Collection, child.Related.Collection)
	if child.Related.Threshold != 0 {
		result.Related.Threshold = child.Related.Threshold
	}
	mergeInt(&result.Related.Limit, child.Related.Limit)
	mergeString(&result.Related.EmbeddingModel, child.Related.EmbeddingModel)

	return &result
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = DefaultPath
	}

	return org, repo, branch, path, nil
}
