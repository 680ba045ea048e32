// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package prompts

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/utils/text"
)

//go:embed defaults/*.md
var defaults embed.FS

// Template file names, shared by the embedded defaults and the override dir.
const (
	IssueTriageFile       = "issue-triage.md"
	PRReviewFile          = "pr-review.md"
	CommentGuidelinesFile = "comment-guidelines.md"
)

const diffTruncationMarker = "\n... (diff truncated)"

// Composer builds oracle requests. System prompts are rendered once at
// construction from the library configuration.
type Composer struct {
	issueSystem  string
	reviewSystem string
	maxDiffChars int
}

// NewComposer loads the system prompt templates and renders them with cfg.
// Files in cfg.Prompts.Dir override the embedded defaults one by one.
func NewComposer(cfg *config.Config) (*Composer, error) {
	guidelines, err := loadTemplate(cfg.Prompts.Dir, CommentGuidelinesFile)
	if err != nil {
		return nil, err
	}
	issue, err := loadTemplate(cfg.Prompts.Dir, IssueTriageFile)
	if err != nil {
		return nil, err
	}
	review, err := loadTemplate(cfg.Prompts.Dir, PRReviewFile)
	if err != nil {
		return nil, err
	}

	vars := Vars(cfg)
	vars["COMMENT_GUIDELINES"] = strings.TrimSpace(guidelines.Render(vars))

	return &Composer{
		issueSystem:  issue.Render(vars),
		reviewSystem: review.Render(vars),
		maxDiffChars: cfg.Review.MaxDiffChars,
	}, nil
}

// Vars returns the placeholder values derived from the configuration.
func Vars(cfg *config.Config) map[string]string {
	repository := cfg.Library.RepositoryURL
	if repository == "" && cfg.Repository.Owner != "" {
		repository = cfg.Repository.Owner + "/" + cfg.Repository.Name
	}
	return map[string]string{
		"LIBRARY_NAME":    cfg.Library.Name,
		"REPOSITORY":      repository,
		"DOCS_URL":        cfg.Library.DocsURL,
		"DISCORD_URL":     cfg.Library.DiscordURL,
		"DISCUSSIONS_URL": cfg.Library.DiscussionsURL,
		"FRAMEWORK":       cfg.Library.Framework,
	}
}

func loadTemplate(dir, name string) (Template, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		switch {
		case err == nil:
			return NewTemplate(string(data)), nil
		case !errors.Is(err, fs.ErrNotExist):
			return Template{}, fmt.Errorf("failed to read prompt %s: %w", name, err)
		}
	}

	data, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		return Template{}, fmt.Errorf("failed to read embedded prompt %s: %w", name, err)
	}
	return NewTemplate(string(data)), nil
}

// IssueSystemPrompt returns the rendered triage system prompt.
func (c *Composer) IssueSystemPrompt() string {
	return c.issueSystem
}

// ReviewSystemPrompt returns the rendered review system prompt.
func (c *Composer) ReviewSystemPrompt() string {
	return c.reviewSystem
}

// IssuePrompt builds the triage request for an issue. Every authoritative
// label is listed verbatim and the oracle is told to use only those strings.
func (c *Composer) IssuePrompt(issue *pipeline.Issue, available []pipeline.Label, related []pipeline.RelatedIssue) string {
	var sb strings.Builder
	sb.WriteString("Analyze this GitHub issue and provide triage labels.\n\n")
	fmt.Fprintf(&sb, "## Issue #%d\n", issue.Number)
	fmt.Fprintf(&sb, "**Title:** %s\n\n", issue.Title)
	fmt.Fprintf(&sb, "**Body:**\n%s\n\n", text.OrDefault(issue.Body, "(No description provided)"))

	current := "None"
	if names := issue.LabelNames(); len(names) > 0 {
		current = strings.Join(names, ", ")
	}
	fmt.Fprintf(&sb, "**Current Labels:** %s\n\n", current)

	if len(related) > 0 {
		sb.WriteString("## Possibly Related Issues\n")
		for _, r := range related {
			fmt.Fprintf(&sb, "- #%d: %s (%s, similarity %.2f)\n", r.Number, r.Title, r.State, r.Similarity)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Available Labels in Repository (USE ONLY THESE EXACT STRINGS):\n")
	for _, l := range available {
		fmt.Fprintf(&sb, "- \"%s\"\n", l.Name)
	}
	sb.WriteString("\n")

	sb.WriteString("IMPORTANT: You MUST only use label names from the list above. ")
	sb.WriteString("Copy the exact string including any prefixes like \"Component: \" or \"Type: \". ")
	sb.WriteString("Do not invent or modify label names.\n\n")
	sb.WriteString("Analyze and respond with JSON only. Remember: \"comment\" should be null unless truly necessary!")
	return sb.String()
}

// ReviewPrompt builds the review request for a pull request. A nil linked
// issue is stated explicitly. The diff is cut at the configured length.
func (c *Composer) ReviewPrompt(pr *pipeline.PullRequest, diff string, linked *pipeline.Issue, files []pipeline.ChangedFile) string {
	var sb strings.Builder
	sb.WriteString("Review this Pull Request.\n\n")
	fmt.Fprintf(&sb, "## PR #%d: %s\n\n", pr.Number, pr.Title)
	fmt.Fprintf(&sb, "**Description:**\n%s\n\n", text.OrDefault(pr.Body, "(No description provided)"))

	fmt.Fprintf(&sb, "**Changed Files (%d):**\n", len(files))
	for _, f := range files {
		fmt.Fprintf(&sb, "- %s (+%d/-%d)\n", f.Filename, f.Additions, f.Deletions)
	}
	sb.WriteString("\n")

	if linked != nil {
		fmt.Fprintf(&sb, "## Linked Issue #%d: %s\n\n", linked.Number, linked.Title)
		fmt.Fprintf(&sb, "**Issue Description:**\n%s\n\n", text.OrDefault(linked.Body, "(No description)"))
	} else {
		sb.WriteString("## No Linked Issue Found\n")
		sb.WriteString("Note: This PR does not reference a specific issue.\n\n")
	}

	sb.WriteString("## Diff (truncated to key changes):\n")
	sb.WriteString("```diff\n")
	sb.WriteString(TruncateDiff(diff, c.maxDiffChars))
	sb.WriteString("\n```\n\n")
	sb.WriteString("Analyze the changes and provide your review as JSON.")
	return sb.String()
}

// TruncateDiff cuts diff to maxChars characters and marks the cut.
func TruncateDiff(diff string, maxChars int) string {
	return text.Truncate(diff, maxChars, diffTruncationMarker)
}
