// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package comments renders comment intents into the markdown posted on issues and PRs.
package comments

import (
	"fmt"
	"strings"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/verdict"
)

const (
	automatedFooter     = "*This is an automated message.*"
	reviewFooter        = "---\n*This is an automated review. A maintainer will provide final approval.*"
	needsHumanFooter    = "---\n*This PR requires careful review due to its scope. A maintainer will evaluate.*"
	defaultHumanReason  = "Complex changes requiring careful evaluation"
	noLinkedIssueHeader = "### No Linked Issue"
)

// Template kinds reported alongside a rendered comment.
const (
	KindNeedsInfo        = "needs-info"
	KindDuplicate        = "duplicate"
	KindQuestion         = "question"
	KindCustom           = "custom"
	KindApprove          = "approve"
	KindChangesRequested = "changes-requested"
	KindNeedsHuman       = "needs-human"
)

// Renderer renders comment templates. It is pure and safe for concurrent use.
type Renderer struct {
	library        config.LibraryConfig
	defaultMissing []string
}

// NewRenderer creates a renderer bound to the given configuration.
func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{
		library:        cfg.Library,
		defaultMissing: cfg.Triage.DefaultMissingInfo,
	}
}

// NeedsInfo asks the author for the missing items. An empty list renders no checklist.
func (r *Renderer) NeedsInfo(missing []string) string {
	var sb strings.Builder
	sb.WriteString("Thanks for opening this issue!\n\n")
	sb.WriteString("To help us investigate, could you please provide:")
	for _, item := range missing {
		sb.WriteString("\n- [ ] ")
		sb.WriteString(item)
	}
	sb.WriteString("\n\nWithout these details, we may not be able to investigate this issue.\n\n")
	sb.WriteString("*This is an automated message. A maintainer will review your issue soon.*")
	return sb.String()
}

// Duplicate points the author at a possibly duplicate issue.
func (r *Renderer) Duplicate(number int, title string) string {
	ref := fmt.Sprintf("#%d", number)
	if title != "" {
		ref += fmt.Sprintf(" (%s)", title)
	}

	var sb strings.Builder
	sb.WriteString("Thanks for reporting this!\n\n")
	fmt.Fprintf(&sb, "This issue appears similar to %s. Please check if that issue describes your problem.\n\n", ref)
	sb.WriteString("- If **yes**, please add a thumbs up to that issue instead\n")
	sb.WriteString("- If **no**, please clarify how your issue differs\n\n")
	sb.WriteString(automatedFooter)
	return sb.String()
}

// Question redirects usage questions to the community channels that are configured.
func (r *Renderer) Question() string {
	var sb strings.Builder
	sb.WriteString("Hi there!\n\n")
	sb.WriteString("This looks like a usage question rather than a bug report. For questions, you'll get faster help on:")
	if r.library.DiscordURL != "" {
		fmt.Fprintf(&sb, "\n- [Discord](%s)", r.library.DiscordURL)
	}
	if r.library.DiscussionsURL != "" {
		fmt.Fprintf(&sb, "\n- [GitHub Discussions](%s)", r.library.DiscussionsURL)
	}
	sb.WriteString("\n\nIf this is actually a bug, please update with reproduction steps.\n\n")
	sb.WriteString(automatedFooter)
	return sb.String()
}

// Custom returns the oracle-authored message as is.
func (r *Renderer) Custom(message string) string {
	return message
}

// Intent renders a triage comment intent. It returns "" for a nil or
// unrecognised intent.
func (r *Renderer) Intent(ci *verdict.CommentIntent) (body, kind string) {
	if ci == nil {
		return "", ""
	}
	switch ci.Kind {
	case verdict.CommentNeedsInfo:
		missing := ci.Missing
		if !ci.MissingSet {
			missing = r.defaultMissing
		}
		return r.NeedsInfo(missing), KindNeedsInfo
	case verdict.CommentDuplicate:
		return r.Duplicate(ci.IssueNumber, ci.IssueTitle), KindDuplicate
	case verdict.CommentQuestion:
		return r.Question(), KindQuestion
	case verdict.CommentCustom:
		return r.Custom(ci.Message), KindCustom
	case verdict.CommentUnknown:
		return "", ""
	default:
		return "", ""
	}
}
