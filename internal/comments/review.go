// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package comments

import (
	"strings"

	"github.com/similigh/triagebot/internal/verdict"
)

// section renders "### heading\nbody", or "" when body is empty.
func section(heading, body string) string {
	if body == "" {
		return ""
	}
	return "### " + heading + "\n" + body
}

// bullets renders items as a markdown list, or "" when there are none.
func bullets(items []string) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// join concatenates the non-empty blocks with blank lines between them.
func join(blocks ...string) string {
	var kept []string
	for _, b := range blocks {
		if b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}

func reviewHeader(verdictLine string) string {
	return "## AI Code Review\n\n**" + verdictLine + "**"
}

// ReviewApprove renders the approve template.
func (r *Renderer) ReviewApprove(rv *verdict.Review) string {
	return join(
		reviewHeader("Looks Good"),
		section("Summary", rv.Summary),
		section("Issue Alignment", rv.IssueAlignment),
		section("Notes", bullets(rv.Notes)),
		reviewFooter,
	)
}

// ReviewChangesRequested renders the changes-requested template.
func (r *Renderer) ReviewChangesRequested(rv *verdict.Review) string {
	return join(
		reviewHeader("Changes Suggested"),
		section("Summary", rv.Summary),
		section("Issue Alignment", rv.IssueAlignment),
		section("Concerns", bullets(rv.Concerns)),
		section("Suggestions", bullets(rv.Suggestions)),
		reviewFooter,
	)
}

// ReviewNeedsHuman renders the needs-human template.
func (r *Renderer) ReviewNeedsHuman(rv *verdict.Review) string {
	reasons := rv.HumanReviewReasons
	if len(reasons) == 0 {
		reasons = []string{defaultHumanReason}
	}
	return join(
		reviewHeader("Needs Human Review"),
		section("Summary", rv.Summary),
		section("Issue Alignment", rv.IssueAlignment),
		section("Why Human Review Needed", bullets(reasons)),
		section("Initial Observations", bullets(rv.Observations)),
		needsHumanFooter,
	)
}

// NoLinkedIssue is the addendum for PRs that reference no issue.
func (r *Renderer) NoLinkedIssue() string {
	return noLinkedIssueHeader + "\n\n" +
		"This PR doesn't reference a GitHub issue. Please consider:\n" +
		"- Linking to an existing issue with `Fixes #xxx` or `Closes #xxx`\n" +
		"- Creating an issue first to document the problem/feature\n\n" +
		"This helps us track changes and maintain a clear history."
}

// Review selects the template for rv.Assessment and appends the no-linked-issue
// addendum when rv.HasLinkedIssue is false. Unknown assessments render approve-style.
func (r *Renderer) Review(rv *verdict.Review) (body, kind string) {
	switch rv.Assessment {
	case verdict.AssessmentApprove:
		body, kind = r.ReviewApprove(rv), KindApprove
	case verdict.AssessmentChangesRequested:
		body, kind = r.ReviewChangesRequested(rv), KindChangesRequested
	case verdict.AssessmentNeedsReview:
		body, kind = r.ReviewNeedsHuman(rv), KindNeedsHuman
	case verdict.AssessmentUnknown:
		body, kind = r.ReviewApprove(rv), KindApprove
	default:
		body, kind = r.ReviewApprove(rv), KindApprove
	}

	if !rv.HasLinkedIssue {
		body += "\n\n" + r.NoLinkedIssue()
	}
	return body, kind
}
