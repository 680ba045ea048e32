// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package comments

import (
	"strings"
	"testing"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/verdict"
)

func newTestRenderer() *Renderer {
	cfg := config.Default()
	cfg.Library.DiscordURL = "https://discord.gg/widgets"
	cfg.Library.DiscussionsURL = "https://github.com/acme/widgets/discussions"
	return NewRenderer(cfg)
}

func TestNeedsInfo(t *testing.T) {
	r := newTestRenderer()

	got := r.NeedsInfo([]string{"Library version", "Steps to reproduce"})
	want := "Thanks for opening this issue!\n\n" +
		"To help us investigate, could you please provide:\n" +
		"- [ ] Library version\n" +
		"- [ ] Steps to reproduce\n\n" +
		"Without these details, we may not be able to investigate this issue.\n\n" +
		"*This is an automated message. A maintainer will review your issue soon.*"
	if got != want {
		t.Errorf("NeedsInfo() =\n%s\nwant\n%s", got, want)
	}
}

func TestNeedsInfoEmptyListHasNoChecklist(t *testing.T) {
	r := newTestRenderer()
	for _, missing := range [][]string{nil, {}} {
		got := r.NeedsInfo(missing)
		if strings.Contains(got, "- [ ]") {
			t.Errorf("Expected no checklist lines for %v, got:\n%s", missing, got)
		}
	}
}

func TestIntentNeedsInfoDefaults(t *testing.T) {
	r := newTestRenderer()

	body, kind := r.Intent(&verdict.CommentIntent{Kind: verdict.CommentNeedsInfo})
	if kind != KindNeedsInfo {
		t.Errorf("Expected kind %q, got %q", KindNeedsInfo, kind)
	}
	if got := strings.Count(body, "- [ ]"); got != len(config.Default().Triage.DefaultMissingInfo) {
		t.Errorf("Expected default checklist, got %d lines:\n%s", got, body)
	}

	body, _ = r.Intent(&verdict.CommentIntent{Kind: verdict.CommentNeedsInfo, MissingSet: true, Missing: []string{}})
	if strings.Contains(body, "- [ ]") {
		t.Errorf("Explicitly empty missing list should render no checklist:\n%s", body)
	}
}

func TestDuplicate(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"with title", "Crash on load", "This issue appears similar to #12 (Crash on load). Please check"},
		{"without title", "", "This issue appears similar to #12. Please check"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Duplicate(12, tt.title)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Duplicate() missing %q:\n%s", tt.want, got)
			}
			if !strings.HasSuffix(got, "*This is an automated message.*") {
				t.Errorf("Duplicate() missing footer:\n%s", got)
			}
		})
	}
}

func TestQuestionLinks(t *testing.T) {
	got := newTestRenderer().Question()
	for _, want := range []string{
		"- [Discord](https://discord.gg/widgets)",
		"- [GitHub Discussions](https://github.com/acme/widgets/discussions)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Question() missing %q:\n%s", want, got)
		}
	}

	bare := NewRenderer(config.Default()).Question()
	if strings.Contains(bare, "[Discord]") || strings.Contains(bare, "[GitHub Discussions]") {
		t.Errorf("Question() should omit unconfigured links:\n%s", bare)
	}
}

func TestIntentUnknownRendersNothing(t *testing.T) {
	r := newTestRenderer()
	for _, ci := range []*verdict.CommentIntent{nil, {Kind: verdict.CommentUnknown, RawType: "thank-you"}} {
		if body, kind := r.Intent(ci); body != "" || kind != "" {
			t.Errorf("Intent(%v) = %q/%q, want empty", ci, body, kind)
		}
	}
}

func TestReviewChangesRequestedSections(t *testing.T) {
	r := newTestRenderer()
	rv := &verdict.Review{
		Assessment:     verdict.AssessmentChangesRequested,
		Summary:        "Adds a date picker option",
		Concerns:       []string{"Missing tests", "Breaks SSR"},
		HasLinkedIssue: true,
	}

	body, kind := r.Review(rv)
	if kind != KindChangesRequested {
		t.Errorf("Expected kind %q, got %q", KindChangesRequested, kind)
	}

	want := "## AI Code Review\n\n" +
		"**Changes Suggested**\n\n" +
		"### Summary\nAdds a date picker option\n\n" +
		"### Concerns\n- Missing tests\n- Breaks SSR\n\n" +
		"---\n*This is an automated review. A maintainer will provide final approval.*"
	if body != want {
		t.Errorf("Review() =\n%s\nwant\n%s", body, want)
	}
	if strings.Contains(body, "### Suggestions") {
		t.Error("Empty suggestions must not render a heading")
	}
}

func TestReviewNeedsHumanDefaultReason(t *testing.T) {
	r := newTestRenderer()
	body, kind := r.Review(&verdict.Review{
		Assessment:     verdict.AssessmentNeedsReview,
		Summary:        "Large refactor",
		HasLinkedIssue: true,
	})
	if kind != KindNeedsHuman {
		t.Errorf("Expected kind %q, got %q", KindNeedsHuman, kind)
	}
	if !strings.Contains(body, "### Why Human Review Needed\n- Complex changes requiring careful evaluation") {
		t.Errorf("Expected default human review reason:\n%s", body)
	}
	if strings.Contains(body, "### Initial Observations") {
		t.Errorf("Empty observations must not render a heading:\n%s", body)
	}
	if !strings.HasSuffix(body, "*This PR requires careful review due to its scope. A maintainer will evaluate.*") {
		t.Errorf("Expected needs-human footer:\n%s", body)
	}
}

// TestReviewUnknownAssessmentFailsOpen covers the fail-open policy: an
// unrecognised assessment renders the approve template.
func TestReviewUnknownAssessmentFailsOpen(t *testing.T) {
	r := newTestRenderer()
	rv := &verdict.Review{Assessment: verdict.AssessmentUnknown, RawAssessment: "lgtm", Summary: "ok", HasLinkedIssue: true}

	body, kind := r.Review(rv)
	approve, _ := r.Review(&verdict.Review{Assessment: verdict.AssessmentApprove, Summary: "ok", HasLinkedIssue: true})
	if kind != KindApprove || body != approve {
		t.Errorf("Unknown assessment should render approve-style, got kind %q:\n%s", kind, body)
	}
}

func TestReviewNoLinkedIssueAddendum(t *testing.T) {
	r := newTestRenderer()
	for _, a := range []verdict.Assessment{
		verdict.AssessmentApprove,
		verdict.AssessmentChangesRequested,
		verdict.AssessmentNeedsReview,
		verdict.AssessmentUnknown,
	} {
		t.Run(string(a), func(t *testing.T) {
			body, _ := r.Review(&verdict.Review{Assessment: a, Summary: "s"})
			if !strings.HasSuffix(body, "\n\n"+r.NoLinkedIssue()) {
				t.Errorf("Expected no-linked-issue addendum:\n%s", body)
			}

			linked, _ := r.Review(&verdict.Review{Assessment: a, Summary: "s", HasLinkedIssue: true})
			if strings.Contains(linked, "### No Linked Issue") {
				t.Errorf("Addendum must be absent when an issue is linked:\n%s", linked)
			}
		})
	}
}
