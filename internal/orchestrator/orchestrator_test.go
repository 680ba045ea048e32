// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/core/sweep"
	"github.com/similigh/triagebot/internal/integrations/llm"
	"github.com/similigh/triagebot/internal/integrations/qdrant"
	"github.com/similigh/triagebot/internal/verdict"
)

const (
	org  = "acme"
	repo = "widgets"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Library.Name = "Widgets"
	cfg.Backlog.Delay = 0
	cfg.Priority.Delay = 0
	return cfg
}

func repoLabels() []pipeline.Label {
	return []pipeline.Label{
		{Name: "Type: Bug"},
		{Name: "Component: Table"},
		{Name: "needs triage"},
		{Name: "priority: high"},
		{Name: "bot: looks-good"},
	}
}

func issue(number int, labels ...string) *pipeline.Issue {
	i := &pipeline.Issue{Org: org, Repo: repo, Number: number, Title: "Issue title", Body: "Something broke", State: "open"}
	for _, l := range labels {
		i.Labels = append(i.Labels, pipeline.Label{Name: l})
	}
	return i
}

const needsInfoVerdict = "```json\n" + `{
  "labels": ["type: bug", "Made Up"],
  "comment": {"type": "needs-info", "missing": ["Library version"]},
  "confidence": 0.9,
  "reasoning": "crash report without a version"
}` + "\n```"

func newEngine(host *fakeHost, oracle llm.Oracle, dryRun bool) *Engine {
	return New(&pipeline.Dependencies{
		GitHub: host,
		Oracle: oracle,
		Config: testConfig(),
		DryRun: dryRun,
	}, org, repo)
}

func TestTriageIssueLive(t *testing.T) {
	host := newFakeHost()
	host.labels = repoLabels()
	oracle := &scriptedOracle{responses: map[string]string{"## Issue #101\n": needsInfoVerdict}}

	result, err := newEngine(host, oracle, false).TriageIssue(context.Background(), issue(101, "Needs Triage"))
	if err != nil {
		t.Fatalf("TriageIssue: %v", err)
	}

	want := []string{
		"add #101 Type: Bug",
		"comment #101",
		"remove #101 Needs Triage",
	}
	if diff := cmp.Diff(want, host.mutations); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
	if !result.CommentPosted || !result.MarkerRemoved {
		t.Errorf("result = %+v", result)
	}
	if result.CommentKind != "needs-info" || !strings.Contains(result.Comment, "- [ ] Library version") {
		t.Errorf("unexpected comment %q (%s)", result.Comment, result.CommentKind)
	}
	if diff := cmp.Diff([]string{llm.PurposeTriage}, oracle.purposes); diff != "" {
		t.Errorf("oracle purposes mismatch (-want +got):\n%s", diff)
	}
}

func TestTriageIssueDryRunParity(t *testing.T) {
	run := func(dryRun bool) (*pipeline.Result, *fakeHost) {
		host := newFakeHost()
		host.labels = repoLabels()
		oracle := &scriptedOracle{responses: map[string]string{"## Issue #101\n": needsInfoVerdict}}
		result, err := newEngine(host, oracle, dryRun).TriageIssue(context.Background(), issue(101, "needs triage"))
		if err != nil {
			t.Fatalf("TriageIssue(dryRun=%v): %v", dryRun, err)
		}
		return result, host
	}

	live, _ := run(false)
	dry, dryHost := run(true)
	again, _ := run(true)

	if len(dryHost.mutations) != 0 {
		t.Errorf("dry run mutated: %v", dryHost.mutations)
	}
	planned := func(r *pipeline.Result) []string {
		return append([]string{r.CommentKind, r.Comment}, r.Labels...)
	}
	if diff := cmp.Diff(planned(live), planned(dry)); diff != "" {
		t.Errorf("dry run plan differs from live (-live +dry):\n%s", diff)
	}
	if diff := cmp.Diff(dry, again); diff != "" {
		t.Errorf("dry run not idempotent (-first +second):\n%s", diff)
	}
}

func TestTriageIssueSkips(t *testing.T) {
	tests := []struct {
		name   string
		issue  *pipeline.Issue
		reason string
	}{
		{"already triaged", issue(7, "Type: Bug"), "already triaged"},
		{"pull request", &pipeline.Issue{Org: org, Repo: repo, Number: 8, IsPullRequest: true}, "pull request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost()
			oracle := &scriptedOracle{}
			result, err := newEngine(host, oracle, false).TriageIssue(context.Background(), tt.issue)
			if err != nil {
				t.Fatalf("TriageIssue: %v", err)
			}
			if !result.Skipped || result.SkipReason != tt.reason {
				t.Errorf("result = %+v, want skip %q", result, tt.reason)
			}
			if oracle.calls != 0 || len(host.mutations) != 0 || host.labelFetches != 0 {
				t.Errorf("skipped issue touched collaborators: calls=%d mutations=%v fetches=%d",
					oracle.calls, host.mutations, host.labelFetches)
			}
		})
	}
}

func TestTriageIssuePropagatesParseFailure(t *testing.T) {
	host := newFakeHost()
	host.labels = repoLabels()
	oracle := &scriptedOracle{responses: map[string]string{"## Issue #5\n": "I cannot help with that."}}

	_, err := newEngine(host, oracle, false).TriageIssue(context.Background(), issue(5))
	if !errors.Is(err, verdict.ErrNoJSON) {
		t.Fatalf("TriageIssue() error = %v, want ErrNoJSON", err)
	}
	if len(host.mutations) != 0 {
		t.Errorf("failed item mutated: %v", host.mutations)
	}
}

func TestTriageBacklogIsolatesFailures(t *testing.T) {
	host := newFakeHost()
	host.labels = repoLabels()
	host.issues = []*pipeline.Issue{
		issue(1),
		issue(2, "Type: Bug"),
		issue(3, "needs triage"),
		issue(4),
	}
	oracle := &scriptedOracle{responses: map[string]string{
		"## Issue #1\n": `{"labels": ["Component: Table"], "comment": null}`,
		"## Issue #3\n": "not json at all",
		"## Issue #4\n": `{"labels": [], "comment": {"type": "question"}}`,
	}}

	summary, err := newEngine(host, oracle, false).TriageBacklog(context.Background(), 5)
	if err != nil {
		t.Fatalf("TriageBacklog: %v", err)
	}

	if summary.Total != 3 || summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %s", summary)
	}
	outcomes := map[int]sweep.Outcome{}
	for _, item := range summary.Items {
		outcomes[item.Number] = item.Outcome
	}
	if diff := cmp.Diff(map[int]sweep.Outcome{1: sweep.Success, 3: sweep.Error, 4: sweep.Success}, outcomes); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
	if host.labelFetches != 1 {
		t.Errorf("label set fetched %d times, want once per sweep", host.labelFetches)
	}

	want := []string{
		"add #1 Component: Table",
		"comment #4",
	}
	if diff := cmp.Diff(want, host.mutations); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
}

func TestTriageBacklogCapsCandidates(t *testing.T) {
	host := newFakeHost()
	host.labels = repoLabels()
	host.issues = []*pipeline.Issue{issue(1), issue(2), issue(3)}
	oracle := &scriptedOracle{responses: map[string]string{"## Issue #": `{"labels": []}`}}

	summary, err := newEngine(host, oracle, true).TriageBacklog(context.Background(), 2)
	if err != nil {
		t.Fatalf("TriageBacklog: %v", err)
	}
	if summary.Total != 2 || oracle.calls != 2 {
		t.Errorf("summary = %s, oracle calls = %d", summary, oracle.calls)
	}
}

func TestReviewPR(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantAddendum  bool
		wantMutations []string
	}{
		{
			name:          "linked issue resolved",
			body:          "Fixes #42",
			wantMutations: []string{"add #5 bot: looks-good", "comment #5"},
		},
		{
			name:          "linked issue fetch fails",
			body:          "Closes #999",
			wantAddendum:  true,
			wantMutations: []string{"add #5 bot: looks-good", "comment #5"},
		},
		{
			name:          "no reference",
			body:          "Refactor",
			wantAddendum:  true,
			wantMutations: []string{"add #5 bot: looks-good", "comment #5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost()
			host.issues = []*pipeline.Issue{issue(42)}
			host.prs[5] = &pipeline.PullRequest{Org: org, Repo: repo, Number: 5, Title: "Fix sort", Body: tt.body}
			host.diffs[5] = "diff --git a/table.ts b/table.ts"
			host.files[5] = []pipeline.ChangedFile{{Filename: "table.ts", Additions: 3, Deletions: 1}}
			oracle := &scriptedOracle{responses: map[string]string{
				"## PR #5:": `{"assessment": "approve", "summary": "Looks right.", "hasLinkedIssue": true}`,
			}}

			result, err := newEngine(host, oracle, false).ReviewPR(context.Background(), 5)
			if err != nil {
				t.Fatalf("ReviewPR: %v", err)
			}
			if diff := cmp.Diff(tt.wantMutations, host.mutations); diff != "" {
				t.Errorf("mutations mismatch (-want +got):\n%s", diff)
			}
			if got := strings.Contains(result.Comment, "No Linked Issue"); got != tt.wantAddendum {
				t.Errorf("addendum present = %v, want %v:\n%s", got, tt.wantAddendum, result.Comment)
			}
		})
	}
}

func TestReviewPRUnknownAssessmentFailsOpen(t *testing.T) {
	host := newFakeHost()
	host.prs[6] = &pipeline.PullRequest{Org: org, Repo: repo, Number: 6, Title: "Chore"}
	oracle := &scriptedOracle{responses: map[string]string{
		"## PR #6:": `{"assessment": "ship-it", "summary": "Fine."}`,
	}}

	result, err := newEngine(host, oracle, false).ReviewPR(context.Background(), 6)
	if err != nil {
		t.Fatalf("ReviewPR: %v", err)
	}
	if diff := cmp.Diff([]string{"comment #6"}, host.mutations); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
	if result.Comment == "" {
		t.Error("unknown assessment must still render a comment")
	}
}

func TestPrioritizeIssues(t *testing.T) {
	host := newFakeHost()
	host.issues = []*pipeline.Issue{
		issue(1, "Priority: High"),
		issue(2),
		issue(3),
		issue(4),
	}
	host.reactions[2] = []string{"+1", "+1", "+1", "heart", "rocket", "+1"}
	host.comments[3] = 12
	host.reactions[4] = []string{"eyes", "-1"}

	summary, err := newEngine(host, &scriptedOracle{}, false).PrioritizeIssues(context.Background(), 10)
	if err != nil {
		t.Fatalf("PrioritizeIssues: %v", err)
	}

	if summary.Skipped != 1 || summary.Succeeded != 3 {
		t.Errorf("summary = %s", summary)
	}
	if diff := cmp.Diff([]int{2, 3, 4}, host.engagementFetches); diff != "" {
		t.Errorf("engagement fetched for (-want +got):\n%s", diff)
	}
	want := []string{"add #2 priority: high", "add #3 priority: high"}
	if diff := cmp.Diff(want, host.mutations); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}

	reasons := map[int]string{}
	for _, item := range summary.Items {
		if item.Result != nil {
			reasons[item.Number] = item.Result.PriorityReason
		}
	}
	if diff := cmp.Diff(map[int]string{2: "6 upvotes", 3: "12 comments", 4: ""}, reasons); diff != "" {
		t.Errorf("reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexIssues(t *testing.T) {
	host := newFakeHost()
	host.issues = []*pipeline.Issue{issue(1), issue(2)}
	store := newFakeStore()

	cfg := testConfig()
	engine := New(&pipeline.Dependencies{
		GitHub:      host,
		Embedder:    fakeEmbedder{},
		VectorStore: store,
		Config:      cfg,
	}, org, repo)

	summary, err := engine.IndexIssues(context.Background(), 5)
	if err != nil {
		t.Fatalf("IndexIssues: %v", err)
	}
	if summary.Succeeded != 2 {
		t.Errorf("summary = %s", summary)
	}
	if store.collections[cfg.Related.Collection] != 2 {
		t.Errorf("collection not created with embedder dimensions: %v", store.collections)
	}
	if len(store.points) != 2 {
		t.Errorf("indexed %d points, want 2", len(store.points))
	}

	// Reindexing replaces points instead of duplicating them.
	if _, err := engine.IndexIssues(context.Background(), 5); err != nil {
		t.Fatalf("IndexIssues again: %v", err)
	}
	if len(store.points) != 2 {
		t.Errorf("reindex produced %d points, want 2", len(store.points))
	}
}

func TestIndexIssuesRequiresStore(t *testing.T) {
	engine := New(&pipeline.Dependencies{GitHub: newFakeHost(), Config: testConfig()}, org, repo)
	if _, err := engine.IndexIssues(context.Background(), 1); err == nil {
		t.Error("IndexIssues without a store should fail")
	}
}

func TestRelatedIssuesFeedPrompt(t *testing.T) {
	host := newFakeHost()
	host.labels = repoLabels()
	store := newFakeStore()
	store.hits = []*qdrant.IssueHit{
		{Number: 101, Title: "self", Score: 0.99},
		{Number: 12, Title: "Sort crashes", State: "closed", Score: 0.91},
	}

	var prompt string
	oracle := llm.OracleFunc(func(_ context.Context, _, user string, _ llm.CallOptions) (string, error) {
		prompt = user
		return `{"labels": [], "comment": {"type": "duplicate", "issueNumber": 12}}`, nil
	})

	cfg := testConfig()
	cfg.Related.Enabled = true
	engine := New(&pipeline.Dependencies{
		GitHub:      host,
		Oracle:      oracle,
		Embedder:    fakeEmbedder{},
		VectorStore: store,
		Config:      cfg,
		DryRun:      true,
	}, org, repo)

	result, err := engine.TriageIssue(context.Background(), issue(101))
	if err != nil {
		t.Fatalf("TriageIssue: %v", err)
	}
	if !strings.Contains(prompt, "- #12: Sort crashes (closed, similarity 0.91)") {
		t.Errorf("prompt missing related issue:\n%s", prompt)
	}
	if strings.Contains(prompt, "#101: self") {
		t.Error("prompt should not list the issue itself")
	}
	if !strings.Contains(result.Comment, "Sort crashes") {
		t.Errorf("duplicate comment should name the original:\n%s", result.Comment)
	}
}
