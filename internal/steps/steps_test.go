// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-cmp/cmp"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/verdict"
)

// recordingHost records mutations and fails the ones named in failOn.
type recordingHost struct {
	pipeline.HostAPI
	calls  []string
	failOn map[string]bool
}

func (h *recordingHost) do(kind string, format string, args ...any) error {
	h.calls = append(h.calls, fmt.Sprintf(format, args...))
	if h.failOn[kind] {
		return fmt.Errorf("%s failed", kind)
	}
	return nil
}

func (h *recordingHost) AddLabels(_ context.Context, _, _ string, number int, labels []string) error {
	return h.do("add", "add #%d %s", number, strings.Join(labels, ","))
}

func (h *recordingHost) CreateComment(_ context.Context, _, _ string, number int, _ string) error {
	return h.do("comment", "comment #%d", number)
}

func (h *recordingHost) RemoveLabel(_ context.Context, _, _ string, number int, label string) error {
	return h.do("remove", "remove #%d %s", number, label)
}

func issueContext(ctx context.Context, labels ...string) *pipeline.Context {
	issue := &pipeline.Issue{Org: "acme", Repo: "widgets", Number: 7}
	for _, l := range labels {
		issue.Labels = append(issue.Labels, pipeline.Label{Name: l})
	}
	return pipeline.NewContext(ctx, issue, config.Default())
}

func fullPlan() *pipeline.Plan {
	return &pipeline.Plan{
		AddLabels:   []string{"Type: Bug"},
		Comment:     "Thanks!",
		CommentKind: "question",
		RemoveLabel: "needs triage",
	}
}

func TestActionExecutorOrder(t *testing.T) {
	host := &recordingHost{}
	pctx := issueContext(context.Background())
	pctx.Plan = fullPlan()

	if err := NewActionExecutor(&pipeline.Dependencies{GitHub: host}).Run(pctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"add #7 Type: Bug", "comment #7", "remove #7 needs triage"}
	if diff := cmp.Diff(want, host.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !pctx.Result.CommentPosted || !pctx.Result.MarkerRemoved || len(pctx.Result.LabelsApplied) != 1 {
		t.Errorf("result = %+v", pctx.Result)
	}
}

func TestActionExecutorFailureKeepsMarker(t *testing.T) {
	tests := []struct {
		failOn string
		want   []string
	}{
		{"add", []string{"add #7 Type: Bug"}},
		{"comment", []string{"add #7 Type: Bug", "comment #7"}},
	}

	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			host := &recordingHost{failOn: map[string]bool{tt.failOn: true}}
			pctx := issueContext(context.Background())
			pctx.Plan = fullPlan()

			if err := NewActionExecutor(&pipeline.Dependencies{GitHub: host}).Run(pctx); err == nil {
				t.Fatal("Run() should fail")
			}
			if diff := cmp.Diff(tt.want, host.calls); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
			if pctx.Result.MarkerRemoved {
				t.Error("marker must stay when an earlier mutation failed")
			}
		})
	}
}

func TestActionExecutorDryRun(t *testing.T) {
	var logs bytes.Buffer
	ctx := clog.WithLogger(context.Background(), clog.New(slog.NewTextHandler(&logs, nil)))

	host := &recordingHost{}
	pctx := issueContext(ctx)
	pctx.Plan = fullPlan()

	if err := NewActionExecutor(&pipeline.Dependencies{GitHub: host, DryRun: true}).Run(pctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(host.calls) != 0 {
		t.Errorf("dry run mutated: %v", host.calls)
	}
	if diff := cmp.Diff([]string{"Type: Bug"}, pctx.Result.Labels); diff != "" {
		t.Errorf("planned labels mismatch (-want +got):\n%s", diff)
	}
	if got := strings.Count(logs.String(), "DRY RUN"); got != 3 {
		t.Errorf("logged %d dry-run lines, want 3:\n%s", got, logs.String())
	}
}

func TestActionExecutorEmptyPlan(t *testing.T) {
	host := &recordingHost{}
	pctx := issueContext(context.Background())
	pctx.Plan = &pipeline.Plan{}

	if err := NewActionExecutor(&pipeline.Dependencies{GitHub: host}).Run(pctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(host.calls) != 0 {
		t.Errorf("empty plan mutated: %v", host.calls)
	}
}

func TestGatekeeper(t *testing.T) {
	tests := []struct {
		name       string
		labels     []string
		wantSkip   bool
		wantMarker string
	}{
		{"fresh issue", nil, false, ""},
		{"marker with taxonomy", []string{"Type: Bug", "Needs Triage"}, false, "Needs Triage"},
		{"already triaged", []string{"Component: Table"}, true, ""},
		{"lowercase prefix is not taxonomy", []string{"type: bug"}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pctx := issueContext(context.Background(), tt.labels...)
			err := NewGatekeeper(nil).Run(pctx)
			if got := errors.Is(err, pipeline.ErrSkipPipeline); got != tt.wantSkip {
				t.Fatalf("skip = %v (err %v), want %v", got, err, tt.wantSkip)
			}
			if pctx.MarkerLabel != tt.wantMarker {
				t.Errorf("MarkerLabel = %q, want %q", pctx.MarkerLabel, tt.wantMarker)
			}
		})
	}
}

func TestTriageRouterReconcilesAndWarns(t *testing.T) {
	var logs bytes.Buffer
	ctx := clog.WithLogger(context.Background(), clog.New(slog.NewTextHandler(&logs, nil)))

	pctx := issueContext(ctx, "needs triage")
	pctx.Labels = []pipeline.Label{{Name: "Type: Bug"}, {Name: "needs triage"}}
	pctx.MarkerLabel = "needs triage"
	pctx.Triage = &verdict.Triage{
		Labels:  []string{"TYPE: BUG", "Invented", "Also Invented"},
		Comment: &verdict.CommentIntent{Kind: verdict.CommentUnknown, RawType: "praise"},
	}

	if err := NewTriageRouter(&pipeline.Dependencies{Config: config.Default()}).Run(pctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := &pipeline.Plan{AddLabels: []string{"Type: Bug"}, RemoveLabel: "needs triage"}
	if diff := cmp.Diff(want, pctx.Plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Type: Bug"}, pctx.Triage.Labels); diff != "" {
		t.Errorf("verdict labels not reconciled (-want +got):\n%s", diff)
	}

	out := logs.String()
	if got := strings.Count(out, "not found in repository"); got != 2 {
		t.Errorf("logged %d rejections, want 2:\n%s", got, out)
	}
	if !strings.Contains(out, `Unknown comment type \"praise\"`) && !strings.Contains(out, `Unknown comment type "praise"`) {
		t.Errorf("missing unknown comment warning:\n%s", out)
	}
}

func TestPriorityGate(t *testing.T) {
	pctx := issueContext(context.Background(), "PRIORITY: HIGH")
	if err := NewPriorityGate(nil).Run(pctx); !errors.Is(err, pipeline.ErrSkipPipeline) {
		t.Fatalf("Run() = %v, want skip", err)
	}
	if pctx.Result.SkipReason != "already prioritized" {
		t.Errorf("SkipReason = %q", pctx.Result.SkipReason)
	}

	if err := NewPriorityGate(nil).Run(issueContext(context.Background())); err != nil {
		t.Errorf("Run() on unlabeled issue = %v", err)
	}
}

func TestPointIDStable(t *testing.T) {
	a := PointID("acme", "widgets", 12)
	if a != PointID("acme", "widgets", 12) {
		t.Error("PointID is not deterministic")
	}
	if a == PointID("acme", "widgets", 13) || a == PointID("acme", "gadgets", 12) {
		t.Error("PointID collides across issues")
	}
}
