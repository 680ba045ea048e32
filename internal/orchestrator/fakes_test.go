package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/integrations/llm"
	"github.com/similigh/triagebot/internal/integrations/qdrant"
)

var errNotFound = errors.New("not found")

// fakeHost is an in-memory repository host that records every mutation
// in call order.
type fakeHost struct {
	mu sync.Mutex

	issues    []*pipeline.Issue
	prs       map[int]*pipeline.PullRequest
	diffs     map[int]string
	files     map[int][]pipeline.ChangedFile
	reactions map[int][]string
	comments  map[int]int
	labels    []pipeline.Label

	labelFetches      int
	engagementFetches []int
	mutations         []string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		prs:       map[int]*pipeline.PullRequest{},
		diffs:     map[int]string{},
		files:     map[int][]pipeline.ChangedFile{},
		reactions: map[int][]string{},
		comments:  map[int]int{},
	}
}

func (f *fakeHost) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = append(f.mutations, fmt.Sprintf(format, args...))
}

func (f *fakeHost) GetIssue(_ context.Context, _, _ string, number int) (*pipeline.Issue, error) {
	for _, issue := range f.issues {
		if issue.Number == number {
			return issue, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeHost) ListOpenIssues(_ context.Context, _, _ string, limit int) ([]*pipeline.Issue, error) {
	out := f.issues
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeHost) GetPullRequest(_ context.Context, _, _ string, number int) (*pipeline.PullRequest, error) {
	pr, ok := f.prs[number]
	if !ok {
		return nil, errNotFound
	}
	return pr, nil
}

func (f *fakeHost) GetPullRequestDiff(_ context.Context, _, _ string, number int) (string, error) {
	return f.diffs[number], nil
}

func (f *fakeHost) ListPullRequestFiles(_ context.Context, _, _ string, number int) ([]pipeline.ChangedFile, error) {
	return f.files[number], nil
}

func (f *fakeHost) ListIssueReactions(_ context.Context, _, _ string, number int) ([]string, error) {
	f.mu.Lock()
	f.engagementFetches = append(f.engagementFetches, number)
	f.mu.Unlock()
	return f.reactions[number], nil
}

func (f *fakeHost) CountIssueComments(_ context.Context, _, _ string, number int) (int, error) {
	return f.comments[number], nil
}

func (f *fakeHost) ListRepositoryLabels(context.Context, string, string) ([]pipeline.Label, error) {
	f.mu.Lock()
	f.labelFetches++
	f.mu.Unlock()
	return f.labels, nil
}

func (f *fakeHost) AddLabels(_ context.Context, _, _ string, number int, labels []string) error {
	f.record("add #%d %s", number, strings.Join(labels, ","))
	return nil
}

func (f *fakeHost) RemoveLabel(_ context.Context, _, _ string, number int, label string) error {
	f.record("remove #%d %s", number, label)
	return nil
}

func (f *fakeHost) CreateComment(_ context.Context, _, _ string, number int, _ string) error {
	f.record("comment #%d", number)
	return nil
}

// scriptedOracle answers with the first response whose key occurs in the
// user prompt.
type scriptedOracle struct {
	mu        sync.Mutex
	responses map[string]string
	calls     int
	purposes  []string
}

func (o *scriptedOracle) Complete(_ context.Context, _, user string, opts llm.CallOptions) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	o.purposes = append(o.purposes, opts.Purpose)
	for key, resp := range o.responses {
		if strings.Contains(user, key) {
			return resp, nil
		}
	}
	return "", fmt.Errorf("%w: no scripted response", llm.ErrOracle)
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (fakeEmbedder) Dimensions() int { return 2 }

type fakeStore struct {
	collections map[string]int
	points      map[string]*qdrant.IssuePoint
	hits        []*qdrant.IssueHit
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: map[string]int{}, points: map[string]*qdrant.IssuePoint{}}
}

func (s *fakeStore) EnsureCollection(_ context.Context, name string, dimension int) error {
	s.collections[name] = dimension
	return nil
}

func (s *fakeStore) UpsertIssues(_ context.Context, _ string, points []*qdrant.IssuePoint) error {
	for _, p := range points {
		s.points[p.ID] = p
	}
	return nil
}

func (s *fakeStore) SearchIssues(context.Context, string, string, string, []float32, int, float64) ([]*qdrant.IssueHit, error) {
	return s.hits, nil
}

func (s *fakeStore) Close() error { return nil }
