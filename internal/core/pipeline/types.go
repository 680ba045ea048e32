// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package pipeline

// Label is a repository label. Names compare case-insensitively.
type Label struct {
	Name        string
	Description string
}

// Issue represents a GitHub issue being processed.
type Issue struct {
	Org    string
	Repo   string
	Number int
	Title  string
	Body   string
	State  string // "open" or "closed"
	Labels []Label
	Author string
	URL    string

	// IsPullRequest is set when the issues API returned a pull request.
	IsPullRequest bool
}

// LabelNames returns the issue's label names in order.
func (i *Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}

// PullRequest represents a pull request under review.
type PullRequest struct {
	Org    string
	Repo   string
	Number int
	Title  string
	Body   string
	Author string
	URL    string
}

// ChangedFile summarizes one file touched by a pull request.
type ChangedFile struct {
	Filename  string
	Additions int
	Deletions int
}

// RelatedIssue is a hint from the vector store about a similar issue.
type RelatedIssue struct {
	Number     int
	Title      string
	URL        string
	Similarity float64
	State      string
}

// Plan is the set of mutations decided for one item.
// Dry-run and live execution consume the same Plan.
type Plan struct {
	// AddLabels are canonical label names. Empty means no add call.
	AddLabels []string

	// Comment is the rendered markdown body. Empty means no comment.
	Comment string

	// CommentKind names the template that produced Comment.
	CommentKind string

	// RemoveLabel is a marker label to drop after the other mutations succeed.
	RemoveLabel string
}

// Empty reports whether the plan has no mutations.
func (p *Plan) Empty() bool {
	return p == nil || (len(p.AddLabels) == 0 && p.Comment == "" && p.RemoveLabel == "")
}

// Result holds the accumulated results from pipeline execution.
type Result struct {
	IssueNumber int
	Skipped     bool
	SkipReason  string

	// Triage and review outcome.
	Labels      []string
	CommentKind string
	Comment     string
	Summary     string

	// Mutations actually issued (always false in dry-run).
	LabelsApplied []string
	CommentPosted bool
	MarkerRemoved bool

	// Priority outcome.
	Upvotes        int
	Comments       int
	HighPriority   bool
	PriorityReason string

	Indexed bool
}
