// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v60/github"

	"github.com/similigh/triagebot/internal/core/pipeline"
)

const perPage = 100

// ErrNotFound is returned when the API answers 404 for a fetched resource.
var ErrNotFound = errors.New("not found")

// Client implements pipeline.HostAPI over the GitHub REST API.
type Client struct {
	client *github.Client
}

var _ pipeline.HostAPI = (*Client)(nil)

// GetIssue fetches one issue. Pull requests come back with IsPullRequest set.
func (c *Client) GetIssue(ctx context.Context, org, repo string, number int) (*pipeline.Issue, error) {
	issue, _, err := c.client.Issues.Get(ctx, org, repo, number)
	if isNotFound(err) {
		return nil, fmt.Errorf("issue #%d: %w", number, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}
	return toIssue(org, repo, issue), nil
}

// ListOpenIssues returns up to limit open issues, newest first.
// Pull requests are excluded.
func (c *Client) ListOpenIssues(ctx context.Context, org, repo string, limit int) ([]*pipeline.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: min(perPage, max(limit, 1))},
	}

	var out []*pipeline.Issue
	for len(out) < limit {
		issues, resp, err := c.client.Issues.ListByRepo(ctx, org, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			out = append(out, toIssue(org, repo, issue))
			if len(out) == limit {
				break
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// GetPullRequest fetches pull request metadata.
func (c *Client) GetPullRequest(ctx context.Context, org, repo string, number int) (*pipeline.PullRequest, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, org, repo, number)
	if isNotFound(err) {
		return nil, fmt.Errorf("pull request #%d: %w", number, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request #%d: %w", number, err)
	}
	return &pipeline.PullRequest{
		Org:    org,
		Repo:   repo,
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		Author: pr.GetUser().GetLogin(),
		URL:    pr.GetHTMLURL(),
	}, nil
}

// GetPullRequestDiff returns the unified diff of a pull request.
func (c *Client) GetPullRequestDiff(ctx context.Context, org, repo string, number int) (string, error) {
	diff, _, err := c.client.PullRequests.GetRaw(ctx, org, repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("failed to fetch diff for #%d: %w", number, err)
	}
	return diff, nil
}

// ListPullRequestFiles returns every file touched by a pull request.
func (c *Client) ListPullRequestFiles(ctx context.Context, org, repo string, number int) ([]pipeline.ChangedFile, error) {
	opts := &github.ListOptions{PerPage: perPage}
	var out []pipeline.ChangedFile
	for {
		files, resp, err := c.client.PullRequests.ListFiles(ctx, org, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list files for #%d: %w", number, err)
		}
		for _, f := range files {
			out = append(out, pipeline.ChangedFile{
				Filename:  f.GetFilename(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListIssueReactions returns the content of every reaction on an issue.
func (c *Client) ListIssueReactions(ctx context.Context, org, repo string, number int) ([]string, error) {
	opts := &github.ListOptions{PerPage: perPage}
	var out []string
	for {
		reactions, resp, err := c.client.Reactions.ListIssueReactions(ctx, org, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list reactions for #%d: %w", number, err)
		}
		for _, r := range reactions {
			out = append(out, r.GetContent())
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// CountIssueComments counts the comments on an issue.
func (c *Client) CountIssueComments(ctx context.Context, org, repo string, number int) (int, error) {
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	total := 0
	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, org, repo, number, opts)
		if err != nil {
			return 0, fmt.Errorf("failed to list comments for #%d: %w", number, err)
		}
		total += len(comments)
		if resp.NextPage == 0 {
			return total, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListRepositoryLabels returns the repository's complete label set.
func (c *Client) ListRepositoryLabels(ctx context.Context, org, repo string) ([]pipeline.Label, error) {
	opts := &github.ListOptions{PerPage: perPage}
	var out []pipeline.Label
	for {
		labels, resp, err := c.client.Issues.ListLabels(ctx, org, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list labels: %w", err)
		}
		for _, l := range labels {
			out = append(out, pipeline.Label{Name: l.GetName(), Description: l.GetDescription()})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// AddLabels adds labels to an issue or pull request. An empty list is a no-op.
func (c *Client) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, org, repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels to #%d: %w", number, err)
	}
	return nil
}

// RemoveLabel removes a label. A label that is already gone is not an error.
func (c *Client) RemoveLabel(ctx context.Context, org, repo string, number int, label string) error {
	_, err := c.client.Issues.RemoveLabelForIssue(ctx, org, repo, number, label)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove label %q from #%d: %w", label, number, err)
	}
	return nil
}

// CreateComment posts a comment on an issue or pull request.
func (c *Client) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body cannot be empty")
	}

	comment := &github.IssueComment{
		Body: github.String(body),
	}
	_, _, err := c.client.Issues.CreateComment(ctx, org, repo, number, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment on #%d: %w", number, err)
	}
	return nil
}

// GetFileContent reads a file at ref. It backs remote config inheritance.
func (c *Client) GetFileContent(ctx context.Context, org, repo, path, ref string) ([]byte, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	file, _, _, err := c.client.Repositories.GetContents(ctx, org, repo, path, opts)
	if isNotFound(err) {
		return nil, fmt.Errorf("%s/%s/%s: %w", org, repo, path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s/%s: %w", org, repo, path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s/%s/%s is a directory", org, repo, path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(content), nil
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}

func toIssue(org, repo string, issue *github.Issue) *pipeline.Issue {
	labels := make([]pipeline.Label, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, pipeline.Label{Name: l.GetName(), Description: l.GetDescription()})
	}

	return &pipeline.Issue{
		Org:           org,
		Repo:          repo,
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		Body:          issue.GetBody(),
		State:         issue.GetState(),
		Labels:        labels,
		Author:        issue.GetUser().GetLogin(),
		URL:           issue.GetHTMLURL(),
		IsPullRequest: issue.IsPullRequest(),
	}
}
