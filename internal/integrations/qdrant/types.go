// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package qdrant stores issue embeddings for related-issue hints.
package qdrant

import "context"

// Payload keys written for every indexed issue.
const (
	fieldOrg    = "org"
	fieldRepo   = "repo"
	fieldNumber = "number"
	fieldTitle  = "title"
	fieldURL    = "url"
	fieldState  = "state"
)

// IssuePoint is one indexed issue.
type IssuePoint struct {
	ID     string
	Vector []float32
	Org    string
	Repo   string
	Number int
	Title  string
	URL    string
	State  string
}

// IssueHit is a search result resolved back to issue fields.
type IssueHit struct {
	Number int
	Title  string
	URL    string
	State  string
	Score  float32
}

// VectorStore is the issue index used by the related-issue lookup and the
// indexing sweep.
type VectorStore interface {
	// EnsureCollection creates the collection when it does not exist.
	EnsureCollection(ctx context.Context, name string, dimension int) error

	// UpsertIssues inserts or replaces issue points.
	UpsertIssues(ctx context.Context, collection string, points []*IssuePoint) error

	// SearchIssues returns issues of org/repo scoring at least threshold.
	SearchIssues(ctx context.Context, collection, org, repo string, vector []float32, limit int, threshold float64) ([]*IssueHit, error)

	Close() error
}
