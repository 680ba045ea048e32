// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package steps provides the indexer step for adding issues to the vector database.
package steps

import (
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/integrations/qdrant"
	"github.com/similigh/triagebot/internal/utils/text"
)

// Indexer embeds an issue and stores it for related-issue lookups.
type Indexer struct {
	embedder pipeline.Embedder
	store    qdrant.VectorStore
	dryRun   bool
}

// NewIndexer creates a new indexer step.
func NewIndexer(deps *pipeline.Dependencies) *Indexer {
	return &Indexer{
		embedder: deps.Embedder,
		store:    deps.VectorStore,
		dryRun:   deps.DryRun,
	}
}

// Name returns the step name.
func (s *Indexer) Name() string {
	return "indexer"
}

// Run adds the issue to the vector database.
func (s *Indexer) Run(ctx *pipeline.Context) error {
	log := clog.FromContext(ctx.Ctx)
	collection := ctx.Config.Related.Collection
	issue := ctx.Issue

	if s.dryRun {
		log.Infof("DRY RUN: Would index issue #%d into %s", issue.Number, collection)
		return nil
	}
	if s.embedder == nil || s.store == nil {
		return fmt.Errorf("indexing requires an embedder and a vector store")
	}

	vec, err := s.embedder.Embed(ctx.Ctx, text.BuildEmbeddingContent(issue.Title, issue.Body, issue.LabelNames()))
	if err != nil {
		return fmt.Errorf("failed to embed #%d: %w", issue.Number, err)
	}

	point := &qdrant.IssuePoint{
		ID:     PointID(issue.Org, issue.Repo, issue.Number),
		Vector: vec,
		Org:    issue.Org,
		Repo:   issue.Repo,
		Number: issue.Number,
		Title:  issue.Title,
		URL:    issue.URL,
		State:  issue.State,
	}
	if err := s.store.UpsertIssues(ctx.Ctx, collection, []*qdrant.IssuePoint{point}); err != nil {
		return fmt.Errorf("failed to index #%d: %w", issue.Number, err)
	}

	log.Infof("Indexed issue #%d into %s", issue.Number, collection)
	ctx.Result.Indexed = true
	return nil
}

// PointID derives a stable point ID, so reindexing replaces the old point.
func PointID(org, repo string, number int) string {
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s-%s-%d", org, repo, number))).String()
}
