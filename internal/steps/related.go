// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package steps

import (
	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/integrations/qdrant"
	"github.com/similigh/triagebot/internal/utils/text"
)

// RelatedIssues looks up similar indexed issues and hands them to the
// triage prompt as hints. Lookup failures never fail the item.
type RelatedIssues struct {
	embedder pipeline.Embedder
	store    qdrant.VectorStore
}

// NewRelatedIssues creates a new related-issue lookup step.
func NewRelatedIssues(deps *pipeline.Dependencies) *RelatedIssues {
	return &RelatedIssues{
		embedder: deps.Embedder,
		store:    deps.VectorStore,
	}
}

// Name returns the step name.
func (s *RelatedIssues) Name() string {
	return "related_issues"
}

// Run populates ctx.Related.
func (s *RelatedIssues) Run(ctx *pipeline.Context) error {
	cfg := ctx.Config.Related
	if !cfg.Enabled || s.embedder == nil || s.store == nil {
		return nil
	}

	log := clog.FromContext(ctx.Ctx)
	issue := ctx.Issue

	vec, err := s.embedder.Embed(ctx.Ctx, text.BuildEmbeddingContent(issue.Title, issue.Body, nil))
	if err != nil {
		log.Warnf("Embedding #%d failed: %v", issue.Number, err)
		return nil
	}

	// One extra hit, since the issue itself may already be indexed.
	hits, err := s.store.SearchIssues(ctx.Ctx, cfg.Collection, issue.Org, issue.Repo, vec, cfg.Limit+1, cfg.Threshold)
	if err != nil {
		log.Warnf("Search for #%d failed: %v", issue.Number, err)
		return nil
	}

	for _, h := range hits {
		if h.Number == issue.Number || len(ctx.Related) == cfg.Limit {
			continue
		}
		ctx.Related = append(ctx.Related, pipeline.RelatedIssue{
			Number:     h.Number,
			Title:      h.Title,
			URL:        h.URL,
			State:      h.State,
			Similarity: float64(h.Score),
		})
	}
	log.Infof("Found %d related issues for #%d", len(ctx.Related), issue.Number)
	return nil
}
