// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package triage holds the pure decision rules: label reconciliation,
// eligibility, priority evaluation and linked-issue extraction.
package triage

import (
	"context"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/similigh/triagebot/internal/core/pipeline"
	"github.com/similigh/triagebot/internal/metrics"
)

// Reconcile keeps the candidates that exist in available, compared
// case-insensitively, and returns them in the repository's stored casing.
// Each candidate appears at most once. Rejected candidates are logged.
func Reconcile(ctx context.Context, candidates []string, available []pipeline.Label) []string {
	byName := make(map[string]string, len(available))
	for _, l := range available {
		key := strings.ToLower(l.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = l.Name
		}
	}

	log := clog.FromContext(ctx)
	valid := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(c)
		canonical, ok := byName[key]
		if !ok {
			log.Warnf("Label %q not found in repository, skipping", c)
			metrics.LabelsRejected.Inc()
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		valid = append(valid, canonical)
	}
	return valid
}

// FindLabel returns the first label on labels whose name matches one of
// names case-insensitively, in stored casing.
func FindLabel(labels []pipeline.Label, names ...string) (string, bool) {
	for _, l := range labels {
		for _, n := range names {
			if strings.EqualFold(l.Name, n) {
				return l.Name, true
			}
		}
	}
	return "", false
}

// HasLabel reports whether labels contains name, case-insensitively.
func HasLabel(labels []pipeline.Label, name string) bool {
	_, ok := FindLabel(labels, name)
	return ok
}
