// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package triage

import (
	"strings"

	"github.com/similigh/triagebot/internal/core/config"
	"github.com/similigh/triagebot/internal/core/pipeline"
)

// Decision is the eligibility outcome for an issue.
type Decision int

const (
	// Proceed means the issue should be triaged.
	Proceed Decision = iota
	// SkipNotIssue means the item is a pull request.
	SkipNotIssue
	// SkipAlreadyTriaged means taxonomy labels exist and no marker asks for a redo.
	SkipAlreadyTriaged
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case SkipNotIssue:
		return "skip-not-issue"
	case SkipAlreadyTriaged:
		return "skip-already-triaged"
	default:
		return "unknown"
	}
}

// Eligibility is the result of Classify.
type Eligibility struct {
	Decision Decision

	// Marker is the needs-triage marker label in stored casing, or "".
	Marker string
}

// HasMarker reports whether the issue carries a needs-triage marker.
func (e Eligibility) HasMarker() bool {
	return e.Marker != ""
}

// Classify decides whether an issue is eligible for triage.
func Classify(issue *pipeline.Issue, rules config.LabelsConfig) Eligibility {
	if issue.IsPullRequest {
		return Eligibility{Decision: SkipNotIssue}
	}

	marker, _ := FindLabel(issue.Labels, rules.NeedsTriage...)
	if marker == "" && HasTaxonomyLabel(issue.Labels, rules.TaxonomyPrefixes) {
		return Eligibility{Decision: SkipAlreadyTriaged}
	}
	return Eligibility{Decision: Proceed, Marker: marker}
}

// HasTaxonomyLabel reports whether any label starts with one of the
// case-sensitive taxonomy prefixes.
func HasTaxonomyLabel(labels []pipeline.Label, prefixes []string) bool {
	for _, l := range labels {
		for _, p := range prefixes {
			if strings.HasPrefix(l.Name, p) {
				return true
			}
		}
	}
	return false
}

// NeedsTriage reports whether a backlog sweep should pick up the issue.
func NeedsTriage(issue *pipeline.Issue, rules config.LabelsConfig) bool {
	return Classify(issue, rules).Decision == Proceed
}

// NeedsPriority reports whether the issue lacks the priority label.
func NeedsPriority(issue *pipeline.Issue, priorityLabel string) bool {
	return !HasLabel(issue.Labels, priorityLabel)
}
