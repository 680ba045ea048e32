// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package verdict

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Assessment is the review verdict category.
type Assessment string

const (
	AssessmentApprove          Assessment = "approve"
	AssessmentChangesRequested Assessment = "changes-requested"
	AssessmentNeedsReview      Assessment = "needs-review"

	// AssessmentUnknown is any other value. It renders approve-style and adds no label.
	AssessmentUnknown Assessment = "unknown"
)

// Review is the oracle's verdict on a pull request.
type Review struct {
	Assessment Assessment

	// RawAssessment is the value as sent by the oracle.
	RawAssessment string

	Summary            string
	IssueAlignment     string
	Concerns           []string
	Suggestions        []string
	Notes              []string
	Observations       []string
	HumanReviewReasons []string
	Confidence         Confidence

	// HasLinkedIssue is set by the engine, never read from the oracle.
	HasLinkedIssue bool
}

type rawReview struct {
	Assessment         *string    `json:"assessment"`
	Summary            string     `json:"summary"`
	IssueAlignment     string     `json:"issueAlignment"`
	Concerns           []string   `json:"concerns"`
	Suggestions        []string   `json:"suggestions"`
	Notes              []string   `json:"notes"`
	Observations       []string   `json:"observations"`
	HumanReviewReasons []string   `json:"humanReviewReasons"`
	Confidence         Confidence `json:"confidence"`
}

// ParseReview extracts and validates a review verdict from raw oracle text.
func ParseReview(responseText string) (*Review, error) {
	content, err := ExtractJSON(responseText)
	if err != nil {
		return nil, err
	}

	var raw rawReview
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse review response as JSON: %w", err)
	}
	if raw.Assessment == nil {
		return nil, fmt.Errorf("%w: missing assessment", ErrInvalidVerdict)
	}
	if strings.TrimSpace(raw.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary", ErrInvalidVerdict)
	}

	return &Review{
		Assessment:         classifyAssessment(*raw.Assessment),
		RawAssessment:      *raw.Assessment,
		Summary:            raw.Summary,
		IssueAlignment:     raw.IssueAlignment,
		Concerns:           raw.Concerns,
		Suggestions:        raw.Suggestions,
		Notes:              raw.Notes,
		Observations:       raw.Observations,
		HumanReviewReasons: raw.HumanReviewReasons,
		Confidence:         raw.Confidence,
	}, nil
}

func classifyAssessment(s string) Assessment {
	switch Assessment(s) {
	case AssessmentApprove, AssessmentChangesRequested, AssessmentNeedsReview:
		return Assessment(s)
	default:
		return AssessmentUnknown
	}
}
