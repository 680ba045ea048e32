// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package verdict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CommentKind tags the variant of a CommentIntent.
type CommentKind string

const (
	CommentNeedsInfo CommentKind = "needs-info"
	CommentDuplicate CommentKind = "duplicate"
	CommentQuestion  CommentKind = "question"
	CommentCustom    CommentKind = "custom"

	// CommentUnknown is an unrecognised type. It renders no comment.
	CommentUnknown CommentKind = "unknown"
)

// CommentIntent is the oracle's request for a comment.
type CommentIntent struct {
	Kind CommentKind

	// RawType is the type string as sent by the oracle.
	RawType string

	// Missing is the needs-info checklist. MissingSet is false when the
	// oracle omitted the field, in which case a default list applies.
	Missing    []string
	MissingSet bool

	IssueNumber int
	IssueTitle  string

	Message string
}

// Triage is the oracle's verdict on an issue.
type Triage struct {
	Labels     []string
	Comment    *CommentIntent
	Confidence Confidence
	Reasoning  string
}

// Confidence accepts either a number or a string from the oracle.
type Confidence string

// UnmarshalJSON implements json.Unmarshaler.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Confidence(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("confidence must be a number or string: %w", err)
	}
	*c = Confidence(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

type rawTriage struct {
	Labels     *[]string       `json:"labels"`
	Comment    json.RawMessage `json:"comment"`
	Confidence Confidence      `json:"confidence"`
	Reasoning  string          `json:"reasoning"`
}

type rawComment struct {
	Type        *string   `json:"type"`
	Missing     *[]string `json:"missing"`
	IssueNumber *int      `json:"issueNumber"`
	IssueTitle  string    `json:"issueTitle"`
	Message     string    `json:"message"`
}

// ParseTriage extracts and validates a triage verdict from raw oracle text.
func ParseTriage(responseText string) (*Triage, error) {
	content, err := ExtractJSON(responseText)
	if err != nil {
		return nil, err
	}

	var raw rawTriage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse triage response as JSON: %w", err)
	}
	if raw.Labels == nil {
		return nil, fmt.Errorf("%w: missing labels", ErrInvalidVerdict)
	}

	t := &Triage{
		Labels:     *raw.Labels,
		Confidence: raw.Confidence,
		Reasoning:  raw.Reasoning,
	}

	comment, err := parseComment(raw.Comment)
	if err != nil {
		return nil, err
	}
	t.Comment = comment
	return t, nil
}

func parseComment(data json.RawMessage) (*CommentIntent, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var rc rawComment
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("%w: comment: %v", ErrInvalidVerdict, err)
	}
	if rc.Type == nil {
		return nil, fmt.Errorf("%w: comment without type", ErrInvalidVerdict)
	}

	ci := &CommentIntent{RawType: *rc.Type}
	switch CommentKind(*rc.Type) {
	case CommentNeedsInfo:
		ci.Kind = CommentNeedsInfo
		if rc.Missing != nil {
			ci.Missing = *rc.Missing
			ci.MissingSet = true
		}
	case CommentDuplicate:
		if rc.IssueNumber == nil || *rc.IssueNumber <= 0 {
			return nil, fmt.Errorf("%w: duplicate comment needs a positive issueNumber", ErrInvalidVerdict)
		}
		ci.Kind = CommentDuplicate
		ci.IssueNumber = *rc.IssueNumber
		ci.IssueTitle = rc.IssueTitle
	case CommentQuestion:
		ci.Kind = CommentQuestion
	case CommentCustom:
		if rc.Message == "" {
			return nil, fmt.Errorf("%w: custom comment needs a message", ErrInvalidVerdict)
		}
		ci.Kind = CommentCustom
		ci.Message = rc.Message
	default:
		ci.Kind = CommentUnknown
	}
	return ci, nil
}
