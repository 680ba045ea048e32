// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package triage

import (
	"fmt"
	"strings"
)

// Thresholds are the engagement minimums for high priority, combined with OR.
type Thresholds struct {
	MinUpvotes  int
	MinComments int
}

// Evaluation is the outcome of a priority evaluation.
type Evaluation struct {
	Upvotes        int
	Comments       int
	IsHighPriority bool

	// Reason lists the crossed thresholds. Empty when not high priority.
	Reason string
}

// upvoteReactions are the reaction kinds that count as upvotes.
var upvoteReactions = map[string]bool{
	"+1":     true,
	"heart":  true,
	"rocket": true,
}

// CountUpvotes counts the reactions that express support.
func CountUpvotes(reactions []string) int {
	n := 0
	for _, r := range reactions {
		if upvoteReactions[r] {
			n++
		}
	}
	return n
}

// Evaluate decides whether engagement crosses the high-priority thresholds.
func Evaluate(upvotes, comments int, t Thresholds) Evaluation {
	var reasons []string
	if upvotes >= t.MinUpvotes {
		reasons = append(reasons, fmt.Sprintf("%d upvotes", upvotes))
	}
	if comments >= t.MinComments {
		reasons = append(reasons, fmt.Sprintf("%d comments", comments))
	}

	return Evaluation{
		Upvotes:        upvotes,
		Comments:       comments,
		IsHighPriority: len(reasons) > 0,
		Reason:         strings.Join(reasons, ", "),
	}
}
