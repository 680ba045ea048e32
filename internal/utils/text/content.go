// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-13
// Last Modified: 2026-10-15

// Package text provides small text helpers shared by prompt building and indexing.
package text

import (
	"fmt"
	"strings"
)

// maxEmbeddingBody bounds the body length sent to the embedder.
const maxEmbeddingBody = 6000

// BuildEmbeddingContent constructs the text content used for vector embedding.
// It combines the title, body and labels into a single string.
// An empty body and an empty label list are omitted.
func BuildEmbeddingContent(title, body string, labels []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n\n", title)

	if b := strings.TrimSpace(body); b != "" {
		fmt.Fprintf(&sb, "Body: %s\n\n", Truncate(b, maxEmbeddingBody, ""))
	}

	if len(labels) > 0 {
		fmt.Fprintf(&sb, "Labels: %s\n", strings.Join(labels, ", "))
	}

	return sb.String()
}

// Truncate cuts s to at most maxChars characters and appends marker when
// anything was cut. The cutoff is purely positional.
func Truncate(s string, maxChars int, marker string) string {
	if maxChars < 0 {
		maxChars = 0
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i] + marker
		}
		n++
	}
	return s
}

// OrDefault returns s, or fallback when s is blank.
func OrDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
