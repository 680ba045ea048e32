// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package triage

import (
	"regexp"
	"strconv"
)

// linkedIssuePatterns are tried in order; the first match wins.
var linkedIssuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:fix(?:es)?|close(?:s)?|resolve(?:s)?)\s*#(\d+)`),
	regexp.MustCompile(`(?i)(?:fix(?:es)?|close(?:s)?|resolve(?:s)?)\s+https://github\.com/[^/\s]+/[^/\s]+/issues/(\d+)`),
	regexp.MustCompile(`#(\d+)`),
}

// ExtractLinkedIssue returns the issue number a PR body refers to.
// No reference is a normal outcome.
func ExtractLinkedIssue(body string) (int, bool) {
	for _, re := range linkedIssuePatterns {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		return n, true
	}
	return 0, false
}
