// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package verdict parses the oracle's raw text into typed verdicts.
package verdict

import (
	"errors"
	"strings"
)

// ErrNoJSON is returned when no JSON object can be located in a response.
var ErrNoJSON = errors.New("no JSON object found in oracle response")

// ErrInvalidVerdict wraps validation failures of a located JSON object.
var ErrInvalidVerdict = errors.New("invalid oracle verdict")

const fenceOpen = "```json"

// ExtractJSON locates a single JSON object in responseText. A fenced block
// labelled json wins; otherwise the span from the first '{' to the last '}'
// is returned.
func ExtractJSON(responseText string) (string, error) {
	if start := strings.Index(responseText, fenceOpen); start != -1 {
		body := responseText[start+len(fenceOpen):]
		body = strings.TrimPrefix(body, "\n")
		if end := strings.Index(body, "```"); end != -1 {
			return strings.TrimSpace(strings.TrimSuffix(body[:end], "\n")), nil
		}
	}

	first := strings.Index(responseText, "{")
	last := strings.LastIndex(responseText, "}")
	if first == -1 || last < first {
		return "", ErrNoJSON
	}
	return responseText[first : last+1], nil
}
