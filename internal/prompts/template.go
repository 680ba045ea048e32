// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

// Package prompts builds the system and user prompts sent to the oracle.
package prompts

import (
	"strings"
)

// Template is a prompt with {{NAME}} placeholders.
type Template struct {
	text string
}

// NewTemplate wraps text as a template.
func NewTemplate(text string) Template {
	return Template{text: text}
}

// Render replaces each {{NAME}} with vars[NAME]. Placeholders without a value
// render as the empty string. Values are inserted literally. Text that is
// not a well-formed placeholder is copied through unchanged.
func (t Template) Render(vars map[string]string) string {
	var sb strings.Builder
	rest := t.text

	for len(rest) > 0 {
		start := strings.Index(rest, "{{")
		if start == -1 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:start])

		end := strings.Index(rest[start+2:], "}}")
		if end == -1 {
			sb.WriteString(rest[start:])
			break
		}
		end += start + 2

		name := rest[start+2 : end]
		if isPlaceholderName(name) {
			sb.WriteString(vars[name])
			rest = rest[end+2:]
			continue
		}

		// Not a placeholder: emit the braces and keep scanning after them.
		sb.WriteString("{{")
		rest = rest[start+2:]
	}

	return sb.String()
}

// isPlaceholderName accepts identifiers of letters, digits and underscores
// that start with a letter.
func isPlaceholderName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r == '_' || (r >= '0' && r <= '9'):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
