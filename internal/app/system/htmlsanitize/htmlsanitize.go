// Package htmlsanitize removes markup from user-supplied text before it is
// stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict drops every element and attribute, keeping only text content.
var strict = bluemonday.StrictPolicy()

// StripTags returns s with all HTML removed. Entities produced by the policy
// are decoded again, so "R&D" survives unchanged; templates escape on output.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains nothing that looks like a tag,
// comment or processing instruction: a '<' followed by a letter, '/', '!'
// or '?'. A lone comparison such as "a < b" is plain text.
func IsPlainText(s string) bool {
	for i := strings.IndexByte(s, '<'); i >= 0 && i+1 < len(s); {
		c := s[i+1]
		if c == '/' || c == '!' || c == '?' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			return false
		}
		next := strings.IndexByte(s[i+1:], '<')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return true
}
