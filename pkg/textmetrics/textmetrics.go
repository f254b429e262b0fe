// Package textmetrics projects rich-text markup onto plain text so character
// limits apply to what the contact actually reads, not to the markup.
package textmetrics

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chatflowhq/chatflow/pkg/models"
)

// Strip removes all markup tags from a rich-text value and returns the inner
// text with whitespace collapsed per normal text-flow rules. It is pure and
// deterministic, and idempotent under re-application.
func Strip(text models.RichText) string {
	raw := string(text)
	if raw == "" {
		return ""
	}

	var builder strings.Builder

	builder.Grow(len(raw))

	inTag := false
	lastWasSpace := true // leading whitespace collapses to nothing

	for _, r := range raw {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		case unicode.IsSpace(r):
			if !lastWasSpace {
				builder.WriteByte(' ')
				lastWasSpace = true
			}
		default:
			builder.WriteRune(r)
			lastWasSpace = false
		}
	}

	return strings.TrimRight(builder.String(), " ")
}

// PlainLength returns the character count of the markup-stripped projection
// of a rich-text value. Empty and tag-only inputs count zero.
func PlainLength(text models.RichText) int {
	return utf8.RuneCountInString(Strip(text))
}
