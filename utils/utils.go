package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeSnippetName prepares a snippet name for deflection matching.
// Snippet names are stored kebab-case; hyphens become spaces.
func NormalizeSnippetName(name string) string {
	return strings.ReplaceAll(name, "-", " ")
}

// NormalizeTagName prepares a routing tag name for deflection matching.
// The name is lowercased and every non-alphanumeric character becomes a space,
// so "Billing Issue!" and "billing-issue" compare equal after normalization.
func NormalizeTagName(name string) string {
	return nonAlphanumericRegex.ReplaceAllString(strings.ToLower(name), " ")
}

// TruncateThreadTitle shortens message content to a thread title of at most
// maxRunes runes, appending an ellipsis when content was cut off.
func TruncateThreadTitle(content string, maxRunes int) string {
	if utf8.RuneCountInString(content) <= maxRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:maxRunes]) + "…"
}
