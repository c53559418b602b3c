// Package sanitize strips markup from user-provided text before it is
// stored. Lead names, sources and follow-up reasons arrive from bulk CSV
// uploads and manual entry and are later rendered in notification feeds.
package sanitize

import (
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes all HTML tags from a string, making it safe for
// text-only display. Encoded tags are caught by re-stripping after entity
// decode.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes a free-text field for storage: lead names and sources on
// intake, reasons on follow-up recording.
func Text(s string) string {
	return StripHTML(s)
}

// TextPtr applies Text to optional fields, preserving nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
