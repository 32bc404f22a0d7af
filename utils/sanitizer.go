package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes every tag from host-supplied text
var StrictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from a label or alt text and returns plain text.
// bluemonday escapes the surviving characters; the DOM renderer escapes again,
// so the entities are decoded here.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(s)))
}
