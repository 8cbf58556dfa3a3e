package validators

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// SanitizeText strips every tag from user supplied free text (names, bios,
// addresses) and trims it. Entities produced by the policy are unescaped
// back so plain text is stored as typed.
func SanitizeText(s string) string {
	cleaned := strict.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
