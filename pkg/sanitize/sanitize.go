package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text strips all HTML and surrounding whitespace. Used for short plain-text
// fields such as category, genre and title names. Entities escaped by the
// policy are decoded again since the result is served as JSON.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(norm.NFC.String(input))))
}

// Prose normalises free text (review and comment bodies, descriptions, bios)
// without removing anything. Markup is kept verbatim and escaped when the
// JSON response is encoded.
func Prose(input string) string {
	return strings.TrimSpace(norm.NFC.String(input))
}

// TextPtr applies Text to an optional field in place.
func TextPtr(input *string) {
	if input != nil {
		*input = Text(*input)
	}
}

// ProsePtr applies Prose to an optional field in place.
func ProsePtr(input *string) {
	if input != nil {
		*input = Prose(*input)
	}
}
