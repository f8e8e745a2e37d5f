// Package sanitize strips markup from free-form text entered in dashboard forms.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&#39;", "'",
)

// Text removes HTML tags, decodes common entities, trims whitespace and
// composes accents (NFC) so "José" typed on different keyboards compares equal.
// Tags are stripped again after decoding so encoded markup does not survive.
func Text(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return norm.NFC.String(strings.TrimSpace(result))
}

// Strings sanitizes every entry and drops the ones left empty.
func Strings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if cleaned := Text(v); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
