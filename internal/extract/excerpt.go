package extract

import (
	"regexp"
	"strings"
)

const (
	excerptMaxLen   = 200
	excerptCutLen   = 197
	excerptMinLen   = 10
	paragraphMinLen = 50
)

var (
	termsRe = regexp.MustCompile(`(?is)\*\*TERMS\s*(?:&|AND)\s*CONDITIONS[^\n*]*\*\*\n(.*?)(?:\n\*\*|$)`)

	// Other legal headings worth quoting. Party and signature headings are
	// deliberately excluded so the excerpt never carries names or addresses.
	otherLegalRe = regexp.MustCompile(`(?is)\*\*(?:RECEIVED BY|LIABILITY|CARRIER RESPONSIBILITY)[^\n*]*\*\*\n(.*?)(?:\n\*\*|$)`)

	newlinesRe = regexp.MustCompile(`\n+`)
)

// RawTextExcerpt captures a short legal/terms snippet for human review.
// Preference order: terms & conditions body, another legal heading's body,
// then the first long paragraph that is not a heading or table row.
func RawTextExcerpt(markdown string) *string {
	if m := termsRe.FindStringSubmatch(markdown); m != nil {
		if excerpt := cleanExcerpt(m[1]); len(excerpt) > excerptMinLen {
			return strptr(excerpt)
		}
	}

	if m := otherLegalRe.FindStringSubmatch(markdown); m != nil {
		if excerpt := cleanExcerpt(m[1]); len(excerpt) > excerptMinLen {
			return strptr(excerpt)
		}
	}

	for _, p := range strings.Split(markdown, "\n\n") {
		if len(p) <= paragraphMinLen {
			continue
		}
		if strings.HasPrefix(p, "|") || strings.HasPrefix(p, "#") || strings.HasPrefix(strings.TrimSpace(p), "**") {
			continue
		}
		return strptr(cleanExcerpt(p))
	}

	return nil
}

// cleanExcerpt collapses whitespace and truncates on rune boundaries so a
// multi-byte character is never split mid-sequence.
func cleanExcerpt(s string) string {
	excerpt := newlinesRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if runes := []rune(excerpt); len(runes) > excerptMaxLen {
		excerpt = string(runes[:excerptCutLen]) + "..."
	}
	return excerpt
}
