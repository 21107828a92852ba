package extract

import (
	"strings"
	"unicode"
)

const minStructuredLen = 100

// IsScanned reports whether the page text has no exploitable structure: too
// little content, or neither a bold heading marker nor a pipe table with a
// row separator. Scanned pages are routed straight to the model extractor.
func IsScanned(markdown string) bool {
	nonWhitespace := 0
	for _, r := range markdown {
		if !unicode.IsSpace(r) {
			nonWhitespace++
		}
	}
	if nonWhitespace < minStructuredLen {
		return true
	}

	hasHeadings := strings.Contains(markdown, "**")
	hasTables := strings.Contains(markdown, "|") && strings.Contains(markdown, "---")

	return !hasHeadings && !hasTables
}
