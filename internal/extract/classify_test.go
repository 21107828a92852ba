package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ladinglens/internal/extract"
)

func TestIsScanned_EmptyText(t *testing.T) {
	assert.True(t, extract.IsScanned(""))
	assert.True(t, extract.IsScanned("   \n\t  \n"))
}

func TestIsScanned_ShortText(t *testing.T) {
	assert.True(t, extract.IsScanned("**BILL OF LADING**"))

	// Whitespace does not count toward the content threshold.
	padded := "**HBL**" + strings.Repeat(" \n", 200)
	assert.True(t, extract.IsScanned(padded))
}

func TestIsScanned_NoStructure(t *testing.T) {
	text := strings.Repeat("plain prose without any markup whatsoever ", 10)
	assert.True(t, extract.IsScanned(text))
}

func TestIsScanned_HeadingOnly(t *testing.T) {
	text := "**SHIPPER**\n" + strings.Repeat("Acme Logistics Pte Ltd content line ", 5)
	assert.False(t, extract.IsScanned(text))
}

func TestIsScanned_TableOnly(t *testing.T) {
	text := "|CONTAINER NO.|GROSS|\n|---|---|\n" + strings.Repeat("|ABCD1234567|1 200.5|\n", 5)
	assert.False(t, extract.IsScanned(text))
}

func TestIsScanned_PipesWithoutSeparatorAndNoHeadings(t *testing.T) {
	text := strings.Repeat("|cell|cell|cell|cell|cell|cell|cell|cell|\n", 5)
	assert.True(t, extract.IsScanned(text))
}
