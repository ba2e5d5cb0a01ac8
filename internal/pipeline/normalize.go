package pipeline

import (
	"regexp"
	"strings"
)

// Precompiled patterns for input normalization.
var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)
)

// NormalizeMarkdown prepares raw markdown for parsing.
// Line endings are unified to \n so slide separators and front matter
// are recognized regardless of the platform the file was written on,
// and a trailing newline is guaranteed so a separator on the last line
// still closes its slide.
func NormalizeMarkdown(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content
}
