package pipeline

import (
	"path"
	"regexp"
	"strings"
)

// ComposeStylesheet prepends conditional fragments onto the packed base
// CSS. Fragments are prepended one after another, so the last non-empty
// fragment ends up first in the output and every fragment precedes the
// base rules. Empty fragments are skipped.
func ComposeStylesheet(base string, fragments ...string) string {
	out := base
	for _, f := range fragments {
		if f == "" {
			continue
		}
		out = f + "\n" + out
	}
	return out
}

var (
	fontFacePattern = regexp.MustCompile(`(?i)@font-face\s*\{[^}]*\}`)
	srcDeclPattern  = regexp.MustCompile(`(?is)src\s*:[^;}]*`)
	urlTokenPattern = regexp.MustCompile(`(?i)url\(\s*[^)]*\)`)
)

// RewriteFontURLs re-bases relative url() references inside the src
// declarations of @font-face rules. The final path element of each
// relative URL is joined onto base, so "fonts/X.woff2" and "./X.woff2"
// both resolve to base/X.woff2. Absolute, protocol-relative, and data
// URLs are left alone, as is every byte outside the matched tokens.
func RewriteFontURLs(css, base string) string {
	if base == "" {
		return css
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fontFacePattern.ReplaceAllStringFunc(css, func(block string) string {
		return srcDeclPattern.ReplaceAllStringFunc(block, func(decl string) string {
			return urlTokenPattern.ReplaceAllStringFunc(decl, func(token string) string {
				return rewriteURLToken(token, base)
			})
		})
	})
}

func rewriteURLToken(token, base string) string {
	inner := token[strings.Index(token, "(")+1 : len(token)-1]
	trimmed := strings.TrimSpace(inner)

	quote := ""
	if len(trimmed) >= 2 && (trimmed[0] == '\'' || trimmed[0] == '"') && trimmed[len(trimmed)-1] == trimmed[0] {
		quote = string(trimmed[0])
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	if !isRelativeFontURL(trimmed) {
		return token
	}
	return "url(" + quote + base + path.Base(trimmed) + quote + ")"
}

func isRelativeFontURL(u string) bool {
	if u == "" {
		return false
	}
	lower := strings.ToLower(u)
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "/"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return true
}
