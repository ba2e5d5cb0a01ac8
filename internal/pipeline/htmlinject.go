package pipeline

import (
	"fmt"
	"strings"
)

// InjectStyle inserts CSS into an HTML page as an inline style element.
// Placement preference: before </head>, then before <body, then
// prepended to the document. Empty CSS returns the page unchanged.
func InjectStyle(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}
	styleTag := fmt.Sprintf("<style>\n%s\n</style>", sanitizeInline(cssContent))

	if idx := strings.Index(htmlContent, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleTag + "\n" + htmlContent[idx:]
	}
	if idx := strings.Index(htmlContent, "<body"); idx != -1 {
		return htmlContent[:idx] + styleTag + "\n" + htmlContent[idx:]
	}
	return styleTag + "\n" + htmlContent
}

// InjectScript inserts JavaScript into an HTML page as an inline script
// element. Placement preference: before </body>, then appended to the
// document. Empty source returns the page unchanged.
func InjectScript(htmlContent, scriptContent string) string {
	if scriptContent == "" {
		return htmlContent
	}
	scriptTag := fmt.Sprintf("<script>\n%s\n</script>", sanitizeInline(scriptContent))

	if idx := strings.Index(htmlContent, "</body>"); idx != -1 {
		return htmlContent[:idx] + scriptTag + "\n" + htmlContent[idx:]
	}
	return htmlContent + "\n" + scriptTag
}

// sanitizeInline escapes sequences that would terminate the enclosing
// style or script element early. The replacement is valid as both a CSS
// and a JavaScript escape.
func sanitizeInline(content string) string {
	return strings.ReplaceAll(content, "</", "<\\/")
}
