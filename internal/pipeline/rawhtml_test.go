package pipeline

import (
	"strings"
	"testing"
)

func TestRawHTMLEscapedByDefault(t *testing.T) {
	t.Parallel()

	html, _ := renderDeck(t, Config{}, "before <b>bold</b> after\n")

	for _, want := range []string{"&lt;b&gt;", "&lt;/b&gt;", "bold"} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q\ngot: %s", want, html)
		}
	}
	if strings.Contains(html, "<b>") {
		t.Errorf("raw tag passed through with passthrough disabled: %s", html)
	}
}

func TestRawHTMLSanitizedPassthrough(t *testing.T) {
	t.Parallel()

	html, _ := renderDeck(t, Config{HTML: true}, "keep <b>bold</b> here\n")

	if !strings.Contains(html, "<b>bold</b>") {
		t.Errorf("benign tag should survive passthrough: %s", html)
	}
}

func TestRawHTMLScriptStripped(t *testing.T) {
	t.Parallel()

	html, _ := renderDeck(t, Config{HTML: true}, "<script>alert('x')</script>\n\ntext\n")

	if strings.Contains(html, "<script") {
		t.Errorf("script tag survived sanitization: %s", html)
	}
	if strings.Contains(html, "alert") {
		t.Errorf("script body survived sanitization: %s", html)
	}
	if !strings.Contains(html, "text") {
		t.Errorf("surrounding content lost: %s", html)
	}
}

func TestRawHTMLBlockAttributesFiltered(t *testing.T) {
	t.Parallel()

	html, _ := renderDeck(t, Config{HTML: true}, "<p class=\"note\" onclick=\"evil()\">kept</p>\n")

	if !strings.Contains(html, "kept") {
		t.Errorf("block content lost: %s", html)
	}
	if strings.Contains(html, "onclick") {
		t.Errorf("event handler survived sanitization: %s", html)
	}
	if strings.Contains(html, `class="note"`) {
		t.Errorf("class attribute should be filtered by the policy: %s", html)
	}
}

func TestRawHTMLCommentsAlwaysDropped(t *testing.T) {
	t.Parallel()

	for _, cfg := range []Config{{}, {HTML: true}} {
		html, _ := renderDeck(t, cfg, "a <!-- secret --> b\n")

		if strings.Contains(html, "secret") {
			t.Errorf("comment leaked (allow=%v): %s", cfg.HTML, html)
		}
		if !strings.Contains(html, "a ") || !strings.Contains(html, " b") {
			t.Errorf("surrounding text lost (allow=%v): %s", cfg.HTML, html)
		}
	}
}

func TestRawHTMLGeneratedMarkupUntouched(t *testing.T) {
	t.Parallel()

	html, _ := renderDeck(t, Config{}, "**strong** and `code`\n")

	for _, want := range []string{"<strong>strong</strong>", "<code>code</code>"} {
		if !strings.Contains(html, want) {
			t.Errorf("generated markup altered: missing %q\ngot: %s", want, html)
		}
	}
}
