package pipeline

import (
	"bytes"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// HighlightFunc renders the body of a fenced code block to HTML.
// It must HTML-escape the code itself. Returning the empty string
// declines highlighting, in which case the caller escapes the code
// and emits it without any highlight markup.
type HighlightFunc func(code, language string) string

// HighlightHolder stores the active highlight function behind a lock so
// it can be swapped after the goldmark instance has been built, without
// re-registering renderers. A nil function restores the chroma default.
type HighlightHolder struct {
	mu sync.RWMutex
	fn HighlightFunc
}

// NewHighlightHolder returns a holder seeded with fn,
// or with the chroma default when fn is nil.
func NewHighlightHolder(fn HighlightFunc) *HighlightHolder {
	h := &HighlightHolder{}
	h.Set(fn)
	return h
}

// Set replaces the active highlight function. Passing nil restores the
// chroma default. Safe to call concurrently with renders; in-flight
// renders pick up the new function at the next code block.
func (h *HighlightHolder) Set(fn HighlightFunc) {
	if fn == nil {
		fn = ChromaHighlighter()
	}
	h.mu.Lock()
	h.fn = fn
	h.mu.Unlock()
}

// Func returns the active highlight function.
func (h *HighlightHolder) Func() HighlightFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.fn
}

// ChromaHighlighter returns the default highlight function backed by
// chroma. Token types are emitted as CSS classes so colors come from
// the stylesheet produced by HighlightStylesheet. Unknown languages and
// plain text decline highlighting.
func ChromaHighlighter() HighlightFunc {
	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)
	plaintext := lexers.Fallback.Config().Name

	return func(code, language string) string {
		var lexer chroma.Lexer
		if language != "" {
			lexer = lexers.Get(language)
		} else {
			lexer = lexers.Analyse(code)
		}
		if lexer == nil || lexer.Config().Name == plaintext {
			return ""
		}
		lexer = chroma.Coalesce(lexer)

		iterator, err := lexer.Tokenise(nil, code)
		if err != nil {
			return ""
		}
		var buf bytes.Buffer
		if err := formatter.Format(&buf, styles.Fallback, iterator); err != nil {
			return ""
		}
		return buf.String()
	}
}

// HighlightStylesheet returns the CSS for chroma token classes in the
// named style. Unknown style names fall back to chroma's default style.
func HighlightStylesheet(styleName string) string {
	style := styles.Get(styleName)
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return ""
	}
	return buf.String()
}

// codeBlockRenderer renders fenced code blocks through the highlight
// holder. Registered below the default priority so it takes precedence
// over goldmark's built-in code block rendering.
type codeBlockRenderer struct {
	holder *HighlightHolder
}

// NewCodeBlockRenderer returns a node renderer for fenced code blocks
// that reads the highlight function through holder on every render.
func NewCodeBlockRenderer(holder *HighlightHolder) renderer.NodeRenderer {
	return &codeBlockRenderer{holder: holder}
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	language := ""
	if l := n.Language(source); l != nil {
		language = string(l)
	}

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	highlighted := r.holder.Func()(code.String(), language)

	if highlighted != "" {
		_, _ = w.WriteString(`<pre class="chroma"><code`)
	} else {
		_, _ = w.WriteString("<pre><code")
	}
	if language != "" {
		_, _ = w.WriteString(` class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(language)))
		_, _ = w.WriteString(`"`)
	}
	_ = w.WriteByte('>')
	if highlighted != "" {
		_, _ = w.WriteString(highlighted)
	} else {
		_, _ = w.Write(util.EscapeHTML(code.Bytes()))
	}
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkContinue, nil
}
