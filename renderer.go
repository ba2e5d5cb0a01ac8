package md2deck

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"

	"github.com/alnah/go-md2deck/internal/assets"
	"github.com/alnah/go-md2deck/internal/mathdef"
	"github.com/alnah/go-md2deck/internal/pipeline"
)

// Compile-time interface checks
var (
	_ MathEngine            = (*mathdef.Engine)(nil)
	_ pipeline.MathRenderer = (MathEngine)(nil)
)

// pageShell wraps deck markup in a complete HTML5 document. RenderPage
// injects the stylesheet into <head> and the observer script before
// </body> after formatting.
const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// Renderer converts Markdown decks into slide HTML plus a composed
// stylesheet. Safe for concurrent use: per-render state travels in a
// pipeline session, never in the renderer itself.
type Renderer struct {
	cfg      rendererConfig
	themes   *ThemeSet
	engine   MathEngine
	registry *pipeline.Registry
	md       goldmark.Markdown
}

// NewRenderer creates a Renderer with the given options.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{cfg: defaultRendererConfig()}
	for _, opt := range opts {
		opt(r)
	}

	themes, err := newBuiltinThemeSet()
	if err != nil {
		return nil, fmt.Errorf("loading built-in themes: %w", err)
	}
	for _, custom := range r.cfg.customThemes {
		if err := themes.Register(custom.name, custom.css); err != nil {
			return nil, fmt.Errorf("registering theme %q: %w", custom.name, err)
		}
	}
	r.themes = themes

	if r.cfg.theme == "" {
		r.cfg.theme = DefaultTheme
	}
	if !themes.Has(r.cfg.theme) {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, r.cfg.theme)
	}

	if !r.cfg.mathDisabled {
		r.engine = r.cfg.math.Engine
		if r.engine == nil {
			r.engine = mathdef.New(mathdef.OptionsFromMap(r.cfg.math.KatexOptions))
		}
	}

	cfg := pipeline.Config{
		Emoji: pipeline.EmojiConfig{
			Shortcode: r.cfg.emoji.Shortcode,
			Unicode:   r.cfg.emoji.Unicode,
		},
		InlineSVG: r.cfg.inlineSVG,
		HTML:      r.cfg.html,
		Highlight: pipeline.NewHighlightHolder(pipeline.HighlightFunc(r.cfg.highlighter)),
	}
	if r.engine != nil {
		cfg.Math = r.engine
	}
	r.registry = pipeline.NewRegistry(cfg)
	r.md = r.registry.Build()

	return r, nil
}

// Render converts a Markdown deck into slide HTML and its stylesheet.
func (r *Renderer) Render(ctx context.Context, markdown string) (*RenderResult, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, ErrEmptyMarkdown
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session := pipeline.NewSession()
	pc := parser.NewContext()
	pipeline.Attach(pc, session)

	deckHTML, err := r.convert(ctx, []byte(pipeline.NormalizeMarkdown(markdown)), pc)
	if err != nil {
		return nil, err
	}

	theme := r.cfg.theme
	if session.Theme != "" {
		if r.themes.Has(session.Theme) {
			theme = session.Theme
		} else {
			session.AddDiagnostic("theme", fmt.Sprintf("unknown theme %q, using %q", session.Theme, theme))
		}
	}

	css, err := r.composeCSS(theme, session)
	if err != nil {
		return nil, err
	}

	return &RenderResult{
		HTML:        deckHTML,
		CSS:         css,
		Title:       session.Title,
		Diagnostics: diagnosticsFrom(session),
	}, nil
}

// RenderPage renders a deck and wraps it in a standalone HTML document
// with the stylesheet inlined in <head> and the slide observer script
// before </body>.
func (r *Renderer) RenderPage(ctx context.Context, markdown string) (string, error) {
	result, err := r.Render(ctx, markdown)
	if err != nil {
		return "", err
	}
	return r.BuildPage(result)
}

// BuildPage wraps an already rendered deck in the standalone document
// shell. Callers that need the diagnostics use Render followed by
// BuildPage; RenderPage covers the common case.
func (r *Renderer) BuildPage(result *RenderResult) (string, error) {
	title := result.Title
	if title == "" {
		title = "Presentation"
	}

	page := fmt.Sprintf(pageShell, html.EscapeString(title), result.HTML)
	page = pipeline.InjectStyle(page, result.CSS)

	script, err := assets.ObserverScript()
	if err != nil {
		return "", fmt.Errorf("loading observer script: %w", err)
	}
	return pipeline.InjectScript(page, script), nil
}

// SetHighlighter swaps the code highlighter without rebuilding the
// renderer. Renders already in flight keep the function they started
// with. A nil fn restores the built-in chroma highlighter.
func (r *Renderer) SetHighlighter(fn HighlightFunc) {
	r.registry.Highlight().Set(pipeline.HighlightFunc(fn))
}

// RegisterTheme adds a theme usable by name in deck theme directives.
func (r *Renderer) RegisterTheme(name, css string) error {
	return r.themes.Register(name, css)
}

// Themes exposes the renderer's theme registry.
func (r *Renderer) Themes() *ThemeSet {
	return r.themes
}

// convert runs goldmark with the attached session. Supports context
// cancellation via goroutine + select since goldmark doesn't take a
// context.
func (r *Renderer) convert(ctx context.Context, source []byte, pc parser.Context) (string, error) {
	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHTMLConversion, rec)}
			}
		}()
		var buf bytes.Buffer
		if err := r.md.Convert(source, &buf, parser.WithContext(pc)); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// composeCSS assembles the deck stylesheet: theme pack as the base,
// with emoji, fitting, and math fragments prepended so the math CSS
// ends up first and the theme last.
func (r *Renderer) composeCSS(theme string, session *pipeline.Session) (string, error) {
	base, err := r.themes.Pack(theme, r.cfg.highlightStyle)
	if err != nil {
		return "", err
	}

	var emojiCSS string
	if r.cfg.emoji.Shortcode || r.cfg.emoji.Unicode {
		emojiCSS, err = assets.Fragment("emoji")
		if err != nil {
			return "", fmt.Errorf("loading emoji stylesheet: %w", err)
		}
	}

	fittingCSS, err := assets.Fragment("fitting")
	if err != nil {
		return "", fmt.Errorf("loading fitting stylesheet: %w", err)
	}

	var mathCSS string
	if r.engine != nil && session.MathRendered {
		mathCSS = r.engine.Stylesheet()
		if !r.cfg.math.BundledFonts {
			fontBase := r.cfg.math.FontPath
			if fontBase == "" {
				fontBase = fmt.Sprintf(katexFontCDN, r.engine.Version())
			}
			mathCSS = pipeline.RewriteFontURLs(mathCSS, fontBase)
		}
	}

	return pipeline.ComposeStylesheet(base, emojiCSS, fittingCSS, mathCSS), nil
}

func diagnosticsFrom(session *pipeline.Session) []Diagnostic {
	if len(session.Diagnostics) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(session.Diagnostics))
	for i, d := range session.Diagnostics {
		out[i] = Diagnostic{Source: d.Source, Message: d.Message}
	}
	return out
}
