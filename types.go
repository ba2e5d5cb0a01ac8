package md2deck

// Rendering defaults.
const (
	// DefaultTheme is applied when neither an option nor a deck directive
	// selects a theme.
	DefaultTheme = "default"

	// DefaultHighlightStyle is the chroma style backing the built-in code
	// highlighter.
	DefaultHighlightStyle = "github"
)

// katexFontCDN serves the math fonts when no local font policy applies.
// The verb is replaced with the math engine version.
const katexFontCDN = "https://cdn.jsdelivr.net/npm/katex@%s/dist/fonts/"

// HighlightFunc resolves a fenced code block to highlighted HTML.
// The returned markup must be fully escaped; it is written verbatim.
// Returning the empty string declines the block, and the renderer
// falls back to plain escaped output.
type HighlightFunc func(code, language string) string

// MathEngine typesets TeX expressions into HTML.
type MathEngine interface {
	// Render typesets one expression. displayMode selects the centered
	// block layout over the inline one.
	Render(expression string, displayMode bool) (string, error)

	// Version reports the engine version, used to pin the font CDN URL.
	Version() string

	// Stylesheet returns the CSS the rendered output depends on, with
	// font URLs still relative.
	Stylesheet() string
}

// MathOptions configures math typesetting.
type MathOptions struct {
	// Engine overrides the built-in typesetter. nil selects the default.
	Engine MathEngine

	// KatexOptions configures the default engine: "macros",
	// "throwOnError", "errorColor". Ignored when Engine is set.
	KatexOptions map[string]any

	// FontPath rewrites relative font URLs in the math stylesheet to
	// this base instead of the version-pinned CDN.
	FontPath string

	// BundledFonts leaves font URLs untouched for callers shipping
	// their own fonts next to the stylesheet. Takes precedence over
	// FontPath.
	BundledFonts bool
}

// EmojiOptions controls emoji replacement. Both modes default to on.
type EmojiOptions struct {
	// Shortcode replaces :name: codes.
	Shortcode bool

	// Unicode replaces literal Unicode emoji.
	Unicode bool
}

// Diagnostic reports a non-fatal problem observed during a render.
type Diagnostic struct {
	// Source identifies the stage that reported it, such as "math" or
	// "theme".
	Source string

	// Message describes the problem.
	Message string
}

// RenderResult holds the output of a single Render call.
type RenderResult struct {
	// HTML is the deck markup without a document shell.
	HTML string

	// CSS is the composed stylesheet for the deck.
	CSS string

	// Title comes from the title directive, falling back to the first
	// heading.
	Title string

	// Diagnostics lists non-fatal problems in encounter order.
	Diagnostics []Diagnostic
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	theme          string
	customThemes   []customTheme
	highlightStyle string
	highlighter    HighlightFunc
	html           bool
	inlineSVG      bool
	emoji          EmojiOptions
	math           MathOptions
	mathDisabled   bool
}

type customTheme struct {
	name string
	css  string
}

func defaultRendererConfig() rendererConfig {
	return rendererConfig{
		highlightStyle: DefaultHighlightStyle,
		inlineSVG:      true,
		emoji:          EmojiOptions{Shortcode: true, Unicode: true},
	}
}

// WithTheme selects the theme used when the deck carries no theme
// directive. NewRenderer fails with ErrThemeNotFound for unknown names.
func WithTheme(name string) Option {
	return func(r *Renderer) {
		r.cfg.theme = name
	}
}

// WithThemeCSS registers an additional theme under the given name and
// selects it.
func WithThemeCSS(name, css string) Option {
	return func(r *Renderer) {
		r.cfg.customThemes = append(r.cfg.customThemes, customTheme{name: name, css: css})
		r.cfg.theme = name
	}
}

// WithMathOptions configures math typesetting.
func WithMathOptions(opts MathOptions) Option {
	return func(r *Renderer) {
		r.cfg.math = opts
	}
}

// WithoutMath disables math parsing entirely; dollar spans stay literal
// text and no math CSS is ever emitted.
func WithoutMath() Option {
	return func(r *Renderer) {
		r.cfg.mathDisabled = true
	}
}

// WithEmojiOptions controls which emoji flavors are replaced.
func WithEmojiOptions(opts EmojiOptions) Option {
	return func(r *Renderer) {
		r.cfg.emoji = opts
	}
}

// WithHTML allows sanitized raw HTML to pass through instead of being
// escaped.
func WithHTML(allow bool) Option {
	return func(r *Renderer) {
		r.cfg.html = allow
	}
}

// WithInlineSVG controls whether auto-fit headings get the SVG scaling
// wrapper. Disabling falls back to plain span markers.
func WithInlineSVG(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.inlineSVG = enabled
	}
}

// WithHighlighter installs a custom code highlighter at construction.
// Use Renderer.SetHighlighter to swap it later.
func WithHighlighter(fn HighlightFunc) Option {
	return func(r *Renderer) {
		r.cfg.highlighter = fn
	}
}

// WithHighlightStyle selects the chroma style for the built-in
// highlighter and the emitted highlight classes. Unknown names fall
// back to a plain style.
func WithHighlightStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.highlightStyle = name
	}
}
