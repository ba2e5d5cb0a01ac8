package pipeline

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	meta "github.com/yuin/goldmark-meta"
)

// Transformer priorities fix the order content transforms run in:
// deck splitting first so later stages see per-slide structure, then
// emoji, math, and fitting. Parser and renderer priorities slot the
// custom pieces around goldmark's built-ins, where a lower renderer
// priority takes precedence.
const (
	deckTransformerPriority    = 0
	emojiTransformerPriority   = 100
	mathTransformerPriority    = 200
	fittingTransformerPriority = 300

	mathInlineParserPriority = 501
	mathBlockParserPriority  = 701

	emojiRendererPriority   = 150
	mathRendererPriority    = 200
	fittingRendererPriority = 200
	deckRendererPriority    = 200
	codeRendererPriority    = 200
	rawHTMLRendererPriority = 500
)

// Config selects the pipeline stages for a renderer instance.
type Config struct {
	// Emoji selects the enabled emoji flavors.
	Emoji EmojiConfig

	// Math is the typesetting engine. nil disables the math stage
	// entirely, leaving dollar spans as literal text.
	Math MathRenderer

	// InlineSVG selects the SVG auto-fit wrapper over the plain one.
	InlineSVG bool

	// HTML permits sanitized raw markup passthrough.
	HTML bool

	// Highlight is the swappable code highlighter. nil gets a holder
	// seeded with the chroma default.
	Highlight *HighlightHolder
}

// Registry assembles goldmark instances with the deck transform stack
// applied in its fixed order. The same registry can build any number of
// instances; per-render state lives in the parser context, never here.
type Registry struct {
	cfg Config
}

// NewRegistry returns a registry for the given config.
func NewRegistry(cfg Config) *Registry {
	if cfg.Highlight == nil {
		cfg.Highlight = NewHighlightHolder(nil)
	}
	return &Registry{cfg: cfg}
}

// Highlight returns the holder renders read their highlight function
// through.
func (r *Registry) Highlight() *HighlightHolder {
	return r.cfg.Highlight
}

// Build assembles a ready-to-use goldmark instance.
func (r *Registry) Build() goldmark.Markdown {
	extenders := []goldmark.Extender{
		meta.Meta,
		extension.GFM,
		extension.Footnote,
		NewDeckExtension(),
		NewEmojiExtension(r.cfg.Emoji),
	}
	if r.cfg.Math != nil {
		extenders = append(extenders, NewMathExtension(r.cfg.Math))
	}
	extenders = append(extenders, NewFittingExtension(r.cfg.InlineSVG))

	return goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			renderer.WithNodeRenderers(
				util.Prioritized(NewCodeBlockRenderer(r.cfg.Highlight), codeRendererPriority),
				util.Prioritized(NewRawHTMLRenderer(r.cfg.HTML), rawHTMLRendererPriority),
			),
		),
	)
}
