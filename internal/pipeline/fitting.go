package pipeline

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// fitMarker is the comment directive that opts a heading into auto-fit.
var fitMarker = []byte("fit")

// AutoFit wraps heading content that scales to fill the slide width.
// InlineSVG selects the SVG wrapper the browser observer can scale
// without reflowing; otherwise a plain span is emitted and the observer
// steps the font size down instead.
type AutoFit struct {
	ast.BaseInline
	InlineSVG bool
}

// KindAutoFit is the node kind of AutoFit.
var KindAutoFit = ast.NewNodeKind("AutoFit")

// Kind implements ast.Node.Kind.
func (n *AutoFit) Kind() ast.NodeKind { return KindAutoFit }

// Dump implements ast.Node.Dump.
func (n *AutoFit) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// NewAutoFit returns an empty auto-fit wrapper.
func NewAutoFit(inlineSVG bool) *AutoFit {
	return &AutoFit{InlineSVG: inlineSVG}
}

type fittingExtension struct {
	inlineSVG bool
}

// NewFittingExtension returns the auto-fit stage. Headings carrying a
// <!-- fit --> comment get their content wrapped for the observer.
func NewFittingExtension(inlineSVG bool) goldmark.Extender {
	return &fittingExtension{inlineSVG: inlineSVG}
}

func (e *fittingExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&fittingTransformer{inlineSVG: e.inlineSVG}, fittingTransformerPriority),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&fitRenderer{}, fittingRendererPriority),
	))
}

type fittingTransformer struct {
	inlineSVG bool
}

func (t *fittingTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var headings []*ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if h, ok := n.(*ast.Heading); ok {
				headings = append(headings, h)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, h := range headings {
		if marker := findFitMarker(h, source); marker != nil {
			h.RemoveChild(h, marker)
			trimEdgeSpace(h, source)
			wrapChildren(h, NewAutoFit(t.inlineSVG))
		}
	}
}

// findFitMarker returns the heading's fit comment node, or nil.
func findFitMarker(h *ast.Heading, source []byte) ast.Node {
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		raw, ok := c.(*ast.RawHTML)
		if !ok {
			continue
		}
		content := inlineRawText(raw, source)
		if !bytes.HasPrefix(content, []byte("<!--")) || !bytes.HasSuffix(content, []byte("-->")) {
			continue
		}
		inner := bytes.TrimSpace(content[4 : len(content)-3])
		if bytes.Equal(inner, fitMarker) {
			return c
		}
	}
	return nil
}

// trimEdgeSpace drops the spaces the removed comment left behind at the
// edges of the heading text.
func trimEdgeSpace(h *ast.Heading, source []byte) {
	if first, ok := h.FirstChild().(*ast.Text); ok {
		seg := first.Segment
		for seg.Start < seg.Stop && util.IsSpace(source[seg.Start]) {
			seg.Start++
		}
		first.Segment = seg
	}
	if last, ok := h.LastChild().(*ast.Text); ok {
		seg := last.Segment
		for seg.Stop > seg.Start && util.IsSpace(source[seg.Stop-1]) {
			seg.Stop--
		}
		last.Segment = seg
	}
}

// wrapChildren moves all children of parent into wrapper, then installs
// wrapper as the sole child.
func wrapChildren(parent ast.Node, wrapper ast.Node) {
	if parent.FirstChild() == nil {
		return
	}
	for c := parent.FirstChild(); c != nil; c = parent.FirstChild() {
		wrapper.AppendChild(wrapper, c)
	}
	parent.AppendChild(parent, wrapper)
}

type fitRenderer struct{}

func (r *fitRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAutoFit, r.renderAutoFit)
}

func (r *fitRenderer) renderAutoFit(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*AutoFit)
	if entering {
		if n.InlineSVG {
			_, _ = w.WriteString(`<svg data-autofit="true"><foreignObject><span data-autofit-content="true">`)
		} else {
			_, _ = w.WriteString(`<span data-autofit="true">`)
		}
		return ast.WalkContinue, nil
	}
	if n.InlineSVG {
		_, _ = w.WriteString(`</span></foreignObject></svg>`)
	} else {
		_, _ = w.WriteString(`</span>`)
	}
	return ast.WalkContinue, nil
}
