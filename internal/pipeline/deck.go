package pipeline

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	meta "github.com/yuin/goldmark-meta"
)

// Deck is the root container holding all slides of a document.
type Deck struct {
	ast.BaseBlock
}

// KindDeck is the node kind of Deck.
var KindDeck = ast.NewNodeKind("Deck")

// Kind implements ast.Node.Kind.
func (n *Deck) Kind() ast.NodeKind { return KindDeck }

// Dump implements ast.Node.Dump.
func (n *Deck) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// NewDeck returns an empty deck.
func NewDeck() *Deck {
	return &Deck{}
}

// Slide is one slide of a deck, rendered as a section element.
type Slide struct {
	ast.BaseBlock

	// Index is the 1-based position of the slide in the deck.
	Index int

	// Paginate marks the slide for the page number overlay.
	Paginate bool
}

// KindSlide is the node kind of Slide.
var KindSlide = ast.NewNodeKind("Slide")

// Kind implements ast.Node.Kind.
func (n *Slide) Kind() ast.NodeKind { return KindSlide }

// Dump implements ast.Node.Dump.
func (n *Slide) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Index": strconv.Itoa(n.Index),
	}, nil)
}

// NewSlide returns an empty slide.
func NewSlide() *Slide {
	return &Slide{}
}

type deckExtension struct{}

// NewDeckExtension returns the deck stage: it regroups top-level
// content into slides split on thematic breaks and applies front-matter
// directives. It must run before every other content transform.
func NewDeckExtension() goldmark.Extender {
	return &deckExtension{}
}

func (e *deckExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&deckTransformer{}, deckTransformerPriority),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&deckRenderer{}, deckRendererPriority),
	))
}

// deckTransformer rebuilds the document as a deck of slides. Thematic
// breaks at the top level separate slides and are consumed; breaks
// nested in lists or quotes stay ordinary rules.
type deckTransformer struct{}

func (t *deckTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	session := SessionFrom(pc)

	paginate := false
	if md := meta.Get(pc); md != nil && session != nil {
		if v, ok := md["theme"]; ok {
			session.Theme = metaString(v)
		}
		if v, ok := md["paginate"]; ok {
			session.Paginate = metaBool(v)
		}
		if v, ok := md["title"]; ok {
			session.Title = metaString(v)
		}
	}
	if session != nil {
		paginate = session.Paginate
	}

	var children []ast.Node
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		children = append(children, c)
	}

	slide := NewSlide()
	slides := []*Slide{slide}
	for _, c := range children {
		if c.Kind() == ast.KindThematicBreak {
			slide = NewSlide()
			slides = append(slides, slide)
			continue
		}
		slide.AppendChild(slide, c)
	}

	deck := NewDeck()
	for i, s := range slides {
		s.Index = i + 1
		s.Paginate = paginate
		deck.AppendChild(deck, s)
	}
	doc.RemoveChildren(doc)
	doc.AppendChild(doc, deck)

	if session != nil && session.Title == "" {
		session.Title = firstHeadingText(deck, reader.Source())
	}
}

// firstHeadingText returns the plain text of the first heading in the
// deck, used as the fallback document title.
func firstHeadingText(deck ast.Node, source []byte) string {
	title := ""
	_ = ast.Walk(deck, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		_ = ast.Walk(h, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if entering {
				if t, ok := c.(*ast.Text); ok {
					buf.Write(t.Segment.Value(source))
				}
			}
			return ast.WalkContinue, nil
		})
		title = buf.String()
		return ast.WalkStop, nil
	})
	return title
}

func metaString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

func metaBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}

type deckRenderer struct{}

func (r *deckRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDeck, r.renderDeck)
	reg.Register(KindSlide, r.renderSlide)
}

func (r *deckRenderer) renderDeck(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<div class=\"deck\">\n")
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}

func (r *deckRenderer) renderSlide(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</section>\n")
		return ast.WalkContinue, nil
	}
	n := node.(*Slide)
	_, _ = w.WriteString(`<section class="slide" id="slide-`)
	_, _ = w.WriteString(strconv.Itoa(n.Index))
	_ = w.WriteByte('"')
	if n.Paginate {
		_, _ = w.WriteString(` data-paginate="true"`)
	}
	_, _ = w.WriteString(">\n")
	return ast.WalkContinue, nil
}
