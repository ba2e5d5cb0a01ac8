package pipeline

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MathRenderer typesets a TeX expression to HTML. displayMode selects
// block layout over inline layout.
type MathRenderer interface {
	Render(expression string, displayMode bool) (string, error)
}

// MathInline is an inline math span delimited by single dollars.
type MathInline struct {
	ast.BaseInline

	// Segment spans the TeX source between the delimiters.
	Segment text.Segment

	// Rendered holds the engine output. Empty means typesetting failed
	// and the renderer falls back to the literal source.
	Rendered []byte
}

// KindMathInline is the node kind of MathInline.
var KindMathInline = ast.NewNodeKind("MathInline")

// Kind implements ast.Node.Kind.
func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

// Dump implements ast.Node.Dump.
func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Expression": string(n.Segment.Value(source)),
	}, nil)
}

// NewMathInline returns a math span covering the given source segment.
func NewMathInline(segment text.Segment) *MathInline {
	return &MathInline{Segment: segment}
}

// MathBlock is a display math block delimited by double-dollar lines.
type MathBlock struct {
	ast.BaseBlock

	// Rendered holds the engine output. Empty means typesetting failed
	// and the renderer falls back to the literal source.
	Rendered []byte

	closed bool
}

// KindMathBlock is the node kind of MathBlock.
var KindMathBlock = ast.NewNodeKind("MathBlock")

// Kind implements ast.Node.Kind.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// Dump implements ast.Node.Dump.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// IsRaw reports that block content is not parsed as inline markdown.
func (n *MathBlock) IsRaw() bool { return true }

// SourceText returns the TeX source of the block.
func (n *MathBlock) SourceText(source []byte) []byte {
	var buf bytes.Buffer
	l := n.Lines().Len()
	for i := 0; i < l; i++ {
		seg := n.Lines().At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

// NewMathBlock returns an empty display math block.
func NewMathBlock() *MathBlock {
	return &MathBlock{}
}

type mathExtension struct {
	engine MathRenderer
}

// NewMathExtension returns the math stage backed by the given engine.
func NewMathExtension(engine MathRenderer) goldmark.Extender {
	return &mathExtension{engine: engine}
}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&mathInlineParser{}, mathInlineParserPriority),
		),
		parser.WithBlockParsers(
			util.Prioritized(&mathBlockParser{}, mathBlockParserPriority),
		),
		parser.WithASTTransformers(
			util.Prioritized(&mathTransformer{engine: e.engine}, mathTransformerPriority),
		),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathHTMLRenderer{}, mathRendererPriority),
	))
}

// mathInlineParser parses $...$ spans. The opening and closing dollars
// must hug the expression and the closing dollar must not be followed
// by a digit, which keeps prices like "$20 and $30" out of math mode.
type mathInlineParser struct{}

func (p *mathInlineParser) Trigger() []byte { return []byte{'$'} }

func (p *mathInlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if len(line) < 3 || line[1] == '$' || util.IsSpace(line[1]) {
		return nil
	}

	end := -1
	for i := 2; i < len(line); i++ {
		if line[i] == '$' && line[i-1] != '\\' {
			end = i
			break
		}
	}
	if end < 0 {
		return nil
	}
	if util.IsSpace(line[end-1]) {
		return nil
	}
	if end+1 < len(line) && line[end+1] >= '0' && line[end+1] <= '9' {
		return nil
	}

	node := NewMathInline(text.NewSegment(segment.Start+1, segment.Start+end))
	block.Advance(end + 1)
	return node
}

// mathBlockParser parses display math fenced by $$ lines, including the
// single-line $$expr$$ form.
type mathBlockParser struct{}

func (b *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (b *mathBlockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos+1 >= len(line) || line[pos] != '$' || line[pos+1] != '$' {
		return nil, parser.NoChildren
	}

	node := NewMathBlock()
	rest := util.TrimRightSpace(line[pos+2:])
	if len(util.TrimLeftSpace(rest)) > 0 {
		// Single-line form: both fences on one line.
		if len(rest) < 2 || !bytes.HasSuffix(rest, []byte("$$")) {
			return nil, parser.NoChildren
		}
		start := segment.Start + pos + 2
		node.Lines().Append(text.NewSegment(start, start+len(rest)-2))
		node.closed = true
	}
	reader.Advance(segment.Stop - segment.Start - pos - 1)
	return node, parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	n := node.(*MathBlock)
	if n.closed {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if bytes.Equal(util.TrimRightSpace(util.TrimLeftSpace(line)), []byte("$$")) {
		newline := 1
		if len(line) == 0 || line[len(line)-1] != '\n' {
			newline = 0
		}
		reader.Advance(segment.Stop - segment.Start - newline)
		return parser.Close
	}

	node.Lines().Append(segment)
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(ast.Node, text.Reader, parser.Context) {}

func (b *mathBlockParser) CanInterruptParagraph() bool { return true }

func (b *mathBlockParser) CanAcceptIndentedLine() bool { return false }

// mathTransformer runs every math node through the engine and records
// the outcome on the session. A failing expression degrades to its
// literal source and never aborts the rest of the document.
type mathTransformer struct {
	engine MathRenderer
}

func (t *mathTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	session := SessionFrom(pc)
	source := reader.Source()

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch m := n.(type) {
		case *MathInline:
			m.Rendered = t.typeset(session, string(m.Segment.Value(source)), false)
		case *MathBlock:
			m.Rendered = t.typeset(session, string(m.SourceText(source)), true)
		}
		return ast.WalkContinue, nil
	})
}

func (t *mathTransformer) typeset(session *Session, expression string, displayMode bool) []byte {
	out, err := t.engine.Render(expression, displayMode)
	if err != nil {
		if session != nil {
			session.AddDiagnostic("math", fmt.Sprintf("typeset %q: %v", truncateExpression(expression), err))
		}
		return nil
	}
	if session != nil {
		session.MathRendered = true
	}
	return []byte(out)
}

// truncateExpression caps diagnostic payloads so a pathological
// expression cannot flood the report.
func truncateExpression(expression string) string {
	const limit = 40
	runes := []rune(expression)
	if len(runes) <= limit {
		return expression
	}
	return string(runes[:limit]) + "..."
}

// mathHTMLRenderer writes engine output, or the escaped literal source
// when typesetting failed.
type mathHTMLRenderer struct{}

func (r *mathHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderInline)
	reg.Register(KindMathBlock, r.renderBlock)
}

func (r *mathHTMLRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathInline)
	if len(n.Rendered) > 0 {
		_, _ = w.Write(n.Rendered)
		return ast.WalkContinue, nil
	}
	_ = w.WriteByte('$')
	_, _ = w.Write(util.EscapeHTML(n.Segment.Value(source)))
	_ = w.WriteByte('$')
	return ast.WalkContinue, nil
}

func (r *mathHTMLRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MathBlock)
	if len(n.Rendered) > 0 {
		_, _ = w.Write(n.Rendered)
		_ = w.WriteByte('\n')
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<p>$$")
	_, _ = w.Write(util.EscapeHTML(n.SourceText(source)))
	_, _ = w.WriteString("$$</p>\n")
	return ast.WalkContinue, nil
}
