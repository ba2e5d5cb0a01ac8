package pipeline

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// rawHTMLRenderer applies the raw markup policy. HTML comments are
// always consumed since they carry directives like the fit marker and
// have no place in deck output. Other raw markup is escaped to visible
// text unless passthrough was enabled, in which case it is sanitized
// first.
type rawHTMLRenderer struct {
	allow  bool
	policy *bluemonday.Policy
}

// NewRawHTMLRenderer returns the raw markup renderer. With allow set,
// raw segments pass through a UGC sanitization policy; generated markup
// is never touched.
func NewRawHTMLRenderer(allow bool) renderer.NodeRenderer {
	r := &rawHTMLRenderer{allow: allow}
	if allow {
		r.policy = bluemonday.UGCPolicy()
	}
	return r
}

func (r *rawHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
}

func (r *rawHTMLRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	r.write(w, inlineRawText(node.(*ast.RawHTML), source))
	return ast.WalkSkipChildren, nil
}

func (r *rawHTMLRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	r.write(w, blockRawText(node.(*ast.HTMLBlock), source))
	return ast.WalkContinue, nil
}

func (r *rawHTMLRenderer) write(w util.BufWriter, content []byte) {
	if isHTMLComment(content) {
		return
	}
	if !r.allow {
		_, _ = w.Write(util.EscapeHTML(content))
		return
	}
	_, _ = w.WriteString(r.policy.Sanitize(string(content)))
}

// inlineRawText concatenates the source segments of an inline raw node.
func inlineRawText(n *ast.RawHTML, source []byte) []byte {
	var buf bytes.Buffer
	l := n.Segments.Len()
	for i := 0; i < l; i++ {
		seg := n.Segments.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.Bytes()
}

// blockRawText concatenates the lines of an HTML block including its
// closure line.
func blockRawText(n *ast.HTMLBlock, source []byte) []byte {
	var buf bytes.Buffer
	l := n.Lines().Len()
	for i := 0; i < l; i++ {
		seg := n.Lines().At(i)
		buf.Write(seg.Value(source))
	}
	if n.HasClosure() {
		buf.Write(n.ClosureLine.Value(source))
	}
	return buf.Bytes()
}

func isHTMLComment(content []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(content), []byte("<!--"))
}
