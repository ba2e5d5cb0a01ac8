package pipeline

import (
	"bytes"
	"testing"

	"github.com/yuin/goldmark/parser"
)

// renderDeck runs markdown through a freshly built registry and returns
// the HTML plus the session the transforms wrote into.
func renderDeck(t *testing.T, cfg Config, markdown string) (string, *Session) {
	t.Helper()

	reg := NewRegistry(cfg)
	md := reg.Build()

	session := NewSession()
	pc := parser.NewContext()
	Attach(pc, session)

	var buf bytes.Buffer
	if err := md.Convert([]byte(NormalizeMarkdown(markdown)), &buf, parser.WithContext(pc)); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	return buf.String(), session
}

// okMathEngine typesets every expression into a recognizable span.
type okMathEngine struct{}

func (okMathEngine) Render(expression string, displayMode bool) (string, error) {
	if displayMode {
		return `<span class="katex-display"><span class="katex">` + expression + `</span></span>`, nil
	}
	return `<span class="katex">` + expression + `</span>`, nil
}
