package pipeline

import (
	"github.com/yuin/goldmark/parser"
)

// Diagnostic records a non-fatal problem observed during a render,
// such as a math expression the engine rejected.
type Diagnostic struct {
	Source  string // originating concern: "math", "theme"
	Message string
}

// Session carries per-render state through the goldmark parser context.
// A fresh Session is attached for every render, so concurrent renders
// through a shared goldmark instance never observe each other's flags.
type Session struct {
	// MathRendered is set when at least one math expression was
	// successfully typeset. The stylesheet composer uses it to decide
	// whether the math CSS is needed at all.
	MathRendered bool

	// Theme is the front-matter theme directive, empty when absent.
	// Validation against registered themes happens in the caller.
	Theme string

	// Paginate reflects the front-matter paginate directive.
	Paginate bool

	// Title is the front-matter title, falling back to the text of the
	// first heading in the deck.
	Title string

	Diagnostics []Diagnostic
}

// NewSession returns an empty session ready to attach to a parser context.
func NewSession() *Session {
	return &Session{}
}

// AddDiagnostic appends a non-fatal problem report to the session.
func (s *Session) AddDiagnostic(source, message string) {
	s.Diagnostics = append(s.Diagnostics, Diagnostic{Source: source, Message: message})
}

var sessionKey = parser.NewContextKey()

// Attach stores the session in a goldmark parser context.
func Attach(pc parser.Context, s *Session) {
	pc.Set(sessionKey, s)
}

// SessionFrom retrieves the session from a parser context.
// Returns nil when no session was attached.
func SessionFrom(pc parser.Context) *Session {
	v := pc.Get(sessionKey)
	if v == nil {
		return nil
	}
	s, ok := v.(*Session)
	if !ok {
		return nil
	}
	return s
}
