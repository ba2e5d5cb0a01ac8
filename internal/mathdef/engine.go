// Package mathdef is the built-in math typesetting engine. It renders a
// deck-sized subset of TeX into HTML spans styled by a KaTeX-compatible
// stylesheet, so decks typeset math out of the box without a JavaScript
// runtime. Anything it cannot express comes back as an error and the
// caller keeps the literal source.
package mathdef

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-md2deck/internal/assets"
)

// katexVersion pins the stylesheet and font layout the engine output is
// written against. Font CDN paths derive from it.
const katexVersion = "0.16.22"

// maxMacroRounds bounds macro expansion so mutually recursive
// definitions terminate with an error instead of spinning.
const maxMacroRounds = 100

// Options configure the engine. Field names follow the KaTeX option
// names so deck front matter and config files can pass them through.
type Options struct {
	// Macros maps commands (with or without the leading backslash) to
	// replacement TeX, expanded before typesetting.
	Macros map[string]string

	// ThrowOnError makes Render return typesetting failures as errors.
	// When false, failures render as an error span instead.
	ThrowOnError bool

	// ErrorColor styles error spans when ThrowOnError is false.
	ErrorColor string
}

// DefaultOptions returns the KaTeX defaults.
func DefaultOptions() Options {
	return Options{
		ThrowOnError: true,
		ErrorColor:   "#cc0000",
	}
}

// OptionsFromMap builds Options from a loosely typed option map, such as
// one decoded from YAML front matter. Unknown keys are ignored.
func OptionsFromMap(raw map[string]any) Options {
	opts := DefaultOptions()
	for key, value := range raw {
		switch key {
		case "throwOnError":
			if b, ok := value.(bool); ok {
				opts.ThrowOnError = b
			}
		case "errorColor":
			if s, ok := value.(string); ok && s != "" {
				opts.ErrorColor = s
			}
		case "macros":
			opts.Macros = stringMap(value)
		}
	}
	return opts
}

func stringMap(value any) map[string]string {
	out := map[string]string{}
	switch m := value.(type) {
	case map[string]string:
		for k, v := range m {
			out[k] = v
		}
	case map[string]any:
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
	case map[any]any:
		for k, v := range m {
			ks, kok := k.(string)
			vs, vok := v.(string)
			if kok && vok {
				out[ks] = vs
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Engine is the default math engine. Safe for concurrent use.
type Engine struct {
	opts   Options
	macros []macro
}

type macro struct {
	name string
	body string
}

// New returns an engine with the given options. Start from
// DefaultOptions and adjust rather than building Options from scratch.
func New(opts Options) *Engine {
	if opts.ErrorColor == "" {
		opts.ErrorColor = "#cc0000"
	}
	return &Engine{opts: opts, macros: compileMacros(opts.Macros)}
}

// compileMacros normalizes names to carry the backslash and orders them
// deterministically.
func compileMacros(raw map[string]string) []macro {
	if len(raw) == 0 {
		return nil
	}
	macros := make([]macro, 0, len(raw))
	for name, body := range raw {
		if !strings.HasPrefix(name, `\`) {
			name = `\` + name
		}
		macros = append(macros, macro{name: name, body: body})
	}
	sort.Slice(macros, func(i, j int) bool { return macros[i].name < macros[j].name })
	return macros
}

// Render typesets a TeX expression. displayMode selects the centered
// block layout over the inline one.
func (e *Engine) Render(expression string, displayMode bool) (string, error) {
	expanded, err := e.expand(expression)
	if err != nil {
		return e.fail(expression, err)
	}
	body, err := typeset(expanded)
	if err != nil {
		return e.fail(expression, err)
	}
	if displayMode {
		return `<span class="katex-display"><span class="katex">` + body + `</span></span>`, nil
	}
	return `<span class="katex">` + body + `</span>`, nil
}

// Version reports the KaTeX release the output and fonts track.
func (e *Engine) Version() string { return katexVersion }

// Stylesheet returns the engine's CSS with font URLs still relative.
func (e *Engine) Stylesheet() string {
	css, err := assets.MathStylesheet()
	if err != nil {
		return ""
	}
	return css
}

// expand applies user macros until the expression is stable.
func (e *Engine) expand(expression string) (string, error) {
	if len(e.macros) == 0 {
		return expression, nil
	}
	for round := 0; round < maxMacroRounds; round++ {
		replaced := false
		for _, m := range e.macros {
			next, n := replaceMacro(expression, m.name, m.body)
			if n > 0 {
				expression = next
				replaced = true
			}
		}
		if !replaced {
			return expression, nil
		}
	}
	return "", ErrMacroRecursion
}

// replaceMacro substitutes every occurrence of name not followed by a
// letter, since a trailing letter would extend the command name.
func replaceMacro(src, name, body string) (string, int) {
	var b strings.Builder
	count := 0
	for i := 0; i < len(src); {
		if strings.HasPrefix(src[i:], name) {
			end := i + len(name)
			if end >= len(src) || !isLetter(rune(src[end])) {
				b.WriteString(body)
				i = end
				count++
				continue
			}
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String(), count
}

func (e *Engine) fail(expression string, err error) (string, error) {
	if e.opts.ThrowOnError {
		return "", err
	}
	return fmt.Sprintf(`<span class="katex-error" style="color:%s" title="%s">%s</span>`,
		e.opts.ErrorColor, escapeText(err.Error()), escapeText(expression)), nil
}
