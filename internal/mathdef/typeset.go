package mathdef

import (
	"fmt"
	"strings"
)

// typesetter walks a TeX expression and emits HTML spans classed for the
// bundled stylesheet. It covers the subset of TeX that slide decks use:
// symbols, scripts, fractions, radicals, text runs, and delimiters.
type typesetter struct {
	src []rune
	pos int
}

func typeset(expression string) (string, error) {
	t := &typesetter{src: []rune(strings.TrimSpace(expression))}
	var b strings.Builder
	if err := t.sequence(&b, false); err != nil {
		return "", err
	}
	return b.String(), nil
}

// sequence emits items until the end of input, or until an unconsumed
// closing brace when inGroup is set.
func (t *typesetter) sequence(b *strings.Builder, inGroup bool) error {
	for {
		t.skipSpace()
		if t.pos >= len(t.src) {
			if inGroup {
				return fmt.Errorf("%w: missing }", ErrUnbalancedBraces)
			}
			return nil
		}
		if t.src[t.pos] == '}' {
			if inGroup {
				return nil
			}
			return fmt.Errorf("%w: stray }", ErrUnbalancedBraces)
		}
		if err := t.item(b); err != nil {
			return err
		}
	}
}

// item is an atom with any number of attached scripts.
func (t *typesetter) item(b *strings.Builder) error {
	base, err := t.atom(false)
	if err != nil {
		return err
	}
	b.WriteString(base)

	for t.pos < len(t.src) && (t.src[t.pos] == '^' || t.src[t.pos] == '_') {
		marker := t.src[t.pos]
		t.pos++
		arg, err := t.atom(true)
		if err != nil {
			return fmt.Errorf("%w: after %c", err, marker)
		}
		if marker == '^' {
			b.WriteString("<sup>" + arg + "</sup>")
		} else {
			b.WriteString("<sub>" + arg + "</sub>")
		}
	}
	return nil
}

// atom parses one group, command, or character. In argument position a
// letter or digit run yields a single character, matching how TeX binds
// script and command arguments.
func (t *typesetter) atom(argument bool) (string, error) {
	t.skipSpace()
	if t.pos >= len(t.src) {
		return "", ErrMissingOperand
	}

	r := t.src[t.pos]
	switch {
	case r == '{':
		t.pos++
		var b strings.Builder
		if err := t.sequence(&b, true); err != nil {
			return "", err
		}
		t.pos++ // consume }
		return b.String(), nil
	case r == '\\':
		return t.command()
	case r == '^' || r == '_':
		return "", fmt.Errorf("%w: before %c", ErrMissingOperand, r)
	case isLetter(r):
		if argument {
			t.pos++
			return letterSpan(string(r)), nil
		}
		return letterSpan(t.run(isLetter)), nil
	case isDigit(r):
		if argument {
			t.pos++
			return escapeRune(r), nil
		}
		return escapeText(t.run(isNumeric)), nil
	default:
		t.pos++
		return escapeRune(r), nil
	}
}

// command parses a backslash command and its arguments.
func (t *typesetter) command() (string, error) {
	t.pos++ // consume backslash
	if t.pos >= len(t.src) {
		return "", fmt.Errorf("%w: dangling backslash", ErrMissingOperand)
	}

	if !isLetter(t.src[t.pos]) {
		r := t.src[t.pos]
		t.pos++
		if out, ok := charCommands[r]; ok {
			return out, nil
		}
		return "", fmt.Errorf("%w: \\%c", ErrUnknownCommand, r)
	}

	name := t.run(isLetter)
	switch name {
	case "frac", "dfrac", "tfrac":
		num, err := t.atom(true)
		if err != nil {
			return "", fmt.Errorf("%w: \\%s numerator", err, name)
		}
		den, err := t.atom(true)
		if err != nil {
			return "", fmt.Errorf("%w: \\%s denominator", err, name)
		}
		return `<span class="mfrac"><span class="mfrac-num">` + num +
			`</span><span class="mfrac-den">` + den + `</span></span>`, nil

	case "sqrt":
		index := ""
		t.skipSpace()
		if t.pos < len(t.src) && t.src[t.pos] == '[' {
			raw, err := t.rawUntil(']')
			if err != nil {
				return "", fmt.Errorf("%w: \\sqrt index", err)
			}
			index = "<sup>" + escapeText(raw) + "</sup>"
		}
		body, err := t.atom(true)
		if err != nil {
			return "", fmt.Errorf("%w: \\sqrt", err)
		}
		return index + `<span class="sqrt">&#8730;<span class="sqrt-body">` +
			body + `</span></span>`, nil

	case "text", "mathrm", "textrm", "operatorname":
		t.skipSpace()
		if t.pos >= len(t.src) || t.src[t.pos] != '{' {
			return "", fmt.Errorf("%w: \\%s", ErrMissingOperand, name)
		}
		raw, err := t.rawUntil('}')
		if err != nil {
			return "", fmt.Errorf("%w: \\%s", err, name)
		}
		return `<span class="math-text">` + escapeText(raw) + `</span>`, nil

	case "mathbb":
		t.skipSpace()
		if t.pos >= len(t.src) || t.src[t.pos] != '{' {
			return "", fmt.Errorf("%w: \\mathbb", ErrMissingOperand)
		}
		raw, err := t.rawUntil('}')
		if err != nil {
			return "", fmt.Errorf("%w: \\mathbb", err)
		}
		var out strings.Builder
		for _, c := range raw {
			if bb, ok := blackboard[c]; ok {
				out.WriteString(bb)
			} else {
				out.WriteString(escapeRune(c))
			}
		}
		return out.String(), nil

	case "left", "right":
		return t.delimiter(name)
	}

	if sym, ok := italicSymbols[name]; ok {
		return letterSpan(sym), nil
	}
	if sym, ok := plainSymbols[name]; ok {
		return escapeText(sym), nil
	}
	if sym, ok := largeOperators[name]; ok {
		return `<span class="math-op">` + sym + `</span>`, nil
	}
	if fn, ok := namedFunctions[name]; ok {
		return `<span class="math-text">` + fn + `</span>`, nil
	}
	return "", fmt.Errorf("%w: \\%s", ErrUnknownCommand, name)
}

// delimiter handles \left and \right, which size their delimiter to the
// enclosed material in TeX. Here the delimiter is emitted as-is and the
// sizing is left to line-height.
func (t *typesetter) delimiter(name string) (string, error) {
	t.skipSpace()
	if t.pos >= len(t.src) {
		return "", fmt.Errorf("%w: \\%s", ErrMissingOperand, name)
	}
	r := t.src[t.pos]
	if r == '\\' {
		return t.command()
	}
	t.pos++
	if r == '.' {
		return "", nil
	}
	return escapeRune(r), nil
}

// rawUntil consumes an opening bracket at the current position and
// returns the literal text up to the matching close rune.
func (t *typesetter) rawUntil(close rune) (string, error) {
	t.pos++ // consume opener
	start := t.pos
	for t.pos < len(t.src) {
		if t.src[t.pos] == close {
			raw := string(t.src[start:t.pos])
			t.pos++
			return raw, nil
		}
		t.pos++
	}
	return "", fmt.Errorf("%w: missing %c", ErrUnbalancedBraces, close)
}

// run consumes and returns the longest prefix matching class.
func (t *typesetter) run(class func(rune) bool) string {
	start := t.pos
	for t.pos < len(t.src) && class(t.src[t.pos]) {
		t.pos++
	}
	return string(t.src[start:t.pos])
}

func (t *typesetter) skipSpace() {
	for t.pos < len(t.src) && isSpace(t.src[t.pos]) {
		t.pos++
	}
}

func letterSpan(s string) string {
	return `<span class="math-italic">` + s + `</span>`
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNumeric(r rune) bool {
	return isDigit(r) || r == '.'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(escapeRune(r))
	}
	return b.String()
}

func escapeRune(r rune) string {
	switch r {
	case '<':
		return "&lt;"
	case '>':
		return "&gt;"
	case '&':
		return "&amp;"
	case '"':
		return "&quot;"
	}
	return string(r)
}
