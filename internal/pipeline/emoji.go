package pipeline

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	emoji "github.com/yuin/goldmark-emoji"
	east "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark-emoji/definition"
)

// twemojiCDN hosts the SVG assets referenced by rendered emoji images.
const twemojiCDN = "https://cdn.jsdelivr.net/gh/jdecked/twemoji@16.0.1/assets/svg/"

// EmojiConfig controls the emoji pipeline stage. Shortcode enables
// :colon: syntax via the GitHub definition table, Unicode replaces
// literal emoji characters in text. Both produce the same image markup.
type EmojiConfig struct {
	Shortcode bool
	Unicode   bool
}

type emojiExtension struct {
	cfg EmojiConfig
}

// NewEmojiExtension returns the emoji stage for the given config.
// With both flavors disabled the extension is a no-op.
func NewEmojiExtension(cfg EmojiConfig) goldmark.Extender {
	return &emojiExtension{cfg: cfg}
}

func (e *emojiExtension) Extend(m goldmark.Markdown) {
	if !e.cfg.Shortcode && !e.cfg.Unicode {
		return
	}
	if e.cfg.Shortcode {
		// The upstream extension contributes the shortcode parser and
		// definition table. Its renderer is overridden below so both
		// flavors share one output shape.
		emoji.New(emoji.WithEmojis(definition.Github())).Extend(m)
	}
	if e.cfg.Unicode {
		m.Parser().AddOptions(parser.WithASTTransformers(
			util.Prioritized(&unicodeEmojiTransformer{}, emojiTransformerPriority),
		))
	}
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(newEmojiRenderer(), emojiRendererPriority),
	))
}

// unicodeEmojiTransformer replaces literal emoji sequences in text nodes
// with the same node type the shortcode parser produces.
type unicodeEmojiTransformer struct{}

func (t *unicodeEmojiTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var texts []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindCodeSpan {
			return ast.WalkSkipChildren, nil
		}
		if tn, ok := n.(*ast.Text); ok {
			texts = append(texts, tn)
		}
		return ast.WalkContinue, nil
	})

	for _, tn := range texts {
		t.replaceInText(tn, source)
	}
}

func (t *unicodeEmojiTransformer) replaceInText(node *ast.Text, source []byte) {
	parent := node.Parent()
	if parent == nil {
		return
	}
	seg := node.Segment
	value := seg.Value(source)
	runs := findEmojiRuns(value)
	if len(runs) == 0 {
		return
	}

	var pieces []ast.Node
	pos := 0
	for _, run := range runs {
		if run[0] > pos {
			pieces = append(pieces, ast.NewTextSegment(text.NewSegment(seg.Start+pos, seg.Start+run[0])))
		}
		raw := value[run[0]:run[1]]
		pieces = append(pieces, east.NewEmoji(raw, &definition.Emoji{
			Name:    string(raw),
			Unicode: []rune(string(raw)),
		}))
		pos = run[1]
	}
	if pos < len(value) {
		tail := ast.NewTextSegment(text.NewSegment(seg.Start+pos, seg.Stop))
		tail.SetSoftLineBreak(node.SoftLineBreak())
		tail.SetHardLineBreak(node.HardLineBreak())
		pieces = append(pieces, tail)
	} else if node.SoftLineBreak() || node.HardLineBreak() {
		// Text ended on an emoji; keep the line break on an empty tail
		// so adjacent words stay separated.
		tail := ast.NewTextSegment(text.NewSegment(seg.Stop, seg.Stop))
		tail.SetSoftLineBreak(node.SoftLineBreak())
		tail.SetHardLineBreak(node.HardLineBreak())
		pieces = append(pieces, tail)
	}

	for _, p := range pieces {
		parent.InsertBefore(parent, node, p)
	}
	parent.RemoveChild(parent, node)
}

// findEmojiRuns returns byte ranges of emoji sequences in value.
// A sequence is a base emoji plus any variation selectors, skin tone
// modifiers, and ZWJ-joined continuations. Regional indicators pair up
// into flags.
func findEmojiRuns(value []byte) [][2]int {
	var runs [][2]int
	i := 0
	for i < len(value) {
		r, size := utf8.DecodeRune(value[i:])
		if !isEmojiBase(r) {
			i += size
			continue
		}
		start := i
		i += size

		if isRegionalIndicator(r) {
			if r2, s2 := utf8.DecodeRune(value[i:]); isRegionalIndicator(r2) {
				i += s2
			}
			runs = append(runs, [2]int{start, i})
			continue
		}

	sequence:
		for i < len(value) {
			r2, s2 := utf8.DecodeRune(value[i:])
			switch {
			case r2 == runeVS16 || isEmojiModifier(r2):
				i += s2
			case r2 == runeZWJ:
				r3, s3 := utf8.DecodeRune(value[i+s2:])
				if !isEmojiBase(r3) {
					break sequence
				}
				i += s2 + s3
			default:
				break sequence
			}
		}
		runs = append(runs, [2]int{start, i})
	}
	return runs
}

const (
	runeZWJ  = 0x200D
	runeVS16 = 0xFE0F
)

func isEmojiBase(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF, // symbols and pictographs
		r >= 0x1F600 && r <= 0x1F64F, // emoticons
		r >= 0x1F680 && r <= 0x1F6FF, // transport
		r >= 0x1F900 && r <= 0x1F9FF, // supplemental
		r >= 0x1FA70 && r <= 0x1FAFF, // extended-A
		r >= 0x2600 && r <= 0x26FF, // misc symbols
		r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	case isRegionalIndicator(r):
		return true
	case r == 0x2B1B || r == 0x2B1C || r == 0x2B50 || r == 0x2B55:
		return true
	}
	return false
}

func isEmojiModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

// emojiRenderer renders emoji nodes as twemoji images regardless of
// whether they came from a shortcode or a literal character.
type emojiRenderer struct{}

func newEmojiRenderer() renderer.NodeRenderer {
	return &emojiRenderer{}
}

func (r *emojiRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(east.KindEmoji, r.renderEmoji)
}

func (r *emojiRenderer) renderEmoji(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*east.Emoji)
	if n.Value == nil || !n.Value.IsUnicode() {
		// Custom definitions without codepoints keep the shortcode visible.
		_, _ = w.WriteString(`<span class="emoji">:`)
		_, _ = w.Write(util.EscapeHTML(n.ShortName))
		_, _ = w.WriteString(`:</span>`)
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<img class="emoji" draggable="false" alt="`)
	_, _ = w.Write(util.EscapeHTML([]byte(string(n.Value.Unicode))))
	_, _ = w.WriteString(`" src="`)
	_, _ = w.WriteString(twemojiCDN)
	_, _ = w.WriteString(twemojiCode(n.Value.Unicode))
	_, _ = w.WriteString(`.svg" />`)
	return ast.WalkContinue, nil
}

// twemojiCode converts an emoji rune sequence to a twemoji asset name:
// lowercase hex codepoints joined by dashes. Twemoji drops the VS16
// selector from names unless the sequence contains a ZWJ joiner.
func twemojiCode(runes []rune) string {
	hasZWJ := false
	for _, r := range runes {
		if r == runeZWJ {
			hasZWJ = true
			break
		}
	}
	parts := make([]string, 0, len(runes))
	for _, r := range runes {
		if r == runeVS16 && !hasZWJ {
			continue
		}
		parts = append(parts, strconv.FormatInt(int64(r), 16))
	}
	return strings.Join(parts, "-")
}
