package pipeline

import (
	"regexp"
	"strings"
	"testing"
)

var emojiImgPattern = regexp.MustCompile(`<img class="emoji"[^>]*>`)

func TestEmojiShortcodeAndUnicodeMatch(t *testing.T) {
	t.Parallel()

	cfg := Config{Emoji: EmojiConfig{Shortcode: true, Unicode: true}}

	fromShortcode, _ := renderDeck(t, cfg, "Ship it :+1:\n")
	fromUnicode, _ := renderDeck(t, cfg, "Ship it \U0001F44D\n")

	imgA := emojiImgPattern.FindString(fromShortcode)
	imgB := emojiImgPattern.FindString(fromUnicode)
	if imgA == "" || imgB == "" {
		t.Fatalf("expected emoji images in both outputs\nshortcode: %s\nunicode: %s", fromShortcode, fromUnicode)
	}
	if imgA != imgB {
		t.Errorf("shortcode and unicode markup differ:\n%s\n%s", imgA, imgB)
	}
	if !strings.Contains(imgA, "1f44d.svg") {
		t.Errorf("unexpected asset reference: %s", imgA)
	}
}

func TestEmojiShortcodeDisabled(t *testing.T) {
	t.Parallel()

	cfg := Config{Emoji: EmojiConfig{Shortcode: false, Unicode: true}}
	html, _ := renderDeck(t, cfg, "Ship it :+1:\n")

	if !strings.Contains(html, ":+1:") {
		t.Errorf("shortcode should stay literal: %s", html)
	}
	if strings.Contains(html, `<img class="emoji"`) {
		t.Errorf("unexpected emoji image: %s", html)
	}
}

func TestEmojiUnicodeDisabled(t *testing.T) {
	t.Parallel()

	cfg := Config{Emoji: EmojiConfig{Shortcode: true, Unicode: false}}
	html, _ := renderDeck(t, cfg, "Ship it \U0001F44D\n")

	if !strings.Contains(html, "\U0001F44D") {
		t.Errorf("literal emoji should stay untouched: %s", html)
	}
	if strings.Contains(html, `<img class="emoji"`) {
		t.Errorf("unexpected emoji image: %s", html)
	}
}

func TestEmojiBothDisabled(t *testing.T) {
	t.Parallel()

	cfg := Config{Emoji: EmojiConfig{}}
	html, _ := renderDeck(t, cfg, ":+1: \U0001F44D\n")

	if strings.Contains(html, `<img class="emoji"`) {
		t.Errorf("unexpected emoji image: %s", html)
	}
}

func TestEmojiInsideCodeSpanUntouched(t *testing.T) {
	t.Parallel()

	cfg := Config{Emoji: EmojiConfig{Shortcode: true, Unicode: true}}
	html, _ := renderDeck(t, cfg, "Use `\U0001F44D` verbatim\n")

	if !strings.Contains(html, "<code>\U0001F44D</code>") {
		t.Errorf("code span content should stay literal: %s", html)
	}
}

func TestFindEmojiRuns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantRuns []string
	}{
		{
			name:     "plain text",
			input:    "hello world",
			wantRuns: nil,
		},
		{
			name:     "single emoji",
			input:    "a \U0001F44D b",
			wantRuns: []string{"\U0001F44D"},
		},
		{
			name:     "adjacent emoji split into runs",
			input:    "\U0001F44D\U0001F680",
			wantRuns: []string{"\U0001F44D", "\U0001F680"},
		},
		{
			name:     "skin tone absorbed",
			input:    "\U0001F44D\U0001F3FD",
			wantRuns: []string{"\U0001F44D\U0001F3FD"},
		},
		{
			name:     "zwj sequence stays whole",
			input:    "\U0001F469‍\U0001F4BB",
			wantRuns: []string{"\U0001F469‍\U0001F4BB"},
		},
		{
			name:     "flag pairs regional indicators",
			input:    "\U0001F1EB\U0001F1F7",
			wantRuns: []string{"\U0001F1EB\U0001F1F7"},
		},
		{
			name:     "variation selector absorbed",
			input:    "❤️",
			wantRuns: []string{"❤️"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			value := []byte(tt.input)
			runs := findEmojiRuns(value)
			var got []string
			for _, r := range runs {
				got = append(got, string(value[r[0]:r[1]]))
			}
			if len(got) != len(tt.wantRuns) {
				t.Fatalf("findEmojiRuns() = %q, want %q", got, tt.wantRuns)
			}
			for i := range got {
				if got[i] != tt.wantRuns[i] {
					t.Errorf("run %d = %q, want %q", i, got[i], tt.wantRuns[i])
				}
			}
		})
	}
}

func TestTwemojiCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		runes []rune
		want  string
	}{
		{
			name:  "single codepoint",
			runes: []rune{0x1F44D},
			want:  "1f44d",
		},
		{
			name:  "variation selector dropped",
			runes: []rune{0x2764, 0xFE0F},
			want:  "2764",
		},
		{
			name:  "zwj joins codepoints",
			runes: []rune{0x1F469, 0x200D, 0x1F4BB},
			want:  "1f469-200d-1f4bb",
		},
		{
			name:  "variation selector kept in zwj sequence",
			runes: []rune{0x2764, 0xFE0F, 0x200D, 0x1F525},
			want:  "2764-fe0f-200d-1f525",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := twemojiCode(tt.runes); got != tt.want {
				t.Errorf("twemojiCode() = %q, want %q", got, tt.want)
			}
		})
	}
}
