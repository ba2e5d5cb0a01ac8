package main

// Notes:
// - parseConvertFlags/parseExportFlags/parseServeFlags: we test all flag
//   combinations including short/long forms, boolean flags, value flags,
//   and positional arguments.
// - We don't test pflag.Parse() internals (library responsibility).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"io"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Convert command flag parsing
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		args           []string
		wantConfig     string
		wantOutput     string
		wantTheme      string
		wantThemeFile  string
		wantHighlight  string
		wantHTML       bool
		wantNoMath     bool
		wantNoEmoji    bool
		wantQuiet      bool
		wantVerbose    bool
		wantWorkers    int
		wantPositional []string
		wantErr        bool
	}{
		{
			name:           "no args",
			args:           []string{},
			wantPositional: []string{},
		},
		{
			name:           "single file",
			args:           []string{"deck.md"},
			wantPositional: []string{"deck.md"},
		},
		{
			name:           "config flag",
			args:           []string{"--config", "work"},
			wantConfig:     "work",
			wantPositional: []string{},
		},
		{
			name:           "output flag short",
			args:           []string{"-o", "./out/"},
			wantOutput:     "./out/",
			wantPositional: []string{},
		},
		{
			name:           "theme flag",
			args:           []string{"--theme", "aurora"},
			wantTheme:      "aurora",
			wantPositional: []string{},
		},
		{
			name:           "theme flag short",
			args:           []string{"-T", "mono"},
			wantTheme:      "mono",
			wantPositional: []string{},
		},
		{
			name:           "theme-css flag",
			args:           []string{"--theme-css", "custom.css"},
			wantThemeFile:  "custom.css",
			wantPositional: []string{},
		},
		{
			name:           "highlight flag",
			args:           []string{"--highlight", "dracula"},
			wantHighlight:  "dracula",
			wantPositional: []string{},
		},
		{
			name:           "html flag",
			args:           []string{"--html", "deck.md"},
			wantHTML:       true,
			wantPositional: []string{"deck.md"},
		},
		{
			name:           "no-math flag",
			args:           []string{"--no-math", "deck.md"},
			wantNoMath:     true,
			wantPositional: []string{"deck.md"},
		},
		{
			name:           "no-emoji flag",
			args:           []string{"--no-emoji", "deck.md"},
			wantNoEmoji:    true,
			wantPositional: []string{"deck.md"},
		},
		{
			name:           "quiet and verbose short",
			args:           []string{"-q", "-v", "deck.md"},
			wantQuiet:      true,
			wantVerbose:    true,
			wantPositional: []string{"deck.md"},
		},
		{
			name:           "workers flag",
			args:           []string{"--workers", "4", "deck.md"},
			wantWorkers:    4,
			wantPositional: []string{"deck.md"},
		},
		{
			name:           "workers flag short",
			args:           []string{"-w", "2", "deck.md"},
			wantWorkers:    2,
			wantPositional: []string{"deck.md"},
		},
		{
			name:           "flags after positional argument",
			args:           []string{"deck.md", "-o", "./out/", "--verbose"},
			wantOutput:     "./out/",
			wantVerbose:    true,
			wantPositional: []string{"deck.md"},
		},
		{
			name:           "all flags with file",
			args:           []string{"-c", "work", "-o", "out/", "-T", "aurora", "--highlight", "monokai", "-v", "deck.md"},
			wantConfig:     "work",
			wantOutput:     "out/",
			wantTheme:      "aurora",
			wantHighlight:  "monokai",
			wantVerbose:    true,
			wantPositional: []string{"deck.md"},
		},
		{
			name:    "unknown flag returns error",
			args:    []string{"--unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, positional, err := parseConvertFlags(tt.args, io.Discard)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if flags.common.config != tt.wantConfig {
				t.Errorf("config = %q, want %q", flags.common.config, tt.wantConfig)
			}
			if flags.output != tt.wantOutput {
				t.Errorf("output = %q, want %q", flags.output, tt.wantOutput)
			}
			if flags.render.theme != tt.wantTheme {
				t.Errorf("theme = %q, want %q", flags.render.theme, tt.wantTheme)
			}
			if flags.render.themeFile != tt.wantThemeFile {
				t.Errorf("themeFile = %q, want %q", flags.render.themeFile, tt.wantThemeFile)
			}
			if flags.render.highlight != tt.wantHighlight {
				t.Errorf("highlight = %q, want %q", flags.render.highlight, tt.wantHighlight)
			}
			if flags.render.html != tt.wantHTML {
				t.Errorf("html = %v, want %v", flags.render.html, tt.wantHTML)
			}
			if flags.render.noMath != tt.wantNoMath {
				t.Errorf("noMath = %v, want %v", flags.render.noMath, tt.wantNoMath)
			}
			if flags.render.noEmoji != tt.wantNoEmoji {
				t.Errorf("noEmoji = %v, want %v", flags.render.noEmoji, tt.wantNoEmoji)
			}
			if flags.common.quiet != tt.wantQuiet {
				t.Errorf("quiet = %v, want %v", flags.common.quiet, tt.wantQuiet)
			}
			if flags.common.verbose != tt.wantVerbose {
				t.Errorf("verbose = %v, want %v", flags.common.verbose, tt.wantVerbose)
			}
			if flags.workers != tt.wantWorkers {
				t.Errorf("workers = %d, want %d", flags.workers, tt.wantWorkers)
			}
			if len(positional) != len(tt.wantPositional) {
				t.Errorf("positional args = %v, want %v", positional, tt.wantPositional)
			}
			for i := range positional {
				if positional[i] != tt.wantPositional[i] {
					t.Errorf("positional[%d] = %q, want %q", i, positional[i], tt.wantPositional[i])
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseExportFlags - Export command flag parsing
// ---------------------------------------------------------------------------

func TestParseExportFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, f *exportFlags)
	}{
		{
			name: "format flag",
			args: []string{"--format", "png"},
			check: func(t *testing.T, f *exportFlags) {
				if f.format != "png" {
					t.Errorf("format = %q, want %q", f.format, "png")
				}
			},
		},
		{
			name: "format flag short",
			args: []string{"-f", "pdf"},
			check: func(t *testing.T, f *exportFlags) {
				if f.format != "pdf" {
					t.Errorf("format = %q, want %q", f.format, "pdf")
				}
			},
		},
		{
			name: "timeout flag long form",
			args: []string{"--timeout", "2m"},
			check: func(t *testing.T, f *exportFlags) {
				if f.timeout != "2m" {
					t.Errorf("timeout = %q, want %q", f.timeout, "2m")
				}
			},
		},
		{
			name: "timeout flag short form",
			args: []string{"-t", "30s"},
			check: func(t *testing.T, f *exportFlags) {
				if f.timeout != "30s" {
					t.Errorf("timeout = %q, want %q", f.timeout, "30s")
				}
			},
		},
		{
			name: "timeout combined duration",
			args: []string{"--timeout", "1m30s"},
			check: func(t *testing.T, f *exportFlags) {
				if f.timeout != "1m30s" {
					t.Errorf("timeout = %q, want %q", f.timeout, "1m30s")
				}
			},
		},
		{
			name: "render flags shared with convert",
			args: []string{"-T", "aurora", "--no-math", "--math-fonts", "/fonts"},
			check: func(t *testing.T, f *exportFlags) {
				if f.render.theme != "aurora" {
					t.Errorf("theme = %q, want %q", f.render.theme, "aurora")
				}
				if !f.render.noMath {
					t.Error("noMath should be true")
				}
				if f.render.mathFonts != "/fonts" {
					t.Errorf("mathFonts = %q, want %q", f.render.mathFonts, "/fonts")
				}
			},
		},
		{
			name: "timeout with workers and output",
			args: []string{"--timeout", "5m", "--workers", "4", "-o", "out/"},
			check: func(t *testing.T, f *exportFlags) {
				if f.timeout != "5m" {
					t.Errorf("timeout = %q, want %q", f.timeout, "5m")
				}
				if f.workers != 4 {
					t.Errorf("workers = %d, want 4", f.workers)
				}
				if f.output != "out/" {
					t.Errorf("output = %q, want %q", f.output, "out/")
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, _, err := parseExportFlags(tt.args, io.Discard)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, flags)
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseServeFlags - Serve command flag parsing
// ---------------------------------------------------------------------------

func TestParseServeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		args           []string
		wantAddr       string
		wantPoll       int
		wantPositional []string
	}{
		{
			name:           "defaults",
			args:           []string{},
			wantPositional: []string{},
		},
		{
			name:           "addr flag",
			args:           []string{"--addr", ":3000"},
			wantAddr:       ":3000",
			wantPositional: []string{},
		},
		{
			name:           "addr flag short",
			args:           []string{"-a", "localhost:9090"},
			wantAddr:       "localhost:9090",
			wantPositional: []string{},
		},
		{
			name:           "poll flag",
			args:           []string{"--poll", "250"},
			wantPoll:       250,
			wantPositional: []string{},
		},
		{
			name:           "directory with flags",
			args:           []string{"./decks", "-a", ":8081", "--poll", "1000"},
			wantAddr:       ":8081",
			wantPoll:       1000,
			wantPositional: []string{"./decks"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, positional, err := parseServeFlags(tt.args, io.Discard)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if flags.addr != tt.wantAddr {
				t.Errorf("addr = %q, want %q", flags.addr, tt.wantAddr)
			}
			if flags.poll != tt.wantPoll {
				t.Errorf("poll = %d, want %d", flags.poll, tt.wantPoll)
			}
			if len(positional) != len(tt.wantPositional) {
				t.Errorf("positional args = %v, want %v", positional, tt.wantPositional)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseFlags_Help - Help flag behavior
// ---------------------------------------------------------------------------

func TestParseFlags_Help(t *testing.T) {
	t.Parallel()

	t.Run("convert --help returns ErrHelp and prints usage", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		_, _, err := parseConvertFlags([]string{"--help"}, &buf)

		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("err = %v, want flag.ErrHelp", err)
		}
		if !strings.Contains(buf.String(), "convert") {
			t.Errorf("usage output should mention convert, got %q", buf.String())
		}
	})

	t.Run("export --help returns ErrHelp", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseExportFlags([]string{"--help"}, io.Discard)
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("err = %v, want flag.ErrHelp", err)
		}
	})

	t.Run("serve --help returns ErrHelp", func(t *testing.T) {
		t.Parallel()

		_, _, err := parseServeFlags([]string{"--help"}, io.Discard)
		if !errors.Is(err, flag.ErrHelp) {
			t.Fatalf("err = %v, want flag.ErrHelp", err)
		}
	})
}
