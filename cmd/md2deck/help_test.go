package main

// Notes:
// - Usage output is asserted on required content strings, not exact
//   formatting.
// - TestHelpMatchesLibrary keeps the documented theme names, highlight
//   default, and listen address in sync with the code.

import (
	"bytes"
	"strings"
	"testing"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/server"
)

// ---------------------------------------------------------------------------
// TestPrintUsage - Main usage output
// ---------------------------------------------------------------------------

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)
	output := buf.String()

	requiredStrings := []string{
		"Usage: md2deck",
		"Commands:",
		"convert",
		"export",
		"serve",
		"themes",
		"doctor",
		"version",
		"help",
		"shorthand",
	}

	for _, s := range requiredStrings {
		if !strings.Contains(output, s) {
			t.Errorf("printUsage output should contain %q", s)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPrintCommandUsage - Per-command usage output
// ---------------------------------------------------------------------------

func TestPrintConvertUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printConvertUsage(&buf)
	output := buf.String()

	required := []string{
		"Usage: md2deck convert",
		"Arguments:",
		"Input/Output:",
		"Rendering:",
		"Control:",
		"-o, --output",
		"-w, --workers",
		"-T, --theme",
		"--theme-css",
		"--highlight",
		"--html",
		"--no-math",
		"--math-fonts",
		"--bundled-fonts",
		"--no-emoji",
		"-c, --config",
		"-q, --quiet",
		"-v, --verbose",
	}

	for _, s := range required {
		if !strings.Contains(output, s) {
			t.Errorf("printConvertUsage output should contain %q", s)
		}
	}
}

func TestPrintExportUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printExportUsage(&buf)
	output := buf.String()

	required := []string{
		"Usage: md2deck export",
		"-f, --format",
		"pdf (default), png",
		"-t, --timeout",
		"30s, 2m",
		"doctor",
		"Rendering:",
		"Control:",
	}

	for _, s := range required {
		if !strings.Contains(output, s) {
			t.Errorf("printExportUsage output should contain %q", s)
		}
	}
}

func TestPrintServeUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printServeUsage(&buf)
	output := buf.String()

	required := []string{
		"Usage: md2deck serve",
		"-a, --addr",
		"--poll",
		"reload",
		"Rendering:",
		"Control:",
	}

	for _, s := range required {
		if !strings.Contains(output, s) {
			t.Errorf("printServeUsage output should contain %q", s)
		}
	}
}

// ---------------------------------------------------------------------------
// TestHelpMatchesLibrary - Documented values stay in sync with code
// ---------------------------------------------------------------------------

func TestHelpMatchesLibrary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printConvertUsage(&buf)
	output := buf.String()

	r, err := md2deck.NewRenderer()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}
	for _, name := range r.Themes().Names() {
		if !strings.Contains(output, name) {
			t.Errorf("help should list built-in theme %q", name)
		}
	}

	if !strings.Contains(output, "default: "+md2deck.DefaultHighlightStyle) {
		t.Errorf("help should document the %q highlight default", md2deck.DefaultHighlightStyle)
	}

	var serveBuf bytes.Buffer
	printServeUsage(&serveBuf)
	if !strings.Contains(serveBuf.String(), "default: "+server.DefaultAddr) {
		t.Errorf("serve help should document the %q listen default", server.DefaultAddr)
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp - Help topic routing
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows main usage",
			args:         nil,
			wantInStdout: []string{"Usage: md2deck", "Commands:"},
		},
		{
			name:         "convert topic",
			args:         []string{"convert"},
			wantInStdout: []string{"Usage: md2deck convert", "Rendering:"},
		},
		{
			name:         "export topic",
			args:         []string{"export"},
			wantInStdout: []string{"Usage: md2deck export", "-f, --format"},
		},
		{
			name:         "serve topic",
			args:         []string{"serve"},
			wantInStdout: []string{"Usage: md2deck serve", "-a, --addr"},
		},
		{
			name:         "themes topic",
			args:         []string{"themes"},
			wantInStdout: []string{"Usage: md2deck themes"},
		},
		{
			name:         "doctor topic",
			args:         []string{"doctor"},
			wantInStdout: []string{"Usage: md2deck doctor", "--json"},
		},
		{
			name:         "version topic",
			args:         []string{"version"},
			wantInStdout: []string{"Usage: md2deck version"},
		},
		{
			name:         "help topic",
			args:         []string{"help"},
			wantInStdout: []string{"Usage: md2deck help"},
		},
		{
			name:         "unknown command",
			args:         []string{"unknown"},
			wantInStderr: []string{"Unknown command: unknown", "Usage: md2deck"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv()

			runHelp(tt.args, env)

			for _, want := range tt.wantInStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, stderr.String())
				}
			}
		})
	}
}
