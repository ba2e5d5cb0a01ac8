package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// - loadEnvConfig: we verify each variable lands in the right field and that
//   invalid or non-positive numeric values are silently ignored.
// - applyEnvConfig: we verify the precedence contract (env overrides defaults,
//   explicit config values win over env).
// - TestKnownEnvVars guards the typo-detection map against drift when new
//   variables are added.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-md2deck/internal/config"
)

// clearEnv blanks all known MD2DECK_* variables for the test's duration,
// so ambient environment does not leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("loads all string values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MD2DECK_CONFIG", "ci-config")
		t.Setenv("MD2DECK_THEME", "aurora")
		t.Setenv("MD2DECK_HIGHLIGHT", "dracula")
		t.Setenv("MD2DECK_INPUT_DIR", "/decks")
		t.Setenv("MD2DECK_OUTPUT_DIR", "/out")
		t.Setenv("MD2DECK_FORMAT", "pdf")
		t.Setenv("MD2DECK_MATH_FONTS", "/fonts/katex")
		t.Setenv("MD2DECK_ADDR", ":9090")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "ci-config" {
			t.Errorf("ConfigPath = %q, want %q", cfg.ConfigPath, "ci-config")
		}
		if cfg.Theme != "aurora" {
			t.Errorf("Theme = %q, want %q", cfg.Theme, "aurora")
		}
		if cfg.Highlight != "dracula" {
			t.Errorf("Highlight = %q, want %q", cfg.Highlight, "dracula")
		}
		if cfg.InputDir != "/decks" {
			t.Errorf("InputDir = %q, want %q", cfg.InputDir, "/decks")
		}
		if cfg.OutputDir != "/out" {
			t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/out")
		}
		if cfg.Format != "pdf" {
			t.Errorf("Format = %q, want %q", cfg.Format, "pdf")
		}
		if cfg.MathFonts != "/fonts/katex" {
			t.Errorf("MathFonts = %q, want %q", cfg.MathFonts, "/fonts/katex")
		}
		if cfg.Addr != ":9090" {
			t.Errorf("Addr = %q, want %q", cfg.Addr, ":9090")
		}
	})

	t.Run("loads timeout duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MD2DECK_TIMEOUT", "90s")

		cfg := loadEnvConfig()

		if cfg.Timeout != 90*time.Second {
			t.Errorf("Timeout = %v, want %v", cfg.Timeout, 90*time.Second)
		}
	})

	t.Run("ignores invalid timeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MD2DECK_TIMEOUT", "not-a-duration")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 for invalid value", cfg.Timeout)
		}
	})

	t.Run("ignores negative timeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MD2DECK_TIMEOUT", "-30s")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 for negative value", cfg.Timeout)
		}
	})

	t.Run("loads worker count", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MD2DECK_WORKERS", "4")

		cfg := loadEnvConfig()

		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("ignores invalid worker count", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MD2DECK_WORKERS", "many")

		cfg := loadEnvConfig()

		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0 for invalid value", cfg.Workers)
		}
	})

	t.Run("ignores non-positive worker count", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MD2DECK_WORKERS", "-2")

		cfg := loadEnvConfig()

		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0 for negative value", cfg.Workers)
		}
	})

	t.Run("empty environment gives zero values", func(t *testing.T) {
		clearEnv(t)

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "" || cfg.Theme != "" || cfg.Highlight != "" {
			t.Errorf("string fields not empty: %+v", cfg)
		}
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0", cfg.Workers)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("warns on unknown MD2DECK_ variable", func(t *testing.T) {
		t.Setenv("MD2DECK_TEHME", "aurora") // typo of THEME

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		out := buf.String()
		if !strings.Contains(out, "MD2DECK_TEHME") {
			t.Errorf("output %q should mention the unknown variable", out)
		}
		if !strings.Contains(out, "typo") {
			t.Errorf("output %q should suggest a typo", out)
		}
	})

	t.Run("silent for known variables", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MD2DECK_THEME", "aurora")
		t.Setenv("MD2DECK_TIMEOUT", "60s")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if got := buf.String(); got != "" {
			t.Errorf("expected no warnings, got %q", got)
		}
	})

	t.Run("ignores variables without prefix", func(t *testing.T) {
		t.Setenv("OTHERAPP_THEME", "whatever")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "OTHERAPP_THEME") {
			t.Errorf("should not warn about non-MD2DECK variables, got %q", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Precedence rules
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("env overrides default values", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{
			Theme:     "aurora",
			Highlight: "dracula",
			InputDir:  "/decks",
			OutputDir: "/out",
			Format:    "pdf",
			MathFonts: "/fonts",
			Addr:      ":9090",
			Workers:   3,
		}
		cfg := config.DefaultConfig()

		applyEnvConfig(env, cfg)

		if cfg.Theme.Name != "aurora" {
			t.Errorf("Theme.Name = %q, want %q", cfg.Theme.Name, "aurora")
		}
		if cfg.Highlight.Style != "dracula" {
			t.Errorf("Highlight.Style = %q, want %q", cfg.Highlight.Style, "dracula")
		}
		if cfg.Input.DefaultDir != "/decks" {
			t.Errorf("Input.DefaultDir = %q, want %q", cfg.Input.DefaultDir, "/decks")
		}
		if cfg.Output.DefaultDir != "/out" {
			t.Errorf("Output.DefaultDir = %q, want %q", cfg.Output.DefaultDir, "/out")
		}
		if cfg.Output.Format != "pdf" {
			t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "pdf")
		}
		if cfg.Math.FontPath != "/fonts" {
			t.Errorf("Math.FontPath = %q, want %q", cfg.Math.FontPath, "/fonts")
		}
		if cfg.Serve.Addr != ":9090" {
			t.Errorf("Serve.Addr = %q, want %q", cfg.Serve.Addr, ":9090")
		}
		if cfg.Export.Workers != 3 {
			t.Errorf("Export.Workers = %d, want 3", cfg.Export.Workers)
		}
	})

	t.Run("explicit config values win over env", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{
			Theme:     "aurora",
			Highlight: "dracula",
			Format:    "png",
			Addr:      ":9090",
			Workers:   3,
		}
		cfg := config.DefaultConfig()
		cfg.Theme.Name = "mono"
		cfg.Highlight.Style = "monokai"
		cfg.Output.Format = "pdf"
		cfg.Serve.Addr = ":3000"
		cfg.Export.Workers = 6

		applyEnvConfig(env, cfg)

		if cfg.Theme.Name != "mono" {
			t.Errorf("Theme.Name = %q, config value should win", cfg.Theme.Name)
		}
		if cfg.Highlight.Style != "monokai" {
			t.Errorf("Highlight.Style = %q, config value should win", cfg.Highlight.Style)
		}
		if cfg.Output.Format != "pdf" {
			t.Errorf("Output.Format = %q, config value should win", cfg.Output.Format)
		}
		if cfg.Serve.Addr != ":3000" {
			t.Errorf("Serve.Addr = %q, config value should win", cfg.Serve.Addr)
		}
		if cfg.Export.Workers != 6 {
			t.Errorf("Export.Workers = %d, config value should win", cfg.Export.Workers)
		}
	})

	t.Run("empty env is a no-op", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{}
		cfg := config.DefaultConfig()
		want := config.DefaultConfig()

		applyEnvConfig(env, cfg)

		if cfg.Theme.Name != want.Theme.Name {
			t.Errorf("Theme.Name changed to %q", cfg.Theme.Name)
		}
		if cfg.Output.Format != want.Output.Format {
			t.Errorf("Output.Format changed to %q", cfg.Output.Format)
		}
		if cfg.Serve.Addr != want.Serve.Addr {
			t.Errorf("Serve.Addr changed to %q", cfg.Serve.Addr)
		}
		if cfg.Export.Workers != want.Export.Workers {
			t.Errorf("Export.Workers changed to %d", cfg.Export.Workers)
		}
	})
}

// ---------------------------------------------------------------------------
// TestKnownEnvVars - Typo map completeness
// ---------------------------------------------------------------------------

func TestKnownEnvVars(t *testing.T) {
	t.Parallel()
	// All documented variables must be in the known set, or users get
	// spurious typo warnings for legitimate configuration.
	expected := []string{
		"MD2DECK_CONFIG",
		"MD2DECK_THEME",
		"MD2DECK_HIGHLIGHT",
		"MD2DECK_INPUT_DIR",
		"MD2DECK_OUTPUT_DIR",
		"MD2DECK_FORMAT",
		"MD2DECK_MATH_FONTS",
		"MD2DECK_ADDR",
		"MD2DECK_TIMEOUT",
		"MD2DECK_WORKERS",
		"MD2DECK_CONTAINER",
	}

	for _, name := range expected {
		if !knownEnvVars[name] {
			t.Errorf("knownEnvVars missing %s", name)
		}
	}

	if len(knownEnvVars) != len(expected) {
		t.Errorf("knownEnvVars has %d entries, expected %d; update this test when adding variables",
			len(knownEnvVars), len(expected))
	}
}
