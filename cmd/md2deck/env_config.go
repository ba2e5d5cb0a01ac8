package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2deck/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MD2DECK_CONFIG: config file name or path
	Theme      string        // MD2DECK_THEME: built-in theme name
	Highlight  string        // MD2DECK_HIGHLIGHT: code highlight style
	InputDir   string        // MD2DECK_INPUT_DIR: default input directory
	OutputDir  string        // MD2DECK_OUTPUT_DIR: default output directory
	Format     string        // MD2DECK_FORMAT: output format (html, pdf, png)
	MathFonts  string        // MD2DECK_MATH_FONTS: math font base URL or path
	Addr       string        // MD2DECK_ADDR: serve listen address
	Timeout    time.Duration // MD2DECK_TIMEOUT: export timeout
	Workers    int           // MD2DECK_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2DECK_* environment variables.
// Used to detect typos and warn users about unknown variables.
// MD2DECK_CONTAINER is read by doctor, not by config loading.
var knownEnvVars = map[string]bool{
	"MD2DECK_CONFIG":     true,
	"MD2DECK_THEME":      true,
	"MD2DECK_HIGHLIGHT":  true,
	"MD2DECK_INPUT_DIR":  true,
	"MD2DECK_OUTPUT_DIR": true,
	"MD2DECK_FORMAT":     true,
	"MD2DECK_MATH_FONTS": true,
	"MD2DECK_ADDR":       true,
	"MD2DECK_TIMEOUT":    true,
	"MD2DECK_WORKERS":    true,
	"MD2DECK_CONTAINER":  true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized MD2DECK_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2DECK_CONFIG"),
		Theme:      os.Getenv("MD2DECK_THEME"),
		Highlight:  os.Getenv("MD2DECK_HIGHLIGHT"),
		InputDir:   os.Getenv("MD2DECK_INPUT_DIR"),
		OutputDir:  os.Getenv("MD2DECK_OUTPUT_DIR"),
		Format:     os.Getenv("MD2DECK_FORMAT"),
		MathFonts:  os.Getenv("MD2DECK_MATH_FONTS"),
		Addr:       os.Getenv("MD2DECK_ADDR"),
	}

	if timeout := os.Getenv("MD2DECK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MD2DECK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2DECK_* variables.
// Helps catch typos like MD2DECK_TEHME instead of MD2DECK_THEME.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2DECK_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// A config value still at its default is treated as unset, so the
// precedence is: CLI flags > env vars > config file > defaults.
// (CLI flags are applied later via mergeRenderFlags.)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	def := config.DefaultConfig()

	if env.Theme != "" && cfg.Theme.Name == def.Theme.Name {
		cfg.Theme.Name = env.Theme
	}
	if env.Highlight != "" && cfg.Highlight.Style == def.Highlight.Style {
		cfg.Highlight.Style = env.Highlight
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Format != "" && cfg.Output.Format == def.Output.Format {
		cfg.Output.Format = env.Format
	}
	if env.MathFonts != "" && cfg.Math.FontPath == "" {
		cfg.Math.FontPath = env.MathFonts
	}
	if env.Addr != "" && cfg.Serve.Addr == def.Serve.Addr {
		cfg.Serve.Addr = env.Addr
	}
	if env.Workers > 0 && cfg.Export.Workers == 0 {
		cfg.Export.Workers = env.Workers
	}
	// Timeout is resolved separately in resolveTimeout so the flag can
	// carry a duration string.
}
