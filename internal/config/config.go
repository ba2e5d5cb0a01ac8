package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field limits for configs coming from untrusted sources.
const (
	MaxThemeNameLength = 100  // Theme name
	MaxStyleNameLength = 50   // chroma style name
	MaxFormatLength    = 10   // "html", "pdf", "png"
	MaxPathLength      = 2048 // File paths and font bases
	MaxAddrLength      = 256  // host:port listen address
	MaxMacroCount      = 200  // Number of math macros
	MaxMacroLength     = 1000 // Single macro definition
)

// Config holds all configuration for deck generation.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Theme     ThemeConfig     `yaml:"theme"`
	Math      MathConfig      `yaml:"math"`
	Emoji     EmojiConfig     `yaml:"emoji"`
	Highlight HighlightConfig `yaml:"highlight"`
	HTML      HTMLConfig      `yaml:"html"`
	Export    ExportConfig    `yaml:"export"`
	Serve     ServeConfig     `yaml:"serve"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Format     string `yaml:"format"`     // "html", "pdf", "png" (default: "html")
}

// ThemeConfig selects the deck theme.
type ThemeConfig struct {
	Name string `yaml:"name"` // Built-in or registered theme name (default: "default")
	Path string `yaml:"path"` // Optional CSS file registered as a custom theme
}

// MathConfig defines math typesetting options.
type MathConfig struct {
	Enabled      bool              `yaml:"enabled"`      // default: true
	FontPath     string            `yaml:"fontPath"`     // Rewrites math font URLs to this base
	BundledFonts bool              `yaml:"bundledFonts"` // Leave font URLs untouched
	Macros       map[string]string `yaml:"macros"`       // TeX macro expansions
}

// EmojiConfig defines emoji replacement options.
type EmojiConfig struct {
	Shortcode bool `yaml:"shortcode"` // default: true
	Unicode   bool `yaml:"unicode"`   // default: true
}

// HighlightConfig defines code highlighting options.
type HighlightConfig struct {
	Style string `yaml:"style"` // chroma style name (default: "github")
}

// HTMLConfig defines raw HTML passthrough options.
type HTMLConfig struct {
	Allow bool `yaml:"allow"` // default: false, raw HTML is escaped
}

// ExportConfig defines PDF/PNG export options.
type ExportConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"` // Per-export timeout (default: 30)
	Workers        int `yaml:"workers"`        // Browser instances for batch export (0 = auto)
}

// ServeConfig defines live-preview server options.
type ServeConfig struct {
	Addr           string `yaml:"addr"`           // Listen address (default: ":8080")
	PollIntervalMS int    `yaml:"pollIntervalMS"` // File poll interval (default: 500)
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Output:    OutputConfig{Format: "html"},
		Theme:     ThemeConfig{Name: "default"},
		Math:      MathConfig{Enabled: true},
		Emoji:     EmojiConfig{Shortcode: true, Unicode: true},
		Highlight: HighlightConfig{Style: "github"},
		Export:    ExportConfig{TimeoutSeconds: 30},
		Serve:     ServeConfig{Addr: ":8080", PollIntervalMS: 500},
	}
}

// Validate checks field lengths and value ranges. Called automatically
// by LoadConfig, but available for consumers who construct Config
// manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.format", c.Output.Format, MaxFormatLength); err != nil {
		return err
	}
	if c.Output.Format != "" {
		switch strings.ToLower(c.Output.Format) {
		case "html", "pdf", "png":
			// valid
		default:
			return fmt.Errorf("output.format: invalid value %q (must be html, pdf, or png)", c.Output.Format)
		}
	}

	if err := validateFieldLength("theme.name", c.Theme.Name, MaxThemeNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("theme.path", c.Theme.Path, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("math.fontPath", c.Math.FontPath, MaxPathLength); err != nil {
		return err
	}
	if len(c.Math.Macros) > MaxMacroCount {
		return fmt.Errorf("math.macros: too many entries (%d, max %d)", len(c.Math.Macros), MaxMacroCount)
	}
	for name, body := range c.Math.Macros {
		if len(name) > MaxMacroLength {
			return fmt.Errorf("%w: math.macros key (%d chars, max %d)", ErrFieldTooLong, len(name), MaxMacroLength)
		}
		if err := validateFieldLength("math.macros["+name+"]", body, MaxMacroLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleNameLength); err != nil {
		return err
	}

	if c.Export.TimeoutSeconds < 0 {
		return fmt.Errorf("export.timeoutSeconds: must not be negative, got %d", c.Export.TimeoutSeconds)
	}
	if c.Export.Workers < 0 {
		return fmt.Errorf("export.workers: must not be negative, got %d", c.Export.Workers)
	}

	if err := validateFieldLength("serve.addr", c.Serve.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Serve.PollIntervalMS < 0 {
		return fmt.Errorf("serve.pollIntervalMS: must not be negative, got %d", c.Serve.PollIntervalMS)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or a config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Values absent from the file keep their defaults. Returns
// an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/md2deck/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "md2deck", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
