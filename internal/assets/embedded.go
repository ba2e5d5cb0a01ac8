package assets

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed themes/*
var themes embed.FS

//go:embed fragments/*
var fragments embed.FS

//go:embed math/*
var mathcss embed.FS

//go:embed script/*
var scripts embed.FS

// Theme returns the CSS for a built-in theme by name.
// The name should not include the .css extension.
func Theme(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := themes.ReadFile("themes/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	return string(content), nil
}

// ThemeNames returns the names of all built-in themes in lexical order.
func ThemeNames() []string {
	entries, err := themes.ReadDir("themes")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	return names
}

// Fragment returns a feature CSS fragment by name (deck, emoji, fitting).
// The name should not include the .css extension.
func Fragment(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := fragments.ReadFile("fragments/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrFragmentNotFound, name)
	}

	return string(content), nil
}

// MathStylesheet returns the stylesheet bundled with the default math engine,
// with font URLs still relative. Callers rebase the URLs for their font policy.
func MathStylesheet() (string, error) {
	content, err := mathcss.ReadFile("math/katex.css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrFragmentNotFound, "katex")
	}

	return string(content), nil
}

// ObserverScript returns the client-side auto-fit observer script.
func ObserverScript() (string, error) {
	content, err := scripts.ReadFile("script/observer.js")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrScriptNotFound, "observer")
	}

	return string(content), nil
}
