package md2deck

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alnah/go-md2deck/internal/assets"
	"github.com/alnah/go-md2deck/internal/pipeline"
)

// ThemeSet holds the deck themes known to a Renderer: the embedded
// built-ins plus any registered at construction or later. Safe for
// concurrent use.
type ThemeSet struct {
	mu     sync.RWMutex
	themes map[string]string
}

// newBuiltinThemeSet loads the embedded themes.
func newBuiltinThemeSet() (*ThemeSet, error) {
	t := &ThemeSet{themes: make(map[string]string)}
	for _, name := range assets.ThemeNames() {
		css, err := assets.Theme(name)
		if err != nil {
			return nil, fmt.Errorf("loading theme %q: %w", name, err)
		}
		t.themes[name] = css
	}
	return t, nil
}

// Register adds or replaces a theme. The name becomes valid in options
// and in deck theme directives.
func (t *ThemeSet) Register(name, css string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidThemeName
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.themes[name] = css
	return nil
}

// Has reports whether a theme is registered.
func (t *ThemeSet) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.themes[name]
	return ok
}

// Names returns the registered theme names, sorted.
func (t *ThemeSet) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.themes))
	for name := range t.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CSS returns the raw stylesheet of a registered theme.
func (t *ThemeSet) CSS(name string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	css, ok := t.themes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	return css, nil
}

// Pack assembles the base deck stylesheet for a theme: the structural
// slide CSS, the theme itself, then the highlight classes for the given
// chroma style.
func (t *ThemeSet) Pack(name, highlightStyle string) (string, error) {
	themeCSS, err := t.CSS(name)
	if err != nil {
		return "", err
	}
	deckCSS, err := assets.Fragment("deck")
	if err != nil {
		return "", fmt.Errorf("loading deck stylesheet: %w", err)
	}

	var b strings.Builder
	b.WriteString(deckCSS)
	b.WriteString("\n")
	b.WriteString(themeCSS)
	b.WriteString("\n")
	b.WriteString(pipeline.HighlightStylesheet(highlightStyle))
	return b.String(), nil
}
