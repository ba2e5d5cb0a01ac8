package pipeline

import (
	"strings"
	"testing"
)

const pageTemplate = `<!DOCTYPE html><html><head></head><body>%BODY%</body></html>`

func page(body string) string {
	return strings.Replace(pageTemplate, "%BODY%", body, 1)
}

func TestResolveAssetPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantContain string
		wantAbsent  string
	}{
		{
			name:        "relative image",
			body:        `<img src="images/pic.png"/>`,
			wantContain: `src="file:///data/deck/images/pic.png"`,
		},
		{
			name:        "relative link",
			body:        `<a href="notes.html">notes</a>`,
			wantContain: `href="file:///data/deck/notes.html"`,
		},
		{
			name:        "dot slash image",
			body:        `<img src="./pic.png"/>`,
			wantContain: `src="file:///data/deck/pic.png"`,
		},
		{
			name:        "absolute url untouched",
			body:        `<img src="https://example.com/pic.png"/>`,
			wantContain: `src="https://example.com/pic.png"`,
			wantAbsent:  "file://",
		},
		{
			name:        "data url untouched",
			body:        `<img src="data:image/png;base64,AAAA"/>`,
			wantContain: `src="data:image/png;base64,AAAA"`,
			wantAbsent:  "file://",
		},
		{
			name:        "anchor untouched",
			body:        `<a href="#slide-2">next</a>`,
			wantContain: `href="#slide-2"`,
			wantAbsent:  "file://",
		},
		{
			name:        "absolute path untouched",
			body:        `<img src="/srv/pic.png"/>`,
			wantContain: `src="/srv/pic.png"`,
			wantAbsent:  "file://",
		},
		{
			name:        "traversal outside base untouched",
			body:        `<img src="../../etc/passwd"/>`,
			wantContain: `src="../../etc/passwd"`,
			wantAbsent:  "file://",
		},
		{
			name:        "script src untouched",
			body:        `<script src="app.js"></script>`,
			wantContain: `src="app.js"`,
			wantAbsent:  "file://",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveAssetPaths(page(tt.body), "/data/deck")
			if err != nil {
				t.Fatalf("ResolveAssetPaths() error = %v", err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("output missing %q\ngot: %s", tt.wantContain, got)
			}
			if tt.wantAbsent != "" && strings.Contains(got, tt.wantAbsent) {
				t.Errorf("output should not contain %q\ngot: %s", tt.wantAbsent, got)
			}
		})
	}
}

func TestResolveAssetPathsEmptyBase(t *testing.T) {
	t.Parallel()

	in := page(`<img src="images/pic.png"/>`)
	got, err := ResolveAssetPaths(in, "")
	if err != nil {
		t.Fatalf("ResolveAssetPaths() error = %v", err)
	}
	if got != in {
		t.Errorf("empty base should return the page unchanged\ngot:  %s\nwant: %s", got, in)
	}
}

func TestResolveAssetPathsMultiple(t *testing.T) {
	t.Parallel()

	body := `<img src="a.png"/><img src="b.png"/><a href="https://example.com">x</a>`
	got, err := ResolveAssetPaths(page(body), "/data/deck")
	if err != nil {
		t.Fatalf("ResolveAssetPaths() error = %v", err)
	}
	for _, want := range []string{
		`src="file:///data/deck/a.png"`,
		`src="file:///data/deck/b.png"`,
		`href="https://example.com"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot: %s", want, got)
		}
	}
}
