package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ResolveAssetPaths converts relative image and link paths in a full
// HTML page to absolute file:// URLs under baseDir. The exporter loads
// pages from a temp file, so relative references would otherwise break.
// An empty baseDir returns the page unchanged.
//
// Only img[src] and a[href] are rewritten. Paths escaping baseDir are
// left alone, as are URLs, anchors, and absolute paths.
func ResolveAssetPaths(htmlContent, baseDir string) (string, error) {
	if baseDir == "" {
		return htmlContent, nil
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	resolveNode(doc, absBase)

	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func resolveNode(n *html.Node, baseDir string) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "img":
			resolveAttr(n, "src", baseDir)
		case "a":
			resolveAttr(n, "href", baseDir)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		resolveNode(c, baseDir)
	}
}

func resolveAttr(n *html.Node, name, baseDir string) {
	for i, attr := range n.Attr {
		if attr.Key != name || !isLocalRelative(attr.Val) {
			continue
		}
		abs := filepath.Join(baseDir, attr.Val)
		if !containedIn(abs, baseDir) {
			continue
		}
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
		n.Attr[i].Val = u.String()
	}
}

// isLocalRelative reports whether val is a relative filesystem path
// rather than a URL, anchor, or absolute path.
func isLocalRelative(val string) bool {
	if val == "" || strings.HasPrefix(val, "#") {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "//"} {
		if strings.HasPrefix(val, prefix) {
			return false
		}
	}
	return !filepath.IsAbs(val)
}

// containedIn reports whether abs stays under dir after cleaning,
// rejecting paths that traverse outside it.
func containedIn(abs, dir string) bool {
	cleanPath := filepath.Clean(abs)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
