// Package md2deck compiles Markdown into HTML slide decks.
//
// # Quick Start
//
// Create a renderer and convert a deck:
//
//	rnd, err := md2deck.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := rnd.Render(ctx, "---\ntheme: aurora\n---\n\n# Hello\n\n---\n\n# World")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML) // slide markup
//	fmt.Println(result.CSS)  // composed stylesheet
//
// Render returns the deck markup and stylesheet separately so callers
// can embed them however they like. RenderPage wraps both in a
// standalone HTML document ready for a browser.
//
// # Render Pipeline
//
// Every render runs a fixed sequence of content transforms:
//
//  1. Slide splitting on thematic breaks, with front-matter directives
//     (theme, paginate, title) collected into the render session
//  2. Emoji replacement (shortcodes and literal Unicode, Twemoji SVG)
//  3. Math typesetting for $...$ and $$ blocks, KaTeX-compatible
//  4. Auto-fit wrapping for headings flagged with <!--fit-->
//
// The stylesheet is composed per render: math CSS only when an
// expression was actually typeset, then fitting and emoji fragments,
// then the theme pack.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	rnd, err := md2deck.NewRenderer(
//	    md2deck.WithTheme("mono"),
//	    md2deck.WithMathOptions(md2deck.MathOptions{FontPath: "fonts/"}),
//	    md2deck.WithHighlightStyle("dracula"),
//	)
//
// The code highlighter can be swapped at any time without rebuilding:
//
//	rnd.SetHighlighter(func(code, language string) string {
//	    if language != "zig" {
//	        return "" // decline; built-in fallback escapes the code
//	    }
//	    return myZigHighlighter(code)
//	})
//
// # Export
//
// Exporter rasterizes rendered pages to PDF or PNG with headless
// Chrome:
//
//	exp := md2deck.NewExporter()
//	defer exp.Close()
//
//	page, err := rnd.RenderPage(ctx, markdown)
//	pdf, err := exp.ExportPDF(ctx, md2deck.ExportInput{Page: page, SourceDir: dir})
//
// For batch exports, ExporterPool manages multiple browser instances:
//
//	pool := md2deck.NewExporterPool(4)
//	defer pool.Close()
//
//	exp := pool.Acquire()
//	defer pool.Release(exp)
//
// # Browser Requirements
//
// Export requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run
// (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable
// the Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome
// binary.
package md2deck
