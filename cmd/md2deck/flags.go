package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds rendering flags shared by convert, export, and serve.
type renderFlags struct {
	theme        string
	themeFile    string
	highlight    string
	html         bool
	noMath       bool
	mathFonts    string
	bundledFonts bool
	noEmoji      bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	render  renderFlags
	output  string
	workers int
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common  commonFlags
	render  renderFlags
	output  string
	format  string
	timeout string
	workers int
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	render renderFlags
	addr   string
	poll   int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and warnings")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.theme, "theme", "T", "", "built-in theme name")
	fs.StringVar(&f.themeFile, "theme-css", "", "custom theme CSS file")
	fs.StringVar(&f.highlight, "highlight", "", "code highlight style")
	fs.BoolVar(&f.html, "html", false, "allow sanitized raw HTML")
	fs.BoolVar(&f.noMath, "no-math", false, "disable math typesetting")
	fs.StringVar(&f.mathFonts, "math-fonts", "", "base URL or path for math fonts")
	fs.BoolVar(&f.bundledFonts, "bundled-fonts", false, "keep math font URLs relative")
	fs.BoolVar(&f.noEmoji, "no-emoji", false, "disable emoji replacement")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	// Parse errors are reported by the caller, not by pflag.
	fs.SetOutput(io.Discard)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &exportFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "export format: pdf, png")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file export timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printExportUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (host:port)")
	fs.IntVar(&f.poll, "poll", 0, "file watch interval in milliseconds")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printServeUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
