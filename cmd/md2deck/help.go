package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Render markdown decks to HTML")
	fmt.Fprintln(w, "  export     Export decks to PDF or PNG via headless Chrome")
	fmt.Fprintln(w, "  serve      Serve a deck directory with live reload")
	fmt.Fprintln(w, "  themes     List built-in themes")
	fmt.Fprintln(w, "  doctor     Check the export environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Running 'md2deck deck.md' is shorthand for 'md2deck convert deck.md'.")
	fmt.Fprintln(w, "Run 'md2deck help <command>' for details on a specific command.")
}

// printRenderFlagsUsage prints the rendering flag block shared by
// convert, export, and serve.
func printRenderFlagsUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -T, --theme <name>        Built-in theme: default, aurora, mono")
	fmt.Fprintln(w, "      --theme-css <path>    Custom theme CSS file")
	fmt.Fprintln(w, "      --highlight <style>   Code highlight style (default: github)")
	fmt.Fprintln(w, "      --html                Allow sanitized raw HTML")
	fmt.Fprintln(w, "      --no-math             Disable math typesetting")
	fmt.Fprintln(w, "      --math-fonts <base>   Base URL or path for math fonts")
	fmt.Fprintln(w, "      --bundled-fonts       Keep math font URLs relative")
	fmt.Fprintln(w, "      --no-emoji            Disable emoji replacement")
}

// printCommonFlagsUsage prints the control flag block shared by all
// commands.
func printCommonFlagsUsage(w io.Writer) {
	fmt.Fprintln(w, "Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and warnings")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown decks to standalone HTML pages.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printRenderFlagsUsage(w)
	fmt.Fprintln(w)
	printCommonFlagsUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck export <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export decks to PDF or PNG. Requires Chrome or Chromium;")
	fmt.Fprintln(w, "run 'md2deck doctor' to check the environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -f, --format <s>          Export format: pdf (default), png")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-file export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printRenderFlagsUsage(w)
	fmt.Fprintln(w)
	printCommonFlagsUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2deck serve [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve a deck directory over HTTP, re-rendering on request and")
	fmt.Fprintln(w, "reloading browsers when source files change.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  dir    Directory to serve (default: input.defaultDir or current directory)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default: :8080)")
	fmt.Fprintln(w, "      --poll <ms>           File watch interval in milliseconds")
	fmt.Fprintln(w)
	printRenderFlagsUsage(w)
	fmt.Fprintln(w)
	printCommonFlagsUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "themes":
		fmt.Fprintln(env.Stdout, "Usage: md2deck themes")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List built-in themes.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: md2deck doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome availability and the export environment.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2deck version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2deck help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
