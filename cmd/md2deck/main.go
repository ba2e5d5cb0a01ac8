package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/assets"
	"github.com/alnah/go-md2deck/internal/config"
	"github.com/alnah/go-md2deck/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// hasVerboseFlag scans raw arguments for the verbose flag before any
// FlagSet exists.
func hasVerboseFlag(args []string) bool {
	for _, a := range args[1:] {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// commands lists the recognized subcommands.
var commands = map[string]bool{
	"convert": true,
	"export":  true,
	"serve":   true,
	"themes":  true,
	"doctor":  true,
	"version": true,
	"help":    true,
}

// isCommand reports whether name is a recognized subcommand.
func isCommand(name string) bool {
	return commands[name]
}

// looksLikeMarkdown reports whether the argument names a markdown file.
func looksLikeMarkdown(arg string) bool {
	ext := filepath.Ext(arg)
	return ext == ".md" || ext == ".markdown"
}

// runMain dispatches to the subcommand and returns an exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd := args[1]
	rest := args[2:]

	if !isCommand(cmd) {
		switch {
		case cmd == "--help" || cmd == "-h":
			printUsage(env.Stdout)
			return ExitSuccess
		case cmd == "--version":
			cmd, rest = "version", nil
		case looksLikeMarkdown(cmd):
			// "md2deck deck.md" is shorthand for "md2deck convert deck.md".
			cmd, rest = "convert", args[1:]
		default:
			fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
	}

	switch cmd {
	case "version":
		fmt.Fprintf(env.Stdout, "md2deck %s\n", Version)
		return ExitSuccess

	case "help":
		runHelp(rest, env)
		return ExitSuccess

	case "themes":
		return runThemesCmd(env)

	case "doctor":
		return runDoctorCmd(rest, env)

	case "convert":
		flags, positional, err := parseConvertFlags(rest, env.Stderr)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return ExitSuccess
			}
			printError(env.Stderr, err)
			return ExitUsage
		}

		ctx, stop := notifyContext(context.Background())
		defer stop()

		if err := runConvert(ctx, positional, flags, env); err != nil {
			printError(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess

	case "export":
		flags, positional, err := parseExportFlags(rest, env.Stderr)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return ExitSuccess
			}
			printError(env.Stderr, err)
			return ExitUsage
		}

		ctx, stop := notifyContext(context.Background())
		defer stop()

		if err := runExport(ctx, positional, flags, env); err != nil {
			printError(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess

	case "serve":
		flags, positional, err := parseServeFlags(rest, env.Stderr)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return ExitSuccess
			}
			printError(env.Stderr, err)
			return ExitUsage
		}

		ctx, stop := notifyContext(context.Background())
		defer stop()

		if err := runServe(ctx, positional, flags, env); err != nil {
			printError(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	}

	// Unreachable: isCommand gates the switch.
	return ExitGeneral
}

// printError reports a command failure with an actionable hint when one
// applies.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v%s\n", err, hintFor(err))
}

// hintFor returns an actionable hint for well-known failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, md2deck.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, md2deck.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		var candidates []string
		if dir, derr := os.UserConfigDir(); derr == nil {
			candidates = append(candidates, filepath.Join(dir, "md2deck", "config.yaml"))
		}
		return hints.ForConfigNotFound(candidates)
	case errors.Is(err, md2deck.ErrThemeNotFound):
		return hints.ForThemeNotFound(assets.ThemeNames())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
