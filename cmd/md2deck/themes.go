package main

import (
	"fmt"

	md2deck "github.com/alnah/go-md2deck"
)

// runThemesCmd lists the built-in themes and returns an exit code.
func runThemesCmd(env *Environment) int {
	renderer, err := md2deck.NewRenderer()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return ExitGeneral
	}

	for _, name := range renderer.Themes().Names() {
		if name == md2deck.DefaultTheme {
			fmt.Fprintf(env.Stdout, "%s (default)\n", name)
		} else {
			fmt.Fprintln(env.Stdout, name)
		}
	}
	return ExitSuccess
}
