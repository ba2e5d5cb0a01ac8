package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrReadTheme          = errors.New("failed to read theme CSS file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrNotDirectory       = errors.New("not a directory")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath   string
	OutputPath  string
	Err         error
	Duration    time.Duration
	Diagnostics []md2deck.Diagnostic
}

// runConvert orchestrates rendering markdown decks to HTML pages.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := loadCLIConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeRenderFlags(&flags.render, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir, ".html")
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no markdown files found in %s", inputPath)
	}

	renderer, err := buildRenderer(cfg)
	if err != nil {
		return err
	}

	workers, err := resolveWorkers(flags.workers, cfg)
	if err != nil {
		return err
	}

	results := renderBatch(ctx, renderer, files, workers)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	return nil
}

// loadCLIConfig loads the config named by the flag or MD2DECK_CONFIG,
// falling back to defaults when neither is set.
func loadCLIConfig(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeRenderFlags merges rendering CLI flags into config. CLI values
// override config values.
func mergeRenderFlags(flags *renderFlags, cfg *config.Config) {
	if flags.theme != "" {
		cfg.Theme.Name = flags.theme
	}
	if flags.themeFile != "" {
		cfg.Theme.Path = flags.themeFile
	}
	if flags.highlight != "" {
		cfg.Highlight.Style = flags.highlight
	}
	if flags.html {
		cfg.HTML.Allow = true
	}
	if flags.noMath {
		cfg.Math.Enabled = false
	}
	if flags.mathFonts != "" {
		cfg.Math.FontPath = flags.mathFonts
	}
	if flags.bundledFonts {
		cfg.Math.BundledFonts = true
	}
	if flags.noEmoji {
		cfg.Emoji.Shortcode = false
		cfg.Emoji.Unicode = false
	}
}

// buildRenderer maps config to renderer options. A theme CSS file takes
// precedence over a built-in theme name.
func buildRenderer(cfg *config.Config) (*md2deck.Renderer, error) {
	var opts []md2deck.Option

	switch {
	case cfg.Theme.Path != "":
		css, err := os.ReadFile(cfg.Theme.Path) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadTheme, err)
		}
		name := strings.TrimSuffix(filepath.Base(cfg.Theme.Path), filepath.Ext(cfg.Theme.Path))
		opts = append(opts, md2deck.WithThemeCSS(name, string(css)))
	case cfg.Theme.Name != "":
		opts = append(opts, md2deck.WithTheme(cfg.Theme.Name))
	}

	if cfg.Highlight.Style != "" {
		opts = append(opts, md2deck.WithHighlightStyle(cfg.Highlight.Style))
	}
	if cfg.HTML.Allow {
		opts = append(opts, md2deck.WithHTML(true))
	}

	if !cfg.Math.Enabled {
		opts = append(opts, md2deck.WithoutMath())
	} else {
		math := md2deck.MathOptions{
			FontPath:     cfg.Math.FontPath,
			BundledFonts: cfg.Math.BundledFonts,
		}
		if len(cfg.Math.Macros) > 0 {
			math.KatexOptions = map[string]any{"macros": cfg.Math.Macros}
		}
		opts = append(opts, md2deck.WithMathOptions(math))
	}

	opts = append(opts, md2deck.WithEmojiOptions(md2deck.EmojiOptions{
		Shortcode: cfg.Emoji.Shortcode,
		Unicode:   cfg.Emoji.Unicode,
	}))

	return md2deck.NewRenderer(opts...)
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// resolveWorkers picks the worker count from flag or config and maps it
// through the pool sizing rules.
func resolveWorkers(flagWorkers int, cfg *config.Config) (int, error) {
	n := flagWorkers
	if n == 0 {
		n = cfg.Export.Workers
	}
	if err := validateWorkers(n); err != nil {
		return 0, err
	}
	return md2deck.ResolvePoolSize(n), nil
}

// discoverFiles finds all markdown files to convert. Output paths carry
// the given extension, mirroring the input directory layout under the
// output directory.
func discoverFiles(inputPath, outputDir, ext string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", ext)
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fileExt := filepath.Ext(path)
		if fileExt != ".md" && fileExt != ".markdown" {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, ext)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for a markdown file.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	inExt := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), inExt)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+ext)
	}

	// An output path carrying the target extension names a file, not a directory.
	if strings.EqualFold(filepath.Ext(outputDir), ext) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+ext)
		}
	}

	return filepath.Join(outputDir, base+ext)
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > md2deck.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, md2deck.MaxPoolSize)
	}
	return nil
}

// renderBatch renders files concurrently. The renderer is safe for
// concurrent use, so all workers share one instance.
func renderBatch(ctx context.Context, renderer *md2deck.Renderer, files []FileToConvert, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(files) {
		concurrency = len(files)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = renderFile(ctx, renderer, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile renders a single file to a standalone HTML page.
func renderFile(ctx context.Context, renderer *md2deck.Renderer, f FileToConvert) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		result.Duration = time.Since(start)
		return result
	}

	rendered, err := renderer.Render(ctx, string(content))
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Diagnostics = rendered.Diagnostics

	page, err := renderer.BuildPage(rendered)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	// #nosec G306 -- rendered pages are meant to be readable
	if err := os.WriteFile(f.OutputPath, []byte(page), filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// printResultsWithWriter outputs results using the provided writers.
// Failures and render diagnostics go to stderr, successes to stdout.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		for _, d := range r.Diagnostics {
			fmt.Fprintf(env.Stderr, "warning %s: %s: %s\n", r.InputPath, d.Source, d.Message)
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
