package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/config"
)

// Exporter is the interface for a single browser-backed exporter.
type Exporter interface {
	ExportPDF(ctx context.Context, input md2deck.ExportInput) ([]byte, error)
	ExportPNG(ctx context.Context, input md2deck.ExportInput) ([]byte, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*md2deck.Exporter)(nil)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() Exporter
	Release(Exporter)
	Size() int
}

// poolAdapter adapts md2deck.ExporterPool to the Pool interface.
type poolAdapter struct {
	pool *md2deck.ExporterPool
}

func (a *poolAdapter) Acquire() Exporter {
	return a.pool.Acquire()
}

func (a *poolAdapter) Release(e Exporter) {
	exp, ok := e.(*md2deck.Exporter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", e))
	}
	a.pool.Release(exp)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// runExport orchestrates exporting markdown decks to PDF or PNG.
func runExport(ctx context.Context, positionalArgs []string, flags *exportFlags, env *Environment) error {
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

	format, err := resolveExportFormat(flags.format, cfg)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout, cfg.Export.TimeoutSeconds)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir, "."+format)
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
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", workers)
	}

	pool := md2deck.NewExporterPool(workers, md2deck.WithExportTimeout(timeout))
	defer pool.Close()

	results := exportBatch(ctx, &poolAdapter{pool: pool}, renderer, files, format)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d export(s) failed", failedCount)
	}

	return nil
}

// resolveExportFormat picks the export format from the flag or config.
// Only pdf and png are browser outputs; the config default of html
// falls through to pdf.
func resolveExportFormat(flagFormat string, cfg *config.Config) (string, error) {
	format := strings.ToLower(flagFormat)
	if format == "" {
		format = strings.ToLower(cfg.Output.Format)
	}
	switch format {
	case "", "html":
		return "pdf", nil
	case "pdf", "png":
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q (expected pdf or png)", ErrUnsupportedFormat, format)
	}
}

// resolveTimeout resolves the per-file export timeout.
// Priority: flag > env var > config > library default.
func resolveTimeout(flagValue string, envValue time.Duration, configSeconds int) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q: %v", flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %v", d)
		}
		return d, nil
	}

	if envValue > 0 {
		return envValue, nil
	}

	if configSeconds > 0 {
		return time.Duration(configSeconds) * time.Second, nil
	}

	return md2deck.DefaultExportTimeout, nil
}

// exportBatch exports files concurrently using the exporter pool. Each
// worker holds one exporter, and with it one browser, for its lifetime.
func exportBatch(ctx context.Context, pool Pool, renderer *md2deck.Renderer, files []FileToConvert, format string) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp := pool.Acquire()
			defer pool.Release(exp)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = exportFile(ctx, exp, renderer, files[idx], format)
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

// exportFile renders a single file and captures it as PDF or PNG.
func exportFile(ctx context.Context, exp Exporter, renderer *md2deck.Renderer, f FileToConvert, format string) ConversionResult {
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

	input := md2deck.ExportInput{
		Page:      page,
		SourceDir: filepath.Dir(f.InputPath),
	}

	var data []byte
	if format == "png" {
		data, err = exp.ExportPNG(ctx, input)
	} else {
		data, err = exp.ExportPDF(ctx, input)
	}
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

	// #nosec G306 -- exported decks are meant to be readable
	if err := os.WriteFile(f.OutputPath, data, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}
