package md2deck

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2deck/internal/fileutil"
	"github.com/alnah/go-md2deck/internal/pipeline"
)

// Slide page dimensions in inches (16:9 landscape).
const (
	slideWidthInches  = 13.333
	slideHeightInches = 7.5
)

// Screenshot viewport in CSS pixels (16:9).
const (
	screenshotWidth  = 1280
	screenshotHeight = 720
)

// DefaultExportTimeout bounds page load and capture when no timeout
// option is given.
const DefaultExportTimeout = 30 * time.Second

// ExportOption configures an Exporter.
type ExportOption func(*Exporter)

// WithExportTimeout sets the per-export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithExportTimeout(d time.Duration) ExportOption {
	if d <= 0 {
		panic("md2deck: WithExportTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.timeout = d
	}
}

// ExportInput carries one export request.
type ExportInput struct {
	// Page is the standalone HTML document to render, typically the
	// output of Renderer.RenderPage.
	Page string

	// SourceDir resolves relative image and link paths against local
	// files. Empty leaves paths untouched.
	SourceDir string
}

// Exporter rasterizes rendered decks to PDF or PNG with headless
// Chrome. The browser launches lazily on first use. Not safe for
// concurrent use; ExporterPool provides parallelism.
// Rod automatically downloads Chromium on first run if not found.
type Exporter struct {
	timeout time.Duration
	browser *rod.Browser

	scriptsMu   sync.Mutex
	initScripts []string
}

// Compile-time interface check
var _ BrowserRuntime = (*Exporter)(nil)

// NewExporter creates an Exporter with the given options.
func NewExporter(opts ...ExportOption) *Exporter {
	e := &Exporter{timeout: DefaultExportTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InstallInitScript registers a script evaluated on every page this
// exporter opens, before the document loads.
func (e *Exporter) InstallInitScript(source string) error {
	e.scriptsMu.Lock()
	defer e.scriptsMu.Unlock()
	e.initScripts = append(e.initScripts, source)
	return nil
}

// ensureBrowser lazily launches and connects the browser, then
// registers the exporter as the process browser runtime.
func (e *Exporter) ensureBrowser() error {
	if e.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	e.browser = browser

	SetBrowserRuntime(e)
	if err := EnsureBrowserObserver(); err != nil {
		return err
	}
	return nil
}

// Close releases browser resources and drops the runtime registration.
func (e *Exporter) Close() error {
	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.browser = nil
	releaseBrowserRuntime(e)
	if err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}

// ExportPDF renders the page in headless Chrome and prints it to PDF
// with slide geometry, one slide per PDF page.
func (e *Exporter) ExportPDF(ctx context.Context, input ExportInput) ([]byte, error) {
	page, cleanup, err := e.openPage(ctx, input)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:        floatPtr(slideWidthInches),
		PaperHeight:       floatPtr(slideHeightInches),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFExport, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFExport, err)
	}
	return pdf, nil
}

// ExportPNG captures the first slide viewport as a PNG image.
func (e *Exporter) ExportPNG(ctx context.Context, input ExportInput) ([]byte, error) {
	page, cleanup, err := e.openPage(ctx, input)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             screenshotWidth,
		Height:            screenshotHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageExport, err)
	}

	img, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageExport, err)
	}
	return img, nil
}

// openPage writes the document to a temp file, opens it in the browser
// with init scripts applied, and waits for the load event. The cleanup
// closes the page and removes the temp file.
func (e *Exporter) openPage(ctx context.Context, input ExportInput) (*rod.Page, func(), error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if err := e.ensureBrowser(); err != nil {
		return nil, nil, err
	}

	pageHTML := input.Page
	if input.SourceDir != "" {
		resolved, err := pipeline.ResolveAssetPaths(pageHTML, input.SourceDir)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving asset paths: %w", err)
		}
		pageHTML = resolved
	}

	tmpPath, removeTmp, err := fileutil.WriteTempFile(pageHTML, "html")
	if err != nil {
		return nil, nil, err
	}

	page, err := e.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		removeTmp()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	cleanup := func() {
		_ = page.Close()
		removeTmp()
	}

	for _, src := range e.snapshotInitScripts() {
		if _, err := (proto.PageAddScriptToEvaluateOnNewDocument{Source: src}).Call(page); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
		}
	}

	if err := page.Navigate("file://" + tmpPath); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Wait for page load with timeout from context or default
	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			cleanup()
			return nil, nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return page, cleanup, nil
}

func (e *Exporter) snapshotInitScripts() []string {
	e.scriptsMu.Lock()
	defer e.scriptsMu.Unlock()
	out := make([]string, len(e.initScripts))
	copy(out, e.initScripts)
	return out
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
