package md2deck

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown    = errors.New("markdown content cannot be empty")
	ErrHTMLConversion   = errors.New("HTML conversion failed")
	ErrNoBrowserRuntime = errors.New("no browser runtime registered")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrPDFExport        = errors.New("PDF export failed")
	ErrImageExport      = errors.New("image export failed")

	// Theme registry errors.
	ErrThemeNotFound    = errors.New("theme not found")
	ErrInvalidThemeName = errors.New("invalid theme name")
)
