package capture

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Default capture parameters. The viewport only matters for PNG
// previews; PDF printing uses the paper size.
const (
	DefaultWidth      = 1240
	DefaultHeight     = 1754
	DefaultTimeoutSec = 30
)

// Paper dimensions in inches, as PrintToPDF expects them.
var paperSizes = map[string][2]float64{
	"a4":     {8.27, 11.69},
	"letter": {8.5, 11.0},
}

// Options defines parameters for a Chromium-based capture run.
type Options struct {
	// HTMLPath is the rendered calendar document on disk. It is
	// converted to a file:// URL unless URL is set.
	HTMLPath string

	// URL overrides HTMLPath, e.g. "http://127.0.0.1:8080/calendar"
	// when the preview server is running.
	URL string

	// Page is the paper size for PDF output: "a4" (default) or
	// "letter".
	Page string

	// Width and Height are the viewport dimensions for PNG previews.
	// If zero, DefaultWidth / DefaultHeight are used.
	Width  int
	Height int

	// Timeout bounds the entire capture operation. If zero,
	// DefaultTimeoutSec is used.
	Timeout time.Duration
}

func (o *Options) normalize() error {
	if o.URL == "" {
		if o.HTMLPath == "" {
			return fmt.Errorf("capture: HTMLPath or URL is required")
		}
		abs, err := filepath.Abs(o.HTMLPath)
		if err != nil {
			return fmt.Errorf("capture: resolve %s: %w", o.HTMLPath, err)
		}
		o.URL = (&url.URL{Scheme: "file", Path: abs}).String()
	}
	if _, ok := paperSizes[o.Page]; !ok {
		o.Page = "a4"
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeoutSec * time.Second
	}
	return nil
}

// PrintPDF launches a headless Chromium via chromedp, navigates to the
// rendered calendar, waits for the document to signal readiness via
// data-ready="true", and prints it to a PDF at outputPath.
func PrintPDF(parentCtx context.Context, opts Options, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("capture: output path is required")
	}
	if err := opts.normalize(); err != nil {
		return err
	}
	paper := paperSizes[opts.Page]

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var pdf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(paper[0]).
				WithPaperHeight(paper[1]).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(outputPath, pdf, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PDF: %w", err)
	}

	return nil
}

// CapturePNG takes a full-page PNG screenshot of the rendered calendar,
// used for quick previews without opening a PDF viewer.
func CapturePNG(parentCtx context.Context, opts Options, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("capture: output path is required")
	}
	if err := opts.normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		// Small extra delay to allow final paints.
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(outputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	return nil
}
