package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/render"
)

const snapshotTimeout = 30 * time.Second

// PNG renders the chart headlessly and captures it as a PNG image. The HTML
// chart is written to a temp file, loaded in headless Chrome, and
// screenshotted once the canvas has painted. Requires a Chrome or Chromium
// binary on the host.
func PNG(ctx context.Context, m *render.Model, positions map[string]layout.Position, title string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "graphlens-snapshot-*")
	if err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	defer os.RemoveAll(dir)

	htmlPath := filepath.Join(dir, "graph.html")
	if err := HTMLFile(htmlPath, m, positions, title); err != nil {
		return nil, err
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(ctx, snapshotTimeout)
	defer timeoutCancel()

	browserCtx, cancel := chromedp.NewContext(timeoutCtx)
	defer cancel()

	var buf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitVisible("canvas", chromedp.ByQuery),
		// Give the chart one paint cycle after the canvas appears.
		chromedp.Sleep(500*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("capturing snapshot: %w", err)
	}
	return buf, nil
}

// PNGFile captures a snapshot and writes it to the named file.
func PNGFile(ctx context.Context, filename string, m *render.Model, positions map[string]layout.Position, title string) error {
	buf, err := PNG(ctx, m, positions, title)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, buf, 0o644)
}
