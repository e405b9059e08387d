package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"

	"github.com/playwright-community/playwright-go"
)

// Artifact file names written by Close.
const (
	TraceFileName       = "trace.zip"
	FinalScreenshotName = "test-finished"
)

const closeScreenshotTimeoutMS = 5000

// PageOptions describes the page to create for one scenario attempt.
type PageOptions struct {
	Target  string
	BaseURL string
	Capture config.CapturePolicy

	// ArtifactDir receives screenshots and the trace. It is created only if something is captured.
	ArtifactDir string

	// DefaultTimeout applies to every engine call that has no timeout of its own.
	DefaultTimeout time.Duration

	Logger framework.Logger
}

// PageHandle is one tab in a fresh browser context. It belongs to a single scenario attempt and
// must be closed when the attempt ends; it also closes itself when the attempt's context is done,
// so that engine calls still in flight fail instead of waiting out their own timeouts.
type PageHandle struct {
	Page        playwright.Page
	context     playwright.BrowserContext
	capture     config.CapturePolicy
	artifactDir string
	logger      framework.Logger
	stopWatch   chan struct{}
	closeOnce   sync.Once
	closeErr    error
}

// NewPage creates a browser context and a page in it. When traces are enabled, tracing starts
// before the page is opened.
func (e *Engine) NewPage(ctx context.Context, opts PageOptions) (*PageHandle, error) {
	logger := opts.Logger
	if logger == nil {
		logger = framework.NullLogger()
	}
	b, err := e.browser(opts.Target)
	if err != nil {
		return nil, err
	}
	if opts.Capture.Screenshots() || opts.Capture.Traces() {
		if err := os.MkdirAll(opts.ArtifactDir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create artifact directory: %w", err)
		}
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if opts.BaseURL != "" {
		contextOpts.BaseURL = playwright.String(opts.BaseURL)
	}
	bc, err := b.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	if opts.Capture.Traces() {
		err := bc.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		})
		if err != nil {
			_ = bc.Close()
			return nil, fmt.Errorf("could not start tracing: %w", err)
		}
	}
	page, err := bc.NewPage()
	if err != nil {
		_ = bc.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	if opts.DefaultTimeout > 0 {
		page.SetDefaultTimeout(float64(opts.DefaultTimeout.Milliseconds()))
	}

	h := &PageHandle{
		Page:        page,
		context:     bc,
		capture:     opts.Capture,
		artifactDir: opts.ArtifactDir,
		logger:      logger,
		stopWatch:   make(chan struct{}),
	}
	go h.watch(ctx)
	return h, nil
}

func (h *PageHandle) watch(ctx context.Context) {
	select {
	case <-ctx.Done():
		h.logger.Printf("Closing page early: %s", ctx.Err())
		_ = h.Close()
	case <-h.stopWatch:
	}
}

// ArtifactDir returns the directory that receives this page's screenshots and trace.
func (h *PageHandle) ArtifactDir() string {
	return h.artifactDir
}

// Screenshot saves a full-page screenshot named name.png in the artifact directory and returns
// its path. It does nothing, and returns "", when screenshots are disabled.
func (h *PageHandle) Screenshot(name string) (string, error) {
	if !h.capture.Screenshots() {
		return "", nil
	}
	path := filepath.Join(h.artifactDir, screenshotFileName(name))
	if _, err := h.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("could not capture screenshot %q: %w", name, err)
	}
	h.logger.Printf("Saved screenshot %s", path)
	return path, nil
}

// Close takes the final screenshot, stops tracing and closes the browser context. Only the first
// call does anything; later calls return the same result.
func (h *PageHandle) Close() error {
	h.closeOnce.Do(func() {
		close(h.stopWatch)
		var errs []error
		if h.capture.Screenshots() && !h.Page.IsClosed() {
			path := filepath.Join(h.artifactDir, screenshotFileName(FinalScreenshotName))
			if _, err := h.Page.Screenshot(playwright.PageScreenshotOptions{
				Path:    playwright.String(path),
				Timeout: playwright.Float(closeScreenshotTimeoutMS),
			}); err != nil {
				h.logger.Printf("Could not capture final screenshot: %s", err)
			}
		}
		if h.capture.Traces() {
			path := filepath.Join(h.artifactDir, TraceFileName)
			if err := h.context.Tracing().Stop(path); err != nil {
				errs = append(errs, fmt.Errorf("could not save trace: %w", err))
			} else {
				h.logger.Printf("Saved trace %s", path)
			}
		}
		if err := h.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close browser context: %w", err))
		}
		h.closeErr = errors.Join(errs...)
	})
	return h.closeErr
}

func screenshotFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	return name + ".png"
}
