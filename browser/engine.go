// Package browser manages the Playwright driver and the browsers it launches, and hands out
// PageHandles: one tab in a fresh browser context, owned by a single scenario attempt.
package browser

import (
	"errors"
	"fmt"
	"sync"

	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"

	"github.com/playwright-community/playwright-go"
)

// Install downloads the Playwright driver and the browsers for the given targets.
func Install(targets []string) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: targets}); err != nil {
		return fmt.Errorf("could not install Playwright: %w", err)
	}
	return nil
}

// Engine is a running Playwright driver. Browsers are launched on first use, one per target, and
// shared by every page created for that target.
type Engine struct {
	pw       *playwright.Playwright
	headless bool
	browsers map[string]playwright.Browser
	logger   framework.Logger
	lock     sync.Mutex
}

// Start launches the Playwright driver. It fails if the driver has not been installed.
func Start(headless bool, logger framework.Logger) (*Engine, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start Playwright (use -install to install it): %w", err)
	}
	return &Engine{
		pw:       pw,
		headless: headless,
		browsers: make(map[string]playwright.Browser),
		logger:   logger,
	}, nil
}

func (e *Engine) browserType(target string) (playwright.BrowserType, error) {
	switch target {
	case config.Chromium:
		return e.pw.Chromium, nil
	case config.Firefox:
		return e.pw.Firefox, nil
	case config.WebKit:
		return e.pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unknown browser target %q", target)
	}
}

func (e *Engine) browser(target string) (playwright.Browser, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if b, ok := e.browsers[target]; ok {
		return b, nil
	}
	bt, err := e.browserType(target)
	if err != nil {
		return nil, err
	}
	e.logger.Printf("Launching %s (headless: %t)", target, e.headless)
	b, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.headless),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch %s: %w", target, err)
	}
	e.browsers[target] = b
	return b, nil
}

// Stop closes every launched browser and then the driver.
func (e *Engine) Stop() error {
	e.lock.Lock()
	browsers := e.browsers
	e.browsers = make(map[string]playwright.Browser)
	e.lock.Unlock()

	var errs []error
	for name, b := range browsers {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", name, err))
		}
	}
	if err := e.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping Playwright: %w", err))
	}
	return errors.Join(errs...)
}
