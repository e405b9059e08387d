// Package config defines the run configuration for the registration page test suite: where the
// page under test lives, how long and how often each scenario may run, which browsers are used,
// and which diagnostic artifacts are kept.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Browser target names.
const (
	Chromium = "chromium"
	Firefox  = "firefox"
	WebKit   = "webkit"
)

// AllTargets lists every browser engine that can be declared as a target.
var AllTargets = []string{Chromium, Firefox, WebKit}

// CaptureMode says whether a kind of diagnostic artifact is produced.
type CaptureMode string

const (
	CaptureOn  CaptureMode = "on"
	CaptureOff CaptureMode = "off"
)

// CapturePolicy controls which diagnostic artifacts each scenario attempt produces.
type CapturePolicy struct {
	Screenshot CaptureMode
	Trace      CaptureMode
}

func (p CapturePolicy) Screenshots() bool { return p.Screenshot == CaptureOn }
func (p CapturePolicy) Traces() bool      { return p.Trace == CaptureOn }

// BrowserTarget is a declared browser engine. Disabled targets are listed in the output but
// no scenarios run on them.
type BrowserTarget struct {
	Name    string
	Enabled bool
}

type ReporterKind string

const (
	ListReporter ReporterKind = "list"
	HTMLReporter ReporterKind = "html"
)

// OpenNever is the only supported value for ReporterConfig.Open; reports are never opened
// automatically.
const OpenNever = "never"

type ReporterConfig struct {
	Kind ReporterKind
	Open string
}

// Selectors are the stable locators used to find the form fields.
type Selectors struct {
	Email        string
	ConfirmEmail string
	Password     string
}

// RunConfig is the configuration for one test run. It is created once at startup and passed
// around by value; use Clone when a copy that shares no slices is needed.
type RunConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	Capture   CapturePolicy
	Targets   []BrowserTarget
	Reporters []ReporterConfig
	TestMatch string
	Workers   int
	Headless  bool
	OutputDir string
	Selectors Selectors
}

// Default returns the configuration the suite runs with when nothing is overridden.
func Default() RunConfig {
	return RunConfig{
		BaseURL: "https://abc13514.sg-host.com/",
		Timeout: time.Second * 60,
		Retries: 1,
		Capture: CapturePolicy{Screenshot: CaptureOn, Trace: CaptureOn},
		Targets: []BrowserTarget{
			{Name: Chromium, Enabled: true},
			{Name: Firefox, Enabled: false},
			{Name: WebKit, Enabled: false},
		},
		Reporters: []ReporterConfig{
			{Kind: ListReporter},
			{Kind: HTMLReporter, Open: OpenNever},
		},
		TestMatch: ".*",
		Workers:   1,
		Headless:  false,
		OutputDir: "test-results",
		Selectors: Selectors{
			Email:        "#email",
			ConfirmEmail: "#confirmEmail",
			Password:     "#password",
		},
	}
}

func (c RunConfig) Clone() RunConfig {
	ret := c
	ret.Targets = append([]BrowserTarget(nil), c.Targets...)
	ret.Reporters = append([]ReporterConfig(nil), c.Reporters...)
	return ret
}

// EnabledTargets returns the names of the enabled browser targets, in declaration order.
func (c RunConfig) EnabledTargets() []string {
	var ret []string
	for _, t := range c.Targets {
		if t.Enabled {
			ret = append(ret, t.Name)
		}
	}
	return ret
}

// DisabledTargets returns the names of declared targets that will not be run.
func (c RunConfig) DisabledTargets() []string {
	var ret []string
	for _, t := range c.Targets {
		if !t.Enabled {
			ret = append(ret, t.Name)
		}
	}
	return ret
}

// WithOnlyTargets returns a copy of the configuration in which exactly the named targets are
// enabled. Names that were not declared are added.
func (c RunConfig) WithOnlyTargets(names []string) RunConfig {
	ret := c.Clone()
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	for i := range ret.Targets {
		ret.Targets[i].Enabled = wanted[ret.Targets[i].Name]
		delete(wanted, ret.Targets[i].Name)
	}
	for _, n := range names {
		if wanted[n] {
			ret.Targets = append(ret.Targets, BrowserTarget{Name: n, Enabled: true})
			delete(wanted, n)
		}
	}
	return ret
}

func (c RunConfig) HasReporter(kind ReporterKind) bool {
	for _, r := range c.Reporters {
		if r.Kind == kind {
			return true
		}
	}
	return false
}

// Validate returns an error describing every problem with the configuration, or nil.
func (c RunConfig) Validate() error {
	var errs []error
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL %q is not an absolute URL", c.BaseURL))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Retries < 0 {
		errs = append(errs, fmt.Errorf("retries must not be negative, got %d", c.Retries))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	for _, m := range []CaptureMode{c.Capture.Screenshot, c.Capture.Trace} {
		if m != CaptureOn && m != CaptureOff {
			errs = append(errs, fmt.Errorf("unknown capture mode %q (expected %q or %q)", m, CaptureOn, CaptureOff))
		}
	}
	seen := make(map[string]bool)
	for _, t := range c.Targets {
		if !isKnownTarget(t.Name) {
			errs = append(errs, fmt.Errorf("unknown browser target %q (expected one of %s)", t.Name,
				strings.Join(AllTargets, ", ")))
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Errorf("browser target %q is declared more than once", t.Name))
		}
		seen[t.Name] = true
	}
	if len(c.EnabledTargets()) == 0 {
		errs = append(errs, errors.New("no browser target is enabled"))
	}
	for _, r := range c.Reporters {
		if r.Kind != ListReporter && r.Kind != HTMLReporter {
			errs = append(errs, fmt.Errorf("unknown reporter %q", r.Kind))
		}
		if r.Open != "" && r.Open != OpenNever {
			errs = append(errs, fmt.Errorf("reporter %q: unsupported open mode %q", r.Kind, r.Open))
		}
	}
	if _, err := regexp.Compile(c.TestMatch); err != nil {
		errs = append(errs, fmt.Errorf("invalid test match pattern: %w", err))
	}
	if c.Selectors.Password == "" {
		errs = append(errs, errors.New("password selector must not be empty"))
	}
	return errors.Join(errs...)
}

func isKnownTarget(name string) bool {
	for _, t := range AllTargets {
		if t == name {
			return true
		}
	}
	return false
}
