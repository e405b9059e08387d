package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// fileConfig is the JSON form of a configuration file. Every property is optional; properties
// that are absent keep the value from the configuration being overlaid.
type fileConfig struct {
	BaseURL    ldvalue.OptionalString `json:"baseURL"`
	TimeoutMS  ldvalue.OptionalInt    `json:"timeoutMs"`
	Retries    ldvalue.OptionalInt    `json:"retries"`
	Workers    ldvalue.OptionalInt    `json:"workers"`
	Headless   ldvalue.Value          `json:"headless"`
	Screenshot ldvalue.OptionalString `json:"screenshot"`
	Trace      ldvalue.OptionalString `json:"trace"`
	TestMatch  ldvalue.OptionalString `json:"testMatch"`
	OutputDir  ldvalue.OptionalString `json:"outputDir"`
	Projects   []fileProject          `json:"projects"`
	Reporter   []fileReporter         `json:"reporter"`
	Selectors  *fileSelectors         `json:"selectors"`
}

type fileProject struct {
	Name    string        `json:"name"`
	Enabled ldvalue.Value `json:"enabled"`
}

type fileReporter struct {
	Kind string `json:"kind"`
	Open string `json:"open,omitempty"`
}

type fileSelectors struct {
	Email        ldvalue.OptionalString `json:"email"`
	ConfirmEmail ldvalue.OptionalString `json:"confirmEmail"`
	Password     ldvalue.OptionalString `json:"password"`
}

// LoadFile reads a JSON configuration file and overlays it on base.
func LoadFile(path string, base RunConfig) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("could not read configuration file: %w", err)
	}
	c, err := Parse(data, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse overlays a JSON configuration document on base. Unknown properties are rejected so that
// a misspelled property is not silently ignored.
func Parse(data []byte, base RunConfig) (RunConfig, error) {
	var fc fileConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return base, fmt.Errorf("malformed configuration: %w", err)
	}

	c := base.Clone()
	c.BaseURL = fc.BaseURL.OrElse(c.BaseURL)
	if fc.TimeoutMS.IsDefined() {
		c.Timeout = time.Duration(fc.TimeoutMS.IntValue()) * time.Millisecond
	}
	c.Retries = fc.Retries.OrElse(c.Retries)
	c.Workers = fc.Workers.OrElse(c.Workers)
	if !fc.Headless.IsNull() {
		if fc.Headless.Type() != ldvalue.BoolType {
			return base, fmt.Errorf("headless must be a boolean, got %s", fc.Headless.JSONString())
		}
		c.Headless = fc.Headless.BoolValue()
	}
	c.Capture.Screenshot = CaptureMode(fc.Screenshot.OrElse(string(c.Capture.Screenshot)))
	c.Capture.Trace = CaptureMode(fc.Trace.OrElse(string(c.Capture.Trace)))
	c.TestMatch = fc.TestMatch.OrElse(c.TestMatch)
	c.OutputDir = fc.OutputDir.OrElse(c.OutputDir)

	if fc.Projects != nil {
		c.Targets = nil
		for _, p := range fc.Projects {
			enabled := true
			if !p.Enabled.IsNull() {
				if p.Enabled.Type() != ldvalue.BoolType {
					return base, fmt.Errorf("project %q: enabled must be a boolean", p.Name)
				}
				enabled = p.Enabled.BoolValue()
			}
			c.Targets = append(c.Targets, BrowserTarget{Name: p.Name, Enabled: enabled})
		}
	}
	if fc.Reporter != nil {
		c.Reporters = nil
		for _, r := range fc.Reporter {
			c.Reporters = append(c.Reporters, ReporterConfig{Kind: ReporterKind(r.Kind), Open: r.Open})
		}
	}
	if fc.Selectors != nil {
		c.Selectors.Email = fc.Selectors.Email.OrElse(c.Selectors.Email)
		c.Selectors.ConfirmEmail = fc.Selectors.ConfirmEmail.OrElse(c.Selectors.ConfirmEmail)
		c.Selectors.Password = fc.Selectors.Password.OrElse(c.Selectors.Password)
	}
	return c, nil
}
