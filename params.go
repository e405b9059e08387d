package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"

	"github.com/alessio/shellescape"
)

const defaultPort = 8111

type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*s = append(*s, v)
		}
	}
	return nil
}

type commandParams struct {
	configFile string
	baseURL    string
	filters    framework.RegexFilters
	retries    int
	timeout    time.Duration
	browsers   stringList
	workers    int
	outputDir  string
	headless   bool
	screenshot string
	trace      string
	fixture    bool
	install    bool
	host       string
	port       int
	debug      bool
	debugAll   bool

	// set records which flags appeared on the command line, so that only those override the
	// configuration file.
	set map[string]bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.configFile, "config", "", "JSON configuration file")
	fs.StringVar(&c.baseURL, "url", "", "URL of the registration page")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.IntVar(&c.retries, "retries", 0, "number of times to retry a failed test")
	fs.DurationVar(&c.timeout, "timeout", 0, "time limit for each test attempt")
	fs.Var(&c.browsers, "browser", "browser target(s) to run: "+strings.Join(config.AllTargets, ", "))
	fs.IntVar(&c.workers, "workers", 0, "number of tests to run at once")
	fs.StringVar(&c.outputDir, "output", "", "directory for screenshots, traces and reports")
	fs.BoolVar(&c.headless, "headless", false, "run browsers without a visible window")
	fs.StringVar(&c.screenshot, "screenshot", "", "screenshot capture: on or off")
	fs.StringVar(&c.trace, "trace", "", "trace capture: on or off")
	fs.BoolVar(&c.fixture, "fixture", false, "serve the built-in reference registration page and test against it")
	fs.BoolVar(&c.install, "install", false, "install the Playwright driver and browsers before running")
	fs.StringVar(&c.host, "host", "localhost", "external hostname of the test harness (with -fixture)")
	fs.IntVar(&c.port, "port", defaultPort, "port that the test harness will listen on (with -fixture)")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	// The FlagSet has already printed the error and usage.
	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	if c.fixture && c.baseURL != "" {
		fmt.Fprintln(os.Stderr, "-url and -fixture cannot be used together")
		fs.Usage()
		return false
	}
	c.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { c.set[f.Name] = true })
	return true
}

// RunConfig builds the run configuration: the defaults, then the configuration file if any, then
// the command-line overrides.
func (c *commandParams) RunConfig() (config.RunConfig, error) {
	cfg := config.Default()
	if c.configFile != "" {
		loaded, err := config.LoadFile(c.configFile, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if c.set["url"] {
		cfg.BaseURL = c.baseURL
	}
	if c.set["retries"] {
		cfg.Retries = c.retries
	}
	if c.set["timeout"] {
		cfg.Timeout = c.timeout
	}
	if c.set["browser"] {
		cfg = cfg.WithOnlyTargets(c.browsers)
	}
	if c.set["workers"] {
		cfg.Workers = c.workers
	}
	if c.set["output"] {
		cfg.OutputDir = c.outputDir
	}
	if c.set["headless"] {
		cfg.Headless = c.headless
	}
	if c.set["screenshot"] {
		cfg.Capture.Screenshot = config.CaptureMode(c.screenshot)
	}
	if c.set["trace"] {
		cfg.Capture.Trace = config.CaptureMode(c.trace)
	}
	return cfg, cfg.Validate()
}

// reproduceCommand returns a shell command that runs just the given test again with the same
// configuration file and the same command-line overrides.
func (c *commandParams) reproduceCommand(program string, cfg config.RunConfig, id framework.TestID) string {
	var b commandBuilder
	b.add(program)
	if c.configFile != "" {
		b.add("-config", c.configFile)
	}
	if c.fixture {
		b.add("-fixture")
		if c.set["host"] {
			b.add("-host", c.host)
		}
		if c.set["port"] {
			b.add("-port", strconv.Itoa(c.port))
		}
	} else if c.set["url"] {
		b.add("-url", cfg.BaseURL)
	}
	if len(id.Path) > 1 {
		b.add("-browser", id.Path[0])
	}
	if c.set["headless"] {
		b.add(fmt.Sprintf("-headless=%t", cfg.Headless))
	}
	if c.set["retries"] {
		b.add("-retries", strconv.Itoa(c.retries))
	}
	if c.set["timeout"] {
		b.add("-timeout", c.timeout.String())
	}
	if c.set["workers"] {
		b.add("-workers", strconv.Itoa(c.workers))
	}
	if c.set["output"] {
		b.add("-output", c.outputDir)
	}
	if c.set["screenshot"] {
		b.add("-screenshot", c.screenshot)
	}
	if c.set["trace"] {
		b.add("-trace", c.trace)
	}
	b.add("-run", "^"+regexp.QuoteMeta(id.String())+"$")
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
