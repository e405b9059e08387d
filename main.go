package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/launchdarkly/registration-ui-tests/browser"
	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"
	"github.com/launchdarkly/registration-ui-tests/regpage"
	"github.com/launchdarkly/registration-ui-tests/regtests"
	"github.com/launchdarkly/registration-ui-tests/report"

	"github.com/google/uuid"
)

const probeTimeout = time.Second * 10

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args) {
		return 1
	}
	cfg, err := params.RunConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if params.install {
		fmt.Printf("Installing Playwright for %v\n", cfg.EnabledTargets())
		if err := browser.Install(cfg.EnabledTargets()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if params.fixture {
		harness, err := framework.NewTestHarness(params.host, params.port, mainDebugLogger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Test harness error: %s\n", err)
			return 1
		}
		defer harness.Close()
		handler, err := regpage.NewHandler(framework.LoggerWithPrefix(mainDebugLogger, "[fixture] "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create reference page: %s\n", err)
			return 1
		}
		endpoint := harness.NewMockEndpoint(handler, "reference registration page", 0, nil)
		cfg.BaseURL = endpoint.BaseURL() + "/"
	}

	if _, err := framework.ProbeTarget(nil, cfg.BaseURL, probeTimeout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Target page error: %s\n", err)
		return 1
	}

	filter, err := regtests.ScenarioFilter(cfg, params.filters)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	engine, err := browser.Start(cfg.Headless, mainDebugLogger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		if err := engine.Stop(); err != nil {
			mainDebugLogger.Printf("Error stopping Playwright: %s", err)
		}
	}()

	fmt.Println()
	framework.PrintFilterDescription(params.filters, cfg.DisabledTargets())

	runID := uuid.NewString()
	started := time.Now()
	fmt.Printf("Running test suite (run %s)\n", runID)

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	results := regtests.RunTestSuite(ctx, engine, cfg, filter, testLogger)

	fmt.Println()
	if cfg.HasReporter(config.ListReporter) {
		printResults(os.Stdout, results, &params, args[0], cfg)
	}
	summary := report.NewSummary(runID, started, cfg, results)
	fmt.Printf("Finished in %s\n", formatDuration(summary.Duration))
	paths, err := report.WriteFiles(cfg.OutputDir, cfg.Reporters, summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not write report: %s\n", err)
		return 1
	}
	for _, p := range paths {
		fmt.Printf("Report written to %s\n", p)
	}

	if !results.OK() {
		return 1
	}
	return 0
}
