// Package report writes the end-of-run reports: a Markdown summary and an HTML rendering of it.
// The HTML report is only written to disk and is never opened automatically.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/launchdarkly/registration-ui-tests/config"
	"github.com/launchdarkly/registration-ui-tests/framework"
	"github.com/launchdarkly/registration-ui-tests/regtests"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	MarkdownFileName = "report.md"
	HTMLFileName     = "index.html"
)

// Summary is everything a report shows about one run.
type Summary struct {
	RunID           string
	StartedAt       time.Time
	Duration        time.Duration
	BaseURL         string
	Targets         []string
	DisabledTargets []string
	OutputDir       string
	Results         framework.Results
}

func NewSummary(runID string, startedAt time.Time, cfg config.RunConfig, results framework.Results) Summary {
	return Summary{
		RunID:           runID,
		StartedAt:       startedAt,
		Duration:        time.Since(startedAt),
		BaseURL:         cfg.BaseURL,
		Targets:         cfg.EnabledTargets(),
		DisabledTargets: cfg.DisabledTargets(),
		OutputDir:       cfg.OutputDir,
		Results:         results,
	}
}

func status(r framework.TestResult) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Failed():
		return "failed"
	case r.Flaky():
		return "flaky"
	default:
		return "passed"
	}
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

// WriteMarkdown writes the summary as GitHub-flavored Markdown.
func WriteMarkdown(w io.Writer, s Summary) error {
	var b strings.Builder
	passed, failed, skipped := s.Results.Counts()
	flaky := 0
	for _, r := range s.Results.Tests {
		if r.Flaky() {
			flaky++
		}
	}

	b.WriteString("# Registration page test report\n\n")
	fmt.Fprintf(&b, "- Run ID: `%s`\n", s.RunID)
	fmt.Fprintf(&b, "- Started: %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %s\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "- Base URL: <%s>\n", s.BaseURL)
	fmt.Fprintf(&b, "- Targets: %s\n", strings.Join(s.Targets, ", "))
	if len(s.DisabledTargets) > 0 {
		fmt.Fprintf(&b, "- Disabled targets: %s\n", strings.Join(s.DisabledTargets, ", "))
	}
	fmt.Fprintf(&b, "- Result: **%d passed, %d failed, %d skipped** (%d flaky)\n\n", passed, failed, skipped, flaky)

	b.WriteString("| Status | Test | Attempts | Duration |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range s.Results.Sorted() {
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
			status(r), escapeCell(r.TestID.String()), r.Attempts, r.Duration.Round(time.Millisecond))
	}

	if len(s.Results.Failures) > 0 {
		b.WriteString("\n## Failures\n")
		for _, r := range s.Results.Failures {
			fmt.Fprintf(&b, "\n### %s\n\n", r.TestID)
			b.WriteString("```text\n")
			for _, err := range r.Errors {
				b.WriteString(strings.TrimRight(err.Error(), "\n"))
				b.WriteString("\n")
			}
			b.WriteString("```\n")
			if len(r.TestID.Path) == 2 && r.Attempts > 0 {
				dir := regtests.ArtifactDir(s.OutputDir, r.TestID.Path[0], r.TestID.Last(), r.Attempts)
				fmt.Fprintf(&b, "\nArtifacts: `%s`\n", dir)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var htmlShell = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Test report {{.RunID}}</title>
<style>
  body { font-family: sans-serif; margin: 2em; }
  table { border-collapse: collapse; }
  th, td { border: 1px solid #ccc; padding: 0.3em 0.6em; text-align: left; }
  pre { background: #f4f4f4; padding: 1em; overflow-x: auto; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// WriteHTML renders the Markdown summary to a standalone HTML page.
func WriteHTML(w io.Writer, s Summary) error {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, s); err != nil {
		return err
	}
	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := converter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("could not render report: %w", err)
	}
	// goldmark omits raw HTML from its input unless told otherwise, so the body is safe to embed.
	return htmlShell.Execute(w, struct {
		RunID string
		Body  template.HTML
	}{s.RunID, template.HTML(body.String())})
}

// WriteFiles writes one file for each file-based reporter in reporters to dir, and returns the
// paths written. The list reporter writes to the console and is not handled here.
func WriteFiles(dir string, reporters []config.ReporterConfig, s Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create report directory: %w", err)
	}
	paths := []string{filepath.Join(dir, MarkdownFileName)}
	if err := writeFile(paths[0], s, WriteMarkdown); err != nil {
		return nil, err
	}
	for _, r := range reporters {
		if r.Kind == config.HTMLReporter {
			path := filepath.Join(dir, HTMLFileName)
			if err := writeFile(path, s, WriteHTML); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func writeFile(path string, s Summary, write func(io.Writer, Summary) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	if err := write(f, s); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return f.Close()
}
