package framework

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const probeRetryInterval = time.Millisecond * 100

// TargetInfo is what we learned about the page under test from the initial probe.
type TargetInfo struct {
	URL        string
	StatusCode int
	Title      string
}

// ProbeTarget verifies that the page under test is being served before any browser is started,
// retrying until it gets a response or the timeout elapses. Progress is written to output.
func ProbeTarget(client *http.Client, url string, timeout time.Duration, output io.Writer) (TargetInfo, error) {
	if client == nil {
		client = http.DefaultClient
	}
	fmt.Fprintf(output, "Connecting to target page at %s", url)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := client.Get(url)
		if err == nil {
			fmt.Fprintln(output)
			info, err := readTargetInfo(url, resp)
			if err != nil {
				return TargetInfo{}, err
			}
			if info.Title != "" {
				fmt.Fprintf(output, "Target page responded with status %d: %q\n", info.StatusCode, info.Title)
			} else {
				fmt.Fprintf(output, "Target page responded with status %d\n", info.StatusCode)
			}
			return info, nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return TargetInfo{}, fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(probeRetryInterval)
	}
}

func readTargetInfo(url string, resp *http.Response) (TargetInfo, error) {
	defer func() { _ = resp.Body.Close() }()
	info := TargetInfo{URL: url, StatusCode: resp.StatusCode}
	if resp.StatusCode >= 400 {
		return info, fmt.Errorf("target page returned status code %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return info, err
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return info, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return info, fmt.Errorf("malformed HTML from target page: %w", err)
	}
	info.Title = strings.TrimSpace(doc.Find("title").First().Text())
	return info, nil
}
