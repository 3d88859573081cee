package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Run executes the clean command.
func (c *CleanCmd) Run(deps *Dependencies) error {
	html, err := readInput(deps, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if deps.Extractor != nil {
		html = extractMain(deps, html)
	}

	result := deps.Sanitizer.Sanitize(html, c.Token)

	if _, err := io.WriteString(deps.Stdout, result.HTML); err != nil {
		return err
	}

	if c.Stats {
		fmt.Fprintf(deps.Stderr, "%s in, %s out\n", FormatBytes(result.InputBytes), FormatBytes(len(result.HTML)))
		reasons := make([]string, 0, len(result.Removed))
		for reason := range result.Removed {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(deps.Stderr, "  removed %d %s\n", result.Removed[reason], reason)
		}
		for _, s := range result.Skipped {
			fmt.Fprintf(deps.Stderr, "  skipped stage %s: %v\n", s.Stage, s.Err)
		}
	}

	return nil
}

// extractMain returns the page's main content, or the whole page when the
// extractor finds nothing usable.
func extractMain(deps *Dependencies, html string) string {
	result, err := deps.Extractor.Extract(html)
	if err != nil || result == nil || strings.TrimSpace(result.ContentHTML) == "" {
		fmt.Fprintf(deps.Stderr, "warning: main content not found, sanitizing full page (%v)\n", err)
		return html
	}
	return result.ContentHTML
}
