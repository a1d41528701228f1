package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"hush/internal/driver"
)

const maxPathWidth = 60

// RenderReport writes one row per result: outcome, path and rule counters.
func RenderReport(w io.Writer, results []driver.StripResult) error {
	pathWidth := 4
	for _, r := range results {
		pathWidth = max(pathWidth, min(runewidth.StringWidth(r.Path), maxPathWidth))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %s %10s %6s %5s %9s %s\n",
		"status", runewidth.FillRight("file", pathWidth), "standalone", "inline", "catch", "collapsed", "lines")
	for _, r := range results {
		outcome := Outcome(r)
		label := StatusStyle(outcome).Render(fmt.Sprintf("%-8s", outcome))
		path := runewidth.FillRight(Truncate(r.Path, pathWidth), pathWidth)
		if r.Err != nil {
			fmt.Fprintf(&b, "%s %s %v\n", label, path, r.Err)
			continue
		}
		fmt.Fprintf(&b, "%s %s %10d %6d %5d %9d %d->%d\n",
			label, path,
			r.Stats.Standalone, r.Stats.Inline, r.Stats.Catch, r.Stats.Collapsed,
			r.LinesBefore, r.LinesAfter)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Outcome names the result of processing a file.
func Outcome(r driver.StripResult) string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.Skipped:
		return "skipped"
	case r.Changed:
		return "changed"
	default:
		return "clean"
	}
}

// Summary is the one-line tally printed under the report.
func Summary(results []driver.StripResult) string {
	total, changed, skipped, failed := driver.Totals(results)
	clean := len(results) - changed - skipped - failed
	return fmt.Sprintf("%d files: %d changed, %d clean, %d skipped, %d failed; %d calls removed, %d catch handlers neutralised",
		len(results), changed, clean, skipped, failed, total.Removed(), total.Catch)
}
