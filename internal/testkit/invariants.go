// Package testkit holds invariant checks shared by unit and fuzz tests.
package testkit

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"hush/internal/source"
	"hush/internal/strip"
)

// CheckFileInvariants runs a minimal set of invariants on a decoded file:
// 1) LineIdx lists exactly the '\n' offsets of Content, ascending
// 2) Hash is the SHA-256 of Content
func CheckFileInvariants(f *source.File) error {
	if f == nil {
		return fmt.Errorf("nil file")
	}
	want := bytes.Count(f.Content, []byte{'\n'})
	if len(f.LineIdx) != want {
		return fmt.Errorf("%s: %d line offsets for %d line breaks", f.Path, len(f.LineIdx), want)
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prev uint32
	for i, off := range f.LineIdx {
		if off >= lenContent {
			return fmt.Errorf("%s: line offset %d beyond content (%d bytes)", f.Path, off, lenContent)
		}
		if i > 0 && off <= prev {
			return fmt.Errorf("%s: line offsets not ascending at %d", f.Path, i)
		}
		if f.Content[off] != '\n' {
			return fmt.Errorf("%s: offset %d is %q, not a line break", f.Path, off, f.Content[off])
		}
		prev = off
	}

	if sha256.Sum256(f.Content) != f.Hash {
		return fmt.Errorf("%s: hash does not match content", f.Path)
	}
	return nil
}

// CheckStripInvariants verifies a regex-mode rewrite of in into out:
// 1) out is never longer than in
// 2) out holds no run of three line breaks separated only by whitespace
// 3) input without any targeted call changes only by blank-line collapse
func CheckStripInvariants(in, out string) error {
	if len(out) > len(in) {
		return fmt.Errorf("output grew from %d to %d bytes", len(in), len(out))
	}
	if again, n := strip.CollapseBlankRuns(out); n != 0 || again != out {
		return fmt.Errorf("output still holds %d blank runs", n)
	}
	if !strings.Contains(in, "console.log(") && !strings.Contains(in, "console.warn(") {
		if collapsed, _ := strip.CollapseBlankRuns(in); collapsed != out {
			return fmt.Errorf("input without targeted calls was rewritten")
		}
	}
	return nil
}
