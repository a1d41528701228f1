package project

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultFiles are processed when neither arguments nor a manifest name any files.
var DefaultFiles = []string{"flappy-bird.js", "leaderboard.js"}

// Targets resolves files against root and drops duplicates, keeping the first
// occurrence so the caller's order is preserved. Names are compared after
// cleaning and NFC normalization, so "café.js" typed on different systems
// collapses to one target. URLs (scheme://...) are kept verbatim.
func Targets(root string, files []string) []string {
	out := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		f = norm.NFC.String(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if !strings.Contains(f, "://") {
			if root != "" && !filepath.IsAbs(f) {
				f = filepath.Join(root, f)
			}
			f = filepath.Clean(f)
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Resolve picks the target list for a run: explicit args win, then the
// manifest's files, then DefaultFiles relative to the manifest root or cwd.
func Resolve(args []string, manifest *Manifest) []string {
	if len(args) > 0 {
		return Targets("", args)
	}
	if manifest != nil {
		if len(manifest.Config.Strip.Files) > 0 {
			return Targets(manifest.Root, manifest.Config.Strip.Files)
		}
		return Targets(manifest.Root, DefaultFiles)
	}
	return Targets("", DefaultFiles)
}
