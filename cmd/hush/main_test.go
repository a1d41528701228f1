package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hush/internal/project"
	"hush/internal/storage"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestExecuteStripDefaultTargets(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "flappy-bird.js", "let x = 1;\nconsole.log(x);\nconsole.error(\"fail\");")
	writeFile(t, "leaderboard.js", "save(); console.warn(\"slow\"); render();\n")

	var out, errOut bytes.Buffer
	if err := executeStrip(context.Background(), &out, &errOut, nil, stripSettings{}, globalSettings{}); err != nil {
		t.Fatalf("executeStrip: %v\nstderr: %s", err, errOut.String())
	}
	if out.String() != successMessage+"\n" {
		t.Fatalf("stdout = %q", out.String())
	}
	if got := readFile(t, "flappy-bird.js"); got != "let x = 1;\nconsole.error(\"fail\");" {
		t.Fatalf("flappy-bird.js = %q", got)
	}
	if got := readFile(t, "leaderboard.js"); got != "save(); render();\n" {
		t.Fatalf("leaderboard.js = %q", got)
	}
}

func TestExecuteStripMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "flappy-bird.js", "console.log(1);\n")

	var out, errOut bytes.Buffer
	err := executeStrip(context.Background(), &out, &errOut, nil, stripSettings{}, globalSettings{})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want not-found", err)
	}
	if !strings.Contains(err.Error(), "hush init") {
		t.Fatalf("missing default target should point at hush init: %v", err)
	}
	if strings.Contains(out.String(), successMessage) {
		t.Fatal("success message printed on failure")
	}
	if got := readFile(t, "flappy-bird.js"); got != "" {
		t.Fatalf("first file should still be processed, got %q", got)
	}
}

func TestExecuteStripUsesManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, project.ManifestName), "[strip]\nfiles = [\"src/app.js\"]\nmode = \"line\"\n")
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	app := filepath.Join(dir, "src", "app.js")
	writeFile(t, app, "console.log(fn(x));\nok();\n")
	t.Chdir(filepath.Join(dir, "src"))

	var out, errOut bytes.Buffer
	settings := stripSettings{report: true}
	if err := executeStrip(context.Background(), &out, &errOut, nil, settings, globalSettings{timings: true}); err != nil {
		t.Fatalf("executeStrip: %v", err)
	}
	if got := readFile(t, app); got != "ok();\n" {
		t.Fatalf("app.js = %q", got)
	}
	if !strings.Contains(out.String(), "changed") || !strings.HasSuffix(out.String(), successMessage+"\n") {
		t.Fatalf("stdout = %q", out.String())
	}
	if !strings.Contains(out.String(), "1 files: 1 changed") {
		t.Fatalf("report summary missing: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "timings:") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestExecuteStripQuietAndArgs(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "a.js", "console.log(1);\nrun();\n")

	var out, errOut bytes.Buffer
	if err := executeStrip(context.Background(), &out, &errOut, []string{"a.js"}, stripSettings{}, globalSettings{quiet: true}); err != nil {
		t.Fatalf("executeStrip: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("quiet run wrote %q", out.String())
	}
	if got := readFile(t, "a.js"); got != "run();\n" {
		t.Fatalf("a.js = %q", got)
	}
}

func TestExecuteStripRejectsBadSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	bad := "ast"
	var out, errOut bytes.Buffer
	if err := executeStrip(context.Background(), &out, &errOut, []string{"a.js"}, stripSettings{mode: &bad}, globalSettings{}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if err := executeStrip(context.Background(), &out, &errOut, []string{"a.js"}, stripSettings{ui: "maybe"}, globalSettings{}); err == nil {
		t.Fatal("expected error for unknown ui mode")
	}
	if err := executeStrip(context.Background(), &out, &errOut, []string{"a.js"}, stripSettings{}, globalSettings{logLevel: "loud"}); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestEffectiveConfigFlagsOverrideManifest(t *testing.T) {
	manifest := &project.Manifest{Config: project.Config{
		Strip: project.StripConfig{Mode: "line", Jobs: 4, Cache: true},
		Log:   project.LogConfig{Level: "warn"},
	}}
	mode, jobs, cache := "regex", 2, false
	cfg := effectiveConfig(manifest, stripSettings{mode: &mode, jobs: &jobs, cache: &cache}, globalSettings{logLevel: "debug"})
	if cfg.Strip.Mode != "regex" || cfg.Strip.Jobs != 2 || cfg.Strip.Cache || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	cfg = effectiveConfig(manifest, stripSettings{}, globalSettings{})
	if cfg.Strip.Mode != "line" || cfg.Strip.Jobs != 4 || !cfg.Strip.Cache || cfg.Log.Level != "warn" {
		t.Fatalf("manifest values lost: %+v", cfg)
	}
	if cfg := effectiveConfig(nil, stripSettings{}, globalSettings{}); cfg.Strip.Mode != "" || cfg.Strip.Jobs != 0 {
		t.Fatalf("unexpected zero config %+v", cfg)
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeOff, "off": uiModeOff, "AUTO": uiModeAuto, " on ": uiModeOn}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected error")
	}
	if shouldUseTUI(uiModeOff) || !shouldUseTUI(uiModeOn) {
		t.Error("explicit modes must be honoured")
	}
}

func TestResolveColor(t *testing.T) {
	cases := []struct {
		value string
		tty   bool
		want  bool
	}{
		{"on", false, true},
		{"off", true, false},
		{"auto", true, true},
		{"auto", false, false},
		{"", true, true},
	}
	for _, tc := range cases {
		got, err := resolveColor(tc.value, tc.tty)
		if err != nil || got != tc.want {
			t.Errorf("resolveColor(%q, %v) = %v, %v", tc.value, tc.tty, got, err)
		}
	}
	if _, err := resolveColor("rainbow", true); err == nil {
		t.Error("expected error")
	}
}

func TestRunInitCreatesManifestOnce(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runInit(cmd, []string{"game"}); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	path := filepath.Join(dir, "game", project.ManifestName)
	if _, err := project.DecodeConfig(path); err != nil {
		t.Fatalf("generated manifest invalid: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Fatalf("stdout = %q", out.String())
	}
	if err := runInit(cmd, []string{"game"}); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("second init err = %v", err)
	}
}

func TestVersionReport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	writeFile(t, filepath.Join(dir, project.ManifestName), project.RenderDefault())
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	report := collectVersionReport(filepath.Join(dir, "src"))
	if report.Manifest != filepath.Join(dir, project.ManifestName) {
		t.Fatalf("Manifest = %q", report.Manifest)
	}
	if report.CacheDir != filepath.Join(dir, "cache", "hush") {
		t.Fatalf("CacheDir = %q", report.CacheDir)
	}
	if strings.Join(report.Modes, ",") != "regex,line" {
		t.Fatalf("Modes = %v", report.Modes)
	}

	var buf bytes.Buffer
	if err := writeVersionJSON(&buf, report); err != nil {
		t.Fatalf("writeVersionJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"version", "go_version", "modes", "manifest", "cache_dir"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("json misses %q: %s", key, buf.String())
		}
	}
	if _, ok := decoded["commit"]; ok && report.Commit == "" {
		t.Errorf("empty commit should be omitted: %s", buf.String())
	}
}

func TestWriteVersionText(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	r := versionReport{Modes: []string{"regex", "line"}}
	r.Version = "1.2.3"
	r.GoVersion = "go1.25.1"

	var short bytes.Buffer
	if err := writeVersionText(&short, r, false); err != nil {
		t.Fatal(err)
	}
	if short.String() != "hush 1.2.3\n" {
		t.Fatalf("short output = %q", short.String())
	}

	var long bytes.Buffer
	if err := writeVersionText(&long, r, true); err != nil {
		t.Fatal(err)
	}
	out := long.String()
	for _, want := range []string{"commit    -", "go        go1.25.1", "modes     [regex line]", "cache     -"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output misses %q:\n%s", want, out)
		}
	}
}
