package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hush/internal/driver"
	"hush/internal/project"
	"hush/internal/strip"
	"hush/internal/version"
)

// versionReport is what `hush version` prints: the build plus the setup a
// strip run in the current directory would use.
type versionReport struct {
	version.Info
	Modes    []string `json:"modes"`
	Manifest string   `json:"manifest,omitempty"`
	CacheDir string   `json:"cache_dir,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show hush build and environment information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("json", false, "print the report as JSON")
	versionCmd.Flags().BoolP("verbose", "v", false, "include build metadata, manifest and cache location")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	report := collectVersionReport(".")
	if asJSON {
		return writeVersionJSON(cmd.OutOrStdout(), report)
	}
	return writeVersionText(cmd.OutOrStdout(), report, verbose)
}

// collectVersionReport never fails: a missing manifest or cache location is
// simply left out.
func collectVersionReport(dir string) versionReport {
	report := versionReport{Info: version.Current()}
	for _, m := range strip.Modes {
		report.Modes = append(report.Modes, m.String())
	}
	if path, ok, err := project.FindManifest(dir); err == nil && ok {
		report.Manifest = path
	}
	if cacheDir, err := driver.CacheDir("hush"); err == nil {
		report.CacheDir = cacheDir
	}
	return report
}

func writeVersionText(out io.Writer, r versionReport, verbose bool) error {
	if _, err := fmt.Fprintf(out, "hush %s\n", version.Colored(r.Version)); err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	rows := [][2]string{
		{"commit", r.Commit},
		{"message", r.Message},
		{"built", r.BuildDate},
		{"go", r.GoVersion},
		{"modes", fmt.Sprint(r.Modes)},
		{"manifest", r.Manifest},
		{"cache", r.CacheDir},
	}
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = "-"
		}
		if _, err := fmt.Fprintf(out, "  %-9s %s\n", row[0], value); err != nil {
			return err
		}
	}
	return nil
}

func writeVersionJSON(out io.Writer, r versionReport) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
