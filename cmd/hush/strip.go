package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hush/internal/driver"
	"hush/internal/logx"
	"hush/internal/observ"
	"hush/internal/project"
	"hush/internal/storage"
	"hush/internal/strip"
	"hush/internal/ui"
)

const successMessage = "Console statements removed successfully!"

var stripCmd = &cobra.Command{
	Use:   "strip [flags] [paths...]",
	Short: "Strip console.log and console.warn calls from the given files",
	Long: `Strip console.log and console.warn calls from the given files, in order.
Without paths the files listed in hush.toml (or the defaults) are used.
Files are rewritten in place; files that need no change are left untouched.`,
	RunE: runStripCmd,
}

func init() {
	stripCmd.Flags().String("mode", "regex", "stripping strategy (regex|line)")
	stripCmd.Flags().Int("jobs", 1, "number of files processed concurrently")
	stripCmd.Flags().Bool("cache", false, "skip files recorded as already clean")
	stripCmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	stripCmd.Flags().Bool("report", false, "print a per-file report")
}

// stripSettings holds command-line overrides. A nil pointer means the flag
// was not given and the manifest value applies.
type stripSettings struct {
	mode   *string
	jobs   *int
	cache  *bool
	ui     string
	report bool
}

// globalSettings are the persistent root flags.
type globalSettings struct {
	quiet    bool
	timings  bool
	logLevel string
}

func runDefault(cmd *cobra.Command, _ []string) error {
	global, err := readGlobalSettings(cmd)
	if err != nil {
		return err
	}
	return executeStrip(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), nil, stripSettings{ui: "off"}, global)
}

func runStripCmd(cmd *cobra.Command, args []string) error {
	global, err := readGlobalSettings(cmd)
	if err != nil {
		return err
	}
	settings, err := readStripSettings(cmd)
	if err != nil {
		return err
	}
	return executeStrip(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, settings, global)
}

func readGlobalSettings(cmd *cobra.Command) (globalSettings, error) {
	flags := cmd.Root().PersistentFlags()
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return globalSettings{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return globalSettings{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	level, err := flags.GetString("log-level")
	if err != nil {
		return globalSettings{}, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	return globalSettings{quiet: quiet, timings: timings, logLevel: level}, nil
}

func readStripSettings(cmd *cobra.Command) (stripSettings, error) {
	var s stripSettings
	flags := cmd.Flags()
	if flags.Changed("mode") {
		v, err := flags.GetString("mode")
		if err != nil {
			return s, err
		}
		s.mode = &v
	}
	if flags.Changed("jobs") {
		v, err := flags.GetInt("jobs")
		if err != nil {
			return s, err
		}
		if v < 1 {
			return s, fmt.Errorf("--jobs must be at least 1, got %d", v)
		}
		s.jobs = &v
	}
	if flags.Changed("cache") {
		v, err := flags.GetBool("cache")
		if err != nil {
			return s, err
		}
		s.cache = &v
	}
	var err error
	if s.ui, err = flags.GetString("ui"); err != nil {
		return s, err
	}
	if s.report, err = flags.GetBool("report"); err != nil {
		return s, err
	}
	return s, nil
}

// effectiveConfig layers flag overrides on top of the manifest config.
func effectiveConfig(manifest *project.Manifest, s stripSettings, global globalSettings) project.Config {
	var cfg project.Config
	if manifest != nil {
		cfg = manifest.Config
	}
	if s.mode != nil {
		cfg.Strip.Mode = *s.mode
	}
	if s.jobs != nil {
		cfg.Strip.Jobs = *s.jobs
	}
	if s.cache != nil {
		cfg.Strip.Cache = *s.cache
	}
	if global.logLevel != "" {
		cfg.Log.Level = global.logLevel
	}
	return cfg
}

func executeStrip(ctx context.Context, out, errOut io.Writer, args []string, s stripSettings, global globalSettings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	uiModeValue, err := readUIMode(s.ui)
	if err != nil {
		return err
	}

	manifest, _, err := project.LoadManifest(".")
	if err != nil {
		return err
	}
	cfg := effectiveConfig(manifest, s, global)
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode, err := strip.ParseMode(cfg.Strip.Mode)
	if err != nil {
		return err
	}
	logger, err := logx.New(errOut, cfg.Log.Level)
	if err != nil {
		return err
	}

	targets := project.Resolve(args, manifest)
	opts := driver.StripOptions{
		Mode:   mode,
		Jobs:   cfg.Strip.Jobs,
		Logger: logger,
	}
	if cfg.Strip.Cache {
		cache, cacheErr := driver.OpenCleanCache("hush")
		if cacheErr != nil {
			logger.Warn("clean cache disabled", "err", cacheErr)
		} else {
			opts.Cache = cache
		}
	}
	logger.Debug("starting", "files", len(targets), "mode", mode, "jobs", opts.Jobs, "cache", opts.Cache != nil)

	var results []driver.StripResult
	if !global.quiet && shouldUseTUI(uiModeValue) {
		results, err = runStripWithUI(ctx, "stripping console calls", targets, opts)
	} else {
		results, err = driver.StripPaths(ctx, targets, opts)
	}

	total, changed, skipped, failed := driver.Totals(results)
	logger.Debug("finished",
		"changed", changed,
		"skipped", skipped,
		"failed", failed,
		"removed", total.Removed(),
		"catch", total.Catch,
	)
	if s.report && len(results) > 0 {
		if reportErr := ui.RenderReport(out, results); reportErr != nil && err == nil {
			err = reportErr
		}
		if _, printErr := fmt.Fprintln(out, ui.Summary(results)); printErr != nil && err == nil {
			err = printErr
		}
	}
	if global.timings {
		printTimings(errOut, results)
	}
	if storage.IsNotFound(err) && len(args) == 0 {
		return fmt.Errorf("%w (pass paths to strip, or list them in %s; see hush init)", err, project.ManifestName)
	}
	if err != nil {
		return err
	}
	if !global.quiet {
		_, err = fmt.Fprintln(out, successMessage)
	}
	return err
}

func printTimings(out io.Writer, results []driver.StripResult) {
	reports := make([]observ.Report, 0, len(results))
	for _, r := range results {
		reports = append(reports, r.Timing)
	}
	_, _ = fmt.Fprint(out, observ.Sum(reports...).Summary())
}
