package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hush/internal/prof"
)

var profileSession *prof.Session

// setupProfiling reads the persistent profiling flags and starts the
// requested profilers.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return prof.Start(opts)
}

func stopProfiling(cmd *cobra.Command, _ []string) error {
	if profileSession == nil {
		return nil
	}
	err := profileSession.Stop()
	profileSession = nil
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
	}
	return nil
}
