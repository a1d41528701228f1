package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hush/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Forget which files were recorded as clean",
	Long:  "Remove every entry of the clean-state cache used by strip --cache.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenCleanCache("hush")
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", cache.Dir(), err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", cache.Dir())
	}
	return nil
}
