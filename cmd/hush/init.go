package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hush/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a hush.toml manifest",
	Long: `Create a hush.toml manifest listing the files to strip. If [path] is
omitted, the current directory is used. A missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target, err := resolveInitTarget(args)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path, err := project.WriteDefault(target)
	if errors.Is(err, project.ErrManifestExists) {
		return fmt.Errorf("project already initialized: %s exists", path)
	}
	if err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}

func resolveInitTarget(args []string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if len(args) == 0 || args[0] == "." {
		return wd, nil
	}
	if filepath.IsAbs(args[0]) {
		return filepath.Clean(args[0]), nil
	}
	return filepath.Join(wd, args[0]), nil
}
