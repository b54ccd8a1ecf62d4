package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soaklab/leakrun/internal/config"
	"github.com/soaklab/leakrun/internal/project"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default leakrun.toml, marking this directory as the project root",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	path := filepath.Join(wd, project.ConfigName)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "leakrun already initialized at %s\n", wd)
		return nil
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit it to point at your Dockerfile and test entry point, then run `leakrun`.")
	return nil
}
