package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soaklab/leakrun/internal/project"
)

// runPreRunHook executes the configured [hooks].pre_run command at the
// project root before the build. Failure is fatal, same as the main steps.
func runPreRunHook(cmd *cobra.Command, proj *project.Project) error {
	script := strings.TrimSpace(proj.Config.Hooks.PreRun)
	if script == "" {
		return nil
	}
	sh := os.Getenv("SHELL")
	if sh == "" {
		sh = "/bin/sh"
	}
	run := exec.Command(sh, "-c", script)
	run.Dir = proj.Root
	run.Stdout = cmd.OutOrStdout()
	run.Stderr = cmd.ErrOrStderr()
	run.Stdin = os.Stdin
	if err := run.Run(); err != nil {
		return fmt.Errorf("pre_run hook failed: %w", err)
	}
	return nil
}
