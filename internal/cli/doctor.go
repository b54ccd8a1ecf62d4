package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/soaklab/leakrun/internal/engine"
	"github.com/soaklab/leakrun/internal/project"
)

func newDoctorCommand() *cobra.Command {
	var verbose bool
	var projectDir string
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose leakrun prerequisites and project layout issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, projectDir, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show passing checks too")
	cmd.Flags().StringVarP(&projectDir, "project", "C", "", "project root (default: discovered from the working directory)")
	return cmd
}

type doctorContext struct {
	Project *project.Project
}

type doctorCheck struct {
	Name string
	Fn   func(*doctorContext) error
}

func runDoctor(cmd *cobra.Command, projectDir string, verbose bool) error {
	ctx := &doctorContext{}
	checks := []doctorCheck{
		{Name: "container engine installed", Fn: checkEngine},
		{Name: "project layout", Fn: func(c *doctorContext) error {
			proj, err := project.Locate(projectDir)
			if err != nil {
				return err
			}
			c.Project = proj
			return nil
		}},
		{Name: "buildfile present", Fn: checkBuildfile},
		{Name: "build context present", Fn: checkContext},
		{Name: "test script in context", Fn: checkTestScript},
		{Name: "shared-memory size parseable", Fn: checkShmSize},
	}

	var failures []string
	for _, check := range checks {
		err := check.Fn(ctx)
		if err != nil {
			failures = append(failures, fmt.Sprintf("✗ %s: %v", check.Name, err))
			continue
		}
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", check.Name)
		}
	}

	if len(failures) > 0 {
		for _, failure := range failures {
			fmt.Fprintln(cmd.ErrOrStderr(), failure)
		}
		return fmt.Errorf("%d doctor checks failed", len(failures))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "healthy!")
	return nil
}

func checkEngine(ctx *doctorContext) error {
	override := ""
	if ctx.Project != nil {
		override = ctx.Project.Config.Engine
	}
	_, err := engine.Detect(override)
	return err
}

func checkBuildfile(ctx *doctorContext) error {
	if ctx.Project == nil {
		return errors.New("project not resolved")
	}
	path := ctx.Project.BuildfilePath()
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		return fmt.Errorf("%s not found or not a file", path)
	}
	return nil
}

func checkContext(ctx *doctorContext) error {
	if ctx.Project == nil {
		return errors.New("project not resolved")
	}
	path := ctx.Project.ContextPath()
	if st, err := os.Stat(path); err != nil || !st.IsDir() {
		return fmt.Errorf("%s not found or not a directory", path)
	}
	return nil
}

// checkTestScript verifies the entrypoint's script argument exists in the
// build context, since the image copies it from there. Best effort: skipped
// when the entrypoint has no script argument or names an absolute path.
func checkTestScript(ctx *doctorContext) error {
	if ctx.Project == nil {
		return errors.New("project not resolved")
	}
	fields, err := ctx.Project.Config.SplitEntrypoint()
	if err != nil {
		return err
	}
	if len(fields) < 2 || filepath.IsAbs(fields[1]) {
		return nil
	}
	script := filepath.Join(ctx.Project.ContextPath(), fields[1])
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("%s not found in build context", fields[1])
	}
	return nil
}

func checkShmSize(ctx *doctorContext) error {
	if ctx.Project == nil {
		return errors.New("project not resolved")
	}
	if _, err := units.RAMInBytes(ctx.Project.Config.ShmSize); err != nil {
		return fmt.Errorf("shm_size %q: %v", ctx.Project.Config.ShmSize, err)
	}
	return nil
}
