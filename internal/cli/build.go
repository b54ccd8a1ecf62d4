package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soaklab/leakrun/internal/engine"
	"github.com/soaklab/leakrun/internal/project"
)

type buildOptions struct {
	projectDir string
	engineBin  string
	dryRun     bool
}

func newBuildCommand() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the leak-test image without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.projectDir, "project", "C", "", "project root (default: discovered from the working directory)")
	cmd.Flags().StringVar(&opts.engineBin, "engine", "", "container engine binary (default: from config, else autodetect)")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "print the engine command without executing it")
	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOptions) error {
	proj, err := project.Locate(opts.projectDir)
	if err != nil {
		return err
	}
	engineBin := opts.engineBin
	if engineBin == "" {
		engineBin = proj.Config.Engine
	}
	eng, err := engine.Detect(engineBin)
	if err != nil {
		return err
	}
	eng.DryRun = opts.dryRun
	eng.Stdout = cmd.OutOrStdout()
	eng.Stderr = cmd.ErrOrStderr()

	printPhase(cmd.OutOrStdout(), 1, 1, fmt.Sprintf("Building image %s", proj.Config.Image))
	return eng.Build(engine.BuildSpec{
		Buildfile: proj.BuildfilePath(),
		Context:   proj.ContextPath(),
		Tag:       proj.Config.Image,
	})
}
