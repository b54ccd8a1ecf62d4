package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/soaklab/leakrun/internal/engine"
	"github.com/soaklab/leakrun/internal/project"
)

func newTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test [test args...]",
		Short: "Build the leak-test image, then run it with the arguments forwarded verbatim",
		Long: `Build the leak-test image and run it in an ephemeral container.

All trailing arguments are passed through to the test entry point unchanged
and in order; typically --iterations N and --url URL. The launcher itself is
configured through leakrun.toml and LEAKRUN_* environment variables.`,
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		RunE:               runPassthrough,
	}
}

var bannerText = color.New(color.FgCyan, color.Bold).SprintFunc()

func printPhase(w io.Writer, step, total int, text string) {
	fmt.Fprintln(w, bannerText(fmt.Sprintf("==> [%d/%d] %s", step, total, text)))
}

// imageEngine is the subset of engine.Engine the launch sequence needs.
type imageEngine interface {
	Build(engine.BuildSpec) error
	Run(engine.RunSpec) error
}

// runLaunch performs the strictly linear launch sequence: resolve the
// project, build the image, run the test container. Any failure aborts
// immediately; the build must succeed before the run is ever attempted.
func runLaunch(cmd *cobra.Command, forwarded []string) error {
	proj, err := project.Locate("")
	if err != nil {
		return err
	}
	eng, err := engine.Detect(proj.Config.Engine)
	if err != nil {
		return err
	}
	eng.Stdout = cmd.OutOrStdout()
	eng.Stderr = cmd.ErrOrStderr()
	return launch(cmd, eng, proj, forwarded)
}

func launch(cmd *cobra.Command, eng imageEngine, proj *project.Project, forwarded []string) error {
	out := cmd.OutOrStdout()

	if err := runPreRunHook(cmd, proj); err != nil {
		return err
	}

	buildSpec, runSpec, err := launchSpecs(proj, forwarded)
	if err != nil {
		return err
	}

	printPhase(out, 1, 2, fmt.Sprintf("Building image %s", buildSpec.Tag))
	if err := eng.Build(buildSpec); err != nil {
		return err
	}

	printPhase(out, 2, 2, "Running leak test")
	return eng.Run(runSpec)
}

// launchSpecs assembles the build and run descriptors from a resolved
// project. Forwarded arguments land at the very end of the run argv, order
// and token boundaries intact.
func launchSpecs(proj *project.Project, forwarded []string) (engine.BuildSpec, engine.RunSpec, error) {
	entrypoint, err := proj.Config.SplitEntrypoint()
	if err != nil {
		return engine.BuildSpec{}, engine.RunSpec{}, err
	}
	buildSpec := engine.BuildSpec{
		Buildfile: proj.BuildfilePath(),
		Context:   proj.ContextPath(),
		Tag:       proj.Config.Image,
	}
	runSpec := engine.RunSpec{
		Tag:        proj.Config.Image,
		ShmSize:    proj.Config.ShmSize,
		TTY:        stdoutIsTerminal(),
		Entrypoint: entrypoint,
		Forwarded:  forwarded,
	}
	return buildSpec, runSpec, nil
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
