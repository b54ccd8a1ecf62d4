package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soaklab/leakrun/internal/version"
)

func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leakrun [test args...]",
		Short:   "Build the containerized leak test and run it, forwarding arguments",
		Version: version.String(),
		// The bare invocation is the launcher contract: everything after
		// `leakrun` that is not a subcommand is forwarded to the test
		// entry point untouched, flags included.
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE:               runPassthrough,
	}

	cmd.AddCommand(
		newTestCommand(),
		newBuildCommand(),
		newInitCommand(),
		newDoctorCommand(),
		newVersionCommand(),
	)

	return cmd
}

// runPassthrough is shared by the root command and `leakrun test`. Flag
// parsing is disabled on both, so help has to be recognized by hand before
// the tail is treated as opaque.
func runPassthrough(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help":
			return cmd.Help()
		case "--version":
			root := cmd.Root()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", root.DisplayName(), root.Version)
			return err
		}
	}
	return runLaunch(cmd, args)
}
