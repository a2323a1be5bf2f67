package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nesh-sh/nesh/core/script"
	"github.com/nesh-sh/nesh/errors"
)

// runCmd executes a Nesh script non-interactively. Unrecovered errors
// propagate their exit code to the host process.
var runCmd = &cobra.Command{
	Use:   "run SCRIPT",
	Short: "Execute a Nesh script file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		nesh, err := newNesh(cmd)
		if err != nil {
			return err
		}

		err = nesh.Interp.RunScriptFile(cmd.Context(), args[0])
		if errors.Is(err, script.ErrExit) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
