package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nesh-sh/nesh/core"
)

// shellCmd starts the interactive shell explicitly; running nesh with no
// arguments does the same.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

func runShell(cmd *cobra.Command) error {
	cmd.SilenceUsage = true

	nesh, err := newNesh(cmd)
	if err != nil {
		return err
	}

	shell, err := core.NewShell(nesh)
	if err != nil {
		return err
	}
	return shell.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
