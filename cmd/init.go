package cmd

import (
	"log"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nesh-sh/nesh/core/config"
)

// initCmd scaffolds the Nesh configuration from the embedded defaults.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the .nesh configuration directory and a starter .neshrc.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.New(afero.NewOsFs(), baseDir)
		if err != nil {
			return err
		}

		logger := log.New(cmd.ErrOrStderr(), "", 0)
		return cfg.Initialize(logger)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
