package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nesh-sh/nesh/core"
	"github.com/nesh-sh/nesh/core/config"
	"github.com/nesh-sh/nesh/core/script"
	"github.com/nesh-sh/nesh/errors"
)

var (
	baseDir    string
	nestedExit string
	debug      bool
)

// rootCmd represents the base command when called without any subcommands:
// it starts the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "nesh",
	Short: "A shell with a small declarative scripting language.",
	Long: `Nesh executes ordinary system commands and interprets Nesh Script,
a keyword-based language for directories, typed variables, aliases and
composite command sequences.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). Errors exit with the code of
// the failing error kind.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(errors.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "config", "", "base directory holding .nesh and .neshrc (default: home)")
	rootCmd.PersistentFlags().StringVar(&nestedExit, "nested-exit", script.NestedExitShell,
		"what EXIT inside RUN NESH FROM stops: shell or script")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func newLogger(cmd *cobra.Command) *log.Logger {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "nesh"})
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// newNesh builds and bootstraps a shell instance for a cobra command.
func newNesh(cmd *cobra.Command) (*core.Nesh, error) {
	cfg, err := config.New(afero.NewOsFs(), baseDir)
	if err != nil {
		return nil, err
	}

	nesh := core.New(cfg, newLogger(cmd), cmd.OutOrStdout())
	nesh.Interp.Opts.NestedExit = nestedExit
	if err := nesh.Bootstrap(cmd.Context()); err != nil {
		return nil, err
	}
	return nesh, nil
}
