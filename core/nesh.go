// Package core wires the Nesh shell together: configuration bootstrap, the
// script interpreter and the interactive readline loop.
package core

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/nesh-sh/nesh/core/config"
	"github.com/nesh-sh/nesh/core/msg"
	"github.com/nesh-sh/nesh/core/runner"
	"github.com/nesh-sh/nesh/core/script"
	"github.com/nesh-sh/nesh/core/state"
	"github.com/nesh-sh/nesh/errors"
)

// Nesh owns the shell's long-lived pieces: config paths, interpreter state,
// the command registry and message table, all bootstrapped from disk at
// startup and again on REFLESH.
type Nesh struct {
	Config   *config.Config
	State    *state.State
	Messages *msg.Table
	Interp   *script.Interpreter
	Log      *log.Logger

	out io.Writer
}

// New assembles a Nesh instance. Call Bootstrap before use.
func New(cfg *config.Config, logger *log.Logger, out io.Writer) *Nesh {
	st := state.New()
	table := msg.FromEntries(config.DefaultMessages())
	run := &runner.ShellRunner{Echo: out}
	interp := script.NewInterpreter(st, script.NewRegistry(), table, run, cfg.Fs(), out)
	interp.Log = logger

	n := &Nesh{
		Config:   cfg,
		State:    st,
		Messages: table,
		Interp:   interp,
		Log:      logger,
		out:      out,
	}
	interp.Reload = n.Reload
	return n
}

// Bootstrap loads messages, the persisted command table, the optional dotenv
// file and runs the RC script. At startup missing files are tolerated; the
// embedded defaults cover them.
func (n *Nesh) Bootstrap(ctx context.Context) error {
	return n.bootstrap(ctx, false)
}

// Reload implements REFLESH: reset the stores and re-run the same bootstrap
// sequence used at startup. Unlike startup, a missing RC file is an error
// since there is nothing to reload from.
func (n *Nesh) Reload() error {
	n.State.Reset()
	n.Interp.Registry = script.NewRegistry()
	return n.bootstrap(context.Background(), true)
}

func (n *Nesh) bootstrap(ctx context.Context, strictRC bool) error {
	fs := n.Config.Fs()

	if exists(fs, n.Config.MessagesPath()) {
		entries, err := config.LoadMessages(fs, n.Config.MessagesPath())
		if err != nil {
			return err
		}
		n.Messages.Merge(entries)
	}

	dotenv, err := config.LoadDotenv(fs, n.Config.EnvPath())
	if err != nil {
		return err
	}
	n.Interp.BaseEnv = mergeEnv(os.Environ(), dotenv)

	commandsPath := n.Config.CommandsPath()
	if exists(fs, commandsPath) {
		file, err := config.LoadCommandFile(fs, commandsPath)
		if err != nil {
			return err
		}
		if err := n.Interp.Registry.Merge(commandsPath, file); err != nil {
			return err
		}
	} else if err := n.Interp.Registry.Merge(commandsPath, config.DefaultCommands()); err != nil {
		return err
	}

	rcPath := n.Config.RCPath()
	if !exists(fs, rcPath) {
		if strictRC {
			return &errors.IOError{Op: "read", Path: rcPath, Err: os.ErrNotExist}
		}
		if n.Log != nil {
			n.Log.Debug("no rc file", "path", rcPath)
		}
		return nil
	}
	return n.Interp.RunScriptFile(ctx, rcPath)
}

func exists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}

func mergeEnv(base []string, extra map[string]string) []string {
	env := make([]string, 0, len(base)+len(extra))
	env = append(env, base...)
	for key, value := range extra {
		env = append(env, key+"="+value)
	}
	return env
}
