// Package script implements the Nesh Script interpreter: tokenizer, command
// table, slot-fill parser and the dispatch of parsed lines onto action
// handlers that mutate the interpreter state.
package script

import (
	"context"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/nesh-sh/nesh/core/config"
	"github.com/nesh-sh/nesh/core/msg"
	"github.com/nesh-sh/nesh/core/runner"
	"github.com/nesh-sh/nesh/core/state"
	"github.com/nesh-sh/nesh/errors"
)

// ErrExit signals that an EXIT command was dispatched. Callers decide whether
// it stops the whole shell or just the innermost script, per Options.
var ErrExit = errors.New("nesh: exit")

// NestedExit policies for EXIT encountered inside RUN NESH FROM.
const (
	// NestedExitShell propagates EXIT out of nested scripts and terminates
	// the shell loop.
	NestedExitShell = "shell"
	// NestedExitScript stops only the innermost script file.
	NestedExitScript = "script"
)

// Options are the interpreter's behavioral knobs.
type Options struct {
	NestedExit string
}

// Interpreter evaluates one line at a time against an explicit state. It is
// single-threaded: a line is fully dispatched before the next is read, and
// SLEEP suspends the whole interpreter.
type Interpreter struct {
	State    *state.State
	Registry *Registry
	Messages *msg.Table
	Runner   runner.Runner
	Fs       afero.Fs
	Out      io.Writer
	Log      *log.Logger
	Opts     Options

	// BaseEnv is the environment exported to executed commands in addition
	// to the variable store; empty means the process environment.
	BaseEnv []string
	// Sleep is the clock used by SLEEP; tests fake it.
	Sleep func(time.Duration)
	// Reload re-runs the startup bootstrap for REFLESH.
	Reload func() error
}

// NewInterpreter wires an interpreter with real clock defaults.
func NewInterpreter(st *state.State, reg *Registry, table *msg.Table, run runner.Runner, fs afero.Fs, out io.Writer) *Interpreter {
	return &Interpreter{
		State:    st,
		Registry: reg,
		Messages: table,
		Runner:   run,
		Fs:       fs,
		Out:      out,
		Opts:     Options{NestedExit: NestedExitShell},
		Sleep:    time.Sleep,
	}
}

// Eval interprets a single line: alias pre-resolution, tokenize, grammar
// match, dispatch. Blank lines and comments are ignored. ErrExit is returned
// when the line requests shell termination.
func (i *Interpreter) Eval(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	// One level of alias expansion: a line that is exactly an alias name is
	// replaced by its expansion and re-tokenized once. The result is looked
	// up literally, so a self-referential alias cannot loop.
	if alias, ok := i.State.Aliases.Lookup(line); ok {
		line = alias.Expansion
	}

	tokens, err := Tokenize(line)
	if err != nil {
		return err
	}
	cmd, err := Parse(i.Registry, tokens)
	if err != nil {
		return err
	}
	return i.dispatch(ctx, cmd)
}

func (i *Interpreter) dispatch(ctx context.Context, cmd *Command) error {
	if i.Log != nil {
		i.Log.Debug("dispatch", "verb", cmd.Def.Verb, "sub", cmd.Def.Sub)
	}

	switch cmd.Def.Action {
	case ActionCreateDir:
		return i.createDir(cmd)
	case ActionCreateVar:
		return i.createVar(cmd)
	case ActionCreateAlias:
		return i.createAlias(cmd)
	case ActionLoadCommands:
		return i.loadCommands(cmd)
	case ActionAppend:
		return i.appendVar(cmd)
	case ActionSetLanguage:
		return i.setLanguage(cmd)
	case ActionSetVar:
		return i.setVar(cmd)
	case ActionRunCmd:
		return i.runCmd(ctx, cmd)
	case ActionRunScript:
		return i.runScript(ctx, cmd)
	case ActionSave:
		return i.save(cmd)
	case ActionExit:
		i.printf("exit_message", nil)
		return ErrExit
	case ActionSleep:
		return i.sleep(cmd)
	case ActionReload:
		return i.reload()
	case ActionExternal:
		return i.runExternal(ctx, cmd)
	}
	return &errors.UnknownCommandError{Verb: cmd.Def.Verb}
}

func (i *Interpreter) createDir(cmd *Command) error {
	path, err := i.resolve(cmd.Args["path"])
	if err != nil {
		return err
	}
	path = expandHome(path)
	if path == "" {
		return &errors.ParseError{Expected: "directory path"}
	}
	if err := i.Fs.MkdirAll(path, 0755); err != nil {
		return &errors.IOError{Op: "mkdir", Path: path, Err: err}
	}
	i.printf("directory_created", map[string]string{"path": path})
	return nil
}

func (i *Interpreter) createVar(cmd *Command) error {
	name := cmd.Args["var"].Var
	value := cmd.Args["value"]

	v := &state.Variable{Name: name, Kind: cmd.Kind}
	switch cmd.Kind {
	case state.KindBool:
		b, err := state.ParseBool(name, value.Text)
		if err != nil {
			return err
		}
		v.Bool = b
	case state.KindOption:
		v.Options = value.Options
		v.Option = v.Options[0]
	default:
		text, err := i.resolve(value)
		if err != nil {
			return err
		}
		v.Text = []string{text}
	}

	if err := i.State.Vars.Define(v); err != nil {
		return err
	}
	i.printVar(v)
	return nil
}

func (i *Interpreter) createAlias(cmd *Command) error {
	name := cmd.Args["alias"].Text
	expansion, err := i.resolve(cmd.Args["command"])
	if err != nil {
		return err
	}
	if err := i.State.Aliases.Define(name, expansion); err != nil {
		return err
	}
	i.printf("alias_created", map[string]string{"alias": name, "command": expansion})
	return nil
}

func (i *Interpreter) loadCommands(cmd *Command) error {
	path, err := i.resolve(cmd.Args["path"])
	if err != nil {
		return err
	}
	path = expandHome(path)
	file, err := config.LoadCommandFile(i.Fs, path)
	if err != nil {
		return err
	}
	if err := i.Registry.Merge(path, file); err != nil {
		return err
	}
	i.printf("external_commands_loaded", map[string]string{"path": path})
	return nil
}

func (i *Interpreter) appendVar(cmd *Command) error {
	name := cmd.Args["var"].Var
	value, err := i.resolve(cmd.Args["value"])
	if err != nil {
		return err
	}
	if err := i.State.Vars.Append(name, value); err != nil {
		return err
	}
	v, err := i.State.Vars.Get(name)
	if err != nil {
		return err
	}
	i.printVar(v)
	return nil
}

func (i *Interpreter) setLanguage(cmd *Command) error {
	raw, err := i.resolve(cmd.Args["language"])
	if err != nil {
		return err
	}
	language, err := i.Messages.Normalize(raw)
	if err != nil {
		return err
	}
	i.State.Language = language
	i.printf("language_set", map[string]string{"language": language})
	return nil
}

func (i *Interpreter) setVar(cmd *Command) error {
	name := cmd.Args["var"].Var
	value := cmd.Args["value"]

	raw := value.Text
	if cmd.Kind == state.KindText {
		resolved, err := i.resolve(value)
		if err != nil {
			return err
		}
		raw = resolved
	}

	if err := i.State.Vars.Set(name, cmd.Kind, raw); err != nil {
		return err
	}
	v, err := i.State.Vars.Get(name)
	if err != nil {
		return err
	}
	i.printVar(v)
	return nil
}

func (i *Interpreter) runCmd(ctx context.Context, cmd *Command) error {
	command, err := i.resolve(cmd.Args["cmd"])
	if err != nil {
		return err
	}
	return i.execute(ctx, command)
}

// execute runs a command string and captures the outcome into LastResult.
// A failing command is recorded, not raised: non-zero exits are expected,
// non-exceptional shell behavior.
func (i *Interpreter) execute(ctx context.Context, command string) error {
	command = i.State.Vars.Expand(command)
	i.printf("run_cmd_executed", map[string]string{"cmd": command})

	result, err := i.Runner.Run(ctx, command, i.Environ())
	if err != nil {
		return err
	}
	i.State.Last = state.LastResult{
		Output:  strings.TrimSpace(result.Stdout),
		Status:  result.Status,
		Defined: true,
	}
	return nil
}

func (i *Interpreter) runScript(ctx context.Context, cmd *Command) error {
	path, err := i.resolve(cmd.Args["path"])
	if err != nil {
		return err
	}
	path = expandHome(path)
	i.printf("run_nesh_executed", map[string]string{"path": path})
	return i.RunScriptFile(ctx, path)
}

// RunScriptFile executes each non-blank, non-comment line of a script file
// sequentially, stopping on the first error and wrapping it with the
// originating line number.
func (i *Interpreter) RunScriptFile(ctx context.Context, path string) error {
	contents, err := afero.ReadFile(i.Fs, path)
	if err != nil {
		return &errors.IOError{Op: "read", Path: path, Err: err}
	}

	for n, line := range strings.Split(string(contents), "\n") {
		err := i.Eval(ctx, line)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrExit) {
			if i.Opts.NestedExit == NestedExitScript {
				return nil
			}
			return err
		}
		return &errors.ScriptError{Path: path, Line: n + 1, Err: err}
	}
	return nil
}

func (i *Interpreter) save(cmd *Command) error {
	path, err := i.resolve(cmd.Args["path"])
	if err != nil {
		return err
	}
	path = expandHome(path)
	if !i.State.Last.Defined {
		return &errors.NoResultError{}
	}
	if err := afero.WriteFile(i.Fs, path, []byte(i.State.Last.Output), 0644); err != nil {
		return &errors.IOError{Op: "write", Path: path, Err: err}
	}
	i.printf("save_result", map[string]string{"path": path})
	return nil
}

func (i *Interpreter) sleep(cmd *Command) error {
	raw := cmd.Args["seconds"].Text
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return &errors.InvalidDurationError{Raw: raw}
	}
	i.printf("sleep_executed", map[string]string{"seconds": raw})
	i.Sleep(time.Duration(seconds * float64(time.Second)))
	return nil
}

func (i *Interpreter) reload() error {
	if i.Reload == nil {
		return &errors.IOError{Op: "reload", Path: "", Err: errors.New("no bootstrap configured")}
	}
	if err := i.Reload(); err != nil {
		return err
	}
	i.printf("config_refreshed", nil)
	return nil
}

// runExternal dispatches a definition loaded via CREATE CMD FROM: its run
// template is filled from the captured slots and executed like RUN CMD.
func (i *Interpreter) runExternal(ctx context.Context, cmd *Command) error {
	command := cmd.Def.Run
	for name, arg := range cmd.Args {
		value, err := i.resolve(arg)
		if err != nil {
			return err
		}
		command = strings.ReplaceAll(command, "{"+name+"}", value)
	}
	if strings.TrimSpace(command) == "" {
		// A grammar-only definition parses but has nothing to execute.
		return nil
	}
	return i.execute(ctx, command)
}

// resolve produces an argument's string value, looking up $VAR references
// against the variable store at dispatch time.
func (i *Interpreter) resolve(arg Arg) (string, error) {
	if arg.Var == "" {
		return arg.Text, nil
	}
	v, err := i.State.Vars.Get(arg.Var)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Environ is the environment exported to executed commands: the base
// environment plus the variable store.
func (i *Interpreter) Environ() []string {
	base := i.BaseEnv
	if len(base) == 0 {
		base = os.Environ()
	}
	env := make([]string, 0, len(base))
	env = append(env, base...)
	return append(env, i.State.Vars.Environ()...)
}

func (i *Interpreter) printf(key string, fields map[string]string) {
	i.Messages.Print(i.Out, key, i.State.Language, fields)
}

func (i *Interpreter) printVar(v *state.Variable) {
	i.printf("variable_set", map[string]string{"var": "$" + v.Name, "value": v.String()})
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
