package script

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesh-sh/nesh/core/config"
	"github.com/nesh-sh/nesh/core/msg"
	"github.com/nesh-sh/nesh/core/runner"
	"github.com/nesh-sh/nesh/core/state"
	"github.com/nesh-sh/nesh/errors"
)

// fakeRunner records every command it is asked to run and replays a canned
// result.
type fakeRunner struct {
	stdout string
	status int
	err    error

	cmds []string
	envs [][]string
}

func (f *fakeRunner) Run(_ context.Context, command string, env []string) (runner.Result, error) {
	f.cmds = append(f.cmds, command)
	f.envs = append(f.envs, env)
	return runner.Result{Stdout: f.stdout, Status: f.status}, f.err
}

func newTestInterpreter(run runner.Runner) (*Interpreter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	table := msg.FromEntries(config.DefaultMessages())
	i := NewInterpreter(state.New(), NewRegistry(), table, run, afero.NewMemMapFs(), buf)
	i.BaseEnv = []string{"PATH=/bin"}
	return i, buf
}

func eval(t *testing.T, i *Interpreter, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, i.Eval(context.Background(), line), "line: %s", line)
	}
}

func TestCreateAndAppendText(t *testing.T) {
	i, buf := newTestInterpreter(&fakeRunner{})

	eval(t, i,
		`CREATE VAR $GREETING WITH TEXT "hello"`,
		`APPEND "world" TO $GREETING`,
	)

	v, err := i.State.Vars.Get("GREETING")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, v.Text)
	assert.Equal(t, "hello:world", v.String())
	assert.Equal(t, "$GREETING = hello\n$GREETING = hello:world\n", buf.String())
}

func TestSetVarErrors(t *testing.T) {
	i, _ := newTestInterpreter(&fakeRunner{})

	err := i.Eval(context.Background(), `SET VAR $MISSING WITH TEXT "x"`)
	var undefined *errors.UndefinedVariableError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "MISSING", undefined.Name)

	eval(t, i, `CREATE VAR $X WITH TEXT "x"`)
	err = i.Eval(context.Background(), `SET VAR $X WITH BOOL true`)
	var mismatch *errors.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestAliasExpansion(t *testing.T) {
	run := &fakeRunner{stdout: "hi\n"}
	i, _ := newTestInterpreter(run)

	eval(t, i,
		`CREATE ALIAS hi FOR "RUN CMD \"echo hi\""`,
		`hi`,
	)
	require.Equal(t, []string{"echo hi"}, run.cmds)

	// CREATE ALIAS again is an error: aliases are immutable.
	err := i.Eval(context.Background(), `CREATE ALIAS hi FOR "ls"`)
	var dup *errors.DuplicateAliasError
	require.ErrorAs(t, err, &dup)
}

func TestAliasExpandsOneLevelOnly(t *testing.T) {
	i, _ := newTestInterpreter(&fakeRunner{})

	// A self-referential alias expands once; the expansion is then parsed
	// literally rather than re-expanded, so evaluation terminates.
	eval(t, i, `CREATE ALIAS loop FOR "loop"`)
	err := i.Eval(context.Background(), `loop`)

	var unknown *errors.UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "loop", unknown.Verb)
}

func TestSaveResult(t *testing.T) {
	run := &fakeRunner{stdout: "  output text\n"}
	i, _ := newTestInterpreter(run)

	err := i.Eval(context.Background(), `SAVE "out.txt"`)
	var noResult *errors.NoResultError
	require.ErrorAs(t, err, &noResult)

	eval(t, i,
		`RUN CMD "echo output text"`,
		`SAVE "out.txt"`,
	)
	contents, err := afero.ReadFile(i.Fs, "out.txt")
	require.NoError(t, err)
	assert.Equal(t, "output text", string(contents))
}

func TestOptionVariable(t *testing.T) {
	i, _ := newTestInterpreter(&fakeRunner{})

	eval(t, i, `CREATE VAR $MODE WITH OPTION "fast"|"slow"`)
	v, err := i.State.Vars.Get("MODE")
	require.NoError(t, err)
	assert.Equal(t, "fast", v.Option, "initial value is the first member")

	eval(t, i, `SET VAR $MODE WITH OPTION "slow"`)
	v, err = i.State.Vars.Get("MODE")
	require.NoError(t, err)
	assert.Equal(t, "slow", v.Option)

	err = i.Eval(context.Background(), `SET VAR $MODE WITH OPTION "medium"`)
	var invalid *errors.InvalidOptionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"fast", "slow"}, invalid.Options)
}

func TestSleep(t *testing.T) {
	i, buf := newTestInterpreter(&fakeRunner{})
	var slept []time.Duration
	i.Sleep = func(d time.Duration) { slept = append(slept, d) }

	eval(t, i, `SLEEP WITH SECOND 0`)
	assert.Equal(t, []time.Duration{0}, slept)
	assert.Equal(t, "Sleeping 0 second(s)\n", buf.String())

	for _, raw := range []string{"-1", "NaN", "Inf", "+Inf", "-Inf", "soon"} {
		err := i.Eval(context.Background(), "SLEEP WITH SECOND "+raw)
		var invalid *errors.InvalidDurationError
		require.ErrorAs(t, err, &invalid, "duration %q must be rejected", raw)
	}
	assert.Len(t, slept, 1, "invalid durations must not sleep")
}

func TestExternalCommandsLastLoadWins(t *testing.T) {
	run := &fakeRunner{}
	i, _ := newTestInterpreter(run)

	first := `{"commands":[{"verb":"GREET","slots":[{"kind":"string","name":"who"}],"run":"echo hello {who}"}]}`
	second := `{"commands":[{"verb":"GREET","slots":[{"kind":"string","name":"who"}],"run":"echo hi {who}"}]}`
	require.NoError(t, afero.WriteFile(i.Fs, "first.json", []byte(first), 0644))
	require.NoError(t, afero.WriteFile(i.Fs, "second.json", []byte(second), 0644))

	eval(t, i,
		`CREATE CMD FROM "first.json"`,
		`GREET "bob"`,
		`CREATE CMD FROM "second.json"`,
		`GREET "bob"`,
	)

	assert.Equal(t, []string{"echo hello bob", "echo hi bob"}, run.cmds)
}

func TestExternalCommandsInvalidFile(t *testing.T) {
	i, _ := newTestInterpreter(&fakeRunner{})
	require.NoError(t, afero.WriteFile(i.Fs, "bad.json", []byte(`{"commands":[{"subcommand":"X"}]}`), 0644))

	err := i.Eval(context.Background(), `CREATE CMD FROM "bad.json"`)
	var parseErr *errors.CommandDefinitionParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, errors.CodeCommandDefinitionParse, errors.ExitCode(err))
}

func TestRunCmdExpandsVariables(t *testing.T) {
	run := &fakeRunner{stdout: "bob\n", status: 0}
	i, _ := newTestInterpreter(run)

	eval(t, i,
		`CREATE VAR $NAME WITH TEXT "bob"`,
		`RUN CMD "echo $NAME"`,
	)

	require.Equal(t, []string{"echo bob"}, run.cmds)
	require.Len(t, run.envs, 1)
	assert.Equal(t, []string{"PATH=/bin", "NAME=bob"}, run.envs[0])
	assert.True(t, i.State.Last.Defined)
	assert.Equal(t, "bob", i.State.Last.Output)
	assert.Equal(t, 0, i.State.Last.Status)
}

func TestRunCmdRecordsFailureStatus(t *testing.T) {
	run := &fakeRunner{status: 3}
	i, _ := newTestInterpreter(run)

	// Non-zero exit is a result, not an error.
	eval(t, i, `RUN CMD "false"`)
	assert.Equal(t, 3, i.State.Last.Status)
	assert.True(t, i.State.Last.Defined)
}

func TestCreateDir(t *testing.T) {
	i, _ := newTestInterpreter(&fakeRunner{})

	eval(t, i, `CREATE DIR "work/sub"`)
	ok, err := afero.DirExists(i.Fs, "work/sub")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetLanguage(t *testing.T) {
	i, buf := newTestInterpreter(&fakeRunner{})

	eval(t, i, `SET LANGUAGE "日本語"`)
	assert.Equal(t, msg.LangJapanese, i.State.Language)

	buf.Reset()
	err := i.Eval(context.Background(), `EXIT`)
	require.ErrorIs(t, err, ErrExit)
	assert.Equal(t, "さようなら。\n", buf.String())

	err = i.Eval(context.Background(), `SET LANGUAGE "KLINGON"`)
	var unsupported *errors.UnsupportedLanguageError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, msg.LangJapanese, i.State.Language, "language is unchanged on failure")
}

func TestRunScriptFileReportsLineNumber(t *testing.T) {
	i, _ := newTestInterpreter(&fakeRunner{})
	script := "# setup\nCREATE VAR $A WITH TEXT \"x\"\n\nAPPEND \"y\" TO $MISSING\n"
	require.NoError(t, afero.WriteFile(i.Fs, "bad.nesh", []byte(script), 0644))

	err := i.RunScriptFile(context.Background(), "bad.nesh")

	var scriptErr *errors.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "bad.nesh", scriptErr.Path)
	assert.Equal(t, 4, scriptErr.Line)
	var undefined *errors.UndefinedVariableError
	assert.ErrorAs(t, err, &undefined)
	assert.Equal(t, errors.CodeUndefinedVariable, errors.ExitCode(err))
}

func TestRunScriptFileNestedExit(t *testing.T) {
	script := "CREATE VAR $A WITH TEXT \"x\"\nEXIT\nCREATE VAR $B WITH TEXT \"y\"\n"

	t.Run("shell policy propagates", func(t *testing.T) {
		i, _ := newTestInterpreter(&fakeRunner{})
		require.NoError(t, afero.WriteFile(i.Fs, "s.nesh", []byte(script), 0644))

		err := i.RunScriptFile(context.Background(), "s.nesh")
		require.ErrorIs(t, err, ErrExit)
	})

	t.Run("script policy stops the file only", func(t *testing.T) {
		i, _ := newTestInterpreter(&fakeRunner{})
		i.Opts.NestedExit = NestedExitScript
		require.NoError(t, afero.WriteFile(i.Fs, "s.nesh", []byte(script), 0644))

		require.NoError(t, i.RunScriptFile(context.Background(), "s.nesh"))
		_, err := i.State.Vars.Get("B")
		var undefined *errors.UndefinedVariableError
		assert.ErrorAs(t, err, &undefined, "lines after EXIT must not run")
	})
}

func TestCommentsAndBlankLines(t *testing.T) {
	i, buf := newTestInterpreter(&fakeRunner{})

	eval(t, i, "", "   ", "# a comment")
	assert.Empty(t, buf.String())
}

func TestTranscript(t *testing.T) {
	run := &fakeRunner{stdout: "hello:world\n"}
	i, buf := newTestInterpreter(run)
	i.Sleep = func(time.Duration) {}

	lines := []string{
		`CREATE DIR "workdir"`,
		`CREATE VAR $GREETING WITH TEXT "hello"`,
		`APPEND "world" TO $GREETING`,
		`CREATE ALIAS greet FOR "RUN CMD \"echo $GREETING\""`,
		`greet`,
		`SAVE "out.txt"`,
		`SLEEP WITH SECOND 0`,
		`EXIT`,
	}
	for _, line := range lines {
		err := i.Eval(context.Background(), line)
		if errors.Is(err, ErrExit) {
			break
		}
		require.NoError(t, err, "line: %s", line)
	}

	g := goldie.New(t)
	g.Assert(t, "transcript", buf.Bytes())
}
