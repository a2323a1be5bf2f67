// Package runner executes external command strings for RUN CMD and shell
// passthrough. Commands run through an embedded POSIX shell interpreter, so
// pipelines, quoting and redirects behave as users expect without depending
// on a system /bin/sh.
package runner

import (
	"context"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Result is the captured outcome of one command. A non-zero status is data,
// not an error: shell commands failing is an expected condition.
type Result struct {
	Stdout string
	Stderr string
	Status int
}

// Runner executes a command string with the given environment.
type Runner interface {
	Run(ctx context.Context, command string, env []string) (Result, error)
}

// ShellRunner runs commands via the embedded shell interpreter.
type ShellRunner struct {
	// Dir is the working directory; empty means the process working
	// directory.
	Dir string
	// Echo, when set, receives a live copy of the command's output in
	// addition to the captured result.
	Echo io.Writer
}

var _ Runner = (*ShellRunner)(nil)

// Run parses and executes command. Parse failures and start failures are
// reported in the result's stderr with a non-zero status; the error return is
// reserved for context cancellation.
func (r *ShellRunner) Run(ctx context.Context, command string, env []string) (Result, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return Result{Stderr: err.Error() + "\n", Status: 2}, nil
	}

	if len(env) == 0 {
		env = os.Environ()
	}

	var stdout, stderr strings.Builder
	outW := io.Writer(&stdout)
	errW := io.Writer(&stderr)
	if r.Echo != nil {
		outW = io.MultiWriter(&stdout, r.Echo)
		errW = io.MultiWriter(&stderr, r.Echo)
	}

	shell, err := interp.New(
		interp.Dir(r.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(strings.NewReader(""), outW, errW),
	)
	if err != nil {
		return Result{Stderr: err.Error() + "\n", Status: 1}, nil
	}

	runErr := shell.Run(ctx, file)
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	switch {
	case runErr == nil:
		// status 0
	case ctx.Err() != nil:
		return result, ctx.Err()
	default:
		if status, ok := interp.IsExitStatus(runErr); ok {
			result.Status = int(status)
		} else {
			result.Stderr += runErr.Error() + "\n"
			result.Status = 1
		}
	}
	return result, nil
}
