package runner

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesStdout(t *testing.T) {
	r := &ShellRunner{}

	result, err := r.Run(context.Background(), `echo hello`, []string{"PATH=/bin"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", result.Stdout)
	assert.Equal(t, 0, result.Status)
}

func TestRunReportsExitStatus(t *testing.T) {
	r := &ShellRunner{}

	result, err := r.Run(context.Background(), `exit 3`, []string{"PATH=/bin"})
	require.NoError(t, err, "a failing command is a result, not an error")
	assert.Equal(t, 3, result.Status)
}

func TestRunUsesEnvironment(t *testing.T) {
	r := &ShellRunner{}

	result, err := r.Run(context.Background(), `echo "$GREETING"`, []string{"GREETING=hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", result.Stdout)
}

func TestRunParseError(t *testing.T) {
	r := &ShellRunner{}

	result, err := r.Run(context.Background(), `echo "unterminated`, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Status)
	assert.NotEmpty(t, result.Stderr)
}

func TestRunEchoesOutput(t *testing.T) {
	echo := &bytes.Buffer{}
	r := &ShellRunner{Echo: echo}

	result, err := r.Run(context.Background(), `echo live`, []string{"PATH=/bin"})
	require.NoError(t, err)
	assert.Equal(t, "live\n", result.Stdout)
	assert.Equal(t, "live\n", echo.String(), "output is teed to the echo writer")
}

func TestRunUnknownCommand(t *testing.T) {
	r := &ShellRunner{}

	result, err := r.Run(context.Background(), `definitely-not-a-command-xyz`, []string{"PATH=/nonexistent"})
	require.NoError(t, err)
	assert.Equal(t, 127, result.Status)
}
