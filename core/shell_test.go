package core

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesh-sh/nesh/core/config"
)

func bootstrappedNesh(t *testing.T) *Nesh {
	t.Helper()
	cfg, err := config.New(afero.NewMemMapFs(), "/home/user")
	require.NoError(t, err)
	n := New(cfg, log.New(io.Discard), io.Discard)
	require.NoError(t, n.Bootstrap(context.Background()))
	return n
}

func complete(c *completer, input string) []string {
	candidates, _ := c.Do([]rune(input), len([]rune(input)))
	out := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, string(cand))
	}
	return out
}

func TestCompleterVerbs(t *testing.T) {
	c := &completer{nesh: bootstrappedNesh(t)}

	assert.Equal(t, []string{"ATE "}, complete(c, "CRE"))
	assert.Contains(t, complete(c, "S"), "AVE ")
	assert.Empty(t, complete(c, "XYZZY"))
}

func TestCompleterSubcommands(t *testing.T) {
	c := &completer{nesh: bootstrappedNesh(t)}

	assert.Equal(t, []string{"AR "}, complete(c, "CREATE V"))
	assert.ElementsMatch(t, []string{"CMD ", "NESH "}, complete(c, "RUN "))
}

func TestCompleterIncludesAliases(t *testing.T) {
	n := bootstrappedNesh(t)
	require.NoError(t, n.Interp.Eval(context.Background(), `CREATE ALIAS greet FOR "echo hi"`))

	c := &completer{nesh: n}
	assert.Equal(t, []string{"eet "}, complete(c, "gr"))
}

func TestEvalEmptyAliasExpansion(t *testing.T) {
	n := bootstrappedNesh(t)
	require.NoError(t, n.Interp.Eval(context.Background(), `CREATE ALIAS nop FOR ""`))

	// An alias expanding to nothing leaves no words to dispatch; the loop
	// must treat it like a blank line instead of crashing.
	s := &Shell{nesh: n}
	assert.NotPanics(t, func() {
		assert.False(t, s.eval(context.Background(), "nop"))
	})
}

func TestSuggest(t *testing.T) {
	n := bootstrappedNesh(t)
	require.NoError(t, n.Interp.Eval(context.Background(), `CREATE ALIAS greet FOR "echo hi"`))
	s := &Shell{nesh: n}

	assert.Equal(t, "greet", s.suggest("gret"))
	assert.Empty(t, s.suggest("qqqqqqqq"), "no near match means no hint")
	assert.Empty(t, s.suggest("greet"), "exact words are not corrected")
}
