package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesh-sh/nesh/errors"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		line string
		want []Token
	}{
		{
			name: "empty",
			line: "   ",
			want: nil,
		},
		{
			name: "words",
			line: "CREATE DIR",
			want: []Token{
				{Kind: TokenWord, Text: "CREATE"},
				{Kind: TokenWord, Text: "DIR"},
			},
		},
		{
			name: "quoted string keeps spaces",
			line: `CREATE DIR "my projects"`,
			want: []Token{
				{Kind: TokenWord, Text: "CREATE"},
				{Kind: TokenWord, Text: "DIR"},
				{Kind: TokenString, Text: "my projects"},
			},
		},
		{
			name: "variable reference",
			line: `APPEND "w" TO $MY_VAR`,
			want: []Token{
				{Kind: TokenWord, Text: "APPEND"},
				{Kind: TokenString, Text: "w"},
				{Kind: TokenWord, Text: "TO"},
				{Kind: TokenVarRef, Text: "MY_VAR"},
			},
		},
		{
			name: "escaped quotes",
			line: `"say \"hi\""`,
			want: []Token{{Kind: TokenString, Text: `say "hi"`}},
		},
		{
			name: "escaped backslash",
			line: `"a\\b"`,
			want: []Token{{Kind: TokenString, Text: `a\b`}},
		},
		{
			name: "option set",
			line: `"A"|"B"|"C"`,
			want: []Token{{Kind: TokenString, Text: "A", Options: []string{"A", "B", "C"}}},
		},
		{
			name: "dollar inside quotes stays literal",
			line: `"echo $HOME"`,
			want: []Token{{Kind: TokenString, Text: "echo $HOME"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tokenize(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	for _, line := range []string{
		`"unterminated`,
		`CREATE VAR $ WITH TEXT "v"`,
		`$1BAD`,
	} {
		t.Run(line, func(t *testing.T) {
			_, err := Tokenize(line)
			var parseErr *errors.ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}
