package msg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesh-sh/nesh/errors"
)

func testTable() *Table {
	return FromEntries(map[string]map[string]string{
		"greeting": {
			LangEnglish:  "Hello {name}",
			LangJapanese: "こんにちは {name}",
		},
		"english_only": {
			LangEnglish: "only english",
		},
	})
}

func TestRender(t *testing.T) {
	table := testTable()

	cases := []struct {
		name string
		key  string
		lang string
		want string
	}{
		{"direct hit", "greeting", LangEnglish, "Hello world"},
		{"translated", "greeting", LangJapanese, "こんにちは world"},
		{"fallback to english", "english_only", LangJapanese, "only english"},
		{"unknown key", "nope", LangEnglish, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := table.Render(tc.key, tc.lang, map[string]string{"name": "world"})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPrintSkipsUnknownKeys(t *testing.T) {
	table := testTable()
	var buf bytes.Buffer

	table.Print(&buf, "nope", LangEnglish, nil)
	assert.Empty(t, buf.String())

	table.Print(&buf, "english_only", LangEnglish, nil)
	assert.Equal(t, "only english\n", buf.String())
}

func TestMergeOverrides(t *testing.T) {
	table := testTable()
	table.Merge(map[string]map[string]string{
		"greeting": {LangEnglish: "Hi {name}"},
	})

	assert.Equal(t, "Hi x", table.Render("greeting", LangEnglish, map[string]string{"name": "x"}))
	// Untouched translations survive a merge.
	assert.Equal(t, "こんにちは x", table.Render("greeting", LangJapanese, map[string]string{"name": "x"}))
}

func TestNormalize(t *testing.T) {
	table := testTable()

	for raw, want := range map[string]string{
		"english":  LangEnglish,
		"ENGLISH":  LangEnglish,
		"japanese": LangJapanese,
		"Japanese": LangJapanese,
		"日本語":      LangJapanese,
	} {
		got, err := table.Normalize(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := table.Normalize("klingon")
	var unsupported *errors.UnsupportedLanguageError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "klingon", unsupported.Language)
}
