// Package msg holds the localized message table used for all human-facing
// shell output. Entries are keyed by message name and language; rendering
// falls back to English when a translation is missing.
package msg

import (
	"fmt"
	"io"
	"strings"

	"github.com/nesh-sh/nesh/errors"
)

const (
	// LangEnglish is the fallback language and the startup default.
	LangEnglish = "ENGLISH"
	// LangJapanese is the Japanese message table key.
	LangJapanese = "日本語"
)

// Table maps message keys to per-language templates. Templates use {name}
// placeholders, the format the on-disk messages.json corpus uses.
type Table struct {
	entries map[string]map[string]string
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: make(map[string]map[string]string)}
}

// FromEntries builds a table from a decoded messages.json mapping.
func FromEntries(entries map[string]map[string]string) *Table {
	t := New()
	t.Merge(entries)
	return t
}

// Merge overlays entries on the table, overriding existing translations.
// User-provided messages.json files win over the embedded defaults.
func (t *Table) Merge(entries map[string]map[string]string) {
	for key, langs := range entries {
		existing, ok := t.entries[key]
		if !ok {
			existing = make(map[string]string, len(langs))
			t.entries[key] = existing
		}
		for lang, template := range langs {
			existing[lang] = template
		}
	}
}

// HasLanguage reports whether any entry carries a translation for lang.
func (t *Table) HasLanguage(lang string) bool {
	for _, langs := range t.entries {
		if _, ok := langs[lang]; ok {
			return true
		}
	}
	return false
}

// Normalize maps user-facing language names onto table keys. Convenience
// aliases ("english", "japanese") are accepted case-insensitively; anything
// else must be an exact table key.
func (t *Table) Normalize(language string) (string, error) {
	switch strings.ToLower(language) {
	case "english":
		return LangEnglish, nil
	case "japanese", strings.ToLower(LangJapanese):
		return LangJapanese, nil
	}
	if t.HasLanguage(language) {
		return language, nil
	}
	return "", &errors.UnsupportedLanguageError{Language: language}
}

// Render produces the message for key in the given language, falling back to
// English and finally to an empty string for unknown keys.
func (t *Table) Render(key, lang string, fields map[string]string) string {
	langs, ok := t.entries[key]
	if !ok {
		return ""
	}
	template, ok := langs[lang]
	if !ok {
		template = langs[LangEnglish]
	}
	return expand(template, fields)
}

// Print renders the message and writes it to w followed by a newline.
// Messages with no template for any language are dropped silently, matching
// the tolerance of the original shell for sparse message files.
func (t *Table) Print(w io.Writer, key, lang string, fields map[string]string) {
	if rendered := t.Render(key, lang, fields); rendered != "" {
		fmt.Fprintln(w, rendered)
	}
}

func expand(template string, fields map[string]string) string {
	if len(fields) == 0 {
		return template
	}
	pairs := make([]string, 0, len(fields)*2)
	for name, value := range fields {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
