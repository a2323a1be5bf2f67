// Package state holds the interpreter's cross-line state: typed variables,
// aliases, the last captured command result and the active language. All of
// it lives in one explicit State value passed into every handler rather than
// in package-level singletons.
package state

import (
	"sort"

	"github.com/nesh-sh/nesh/core/msg"
	"github.com/nesh-sh/nesh/errors"
)

// Alias maps a name to the command string it expands to. Aliases are
// immutable once created and expand exactly one level.
type Alias struct {
	Name      string
	Expansion string
}

// AliasTable holds the shell's aliases.
type AliasTable struct {
	aliases map[string]Alias
}

// NewAliasTable returns an empty table.
func NewAliasTable() *AliasTable {
	return &AliasTable{aliases: make(map[string]Alias)}
}

// Define inserts a new alias. Redefinition fails; there is no update command.
func (t *AliasTable) Define(name, expansion string) error {
	if _, ok := t.aliases[name]; ok {
		return &errors.DuplicateAliasError{Name: name}
	}
	t.aliases[name] = Alias{Name: name, Expansion: expansion}
	return nil
}

// Lookup resolves an alias by exact name match.
func (t *AliasTable) Lookup(name string) (Alias, bool) {
	a, ok := t.aliases[name]
	return a, ok
}

// Names returns all alias names, sorted.
func (t *AliasTable) Names() []string {
	names := make([]string, 0, len(t.aliases))
	for name := range t.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear drops every alias.
func (t *AliasTable) Clear() {
	t.aliases = make(map[string]Alias)
}

// LastResult is the captured output of the most recent RUN CMD. It is
// process-wide, overwritten by each run and consumed by SAVE.
type LastResult struct {
	Output  string
	Status  int
	Defined bool
}

// State is the interpreter's mutable state. A single State is owned by one
// interpreter; Nesh is single-threaded, so no locking is needed.
type State struct {
	Vars     *VarStore
	Aliases  *AliasTable
	Last     LastResult
	Language string
}

// New returns a fresh state with the default language.
func New() *State {
	return &State{
		Vars:     NewVarStore(),
		Aliases:  NewAliasTable(),
		Language: msg.LangEnglish,
	}
}

// Reset clears variables, aliases and the last result ahead of a REFLESH
// bootstrap re-run. The language setting survives.
func (s *State) Reset() {
	s.Vars.Clear()
	s.Aliases.Clear()
	s.Last = LastResult{}
}

// Lookup reads a convenience variable as a plain string, returning "" when
// unset. Used for optional knobs like NESH_PWD_SHOW.
func (s *State) Lookup(name string) string {
	v, err := s.Vars.Get(name)
	if err != nil {
		return ""
	}
	return v.String()
}
