package state

import (
	"sort"
	"strings"

	"github.com/nesh-sh/nesh/errors"
)

// VarKind enumerates the typed variable kinds of Nesh Script.
type VarKind string

const (
	KindText   VarKind = "TEXT"
	KindBool   VarKind = "BOOL"
	KindOption VarKind = "OPTION"
)

// Variable is a named, typed value. TEXT variables hold a sequence of
// segments extended by APPEND; BOOL variables hold one of the canonical
// literals; OPTION variables hold a member of the option set declared at
// creation time.
type Variable struct {
	Name    string
	Kind    VarKind
	Text    []string
	Bool    bool
	Options []string
	Option  string
}

// String renders the variable's value. TEXT segments are joined with ":".
func (v *Variable) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return BoolTrue
		}
		return BoolFalse
	case KindOption:
		return v.Option
	default:
		return strings.Join(v.Text, ":")
	}
}

// Canonical boolean literals, case-sensitive.
const (
	BoolTrue  = "true"
	BoolFalse = "false"
)

// ParseBool validates a canonical boolean literal.
func ParseBool(name, raw string) (bool, error) {
	switch raw {
	case BoolTrue:
		return true, nil
	case BoolFalse:
		return false, nil
	}
	return false, &errors.TypeMismatchError{Name: name, Want: "BOOL", Got: strings.TrimSpace(raw)}
}

// VarStore holds the shell's variables. It is owned by the single interpreter
// goroutine, so access is unsynchronized.
type VarStore struct {
	vars map[string]*Variable
}

// NewVarStore returns an empty store.
func NewVarStore() *VarStore {
	return &VarStore{vars: make(map[string]*Variable)}
}

// Define inserts a new variable. Redefinition fails.
func (s *VarStore) Define(v *Variable) error {
	if _, ok := s.vars[v.Name]; ok {
		return &errors.DuplicateVariableError{Name: v.Name}
	}
	s.vars[v.Name] = v
	return nil
}

// Get looks up a variable by name.
func (s *VarStore) Get(name string) (*Variable, error) {
	v, ok := s.vars[name]
	if !ok {
		return nil, &errors.UndefinedVariableError{Name: name}
	}
	return v, nil
}

// Set overwrites an existing variable's value, enforcing its kind. The kind
// argument must match the variable's declared kind; the raw value is
// validated against the kind's rules.
func (s *VarStore) Set(name string, kind VarKind, raw string) error {
	v, err := s.Get(name)
	if err != nil {
		return err
	}
	if v.Kind != kind {
		return &errors.TypeMismatchError{Name: name, Want: string(v.Kind), Got: string(kind)}
	}

	switch v.Kind {
	case KindBool:
		b, err := ParseBool(name, raw)
		if err != nil {
			return err
		}
		v.Bool = b
	case KindOption:
		if !contains(v.Options, raw) {
			return &errors.InvalidOptionError{Name: name, Value: raw, Options: v.Options}
		}
		v.Option = raw
	default:
		v.Text = []string{raw}
	}
	return nil
}

// Append extends a TEXT variable's segment sequence. Appending to any other
// kind is a type error.
func (s *VarStore) Append(name, value string) error {
	v, err := s.Get(name)
	if err != nil {
		return err
	}
	if v.Kind != KindText {
		return &errors.TypeMismatchError{Name: name, Want: "TEXT", Got: string(v.Kind)}
	}
	v.Text = append(v.Text, value)
	return nil
}

// Names returns all variable names, sorted.
func (s *VarStore) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear drops every variable. Used by REFLESH before the bootstrap re-run.
func (s *VarStore) Clear() {
	s.vars = make(map[string]*Variable)
}

// Expand substitutes ${NAME} and $NAME references in text with rendered
// variable values. Longer names are substituted first so $FOO never clobbers
// part of $FOOBAR.
func (s *VarStore) Expand(text string) string {
	if len(s.vars) == 0 || !strings.Contains(text, "$") {
		return text
	}
	names := s.Names()
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	for _, name := range names {
		value := s.vars[name].String()
		text = strings.ReplaceAll(text, "${"+name+"}", value)
		text = strings.ReplaceAll(text, "$"+name, value)
	}
	return text
}

// Environ renders the store as KEY=value pairs for subprocess environments.
func (s *VarStore) Environ() []string {
	env := make([]string, 0, len(s.vars))
	for _, name := range s.Names() {
		env = append(env, name+"="+s.vars[name].String())
	}
	return env
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
