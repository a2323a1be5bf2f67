package script

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/nesh-sh/nesh/core/config"
	"github.com/nesh-sh/nesh/errors"
)

// SlotKind enumerates the typed parameter slots a command grammar can
// declare. Matching is a deterministic ordered slot fill; each kind consumes
// the next token according to its shape.
type SlotKind int

const (
	// SlotKeyword consumes an exact literal word (WITH, FOR, TO, FROM...).
	SlotKeyword SlotKind = iota
	// SlotString consumes a quoted string literal or a $VAR reference that
	// is resolved against the variable store at dispatch time.
	SlotString
	// SlotVarRef consumes a $VAR reference as a target name, unresolved.
	SlotVarRef
	// SlotVarKind consumes TEXT, BOOL or OPTION, with an optional leading
	// TYPE keyword.
	SlotVarKind
	// SlotTypedValue consumes a value whose shape depends on the kind
	// captured earlier in the same line.
	SlotTypedValue
	// SlotValue consumes any bare word verbatim.
	SlotValue
	// SlotNumber consumes a word validated as a number at dispatch time.
	SlotNumber
)

// Slot is one declared parameter of a command grammar.
type Slot struct {
	Kind    SlotKind
	Keyword string // for SlotKeyword
	Name    string // capture name for the other kinds
}

// Action enumerates the closed set of built-in handlers plus the external
// template action.
type Action int

const (
	ActionCreateDir Action = iota
	ActionCreateVar
	ActionCreateAlias
	ActionLoadCommands
	ActionAppend
	ActionSetLanguage
	ActionSetVar
	ActionRunCmd
	ActionRunScript
	ActionSave
	ActionExit
	ActionSleep
	ActionReload
	// ActionExternal dispatches a definition loaded via CREATE CMD FROM by
	// filling its Run template and executing it through the runner.
	ActionExternal
)

// Definition describes how to parse and dispatch one verb/subcommand pair.
type Definition struct {
	Verb   string
	Sub    string
	Slots  []Slot
	Action Action
	Run    string
}

func defKey(verb, sub string) string {
	return verb + "\x00" + sub
}

// Registry is the command table: an ordered map of definitions keyed by
// verb/subcommand. Later additions override earlier ones with the same key
// (last-load-wins); CREATE CMD is additive by design.
type Registry struct {
	defs *orderedmap.OrderedMap[string, *Definition]
}

// NewRegistry returns a registry seeded with the built-in grammars.
func NewRegistry() *Registry {
	r := &Registry{defs: orderedmap.NewOrderedMap[string, *Definition]()}
	for _, def := range builtins() {
		r.Add(def)
	}
	return r
}

// Add inserts or overrides a definition.
func (r *Registry) Add(def *Definition) {
	r.defs.Set(defKey(def.Verb, def.Sub), def)
}

// ForVerb returns all definitions for a verb in table order.
func (r *Registry) ForVerb(verb string) []*Definition {
	var out []*Definition
	for pair := r.defs.Front(); pair != nil; pair = pair.Next() {
		if pair.Value.Verb == verb {
			out = append(out, pair.Value)
		}
	}
	return out
}

// HasVerb reports whether verb is registered.
func (r *Registry) HasVerb(verb string) bool {
	return len(r.ForVerb(verb)) > 0
}

// Verbs returns the distinct registered verbs in table order.
func (r *Registry) Verbs() []string {
	seen := make(map[string]bool)
	var out []string
	for pair := r.defs.Front(); pair != nil; pair = pair.Next() {
		if !seen[pair.Value.Verb] {
			seen[pair.Value.Verb] = true
			out = append(out, pair.Value.Verb)
		}
	}
	return out
}

// Merge loads a validated command file into the registry, overriding on
// conflict. The path identifies the file in error messages.
func (r *Registry) Merge(path string, file *config.CommandFile) error {
	for _, def := range file.Commands {
		converted, err := convertDef(path, def)
		if err != nil {
			return err
		}
		r.Add(converted)
	}
	return nil
}

func convertDef(path string, def config.CommandDef) (*Definition, error) {
	out := &Definition{
		Verb:   def.Verb,
		Sub:    def.Sub,
		Action: ActionExternal,
		Run:    def.Run,
	}
	for _, slot := range def.Slots {
		kind, ok := slotKinds[slot.Kind]
		if !ok {
			return nil, &errors.CommandDefinitionParseError{
				Path: path,
				Err:  &errors.ParseError{Expected: "slot kind", Got: slot.Kind},
			}
		}
		out.Slots = append(out.Slots, Slot{Kind: kind, Keyword: slot.Keyword, Name: slot.Name})
	}
	return out, nil
}

// slotKinds maps the on-disk slot kind names to their internal kinds. The
// typed CREATE/SET VAR machinery is not exposed to external definitions.
var slotKinds = map[string]SlotKind{
	"keyword": SlotKeyword,
	"string":  SlotString,
	"varref":  SlotVarRef,
	"value":   SlotValue,
	"number":  SlotNumber,
}

func builtins() []*Definition {
	return []*Definition{
		{
			Verb: "CREATE", Sub: "DIR", Action: ActionCreateDir,
			Slots: []Slot{{Kind: SlotString, Name: "path"}},
		},
		{
			Verb: "CREATE", Sub: "VAR", Action: ActionCreateVar,
			Slots: []Slot{
				{Kind: SlotVarRef, Name: "var"},
				{Kind: SlotKeyword, Keyword: "WITH"},
				{Kind: SlotVarKind, Name: "kind"},
				{Kind: SlotTypedValue, Name: "value"},
			},
		},
		{
			Verb: "CREATE", Sub: "ALIAS", Action: ActionCreateAlias,
			Slots: []Slot{
				{Kind: SlotValue, Name: "alias"},
				{Kind: SlotKeyword, Keyword: "FOR"},
				{Kind: SlotString, Name: "command"},
			},
		},
		{
			Verb: "CREATE", Sub: "CMD", Action: ActionLoadCommands,
			Slots: []Slot{
				{Kind: SlotKeyword, Keyword: "FROM"},
				{Kind: SlotString, Name: "path"},
			},
		},
		{
			Verb: "APPEND", Action: ActionAppend,
			Slots: []Slot{
				{Kind: SlotString, Name: "value"},
				{Kind: SlotKeyword, Keyword: "TO"},
				{Kind: SlotVarRef, Name: "var"},
			},
		},
		{
			Verb: "SET", Sub: "LANGUAGE", Action: ActionSetLanguage,
			Slots: []Slot{{Kind: SlotString, Name: "language"}},
		},
		{
			Verb: "SET", Sub: "VAR", Action: ActionSetVar,
			Slots: []Slot{
				{Kind: SlotVarRef, Name: "var"},
				{Kind: SlotKeyword, Keyword: "WITH"},
				{Kind: SlotVarKind, Name: "kind"},
				{Kind: SlotTypedValue, Name: "value"},
			},
		},
		{
			Verb: "RUN", Sub: "CMD", Action: ActionRunCmd,
			Slots: []Slot{{Kind: SlotString, Name: "cmd"}},
		},
		{
			Verb: "RUN", Sub: "NESH", Action: ActionRunScript,
			Slots: []Slot{
				{Kind: SlotKeyword, Keyword: "FROM"},
				{Kind: SlotString, Name: "path"},
			},
		},
		{
			Verb: "SAVE", Action: ActionSave,
			Slots: []Slot{{Kind: SlotString, Name: "path"}},
		},
		{Verb: "EXIT", Action: ActionExit},
		{
			Verb: "SLEEP", Action: ActionSleep,
			Slots: []Slot{
				{Kind: SlotKeyword, Keyword: "WITH"},
				{Kind: SlotKeyword, Keyword: "SECOND"},
				{Kind: SlotNumber, Name: "seconds"},
			},
		},
		{Verb: "REFLESH", Action: ActionReload},
	}
}
