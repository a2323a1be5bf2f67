package script

import (
	"fmt"

	"github.com/nesh-sh/nesh/core/state"
	"github.com/nesh-sh/nesh/errors"
)

// Arg is one captured parameter. Var is set when the slot received a $VAR
// reference; string-typed slots resolve it against the variable store at
// dispatch time, variable-target slots use it as the target name.
type Arg struct {
	Text    string
	Var     string
	Options []string
}

// Command is a parsed line ready for dispatch.
type Command struct {
	Def  *Definition
	Kind state.VarKind
	Args map[string]Arg
}

// Parse matches a tokenized line against the registry's grammars and
// produces a Command record. The first token selects the verb; if any of the
// verb's grammars declares a subcommand, the second token selects among
// them; the remaining tokens fill the parameter slots in order.
func Parse(registry *Registry, tokens []Token) (*Command, error) {
	if len(tokens) == 0 {
		return nil, &errors.ParseError{Expected: "command verb"}
	}
	if tokens[0].Kind != TokenWord {
		return nil, &errors.ParseError{Expected: "command verb", Got: tokens[0].Text}
	}
	verb := tokens[0].Text

	defs := registry.ForVerb(verb)
	if len(defs) == 0 {
		return nil, &errors.UnknownCommandError{Verb: verb}
	}

	def, rest, err := selectDefinition(verb, defs, tokens[1:])
	if err != nil {
		return nil, err
	}

	cmd := &Command{Def: def, Args: make(map[string]Arg)}
	for _, slot := range def.Slots {
		rest, err = matchSlot(cmd, slot, rest)
		if err != nil {
			return nil, err
		}
	}
	if len(rest) > 0 {
		return nil, &errors.ParseError{Expected: "end of line", Got: rest[0].Text}
	}
	return cmd, nil
}

// selectDefinition picks the grammar for the verb. Disambiguation between
// subcommands is purely by the literal subcommand token; there is no
// backtracking.
func selectDefinition(verb string, defs []*Definition, rest []Token) (*Definition, []Token, error) {
	var subless *Definition
	hasSub := false
	for _, def := range defs {
		if def.Sub == "" {
			subless = def
		} else {
			hasSub = true
		}
	}
	if !hasSub {
		return subless, rest, nil
	}

	if len(rest) > 0 && rest[0].Kind == TokenWord {
		for _, def := range defs {
			if def.Sub == rest[0].Text {
				return def, rest[1:], nil
			}
		}
	}
	if subless != nil {
		return subless, rest, nil
	}
	if len(rest) == 0 {
		return nil, nil, &errors.UnknownSubcommandError{Verb: verb}
	}
	return nil, nil, &errors.UnknownSubcommandError{Verb: verb, Sub: rest[0].Text}
}

func matchSlot(cmd *Command, slot Slot, rest []Token) ([]Token, error) {
	expected := describeSlot(slot)
	if len(rest) == 0 {
		return nil, &errors.ParseError{Expected: expected}
	}
	tok := rest[0]

	switch slot.Kind {
	case SlotKeyword:
		if tok.Kind != TokenWord || tok.Text != slot.Keyword {
			return nil, &errors.ParseError{Expected: expected, Got: tok.Text}
		}
		return rest[1:], nil

	case SlotString:
		switch tok.Kind {
		case TokenString:
			cmd.Args[slot.Name] = Arg{Text: tok.Text, Options: tok.Options}
		case TokenVarRef:
			cmd.Args[slot.Name] = Arg{Var: tok.Text}
		default:
			return nil, &errors.ParseError{Expected: expected, Got: tok.Text}
		}
		return rest[1:], nil

	case SlotVarRef:
		if tok.Kind != TokenVarRef {
			return nil, &errors.ParseError{Expected: expected, Got: tok.Text}
		}
		cmd.Args[slot.Name] = Arg{Var: tok.Text}
		return rest[1:], nil

	case SlotVarKind:
		// The TYPE keyword is optional noise: CREATE VAR $X WITH TYPE OPTION
		// and CREATE VAR $X WITH OPTION are both accepted.
		if tok.Kind == TokenWord && tok.Text == "TYPE" {
			rest = rest[1:]
			if len(rest) == 0 {
				return nil, &errors.ParseError{Expected: expected}
			}
			tok = rest[0]
		}
		if tok.Kind != TokenWord {
			return nil, &errors.ParseError{Expected: expected, Got: tok.Text}
		}
		switch tok.Text {
		case string(state.KindText), string(state.KindBool), string(state.KindOption):
			cmd.Kind = state.VarKind(tok.Text)
		default:
			return nil, &errors.ParseError{Expected: expected, Got: tok.Text}
		}
		return rest[1:], nil

	case SlotTypedValue:
		return matchTypedValue(cmd, slot, rest)

	case SlotValue, SlotNumber:
		if tok.Kind != TokenWord {
			return nil, &errors.ParseError{Expected: expected, Got: tok.Text}
		}
		cmd.Args[slot.Name] = Arg{Text: tok.Text}
		return rest[1:], nil
	}

	return nil, &errors.ParseError{Expected: expected, Got: tok.Text}
}

func matchTypedValue(cmd *Command, slot Slot, rest []Token) ([]Token, error) {
	tok := rest[0]
	switch cmd.Kind {
	case state.KindBool:
		if tok.Kind != TokenWord {
			return nil, &errors.ParseError{Expected: "boolean literal", Got: tok.Text}
		}
		cmd.Args[slot.Name] = Arg{Text: tok.Text}

	case state.KindOption:
		if tok.Kind != TokenString {
			return nil, &errors.ParseError{Expected: "quoted option value", Got: tok.Text}
		}
		options := tok.Options
		if options == nil {
			options = []string{tok.Text}
		}
		cmd.Args[slot.Name] = Arg{Text: tok.Text, Options: options}

	default: // TEXT
		switch tok.Kind {
		case TokenString:
			cmd.Args[slot.Name] = Arg{Text: tok.Text}
		case TokenVarRef:
			cmd.Args[slot.Name] = Arg{Var: tok.Text}
		default:
			return nil, &errors.ParseError{Expected: "quoted string", Got: tok.Text}
		}
	}
	return rest[1:], nil
}

func describeSlot(slot Slot) string {
	switch slot.Kind {
	case SlotKeyword:
		return fmt.Sprintf("keyword %q", slot.Keyword)
	case SlotString:
		return "quoted string"
	case SlotVarRef:
		return "variable reference"
	case SlotVarKind:
		return "TEXT, BOOL or OPTION"
	case SlotNumber:
		return "number"
	default:
		return "value"
	}
}
