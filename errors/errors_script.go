package errors

import "fmt"

// ParseError is returned when a line matches a known command but its tokens
// don't satisfy the command's parameter slots.
type ParseError struct {
	Expected string
	Got      string
}

func (err *ParseError) Error() string {
	if err.Got == "" {
		return fmt.Sprintf("nesh: expected %s, got end of line", err.Expected)
	}
	return fmt.Sprintf("nesh: expected %s, got %q", err.Expected, err.Got)
}

func (err *ParseError) Code() int {
	return CodeParse
}

// UnknownCommandError is returned when the first token of a line is not a
// registered verb.
type UnknownCommandError struct {
	Verb string
}

func (err *UnknownCommandError) Error() string {
	return fmt.Sprintf("nesh: unknown command %q", err.Verb)
}

func (err *UnknownCommandError) Code() int {
	return CodeUnknownCommand
}

// UnknownSubcommandError is returned when a verb is recognized but its
// subcommand token matches none of the registered grammars.
type UnknownSubcommandError struct {
	Verb string
	Sub  string
}

func (err *UnknownSubcommandError) Error() string {
	if err.Sub == "" {
		return fmt.Sprintf("nesh: %s requires a subcommand", err.Verb)
	}
	return fmt.Sprintf("nesh: unknown subcommand %q for %s", err.Sub, err.Verb)
}

func (err *UnknownSubcommandError) Code() int {
	return CodeUnknownSubcommand
}

// CommandDefinitionParseError is returned when a command definition file
// loaded via CREATE CMD FROM cannot be parsed or fails validation.
type CommandDefinitionParseError struct {
	Path string
	Err  error
}

func (err *CommandDefinitionParseError) Error() string {
	return fmt.Sprintf("nesh: invalid command definitions in %s: %v", err.Path, err.Err)
}

func (err *CommandDefinitionParseError) Code() int {
	return CodeCommandDefinitionParse
}

func (err *CommandDefinitionParseError) Unwrap() error {
	return err.Err
}

// ScriptError wraps an error raised while executing a line of a script file,
// recording the path and the 1-based line number where execution stopped.
type ScriptError struct {
	Path string
	Line int
	Err  error
}

func (err *ScriptError) Error() string {
	return fmt.Sprintf("%s:%d: %v", err.Path, err.Line, err.Err)
}

// Code reports the wrapped error's code so that a script failure exits with
// the status of the line that actually failed.
func (err *ScriptError) Code() int {
	var neshErr NeshError
	if As(err.Err, &neshErr) {
		return neshErr.Code()
	}
	return CodeScript
}

func (err *ScriptError) Unwrap() error {
	return err.Err
}
