package errors

import "errors"

// General exit codes
const (
	CodeOk      int = iota // Used when the shell exits without errors
	CodeUnknown            // Used when no other exit code is appropriate
)

// Script and grammar related exit codes
const (
	CodeParse int = iota + 100
	CodeUnknownCommand
	CodeUnknownSubcommand
	CodeCommandDefinitionParse
	CodeScript
)

// State store related exit codes
const (
	CodeUndefinedVariable int = iota + 200
	CodeDuplicateVariable
	CodeDuplicateAlias
	CodeTypeMismatch
	CodeInvalidOption
)

// Runtime related exit codes
const (
	CodeIO int = iota + 300
	CodeNoResult
	CodeUnsupportedLanguage
	CodeInvalidDuration
)

// NeshError extends the standard error interface with a Code method. The code
// is used as the process exit status when a non-interactive script fails,
// letting callers distinguish error kinds without parsing messages.
type NeshError interface {
	error
	Code() int
}

// New returns an error that formats as the given text. This wraps the
// standard errors.New function so that we don't need to alias that package.
func New(text string) error {
	return errors.New(text)
}

// Is wraps the standard errors.Is function so that we don't need to alias that package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps the standard errors.As function so that we don't need to alias that package.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// ExitCode extracts the exit code from an error, defaulting to CodeUnknown
// for errors outside the taxonomy and CodeOk for nil.
func ExitCode(err error) int {
	if err == nil {
		return CodeOk
	}
	var neshErr NeshError
	if errors.As(err, &neshErr) {
		return neshErr.Code()
	}
	return CodeUnknown
}
