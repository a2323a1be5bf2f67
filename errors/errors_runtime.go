package errors

import "fmt"

// IOError wraps a filesystem failure from CREATE DIR, SAVE, script loading or
// the RC file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (err *IOError) Error() string {
	return fmt.Sprintf("nesh: %s %s: %v", err.Op, err.Path, err.Err)
}

func (err *IOError) Code() int {
	return CodeIO
}

func (err *IOError) Unwrap() error {
	return err.Err
}

// NoResultError is returned by SAVE when no RUN CMD has executed yet.
type NoResultError struct{}

func (err *NoResultError) Error() string {
	return "nesh: no command result to save"
}

func (err *NoResultError) Code() int {
	return CodeNoResult
}

// UnsupportedLanguageError is returned by SET LANGUAGE for a language with no
// message table entries.
type UnsupportedLanguageError struct {
	Language string
}

func (err *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("nesh: unsupported language %q", err.Language)
}

func (err *UnsupportedLanguageError) Code() int {
	return CodeUnsupportedLanguage
}

// InvalidDurationError is returned by SLEEP for a negative or non-numeric
// duration.
type InvalidDurationError struct {
	Raw string
}

func (err *InvalidDurationError) Error() string {
	return fmt.Sprintf("nesh: invalid sleep duration %q", err.Raw)
}

func (err *InvalidDurationError) Code() int {
	return CodeInvalidDuration
}
