package errors

import (
	"fmt"
	"strings"
)

// UndefinedVariableError is returned when a $VAR reference names a variable
// that does not exist in the store.
type UndefinedVariableError struct {
	Name string
}

func (err *UndefinedVariableError) Error() string {
	return fmt.Sprintf("nesh: undefined variable $%s", err.Name)
}

func (err *UndefinedVariableError) Code() int {
	return CodeUndefinedVariable
}

// DuplicateVariableError is returned by CREATE VAR when the name is taken.
type DuplicateVariableError struct {
	Name string
}

func (err *DuplicateVariableError) Error() string {
	return fmt.Sprintf("nesh: variable $%s already defined", err.Name)
}

func (err *DuplicateVariableError) Code() int {
	return CodeDuplicateVariable
}

// DuplicateAliasError is returned by CREATE ALIAS when the name is taken.
// Aliases are immutable once created.
type DuplicateAliasError struct {
	Name string
}

func (err *DuplicateAliasError) Error() string {
	return fmt.Sprintf("nesh: alias %q already defined", err.Name)
}

func (err *DuplicateAliasError) Code() int {
	return CodeDuplicateAlias
}

// TypeMismatchError is returned when a value doesn't fit a variable's kind,
// e.g. APPEND to a BOOL or a non-canonical boolean literal.
type TypeMismatchError struct {
	Name string
	Want string
	Got  string
}

func (err *TypeMismatchError) Error() string {
	return fmt.Sprintf("nesh: $%s expects %s, got %s", err.Name, err.Want, err.Got)
}

func (err *TypeMismatchError) Code() int {
	return CodeTypeMismatch
}

// InvalidOptionError is returned when an OPTION variable is assigned a value
// outside its declared option set.
type InvalidOptionError struct {
	Name    string
	Value   string
	Options []string
}

func (err *InvalidOptionError) Error() string {
	return fmt.Sprintf("nesh: %q is not an option of $%s (options: %s)",
		err.Value, err.Name, strings.Join(err.Options, "|"))
}

func (err *InvalidOptionError) Code() int {
	return CodeInvalidOption
}
