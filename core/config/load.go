package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"

	"github.com/nesh-sh/nesh/errors"
)

// LoadCommandFile reads and validates a command definition file. The format
// is JSON; YAML is accepted too since the loader treats JSON as a YAML
// subset, matching how other config in this codebase is read.
func LoadCommandFile(fs afero.Fs, path string) (*CommandFile, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &errors.IOError{Op: "read", Path: path, Err: err}
	}
	return ParseCommandFile(path, contents)
}

// ParseCommandFile decodes and validates command definition bytes.
func ParseCommandFile(path string, contents []byte) (*CommandFile, error) {
	var out CommandFile
	if err := yaml.UnmarshalStrict(contents, &out); err != nil {
		return nil, &errors.CommandDefinitionParseError{Path: path, Err: err}
	}
	if err := out.Validate(); err != nil {
		return nil, &errors.CommandDefinitionParseError{Path: path, Err: err}
	}
	return &out, nil
}

// LoadMessages reads a messages.json table: message key to language to
// template.
func LoadMessages(fs afero.Fs, path string) (map[string]map[string]string, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &errors.IOError{Op: "read", Path: path, Err: err}
	}
	var out map[string]map[string]string
	if err := yaml.UnmarshalStrict(contents, &out); err != nil {
		return nil, &errors.IOError{Op: "parse", Path: path, Err: err}
	}
	return out, nil
}

// LoadDotenv reads the optional env file into a map. A missing file is not
// an error; the file is a convenience, not a requirement.
func LoadDotenv(fs afero.Fs, path string) (map[string]string, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &errors.IOError{Op: "read", Path: path, Err: err}
	}
	env, err := godotenv.Unmarshal(string(contents))
	if err != nil {
		return nil, &errors.IOError{Op: "parse", Path: path, Err: err}
	}
	return env, nil
}

// DefaultMessages returns the embedded message table.
func DefaultMessages() map[string]map[string]string {
	var out map[string]map[string]string
	// The embedded table is compiled in and covered by tests; a decode error
	// here is a build defect.
	if err := yaml.UnmarshalStrict(defaultMessagesData, &out); err != nil {
		panic(err)
	}
	return out
}

// DefaultCommands returns the embedded command definition file.
func DefaultCommands() *CommandFile {
	out, err := ParseCommandFile("embedded:commands.json", defaultCommandsData)
	if err != nil {
		panic(err)
	}
	return out
}
