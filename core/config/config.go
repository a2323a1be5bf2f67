// Package config owns the on-disk layout of a Nesh installation: the config
// home (~/.nesh) with its commands.json, messages.json and optional env file,
// plus the ~/.neshrc bootstrap script.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
)

var (
	//go:embed default/commands.json
	defaultCommandsData []byte

	//go:embed default/messages.json
	defaultMessagesData []byte

	//go:embed default/neshrc
	defaultRCData []byte
)

const (
	// HomeDirName is the config directory under the user's home.
	HomeDirName = ".nesh"
	// RCName is the bootstrap script in the user's home.
	RCName = ".neshrc"
	// CommandsName holds externally defined command grammars.
	CommandsName = "commands.json"
	// MessagesName holds the localized message table.
	MessagesName = "messages.json"
	// EnvName is an optional dotenv file exported to executed commands.
	EnvName = "env"
)

// Config resolves the paths of a Nesh installation rooted at a base
// directory, normally the user's home.
type Config struct {
	fs   afero.Fs
	base string
}

// New returns a Config rooted at baseDir. An empty baseDir resolves to the
// current user's home directory.
func New(fs afero.Fs, baseDir string) (*Config, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		baseDir = home
	}
	return &Config{fs: fs, base: baseDir}, nil
}

// Fs returns the filesystem the configuration lives on.
func (c *Config) Fs() afero.Fs {
	return c.fs
}

// Home is the config directory, e.g. ~/.nesh.
func (c *Config) Home() string {
	return filepath.Join(c.base, HomeDirName)
}

// RCPath is the bootstrap script, e.g. ~/.neshrc.
func (c *Config) RCPath() string {
	return filepath.Join(c.base, RCName)
}

// CommandsPath is the persisted command definition store.
func (c *Config) CommandsPath() string {
	return filepath.Join(c.Home(), CommandsName)
}

// MessagesPath is the persisted message table.
func (c *Config) MessagesPath() string {
	return filepath.Join(c.Home(), MessagesName)
}

// EnvPath is the optional dotenv file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Home(), EnvName)
}

// CommandFile is the schema of commands.json and of files loaded via
// CREATE CMD FROM: an ordered list of command definitions.
type CommandFile struct {
	Commands []CommandDef `json:"commands" validate:"dive"`
}

// CommandDef is one externally defined verb/subcommand grammar. Run is a
// template executed through the shell runner with {slot} placeholders filled
// from the parsed line.
type CommandDef struct {
	Verb  string    `json:"verb" validate:"required"`
	Sub   string    `json:"subcommand,omitempty"`
	Slots []SlotDef `json:"slots,omitempty" validate:"dive"`
	Run   string    `json:"run,omitempty"`
}

// SlotDef is one typed parameter slot of an external definition.
type SlotDef struct {
	Kind    string `json:"kind" validate:"required,oneof=keyword string varref value number"`
	Name    string `json:"name,omitempty"`
	Keyword string `json:"keyword,omitempty" validate:"required_if=Kind keyword"`
}

// Validate checks a loaded command file for semantic errors.
func (f *CommandFile) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(f)
}
