package config

import (
	"log"
	"os"

	"github.com/spf13/afero"
)

// Initialize scaffolds a fresh Nesh installation under the config's base
// directory, writing embedded defaults for any file that doesn't exist yet.
// Existing files are never overwritten.
func (c *Config) Initialize(logger *log.Logger) error {
	if err := c.fs.MkdirAll(c.Home(), 0700); err != nil {
		return err
	}

	for _, f := range []struct {
		path string
		data []byte
	}{
		{c.CommandsPath(), defaultCommandsData},
		{c.MessagesPath(), defaultMessagesData},
		{c.RCPath(), defaultRCData},
	} {
		exists, err := afero.Exists(c.fs, f.path)
		if err != nil {
			return err
		}
		if exists {
			logger.Printf("skipping %s, already exists", f.path)
			continue
		}
		if err := afero.WriteFile(c.fs, f.path, f.data, os.FileMode(0644)); err != nil {
			return err
		}
		logger.Printf("created %s", f.path)
	}

	return nil
}
