// Package manifest handles harriet.toml runtime configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a harriet.toml runtime configuration.
type Manifest struct {
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
	Security Security `toml:"security"`
	Preload  Preload  `toml:"preload"`

	// Dir is the directory containing the harriet.toml file (set at load time).
	Dir string `toml:"-"`
}

// Server configures the service listener.
type Server struct {
	Listen string `toml:"listen"`
}

// Log configures logging.
type Log struct {
	Verbosity int `toml:"verbosity"`
}

// Security configures the default ticket handed to requests that carry no
// whitelist of their own. An empty list means unrestricted.
type Security struct {
	Whitelist []string `toml:"whitelist"`
}

// Preload lists JSON tree files whose handler definitions are installed at
// startup under the privileged boot caller.
type Preload struct {
	Files []string `toml:"files"`
}

// Load parses a harriet.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "harriet.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Server.Listen == "" {
		m.Server.Listen = ":4567"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a harriet.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "harriet.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// PreloadPaths resolves the preload file paths relative to the manifest
// directory.
func (m *Manifest) PreloadPaths() []string {
	out := make([]string, len(m.Preload.Files))
	for i, f := range m.Preload.Files {
		if filepath.IsAbs(f) {
			out[i] = f
		} else {
			out[i] = filepath.Join(m.Dir, f)
		}
	}
	return out
}
