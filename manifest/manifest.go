// Package manifest parses package-description documents into module
// definitions.
//
// A manifest names the module and declares its version, dependencies and
// default options, in the style of a package.json file:
//
//	{
//	  "name": "server",
//	  "version": "1.2.0",
//	  "module": {
//	    "dependencies": ["logger"],
//	    "options": {"port": 8080}
//	  }
//	}
//
// The same structure is accepted as YAML and TOML.
package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/GoCodeAlone/modkit/config"
)

// Static errors for manifest parsing
var (
	ErrMissingName       = errors.New("manifest has no name")
	ErrInvalidDependency = errors.New("manifest dependency must be a non-empty string")
)

// Manifest is a parsed package description.
type Manifest struct {
	Name    string  `json:"name" yaml:"name" toml:"name"`
	Version string  `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Module  Section `json:"module" yaml:"module" toml:"module"`
}

// Section holds the module-specific part of a manifest.
type Section struct {
	Dependencies []string       `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	Options      map[string]any `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// Validate checks the fields a module needs.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	for i, dep := range m.Module.Dependencies {
		if dep == "" {
			return fmt.Errorf("%w: entry %d of %s", ErrInvalidDependency, i, m.Name)
		}
	}
	return nil
}

// Parse decodes and validates a manifest.
func Parse(data []byte, format config.Format) (*Manifest, error) {
	var m Manifest
	if err := config.Unmarshal(data, format, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads a manifest file. The format follows the file extension.
func Load(path string) (*Manifest, error) {
	format, err := config.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}
