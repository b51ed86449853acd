// Package config reads per-module options from files and the environment.
//
// Option files are YAML, TOML or JSON documents whose top-level keys are
// module ids and whose values are the option mappings of those modules:
//
//	server:
//	  port: 8080
//	db:
//	  dsn: postgres://localhost/app
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Static errors for option loading
var (
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrInvalidModuleOptions = errors.New("module options must be a mapping")
)

// Format identifies a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Unmarshal decodes data in the given format into v.
func Unmarshal(data []byte, format Format, v any) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatTOML:
		err = toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", format, err)
	}
	return nil
}

// LoadModuleOptions reads a per-module options file.
func LoadModuleOptions(path string) (map[string]map[string]any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseModuleOptions(data, format)
}

// ParseModuleOptions decodes a per-module options document. A module whose
// value is empty gets an empty mapping.
func ParseModuleOptions(data []byte, format Format) (map[string]map[string]any, error) {
	var raw map[string]any
	if err := Unmarshal(data, format, &raw); err != nil {
		return nil, err
	}

	out := make(map[string]map[string]any, len(raw))
	for id, value := range raw {
		switch v := value.(type) {
		case nil:
			out[id] = map[string]any{}
		case map[string]any:
			out[id] = v
		default:
			return nil, fmt.Errorf("%w: module %s has %T", ErrInvalidModuleOptions, id, value)
		}
	}
	return out, nil
}

// EnvModuleOptions collects options from environment entries ("KEY=value")
// named PREFIX_<MODULE>__<OPTION>. Module ids and option names are lowercased;
// values stay strings. Entries without the prefix, or without a module and an
// option name, are ignored.
func EnvModuleOptions(prefix string, environ []string) map[string]map[string]any {
	out := make(map[string]map[string]any)
	if prefix == "" {
		return out
	}
	lead := strings.ToUpper(prefix) + "_"

	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, lead) {
			continue
		}
		module, key, ok := strings.Cut(strings.TrimPrefix(name, lead), "__")
		if !ok || module == "" || key == "" {
			continue
		}

		module = strings.ToLower(module)
		if out[module] == nil {
			out[module] = make(map[string]any)
		}
		out[module][strings.ToLower(key)] = value
	}
	return out
}
