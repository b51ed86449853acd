package modkit

import (
	"errors"
	"fmt"

	"github.com/GoCodeAlone/modkit/manifest"
)

// NewModuleFromManifest creates a module from a package description: name
// becomes the id, and version, module.dependencies and module.options carry
// over. options, when given, are added on top of the manifest options.
func NewModuleFromManifest(mf *manifest.Manifest, options Options) (*Module, error) {
	if mf == nil {
		return nil, fmt.Errorf("%w: nil manifest", ErrInvalidModuleID)
	}
	if err := mf.Validate(); err != nil {
		if errors.Is(err, manifest.ErrMissingName) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidModuleID, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDependency, err)
	}

	m, err := NewModule(mf.Name, Options(mf.Module.Options))
	if err != nil {
		return nil, err
	}
	m.version = mf.Version
	if err := m.AddDependencies(mf.Module.Dependencies...); err != nil {
		return nil, err
	}
	if options != nil {
		if err := m.AddOptions(options); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// LoadModule reads a manifest file and creates the module it describes.
func LoadModule(path string, options Options) (*Module, error) {
	mf, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	return NewModuleFromManifest(mf, options)
}
