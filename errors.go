package modkit

import (
	"errors"
	"fmt"
	"strings"
)

// Framework errors
var (
	// Construction errors
	ErrInvalidModuleID       = errors.New("module id must be a non-empty string")
	ErrInvalidOptions        = errors.New("options must be a non-nil mapping")
	ErrInvalidDependency     = errors.New("dependency id must be a non-empty string")
	ErrInvalidConfigEntry    = errors.New("config entry must be a non-nil module")
	ErrNilModule             = errors.New("module is nil")
	ErrNilApp                = errors.New("app is nil")
	ErrNilHook               = errors.New("hook is nil")
	ErrNilObserver           = errors.New("observer is nil")
	ErrHookAlreadyOverridden = errors.New("hook has already been overridden")
	ErrHookConsumed          = errors.New("hooks are owned by a module wrapper")
	ErrModuleAlreadyWrapped  = errors.New("module has already been wrapped")
	ErrDuplicateModuleID     = errors.New("another module with the same id is configured")
	ErrUnknownPhase          = errors.New("unknown lifecycle phase")
	ErrForeignCloudEvent     = errors.New("cloud event was not produced by a lifecycle event")
	ErrCloudEventNotAccepted = errors.New("cloud event was not acknowledged")

	// Option errors
	ErrTargetNotPointer   = errors.New("target must be a non-nil pointer")
	ErrOptionNotFound     = errors.New("option not found")
	ErrOptionIncompatible = errors.New("option cannot be assigned to target")

	// Module state errors
	ErrModuleOptionsLocked       = errors.New("module options can only be changed while created")
	ErrModuleVersionLocked       = errors.New("module version can only be changed before wrapping")
	ErrModuleDependenciesLocked  = errors.New("module dependencies can only be changed while created")
	ErrWrapperLocked             = errors.New("module wrapper can only be changed while created")
	ErrModuleSetupPrecondition   = errors.New("module must be created to be set up")
	ErrModuleEnablePrecondition  = errors.New("module must be set up to be enabled")
	ErrModuleDisablePrecondition = errors.New("module must be enabled to be disabled")
	ErrModuleDestroyPrecondition = errors.New("module must be disabled to be destroyed")

	// App state errors
	ErrAppConfigLocked        = errors.New("app config can only be changed while created")
	ErrAppOptionsLocked       = errors.New("app options can only be changed while created")
	ErrAppResolvePrecondition = errors.New("app cannot be resolved while started")
	ErrAppSetupPrecondition   = errors.New("app cannot be set up while started")
	ErrAppStartPrecondition   = errors.New("app is already started")
	ErrAppStopPrecondition    = errors.New("app must be started to be stopped")
	ErrAppDestroyPrecondition = errors.New("app must be stopped to be destroyed")

	// Dependency resolution errors
	ErrCircularDependency = errors.New("circular dependency detected")
	ErrMissingDependency  = errors.New("module depends on non-existent module")
)

// errorCatalog maps every framework error to its stable symbolic code.
var errorCatalog = []struct {
	err  error
	code string
}{
	{ErrInvalidModuleID, "INVALID_MODULE_ID"},
	{ErrInvalidOptions, "INVALID_OPTIONS"},
	{ErrInvalidDependency, "INVALID_DEPENDENCY"},
	{ErrInvalidConfigEntry, "INVALID_CONFIG_ENTRY"},
	{ErrNilModule, "NIL_MODULE"},
	{ErrNilApp, "NIL_APP"},
	{ErrNilHook, "NIL_HOOK"},
	{ErrNilObserver, "NIL_OBSERVER"},
	{ErrHookAlreadyOverridden, "HOOK_ALREADY_OVERRIDDEN"},
	{ErrHookConsumed, "HOOK_CONSUMED"},
	{ErrModuleAlreadyWrapped, "MODULE_ALREADY_WRAPPED"},
	{ErrDuplicateModuleID, "DUPLICATE_MODULE_ID"},
	{ErrUnknownPhase, "UNKNOWN_PHASE"},
	{ErrForeignCloudEvent, "FOREIGN_CLOUD_EVENT"},
	{ErrCloudEventNotAccepted, "CLOUD_EVENT_NOT_ACCEPTED"},
	{ErrTargetNotPointer, "TARGET_NOT_POINTER"},
	{ErrOptionNotFound, "OPTION_NOT_FOUND"},
	{ErrOptionIncompatible, "OPTION_INCOMPATIBLE"},
	{ErrModuleOptionsLocked, "MODULE_OPTIONS_LOCKED"},
	{ErrModuleVersionLocked, "MODULE_VERSION_LOCKED"},
	{ErrModuleDependenciesLocked, "MODULE_DEPENDENCIES_LOCKED"},
	{ErrWrapperLocked, "WRAPPER_LOCKED"},
	{ErrModuleSetupPrecondition, "MODULE_SETUP_PRECONDITION"},
	{ErrModuleEnablePrecondition, "MODULE_ENABLE_PRECONDITION"},
	{ErrModuleDisablePrecondition, "MODULE_DISABLE_PRECONDITION"},
	{ErrModuleDestroyPrecondition, "MODULE_DESTROY_PRECONDITION"},
	{ErrAppConfigLocked, "APP_CONFIG_LOCKED"},
	{ErrAppOptionsLocked, "APP_OPTIONS_LOCKED"},
	{ErrAppResolvePrecondition, "APP_RESOLVE_PRECONDITION"},
	{ErrAppSetupPrecondition, "APP_SETUP_PRECONDITION"},
	{ErrAppStartPrecondition, "APP_START_PRECONDITION"},
	{ErrAppStopPrecondition, "APP_STOP_PRECONDITION"},
	{ErrAppDestroyPrecondition, "APP_DESTROY_PRECONDITION"},
	{ErrCircularDependency, "DEPENDENCY_CYCLE"},
	{ErrMissingDependency, "MISSING_DEPENDENCY"},
}

// ErrorCode returns the symbolic code of a framework error, or "" for errors
// the framework did not produce, such as those reported by module hooks.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorCatalog {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return ""
}

// CycleError is returned by App.Resolve when module dependencies form a cycle.
type CycleError struct {
	// Path lists the module ids along the cycle; the first id is repeated at the end.
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: cycle: %s", ErrCircularDependency, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCircularDependency
}

// MissingDependencyError is returned by App.Resolve when modules depend on ids
// that no configured module provides.
type MissingDependencyError struct {
	IDs []string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingDependency, strings.Join(e.IDs, ", "))
}

func (e *MissingDependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}

// IsErrCircularDependency reports whether err is a dependency cycle error.
func IsErrCircularDependency(err error) bool {
	return errors.Is(err, ErrCircularDependency)
}

// MissingDependencies returns the unresolved dependency ids carried by err.
func MissingDependencies(err error) ([]string, bool) {
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		return nil, false
	}
	ids := make([]string, len(missing.IDs))
	copy(ids, missing.IDs)
	return ids, true
}
