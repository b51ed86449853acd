package modkit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{ErrInvalidModuleID, "INVALID_MODULE_ID"},
		{fmt.Errorf("wrapped: %w", ErrAppStopPrecondition), "APP_STOP_PRECONDITION"},
		{&CycleError{Path: []string{"a", "b", "a"}}, "DEPENDENCY_CYCLE"},
		{&MissingDependencyError{IDs: []string{"utils"}}, "MISSING_DEPENDENCY"},
		{errors.New("hook failure"), ""},
		{nil, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, ErrorCode(tt.err), "%v", tt.err)
	}
}

func TestErrorCatalogCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(errorCatalog))
	for _, entry := range errorCatalog {
		assert.False(t, seen[entry.code], "duplicate code %s", entry.code)
		seen[entry.code] = true
		assert.Equal(t, entry.code, ErrorCode(entry.err))
	}
}

func TestCycleError(t *testing.T) {
	err := &CycleError{Path: []string{"server", "db", "server"}}

	assert.Equal(t, "circular dependency detected: cycle: server -> db -> server", err.Error())
	assert.True(t, IsErrCircularDependency(err))
	assert.True(t, IsErrCircularDependency(fmt.Errorf("resolve: %w", err)))
	assert.False(t, IsErrCircularDependency(ErrMissingDependency))
}

func TestMissingDependencyError(t *testing.T) {
	err := fmt.Errorf("resolve: %w", &MissingDependencyError{IDs: []string{"utils", "cache"}})

	assert.ErrorIs(t, err, ErrMissingDependency)
	assert.Contains(t, err.Error(), "utils, cache")

	ids, ok := MissingDependencies(err)
	assert.True(t, ok)
	assert.Equal(t, []string{"utils", "cache"}, ids)

	_, ok = MissingDependencies(ErrMissingDependency)
	assert.False(t, ok)
}
