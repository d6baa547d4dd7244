package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndDescribe(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(testDescribe()))
	assert.True(t, registry.Exists("Widget"))
	assert.Equal(t, 1, registry.Count())

	describe, err := registry.Describe(context.Background(), "Widget")
	require.NoError(t, err)
	assert.Equal(t, "Widget", describe.Name)
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(testDescribe()))
	err := registry.Register(testDescribe())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryUnknownEntity(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Describe(context.Background(), "Missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEntityNotFound))
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	registry := NewRegistry()

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(&EntityDescribe{}))
}

func TestRegistryClear(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(testDescribe()))

	registry.Clear()
	assert.Equal(t, 0, registry.Count())
	assert.Empty(t, registry.List())
}
