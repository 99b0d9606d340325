package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	m := Default()
	assert.Equal(t, "OxideKit App", m.App.Name)
	assert.Equal(t, uint32(1280), m.Window.Width)
	assert.Equal(t, uint32(720), m.Window.Height)
	assert.True(t, m.Window.Resizable)
	assert.True(t, m.Window.Decorations)
	assert.True(t, m.Dev.HotReload)
	assert.False(t, m.Dev.Inspector)
	assert.False(t, m.Dev.DebugLayout)
	assert.Equal(t, ">=0.1.0", m.Core.Requires)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oxide.toml")
	contents := `
[app]
name = "Widget Gallery"
version = "1.2.0"

[window]
title = "Widget Gallery"
width = 1600
height = 900
resizable = false

[dev]
inspector = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Widget Gallery", m.App.Name)
	assert.Equal(t, uint32(1600), m.Window.Width)
	assert.Equal(t, uint32(900), m.Window.Height)
	assert.False(t, m.Window.Resizable)
	assert.True(t, m.Window.Decorations, "unset fields keep their default")
	assert.True(t, m.Dev.Inspector)
	assert.True(t, m.Dev.HotReload, "fields absent from the file keep their default rather than being zeroed")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidateRejectsZeroDimensions(t *testing.T) {
	m := Default()
	m.Window.Width = 0
	assert.Error(t, m.Validate())
}
