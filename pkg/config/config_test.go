package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigManagerCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, path, cm.Path())
	assert.Equal(t, "sect409", cm.GetConfig().Defaults.Field)
	assert.Equal(t, "hex", cm.GetConfig().Defaults.Format)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, cm.GetConfig(), reloaded.GetConfig())
}

func TestGetConfigPathEnv(t *testing.T) {
	t.Setenv("NBCONV_CONFIG", "/tmp/custom.json")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", path)

	t.Setenv("NBCONV_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "nbconv", "config.json"), path)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad json", `{"version": `, "failed to parse config"},
		{"bad format", `{"defaults": {"format": "base64"}}`, "format must be hex or dec"},
		{"negative workers", `{"defaults": {"format": "hex", "workers": -1}}`, "workers cannot be negative"},
		{"bad field", `{"fields": [{"name": "f", "polynomial": "zz"}]}`, "invalid hex value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := NewConfigManagerAt(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"defaults": {"field": "sect233", "format": "dec"}}`), 0600))

	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, "sect233", cm.GetConfig().Defaults.Field)
	assert.Equal(t, "dec", cm.GetConfig().Defaults.Format)
	assert.True(t, cm.GetConfig().UI.UseColor)
}

func TestFieldConfig(t *testing.T) {
	f, err := FieldConfig{Name: "toy", Polynomial: "0x13", Root: "8"}.Field()
	require.NoError(t, err)
	assert.Equal(t, 4, f.Degree())
	assert.Equal(t, int64(8), f.Root.Int64())

	_, err = FieldConfig{Name: "toy", Polynomial: ""}.Field()
	assert.Error(t, err)

	_, err = FieldConfig{Name: "toy", Polynomial: "13", Root: "xyz"}.Field()
	assert.Error(t, err)

	_, err = FieldConfig{Name: "toy", Polynomial: "12"}.Field()
	assert.Error(t, err)
}

func TestAddRemoveField(t *testing.T) {
	cm, err := NewConfigManagerAt(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	require.NoError(t, cm.AddField(FieldConfig{Name: "toy", Polynomial: "13", Root: "8"}))
	require.NoError(t, cm.AddField(FieldConfig{Name: "TOY", Polynomial: "19", Root: "2"}))
	require.Len(t, cm.GetConfig().Fields, 1)
	assert.Equal(t, "19", cm.GetConfig().Fields[0].Polynomial)

	assert.Error(t, cm.AddField(FieldConfig{Name: "broken", Polynomial: "2"}))

	reg, err := cm.GetConfig().NewRegistry(true)
	require.NoError(t, err)
	conv, err := reg.Conversion("toy")
	require.NoError(t, err)
	assert.Equal(t, 4, conv.Degree())
	assert.True(t, conv.ReverseBits())

	require.NoError(t, cm.RemoveField("toy"))
	assert.Empty(t, cm.GetConfig().Fields)
	assert.Error(t, cm.RemoveField("toy"))

	reloaded, err := NewConfigManagerAt(cm.Path())
	require.NoError(t, err)
	assert.Empty(t, reloaded.GetConfig().Fields)
}
