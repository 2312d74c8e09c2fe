package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("SHOWCASE_DATA", "")

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "data/data.json", cfg.Data.Source)
	assert.Equal(t, "Show all", cfg.Tags.ShowAllLabel)
	assert.True(t, cfg.Data.Watch)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("SHOWCASE_DATA", "")
	path := filepath.Join(t.TempDir(), "showcase.yaml")
	yml := `
server:
  addr: ":9090"
data:
  source: "site/data.json"
  watch: false
  debounce: 1s
tags:
  show_all_label: "Experiments"
  preferred_order: [Gestures, Materials]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "site/data.json", cfg.Data.Source)
	assert.False(t, cfg.Data.Watch)
	assert.Equal(t, time.Second, cfg.Data.Debounce)
	assert.Equal(t, "Experiments", cfg.Tags.ShowAllLabel)
	assert.Equal(t, []string{"Gestures", "Materials"}, cfg.Tags.PreferredOrder)
	// untouched keys keep their defaults
	assert.Equal(t, "data/media", cfg.Data.MediaDir)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("SERVER_ADDR and SHOWCASE_DATA win over file values", func(t *testing.T) {
		t.Setenv("SERVER_ADDR", ":7000")
		t.Setenv("SHOWCASE_DATA", "https://example.com/data.json")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.Equal(t, ":7000", cfg.Server.Addr)
		assert.Equal(t, "https://example.com/data.json", cfg.Data.Source)
		assert.True(t, cfg.Data.IsRemote())
	})

	t.Run("unparseable SHOWCASE_WATCH is ignored", func(t *testing.T) {
		t.Setenv("SHOWCASE_WATCH", "maybe")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Data.Watch)
	})

	t.Run("SHOWCASE_WATCH=false disables the watcher", func(t *testing.T) {
		t.Setenv("SHOWCASE_WATCH", "false")

		cfg := Default()
		cfg.applyEnvOverrides()

		assert.False(t, cfg.Data.Watch)
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = " "
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Data.Source = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Data.Debounce = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Tags.ShowAllLabel = ""
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Tags.ShowAllLabel)
}

func TestLoad_EmptyShowAllLabelFallsBack(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("SHOWCASE_DATA", "")
	path := filepath.Join(t.TempDir(), "showcase.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tags:\n  show_all_label: \"\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Show all", cfg.Tags.ShowAllLabel)
}
