package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brep/pkg/export"
	"github.com/chazu/brep/pkg/topo"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, topo.DefaultMeshSize, cfg.DefaultMeshSize)
	assert.Equal(t, export.FormatGeo, cfg.ExportFormat())
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
default_mesh_size: 0.25
format: dmg
eval_timeout: 750ms
log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.DefaultMeshSize)
	assert.Equal(t, export.FormatDmg, cfg.ExportFormat())
	assert.Equal(t, 750*time.Millisecond, cfg.EvalTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.False(t, cfg.Physical, "unset keys keep their defaults")
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative mesh size", "default_mesh_size: -1", "DefaultMeshSize: must be greater than 0"},
		{"unknown format", "format: stl", "Format: must be one of [geo dmg]"},
		{"zero timeout", "eval_timeout: 0s", "EvalTimeout"},
		{"bad level", "log_level: loud", "LogLevel"},
		{"unknown key", "mesh: 1", "mesh"},
		{"malformed", "format: [", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("physical: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Physical)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
