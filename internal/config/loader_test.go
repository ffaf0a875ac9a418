package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"), nil)
	// An explicit path is always used, so a missing explicit file errors.
	require.Error(t, err)

	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "strict", cfg.DriftPolicy)
	assert.Equal(t, "arrow", cfg.DefaultBackend)
	assert.Equal(t, "duckdb", cfg.Target.Type)
	assert.False(t, cfg.Verbose)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crossframe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
drift_policy: permissive
default_backend: sql
target:
  type: sqlite
  path: data.db
verbose: true
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "permissive", cfg.DriftPolicy)
	assert.Equal(t, "sql", cfg.DefaultBackend)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, "data.db", cfg.Target.Path)
	assert.True(t, cfg.Verbose)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crossframe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drift_policy: strict\n"), 0o644))

	t.Setenv("CROSSFRAME_DRIFT_POLICY", "permissive")
	t.Setenv("CROSSFRAME_TARGET_TYPE", "postgres")
	t.Setenv("CROSSFRAME_TARGET_DSN", "postgres://localhost/test")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "permissive", cfg.DriftPolicy)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "postgres://localhost/test", cfg.Target.DSN)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	t.Setenv("CROSSFRAME_DEFAULT_BACKEND", "arrow")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	flags.String("target", "", "")
	flags.String("db", "", "")
	flags.String("drift-policy", "", "")
	require.NoError(t, flags.Parse([]string{
		"--backend=sql", "--target=sqlite", "--db=x.db", "--drift-policy=permissive",
	}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "sql", cfg.DefaultBackend)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, "x.db", cfg.Target.Path)
	assert.Equal(t, "permissive", cfg.DriftPolicy)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "arrow", cfg.DefaultBackend,
		"a flag left at its zero default must not clobber lower layers")
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad drift policy", "drift_policy: lenient\n", "unknown drift policy"},
		{"bad backend", "default_backend: pandas\n", "unknown default backend"},
		{"bad target", "target:\n  type: oracle\n", "unknown target type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "crossframe.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := Load(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Policy(t *testing.T) {
	cfg := &Config{DriftPolicy: "permissive"}
	assert.Equal(t, "permissive", cfg.Policy().String())

	cfg = &Config{DriftPolicy: "strict"}
	assert.Equal(t, "strict", cfg.Policy().String())
}
