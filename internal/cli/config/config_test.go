package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultRetries, cfg.Retries)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.URL)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := `url: https://catalog.example.com
username: alice
timeout: 10
output: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dgc.yaml"), []byte(content), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://catalog.example.com", cfg.URL)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, 10, cfg.Timeout)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "dgc.yaml", GetConfigFileUsed())
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: https://other.example.com\n"), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com", cfg.URL)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dgc.yaml"),
		[]byte("url: https://file.example.com\n"), 0o600))
	t.Setenv("DGC_URL", "https://env.example.com")
	t.Setenv("DGC_PASSWORD", "hunter2")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.URL)
	assert.Equal(t, "hunter2", cfg.Password)
}

func TestFlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DGC_URL", "https://env.example.com")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("url", "", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--url", "https://flag.example.com", "--verbose"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", cfg.URL)
	assert.True(t, cfg.Verbose)
}

func TestUnchangedFlagsDoNotOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DGC_TIMEOUT", "99")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("timeout", 0, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Timeout)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dgc.yaml"),
		[]byte("url: [unclosed\n"), 0o600))

	_, err := Load("", nil)
	assert.Error(t, err)
}
