package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/permissiondemo/pkg/errors"
	"github.com/go-drift/permissiondemo/pkg/rationale"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { errors.SetHandler(nil) })
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--dir", "/does/not/matter")
	require.NoError(t, err)
	assert.Contains(t, out, "permissiondemo version "+Version)
}

func TestRunDefaultScenario(t *testing.T) {
	out, err := execute(t, "run", "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "step 1: request_one")
	assert.Contains(t, out, "settings opened 1 times")
}

func TestRunScenarioFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: audio
answers:
  RECORD_AUDIO: [deny]
steps:
  - action: request_one
    expect: [RECORD_AUDIO]
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "permissiondemo.yaml"), []byte(`
permissions:
  single: RECORD_AUDIO
`), 0o644))

	out, err := execute(t, "run", "--dir", dir, "--scenario", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 steps, 1 prompts")
}

func TestRunMissingScenario(t *testing.T) {
	_, err := execute(t, "run", "--dir", t.TempDir(), "-s", "nope.yaml")
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	out, err := execute(t, "catalog", "--dir", t.TempDir(), "CAMERA", "--declined")
	require.NoError(t, err)
	assert.Contains(t, out, "camera (android.permission.CAMERA)")
	assert.Contains(t, out, "[ OK ]")
	assert.Contains(t, out, "[ Grant permission ]")

	_, err = execute(t, "catalog", "--dir", t.TempDir(), "SMS")
	assert.ErrorIs(t, err, rationale.ErrUnrecognizedPermission)
}

func TestConfigFlagsAndEnv(t *testing.T) {
	t.Setenv("PERMISSIONDEMO_LOG_LEVEL", "debug")
	out, err := execute(t, "config", "--dir", t.TempDir())
	require.NoError(t, err)

	var got struct {
		Log struct {
			Level string `yaml:"level"`
		} `yaml:"log"`
		Permissions struct {
			Single string   `yaml:"single"`
			Batch  []string `yaml:"batch"`
		} `yaml:"permissions"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "debug", got.Log.Level)
	assert.Equal(t, string(rationale.PermissionCamera), got.Permissions.Single)
	assert.Len(t, got.Permissions.Batch, 5)

	out, err = execute(t, "config", "--dir", t.TempDir(), "--log-level", "warn")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "warning", got.Log.Level)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "config", "--dir", t.TempDir(), "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}
