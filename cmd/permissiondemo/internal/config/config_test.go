package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/permissiondemo/pkg/platform"
	"github.com/go-drift/permissiondemo/pkg/rationale"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module github.com/acme/Perm-Demo\n\ngo 1.24\n")

	r, err := Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, "Perm-Demo", r.AppName)
	assert.Equal(t, "com.example.permdemo", r.AppID)
	assert.Equal(t, rationale.PermissionCamera, r.Single)
	assert.Len(t, r.Batch, 5)
	assert.Equal(t, platform.DefaultPermissionTimeout, r.RequestTimeout)
	assert.Equal(t, "info", r.LogLevel)
}

func TestResolveWithoutGoMod(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	require.NoError(t, os.Mkdir(dir, 0o755))

	r, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", r.AppName)
	assert.Equal(t, "com.example.demo", r.AppID)
}

func TestResolveFromFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
app:
  name: Permissions
  id: com.markus.permissionhandling
permissions:
  single: RECORD_AUDIO
  batch:
    - CAMERA
    - android.permission.READ_CONTACTS
  request_timeout: 5s
log:
  level: debug
  verbose: true
`)

	r, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "Permissions", r.AppName)
	assert.Equal(t, "com.markus.permissionhandling", r.AppID)
	assert.Equal(t, rationale.PermissionRecordAudio, r.Single)
	assert.Equal(t, []rationale.PermissionID{rationale.PermissionCamera, rationale.PermissionReadContacts}, r.Batch)
	assert.Equal(t, 5*time.Second, r.RequestTimeout)
	assert.Equal(t, "debug", r.LogLevel)
	assert.True(t, r.Verbose)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "app: [", "failed to parse"},
		{"unknown permission", "permissions:\n  single: BODY_SENSORS\n", "unrecognized permission"},
		{"unknown batch permission", "permissions:\n  batch: [CAMERA, SMS]\n", "unrecognized permission"},
		{"bad timeout", "permissions:\n  request_timeout: soon\n", "request_timeout"},
		{"negative timeout", "permissions:\n  request_timeout: -1s\n", "request_timeout"},
		{"bad app id", "app:\n  id: nodots\n", "at least one '.'"},
		{"digit segment", "app:\n  id: com.1app\n", "cannot start with a digit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.content)
			_, err := Resolve(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSanitizeSegment(t *testing.T) {
	tests := map[string]string{
		"Perm-Demo": "permdemo",
		"9lives":    "a9lives",
		"---":       "app",
		"":          "app",
	}
	for in, want := range tests {
		if got := sanitizeSegment(in); got != want {
			t.Errorf("sanitizeSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
