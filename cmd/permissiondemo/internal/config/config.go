// Package config loads the optional permissiondemo.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/permissiondemo/pkg/platform"
	"github.com/go-drift/permissiondemo/pkg/rationale"
)

// FileName is the name of the project configuration file.
const FileName = "permissiondemo.yaml"

// Config represents the optional permissiondemo.yaml configuration.
type Config struct {
	App         AppConfig         `yaml:"app"`
	Permissions PermissionsConfig `yaml:"permissions"`
	Log         LogConfig         `yaml:"log"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
	ID   string `yaml:"id,omitempty"`
}

// PermissionsConfig selects what the two request buttons ask for.
type PermissionsConfig struct {
	// Single is requested by the "request one permission" button.
	Single string `yaml:"single,omitempty"`
	// Batch is requested by the "request multiple permissions" button.
	Batch []string `yaml:"batch,omitempty"`
	// RequestTimeout bounds each request, e.g. "30s".
	RequestTimeout string `yaml:"request_timeout,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level   string `yaml:"level,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root           string
	AppName        string
	AppID          string
	Single         rationale.PermissionID
	Batch          []rationale.PermissionID
	RequestTimeout time.Duration
	LogLevel       string
	Verbose        bool
}

// LoadOptional reads permissiondemo.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve loads permissiondemo.yaml (if present) from dir and fills defaults.
// The default app name comes from the go.mod module path when dir holds one.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(dir)
	}
	appID := strings.TrimSpace(cfg.App.ID)
	if appID == "" {
		appID = "com.example." + sanitizeSegment(appName)
	}
	if err := validateAppID(appID); err != nil {
		return nil, err
	}

	single := rationale.PermissionCamera
	if s := strings.TrimSpace(cfg.Permissions.Single); s != "" {
		if single, err = normalizePermission(s); err != nil {
			return nil, err
		}
	}

	var batch []rationale.PermissionID
	for _, s := range cfg.Permissions.Batch {
		id, err := normalizePermission(s)
		if err != nil {
			return nil, err
		}
		batch = append(batch, id)
	}
	if len(batch) == 0 {
		for _, k := range rationale.Kinds() {
			batch = append(batch, k.Permission())
		}
	}

	timeout := platform.DefaultPermissionTimeout
	if s := strings.TrimSpace(cfg.Permissions.RequestTimeout); s != "" {
		timeout, err = time.ParseDuration(s)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("permissions.request_timeout must be a positive duration (got %q)", s)
		}
	}

	level := strings.TrimSpace(cfg.Log.Level)
	if level == "" {
		level = "info"
	}

	return &Resolved{
		Root:           dir,
		AppName:        appName,
		AppID:          appID,
		Single:         single,
		Batch:          batch,
		RequestTimeout: timeout,
		LogLevel:       level,
		Verbose:        cfg.Log.Verbose,
	}, nil
}

// normalizePermission maps a short or manifest name to the manifest identifier
// of a supported permission.
func normalizePermission(s string) (rationale.PermissionID, error) {
	kind, ok := rationale.KindOf(rationale.PermissionID(strings.TrimSpace(s)))
	if !ok {
		return "", fmt.Errorf("%w: %q", rationale.ErrUnrecognizedPermission, s)
	}
	return kind.Permission(), nil
}

func defaultAppName(dir string) string {
	base := filepath.Base(dir)
	if data, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
		if modName, _, ok := module.SplitPathVersion(modfile.ModulePath(data)); ok && modName != "" {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "permissiondemo"
	}
	return base
}

func sanitizeSegment(segment string) string {
	var out []rune
	for _, r := range strings.TrimSpace(segment) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	if len(out) == 0 {
		return "app"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = append([]rune{'a'}, out...)
	}
	return string(out)
}

func validateAppID(appID string) error {
	if !strings.Contains(appID, ".") {
		return fmt.Errorf("app.id must contain at least one '.' (got %q)", appID)
	}
	for _, segment := range strings.Split(appID, ".") {
		if segment == "" {
			return fmt.Errorf("app.id contains an empty segment (%q)", appID)
		}
		if segment[0] >= '0' && segment[0] <= '9' {
			return fmt.Errorf("app.id segments cannot start with a digit (%q)", appID)
		}
		if segment[0] == '_' {
			return fmt.Errorf("app.id segments cannot start with '_' (%q)", appID)
		}
		for _, r := range segment {
			if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
				return fmt.Errorf("app.id contains invalid character %q in %q", r, appID)
			}
		}
	}
	return nil
}
