package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfigName is the config file kept in the data dir.
const UserConfigName = "config.yml"

// EnsureUserConfig returns the path of the data dir's config file. A missing
// file is seeded from the template at templatePath, or from Default() when
// there is no template. An existing file is never touched.
func EnsureUserConfig(dataDir, templatePath string) (string, error) {
	userPath := filepath.Join(dataDir, UserConfigName)

	switch _, err := os.Stat(userPath); {
	case err == nil:
		return userPath, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", err
	}

	tmpl, err := readTemplate(templatePath)
	if err != nil {
		return "", err
	}
	if tmpl == nil {
		cfg := Default()
		cfg.App.DataDir = dataDir
		return userPath, SaveAtomic(userPath, cfg)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	return userPath, os.WriteFile(userPath, tmpl, 0o644)
}

// readTemplate returns nil when path is empty or missing. A template that
// does not decode as a Config is an error.
func readTemplate(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var probe Config
	if err := yaml.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("config template %s: %w", path, err)
	}
	return b, nil
}
