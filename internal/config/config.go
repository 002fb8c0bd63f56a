// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds the explicit configuration value injected into the
// fetch pipeline. The credential and the course URL come from the process
// environment first, with a fallback to a directory of plain-text secret
// files: the filename is the key name and the file contents (trimmed) are
// the value.
//
// Supported key files: canvas-api-key, course-url.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variable names for the two required inputs.
const (
	EnvAPIKey    = "CANVAS_API_KEY"
	EnvCourseURL = "CANVAS_COURSE_URL"
)

// Secret file names recognized in the secrets directory.
const (
	apiKeyFile    = "canvas-api-key"
	courseURLFile = "course-url"
)

// Config holds the identifying inputs resolved at startup. Core packages
// receive this value and never read the process environment themselves.
type Config struct {
	// APIKey is the Canvas API access token.
	APIKey string

	// CourseURL is the full course URL
	// (e.g. "https://canvas.example.com/courses/12345").
	CourseURL string
}

// Load resolves the configuration from getenv, falling back to secretsDir
// for values the environment does not provide. A missing secrets directory
// is not an error.
func Load(getenv func(string) string, secretsDir string) (Config, error) {
	secrets, err := readSecretsDir(secretsDir)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIKey:    getenv(EnvAPIKey),
		CourseURL: getenv(EnvCourseURL),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = secrets[apiKeyFile]
	}
	if cfg.CourseURL == "" {
		cfg.CourseURL = secrets[courseURLFile]
	}
	return cfg, nil
}

// Validate reports a configuration error when either required input is
// missing. It runs before any network activity.
func (c Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if c.CourseURL == "" {
		missing = append(missing, EnvCourseURL)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s must be set (environment variable or secrets file)", strings.Join(missing, " and "))
	}
	return nil
}

// readSecretsDir reads all files in dir and returns a map of filename to
// trimmed contents. A missing directory returns an empty map. Unreadable
// files produce a warning on stderr but do not abort.
func readSecretsDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", entry.Name(), err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[entry.Name()] = value
		}
	}
	return secrets, nil
}
