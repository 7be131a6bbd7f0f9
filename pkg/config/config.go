package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "todochat"
	configFile = "config.yaml"

	// DefaultBaseURL is the Todoist REST endpoint used when none is configured.
	DefaultBaseURL = "https://api.todoist.com/rest/v2"
)

// Setting keys.
const (
	KeyAPIToken = "todoist-api-token"
	KeyBaseURL  = "base-url"
	KeyTimeout  = "timeout"
)

// EnvAPIToken overrides the stored API token when set.
const EnvAPIToken = "TODOIST_API_TOKEN"

// Settings is the key/value access the rest of the program needs.
type Settings interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Store is a YAML file backed Settings implementation.
type Store struct {
	Path   string
	values map[string]string
	mu     sync.RWMutex
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

// Open returns a Store for path, loading it if the file exists. An empty
// path selects the default location.
func Open(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	s := &Store{
		Path:   path,
		values: make(map[string]string),
	}

	if _, err := os.Stat(path); err == nil {
		if err := s.Load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Load() error {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

func (s *Store) Save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.values)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Get returns the value stored for key, or "" if it is unset. The API
// token can be overridden by the TODOIST_API_TOKEN environment variable.
func (s *Store) Get(key string) (string, error) {
	if key == KeyAPIToken {
		if token, ok := os.LookupEnv(EnvAPIToken); ok && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), nil
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// Set stores value under key and writes the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	if value == "" {
		delete(s.values, key)
	} else {
		s.values[key] = value
	}
	s.mu.Unlock()
	return s.Save()
}

// BaseURL returns the configured API endpoint or DefaultBaseURL.
func (s *Store) BaseURL() string {
	v, _ := s.Get(KeyBaseURL)
	if v == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(v, "/")
}

// Timeout returns the configured HTTP client timeout. Zero means none.
func (s *Store) Timeout() (time.Duration, error) {
	v, _ := s.Get(KeyTimeout)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyTimeout, v, err)
	}
	return d, nil
}
