package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
)

// Environment variables overlaying the settings.
const (
	EnvProjectID   = "FIREBASE_PROJECT_ID"
	EnvProjectKey  = "FIREBASE_PROJECT_KEY"
	EnvClientEmail = "FIREBASE_CLIENT_EMAIL"
	EnvDatabaseURL = "FIREBASE_DATABASE_URL"
	EnvDatabase    = "TREEBASE_DATABASE"
	EnvBackend     = "TREEBASE_BACKEND"
	EnvLocation    = "TREEBASE_LOCATION"
	EnvFormat      = "TREEBASE_FORMAT"
)

// Parse parses settings from YAML or JSON data.
func Parse(data []byte) (*Settings, error) {
	s := &Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: failed to parse settings: %w", err)
	}
	return s, nil
}

// LoadFile loads settings from a YAML or JSON file.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Load loads settings from the given file, if any, and overlays them with the
// environment. The result is validated.
func Load(path string) (*Settings, error) {
	s := &Settings{}
	if path != "" {
		var err error
		s, err = LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	s.ApplyEnv(os.LookupEnv)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyEnv overrides settings with the environment variables found by lookup.
func (s *Settings) ApplyEnv(lookup func(key string) (string, bool)) {
	for key, target := range map[string]*string{
		EnvProjectID:   &s.ServiceAccount.ProjectID,
		EnvProjectKey:  &s.ServiceAccount.PrivateKey,
		EnvClientEmail: &s.ServiceAccount.ClientEmail,
		EnvDatabaseURL: &s.DatabaseURL,
		EnvDatabase:    &s.Database,
		EnvBackend:     &s.Backend,
		EnvLocation:    &s.Location,
		EnvFormat:      &s.Format,
	} {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}
}

// Marshal returns the YAML form of the settings.
func (s *Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
