// Package config holds the settings of a treebase data source.
package config

import (
	"encoding/json"
	"strings"
)

// Known tree backends.
const (
	BackendFirebase = "firebase"
	BackendMemory   = "memory"
	BackendBBolt    = "bbolt"
	BackendBadger   = "badger"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = BackendFirebase

// Settings configures a data source.
type Settings struct {
	// ServiceAccount holds the credentials of a service account.
	ServiceAccount ServiceAccount `json:"serviceAccount,omitempty"`
	// CredentialsFile is the path of a service account key file. It takes
	// precedence over ServiceAccount.
	CredentialsFile string `json:"credentialsFile,omitempty"`
	// DatabaseURL is the endpoint of the remote database.
	DatabaseURL string `json:"databaseURL,omitempty"`
	// Database is the name of the subtree all records are stored in.
	Database string `json:"database,omitempty"`

	// Backend selects the tree implementation.
	Backend string `json:"backend,omitempty"`
	// Location is the storage directory of the local bbolt and badger backends.
	Location string `json:"location,omitempty"`
	// Format is the serialization format local backends store values in.
	Format string `json:"format,omitempty"`
}

// ServiceAccount holds the parts of a service account key the client needs.
type ServiceAccount struct {
	ProjectID   string `json:"projectId,omitempty"`
	PrivateKey  string `json:"privateKey,omitempty"`
	ClientEmail string `json:"clientEmail,omitempty"`
}

// IsSet returns whether any credential is set.
func (sa ServiceAccount) IsSet() bool {
	return sa.ProjectID != "" || sa.PrivateKey != "" || sa.ClientEmail != ""
}

// Complete returns whether all credentials needed for authentication are set.
func (sa ServiceAccount) Complete() bool {
	return sa.PrivateKey != "" && sa.ClientEmail != ""
}

// KeyFileJSON returns the service account in the format of a key file, as
// issued by the cloud console.
func (sa ServiceAccount) KeyFileJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   sa.ProjectID,
		"private_key":  normalizePrivateKey(sa.PrivateKey),
		"client_email": sa.ClientEmail,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

// Keys passed through environment variables usually carry escaped newlines.
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// BackendName returns the configured backend or the default.
func (s *Settings) BackendName() string {
	if s.Backend == "" {
		return DefaultBackend
	}
	return s.Backend
}

// Clone returns a copy of the settings.
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}
