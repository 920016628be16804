package config

import (
	"github.com/safing/treebase/formats/dsd"
)

// Validate checks the settings for errors that can be found without
// connecting. A missing database name is reported by the connector itself.
func (s *Settings) Validate() error {
	switch s.BackendName() {
	case BackendFirebase:
		if s.DatabaseURL == "" {
			return newInvalidValueError("databaseURL", s.DatabaseURL, "required by the firebase backend")
		}
		if s.CredentialsFile == "" && s.ServiceAccount.IsSet() && !s.ServiceAccount.Complete() {
			return newInvalidValueError("serviceAccount", s.ServiceAccount.ClientEmail, "privateKey and clientEmail are required")
		}
	case BackendMemory:
	case BackendBBolt, BackendBadger:
		if s.Location == "" {
			return newInvalidValueError("location", s.Location, "required by local storage backends")
		}
	default:
		return newInvalidValueError("backend", s.Backend, "unknown backend")
	}

	if s.Format != "" {
		if _, err := dsd.ParseFormat(s.Format); err != nil {
			return newInvalidValueError("format", s.Format, err.Error())
		}
	}

	return nil
}
