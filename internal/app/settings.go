package service

import "strings"

// Settings are the CRM coordinates of the jobs object. Build them with
// NewSettings so a Settings value is always complete.
type Settings struct {
	APIKey     string
	LocationID string
	ObjectName string
}

// NewSettings validates that every value is present. On failure the error is
// a *ConfigError.
func NewSettings(apiKey, locationID, objectName string) (Settings, error) {
	s := Settings{
		APIKey:     strings.TrimSpace(apiKey),
		LocationID: strings.TrimSpace(locationID),
		ObjectName: strings.TrimSpace(objectName),
	}
	if s.APIKey == "" || s.LocationID == "" || s.ObjectName == "" {
		return Settings{}, &ConfigError{
			HasAPIKey:         s.APIKey != "",
			HasLocationID:     s.LocationID != "",
			HasJobsObjectName: s.ObjectName != "",
		}
	}
	return s, nil
}
