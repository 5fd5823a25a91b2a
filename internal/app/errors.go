package service

import (
	"fmt"
	"strings"

	"github.com/okian/jobfeed/internal/config"
)

// ConfigError reports which CRM settings are missing. It wraps
// config.ErrInvalidConfig.
type ConfigError struct {
	HasAPIKey         bool
	HasLocationID     bool
	HasJobsObjectName bool
}

func (e *ConfigError) Error() string {
	var missing []string
	if !e.HasAPIKey {
		missing = append(missing, "api_key")
	}
	if !e.HasLocationID {
		missing = append(missing, "location_id")
	}
	if !e.HasJobsObjectName {
		missing = append(missing, "jobs_object_name")
	}
	return fmt.Sprintf("crm not configured: missing %s", strings.Join(missing, ", "))
}

func (e *ConfigError) Unwrap() error {
	return config.ErrInvalidConfig
}
