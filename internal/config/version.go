package config

import (
	"os"
	"strings"
)

// GetVersion returns the service version, preferring the value injected by
// CI/CD over the VERSION file in the repository root.
func GetVersion() string {
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	if content, err := os.ReadFile("VERSION"); err == nil {
		if v := strings.TrimSpace(string(content)); v != "" {
			return v
		}
	}

	return "0.1.0"
}
