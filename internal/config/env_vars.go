package config

import (
	"os"
	"strings"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	frontendURLVar = "FRONTEND_URL"
	databaseURLVar = "DATABASE_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Mercado Livre Integration")
}

// GetFrontendURL returns the base URL of the hosting platform's frontend.
// Both the OAuth redirect URI and the post-callback settings redirects are
// built from it.
func (EnvVars) GetFrontendURL() string {
	return GetEnv(frontendURLVar, "http://localhost:3000")
}

func (EnvVars) GetDatabaseURL() string {
	return GetEnv(databaseURLVar, "")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
