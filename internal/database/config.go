package database

import (
	"strings"

	"github.com/cognitive-core/agent-gateway/internal/utils"
)

// Config holds MongoDB connection configuration
type Config struct {
	// MongoDB connection URI (includes all connection details including auth)
	URI string
	// The current environment (local, development, production, or test)
	Environment string
	// Database name based on environment and service name
	DatabaseName string
	// Application name for MongoDB connection
	AppName string
}

// ConfigFromEnv builds the MongoDB configuration from environment variables.
// An empty URI means the audit log is disabled; the gateway runs without it.
func ConfigFromEnv() *Config {
	environment := utils.GetEnvString("ENVIRONMENT", "development")

	dbName := utils.GetEnvString("MONGODB_DATABASE", "")
	if dbName == "" {
		dbName = "agent-gateway-" + environment
	}

	return &Config{
		URI:          utils.GetEnvString("MONGODB_URI", ""),
		Environment:  environment,
		DatabaseName: dbName,
		AppName:      utils.GetEnvString("MONGODB_APP_NAME", "agent-gateway"),
	}
}

// Enabled reports whether an audit database is configured
func (c *Config) Enabled() bool {
	return c.URI != ""
}

// MaskedURI returns the URI with credentials masked for logging
func (c *Config) MaskedURI() string {
	uri := c.URI
	at := strings.LastIndex(uri, "@")
	scheme := strings.Index(uri, "://")
	if at > 0 && scheme > 0 && at > scheme {
		uri = uri[:scheme+3] + "***:***" + uri[at:]
	}
	return uri
}
