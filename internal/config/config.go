package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/utils"
)

// LoadAgents reads the agent definitions from a JSON file
func LoadAgents(filePath string) ([]Agent, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var agents []Agent
	err = json.Unmarshal(data, &agents)
	return agents, err
}

// LoadRouting reads the routing policy from a JSON file
func LoadRouting(filePath string) (*Routing, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var routing Routing
	if err := json.Unmarshal(data, &routing); err != nil {
		return nil, err
	}
	return &routing, nil
}

// ServerConfigFromEnv builds the HTTP server configuration from environment variables
func ServerConfigFromEnv() ServerConfig {
	return ServerConfig{
		Host:         utils.GetEnvString("SERVER_HOST", "0.0.0.0"),
		Port:         utils.GetEnvPort("SERVER_PORT", 8082),
		ReadTimeout: utils.GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		// Must exceed the delegation timeout or slow agent responses get cut off
		WriteTimeout: utils.GetEnvDuration("SERVER_WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:  utils.GetEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
	}
}

// SessionConfigFromEnv builds the session store configuration from environment variables
func SessionConfigFromEnv() SessionConfig {
	return SessionConfig{
		Backend:   utils.GetEnvString("SESSION_BACKEND", "memory"),
		RedisAddr: utils.GetEnvString("REDIS_ADDR", "localhost:6379"),
		TTL:       utils.GetEnvDuration("SESSION_TTL", 30*time.Minute),
	}
}

// DelegationConfigFromEnv builds the delegation configuration from environment variables
func DelegationConfigFromEnv() DelegationConfig {
	return DelegationConfig{
		Timeout: utils.GetEnvDuration("DELEGATION_TIMEOUT", 60*time.Second),
	}
}
