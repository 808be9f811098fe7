package config

import "time"

// Agent describes a downstream agent the gateway can delegate to.
type Agent struct {
	Name        string   `json:"name" validate:"required,min=1"`
	Description string   `json:"description"`
	Endpoint    string   `json:"endpoint" validate:"required,url"`
	Models      []string `json:"models"`
	// SupportsImages marks the agent as capable of handling image-capable
	// model requests. Only the general-purpose agent carries this in the
	// current deployment.
	SupportsImages bool `json:"supports_images"`
}

// KeywordRule maps a domain keyword found in user messages to a specialist
// agent name. The referenced agent may not be registered yet; routing still
// emits the name and resolution failure is handled downstream.
type KeywordRule struct {
	Keyword string `json:"keyword" validate:"required,min=1"`
	Agent   string `json:"agent" validate:"required,min=1"`
}

// Routing holds the agent-selection policy configuration. Rule order in
// Keywords is significant: the first matching rule wins.
type Routing struct {
	// ImageModelMarkers are substrings that mark a model identifier as
	// image-capable (e.g. "image", "vision").
	ImageModelMarkers []string      `json:"image_model_markers"`
	Keywords          []KeywordRule `json:"keywords" validate:"dive"`
	DefaultAgent      string        `json:"default_agent" validate:"required,min=1"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SessionConfig selects and tunes the session store backend
type SessionConfig struct {
	Backend   string // "memory" or "redis"
	RedisAddr string
	TTL       time.Duration
}

// DelegationConfig tunes the downstream agent call
type DelegationConfig struct {
	Timeout time.Duration
}
