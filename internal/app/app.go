// Package app assembles the gateway: configuration, registry, routing,
// session store, audit database and the orchestrator. All dependencies are
// constructed here and injected explicitly.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/config"
	"github.com/cognitive-core/agent-gateway/internal/database"
	"github.com/cognitive-core/agent-gateway/internal/handlers"
	"github.com/cognitive-core/agent-gateway/internal/httpclient"
	"github.com/cognitive-core/agent-gateway/internal/logger"
	"github.com/cognitive-core/agent-gateway/internal/orchestrator"
	"github.com/cognitive-core/agent-gateway/internal/registry"
	"github.com/cognitive-core/agent-gateway/internal/router"
	"github.com/cognitive-core/agent-gateway/internal/routing"
	"github.com/cognitive-core/agent-gateway/internal/session"
	"github.com/cognitive-core/agent-gateway/internal/utils"
	"github.com/redis/go-redis/v9"
)

// App centralizes the application's dependencies and configuration
type App struct {
	Registry     *registry.Registry
	Classifier   routing.Classifier
	Sessions     session.Store
	Orchestrator *orchestrator.Orchestrator
	Handlers     *handlers.APIHandlers
	DB           *database.Connection
}

// NewApp creates a new App instance with all dependencies wired
func NewApp(ctx context.Context) (*App, error) {
	agentsPath := utils.GetEnvString("AGENTS_CONFIG", "agents.json")
	routingPath := utils.GetEnvString("ROUTING_CONFIG", "routing.json")

	agents, err := config.LoadAgents(agentsPath)
	if err != nil {
		return nil, err
	}

	routingPolicy, err := config.LoadRouting(routingPath)
	if err != nil {
		return nil, err
	}

	if validationErr := config.ValidateConfiguration(agents, routingPolicy); validationErr != nil {
		return nil, validationErr
	}

	logger.Info("Configuration loaded",
		"agents", len(agents),
		"keyword_rules", len(routingPolicy.Keywords),
		"default_agent", routingPolicy.DefaultAgent,
	)

	reg := registry.NewFromConfig(agents)
	classifier := routing.NewKeywordClassifier(routingPolicy)

	sessions, err := newSessionStore(ctx, config.SessionConfigFromEnv())
	if err != nil {
		return nil, err
	}

	// The audit database is optional; the gateway delegates without it
	var db *database.Connection
	var audit *database.DelegationRepository
	dbConfig := database.ConfigFromEnv()
	if dbConfig.Enabled() {
		db, err = database.NewConnection(ctx, dbConfig)
		if err != nil {
			logger.Warn("Audit database unavailable, continuing without it", "error", err)
			db = nil
		} else {
			audit = database.NewDelegationRepository(db)
		}
	}

	delegation := config.DelegationConfigFromEnv()
	clientFactory := httpclient.NewFactory(httpclient.Options{Timeout: delegation.Timeout})

	orch := orchestrator.New(orchestrator.Options{
		Registry:   reg,
		Classifier: classifier,
		Sessions:   sessions,
		Client:     clientFactory.CreateDefaultClient(),
		Audit:      audit,
		Timeout:    delegation.Timeout,
	})

	return &App{
		Registry:     reg,
		Classifier:   classifier,
		Sessions:     sessions,
		Orchestrator: orch,
		Handlers:     handlers.NewAPIHandlers(reg, orch, sessions, db),
		DB:           db,
	}, nil
}

// SetupRoutes returns the HTTP handler with all routes configured
func (a *App) SetupRoutes() *http.ServeMux {
	return router.SetupRoutes(a.Handlers)
}

// Close releases the application's resources
func (a *App) Close() {
	if err := a.Sessions.Close(); err != nil {
		logger.Warn("Failed to close session store", "error", err)
	}
	if a.DB != nil {
		if err := a.DB.Disconnect(); err != nil {
			logger.Warn("Failed to disconnect audit database", "error", err)
		}
	}
}

// newSessionStore builds the configured session store backend
func newSessionStore(ctx context.Context, cfg config.SessionConfig) (session.Store, error) {
	switch cfg.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store := session.NewRedisStore(rdb, cfg.TTL)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			return nil, err
		}

		logger.Info("Session store initialized", "backend", "redis", "addr", cfg.RedisAddr)
		return store, nil

	default:
		logger.Info("Session store initialized", "backend", "memory", "ttl", cfg.TTL.String())
		return session.NewMemoryStore(cfg.TTL), nil
	}
}
