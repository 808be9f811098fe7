// Package router wires the HTTP surface of the gateway
package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/cognitive-core/agent-gateway/docs"
	"github.com/cognitive-core/agent-gateway/internal/handlers"
	"github.com/cognitive-core/agent-gateway/internal/monitoring"
)

// SetupRoutes registers all HTTP routes on a new ServeMux
func SetupRoutes(apiHandlers *handlers.APIHandlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", apiHandlers.HealthHandler)
	mux.HandleFunc("/v1/chat/completions", apiHandlers.ChatCompletionsHandler)
	mux.HandleFunc("/v1/models", apiHandlers.ModelsHandler)
	mux.HandleFunc("/v1/agents", apiHandlers.AgentsHandler)

	mux.HandleFunc("/metrics", monitoring.MetricsHandler)
	monitoring.SetupPprofRoutes(mux)

	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}
