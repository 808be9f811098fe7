package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/app"
	"github.com/cognitive-core/agent-gateway/internal/config"
	"github.com/cognitive-core/agent-gateway/internal/logger"
	"github.com/cognitive-core/agent-gateway/internal/middleware"
	"github.com/cognitive-core/agent-gateway/internal/monitoring"
)

// @title           Agent Gateway
// @version         1.0
// @description     A delegation gateway that routes chat completions to downstream agents over the A2A protocol with an OpenAI-compatible API.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8082
// @BasePath  /

func main() {
	config.LoadEnvFile()

	if err := logger.InitFromEnv(); err != nil {
		// Can't use logger here as it failed to initialize
		_, _ = os.Stderr.WriteString("FATAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx := context.Background()

	application, err := app.NewApp(ctx)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	handler := middleware.CORSMiddleware(
		middleware.RequestCorrelationMiddleware(
			monitoring.MetricsMiddleware(
				application.SetupRoutes(),
			),
		),
	)

	serverConfig := config.ServerConfigFromEnv()
	addr := fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  serverConfig.ReadTimeout,
		WriteTimeout: serverConfig.WriteTimeout,
		IdleTimeout:  serverConfig.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
