package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/database"
	apierrors "github.com/cognitive-core/agent-gateway/internal/errors"
	"github.com/cognitive-core/agent-gateway/internal/logger"
	"github.com/cognitive-core/agent-gateway/internal/orchestrator"
	"github.com/cognitive-core/agent-gateway/internal/registry"
	"github.com/cognitive-core/agent-gateway/internal/session"
	"github.com/cognitive-core/agent-gateway/internal/types"
	"github.com/cognitive-core/agent-gateway/internal/utils"
	"github.com/cognitive-core/agent-gateway/internal/validator"
)

// APIHandlers contains the dependencies for HTTP handlers
type APIHandlers struct {
	registry     *registry.Registry
	orchestrator *orchestrator.Orchestrator
	sessions     session.Store
	db           *database.Connection
}

// NewAPIHandlers creates handlers with their dependencies. db may be nil
// when the audit database is disabled.
func NewAPIHandlers(reg *registry.Registry, orch *orchestrator.Orchestrator, sessions session.Store, db *database.Connection) *APIHandlers {
	return &APIHandlers{
		registry:     reg,
		orchestrator: orch,
		sessions:     sessions,
		db:           db,
	}
}

// HealthHandler returns service health status
// @Summary Health check
// @Description Returns the health of the gateway and its backing services
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Failure 503 {object} map[string]interface{} "Service is degraded"
// @Router /health [get]
func (h *APIHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"gateway": "healthy",
	}
	healthy := true

	if err := h.sessions.Ping(r.Context()); err != nil {
		services["sessions"] = "unhealthy: " + err.Error()
		healthy = false
	} else {
		services["sessions"] = "healthy"
	}

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			services["database"] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "disabled"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"services":  services,
		"agents":    h.registry.Len(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// ChatCompletionsHandler delegates a chat completion to one downstream agent
// @Summary Chat completions
// @Description Routes the request to exactly one agent and returns its response in an OpenAI-compatible envelope
// @Tags chat
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Session identifier; omitted means a new session"
// @Param request body types.ChatCompletionRequest true "Chat completion request"
// @Success 200 {object} types.ChatCompletionResponse "Completion from the delegated agent"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 502 {object} types.ErrorResponse "Agent failure or unregistered agent"
// @Failure 504 {object} types.ErrorResponse "Agent timed out"
// @Router /v1/chat/completions [post]
func (h *APIHandlers) ChatCompletionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apierrors.HandleError(w, apierrors.NewValidationError("Method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		apierrors.HandleError(w, apierrors.NewValidationError("Failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req, err := validator.ValidateRequest(body)
	if err != nil {
		apierrors.HandleError(w, apierrors.NewValidationError(err.Error()), http.StatusBadRequest)
		return
	}

	sessionID := r.Header.Get(utils.HeaderSessionID)

	resp, err := h.orchestrator.Complete(r.Context(), req, sessionID)
	if err != nil {
		h.writeDelegationError(w, r, err)
		return
	}

	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	w.Header().Set(utils.HeaderSessionID, resp.Usage.SessionID)
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		logger.ErrorCtx(r.Context(), "Failed to encode chat completion response", "error", encodeErr)
	}
}

// writeDelegationError maps orchestrator errors to HTTP statuses:
// unregistered agent is a configuration problem (502), a timed-out agent is
// 504 and every other agent failure is 502.
func (h *APIHandlers) writeDelegationError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *registry.NotFoundError
	if errors.As(err, &notFound) {
		logger.ErrorCtx(r.Context(), "Routed agent is not registered", "agent", notFound.Agent)
		apierrors.HandleError(w, apierrors.NewConfigurationError(notFound.Error()), http.StatusBadGateway)
		return
	}

	var delegationErr *orchestrator.DelegationError
	if errors.As(err, &delegationErr) {
		logger.ErrorCtx(r.Context(), "Delegation failed",
			"agent", delegationErr.Agent,
			"status_code", delegationErr.StatusCode,
			"timeout", delegationErr.Timeout,
			"error", err)

		if delegationErr.Timeout {
			apierrors.HandleError(w, apierrors.NewTimeoutError(delegationErr.Error()), http.StatusGatewayTimeout)
			return
		}
		apierrors.HandleError(w, apierrors.NewDelegationError(delegationErr.Error()), http.StatusBadGateway)
		return
	}

	logger.ErrorCtx(r.Context(), "Unexpected delegation error", "error", err)
	apierrors.HandleError(w, apierrors.NewInternalError("Internal server error"), http.StatusInternalServerError)
}

// ModelsHandler lists the models advertised by registered agents
// @Summary List models
// @Description Lists every model advertised by registered agents in OpenAI list format
// @Tags models
// @Produce json
// @Success 200 {object} types.ModelsResponse "Available models"
// @Router /v1/models [get]
func (h *APIHandlers) ModelsHandler(w http.ResponseWriter, r *http.Request) {
	models := h.registry.Models()

	data := make([]types.Model, 0, len(models))
	for id, agent := range models {
		data = append(data, types.Model{
			ID:      id,
			Object:  "model",
			Created: time.Now().Unix(),
			OwnedBy: agent,
		})
	}
	sort.Slice(data, func(i, j int) bool { return data[i].ID < data[j].ID })

	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	if err := json.NewEncoder(w).Encode(types.ModelsResponse{Object: "list", Data: data}); err != nil {
		logger.ErrorCtx(r.Context(), "Failed to encode models response", "error", err)
	}
}

// AgentsHandler lists registered agent cards
// @Summary List agents
// @Description Lists the agent cards currently registered with the gateway
// @Tags agents
// @Produce json
// @Success 200 {array} registry.Card "Registered agents"
// @Router /v1/agents [get]
func (h *APIHandlers) AgentsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(utils.HeaderContentType, utils.ContentTypeJSON)
	if err := json.NewEncoder(w).Encode(h.registry.List()); err != nil {
		logger.ErrorCtx(r.Context(), "Failed to encode agents response", "error", err)
	}
}
