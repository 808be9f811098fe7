package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognitive-core/agent-gateway/internal/config"
	"github.com/cognitive-core/agent-gateway/internal/orchestrator"
	"github.com/cognitive-core/agent-gateway/internal/registry"
	"github.com/cognitive-core/agent-gateway/internal/routing"
	"github.com/cognitive-core/agent-gateway/internal/session"
	"github.com/cognitive-core/agent-gateway/internal/types"
	"github.com/cognitive-core/agent-gateway/internal/utils"
)

func stubAgentServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func agentCompletion(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := types.ChatCompletionResponse{
			ID:      "chatcmpl-from-agent",
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   "gemini-fast",
			Choices: []types.Choice{
				{Message: types.Message{Role: types.RoleAssistant, Content: content}, FinishReason: "stop"},
			},
			Usage: types.Usage{PromptTokens: 5, CompletionTokens: 7, TotalTokens: 12},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// newTestHandlers wires handlers against stub agents, no database
func newTestHandlers(t *testing.T, agents []config.Agent, keywords []config.KeywordRule, timeout time.Duration) *APIHandlers {
	t.Helper()

	routingPolicy := &config.Routing{
		ImageModelMarkers: []string{"image", "vision"},
		Keywords:          keywords,
		DefaultAgent:      "general-agent",
	}

	reg := registry.NewFromConfig(agents)
	sessions := session.NewMemoryStore(time.Minute)
	t.Cleanup(func() { sessions.Close() })

	orch := orchestrator.New(orchestrator.Options{
		Registry:   reg,
		Classifier: routing.NewKeywordClassifier(routingPolicy),
		Sessions:   sessions,
		Client:     &http.Client{Timeout: 5 * time.Second},
		Timeout:    timeout,
	})

	return NewAPIHandlers(reg, orch, sessions, nil)
}

func postChatCompletion(h *APIHandlers, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ChatCompletionsHandler(w, req)
	return w
}

func TestChatCompletionsSuccess(t *testing.T) {
	agent := stubAgentServer(t, agentCompletion("Hello!"))
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	body := []byte(`{"model":"gemini-fast","messages":[{"role":"user","content":"hi"}]}`)
	w := postChatCompletion(h, body, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, utils.ContentTypeJSON, w.Header().Get(utils.HeaderContentType))

	var resp types.ChatCompletionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Hello!", resp.Choices[0].Message.Content)
	assert.Equal(t, "general-agent", resp.Usage.TargetAgent)
	assert.Equal(t, "gemini-fast", resp.Usage.Model)
	assert.NotEmpty(t, resp.Usage.SessionID)

	// Session ID is also echoed as a header for clients that track it there
	assert.Equal(t, resp.Usage.SessionID, w.Header().Get(utils.HeaderSessionID))
}

func TestChatCompletionsSessionHeaderRoundTrip(t *testing.T) {
	agent := stubAgentServer(t, agentCompletion("ok"))
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	body := []byte(`{"model":"gemini-fast","messages":[{"role":"user","content":"hi"}]}`)
	w := postChatCompletion(h, body, map[string]string{utils.HeaderSessionID: "session-xyz"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ChatCompletionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session-xyz", resp.Usage.SessionID)
}

func TestChatCompletionsValidationErrors(t *testing.T) {
	agent := stubAgentServer(t, agentCompletion("unused"))
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	tests := []struct {
		name        string
		body        string
		errContains string
	}{
		{
			name:        "missing model",
			body:        `{"messages":[{"role":"user","content":"hi"}]}`,
			errContains: "missing 'model'",
		},
		{
			name:        "empty messages",
			body:        `{"model":"gemini-fast","messages":[]}`,
			errContains: "must not be empty",
		},
		{
			name:        "stream requested",
			body:        `{"model":"gemini-fast","messages":[{"role":"user","content":"hi"}],"stream":true}`,
			errContains: "streaming is not supported",
		},
		{
			name:        "malformed json",
			body:        `{broken`,
			errContains: "invalid request format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postChatCompletion(h, []byte(tt.body), nil)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp types.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "validation_error", resp.Error.Type)
			assert.Contains(t, resp.Error.Message, tt.errContains)
		})
	}
}

func TestChatCompletionsUnregisteredAgent(t *testing.T) {
	agent := stubAgentServer(t, agentCompletion("unused"))
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, SupportsImages: true},
	}, []config.KeywordRule{{Keyword: "finance", Agent: "finance-agent"}}, 5*time.Second)

	body := []byte(`{"model":"gemini-fast","messages":[{"role":"user","content":"a finance question"}]}`)
	w := postChatCompletion(h, body, nil)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "configuration_error", resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "finance-agent")
}

func TestChatCompletionsAgentFailure(t *testing.T) {
	agent := stubAgentServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	body := []byte(`{"model":"gemini-fast","messages":[{"role":"user","content":"hi"}]}`)
	w := postChatCompletion(h, body, nil)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "delegation_error", resp.Error.Type)
}

func TestChatCompletionsAgentTimeout(t *testing.T) {
	agent := stubAgentServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, SupportsImages: true},
	}, nil, 50*time.Millisecond)

	body := []byte(`{"model":"gemini-fast","messages":[{"role":"user","content":"hi"}]}`)
	w := postChatCompletion(h, body, nil)

	require.Equal(t, http.StatusGatewayTimeout, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "timeout_error", resp.Error.Type)
}

func TestChatCompletionsMethodNotAllowed(t *testing.T) {
	agent := stubAgentServer(t, agentCompletion("unused"))
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/completions", nil)
	w := httptest.NewRecorder()
	h.ChatCompletionsHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthHandler(t *testing.T) {
	agent := stubAgentServer(t, agentCompletion("unused"))
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HealthHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(1), body["agents"])

	services, ok := body["services"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "healthy", services["sessions"])
	assert.Equal(t, "disabled", services["database"])
}

func TestModelsHandler(t *testing.T) {
	agent := stubAgentServer(t, agentCompletion("unused"))
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, Models: []string{"gemini-fast", "gemini-images"}, SupportsImages: true},
	}, nil, 5*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	w := httptest.NewRecorder()
	h.ModelsHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "list", resp.Object)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "gemini-fast", resp.Data[0].ID)
	assert.Equal(t, "general-agent", resp.Data[0].OwnedBy)
	assert.Equal(t, "gemini-images", resp.Data[1].ID)
}

func TestAgentsHandler(t *testing.T) {
	agent := stubAgentServer(t, agentCompletion("unused"))
	h := newTestHandlers(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.URL, SupportsImages: true},
		{Name: "data-agent", Endpoint: agent.URL},
	}, nil, 5*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	w := httptest.NewRecorder()
	h.AgentsHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var cards []registry.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "data-agent", cards[0].Name)
	assert.Equal(t, "general-agent", cards[1].Name)
}
