package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognitive-core/agent-gateway/internal/config"
	"github.com/cognitive-core/agent-gateway/internal/registry"
	"github.com/cognitive-core/agent-gateway/internal/routing"
	"github.com/cognitive-core/agent-gateway/internal/session"
	"github.com/cognitive-core/agent-gateway/internal/types"
)

// stubAgent captures the downstream request and returns a canned response
type stubAgent struct {
	server   *httptest.Server
	requests atomic.Int64
	lastBody atomic.Value // *types.ChatCompletionRequest
}

func newStubAgent(t *testing.T, handler http.HandlerFunc) *stubAgent {
	t.Helper()
	agent := &stubAgent{}
	agent.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.requests.Add(1)

		var req types.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			agent.lastBody.Store(&req)
		}
		handler(w, r)
	}))
	t.Cleanup(agent.server.Close)
	return agent
}

func respondWithCompletion(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := types.ChatCompletionResponse{
			ID:      "chatcmpl-agent-side",
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   "gemini-fast",
			Choices: []types.Choice{
				{Index: 0, Message: types.Message{Role: types.RoleAssistant, Content: content}, FinishReason: "stop"},
			},
			Usage: types.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func newTestOrchestrator(t *testing.T, agents []config.Agent, keywords []config.KeywordRule, timeout time.Duration) (*Orchestrator, session.Store) {
	t.Helper()

	routingPolicy := &config.Routing{
		ImageModelMarkers: []string{"image", "vision"},
		Keywords:          keywords,
		DefaultAgent:      "general-agent",
	}

	sessions := session.NewMemoryStore(time.Minute)
	t.Cleanup(func() { sessions.Close() })

	orch := New(Options{
		Registry:   registry.NewFromConfig(agents),
		Classifier: routing.NewKeywordClassifier(routingPolicy),
		Sessions:   sessions,
		Client:     &http.Client{Timeout: 5 * time.Second},
		Timeout:    timeout,
	})
	return orch, sessions
}

func TestCompleteDelegatesAndWrapsResponse(t *testing.T) {
	agent := newStubAgent(t, respondWithCompletion("Hello from the agent"))

	orch, _ := newTestOrchestrator(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.server.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	req := &types.ChatCompletionRequest{
		Model: "gemini-fast",
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: "be brief"},
			{Role: types.RoleUser, Content: "say hello"},
		},
	}

	resp, err := orch.Complete(context.Background(), req, "")
	require.NoError(t, err)

	// Envelope is stamped by the gateway, not passed through
	assert.True(t, strings.HasPrefix(resp.ID, "chatcmpl-"))
	assert.NotEqual(t, "chatcmpl-agent-side", resp.ID)
	assert.Equal(t, "chat.completion", resp.Object)
	assert.True(t, strings.HasPrefix(resp.SystemFingerprint, "fp_"))
	assert.NotZero(t, resp.Created)

	// Agent content passes through untouched
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Hello from the agent", resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)

	// Usage carries token passthrough plus delegation metadata
	assert.Equal(t, 10, resp.Usage.PromptTokens)
	assert.Equal(t, 30, resp.Usage.TotalTokens)
	assert.NotEmpty(t, resp.Usage.SessionID)
	assert.Equal(t, "gemini-fast", resp.Usage.Model)
	assert.Equal(t, "general-agent", resp.Usage.TargetAgent)

	// Downstream request preserves messages, model and order
	forwarded := agent.lastBody.Load().(*types.ChatCompletionRequest)
	assert.Equal(t, "gemini-fast", forwarded.Model)
	require.Len(t, forwarded.Messages, 2)
	assert.Equal(t, "be brief", forwarded.Messages[0].Content)
	assert.Equal(t, "say hello", forwarded.Messages[1].Content)
	assert.False(t, forwarded.Stream)
}

func TestCompleteForcesStreamOffDownstream(t *testing.T) {
	agent := newStubAgent(t, respondWithCompletion("ok"))

	orch, _ := newTestOrchestrator(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.server.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	req := &types.ChatCompletionRequest{
		Model:    "gemini-fast",
		Messages: []types.Message{{Role: types.RoleUser, Content: "hi"}},
		Stream:   true,
	}

	_, err := orch.Complete(context.Background(), req, "")
	require.NoError(t, err)

	forwarded := agent.lastBody.Load().(*types.ChatCompletionRequest)
	assert.False(t, forwarded.Stream)
}

func TestCompleteRoutesByKeyword(t *testing.T) {
	general := newStubAgent(t, respondWithCompletion("general"))
	data := newStubAgent(t, respondWithCompletion("data"))

	orch, _ := newTestOrchestrator(t, []config.Agent{
		{Name: "general-agent", Endpoint: general.server.URL, SupportsImages: true},
		{Name: "data-agent", Endpoint: data.server.URL},
	}, []config.KeywordRule{{Keyword: "data", Agent: "data-agent"}}, 5*time.Second)

	req := &types.ChatCompletionRequest{
		Model:    "gemini-fast",
		Messages: []types.Message{{Role: types.RoleUser, Content: "analyze my data"}},
	}

	resp, err := orch.Complete(context.Background(), req, "")
	require.NoError(t, err)
	assert.Equal(t, "data-agent", resp.Usage.TargetAgent)
	assert.Equal(t, int64(1), data.requests.Load())
	assert.Equal(t, int64(0), general.requests.Load())
}

func TestCompleteUnregisteredAgent(t *testing.T) {
	general := newStubAgent(t, respondWithCompletion("general"))

	// The rule points at an agent that is not registered
	orch, _ := newTestOrchestrator(t, []config.Agent{
		{Name: "general-agent", Endpoint: general.server.URL, SupportsImages: true},
	}, []config.KeywordRule{{Keyword: "finance", Agent: "finance-agent"}}, 5*time.Second)

	req := &types.ChatCompletionRequest{
		Model:    "gemini-fast",
		Messages: []types.Message{{Role: types.RoleUser, Content: "finance question"}},
	}

	_, err := orch.Complete(context.Background(), req, "")
	require.Error(t, err)

	var notFound *registry.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "finance-agent", notFound.Agent)
	assert.Equal(t, int64(0), general.requests.Load())
}

func TestCompleteAgentReturnsError(t *testing.T) {
	agent := newStubAgent(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent exploded", http.StatusInternalServerError)
	})

	orch, _ := newTestOrchestrator(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.server.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	req := &types.ChatCompletionRequest{
		Model:    "gemini-fast",
		Messages: []types.Message{{Role: types.RoleUser, Content: "hi"}},
	}

	_, err := orch.Complete(context.Background(), req, "")
	require.Error(t, err)

	var delegationErr *DelegationError
	require.ErrorAs(t, err, &delegationErr)
	assert.Equal(t, "general-agent", delegationErr.Agent)
	assert.Equal(t, http.StatusInternalServerError, delegationErr.StatusCode)
	assert.False(t, delegationErr.Timeout)

	// Exactly one delegation attempt, never retried
	assert.Equal(t, int64(1), agent.requests.Load())
}

func TestCompleteAgentTimeout(t *testing.T) {
	agent := newStubAgent(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		respondWithCompletion("too late")(w, r)
	})

	orch, _ := newTestOrchestrator(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.server.URL, SupportsImages: true},
	}, nil, 50*time.Millisecond)

	req := &types.ChatCompletionRequest{
		Model:    "gemini-fast",
		Messages: []types.Message{{Role: types.RoleUser, Content: "hi"}},
	}

	start := time.Now()
	_, err := orch.Complete(context.Background(), req, "")
	elapsed := time.Since(start)
	require.Error(t, err)

	var delegationErr *DelegationError
	require.ErrorAs(t, err, &delegationErr)
	assert.True(t, delegationErr.Timeout)
	assert.Contains(t, delegationErr.Error(), "timed out")

	// The caller gets the failure promptly, not after the agent gives up
	assert.Less(t, elapsed, time.Second)
	assert.Equal(t, int64(1), agent.requests.Load())
}

func TestCompleteMalformedAgentResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>nope</html>"},
		{name: "empty choices", body: `{"id":"x","object":"chat.completion","choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := newStubAgent(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			orch, _ := newTestOrchestrator(t, []config.Agent{
				{Name: "general-agent", Endpoint: agent.server.URL, SupportsImages: true},
			}, nil, 5*time.Second)

			req := &types.ChatCompletionRequest{
				Model:    "gemini-fast",
				Messages: []types.Message{{Role: types.RoleUser, Content: "hi"}},
			}

			_, err := orch.Complete(context.Background(), req, "")
			require.Error(t, err)

			var delegationErr *DelegationError
			require.ErrorAs(t, err, &delegationErr)
		})
	}
}

func TestCompleteReusesSessionID(t *testing.T) {
	agent := newStubAgent(t, respondWithCompletion("reply"))

	orch, sessions := newTestOrchestrator(t, []config.Agent{
		{Name: "general-agent", Endpoint: agent.server.URL, SupportsImages: true},
	}, nil, 5*time.Second)

	req := &types.ChatCompletionRequest{
		Model:    "gemini-fast",
		Messages: []types.Message{{Role: types.RoleUser, Content: "first turn"}},
	}

	first, err := orch.Complete(context.Background(), req, "")
	require.NoError(t, err)
	sessionID := first.Usage.SessionID
	require.NotEmpty(t, sessionID)

	req.Messages = []types.Message{{Role: types.RoleUser, Content: "second turn"}}
	second, err := orch.Complete(context.Background(), req, sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, second.Usage.SessionID)

	history, err := sessions.History(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "first turn", history[0].Content)
	assert.Equal(t, "second turn", history[2].Content)
}

func TestCompleteImageModelRoutesToDefault(t *testing.T) {
	general := newStubAgent(t, respondWithCompletion("image reply"))
	data := newStubAgent(t, respondWithCompletion("data reply"))

	orch, _ := newTestOrchestrator(t, []config.Agent{
		{Name: "general-agent", Endpoint: general.server.URL, SupportsImages: true},
		{Name: "data-agent", Endpoint: data.server.URL},
	}, []config.KeywordRule{{Keyword: "data", Agent: "data-agent"}}, 5*time.Second)

	// Even with a keyword match, the image-capable model wins
	req := &types.ChatCompletionRequest{
		Model:    "gemini-images",
		Messages: []types.Message{{Role: types.RoleUser, Content: "describe this data chart"}},
	}

	resp, err := orch.Complete(context.Background(), req, "")
	require.NoError(t, err)
	assert.Equal(t, "general-agent", resp.Usage.TargetAgent)
	assert.Equal(t, int64(0), data.requests.Load())
}

func TestDelegationErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      *DelegationError
		contains string
	}{
		{
			name:     "timeout",
			err:      &DelegationError{Agent: "data-agent", Timeout: true},
			contains: "timed out",
		},
		{
			name:     "non-2xx status",
			err:      &DelegationError{Agent: "data-agent", StatusCode: 503},
			contains: "status 503",
		},
		{
			name:     "network failure",
			err:      &DelegationError{Agent: "data-agent", Err: context.Canceled},
			contains: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.Contains(t, tt.err.Error(), "data-agent")
		})
	}
}
