// Package orchestrator performs synchronous delegation: it routes an inbound
// chat completion to exactly one downstream agent, waits for the agent's
// response within a bounded timeout and wraps it in the gateway envelope.
// A failed delegation is reported to the caller as-is; it is never retried.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cognitive-core/agent-gateway/internal/database"
	"github.com/cognitive-core/agent-gateway/internal/logger"
	"github.com/cognitive-core/agent-gateway/internal/monitoring"
	"github.com/cognitive-core/agent-gateway/internal/registry"
	"github.com/cognitive-core/agent-gateway/internal/reliability"
	"github.com/cognitive-core/agent-gateway/internal/routing"
	"github.com/cognitive-core/agent-gateway/internal/session"
	"github.com/cognitive-core/agent-gateway/internal/types"
	"github.com/cognitive-core/agent-gateway/internal/utils"
)

const chatCompletionsPath = "/v1/chat/completions"

// Orchestrator delegates chat completions to downstream agents
type Orchestrator struct {
	registry   *registry.Registry
	classifier routing.Classifier
	sessions   session.Store
	client     *http.Client
	audit      *database.DelegationRepository
	timeout    time.Duration

	breakersMu sync.Mutex
	breakers   map[string]*reliability.CircuitBreaker
}

// Options configures an Orchestrator
type Options struct {
	Registry   *registry.Registry
	Classifier routing.Classifier
	Sessions   session.Store
	Client     *http.Client
	// Audit is optional; nil disables delegation auditing
	Audit   *database.DelegationRepository
	Timeout time.Duration
}

// New creates an Orchestrator
func New(opts Options) *Orchestrator {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Orchestrator{
		registry:   opts.Registry,
		classifier: opts.Classifier,
		sessions:   opts.Sessions,
		client:     opts.Client,
		audit:      opts.Audit,
		timeout:    timeout,
		breakers:   make(map[string]*reliability.CircuitBreaker),
	}
}

// Complete routes the request to one agent, delegates synchronously and
// returns the gateway response envelope. sessionID may be empty; a fresh
// session is created in that case and its ID returned in the envelope.
//
// Error contract:
//   - *registry.NotFoundError when the routed agent has no registered card;
//   - *DelegationError for timeout, network failure, a non-2xx agent status
//     or a malformed agent response.
func (o *Orchestrator) Complete(ctx context.Context, req *types.ChatCompletionRequest, sessionID string) (*types.ChatCompletionResponse, error) {
	decision := o.classifier.Classify(req.Model, req.Messages)
	monitoring.GetMetrics().RecordDelegation(decision.Agent, decision.Rule)

	logger.InfoCtx(ctx, "Routing decision",
		"agent", decision.Agent,
		"rule", decision.Rule,
		"keyword", decision.Keyword,
		"model", req.Model,
	)

	card, err := o.registry.Resolve(decision.Agent)
	if err != nil {
		return nil, err
	}

	sessionID, err = o.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		logger.WarnCtx(ctx, "Session store unavailable, continuing without history",
			"error", err)
		sessionID = utils.GenerateSessionID()
	}

	requestedAt := time.Now()
	agentResp, statusCode, delegateErr := o.delegate(ctx, card, req)
	respondedAt := time.Now()

	o.recordAudit(ctx, req, decision, card, sessionID, statusCode, requestedAt, respondedAt, agentResp, delegateErr)

	if delegateErr != nil {
		return nil, delegateErr
	}

	envelope := o.buildEnvelope(req, agentResp, sessionID, card.Name)
	o.appendHistory(ctx, sessionID, req, envelope)

	return envelope, nil
}

// delegate performs the single HTTP round trip to the agent
func (o *Orchestrator) delegate(ctx context.Context, card registry.Card, req *types.ChatCompletionRequest) (*types.ChatCompletionResponse, int, error) {
	endpoint := strings.TrimSuffix(card.Endpoint, "/") + chatCompletionsPath

	// Agents never see stream=true; the gateway is strictly synchronous
	downstream := *req
	downstream.Stream = false

	body, err := json.Marshal(&downstream)
	if err != nil {
		return nil, 0, &DelegationError{Agent: card.Name, Endpoint: endpoint, Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, &DelegationError{Agent: card.Name, Endpoint: endpoint, Err: err}
	}
	httpReq.Header.Set(utils.HeaderContentType, utils.ContentTypeJSON)

	var agentResp *types.ChatCompletionResponse
	var statusCode int

	breaker := o.breakerFor(card.Name)
	err = breaker.Execute(ctx, func() error {
		resp, callErr := o.client.Do(httpReq)
		if callErr != nil {
			return &DelegationError{
				Agent:    card.Name,
				Endpoint: endpoint,
				Timeout:  isTimeout(callErr),
				Err:      callErr,
			}
		}
		defer resp.Body.Close()

		statusCode = resp.StatusCode
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return &DelegationError{Agent: card.Name, Endpoint: endpoint, Err: readErr}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &DelegationError{
				Agent:      card.Name,
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("agent response body: %s", truncate(respBody, 512)),
			}
		}

		var parsed types.ChatCompletionResponse
		if unmarshalErr := json.Unmarshal(respBody, &parsed); unmarshalErr != nil {
			return &DelegationError{Agent: card.Name, Endpoint: endpoint, Err: fmt.Errorf("malformed agent response: %w", unmarshalErr)}
		}
		if len(parsed.Choices) == 0 {
			return &DelegationError{Agent: card.Name, Endpoint: endpoint, Err: fmt.Errorf("agent response has no choices")}
		}

		agentResp = &parsed
		return nil
	})
	if err != nil {
		// Breaker rejections arrive as plain errors; normalize them
		var delegationErr *DelegationError
		if !errors.As(err, &delegationErr) {
			delegationErr = &DelegationError{Agent: card.Name, Endpoint: endpoint, Err: err}
		}
		return nil, statusCode, delegationErr
	}

	return agentResp, statusCode, nil
}

// buildEnvelope wraps the agent response in the gateway envelope. The
// agent's choices pass through untouched; the gateway stamps its own
// identifiers and delegation metadata into the usage block.
func (o *Orchestrator) buildEnvelope(req *types.ChatCompletionRequest, agentResp *types.ChatCompletionResponse, sessionID, agentName string) *types.ChatCompletionResponse {
	model := agentResp.Model
	if model == "" {
		model = req.Model
	}

	usage := agentResp.Usage
	usage.SessionID = sessionID
	usage.Model = model
	usage.TargetAgent = agentName

	return &types.ChatCompletionResponse{
		ID:                utils.GenerateChatCompletionID(),
		Object:            "chat.completion",
		Created:           time.Now().Unix(),
		Model:             model,
		SystemFingerprint: utils.GenerateSystemFingerprint(),
		Choices:           agentResp.Choices,
		Usage:             usage,
	}
}

// appendHistory records the round trip in the session store, best effort
func (o *Orchestrator) appendHistory(ctx context.Context, sessionID string, req *types.ChatCompletionRequest, resp *types.ChatCompletionResponse) {
	userText := lastUserMessage(req.Messages)
	assistantText := ""
	if len(resp.Choices) > 0 {
		assistantText = resp.Choices[0].Message.Content
	}

	if err := o.sessions.AppendExchange(ctx, sessionID, userText, assistantText); err != nil {
		logger.WarnCtx(ctx, "Failed to append session history",
			"session_id", sessionID,
			"error", err)
	}
}

// recordAudit writes the delegation record asynchronously when auditing is
// enabled. Audit failures never affect the delegation outcome.
func (o *Orchestrator) recordAudit(ctx context.Context, req *types.ChatCompletionRequest, decision routing.Decision, card registry.Card, sessionID string, statusCode int, requestedAt, respondedAt time.Time, agentResp *types.ChatCompletionResponse, delegateErr error) {
	if o.audit == nil {
		return
	}

	record := &database.DelegationRecord{
		RequestID:   requestIDFromContext(ctx),
		SessionID:   sessionID,
		TargetAgent: card.Name,
		Rule:        decision.Rule,
		Model:       req.Model,
		Endpoint:    card.Endpoint,
		Request:     req,
		StatusCode:  statusCode,
		RequestedAt: requestedAt,
		RespondedAt: respondedAt,
		DurationMs:  respondedAt.Sub(requestedAt).Milliseconds(),
	}
	if agentResp != nil {
		record.Response = agentResp
	}
	if delegateErr != nil {
		record.ErrorMessage = delegateErr.Error()
		record.ErrorType = classifyError(delegateErr)
	}

	go func() {
		insertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := o.audit.Insert(insertCtx, record); err != nil {
			logger.Warn("Failed to insert delegation audit record", "error", err)
		}
	}()
}

// breakerFor returns the per-agent circuit breaker, creating it lazily
func (o *Orchestrator) breakerFor(agent string) *reliability.CircuitBreaker {
	o.breakersMu.Lock()
	defer o.breakersMu.Unlock()

	breaker, ok := o.breakers[agent]
	if !ok {
		breaker = reliability.NewCircuitBreaker(reliability.DefaultCircuitBreakerConfig(agent))
		o.breakers[agent] = breaker
	}
	return breaker
}

func lastUserMessage(messages []types.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == types.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func classifyError(err error) string {
	var delegationErr *DelegationError
	if errors.As(err, &delegationErr) {
		if delegationErr.Timeout {
			return "timeout_error"
		}
		return "delegation_error"
	}
	return "internal_error"
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
