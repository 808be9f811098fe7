package types

// ChatCompletionRequest represents an inbound request to the chat completions API
type ChatCompletionRequest struct {
	Messages []Message `json:"messages" example:"[]"`
	Model    string    `json:"model" example:"gemini-fast"`
	Stream   bool      `json:"stream,omitempty" example:"false"`
	// OpenAI-compatible optional fields, forwarded to the agent unchanged
	MaxTokens   int     `json:"max_tokens,omitempty" example:"100"`
	Temperature float64 `json:"temperature,omitempty" example:"0.7"`
	TopP        float64 `json:"top_p,omitempty" example:"1"`
	User        string  `json:"user,omitempty" example:"user-123"`
}

// Message represents a single chat message; ordering is conversation order
type Message struct {
	Role    string `json:"role" example:"user"`
	Content string `json:"content" example:"Hello, how are you?"`
	Name    string `json:"name,omitempty" example:"John"`
}

// Message roles accepted by the gateway
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatCompletionResponse represents the gateway's response envelope
type ChatCompletionResponse struct {
	ID                string   `json:"id" example:"chatcmpl-abc123"`
	Object            string   `json:"object" example:"chat.completion"`
	Created           int64    `json:"created" example:"1677652288"`
	Model             string   `json:"model" example:"gemini-fast"`
	SystemFingerprint string   `json:"system_fingerprint,omitempty" example:"fp_abc123"`
	Choices           []Choice `json:"choices"`
	Usage             Usage    `json:"usage"`
}

// Choice represents a completion choice
type Choice struct {
	Index        int     `json:"index" example:"0"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason" example:"stop"`
}

// Usage carries token counts passed through from the agent plus the
// delegation metadata the gateway adds: session, resolved model and agent.
type Usage struct {
	PromptTokens     int    `json:"prompt_tokens" example:"10"`
	CompletionTokens int    `json:"completion_tokens" example:"20"`
	TotalTokens      int    `json:"total_tokens" example:"30"`
	SessionID        string `json:"session_id,omitempty" example:"7f6b1c2e-9a30-4d3e-a6a4-2f1bdfb8e001"`
	Model            string `json:"model,omitempty" example:"gemini-fast"`
	TargetAgent      string `json:"target_agent,omitempty" example:"general-agent"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo contains details about an error
type ErrorInfo struct {
	Message string `json:"message" example:"Field 'model' is required"`
	Type    string `json:"type" example:"validation_error"`
	Code    string `json:"code,omitempty" example:"missing_model"`
}

// ModelsResponse represents the response from the models endpoint
type ModelsResponse struct {
	Object string  `json:"object" example:"list"`
	Data   []Model `json:"data"`
}

// Model represents a model advertised by a registered agent
type Model struct {
	ID      string `json:"id" example:"gemini-fast"`
	Object  string `json:"object" example:"model"`
	Created int64  `json:"created" example:"1677610602"`
	OwnedBy string `json:"owned_by" example:"general-agent"`
}
