// Package validator checks inbound chat-completion requests before they are
// routed. Malformed requests are rejected immediately and never forwarded.
package validator

import (
	"encoding/json"
	"fmt"

	"github.com/cognitive-core/agent-gateway/internal/types"
)

// ValidateRequest validates the raw request body and decodes it.
// It checks the JSON shape first so error messages name the offending field
// the way clients expect from an OpenAI-compatible surface.
func ValidateRequest(body []byte) (*types.ChatCompletionRequest, error) {
	var requestData map[string]interface{}
	if err := json.Unmarshal(body, &requestData); err != nil {
		return nil, fmt.Errorf("invalid request format: %v", err)
	}

	if err := validateModel(requestData); err != nil {
		return nil, err
	}
	if err := validateMessages(requestData); err != nil {
		return nil, err
	}
	if err := validateStream(requestData); err != nil {
		return nil, err
	}

	var req types.ChatCompletionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("invalid request format: %v", err)
	}
	return &req, nil
}

// validateModel checks the model field exists and is a non-empty string
func validateModel(requestData map[string]interface{}) error {
	model, ok := requestData["model"]
	if !ok {
		return fmt.Errorf("missing 'model' field in request")
	}
	modelStr, ok := model.(string)
	if !ok {
		return fmt.Errorf("invalid 'model' field: must be a string")
	}
	if modelStr == "" {
		return fmt.Errorf("invalid 'model' field: must not be empty")
	}
	return nil
}

// validateMessages checks the messages array and each message's role/content
func validateMessages(requestData map[string]interface{}) error {
	raw, ok := requestData["messages"]
	if !ok {
		return fmt.Errorf("missing 'messages' field in request")
	}

	messages, ok := raw.([]interface{})
	if !ok {
		return fmt.Errorf("invalid 'messages' format: must be an array")
	}
	if len(messages) == 0 {
		return fmt.Errorf("invalid 'messages' field: must not be empty")
	}

	for i, msg := range messages {
		msgMap, ok := msg.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid message at index %d: must be an object", i)
		}

		role, ok := msgMap["role"].(string)
		if !ok {
			return fmt.Errorf("invalid message at index %d: missing 'role' field", i)
		}
		switch role {
		case types.RoleUser, types.RoleAssistant, types.RoleSystem:
		default:
			return fmt.Errorf("invalid role '%s' in message %d: must be user, assistant or system", role, i)
		}

		content, hasContent := msgMap["content"]
		if !hasContent {
			return fmt.Errorf("invalid message at index %d: missing 'content' field", i)
		}
		if _, ok := content.(string); !ok {
			return fmt.Errorf("invalid content type in message %d: must be string", i)
		}
	}

	return nil
}

// validateStream ensures the 'stream' field, if present, is boolean and false.
// Delegation is synchronous single-response; there is no streaming support.
func validateStream(requestData map[string]interface{}) error {
	stream, exists := requestData["stream"]
	if !exists {
		return nil
	}

	streamBool, ok := stream.(bool)
	if !ok {
		return fmt.Errorf("invalid 'stream' field: must be boolean")
	}
	if streamBool {
		return fmt.Errorf("streaming is not supported")
	}
	return nil
}
