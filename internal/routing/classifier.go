// Package routing implements the agent-selection policy: given a
// chat-completion request, decide which downstream agent handles it.
package routing

import (
	"github.com/cognitive-core/agent-gateway/internal/types"
)

// Rule names reported in decisions, useful for logs and metrics
const (
	RuleImageModel = "image-model"
	RuleKeyword    = "keyword"
	RuleDefault    = "default"
)

// Decision names the agent that should handle a request. It is derived
// purely from the request; there is no state and no failure mode.
type Decision struct {
	Agent string
	Rule  string
	// Keyword holds the matched keyword when Rule is RuleKeyword
	Keyword string
}

// Classifier selects a target agent for a request. Keyword matching on
// free-text messages is a fragile policy, so call sites depend on this
// interface and the rule set can be replaced without touching them.
type Classifier interface {
	Classify(model string, messages []types.Message) Decision
}
