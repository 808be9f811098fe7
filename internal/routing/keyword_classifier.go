package routing

import (
	"strings"

	"github.com/cognitive-core/agent-gateway/internal/config"
	"github.com/cognitive-core/agent-gateway/internal/types"
)

// KeywordClassifier routes by model identifier and message content.
//
// Rule order is fixed and significant:
//  1. image-capable model identifier -> default (general-purpose) agent,
//     the only agent with image capability in this deployment;
//  2. first keyword rule whose keyword appears in any user message -> that
//     rule's agent, whether or not it is registered;
//  3. fallback -> default agent.
//
// Classification is a pure function of (model, message text): identical
// inputs always yield the identical decision.
type KeywordClassifier struct {
	imageMarkers []string
	rules        []config.KeywordRule
	defaultAgent string
}

// NewKeywordClassifier creates a classifier from the routing configuration
func NewKeywordClassifier(routing *config.Routing) *KeywordClassifier {
	markers := make([]string, len(routing.ImageModelMarkers))
	for i, m := range routing.ImageModelMarkers {
		markers[i] = strings.ToLower(m)
	}

	rules := make([]config.KeywordRule, len(routing.Keywords))
	for i, r := range routing.Keywords {
		rules[i] = config.KeywordRule{
			Keyword: strings.ToLower(r.Keyword),
			Agent:   r.Agent,
		}
	}

	return &KeywordClassifier{
		imageMarkers: markers,
		rules:        rules,
		defaultAgent: routing.DefaultAgent,
	}
}

// Classify returns exactly one target agent; it never fails
func (c *KeywordClassifier) Classify(model string, messages []types.Message) Decision {
	if c.isImageModel(model) {
		return Decision{Agent: c.defaultAgent, Rule: RuleImageModel}
	}

	for _, rule := range c.rules {
		if c.anyUserMessageContains(messages, rule.Keyword) {
			return Decision{Agent: rule.Agent, Rule: RuleKeyword, Keyword: rule.Keyword}
		}
	}

	return Decision{Agent: c.defaultAgent, Rule: RuleDefault}
}

func (c *KeywordClassifier) isImageModel(model string) bool {
	model = strings.ToLower(model)
	for _, marker := range c.imageMarkers {
		if strings.Contains(model, marker) {
			return true
		}
	}
	return false
}

func (c *KeywordClassifier) anyUserMessageContains(messages []types.Message, keyword string) bool {
	for _, msg := range messages {
		if msg.Role != types.RoleUser {
			continue
		}
		if strings.Contains(strings.ToLower(msg.Content), keyword) {
			return true
		}
	}
	return false
}
