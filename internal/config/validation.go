package config

import (
	"fmt"
	"strings"

	"github.com/cognitive-core/agent-gateway/internal/errors"
	"github.com/go-playground/validator/v10"
)

// GatewayConfig bundles the pieces that must be cross-validated
type GatewayConfig struct {
	Agents  []Agent `validate:"required,min=1,dive"`
	Routing Routing `validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateConfiguration validates the agent list and routing policy together
func ValidateConfiguration(agents []Agent, routing *Routing) *errors.APIError {
	if routing == nil {
		return errors.NewConfigurationError("No routing policy provided")
	}

	config := GatewayConfig{
		Agents:  agents,
		Routing: *routing,
	}

	if err := validate.Struct(config); err != nil {
		return formatValidationError(err)
	}

	return validateBusinessRules(agents, routing)
}

// validateBusinessRules enforces constraints the struct tags cannot express
func validateBusinessRules(agents []Agent, routing *Routing) *errors.APIError {
	byName := make(map[string]Agent, len(agents))
	for i, agent := range agents {
		if _, dup := byName[agent.Name]; dup {
			return errors.NewConfigurationError(
				fmt.Sprintf("Duplicate agent name '%s' at index %d", agent.Name, i))
		}
		byName[agent.Name] = agent
	}

	// The default agent must exist: routing falls back to it unconditionally.
	defaultAgent, ok := byName[routing.DefaultAgent]
	if !ok {
		return errors.NewConfigurationError(
			fmt.Sprintf("Default agent '%s' is not defined in the agent list", routing.DefaultAgent))
	}

	// Image-capable model requests are routed to the default agent, so it
	// has to advertise image support.
	if !defaultAgent.SupportsImages {
		return errors.NewConfigurationError(
			fmt.Sprintf("Default agent '%s' must support images: image-capable models route to it", defaultAgent.Name))
	}

	// Keyword rules may reference agents that are not registered yet; that
	// is a documented deployment state, not a configuration error. Empty
	// keywords would make every request match, though.
	for i, rule := range routing.Keywords {
		if strings.TrimSpace(rule.Keyword) == "" {
			return errors.NewConfigurationError(
				fmt.Sprintf("Keyword rule at index %d has an empty keyword", i))
		}
	}

	return nil
}

// formatValidationError converts validator errors into a configuration error
func formatValidationError(err error) *errors.APIError {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation on '%s'", fieldErr.Namespace(), fieldErr.Tag()))
		}
		return errors.NewConfigurationError(
			fmt.Sprintf("Invalid configuration: %s", strings.Join(messages, "; ")))
	}
	return errors.NewConfigurationError(fmt.Sprintf("Invalid configuration: %v", err))
}
