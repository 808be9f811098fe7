// Package registry keeps the catalog of downstream agents the gateway can
// delegate to. Cards follow the A2A agent-card shape: name, endpoint and
// advertised capabilities.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cognitive-core/agent-gateway/internal/config"
)

// Card describes a registered agent
type Card struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Endpoint       string   `json:"endpoint"`
	Models         []string `json:"models,omitempty"`
	SupportsImages bool     `json:"supports_images"`
}

// NotFoundError is returned when a routed agent name has no registered card.
// This is a configuration state, not a crash: the router may legitimately
// emit names of specialists that are not deployed yet.
type NotFoundError struct {
	Agent string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("agent not registered: %s", e.Agent)
}

// Registry is a concurrency-safe agent catalog
type Registry struct {
	mu    sync.RWMutex
	cards map[string]Card
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		cards: make(map[string]Card),
	}
}

// NewFromConfig builds a registry from the configured agent list
func NewFromConfig(agents []config.Agent) *Registry {
	r := New()
	for _, a := range agents {
		r.Register(Card{
			Name:           a.Name,
			Description:    a.Description,
			Endpoint:       a.Endpoint,
			Models:         a.Models,
			SupportsImages: a.SupportsImages,
		})
	}
	return r
}

// Register adds or replaces an agent card
func (r *Registry) Register(card Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[card.Name] = card
}

// Unregister removes an agent card
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cards, name)
}

// Resolve returns the card for an agent name
func (r *Registry) Resolve(name string) (Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	card, ok := r.cards[name]
	if !ok {
		return Card{}, &NotFoundError{Agent: name}
	}
	return card, nil
}

// List returns all registered cards sorted by name
func (r *Registry) List() []Card {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cards := make([]Card, 0, len(r.cards))
	for _, card := range r.cards {
		cards = append(cards, card)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Name < cards[j].Name })
	return cards
}

// Len returns the number of registered agents
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cards)
}

// Models returns every model advertised by registered agents, with the
// owning agent's name
func (r *Registry) Models() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make(map[string]string)
	for _, card := range r.cards {
		for _, m := range card.Models {
			models[m] = card.Name
		}
	}
	return models
}
