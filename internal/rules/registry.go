package rules

import (
	"fmt"

	"github.com/vanguard-grc/cce-engine/internal/models"
)

// DefaultRegistry is a simple, ordered, in-memory registry.
// Rules for a kind are evaluated in registration order; that order is
// preserved through to the findings in each evidence record, so output
// stays reproducible across runs.
// Register panics on duplicate check IDs to catch wiring mistakes at startup.
type DefaultRegistry struct {
	byKind map[models.ResourceKind][]Rule
	index  map[string]struct{}
}

// NewDefaultRegistry returns an empty registry ready for rule registration.
func NewDefaultRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		byKind: make(map[models.ResourceKind][]Rule),
		index:  make(map[string]struct{}),
	}
}

// Register appends rule to kind's list. Panics if the same check ID is
// registered twice, regardless of kind.
func (r *DefaultRegistry) Register(kind models.ResourceKind, rule Rule) {
	if _, exists := r.index[rule.ID()]; exists {
		panic(fmt.Sprintf("duplicate check ID: %q", rule.ID()))
	}
	r.byKind[kind] = append(r.byKind[kind], rule)
	r.index[rule.ID()] = struct{}{}
}

// RulesFor returns the rules registered for kind in registration order.
// The returned slice is nil when no rules are registered for kind.
func (r *DefaultRegistry) RulesFor(kind models.ResourceKind) []Rule {
	return r.byKind[kind]
}
