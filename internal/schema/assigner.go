package schema

import (
	"fmt"

	"github.com/schemadoc-dev/schemadoc/internal/diag"
	"github.com/schemadoc-dev/schemadoc/internal/typegraph"
)

// Assigner hands out canonical schema identifiers for type keys. The
// collision registry is injected rather than global so independent
// generation passes can run with independently scoped registries, or share
// one when identifier stability across passes is required.
type Assigner struct {
	registry *CollisionRegistry
	strategy NamingStrategy
	reporter *diag.Reporter
}

// AssignerOption customizes an Assigner
type AssignerOption func(*Assigner)

// WithNamingStrategy overrides the base-name strategy
func WithNamingStrategy(strategy NamingStrategy) AssignerOption {
	return func(a *Assigner) {
		if strategy != nil {
			a.strategy = strategy
		}
	}
}

// WithAssignerReporter sets the diagnostics reporter
func WithAssignerReporter(reporter *diag.Reporter) AssignerOption {
	return func(a *Assigner) {
		if reporter != nil {
			a.reporter = reporter
		}
	}
}

// NewAssigner creates an assigner bound to the given registry
func NewAssigner(registry *CollisionRegistry, opts ...AssignerOption) *Assigner {
	if registry == nil {
		registry = NewCollisionRegistry()
	}
	a := &Assigner{
		registry: registry,
		strategy: DefaultNamingStrategy,
		reporter: diag.NewNopReporter(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assign returns the canonical identifier for a type key, binding one if the
// key has not been seen before. Suffix numbers derive from registration
// order, never from hashes or randomness, so a fixed sequence of Assign
// calls always yields the same identifiers. Passing a zero key is a caller
// bug and returns an error immediately.
func (a *Assigner) Assign(key typegraph.TypeKey) (SchemaID, error) {
	if key.IsZero() {
		return "", fmt.Errorf("schema: cannot assign an identifier to an empty type key")
	}

	typeKey := key.String()
	if id, ok := a.registry.Lookup(typeKey); ok {
		return id, nil
	}

	baseName := a.strategy(key)
	if baseName == "" {
		return "", fmt.Errorf("schema: naming strategy produced an empty base name for %s", typeKey)
	}

	id, collided := a.registry.Bind(typeKey, baseName)
	if collided {
		a.reporter.Collision(typeKey, string(id))
	}
	return id, nil
}

// Remove releases a type's identifier so its suffix slot can be reclaimed by
// a later assignment with the same base name. Identifiers already handed out
// never change value; removal only affects future assignments.
func (a *Assigner) Remove(key typegraph.TypeKey) error {
	if key.IsZero() {
		return fmt.Errorf("schema: cannot remove an empty type key")
	}
	a.registry.Remove(key.String())
	return nil
}

// Lookup returns the identifier bound to a key, if any
func (a *Assigner) Lookup(key typegraph.TypeKey) (SchemaID, bool) {
	if key.IsZero() {
		return "", false
	}
	return a.registry.Lookup(key.String())
}
