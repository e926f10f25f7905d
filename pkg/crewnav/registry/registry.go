// Package registry provides the statically-constructed dependency registry
// the application wires guards and other collaborators through. Bindings map
// a name plus an environment tag to a factory function; everything is
// resolved once at startup, with no runtime reflection.
package registry

import (
	"fmt"
	"os"
)

// Env tags a binding with the environment it applies to.
type Env string

const (
	// EnvAny matches every environment; an environment-specific binding
	// overrides it.
	EnvAny Env = ""

	EnvDevelopment Env = "DEV"
	EnvProduction  Env = "PROD"
)

// CurrentEnv returns the environment tag from the ENVIRONMENT variable,
// defaulting to production.
func CurrentEnv() Env {
	if os.Getenv("ENVIRONMENT") == string(EnvDevelopment) {
		return EnvDevelopment
	}
	return EnvProduction
}

// Factory constructs one dependency instance.
type Factory func() (any, error)

// Registry accumulates bindings during startup. It is not safe for
// concurrent registration; register everything before calling Build.
type Registry struct {
	order    []string
	bindings map[string]map[Env]Factory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{bindings: make(map[string]map[Env]Factory)}
}

// Provide registers a factory under name for the given environment.
// Registering the same name+environment twice returns a *DuplicateBindingError;
// like route registration, the registry fails closed on ambiguity.
func (r *Registry) Provide(name string, env Env, factory Factory) error {
	byEnv, ok := r.bindings[name]
	if !ok {
		byEnv = make(map[Env]Factory)
		r.bindings[name] = byEnv
		r.order = append(r.order, name)
	}
	if _, exists := byEnv[env]; exists {
		return &DuplicateBindingError{Name: name, Env: env}
	}
	byEnv[env] = factory
	return nil
}

// Build resolves every binding applicable to env, preferring an
// environment-specific factory over an EnvAny one, and returns the resulting
// container. A name bound only for other environments is skipped. Any
// factory error aborts the build.
func (r *Registry) Build(env Env) (*Container, error) {
	values := make(map[string]any, len(r.order))
	for _, name := range r.order {
		byEnv := r.bindings[name]
		factory, ok := byEnv[env]
		if !ok {
			factory, ok = byEnv[EnvAny]
		}
		if !ok {
			continue
		}
		value, err := factory()
		if err != nil {
			return nil, fmt.Errorf("registry: building %q: %w", name, err)
		}
		values[name] = value
	}
	return &Container{values: values}, nil
}

// Container holds the resolved instances. Read-only after Build.
type Container struct {
	values map[string]any
}

// Lookup returns the instance bound under name.
func (c *Container) Lookup(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// DuplicateBindingError indicates two factories were registered for the same
// name and environment.
type DuplicateBindingError struct {
	Name string
	Env  Env
}

func (e *DuplicateBindingError) Error() string {
	if e.Env == EnvAny {
		return fmt.Sprintf("registry: duplicate binding for %q", e.Name)
	}
	return fmt.Sprintf("registry: duplicate binding for %q in %s", e.Name, string(e.Env))
}
