// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package mapsource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrDuplicateSourceType is returned by Registry.Register when a source
	// type has already been registered.
	ErrDuplicateSourceType = errors.New("duplicate source type")

	// ErrUnknownSourceType is returned when no loader exists for a source type.
	ErrUnknownSourceType = errors.New("unknown source type")

	// ErrMissingType is returned by Registry.BuildAll when a source block
	// has no type key.
	ErrMissingType = errors.New("source has no type")
)

// TypeKey is the configuration key that selects a source's type.
const TypeKey = "type"

// Source is an upstream map source built from configuration.
type Source interface {
	// Name is the configured name of this source
	Name() string

	// Type is the source type this source was built as
	Type() string

	// GetMap fetches a single map image
	GetMap(context.Context, MapRequest) (*Map, error)
}

// Loader creates a Source from a configuration block.  The block has
// already passed the Schema registered alongside the Loader.
type Loader interface {
	Load(ctx context.Context, name, sourceType string, conf map[string]interface{}) (Source, error)
}

// LoaderFunc is a function type that implements Loader.
type LoaderFunc func(context.Context, string, string, map[string]interface{}) (Source, error)

// Load invokes this function.
func (lf LoaderFunc) Load(ctx context.Context, name, sourceType string, conf map[string]interface{}) (Source, error) {
	return lf(ctx, name, sourceType, conf)
}

type registration struct {
	loader Loader
	schema Schema
}

// Registry maps source type names onto loaders and their schemas.
// The zero value is not usable; use NewRegistry.
type Registry struct {
	lock  sync.RWMutex
	types map[string]registration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]registration),
	}
}

// Register adds a source type.  The schema is stored as given; callers
// that extend another type's schema do so with Schema.With before
// registering.
func (r *Registry) Register(sourceType string, l Loader, s Schema) error {
	if len(sourceType) == 0 {
		return errors.New("source type cannot be empty")
	}

	if l == nil {
		return fmt.Errorf("source type %q: nil loader", sourceType)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.types[sourceType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSourceType, sourceType)
	}

	r.types[sourceType] = registration{
		loader: l,
		schema: s,
	}

	return nil
}

// Types returns the sorted names of every registered source type.
func (r *Registry) Types() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	types := make([]string, 0, len(r.types))
	for t := range r.types {
		types = append(types, t)
	}

	sort.Strings(types)
	return types
}

// Schema returns the schema registered for a source type.
func (r *Registry) Schema(sourceType string) (Schema, bool) {
	r.lock.RLock()
	reg, ok := r.types[sourceType]
	r.lock.RUnlock()

	return reg.schema, ok
}

// Loader returns the loader registered for a source type.  Types that
// build on another type use this to load the underlying source the same
// way the registry would.
func (r *Registry) Loader(sourceType string) (Loader, bool) {
	r.lock.RLock()
	reg, ok := r.types[sourceType]
	r.lock.RUnlock()

	return reg.loader, ok
}

// Build checks conf against the schema of sourceType and hands it to
// that type's loader.  A type key in conf is ignored.
func (r *Registry) Build(ctx context.Context, name, sourceType string, conf map[string]interface{}) (Source, error) {
	r.lock.RLock()
	reg, ok := r.types[sourceType]
	r.lock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("source %q: %w: %s", name, ErrUnknownSourceType, sourceType)
	}

	conf = withoutType(conf)
	if err := reg.schema.Check(conf); err != nil {
		return nil, fmt.Errorf("source %q: invalid configuration: %w", name, err)
	}

	s, err := reg.loader.Load(ctx, name, sourceType, conf)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", name, err)
	}

	return s, nil
}

// BuildAll builds every source in a sources section, where each block
// names its own type.  Sources are built in name order and the first
// error stops the build.
func (r *Registry) BuildAll(ctx context.Context, sources map[string]map[string]interface{}) (map[string]Source, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}

	sort.Strings(names)
	built := make(map[string]Source, len(sources))
	for _, name := range names {
		conf := sources[name]
		sourceType, _ := conf[TypeKey].(string)
		if len(sourceType) == 0 {
			return nil, fmt.Errorf("source %q: %w", name, ErrMissingType)
		}

		s, err := r.Build(ctx, name, sourceType, conf)
		if err != nil {
			return nil, err
		}

		built[name] = s
	}

	return built, nil
}

func withoutType(conf map[string]interface{}) map[string]interface{} {
	if _, ok := conf[TypeKey]; !ok {
		return conf
	}

	c := make(map[string]interface{}, len(conf))
	for k, v := range conf {
		if k != TypeKey {
			c[k] = v
		}
	}

	return c
}
