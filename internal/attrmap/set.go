package attrmap

import (
	"fmt"

	"github.com/rs/zerolog"

	"attrmap/internal/diagnostic"
	"attrmap/internal/record"
)

// DefaultMapName is the map used when none is named.
const DefaultMapName = "default"

// Lookup resolves type names during resolution and projection.
type Lookup interface {
	// RecordType returns the introspection of a record type.
	RecordType(name string) (record.Type, bool)
	// Registry returns the map registry of a record type.
	Registry(name string) (*Registry, bool)
}

// Set owns the map registries of all record types of a catalog.
//
// Maps are declared during setup. Seal marks the set ready; declarations
// afterwards fail with ErrSealed. A Set is not safe for concurrent first-use
// resolution: call ResolveAll before sharing it.
type Set struct {
	catalog    record.Catalog
	registries map[string]*Registry
	order      []string
	log        zerolog.Logger
	sealed     bool
}

var _ Lookup = (*Set)(nil)

// SetOption configures a Set.
type SetOption func(*Set)

// WithLogger sets the logger used for declaration and resolution events.
func WithLogger(log zerolog.Logger) SetOption {
	return func(s *Set) {
		s.log = log
	}
}

// NewSet creates an empty set over the given catalog.
func NewSet(catalog record.Catalog, opts ...SetOption) *Set {
	s := &Set{
		catalog:    catalog,
		registries: make(map[string]*Registry),
		log:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MapOptions configures a map on definition.
type MapOptions struct {
	// Replace disables the merge with the base type's same-name map.
	Replace bool
}

// Define returns the named map of a type, creating it if needed, and applies
// block to it. Defining an existing map again reopens it.
func (s *Set) Define(typeName, mapName string, opts MapOptions, block func(*Map) error) (*Map, error) {
	if s.sealed {
		return nil, ErrSealed
	}

	if mapName == "" {
		mapName = DefaultMapName
	}

	reg, ok := s.Registry(typeName)
	if !ok {
		return nil, &ConfigurationError{
			Code:    CodeUnknownType,
			Type:    typeName,
			Map:     mapName,
			Message: fmt.Sprintf("type %q is not known", typeName),
		}
	}

	m := reg.define(mapName)
	if opts.Replace {
		m.replace = true
	}

	if block != nil {
		if err := block(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Map returns the named map of a type, including maps inherited from base
// types.
func (s *Set) Map(typeName, mapName string) (*Map, error) {
	if mapName == "" {
		mapName = DefaultMapName
	}

	reg, ok := s.Registry(typeName)
	if !ok {
		return nil, fmt.Errorf("%w %q", record.ErrUnknownType, typeName)
	}

	m, ok := reg.Map(mapName)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownMap, diagnostic.Subject(typeName, mapName))
	}

	return m, nil
}

// Catalog returns the record types the set was created with.
func (s *Set) Catalog() record.Catalog { return s.catalog }

// RecordType implements Lookup.
func (s *Set) RecordType(name string) (record.Type, bool) {
	if s.catalog == nil {
		return nil, false
	}

	return s.catalog.Type(name)
}

// Registry implements Lookup. Registries are created on first use for every
// type known to the catalog.
func (s *Set) Registry(name string) (*Registry, bool) {
	if reg, ok := s.registries[name]; ok {
		return reg, true
	}

	t, ok := s.RecordType(name)
	if !ok {
		return nil, false
	}

	reg := &Registry{
		set:      s,
		typeName: name,
		base:     t.Base(),
		maps:     newOrdered[*Map](),
	}

	s.registries[name] = reg
	s.order = append(s.order, name)

	return reg, true
}

// Registries returns the registries created so far, in creation order.
func (s *Set) Registries() []*Registry {
	out := make([]*Registry, len(s.order))
	for i, name := range s.order {
		out[i] = s.registries[name]
	}

	return out
}

// Seal marks the set ready. Later declarations fail with ErrSealed.
func (s *Set) Seal() { s.sealed = true }

// Sealed reports whether Seal was called.
func (s *Set) Sealed() bool { return s.sealed }

// ResolveAll resolves every registered map and reports failures as
// diagnostics.
func (s *Set) ResolveAll() diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	// registries may be added while resolving inherited maps
	for i := 0; i < len(s.order); i++ {
		reg := s.registries[s.order[i]]

		for _, m := range reg.Maps() {
			err := m.MustResolve()
			if err == nil {
				continue
			}

			s.log.Warn().Err(err).
				Str("type", m.typeName).
				Str("map", m.name).
				Msg("map failed to resolve")

			diags.Add(resolutionDiagnostic(m, err))
		}
	}

	return diags
}

func resolutionDiagnostic(m *Map, err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.DiagnosticError,
		Code:     "resolution_failed",
		Message:  err.Error(),
		Subject:  diagnostic.Subject(m.typeName, m.name),
	}

	if rerr, ok := asResolutionError(err); ok {
		d.Path = rerr.Relation
		if rerr.Err != nil {
			d.Message = rerr.Err.Error()
		}
	}

	if cerr, ok := asCircularMergeError(err); ok {
		d.Code = "circular_merge"
		d.Path = cerr.Relation
	}

	return d
}
