package attrmap

import (
	"maps"

	"github.com/rs/zerolog"

	"attrmap/internal/common"
	"attrmap/internal/record"
)

type resolveState int

const (
	unresolved resolveState = iota
	resolving
	resolved
)

// Map is a named view of a record type: which fields and relations are
// exposed, under which public names and access rules.
type Map struct {
	set      *Set
	log      zerolog.Logger
	typeName string
	rtype    record.Type
	name     string

	fields    ordered[*Field]
	relations ordered[*Relation]
	// excluded holds names removed by access_mode=excluded; merging this map
	// onto another removes them there too.
	excluded map[string]bool
	// writeIndex maps public field names to translated keys.
	writeIndex map[string]string
	bindings   *Bindings

	// replace disables the merge with the base type's map.
	replace    bool
	baseMerged bool
	state      resolveState
}

func newMap(set *Set, typeName string, rtype record.Type, name string) *Map {
	m := &Map{
		set:        set,
		log:        zerolog.Nop(),
		typeName:   typeName,
		rtype:      rtype,
		name:       name,
		fields:     newOrdered[*Field](),
		relations:  newOrdered[*Relation](),
		excluded:   make(map[string]bool),
		writeIndex: make(map[string]string),
		bindings:   newBindings(),
	}

	if set != nil {
		m.log = set.log
	}

	return m
}

// TypeName returns the owning record type name.
func (m *Map) TypeName() string { return m.typeName }

// Name returns the map name.
func (m *Map) Name() string { return m.name }

// Replace reports whether the map replaces the base type's map instead of
// merging with it.
func (m *Map) Replace() bool { return m.replace }

// Resolved reports whether resolution completed.
func (m *Map) Resolved() bool { return m.state == resolved }

// Bindings returns the custom accessors of the map.
func (m *Map) Bindings() *Bindings { return m.bindings }

// Empty reports whether nothing was declared on the map.
func (m *Map) Empty() bool {
	return m.fields.len() == 0 && m.relations.len() == 0 && len(m.excluded) == 0
}

// Fields returns the fields in declaration order.
func (m *Map) Fields() []*Field { return m.fields.values() }

// Relations returns the relations in declaration order.
func (m *Map) Relations() []*Relation { return m.relations.values() }

// Field returns the field with the given public name.
func (m *Map) Field(name string) (*Field, bool) { return m.fields.get(name) }

// Relation returns the relation with the given public name.
func (m *Map) Relation(name string) (*Relation, bool) { return m.relations.get(name) }

// Excluded returns the names removed through access_mode=excluded.
func (m *Map) Excluded() []string { return common.SortedKeys(m.excluded) }

// WriteIndex returns a copy of the public name to translated key index.
func (m *Map) WriteIndex() map[string]string { return maps.Clone(m.writeIndex) }

// Copy deep-clones fields, relations, exclusion markers, bindings and
// resolution flags. Nested maps of relations are shared, not cloned.
func (m *Map) Copy() *Map {
	state := m.state
	if state == resolving {
		state = unresolved
	}

	return &Map{
		set:        m.set,
		log:        m.log,
		typeName:   m.typeName,
		rtype:      m.rtype,
		name:       m.name,
		fields:     m.fields.cloneWith((*Field).clone),
		relations:  m.relations.cloneWith((*Relation).clone),
		excluded:   maps.Clone(m.excluded),
		writeIndex: maps.Clone(m.writeIndex),
		bindings:   m.bindings.clone(),
		replace:    m.replace,
		baseMerged: m.baseMerged,
		state:      state,
	}
}

// adopt replaces the contents of m with those of other, keeping m's identity
// and flags.
func (m *Map) adopt(other *Map) {
	m.fields = other.fields
	m.relations = other.relations
	m.excluded = other.excluded
	m.bindings = other.bindings
	m.rebuildWriteIndex()
}

func (m *Map) rebuildWriteIndex() {
	m.writeIndex = make(map[string]string, m.fields.len())

	for _, f := range m.fields.values() {
		if f.Access.Writable() {
			m.writeIndex[f.Name] = f.writeTarget()
		}
	}
}

func (m *Map) sealed() bool {
	return m.set != nil && m.set.Sealed()
}
