package record

import (
	"errors"
	"fmt"
	"unicode"
)

// Column declares a named, typed column.
type Column struct {
	Name string
	Type ColumnType
}

// RelationDef declares a relation of a model.
type RelationDef struct {
	Name   string
	Target string
	Many   bool
	// NestedAttributes enables bulk nested assignment for the relation.
	NestedAttributes bool
}

// ModelDef declares a model.
type ModelDef struct {
	Name string
	// Base names the model this one derives from (single table inheritance).
	Base string
	// Discriminator defaults to Name.
	Discriminator string
	Columns       []Column
	Relations     []RelationDef
}

// Models is an in-memory catalog of models.
type Models struct {
	models map[string]*Model
	order  []string
}

// NewModels creates an empty catalog.
func NewModels() *Models {
	return &Models{
		models: make(map[string]*Model),
	}
}

// Define adds a model to the catalog.
// Base and relation targets may be declared later; Validate checks them.
func (c *Models) Define(def ModelDef) (*Model, error) {
	if def.Name == "" {
		return nil, errors.New("model name is required")
	}

	if _, exists := c.models[def.Name]; exists {
		return nil, fmt.Errorf("model %q already defined", def.Name)
	}

	m := &Model{
		models:        c,
		name:          def.Name,
		base:          def.Base,
		discriminator: def.Discriminator,
		columnIndex:   make(map[string]ColumnType, len(def.Columns)),
		relations:     make(map[string]RelationDef, len(def.Relations)),
	}

	if m.discriminator == "" {
		m.discriminator = def.Name
	}

	for _, col := range def.Columns {
		if !validColumnName(col.Name) {
			return nil, fmt.Errorf("model %q: invalid column name %q", def.Name, col.Name)
		}

		if _, err := ParseColumnType(string(col.Type)); err != nil {
			return nil, fmt.Errorf("model %q column %q: %w", def.Name, col.Name, err)
		}

		if _, dup := m.columnIndex[col.Name]; dup {
			return nil, fmt.Errorf("model %q: duplicate column %q", def.Name, col.Name)
		}

		m.columns = append(m.columns, col)
		m.columnIndex[col.Name] = col.Type
	}

	for _, rel := range def.Relations {
		if rel.Name == "" {
			return nil, fmt.Errorf("model %q: relation name is required", def.Name)
		}

		if _, dup := m.relations[rel.Name]; dup {
			return nil, fmt.Errorf("model %q: duplicate relation %q", def.Name, rel.Name)
		}

		if _, clash := m.columnIndex[rel.Name]; clash {
			return nil, fmt.Errorf("model %q: relation %q clashes with a column", def.Name, rel.Name)
		}

		m.relations[rel.Name] = rel
		m.relationOrder = append(m.relationOrder, rel.Name)
	}

	c.models[def.Name] = m
	c.order = append(c.order, def.Name)

	return m, nil
}

// Validate checks that every base type and relation target is defined and
// that no inheritance chain loops.
func (c *Models) Validate() error {
	var errs []error

	for _, name := range c.order {
		m := c.models[name]

		if m.base != "" {
			if _, ok := c.models[m.base]; !ok {
				errs = append(errs, fmt.Errorf("model %q: base %w %q", name, ErrUnknownType, m.base))
			} else if c.inheritanceLoops(m) {
				errs = append(errs, fmt.Errorf("model %q: inheritance cycle", name))
			}
		}

		for _, relName := range m.relationOrder {
			rel := m.relations[relName]
			if _, ok := c.models[rel.Target]; !ok {
				errs = append(errs, fmt.Errorf("model %q relation %q: target %w %q", name, relName, ErrUnknownType, rel.Target))
			}
		}
	}

	return errors.Join(errs...)
}

func (c *Models) inheritanceLoops(m *Model) bool {
	seen := map[string]bool{m.name: true}

	for cur := c.models[m.base]; cur != nil; cur = c.models[cur.base] {
		if seen[cur.name] {
			return true
		}

		seen[cur.name] = true
	}

	return false
}

// Type implements Catalog.
func (c *Models) Type(name string) (Type, bool) {
	m, ok := c.models[name]
	if !ok {
		return nil, false
	}

	return m, true
}

// Model returns the named model.
func (c *Models) Model(name string) (*Model, bool) {
	m, ok := c.models[name]
	return m, ok
}

// Names returns model names in definition order.
func (c *Models) Names() []string {
	return append([]string(nil), c.order...)
}

// Model is an in-memory record type.
type Model struct {
	models        *Models
	name          string
	base          string
	discriminator string
	columns       []Column
	columnIndex   map[string]ColumnType
	relations     map[string]RelationDef
	relationOrder []string
}

var _ Type = (*Model)(nil)

// Name implements Type.
func (m *Model) Name() string { return m.name }

// Base implements Type.
func (m *Model) Base() string { return m.base }

// Discriminator implements Type.
func (m *Model) Discriminator() string { return m.discriminator }

// baseModel returns the parent model, or nil for root models.
func (m *Model) baseModel() *Model {
	if m.base == "" || m.models == nil {
		return nil
	}

	return m.models.models[m.base]
}

// Column implements Type. Columns of base models are inherited.
func (m *Model) Column(name string) (ColumnType, bool) {
	for cur, depth := m, 0; cur != nil && depth <= len(m.models.models); cur, depth = cur.baseModel(), depth+1 {
		if ct, ok := cur.columnIndex[name]; ok {
			return ct, true
		}
	}

	return "", false
}

// Columns returns all columns, base model columns first.
func (m *Model) Columns() []Column {
	var chain []*Model
	for cur := m; cur != nil && len(chain) <= len(m.models.models); cur = cur.baseModel() {
		chain = append(chain, cur)
	}

	var cols []Column
	for i := len(chain) - 1; i >= 0; i-- {
		cols = append(cols, chain[i].columns...)
	}

	return cols
}

func (m *Model) relationDef(name string) (RelationDef, bool) {
	for cur, depth := m, 0; cur != nil && depth <= len(m.models.models); cur, depth = cur.baseModel(), depth+1 {
		if rel, ok := cur.relations[name]; ok {
			return rel, true
		}
	}

	return RelationDef{}, false
}

// Relation implements Type. Relations of base models are inherited.
func (m *Model) Relation(name string) (RelationInfo, error) {
	rel, ok := m.relationDef(name)
	if !ok {
		return RelationInfo{}, fmt.Errorf("%w %s.%s", ErrUnknownRelation, m.name, name)
	}

	return RelationInfo{Name: rel.Name, Target: rel.Target, Many: rel.Many}, nil
}

// AcceptsNestedAttributes implements Type.
func (m *Model) AcceptsNestedAttributes(relation string) bool {
	rel, ok := m.relationDef(relation)
	return ok && rel.NestedAttributes
}

// validColumnName reports whether name is a non-empty run of letters, digits
// and underscores.
func validColumnName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}
