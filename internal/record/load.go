package record

import (
	"fmt"

	"attrmap/internal/common"
)

// TypeKey selects the concrete model of a loaded record. Its value is matched
// against model names and discriminators.
const TypeKey = "@type"

// Load builds an instance of the named model, or of the subtype selected by
// TypeKey, from decoded data. Column keys set values and relation keys load
// nested records of the relation target.
func (c *Models) Load(typeName string, data map[string]any) (*Instance, error) {
	m, ok := c.models[typeName]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, typeName)
	}

	if raw, ok := data[TypeKey]; ok {
		concrete, err := c.concrete(m, raw)
		if err != nil {
			return nil, err
		}

		m = concrete
	}

	inst := m.New()

	for _, key := range common.SortedKeys(data) {
		if key == TypeKey {
			continue
		}

		value := data[key]

		if _, isColumn := m.Column(key); isColumn {
			inst.values[key] = value
			continue
		}

		info, err := m.Relation(key)
		if err != nil {
			return nil, fmt.Errorf("%w %s.%s", ErrUnknownField, m.name, key)
		}

		if err := c.loadRelated(inst, info, value); err != nil {
			return nil, err
		}
	}

	return inst, nil
}

// LoadAll loads a sequence of records of the named model.
func (c *Models) LoadAll(typeName string, data []any) ([]*Instance, error) {
	out := make([]*Instance, 0, len(data))

	for i, item := range data {
		attrs, ok := asAttributes(item)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d]: expected a mapping, got %T", ErrInvalidAttributes, typeName, i, item)
		}

		inst, err := c.Load(typeName, attrs)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", typeName, i, err)
		}

		out = append(out, inst)
	}

	return out, nil
}

func (c *Models) loadRelated(inst *Instance, info RelationInfo, value any) error {
	if value == nil {
		return nil
	}

	if !info.Many {
		attrs, ok := asAttributes(value)
		if !ok {
			return fmt.Errorf("%w: %s.%s expects a mapping, got %T", ErrInvalidAttributes, inst.model.name, info.Name, value)
		}

		member, err := c.Load(info.Target, attrs)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", inst.model.name, info.Name, err)
		}

		inst.related[info.Name] = member

		return nil
	}

	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("%w: %s.%s expects a sequence, got %T", ErrInvalidAttributes, inst.model.name, info.Name, value)
	}

	loaded, err := c.LoadAll(info.Target, items)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", inst.model.name, info.Name, err)
	}

	members := make([]Record, len(loaded))
	for i, m := range loaded {
		members[i] = m
	}

	inst.related[info.Name] = members

	return nil
}

func (c *Models) concrete(m *Model, raw any) (*Model, error) {
	name, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidAttributes, TypeKey, raw)
	}

	for _, candidate := range c.order {
		sub := c.models[candidate]
		if sub.name != name && sub.discriminator != name {
			continue
		}

		if !IsA(c, sub, m.name) {
			return nil, fmt.Errorf("%w: %q is not a %s", ErrInvalidAttributes, name, m.name)
		}

		return sub, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownType, name)
}
