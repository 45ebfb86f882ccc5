package definition

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"attrmap/internal/attrmap"
	"attrmap/internal/common"
	"attrmap/internal/record"
)

const nullTag = "!!null"

// File represents the root of a definition file.
type File struct {
	Version string     `yaml:"version"`
	Models  []ModelDef `yaml:"models,omitempty"`
	Maps    []MapDef   `yaml:"maps"`
}

// ModelDef declares a record type for the in-memory record store.
type ModelDef struct {
	Name          string       `yaml:"name"`
	Base          string       `yaml:"base,omitempty"`
	Discriminator string       `yaml:"discriminator,omitempty"`
	Columns       Columns      `yaml:"columns,omitempty"`
	Relations     RelationDefs `yaml:"relations,omitempty"`
}

// Columns is an ordered "name: type" mapping.
type Columns []record.Column

// RelationDefs is an ordered "name: {target, many, nested_attributes}"
// mapping.
type RelationDefs []record.RelationDef

// relationDefYAML is the YAML shape of one relation of a model.
type relationDefYAML struct {
	Target           string `yaml:"target"`
	Many             bool   `yaml:"many,omitempty"`
	NestedAttributes bool   `yaml:"nested_attributes,omitempty"`
}

// MapDef declares one attribute map.
type MapDef struct {
	Type    string `yaml:"type"`
	Name    string `yaml:"name,omitempty"`
	Replace bool   `yaml:"replace,omitempty"`
	Block   `yaml:",inline"`
}

// Block holds the fields and relations declared at one level.
type Block struct {
	Fields    Entries `yaml:"fields,omitempty"`
	Relations Entries `yaml:"relations,omitempty"`
}

// Empty reports whether the block declares nothing.
func (b Block) Empty() bool {
	return len(b.Fields) == 0 && len(b.Relations) == 0
}

// Entry is one declared field or relation.
type Entry struct {
	Name    string
	Options map[string]any
	// Block is the nested declaration of a relation, nil when none was given.
	Block *Block
	// Line is the source line of the entry, 0 when unknown.
	Line int
}

// Entries is an ordered list of declarations. In YAML it is written as a
// mapping from name to options, or as a list of names.
type Entries []Entry

// Names returns the entry names in order.
func (e Entries) Names() []string {
	names := make([]string, len(e))
	for i := range e {
		names[i] = e[i].Name
	}

	return names
}

// --- Entries YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for Entries.
// Accepts:
//   - List of names: [title, body]
//   - Mapping: {title: {}, created_at: ro, comments: {optional_group: true, fields: {...}}}
//
// A scalar value is shorthand for access_mode; "fields" and "relations"
// keys form the nested block.
func (e *Entries) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		out := make(Entries, 0, len(node.Content))

		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected a name, got %v", item.Line, item.Kind)
			}

			out = append(out, Entry{Name: item.Value, Line: item.Line})
		}

		*e = out

		return nil

	case yaml.MappingNode:
		out := make(Entries, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			entry, err := parseEntry(node.Content[i], node.Content[i+1])
			if err != nil {
				return err
			}

			out = append(out, entry)
		}

		*e = out

		return nil

	default:
		return fmt.Errorf("line %d: expected a mapping or a list of names, got %v", node.Line, node.Kind)
	}
}

// parseEntry parses one "name: value" pair of an Entries mapping.
func parseEntry(key, value *yaml.Node) (Entry, error) {
	entry := Entry{Name: key.Value, Line: key.Line, Options: map[string]any{}}

	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == nullTag {
			return entry, nil
		}

		entry.Options[attrmap.OptAccessMode] = value.Value

		return entry, nil

	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			k, v := value.Content[i], value.Content[i+1]

			switch k.Value {
			case "fields", "relations":
				if entry.Block == nil {
					entry.Block = &Block{}
				}

				target := &entry.Block.Fields
				if k.Value == "relations" {
					target = &entry.Block.Relations
				}

				if v.ShortTag() == nullTag {
					continue
				}

				if err := v.Decode(target); err != nil {
					return Entry{}, fmt.Errorf("%s: %w", entry.Name, err)
				}
			default:
				var opt any
				if err := v.Decode(&opt); err != nil {
					return Entry{}, fmt.Errorf("%s.%s: %w", entry.Name, k.Value, err)
				}

				entry.Options[k.Value] = opt
			}
		}

		return entry, nil

	default:
		return Entry{}, fmt.Errorf("line %d: %s: expected options mapping or access mode, got %v", value.Line, entry.Name, value.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for Entries.
// Outputs a mapping in declaration order.
func (e Entries) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, entry := range e {
		value := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

		for _, k := range common.SortedKeys(entry.Options) {
			v := &yaml.Node{}
			if err := v.Encode(entry.Options[k]); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", entry.Name, k, err)
			}

			value.Content = append(value.Content, scalar(k), v)
		}

		if entry.Block != nil {
			for _, part := range []struct {
				key     string
				entries Entries
			}{{"fields", entry.Block.Fields}, {"relations", entry.Block.Relations}} {
				// an empty block is still written so that it survives a round trip
				if len(part.entries) == 0 && (part.key == "relations" || !entry.Block.Empty()) {
					continue
				}

				nested, err := part.entries.MarshalYAML()
				if err != nil {
					return nil, err
				}

				value.Content = append(value.Content, scalar(part.key), nested.(*yaml.Node))
			}
		}

		node.Content = append(node.Content, scalar(entry.Name), value)
	}

	return node, nil
}

// --- Columns YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for Columns.
func (c *Columns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: columns: expected a mapping of name to type, got %v", node.Line, node.Kind)
	}

	out := make(Columns, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]

		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: column %s: expected a type name", v.Line, k.Value)
		}

		out = append(out, record.Column{Name: k.Value, Type: record.ColumnType(v.Value)})
	}

	*c = out

	return nil
}

// MarshalYAML implements custom YAML marshaling for Columns.
func (c Columns) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, col := range c {
		node.Content = append(node.Content, scalar(col.Name), scalar(string(col.Type)))
	}

	return node, nil
}

// --- RelationDefs YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for RelationDefs.
func (r *RelationDefs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: relations: expected a mapping, got %v", node.Line, node.Kind)
	}

	out := make(RelationDefs, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]

		var def relationDefYAML

		// shorthand: "author: Author"
		if v.Kind == yaml.ScalarNode {
			def.Target = v.Value
		} else if err := v.Decode(&def); err != nil {
			return fmt.Errorf("relation %s: %w", k.Value, err)
		}

		if def.Target == "" {
			return errors.New("relation " + k.Value + ": target is required")
		}

		out = append(out, record.RelationDef{
			Name:             k.Value,
			Target:           def.Target,
			Many:             def.Many,
			NestedAttributes: def.NestedAttributes,
		})
	}

	*r = out

	return nil
}

// MarshalYAML implements custom YAML marshaling for RelationDefs.
func (r RelationDefs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, rel := range r {
		v := &yaml.Node{}

		err := v.Encode(relationDefYAML{Target: rel.Target, Many: rel.Many, NestedAttributes: rel.NestedAttributes})
		if err != nil {
			return nil, err
		}

		node.Content = append(node.Content, scalar(rel.Name), v)
	}

	return node, nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
