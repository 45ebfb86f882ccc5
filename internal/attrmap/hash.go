package attrmap

import (
	"bytes"
	"slices"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"attrmap/internal/common"
)

// Hash is an ordered string-keyed structure produced by projection.
type Hash struct {
	keys   []string
	values map[string]any
}

// NewHash creates an empty hash.
func NewHash() *Hash {
	return &Hash{values: make(map[string]any)}
}

// HashFromMap builds a hash from m with keys in sorted order.
func HashFromMap(m map[string]any) *Hash {
	h := NewHash()
	for _, k := range common.SortedKeys(m) {
		h.Set(k, m[k])
	}

	return h
}

// Set stores a value, keeping the position of an existing key.
func (h *Hash) Set(key string, value any) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}

	h.values[key] = value
}

// Get returns the value stored under key.
func (h *Hash) Get(key string) (any, bool) {
	v, ok := h.values[key]
	return v, ok
}

// Delete removes key.
func (h *Hash) Delete(key string) {
	if _, ok := h.values[key]; !ok {
		return
	}

	delete(h.values, key)
	h.keys = slices.DeleteFunc(h.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (h *Hash) Keys() []string { return slices.Clone(h.keys) }

// Len returns the number of keys.
func (h *Hash) Len() int { return len(h.keys) }

// ToMap converts the hash and every nested hash into plain maps.
func (h *Hash) ToMap() map[string]any {
	out := make(map[string]any, len(h.keys))
	for _, k := range h.keys {
		out[k] = plain(h.values[k])
	}

	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Hash:
		if t == nil {
			return nil
		}

		return t.ToMap()
	case []*Hash:
		out := make([]any, len(t))
		for i, h := range t {
			out[i] = plain(h)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}

		return out
	default:
		return v
	}
}

// MarshalJSON encodes the hash as an object with keys in insertion order.
func (h *Hash) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range h.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(h.values[k])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes the hash as a mapping with keys in insertion order.
func (h *Hash) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, k := range h.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}

		valueNode := &yaml.Node{}
		if err := valueNode.Encode(h.values[k]); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node, nil
}
