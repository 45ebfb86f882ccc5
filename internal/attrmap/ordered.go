package attrmap

import "slices"

// ordered is a string-keyed map that remembers insertion order.
type ordered[V any] struct {
	keys  []string
	items map[string]V
}

func newOrdered[V any]() ordered[V] {
	return ordered[V]{items: make(map[string]V)}
}

func (o *ordered[V]) get(key string) (V, bool) {
	v, ok := o.items[key]
	return v, ok
}

// set replaces an existing entry in place or appends a new one.
func (o *ordered[V]) set(key string, v V) {
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.items[key] = v
}

func (o *ordered[V]) delete(key string) bool {
	if _, ok := o.items[key]; !ok {
		return false
	}

	delete(o.items, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })

	return true
}

func (o *ordered[V]) len() int { return len(o.keys) }

func (o *ordered[V]) values() []V {
	out := make([]V, len(o.keys))
	for i, k := range o.keys {
		out[i] = o.items[k]
	}

	return out
}

// cloneWith copies the container, cloning each value with fn.
func (o *ordered[V]) cloneWith(fn func(V) V) ordered[V] {
	out := ordered[V]{
		keys:  slices.Clone(o.keys),
		items: make(map[string]V, len(o.items)),
	}

	for k, v := range o.items {
		out.items[k] = fn(v)
	}

	return out
}
