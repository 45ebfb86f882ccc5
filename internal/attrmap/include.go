package attrmap

import "strings"

// Include names optional fields, relations or groups to project, each with
// the include of the nested level.
type Include map[string]Include

// ParseInclude normalizes the accepted include shapes: a name, a list of
// names, a mapping from name to nested include, or lists mixing both.
// Unrecognized tokens are ignored.
func ParseInclude(v any) Include {
	out := Include{}
	out.add(v)

	if len(out) == 0 {
		return nil
	}

	return out
}

func (i Include) add(v any) {
	switch t := v.(type) {
	case nil:
	case string:
		for _, name := range strings.Split(t, ",") {
			if name = strings.TrimSpace(name); name != "" {
				if _, ok := i[name]; !ok {
					i[name] = nil
				}
			}
		}
	case []string:
		for _, name := range t {
			i.add(name)
		}
	case []any:
		for _, item := range t {
			i.add(item)
		}
	case Include:
		for name, nested := range t {
			i[name] = nested
		}
	case map[string]Include:
		for name, nested := range t {
			i[name] = nested
		}
	case map[string]any:
		for name, nested := range t {
			if b, ok := nested.(bool); ok {
				if b {
					i[name] = nil
				}

				continue
			}

			i[name] = ParseInclude(nested)
		}
	}
}

// Has reports whether name is included.
func (i Include) Has(name string) bool {
	_, ok := i[name]
	return ok
}

// Nested returns the include of the level below name.
func (i Include) Nested(name string) Include {
	return i[name]
}
