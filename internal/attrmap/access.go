package attrmap

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Access,OverrideMode,SchemaMode -linecomment -output=enum_string.go

// Access controls which paths a field or relation takes part in.
type Access int

const (
	ReadWrite Access = iota // rw
	ReadOnly                // ro
	WriteOnly               // wo
	Excluded                // excluded
)

// Readable reports whether values appear in projections.
func (a Access) Readable() bool { return a == ReadWrite || a == ReadOnly }

// Writable reports whether values are accepted by translation.
func (a Access) Writable() bool { return a == ReadWrite || a == WriteOnly }

// ParseAccess accepts an Access or one of its names.
func ParseAccess(v any) (Access, error) {
	switch t := v.(type) {
	case nil:
		return ReadWrite, nil
	case Access:
		if t < ReadWrite || t > Excluded {
			return 0, fmt.Errorf("invalid access mode %d", int(t))
		}

		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "rw", "read_write", "readwrite":
			return ReadWrite, nil
		case "ro", "read_only", "readonly", "read":
			return ReadOnly, nil
		case "wo", "write_only", "writeonly", "write":
			return WriteOnly, nil
		case "excluded", "exclude", "none":
			return Excluded, nil
		}

		return 0, fmt.Errorf("invalid access mode %q", t)
	default:
		return 0, fmt.Errorf("invalid access mode of type %T", v)
	}
}

// OverrideMode selects how an explicit nested map combines with the target
// type's own map.
type OverrideMode int

const (
	Merge   OverrideMode = iota // merge
	Replace                     // replace
)

// ParseOverrideMode accepts an OverrideMode or one of its names.
func ParseOverrideMode(v any) (OverrideMode, error) {
	switch t := v.(type) {
	case nil:
		return Merge, nil
	case OverrideMode:
		if t != Merge && t != Replace {
			return 0, fmt.Errorf("invalid override mode %d", int(t))
		}

		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "merge":
			return Merge, nil
		case "replace":
			return Replace, nil
		}

		return 0, fmt.Errorf("invalid override mode %q", t)
	default:
		return 0, fmt.Errorf("invalid override mode of type %T", v)
	}
}

// SchemaMode selects which side of a map Schema describes.
type SchemaMode int

const (
	SchemaRead  SchemaMode = iota // read
	SchemaWrite                   // write
	SchemaBoth                    // both
)

// ParseSchemaMode parses "read", "write" or "both".
func ParseSchemaMode(s string) (SchemaMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read", "r":
		return SchemaRead, nil
	case "write", "w":
		return SchemaWrite, nil
	case "both", "", "rw":
		return SchemaBoth, nil
	default:
		return 0, fmt.Errorf("invalid schema mode %q", s)
	}
}

func (s SchemaMode) includes(a Access) bool {
	switch s {
	case SchemaRead:
		return a.Readable()
	case SchemaWrite:
		return a.Writable()
	default:
		return a != Excluded
	}
}
