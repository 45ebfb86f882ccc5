// Package encode renders projections and decodes write input as JSON or YAML.
package encode

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format names an encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for format names other than json and yaml.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatYAML)}
}

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
	}
}

// FormatOf picks a format from a file name extension, defaulting to JSON.
func FormatOf(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}

	return FormatJSON
}

// Write encodes v to w in the given format.
func Write(w io.Writer, format Format, v any, compact bool) error {
	switch format {
	case FormatJSON:
		return JSON(w, v, compact)
	case FormatYAML:
		return YAML(w, v)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// JSON writes v as JSON followed by a newline. Ordered hashes keep their
// key order.
func JSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// YAML writes v as a YAML document.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return enc.Close()
}

// Read decodes a single document from r in the given format.
func Read(r io.Reader, format Format) (any, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatYAML:
		return DecodeYAML(r)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// DecodeJSON decodes a JSON document into plain values: maps with string
// keys, slices, strings, booleans, nil, int64 for integral numbers and
// float64 otherwise.
func DecodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	return normalize(v)
}

// DecodeYAML decodes a YAML document into the same shapes as DecodeJSON.
// Mapping keys are converted to strings. An empty document decodes to nil.
func DecodeYAML(r io.Reader) (any, error) {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}

	return normalize(v)
}

func normalize(v any) (any, error) {
	switch tv := v.(type) {
	case map[string]any:
		for k, item := range tv {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}

			tv[k] = n
		}

		return tv, nil
	case map[any]any:
		out := make(map[string]any, len(tv))

		for k, item := range tv {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}

			out[fmt.Sprint(k)] = n
		}

		return out, nil
	case []any:
		for i, item := range tv {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}

			tv[i] = n
		}

		return tv, nil
	case json.Number:
		if i, err := tv.Int64(); err == nil {
			return i, nil
		}

		f, err := tv.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", tv, err)
		}

		return f, nil
	case int:
		return int64(tv), nil
	default:
		return v, nil
	}
}
