package attrmap

import (
	"errors"
	"fmt"
	"strings"

	"attrmap/internal/diagnostic"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("attribute map configuration error")
	// ErrResolution matches every *ResolutionError.
	ErrResolution = errors.New("attribute map resolution error")
	// ErrCircularMerge matches every *CircularMergeError.
	ErrCircularMerge = errors.New("circular attribute map merge")
	// ErrSealed is returned by declarations made after Set.Seal.
	ErrSealed = errors.New("attribute map set is sealed")
	// ErrUnknownMap is returned when a type has no map of the requested name.
	ErrUnknownMap = errors.New("unknown attribute map")
)

// ErrorCode classifies configuration errors.
type ErrorCode string

const (
	CodeUnknownOption       ErrorCode = "unknown_option"
	CodeInvalidOption       ErrorCode = "invalid_option"
	CodeInvalidAccess       ErrorCode = "invalid_access"
	CodeWriterOnReadOnly    ErrorCode = "writer_on_read_only"
	CodeUnknownField        ErrorCode = "unknown_field"
	CodeUnknownRelation     ErrorCode = "unknown_relation"
	CodeUnknownTarget       ErrorCode = "unknown_target"
	CodeUnknownType         ErrorCode = "unknown_type"
	CodeMissingCapability   ErrorCode = "missing_capability"
	CodeEmptyReplace        ErrorCode = "empty_replace"
	CodePolymorphicOverride ErrorCode = "polymorphic_override"
	CodeDuplicateName       ErrorCode = "duplicate_name"
	CodeInvalidInputShape   ErrorCode = "invalid_input_shape"
)

// ConfigurationError reports an invalid declaration or an input of the
// wrong shape.
type ConfigurationError struct {
	Code ErrorCode
	// Type and Map identify the map being declared or used.
	Type string
	Map  string
	// Name is the field, relation, option or input path concerned.
	Name        string
	Message     string
	Suggestions []string
	Err         error
}

func (e *ConfigurationError) Error() string {
	d := diagnostic.Diagnostic{
		Code:        string(e.Code),
		Message:     e.Message,
		Subject:     diagnostic.Subject(e.Type, e.Map),
		Path:        e.Name,
		Suggestions: e.Suggestions,
	}

	msg := "attrmap: " + d.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Diagnostic converts the error into a diagnostic entry.
func (e *ConfigurationError) Diagnostic() diagnostic.Diagnostic {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticError,
		Code:        string(e.Code),
		Message:     msg,
		Subject:     diagnostic.Subject(e.Type, e.Map),
		Path:        e.Name,
		Suggestions: e.Suggestions,
	}
}

// ResolutionError reports a map that could not be resolved.
type ResolutionError struct {
	Type string
	Map  string
	// Relation is empty when the failure is not tied to a relation.
	Relation string
	Err      error
}

func (e *ResolutionError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "attrmap: cannot resolve %s", diagnostic.Subject(e.Type, e.Map))

	if e.Relation != "" {
		fmt.Fprintf(&b, " relation %q", e.Relation)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrResolution.
func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

// CircularMergeError reports two maps whose relations merge into each other.
type CircularMergeError struct {
	Type     string
	Map      string
	Relation string
	// Target is the type the relation points at; Back is its relation
	// pointing back at Type.
	Target string
	Back   string
}

func (e *CircularMergeError) Error() string {
	return fmt.Sprintf("attrmap: circular merge between %s relation %q and %s relation %q",
		diagnostic.Subject(e.Type, e.Map), e.Relation,
		diagnostic.Subject(e.Target, e.Map), e.Back)
}

// Is reports whether target is ErrCircularMerge.
func (e *CircularMergeError) Is(target error) bool { return target == ErrCircularMerge }

func (m *Map) configError(code ErrorCode, name, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Code:    code,
		Type:    m.typeName,
		Map:     m.name,
		Name:    name,
		Message: fmt.Sprintf(format, args...),
	}
}

func asResolutionError(err error) (*ResolutionError, bool) {
	var target *ResolutionError
	ok := errors.As(err, &target)

	return target, ok
}

func asCircularMergeError(err error) (*CircularMergeError, bool) {
	var target *CircularMergeError
	ok := errors.As(err, &target)

	return target, ok
}
