package params

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is returned when a converter receives a value of the
	// wrong type.
	ErrTypeMismatch = errors.New("params: value type mismatch")
	// ErrNoConverter is returned when no converter is registered for a type.
	ErrNoConverter = errors.New("params: no converter registered")
	// ErrParamMissing is returned when a request does not carry a parameter.
	ErrParamMissing = errors.New("params: parameter missing")
	// ErrEmptyValue is returned by built-in converters for blank input.
	ErrEmptyValue = errors.New("params: empty value")
)

// Source identifies where a request parameter was read from.
type Source int

const (
	SourceUnknown Source = iota
	SourceQuery
	SourcePath
	SourceHeader
)

func (s Source) String() string {
	switch s {
	case SourceQuery:
		return "query"
	case SourcePath:
		return "path"
	case SourceHeader:
		return "header"
	default:
		return "unknown"
	}
}

// ParamError describes a request parameter that could not be converted.
type ParamError struct {
	Source Source
	Name   string
	Value  string
	Err    error
}

func (e *ParamError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("params: %s parameter %q: %v", e.Source, e.Name, e.Err)
	}
	return fmt.Sprintf("params: %s parameter %q (value %q): %v", e.Source, e.Name, e.Value, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }
