package params

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Query converts the named URL query parameter into T using the converter
// registered for T and the supplied annotations.
func Query[T any](reg Lookuper, r *http.Request, name string, annotations ...Annotation) (T, error) {
	var raw string
	present := false
	if r != nil && r.URL != nil {
		values := r.URL.Query()
		present = values.Has(name)
		raw = values.Get(name)
	}
	return decode[T](reg, SourceQuery, name, raw, present, annotations)
}

// QueryOr is Query with a fallback for absent parameters. Present but
// malformed values still return an error.
func QueryOr[T any](reg Lookuper, r *http.Request, name string, fallback T, annotations ...Annotation) (T, error) {
	v, err := Query[T](reg, r, name, annotations...)
	if errors.Is(err, ErrParamMissing) {
		return fallback, nil
	}
	return v, err
}

// Header converts the named request header into T.
func Header[T any](reg Lookuper, r *http.Request, name string, annotations ...Annotation) (T, error) {
	var raw string
	present := false
	if r != nil {
		values := r.Header.Values(name)
		present = len(values) > 0
		if present {
			raw = values[0]
		}
	}
	return decode[T](reg, SourceHeader, name, raw, present, annotations)
}

// Path converts the named chi route parameter into T.
func Path[T any](reg Lookuper, r *http.Request, name string, annotations ...Annotation) (T, error) {
	var raw string
	if r != nil {
		raw = chi.URLParam(r, name)
	}
	return decode[T](reg, SourcePath, name, raw, raw != "", annotations)
}

func decode[T any](reg Lookuper, source Source, name, raw string, present bool, annotations []Annotation) (T, error) {
	var zero T
	if reg == nil {
		return zero, fmt.Errorf("params: registry is required")
	}
	name = strings.TrimSpace(name)
	if !present {
		return zero, &ParamError{Source: source, Name: name, Err: ErrParamMissing}
	}

	target := typeOf[T]()
	conv, ok := reg.Lookup(target, target, annotations)
	if !ok {
		return zero, &ParamError{Source: source, Name: name, Value: raw, Err: fmt.Errorf("%w for %s", ErrNoConverter, target)}
	}

	v, err := conv.FromString(raw)
	if err != nil {
		return zero, &ParamError{Source: source, Name: name, Value: raw, Err: err}
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &ParamError{Source: source, Name: name, Value: raw, Err: fmt.Errorf("%w: converter returned %T, want %s", ErrTypeMismatch, v, target)}
	}
	return typed, nil
}
