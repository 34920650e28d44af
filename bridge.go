package parambridge

import (
	"errors"
	"reflect"

	"github.com/goliatone/go-parambridge/pkg/conversion"
	"github.com/goliatone/go-parambridge/pkg/params"
	"github.com/goliatone/go-parambridge/pkg/render/template"
)

// ErrNilValue is returned when a nil value is handed to the bridge. Converter
// lookup is keyed by the value's runtime type, which nil does not have.
var ErrNilValue = errors.New("parambridge: value is nil")

// Option customises a Bridge.
type Option func(*Bridge)

// WithFallback overrides the service used when no converter is registered.
// It defaults to conversion.NewStandard().
func WithFallback(fallback conversion.Service) Option {
	return func(b *Bridge) {
		if fallback != nil {
			b.fallback = fallback
		}
	}
}

// Bridge is a conversion.Service backed by REST parameter converters. Values
// whose exact runtime type has an unqualified converter in the registry are
// converted by it; everything else goes to the fallback service.
//
// A Bridge holds no mutable state and is safe for concurrent use. Converter
// and fallback errors are returned exactly as produced.
type Bridge struct {
	registry params.Lookuper
	fallback conversion.Service
}

var _ conversion.Service = (*Bridge)(nil)

// New constructs a Bridge over registry. The registry is shared, not owned.
func New(registry params.Lookuper, options ...Option) *Bridge {
	b := &Bridge{
		registry: registry,
		fallback: conversion.NewStandard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// ToString converts value with the converter registered for its runtime
// type, or with the fallback service when there is none.
func (b *Bridge) ToString(ctx conversion.Context, value any) (string, error) {
	if value == nil {
		return "", ErrNilValue
	}
	if conv, ok := b.lookup(reflect.TypeOf(value)); ok {
		return conv.ToString(value)
	}
	return b.fallback.ToString(ctx, value)
}

// ConvertOther parses string values with the converter registered for
// target. Non-string values, and strings without a converter, go to the
// fallback service.
func (b *Bridge) ConvertOther(ctx conversion.Context, value any, target reflect.Type) (any, error) {
	if value == nil {
		return nil, ErrNilValue
	}
	if text, ok := value.(string); ok {
		if conv, found := b.lookup(target); found {
			return conv.FromString(text)
		}
	}
	return b.fallback.ConvertOther(ctx, value, target)
}

// InstallInto sets b as the conversion service of every StandardDialect the
// engine exposes. Engines without a standard dialect are left untouched.
// Call it during bootstrap, before templates render concurrently.
func (b *Bridge) InstallInto(engine template.DialectSource) {
	if engine == nil {
		return
	}
	for _, d := range engine.Dialects() {
		if standard, ok := d.(*template.StandardDialect); ok {
			standard.SetConversionService(b)
		}
	}
}

// only unqualified, non-generic registrations are visible here
func (b *Bridge) lookup(t reflect.Type) (params.Converter, bool) {
	if b.registry == nil || t == nil {
		return nil, false
	}
	return b.registry.Lookup(t, t, nil)
}
