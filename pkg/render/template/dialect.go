package template

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-parambridge/pkg/conversion"
)

// StandardDialectName is the name reported by StandardDialect.
const StandardDialectName = "standard"

// ErrUnknownType is returned when a template names a conversion target that
// was never registered on the dialect.
var ErrUnknownType = errors.New("template: unknown conversion type")

// Dialect is an extension module plugged into a template engine. Functions
// are exposed to templates as callable globals.
type Dialect interface {
	Name() string
	Functions() map[string]any
}

// DialectOption configures a StandardDialect.
type DialectOption func(*StandardDialect)

// WithConversionService sets the dialect's initial conversion service.
func WithConversionService(svc conversion.Service) DialectOption {
	return func(d *StandardDialect) {
		if svc != nil {
			d.service = svc
		}
	}
}

// WithType makes target addressable from templates as name, e.g.
// parse("10.50", "money").
func WithType(name string, target reflect.Type) DialectOption {
	return func(d *StandardDialect) {
		d.setType(name, target)
	}
}

// StandardDialect is the engine's built-in dialect. It owns the conversion
// service used by template expressions and exposes it as two functions:
//
//	{{ str(order.Total) }}          -> ConversionService().ToString
//	{{ parse("10.50", "money") }}   -> conversion.Convert to the named type
//
// The service is read on every call, so replacing it after the engine is
// built takes effect on the next render. Replacement is meant for bootstrap;
// it is not coordinated with in-flight renders.
type StandardDialect struct {
	mu      sync.RWMutex
	service conversion.Service
	types   map[string]reflect.Type
}

var _ Dialect = (*StandardDialect)(nil)

// NewStandardDialect builds the standard dialect with the default conversion
// service and the built-in scalar type names.
func NewStandardDialect(options ...DialectOption) *StandardDialect {
	d := &StandardDialect{
		service: conversion.NewStandard(),
		types:   make(map[string]reflect.Type),
	}
	d.setType("string", reflect.TypeOf(""))
	d.setType("bool", reflect.TypeOf(false))
	d.setType("int", reflect.TypeOf(0))
	d.setType("int64", reflect.TypeOf(int64(0)))
	d.setType("float", reflect.TypeOf(float64(0)))
	d.setType("duration", reflect.TypeOf(time.Duration(0)))
	d.setType("time", reflect.TypeOf(time.Time{}))

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// RegisterType is the typed form of WithType for an existing dialect.
func RegisterType[T any](d *StandardDialect, name string) {
	if d == nil {
		return
	}
	d.setType(name, reflect.TypeOf((*T)(nil)).Elem())
}

// Name implements Dialect.
func (d *StandardDialect) Name() string { return StandardDialectName }

// ConversionService returns the configured conversion service.
func (d *StandardDialect) ConversionService() conversion.Service {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.service
}

// SetConversionService replaces the configured conversion service. Nil
// restores the default service.
func (d *StandardDialect) SetConversionService(svc conversion.Service) {
	if svc == nil {
		svc = conversion.NewStandard()
	}
	d.mu.Lock()
	d.service = svc
	d.mu.Unlock()
}

// Type resolves a registered type name.
func (d *StandardDialect) Type(name string) (reflect.Type, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.types[normalizeTypeName(name)]
	return t, ok
}

// TypeNames lists the registered type names in sorted order.
func (d *StandardDialect) TypeNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.types))
	for name := range d.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Functions implements Dialect.
func (d *StandardDialect) Functions() map[string]any {
	return map[string]any{
		"str":   d.stringify,
		"parse": d.parse,
	}
}

func (d *StandardDialect) stringify(value any) (string, error) {
	return d.ConversionService().ToString(d.context("str"), value)
}

func (d *StandardDialect) parse(value any, typeName string) (any, error) {
	target, ok := d.Type(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	return conversion.Convert(d.ConversionService(), d.context("parse"), value, target)
}

func (d *StandardDialect) context(expression string) conversion.Context {
	return conversion.Context{Dialect: StandardDialectName, Expression: expression}
}

func (d *StandardDialect) setType(name string, target reflect.Type) {
	key := normalizeTypeName(name)
	if key == "" || target == nil {
		return
	}
	d.mu.Lock()
	d.types[key] = target
	d.mu.Unlock()
}

func normalizeTypeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
