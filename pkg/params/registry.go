package params

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Annotation qualifies a converter registration, mirroring the per-parameter
// metadata REST handlers declare (formats, units, locales).
type Annotation struct {
	Key   string
	Value string
}

func (a Annotation) String() string {
	if a.Value == "" {
		return a.Key
	}
	return a.Key + "=" + a.Value
}

// Lookuper resolves converters. Registry is the canonical implementation.
type Lookuper interface {
	Lookup(raw, generic reflect.Type, annotations []Annotation) (Converter, bool)
}

// Provider supplies converters on demand when no exact registration matches.
// Implementations must be safe for concurrent use.
type Provider interface {
	Converter(raw, generic reflect.Type, annotations []Annotation) (Converter, bool)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(raw, generic reflect.Type, annotations []Annotation) (Converter, bool)

// Converter delegates to the underlying function.
func (fn ProviderFunc) Converter(raw, generic reflect.Type, annotations []Annotation) (Converter, bool) {
	return fn(raw, generic, annotations)
}

// Entry is a single registration in a Registry snapshot.
type Entry struct {
	Raw         reflect.Type
	Generic     reflect.Type
	Annotations []Annotation
	Converter   Converter
}

type entryKey struct {
	raw         reflect.Type
	generic     reflect.Type
	annotations string
}

// Option configures a Registry.
type Option func(*Registry)

// WithProvider appends a provider consulted after exact registrations.
func WithProvider(provider Provider) Option {
	return func(r *Registry) {
		if provider == nil {
			return
		}
		r.providers = append(r.providers, provider)
	}
}

// WithLogger sets the logger used for registration events.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Registry) {
		if logger == nil {
			return
		}
		r.logger = logger
	}
}

// Registry stores converters keyed by raw type, generic type and annotation
// set. It is safe for concurrent use; registrations are expected to happen
// during bootstrap.
type Registry struct {
	mu        sync.RWMutex
	entries   map[entryKey]Entry
	providers []Provider
	logger    logrus.FieldLogger
}

var _ Lookuper = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry(options ...Option) *Registry {
	r := &Registry{
		entries: make(map[entryKey]Entry),
		logger:  discardLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// RegisterOption qualifies a single registration.
type RegisterOption func(*registration)

type registration struct {
	generic     reflect.Type
	annotations []Annotation
}

// WithGenericType keys the registration under a generic type that differs
// from the raw type.
func WithGenericType(generic reflect.Type) RegisterOption {
	return func(reg *registration) {
		reg.generic = generic
	}
}

// WithAnnotations qualifies the registration with annotations. Lookups must
// present the same set (in any order) to match.
func WithAnnotations(annotations ...Annotation) RegisterOption {
	return func(reg *registration) {
		reg.annotations = append(reg.annotations, annotations...)
	}
}

// Register adds converter for raw. Duplicate keys return an error.
func (r *Registry) Register(raw reflect.Type, converter Converter, options ...RegisterOption) error {
	if raw == nil {
		return fmt.Errorf("params: raw type is required")
	}
	if converter == nil {
		return fmt.Errorf("params: converter is required for %s", raw)
	}

	reg := registration{generic: raw}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&reg)
	}
	if reg.generic == nil {
		reg.generic = raw
	}

	annotations := normalizeAnnotations(reg.annotations)
	key := entryKey{raw: raw, generic: reg.generic, annotations: annotationKey(annotations)}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("params: converter for %s already registered", describeKey(raw, reg.generic, annotations))
	}
	r.entries[key] = Entry{
		Raw:         raw,
		Generic:     reg.generic,
		Annotations: annotations,
		Converter:   converter,
	}

	r.logger.WithFields(logrus.Fields{
		"type":        raw.String(),
		"generic":     reg.generic.String(),
		"annotations": key.annotations,
	}).Debug("params: converter registered")
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(raw reflect.Type, converter Converter, options ...RegisterOption) {
	if err := r.Register(raw, converter, options...); err != nil {
		panic(err)
	}
}

// RegisterFunc registers a parse/format pair for T.
func RegisterFunc[T any](r *Registry, parse func(string) (T, error), format func(T) (string, error), options ...RegisterOption) error {
	if r == nil {
		return fmt.Errorf("params: registry is required")
	}
	return r.Register(typeOf[T](), NewConverter(parse, format), options...)
}

// MustRegisterFunc panics if RegisterFunc fails.
func MustRegisterFunc[T any](r *Registry, parse func(string) (T, error), format func(T) (string, error), options ...RegisterOption) {
	if err := RegisterFunc(r, parse, format, options...); err != nil {
		panic(err)
	}
}

// Lookup returns the converter registered for the exact (raw, generic,
// annotations) key, consulting providers when no entry matches.
func (r *Registry) Lookup(raw, generic reflect.Type, annotations []Annotation) (Converter, bool) {
	if r == nil || raw == nil {
		return nil, false
	}
	if generic == nil {
		generic = raw
	}

	key := entryKey{raw: raw, generic: generic, annotations: annotationKey(normalizeAnnotations(annotations))}

	r.mu.RLock()
	entry, ok := r.entries[key]
	providers := r.providers
	r.mu.RUnlock()

	if ok {
		return entry.Converter, true
	}
	for _, provider := range providers {
		if conv, found := provider.Converter(raw, generic, annotations); found && conv != nil {
			return conv, true
		}
	}
	return nil, false
}

// Entries returns a snapshot of explicit registrations sorted by type name
// and annotation set. Providers are not listed.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		entry.Annotations = append([]Annotation(nil), entry.Annotations...)
		out = append(out, entry)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Raw.String() != out[j].Raw.String() {
			return out[i].Raw.String() < out[j].Raw.String()
		}
		if out[i].Generic.String() != out[j].Generic.String() {
			return out[i].Generic.String() < out[j].Generic.String()
		}
		return annotationKey(out[i].Annotations) < annotationKey(out[j].Annotations)
	})
	return out
}

// Len reports the number of explicit registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func normalizeAnnotations(in []Annotation) []Annotation {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[Annotation]struct{}, len(in))
	out := make([]Annotation, 0, len(in))
	for _, a := range in {
		a.Key = strings.TrimSpace(a.Key)
		a.Value = strings.TrimSpace(a.Value)
		if a.Key == "" {
			continue
		}
		if _, exists := seen[a]; exists {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key == out[j].Key {
			return out[i].Value < out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

func annotationKey(annotations []Annotation) string {
	if len(annotations) == 0 {
		return ""
	}
	parts := make([]string, len(annotations))
	for i, a := range annotations {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}

func describeKey(raw, generic reflect.Type, annotations []Annotation) string {
	desc := raw.String()
	if generic != raw {
		desc += " (generic " + generic.String() + ")"
	}
	if len(annotations) > 0 {
		desc += " [" + annotationKey(annotations) + "]"
	}
	return desc
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
