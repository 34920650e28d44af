package params

import (
	"fmt"
	"reflect"
)

// Converter translates values of a single type to and from text.
type Converter interface {
	ToString(value any) (string, error)
	FromString(text string) (any, error)
}

// Func adapts a parse/format function pair into a Converter for T.
type Func[T any] struct {
	Parse  func(string) (T, error)
	Format func(T) (string, error)
}

var _ Converter = Func[int]{}

// NewConverter builds a Converter for T. A nil format falls back to fmt.Sprint.
func NewConverter[T any](parse func(string) (T, error), format func(T) (string, error)) Func[T] {
	return Func[T]{Parse: parse, Format: format}
}

// ToString formats value, which must hold a T.
func (f Func[T]) ToString(value any) (string, error) {
	typed, ok := value.(T)
	if !ok {
		return "", fmt.Errorf("%w: got %T, want %s", ErrTypeMismatch, value, typeOf[T]())
	}
	if f.Format == nil {
		return fmt.Sprint(typed), nil
	}
	return f.Format(typed)
}

// FromString parses text into a T.
func (f Func[T]) FromString(text string) (any, error) {
	if f.Parse == nil {
		return nil, fmt.Errorf("params: no parser configured for %s", typeOf[T]())
	}
	v, err := f.Parse(text)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
