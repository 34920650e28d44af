package params

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// TextProvider resolves converters for types implementing both
// encoding.TextMarshaler and encoding.TextUnmarshaler (the latter on the
// pointer receiver). Annotated lookups are never served.
func TextProvider() Provider {
	return ProviderFunc(func(raw, generic reflect.Type, annotations []Annotation) (Converter, bool) {
		if raw != generic || len(annotations) > 0 {
			return nil, false
		}
		if raw.Kind() == reflect.Pointer || raw.Kind() == reflect.Interface {
			return nil, false
		}
		if !reflect.PointerTo(raw).Implements(textUnmarshalerType) {
			return nil, false
		}
		if !raw.Implements(textMarshalerType) && !reflect.PointerTo(raw).Implements(textMarshalerType) {
			return nil, false
		}
		return textConverter{typ: raw}, true
	})
}

type textConverter struct {
	typ reflect.Type
}

func (c textConverter) ToString(value any) (string, error) {
	if value == nil || reflect.TypeOf(value) != c.typ {
		return "", fmt.Errorf("%w: got %T, want %s", ErrTypeMismatch, value, c.typ)
	}
	marshaler, ok := value.(encoding.TextMarshaler)
	if !ok {
		ptr := reflect.New(c.typ)
		ptr.Elem().Set(reflect.ValueOf(value))
		marshaler = ptr.Interface().(encoding.TextMarshaler)
	}
	text, err := marshaler.MarshalText()
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func (c textConverter) FromString(text string) (any, error) {
	ptr := reflect.New(c.typ)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.String:  reflect.TypeOf(""),
	reflect.Bool:    reflect.TypeOf(false),
	reflect.Int:     reflect.TypeOf(int(0)),
	reflect.Int8:    reflect.TypeOf(int8(0)),
	reflect.Int16:   reflect.TypeOf(int16(0)),
	reflect.Int32:   reflect.TypeOf(int32(0)),
	reflect.Int64:   reflect.TypeOf(int64(0)),
	reflect.Uint:    reflect.TypeOf(uint(0)),
	reflect.Uint8:   reflect.TypeOf(uint8(0)),
	reflect.Uint16:  reflect.TypeOf(uint16(0)),
	reflect.Uint32:  reflect.TypeOf(uint32(0)),
	reflect.Uint64:  reflect.TypeOf(uint64(0)),
	reflect.Float32: reflect.TypeOf(float32(0)),
	reflect.Float64: reflect.TypeOf(float64(0)),
}

// BasicProvider resolves converters for scalar kinds (strings, booleans,
// integers, floats) including named types built on them, using spf13/cast.
// Annotated lookups are never served.
func BasicProvider() Provider {
	return ProviderFunc(func(raw, generic reflect.Type, annotations []Annotation) (Converter, bool) {
		if raw != generic || len(annotations) > 0 {
			return nil, false
		}
		base, ok := basicTypes[raw.Kind()]
		if !ok {
			return nil, false
		}
		return basicConverter{typ: raw, base: base}, true
	})
}

type basicConverter struct {
	typ  reflect.Type
	base reflect.Type
}

func (c basicConverter) ToString(value any) (string, error) {
	if value == nil || reflect.TypeOf(value) != c.typ {
		return "", fmt.Errorf("%w: got %T, want %s", ErrTypeMismatch, value, c.typ)
	}
	return cast.ToStringE(reflect.ValueOf(value).Convert(c.base).Interface())
}

func (c basicConverter) FromString(text string) (any, error) {
	var (
		v   any
		err error
	)
	switch c.base.Kind() {
	case reflect.String:
		v = text
	case reflect.Bool:
		v, err = cast.ToBoolE(text)
	case reflect.Int:
		v, err = cast.ToIntE(text)
	case reflect.Int8:
		v, err = cast.ToInt8E(text)
	case reflect.Int16:
		v, err = cast.ToInt16E(text)
	case reflect.Int32:
		v, err = cast.ToInt32E(text)
	case reflect.Int64:
		v, err = cast.ToInt64E(text)
	case reflect.Uint:
		v, err = cast.ToUintE(text)
	case reflect.Uint8:
		v, err = cast.ToUint8E(text)
	case reflect.Uint16:
		v, err = cast.ToUint16E(text)
	case reflect.Uint32:
		v, err = cast.ToUint32E(text)
	case reflect.Uint64:
		v, err = cast.ToUint64E(text)
	case reflect.Float32:
		v, err = cast.ToFloat32E(text)
	case reflect.Float64:
		v, err = cast.ToFloat64E(text)
	}
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(v).Convert(c.typ).Interface(), nil
}
