package conversion

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

// ConversionError reports that no conversion exists between two types.
type ConversionError struct {
	From reflect.Type
	To   reflect.Type
	Err  error
}

func (e *ConversionError) Error() string {
	from := "<nil>"
	if e.From != nil {
		from = e.From.String()
	}
	msg := fmt.Sprintf("conversion: no available conversion for %s to %s", from, e.To)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Standard is the engine's default conversion service. It stringifies values
// the way fmt would and converts between scalar kinds using spf13/cast.
type Standard struct{}

var _ Service = Standard{}

// NewStandard returns the default conversion service.
func NewStandard() Standard { return Standard{} }

// ToString renders value as text. Nil renders as the empty string.
func (Standard) ToString(_ Context, value any) (string, error) {
	if value == nil {
		return "", nil
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s, nil
	}
	return fmt.Sprint(value), nil
}

// ConvertOther converts value into target when both sides are scalar kinds
// cast understands. Assignable values are returned unchanged.
func (Standard) ConvertOther(_ Context, value any, target reflect.Type) (any, error) {
	if target == nil {
		return nil, fmt.Errorf("conversion: target type is required")
	}
	if value == nil {
		switch target.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(target).Interface(), nil
		}
		return nil, &ConversionError{To: target}
	}

	from := reflect.TypeOf(value)
	if from.AssignableTo(target) {
		return value, nil
	}

	converted, err := castKind(value, target.Kind())
	if err != nil {
		return nil, &ConversionError{From: from, To: target, Err: err}
	}
	if converted == nil {
		return nil, &ConversionError{From: from, To: target}
	}
	// named types (type Level int) need the final reflect conversion
	return reflect.ValueOf(converted).Convert(target).Interface(), nil
}

func castKind(value any, kind reflect.Kind) (any, error) {
	switch kind {
	case reflect.String:
		return cast.ToStringE(value)
	case reflect.Bool:
		return cast.ToBoolE(value)
	case reflect.Int:
		return cast.ToIntE(value)
	case reflect.Int8:
		return cast.ToInt8E(value)
	case reflect.Int16:
		return cast.ToInt16E(value)
	case reflect.Int32:
		return cast.ToInt32E(value)
	case reflect.Int64:
		return cast.ToInt64E(value)
	case reflect.Uint:
		return cast.ToUintE(value)
	case reflect.Uint8:
		return cast.ToUint8E(value)
	case reflect.Uint16:
		return cast.ToUint16E(value)
	case reflect.Uint32:
		return cast.ToUint32E(value)
	case reflect.Uint64:
		return cast.ToUint64E(value)
	case reflect.Float32:
		return cast.ToFloat32E(value)
	case reflect.Float64:
		return cast.ToFloat64E(value)
	default:
		return nil, nil
	}
}
