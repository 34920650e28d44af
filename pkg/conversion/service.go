package conversion

import (
	"errors"
	"fmt"
	"reflect"
)

var stringType = reflect.TypeOf("")

// Context carries evaluation details for a single conversion. Services treat
// it as opaque and pass it through to whatever they delegate to.
type Context struct {
	// Dialect names the template dialect evaluating the expression.
	Dialect string
	// Expression names the template function that requested the conversion.
	Expression string
}

// Service converts values during template expression evaluation.
type Service interface {
	ToString(ctx Context, value any) (string, error)
	ConvertOther(ctx Context, value any, target reflect.Type) (any, error)
}

// Convert routes a conversion to the matching half of svc: string targets go
// through ToString, values already assignable to target are returned as-is,
// and everything else goes through ConvertOther.
func Convert(svc Service, ctx Context, value any, target reflect.Type) (any, error) {
	if svc == nil {
		return nil, errors.New("conversion: service is required")
	}
	if target == nil {
		return nil, errors.New("conversion: target type is required")
	}
	if target == stringType {
		return svc.ToString(ctx, value)
	}
	if value != nil && reflect.TypeOf(value).AssignableTo(target) {
		return value, nil
	}
	return svc.ConvertOther(ctx, value, target)
}

// To is the typed form of Convert.
func To[T any](svc Service, ctx Context, value any) (T, error) {
	var zero T
	target := reflect.TypeOf((*T)(nil)).Elem()

	out, err := Convert(svc, ctx, value, target)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}
	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("conversion: service returned %T, want %s", out, target)
	}
	return typed, nil
}
