package parambridge_test

import (
	"errors"
	"reflect"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parambridge"
	"github.com/goliatone/go-parambridge/pkg/conversion"
	"github.com/goliatone/go-parambridge/pkg/params"
	"github.com/goliatone/go-parambridge/pkg/render/template"
	"github.com/goliatone/go-parambridge/pkg/render/template/gotemplate"
	"github.com/goliatone/go-parambridge/pkg/testsupport"
)

type fallbackCall struct {
	Method string
	Ctx    conversion.Context
	Value  any
	Target string
}

type recordingFallback struct {
	calls []fallbackCall
	err   error
}

func (r *recordingFallback) ToString(ctx conversion.Context, value any) (string, error) {
	r.calls = append(r.calls, fallbackCall{Method: "ToString", Ctx: ctx, Value: value})
	return "fallback", r.err
}

func (r *recordingFallback) ConvertOther(ctx conversion.Context, value any, target reflect.Type) (any, error) {
	r.calls = append(r.calls, fallbackCall{Method: "ConvertOther", Ctx: ctx, Value: value, Target: target.String()})
	return "fallback", r.err
}

var testCtx = conversion.Context{Dialect: "standard", Expression: "test"}

func TestBridge_ToStringUsesRegisteredConverter(t *testing.T) {
	fallback := &recordingFallback{}
	bridge := parambridge.New(testsupport.NewMoneyRegistry(t), parambridge.WithFallback(fallback))

	got, err := bridge.ToString(testCtx, testsupport.Money(1050))
	if err != nil {
		t.Fatalf("to string: %v", err)
	}
	if got != "10.50" {
		t.Fatalf("expected 10.50, got %q", got)
	}
	if len(fallback.calls) != 0 {
		t.Fatalf("fallback must not be called, got %v", fallback.calls)
	}
}

func TestBridge_ToStringFallsBack(t *testing.T) {
	fallback := &recordingFallback{}
	bridge := parambridge.New(testsupport.NewMoneyRegistry(t), parambridge.WithFallback(fallback))

	got, err := bridge.ToString(testCtx, int64(1050))
	if err != nil {
		t.Fatalf("to string: %v", err)
	}
	if got != "fallback" {
		t.Fatalf("expected fallback output, got %q", got)
	}

	want := []fallbackCall{{Method: "ToString", Ctx: testCtx, Value: int64(1050)}}
	if diff := cmp.Diff(want, fallback.calls); diff != "" {
		t.Fatalf("fallback calls mismatch (-want +got):\n%s", diff)
	}
}

func TestBridge_ToStringDefaultFallback(t *testing.T) {
	bridge := parambridge.New(testsupport.NewMoneyRegistry(t))

	got, err := bridge.ToString(testCtx, 42)
	if err != nil {
		t.Fatalf("to string: %v", err)
	}
	if got != "42" {
		t.Fatalf("expected default service output, got %q", got)
	}
}

func TestBridge_ConvertOtherUsesRegisteredConverter(t *testing.T) {
	fallback := &recordingFallback{}
	bridge := parambridge.New(testsupport.NewMoneyRegistry(t), parambridge.WithFallback(fallback))

	got, err := bridge.ConvertOther(testCtx, "10.50", testsupport.MoneyType)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got != testsupport.Money(1050) {
		t.Fatalf("expected Money(1050), got %#v", got)
	}
	if len(fallback.calls) != 0 {
		t.Fatalf("fallback must not be called, got %v", fallback.calls)
	}
}

func TestBridge_ConvertOtherFallsBack(t *testing.T) {
	type named string

	tests := []struct {
		name   string
		value  any
		target reflect.Type
	}{
		{name: "non-string source with converter for target", value: int64(1050), target: testsupport.MoneyType},
		{name: "named string source", value: named("10.50"), target: testsupport.MoneyType},
		{name: "string without converter", value: "42", target: reflect.TypeOf(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := &recordingFallback{}
			bridge := parambridge.New(testsupport.NewMoneyRegistry(t), parambridge.WithFallback(fallback))

			got, err := bridge.ConvertOther(testCtx, tt.value, tt.target)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if got != "fallback" {
				t.Fatalf("expected fallback output, got %#v", got)
			}
			want := []fallbackCall{{Method: "ConvertOther", Ctx: testCtx, Value: tt.value, Target: tt.target.String()}}
			if diff := cmp.Diff(want, fallback.calls); diff != "" {
				t.Fatalf("fallback calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBridge_RoundTrip(t *testing.T) {
	bridge := parambridge.New(testsupport.NewMoneyRegistry(t))

	for _, v := range []testsupport.Money{0, 5, 1050, -1999, 100000} {
		text, err := bridge.ToString(testCtx, v)
		if err != nil {
			t.Fatalf("to string %d: %v", v, err)
		}
		back, err := bridge.ConvertOther(testCtx, text, testsupport.MoneyType)
		if err != nil {
			t.Fatalf("convert %q: %v", text, err)
		}
		if back != v {
			t.Fatalf("round trip mismatch: %d -> %q -> %#v", v, text, back)
		}
	}
}

func TestBridge_ErrorsPropagateUnchanged(t *testing.T) {
	boom := errors.New("boom")
	reg := params.NewRegistry()
	params.MustRegisterFunc(reg,
		func(string) (testsupport.Money, error) { return 0, boom },
		func(testsupport.Money) (string, error) { return "", boom },
	)
	fallback := &recordingFallback{err: boom}
	bridge := parambridge.New(reg, parambridge.WithFallback(fallback))

	if _, err := bridge.ToString(testCtx, testsupport.Money(1)); err != boom {
		t.Fatalf("expected converter error unchanged, got %v", err)
	}
	if _, err := bridge.ConvertOther(testCtx, "1", testsupport.MoneyType); err != boom {
		t.Fatalf("expected converter parse error unchanged, got %v", err)
	}
	if _, err := bridge.ToString(testCtx, 1); err != boom {
		t.Fatalf("expected fallback error unchanged, got %v", err)
	}
	if _, err := bridge.ConvertOther(testCtx, 1, testsupport.MoneyType); err != boom {
		t.Fatalf("expected fallback convert error unchanged, got %v", err)
	}
}

func TestBridge_NilValue(t *testing.T) {
	fallback := &recordingFallback{}
	bridge := parambridge.New(testsupport.NewMoneyRegistry(t), parambridge.WithFallback(fallback))

	if _, err := bridge.ToString(testCtx, nil); !errors.Is(err, parambridge.ErrNilValue) {
		t.Fatalf("expected ErrNilValue, got %v", err)
	}
	if _, err := bridge.ConvertOther(testCtx, nil, testsupport.MoneyType); !errors.Is(err, parambridge.ErrNilValue) {
		t.Fatalf("expected ErrNilValue, got %v", err)
	}
	if len(fallback.calls) != 0 {
		t.Fatalf("fallback must not see nil values, got %v", fallback.calls)
	}
}

func TestBridge_IgnoresQualifiedAndGenericConverters(t *testing.T) {
	timeType := reflect.TypeOf(time.Time{})
	reg := params.NewRegistry()
	reg.MustRegister(timeType, params.TimeConverter(time.DateOnly),
		params.WithAnnotations(params.Annotation{Key: "format", Value: "date"}))
	reg.MustRegister(testsupport.MoneyType, testsupport.MoneyConverter(),
		params.WithGenericType(reflect.TypeOf([]testsupport.Money{})))

	fallback := &recordingFallback{}
	bridge := parambridge.New(reg, parambridge.WithFallback(fallback))

	if got, _ := bridge.ToString(testCtx, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)); got != "fallback" {
		t.Fatalf("annotated converter must be invisible, got %q", got)
	}
	if got, _ := bridge.ConvertOther(testCtx, "2024-01-02", timeType); got != "fallback" {
		t.Fatalf("annotated converter must be invisible, got %#v", got)
	}
	if got, _ := bridge.ToString(testCtx, testsupport.Money(1)); got != "fallback" {
		t.Fatalf("generic-keyed converter must be invisible, got %q", got)
	}
}

func TestBridge_UsesRegistryProviders(t *testing.T) {
	reg := params.NewRegistry(params.WithProvider(params.TextProvider()))
	bridge := parambridge.New(reg, parambridge.WithFallback(&recordingFallback{}))

	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	got, err := bridge.ToString(testCtx, when)
	if err != nil {
		t.Fatalf("to string: %v", err)
	}
	if got != "2024-05-06T07:08:09Z" {
		t.Fatalf("expected MarshalText output, got %q", got)
	}
}

type dialectOnly struct{ name string }

func (d dialectOnly) Name() string              { return d.name }
func (d dialectOnly) Functions() map[string]any { return nil }

type dialectList []template.Dialect

func (l dialectList) Dialects() []template.Dialect { return l }

func TestBridge_InstallInto(t *testing.T) {
	standard := template.NewStandardDialect()
	other := dialectOnly{name: "extra"}
	engine := dialectList{other, standard}

	bridge := parambridge.New(testsupport.NewMoneyRegistry(t))
	bridge.InstallInto(engine)
	if got := standard.ConversionService(); got != bridge {
		t.Fatalf("expected bridge installed, got %T", got)
	}

	bridge.InstallInto(engine)
	if got := standard.ConversionService(); got != bridge {
		t.Fatalf("expected repeated install to keep the bridge, got %T", got)
	}

	replacement := parambridge.New(testsupport.NewMoneyRegistry(t))
	replacement.InstallInto(engine)
	if got := standard.ConversionService(); got != replacement {
		t.Fatalf("expected last install to win, got %v", got)
	}
}

func TestBridge_InstallIntoWithoutStandardDialect(t *testing.T) {
	engine := dialectList{dialectOnly{name: "extra"}}
	bridge := parambridge.New(testsupport.NewMoneyRegistry(t))

	bridge.InstallInto(engine)
	bridge.InstallInto(dialectList{})
	bridge.InstallInto(nil)

	if diff := cmp.Diff(dialectList{dialectOnly{name: "extra"}}, engine, cmp.AllowUnexported(dialectOnly{})); diff != "" {
		t.Fatalf("engine dialects changed (-want +got):\n%s", diff)
	}
}

func TestNewEngine_MoneyScenario(t *testing.T) {
	files := fstest.MapFS{
		"order.tpl": {Data: []byte(`{{ str(total) }}|{{ str(parse("10.50", "money")) }}|{{ parse("10.50", "money") }}`)},
	}
	dialect := template.NewStandardDialect(template.WithType("money", testsupport.MoneyType))

	engine, bridge, err := parambridge.NewEngine(testsupport.NewMoneyRegistry(t),
		gotemplate.WithFS(files),
		gotemplate.WithDialects(dialect),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if dialect.ConversionService() != bridge {
		t.Fatalf("expected bridge installed into the standard dialect")
	}

	got, err := engine.RenderTemplate("order", map[string]any{"total": testsupport.Money(1050)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "10.50|10.50|1050" {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", "10.50|10.50|1050", got)
	}
}
