package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-parambridge/pkg/params"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv("PARAMBRIDGE_TEMPLATE", "views/order.tpl")
	t.Setenv("PARAMBRIDGE_DATA", "order.yaml")

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	want := Config{Template: "views/order.tpl", Data: "order.yaml", LogLevel: "warn"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

const convertersYAML = `
time:
  layouts: ["2006-01-02", "02/01/2006"]
duration:
  aliases:
    fast: 100ms
bool:
  truthy: [yes, on]
  falsy: [no, off]
basic: true
`

func TestConvertersApply(t *testing.T) {
	conv, err := ParseConverters([]byte(convertersYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !conv.Basic || conv.Text {
		t.Fatalf("unexpected provider flags basic=%v text=%v", conv.Basic, conv.Text)
	}

	reg := params.NewRegistry(conv.RegistryOptions()...)
	if err := conv.Apply(reg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected 3 registrations, got %d", reg.Len())
	}

	durationType := reflect.TypeOf(time.Duration(0))
	dc, ok := reg.Lookup(durationType, durationType, nil)
	if !ok {
		t.Fatalf("expected duration converter")
	}
	if d, err := dc.FromString("FAST"); err != nil || d != 100*time.Millisecond {
		t.Fatalf("expected alias parse, got %v (%v)", d, err)
	}

	boolType := reflect.TypeOf(false)
	bc, _ := reg.Lookup(boolType, boolType, nil)
	if text, _ := bc.ToString(true); text != "yes" {
		t.Fatalf("expected yes, got %q", text)
	}

	intType := reflect.TypeOf(0)
	if _, ok := reg.Lookup(intType, intType, nil); !ok {
		t.Fatalf("expected basic provider to serve int")
	}
}

func TestConvertersApplyErrors(t *testing.T) {
	conv, err := ParseConverters([]byte("time:\n  layouts: []\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := conv.Apply(params.NewRegistry()); err == nil {
		t.Fatalf("expected error for empty layouts")
	}

	conv, err = ParseConverters([]byte("duration:\n  aliases:\n    slow: forever\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := conv.Apply(params.NewRegistry()); err == nil {
		t.Fatalf("expected error for invalid alias")
	}

	if _, err := ParseConverters([]byte("basic: [")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := os.WriteFile(path, []byte("name: Ada\nwhen: \"2024-03-05\"\ncount: 3\n"), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}

	got, err := LoadData(path)
	if err != nil {
		t.Fatalf("load data: %v", err)
	}
	want := map[string]any{"name": "Ada", "when": "2024-03-05", "count": 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}

	empty, err := LoadData("")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty data, got %v (%v)", empty, err)
	}
}
