package parambridge

import (
	"fmt"

	"github.com/goliatone/go-parambridge/pkg/params"
	"github.com/goliatone/go-parambridge/pkg/render/template/gotemplate"
)

// NewEngine builds a pongo2 engine and installs a Bridge over registry into
// its standard dialect.
func NewEngine(registry params.Lookuper, options ...gotemplate.Option) (*gotemplate.Engine, *Bridge, error) {
	engine, err := gotemplate.New(options...)
	if err != nil {
		return nil, nil, fmt.Errorf("parambridge: new engine: %w", err)
	}
	bridge := New(registry)
	bridge.InstallInto(engine)
	return engine, bridge, nil
}
