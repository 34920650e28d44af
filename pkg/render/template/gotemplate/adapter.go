package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-parambridge/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	templateFn map[string]any
	globalData map[string]any
	dialects   []template.Dialect
	logger     logrus.FieldLogger
}

// WithBaseDir configures the engine to load templates from a base directory
// on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS configures the engine to load templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension used by the engine.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithTemplateFunc registers helper functions or filters when the engine loads.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds global context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithDialects replaces the engine's dialect list. When no dialect is
// configured the engine installs a default StandardDialect.
func WithDialects(dialects ...template.Dialect) Option {
	return func(cfg *config) {
		for _, d := range dialects {
			if d == nil {
				continue
			}
			cfg.dialects = append(cfg.dialects, d)
		}
	}
}

// WithLogger sets the logger used for engine setup events.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set and
// exposes its dialects so conversion services can be installed into them.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
	dialects    []template.Dialect
	logger      logrus.FieldLogger
}

var (
	_ template.TemplateRenderer = (*Engine)(nil)
	_ template.DialectSource    = (*Engine)(nil)
)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}
	if len(cfg.dialects) == 0 {
		cfg.dialects = []template.Dialect{template.NewStandardDialect()}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("parambridge", loaders...),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
		dialects:    cfg.dialects,
		logger:      cfg.logger,
	}
	registerDefaultFilters()

	if err := engine.installDialects(); err != nil {
		return nil, err
	}
	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := engine.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register template func %q: %w", name, err)
		}
	}

	return engine, nil
}

// Dialects returns the engine's dialects in configuration order.
func (e *Engine) Dialects() []template.Dialect {
	if e == nil {
		return nil
	}
	out := make([]template.Dialect, len(e.dialects))
	copy(out, e.dialects)
	return out
}

// Render delegates to RenderString for inline template content and to
// RenderTemplate otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate loads (and caches) the named template and executes it.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}

	rendered, err := e.execute(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", templatePath, err)
	}
	return writeAll(rendered, out)
}

// RenderString parses templateContent and executes it.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}

	rendered, err := e.execute(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}
	return writeAll(rendered, out)
}

// RegisterFilter registers a template filter. pongo2 filters are process
// wide, so registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext seeds global data visible to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(globalCtx)
	return nil
}

func (e *Engine) installDialects() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}

	owners := make(map[string]string)
	for _, dialect := range e.dialects {
		for name, fn := range dialect.Functions() {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" || !isCallable(fn) {
				continue
			}
			if owner, exists := owners[trimmed]; exists {
				return fmt.Errorf("gotemplate: dialect %q function %q already provided by dialect %q", dialect.Name(), trimmed, owner)
			}
			owners[trimmed] = dialect.Name()
			e.templateSet.Globals[trimmed] = fn
		}
		e.logger.WithField("dialect", dialect.Name()).Debug("gotemplate: dialect installed")
	}
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any) (string, error) {
	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("convert data: %w", err)
	}

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}

	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(trimmed) {
			return nil
		}
		return pongo2.RegisterFilter(trimmed, filter)
	}

	if !isCallable(fn) {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, taken := e.templateSet.Globals[trimmed]; taken {
		return fmt.Errorf("name already used by a dialect or global")
	}
	e.templateSet.Globals[trimmed] = fn
	return nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func writeAll(rendered string, out []io.Writer) (string, error) {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.IsValid() && rv.Kind() == reflect.Func
}

// convertToContext turns render data into a pongo2 context without touching
// the values themselves, so conversion services see the original Go types.
func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return trimKeys(v), nil
	case map[string]any:
		return trimKeys(v), nil
	}

	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return pongo2.Context{}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return structToContext(rv), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		out := make(pongo2.Context, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := strings.TrimSpace(iter.Key().String())
			if key == "" {
				continue
			}
			out[key] = iter.Value().Interface()
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported data type %T", data)
	}
}

func trimKeys(in map[string]any) pongo2.Context {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func structToContext(rv reflect.Value) pongo2.Context {
	rt := rv.Type()
	out := make(pongo2.Context, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		out[name] = rv.Field(i).Interface()
	}
	return out
}

var (
	sanitizePolicyOnce sync.Once
	sanitizePolicy     *bluemonday.Policy
)

func htmlSanitizer() *bluemonday.Policy {
	sanitizePolicyOnce.Do(func() {
		sanitizePolicy = bluemonday.UGCPolicy()
	})
	return sanitizePolicy
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("lowerfirst") {
		_ = pongo2.RegisterFilter("lowerfirst", filterLowerFirst)
	}
	if !pongo2.FilterExists("sanitize") {
		_ = pongo2.RegisterFilter("sanitize", filterSanitize)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterSanitize strips unsafe markup and marks the rest safe so autoescape
// leaves the allowed tags intact.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsSafeValue(htmlSanitizer().Sanitize(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	t := in.String()

	var (
		firstNonWhitespaceIndex int
		firstRune               rune
		firstRuneSize           int
	)

	for i, r := range t {
		if !strings.ContainsRune(" \t\n\r", r) {
			firstNonWhitespaceIndex = i
			firstRune = r
			firstRuneSize = utf8.RuneLen(r)
			break
		}
	}

	if firstRune == 0 {
		return pongo2.AsValue(t), nil
	}

	return pongo2.AsValue(t[:firstNonWhitespaceIndex] + strings.ToLower(string(firstRune)) + t[firstNonWhitespaceIndex+firstRuneSize:]), nil
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
