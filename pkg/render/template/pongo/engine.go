// Package pongo executes settings page templates with pongo2. Templates are
// looked up across a stack of fs.FS sources so a theme or caller bundle can
// override individual files of the embedded set.
package pongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-settingspage/pkg/render/template"
)

// Option configures the engine.
type Option func(*config)

type config struct {
	sources   []fs.FS
	extension string
}

// WithFS adds a template source. Sources are searched in the order they were
// added; the first one holding a path wins.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.sources = append(cfg.sources, files)
		}
	}
}

// WithExtension sets the extension appended to template names that lack it.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.extension = ext
	}
}

// Engine renders templates from a pongo2 set. Parsed templates are cached by
// path for the life of the engine.
type Engine struct {
	set       *pongo2.TemplateSet
	extension string

	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

var registerFilters sync.Once

// New builds an engine over the configured sources. At least one source is
// required.
func New(options ...Option) (*Engine, error) {
	cfg := config{extension: ".tmpl"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.sources) == 0 {
		return nil, errors.New("pongo: at least one template source is required")
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(cfg.sources))
	for _, files := range cfg.sources {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}

	registerFilters.Do(func() {
		for name, fn := range map[string]pongo2.FilterFunction{
			"checked":  attributeFilter("checked"),
			"selected": attributeFilter("selected"),
		} {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, fn)
			}
		}
	})

	return &Engine{
		set:       pongo2.NewSet("settingspage", loaders...),
		extension: cfg.extension,
		cache:     make(map[string]*pongo2.Template),
	}, nil
}

// RenderTemplate executes the template at name with data. Struct values in
// data are exposed to templates under their JSON field names.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	path := name
	if !strings.HasSuffix(path, e.extension) {
		path += e.extension
	}
	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}

	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data for %q: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("pongo: execute %q: %w", path, err)
	}
	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", fmt.Errorf("pongo: write %q: %w", path, err)
		}
	}
	return rendered, nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

// toContext turns data into a pongo2 context. Maps keep their keys; anything
// else goes through a JSON round trip so templates see plain maps and slices.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	var values map[string]any
	switch v := data.(type) {
	case pongo2.Context:
		values = v
	case map[string]any:
		values = v
	default:
		if err := roundTrip(v, &values); err != nil {
			return nil, err
		}
	}

	ctx := make(pongo2.Context, len(values))
	for key, value := range values {
		if key = strings.TrimSpace(key); key == "" {
			continue
		}
		plain, err := plainValue(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		ctx[key] = plain
	}
	return ctx, nil
}

func plainValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int, int64, float64:
		return v, nil
	default:
		var out any
		if err := roundTrip(v, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func roundTrip(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// attributeFilter emits ` attr="attr"` when the input equals the parameter,
// compared as strings: {{ value|checked:"1" }}.
func attributeFilter(attr string) pongo2.FilterFunction {
	markup := fmt.Sprintf(` %s="%s"`, attr, attr)
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		want := ""
		if param != nil {
			want = param.String()
		}
		if in.String() == want {
			return pongo2.AsSafeValue(markup), nil
		}
		return pongo2.AsSafeValue(""), nil
	}
}
