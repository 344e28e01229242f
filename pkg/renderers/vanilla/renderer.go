package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/render"
	rendertemplate "github.com/goliatone/go-settingspage/pkg/render/template"
	"github.com/goliatone/go-settingspage/pkg/render/template/pongo"
	"github.com/goliatone/go-settingspage/pkg/renderers/vanilla/components"
)

// Partial keys for the page-level templates a theme can override.
const (
	PartialPage    = "settings.page"
	PartialSection = "settings.section"
	PartialNotices = "settings.notices"
	PartialIndex   = "settings.index"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	stylesheet       string
	logger           zerolog.Logger
}

// WithTemplatesFS layers an additional template bundle over the embedded one.
// Templates found in files win; anything missing falls back to the defaults.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the built-in control registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithStylesheet links a stylesheet ahead of the page markup. A theme
// stylesheet asset takes precedence.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Renderer emits the settings page as server-rendered HTML.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	stylesheet string
	logger     zerolog.Logger
}

var _ render.Renderer = (*Renderer)(nil)
var _ render.IndexRenderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := []pongo.Option{pongo.WithExtension(".tmpl")}
		if cfg.templateFS != nil {
			engineOpts = append(engineOpts, pongo.WithFS(cfg.templateFS))
		}
		engineOpts = append(engineOpts, pongo.WithFS(TemplatesFS()))

		engine, err := pongo.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	registry := cfg.components
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	return &Renderer{
		templates:  renderer,
		components: registry,
		stylesheet: cfg.stylesheet,
		logger:     cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes notices, the wrapper, the title, the form with its hidden
// fields, every section in registration order and the submit control.
func (r *Renderer) Render(ctx context.Context, page model.Page, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	notices, err := r.renderNotices(opts)
	if err != nil {
		return nil, err
	}

	var sections strings.Builder
	for _, section := range page.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		markup, err := r.renderSection(page, section, opts)
		if err != nil {
			return nil, err
		}
		sections.WriteString(markup)
	}

	hidden := make([]map[string]string, 0, len(opts.HiddenFields))
	for _, field := range render.SortedHiddenFields(opts.HiddenFields) {
		hidden = append(hidden, map[string]string{"name": field.Name, "value": field.Value})
	}

	submitLabel := page.SubmitLabel
	if submitLabel == "" {
		submitLabel = "Save Settings"
	}

	result, err := r.templates.RenderTemplate(r.templateFor(opts.Theme, PartialPage, "templates/page.tmpl"), map[string]any{
		"stylesheets":   r.stylesheetsFor(page, opts.Theme),
		"notices":       notices,
		"wrap_class":    opts.Theme.Token(render.TokenWrapClass),
		"title":         render.Translate(opts, page.Menu.Title),
		"action":        page.Action,
		"hidden_fields": hidden,
		"sections":      sections.String(),
		"submit_class":  opts.Theme.Token(render.TokenSubmitClass),
		"submit_label":  render.Translate(opts, submitLabel),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(result), nil
}

// RenderField renders a single field control using the component registry.
func (r *Renderer) RenderField(ctx context.Context, page model.Page, field model.Field, opts render.RenderOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.renderControl(page, field, opts)
}

// RenderIndex lists the admin pages the caller may open.
func (r *Renderer) RenderIndex(_ context.Context, entries []render.IndexEntry, opts render.RenderOptions) ([]byte, error) {
	pages := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		pages = append(pages, map[string]string{
			"href":       entry.Href,
			"menu_title": render.Translate(opts, entry.MenuTitle),
		})
	}
	result, err := r.templates.RenderTemplate(r.templateFor(opts.Theme, PartialIndex, "templates/index.tmpl"), map[string]any{
		"wrap_class":  opts.Theme.Token(render.TokenWrapClass),
		"title":       render.Translate(opts, "Settings"),
		"pages":       pages,
		"empty_label": render.Translate(opts, "No settings pages available."),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render index: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderNotices(opts render.RenderOptions) (string, error) {
	if len(opts.Notices) == 0 {
		return "", nil
	}
	notices := make([]map[string]string, 0, len(opts.Notices))
	for _, notice := range opts.Notices {
		notices = append(notices, map[string]string{
			"code":    notice.Code,
			"kind":    noticeKind(notice.Type),
			"message": render.Translate(opts, notice.Message),
		})
	}
	result, err := r.templates.RenderTemplate(r.templateFor(opts.Theme, PartialNotices, "templates/notices.tmpl"), map[string]any{
		"notice_class": opts.Theme.Token(render.TokenNoticeClass),
		"notices":      notices,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render notices: %w", err)
	}
	return result, nil
}

func (r *Renderer) renderSection(page model.Page, section model.Section, opts render.RenderOptions) (string, error) {
	rows := make([]map[string]string, 0, len(section.Fields))
	for _, field := range section.Fields {
		control, err := r.renderControl(page, field, opts)
		if err != nil {
			return "", err
		}
		rows = append(rows, map[string]string{
			"class":     field.Args.Class,
			"label_for": field.Args.LabelFor,
			"title":     render.Translate(opts, field.Title),
			"control":   control,
		})
	}

	result, err := r.templates.RenderTemplate(r.templateFor(opts.Theme, PartialSection, "templates/section.tmpl"), map[string]any{
		"section": map[string]string{
			"id":          section.ID,
			"title":       render.Translate(opts, section.Title),
			"description": render.Translate(opts, section.Description),
		},
		"table_class": opts.Theme.Token(render.TokenTableClass),
		"rows":        rows,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render section %q: %w", section.ID, err)
	}
	return result, nil
}

func (r *Renderer) templateFor(theme *render.ThemeConfig, partialKey, fallback string) string {
	if override := theme.Partial(partialKey); override != "" {
		return override
	}
	return fallback
}

// stylesheetsFor lists the page stylesheet (the theme asset when present)
// followed by the stylesheets of the components the page uses.
func (r *Renderer) stylesheetsFor(page model.Page, theme *render.ThemeConfig) []string {
	base := r.stylesheet
	if theme != nil && theme.AssetURL != nil {
		if href := theme.AssetURL("stylesheet"); href != "" {
			base = href
		}
	}

	var used []string
	for _, section := range page.Sections {
		for _, field := range section.Fields {
			used = append(used, field.Component)
		}
	}

	var out []string
	if base != "" {
		out = append(out, base)
	}
	for _, href := range r.components.Stylesheets(used) {
		if href != base {
			out = append(out, href)
		}
	}
	return out
}

func noticeKind(noticeType string) string {
	switch noticeType {
	case model.NoticeUpdated, "success":
		return "success"
	case model.NoticeError:
		return "error"
	case model.NoticeWarning:
		return "warning"
	default:
		return "info"
	}
}
