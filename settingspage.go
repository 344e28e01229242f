// Package settingspage assembles the settings page: the options record, its
// registration, the HTML renderer and the page controller.
package settingspage

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-settingspage/pkg/options"
	"github.com/goliatone/go-settingspage/pkg/page"
	"github.com/goliatone/go-settingspage/pkg/registry"
	"github.com/goliatone/go-settingspage/pkg/render"
	"github.com/goliatone/go-settingspage/pkg/renderers/vanilla"
	"github.com/goliatone/go-settingspage/pkg/settings"
	"github.com/goliatone/go-settingspage/pkg/store"
)

// Record is the options record.
type Record = options.Record

// RenderOptions describes per-request render inputs.
type RenderOptions = render.RenderOptions

// Option configures New.
type Option func(*config)

type config struct {
	optionName string
	sanitize   bool
	hooks      *options.Hooks
	authorizer page.Authorizer
	verifier   page.TokenVerifier
	locale     string
	translator render.Translator
	theme      *render.ThemeConfig
	templates  fs.FS
	stylesheet string
	logger     zerolog.Logger
}

// DefaultStylesheet is where the embedded stylesheet is linked from when
// AssetsFS is mounted under /assets/.
const DefaultStylesheet = "/assets/" + vanilla.StylesheetName

// WithOptionName overrides the store key of the record.
func WithOptionName(name string) Option {
	return func(c *config) { c.optionName = name }
}

// WithSanitizeInput strips markup from submitted values before saving.
func WithSanitizeInput(enabled bool) Option {
	return func(c *config) { c.sanitize = enabled }
}

// WithHooks supplies the filter table consulted for the default record.
func WithHooks(hooks *options.Hooks) Option {
	return func(c *config) { c.hooks = hooks }
}

// WithAuthorizer sets the capability check. Without one every caller is
// denied.
func WithAuthorizer(authz page.Authorizer) Option {
	return func(c *config) { c.authorizer = authz }
}

// WithTokenVerifier enables CSRF checks on form submissions.
func WithTokenVerifier(verify page.TokenVerifier) Option {
	return func(c *config) { c.verifier = verify }
}

// WithTranslator localises UI strings.
func WithTranslator(locale string, translator render.Translator) Option {
	return func(c *config) {
		c.locale = locale
		c.translator = translator
	}
}

// WithTheme applies theme tokens, partials and assets.
func WithTheme(theme *render.ThemeConfig) Option {
	return func(c *config) { c.theme = theme }
}

// WithTemplatesFS overlays templates on the embedded bundle, typically the
// partials a theme points at.
func WithTemplatesFS(files fs.FS) Option {
	return func(c *config) { c.templates = files }
}

// WithStylesheet changes the linked stylesheet URL. An empty href links
// nothing.
func WithStylesheet(href string) Option {
	return func(c *config) { c.stylesheet = href }
}

// WithLogger sets the logger shared by the assembled components.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

var denyAll = page.AuthorizerFunc(func(context.Context, string) bool { return false })

// Page bundles the assembled components.
type Page struct {
	Service    *settings.Service
	Renderer   *vanilla.Renderer
	Controller *page.Controller
}

// New initializes the record in st and builds the page around it.
func New(ctx context.Context, st store.Store, opts ...Option) (*Page, error) {
	cfg := config{
		optionName: settings.DefaultOptionName,
		authorizer: denyAll,
		stylesheet: DefaultStylesheet,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	svcOpts := []settings.Option{
		settings.WithOptionName(cfg.optionName),
		settings.WithLogger(cfg.logger.With().Str("component", "settings").Logger()),
	}
	if cfg.hooks != nil {
		svcOpts = append(svcOpts, settings.WithProvider(options.NewDefaultsProvider(cfg.hooks)))
	}
	if cfg.sanitize {
		svcOpts = append(svcOpts, settings.WithSanitizer(settings.StrictSanitizer()))
	}
	svc, err := settings.New(st, registry.New(), svcOpts...)
	if err != nil {
		return nil, err
	}
	if err := svc.Init(ctx); err != nil {
		return nil, fmt.Errorf("settingspage: init: %w", err)
	}

	rendererOpts := []vanilla.Option{
		vanilla.WithLogger(cfg.logger.With().Str("component", "renderer").Logger()),
		vanilla.WithStylesheet(cfg.stylesheet),
	}
	if cfg.templates != nil {
		rendererOpts = append(rendererOpts, vanilla.WithTemplatesFS(cfg.templates))
	}
	renderer, err := vanilla.New(rendererOpts...)
	if err != nil {
		return nil, fmt.Errorf("settingspage: renderer: %w", err)
	}

	controllerOpts := []page.Option{
		page.WithTranslator(cfg.locale, cfg.translator),
		page.WithTheme(cfg.theme),
		page.WithLogger(cfg.logger.With().Str("component", "page").Logger()),
	}
	if cfg.verifier != nil {
		controllerOpts = append(controllerOpts, page.WithTokenVerifier(cfg.verifier))
	}
	controller, err := page.New(svc, renderer, cfg.authorizer, controllerOpts...)
	if err != nil {
		return nil, err
	}

	return &Page{Service: svc, Renderer: renderer, Controller: controller}, nil
}

// EmbeddedTemplates exposes the built-in templates so callers can reuse or
// extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the embedded stylesheet.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(settingspage.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
