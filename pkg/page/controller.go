// Package page renders the settings page for authorized callers and applies
// form submissions to the options record.
package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/options"
	"github.com/goliatone/go-settingspage/pkg/render"
	"github.com/goliatone/go-settingspage/pkg/settings"
)

var (
	// ErrForbidden is returned when the caller lacks the page capability.
	ErrForbidden = errors.New("page: forbidden")
	// ErrUnknownOptionPage is returned for submissions naming an unregistered
	// settings group.
	ErrUnknownOptionPage = errors.New("page: unknown option page")
	// ErrInvalidToken is returned when the submitted CSRF token is rejected.
	ErrInvalidToken = errors.New("page: invalid token")
	// ErrUnsupportedAction is returned for submissions whose action is not
	// "update".
	ErrUnsupportedAction = errors.New("page: unsupported action")
	// ErrUnknownPage is returned when rendering a slug nobody registered.
	ErrUnknownPage = errors.New("page: unknown page")
	// ErrIndexUnsupported is returned by Index when the renderer cannot list
	// pages.
	ErrIndexUnsupported = errors.New("page: renderer does not support the index")
)

// SettingsUpdatedParam is appended to the redirect target after a save.
const SettingsUpdatedParam = "settings-updated"

// DefaultAction is where the form posts.
const DefaultAction = "/admin/options"

// Authorizer answers capability checks for the caller carried by ctx.
type Authorizer interface {
	Can(ctx context.Context, capability string) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, capability string) bool

// Can implements Authorizer.
func (f AuthorizerFunc) Can(ctx context.Context, capability string) bool {
	return f(ctx, capability)
}

// TokenVerifier validates the CSRF token of a submission.
type TokenVerifier func(ctx context.Context, token string) bool

// Option configures a Controller.
type Option func(*Controller)

// WithAction overrides the form action URL.
func WithAction(action string) Option {
	return func(c *Controller) {
		if action = strings.TrimSpace(action); action != "" {
			c.action = action
		}
	}
}

// WithTokenVerifier enables CSRF verification on Submit. Without one the
// token is not checked.
func WithTokenVerifier(verify TokenVerifier) Option {
	return func(c *Controller) {
		c.verify = verify
	}
}

// WithTranslator localises rendered UI strings.
func WithTranslator(locale string, translator render.Translator) Option {
	return func(c *Controller) {
		c.locale = locale
		c.translator = translator
	}
}

// WithTheme applies theme tokens and partials to every render.
func WithTheme(theme *render.ThemeConfig) Option {
	return func(c *Controller) {
		c.theme = theme
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller gates, renders and submits the settings page.
type Controller struct {
	settings   *settings.Service
	renderer   render.Renderer
	authorizer Authorizer
	verify     TokenVerifier
	action     string
	locale     string
	translator render.Translator
	theme      *render.ThemeConfig
	logger     zerolog.Logger
}

// New builds a Controller.
func New(svc *settings.Service, renderer render.Renderer, authorizer Authorizer, opts ...Option) (*Controller, error) {
	if svc == nil {
		return nil, errors.New("page: settings service is required")
	}
	if renderer == nil {
		return nil, errors.New("page: renderer is required")
	}
	if authorizer == nil {
		return nil, errors.New("page: authorizer is required")
	}
	c := &Controller{
		settings:   svc,
		renderer:   renderer,
		authorizer: authorizer,
		action:     DefaultAction,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// ContentType reports the renderer content type.
func (c *Controller) ContentType() string {
	return c.renderer.ContentType()
}

// Request carries the per-request render inputs.
type Request struct {
	// Slug selects the menu page; empty means the settings page.
	Slug string
	// SettingsUpdated is set when the URL carries settings-updated.
	SettingsUpdated bool
	CSRFToken       string
	Referer         string
	// Notices are queued ahead of the saved notice.
	Notices []model.Notice
}

// Authorized reports whether the caller may open the page at slug.
func (c *Controller) Authorized(ctx context.Context, slug string) (bool, error) {
	menu, err := c.menu(slug)
	if err != nil {
		return false, err
	}
	return c.authorizer.Can(ctx, menu.Capability), nil
}

// Render writes the settings page to w. Callers without the page capability
// get no output and no error, and the store is not read.
func (c *Controller) Render(ctx context.Context, w io.Writer, req Request) error {
	menu, err := c.menu(req.Slug)
	if err != nil {
		return err
	}
	if !c.authorizer.Can(ctx, menu.Capability) {
		c.logger.Debug().Str("page", menu.Slug).Msg("render skipped, capability missing")
		return nil
	}

	notices := &Notices{}
	for _, notice := range req.Notices {
		notices.Add(notice.Setting, notice.Code, notice.Message, notice.Type)
	}
	if req.SettingsUpdated {
		notices.Add(settings.MessagesSetting, settings.MessageCode, "Settings Saved", model.NoticeUpdated)
	}

	record, err := c.settings.Load(ctx)
	if err != nil {
		return err
	}

	pageModel, err := c.settings.Registry().Page(menu.Slug, c.settings.Group())
	if err != nil {
		return fmt.Errorf("page: assemble %q: %w", menu.Slug, err)
	}
	pageModel.Action = c.action
	pageModel.SubmitLabel = "Save Settings"

	referer := req.Referer
	if referer == "" {
		referer = PagePath(menu.Slug)
	}

	opts := c.renderOptions()
	opts.Values = record
	opts.Notices = notices.For("")
	opts.HiddenFields = render.SettingsFields(pageModel.Setting.Group, req.CSRFToken, referer)

	out, err := c.renderer.Render(ctx, pageModel, opts)
	if err != nil {
		return fmt.Errorf("page: render %q: %w", menu.Slug, err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("page: write %q: %w", menu.Slug, err)
	}
	return nil
}

// Submission is a posted settings form.
type Submission struct {
	OptionPage string
	Action     string
	Token      string
	Referer    string
	// Values holds the raw form; record values are read from
	// option_name[key] entries.
	Values url.Values
}

// SubmissionFromForm reads the hidden fields and values of a posted form.
func SubmissionFromForm(form url.Values) Submission {
	return Submission{
		OptionPage: form.Get(render.FieldOptionPage),
		Action:     form.Get(render.FieldAction),
		Token:      form.Get(render.FieldCSRF),
		Referer:    form.Get(render.FieldReferer),
		Values:     form,
	}
}

// Result describes a saved submission.
type Result struct {
	Record   options.Record
	Redirect string
}

// Submit validates a submission and overwrites the record with the submitted
// values. Keys absent from the form become "", which is how an unchecked
// checkbox clears its value.
func (c *Controller) Submit(ctx context.Context, sub Submission) (Result, error) {
	menu, err := c.menu("")
	if err != nil {
		return Result{}, err
	}
	if !c.authorizer.Can(ctx, menu.Capability) {
		return Result{}, ErrForbidden
	}
	if c.verify != nil && !c.verify(ctx, sub.Token) {
		return Result{}, ErrInvalidToken
	}
	if action := strings.TrimSpace(sub.Action); action != "" && action != render.ActionUpdate {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedAction, action)
	}

	setting, sanitize, ok := c.settings.Registry().Setting(sub.OptionPage)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOptionPage, sub.OptionPage)
	}

	var record options.Record
	for _, key := range options.Keys() {
		record = record.With(key, sub.Values.Get(render.InputName(setting.OptionName, key)))
	}
	if sanitize != nil {
		record = sanitize(record)
	}

	if err := c.settings.Save(ctx, record); err != nil {
		return Result{}, err
	}

	c.logger.Info().Str("option_page", setting.Group).Msg("settings submitted")
	return Result{
		Record:   record,
		Redirect: redirectTarget(sub.Referer, PagePath(menu.Slug)),
	}, nil
}

// Load returns the stored record to callers holding the page capability.
func (c *Controller) Load(ctx context.Context) (options.Record, error) {
	menu, err := c.menu("")
	if err != nil {
		return options.Record{}, err
	}
	if !c.authorizer.Can(ctx, menu.Capability) {
		return options.Record{}, ErrForbidden
	}
	return c.settings.Load(ctx)
}

// Replace overwrites the record for callers holding the page capability. The
// registered sanitizer runs first, as it does for form submissions.
func (c *Controller) Replace(ctx context.Context, record options.Record) (options.Record, error) {
	menu, err := c.menu("")
	if err != nil {
		return options.Record{}, err
	}
	if !c.authorizer.Can(ctx, menu.Capability) {
		return options.Record{}, ErrForbidden
	}
	if _, sanitize, ok := c.settings.Registry().Setting(c.settings.Group()); ok && sanitize != nil {
		record = sanitize(record)
	}
	if err := c.settings.Save(ctx, record); err != nil {
		return options.Record{}, err
	}
	return record, nil
}

// Pages lists the menu pages the caller may open, in registration order.
func (c *Controller) Pages(ctx context.Context) []model.MenuPage {
	var visible []model.MenuPage
	for _, menu := range c.settings.Registry().MenuPages() {
		if c.authorizer.Can(ctx, menu.Capability) {
			visible = append(visible, menu)
		}
	}
	return visible
}

// Index writes the admin index listing the pages the caller may open.
func (c *Controller) Index(ctx context.Context, w io.Writer) error {
	indexer, ok := c.renderer.(render.IndexRenderer)
	if !ok {
		return ErrIndexUnsupported
	}
	pages := c.Pages(ctx)
	entries := make([]render.IndexEntry, 0, len(pages))
	for _, menu := range pages {
		entries = append(entries, render.IndexEntry{Href: PagePath(menu.Slug), MenuTitle: menu.MenuTitle})
	}
	out, err := indexer.RenderIndex(ctx, entries, c.renderOptions())
	if err != nil {
		return fmt.Errorf("page: render index: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("page: write index: %w", err)
	}
	return nil
}

func (c *Controller) renderOptions() render.RenderOptions {
	return render.RenderOptions{
		Locale:     c.locale,
		Translator: c.translator,
		Theme:      c.theme,
	}
}

func (c *Controller) menu(slug string) (model.MenuPage, error) {
	if slug = strings.TrimSpace(slug); slug == "" {
		slug = c.settings.PageSlug()
	}
	menu, ok := c.settings.Registry().MenuPage(slug)
	if !ok {
		return model.MenuPage{}, fmt.Errorf("%w: %q", ErrUnknownPage, slug)
	}
	return menu, nil
}

// PagePath is the admin URL of the page registered under slug.
func PagePath(slug string) string {
	return "/admin/" + url.PathEscape(slug)
}

// redirectTarget returns referer with settings-updated=true. Only local paths
// are honoured; anything else falls back to the page path.
func redirectTarget(referer, fallback string) string {
	target, err := url.Parse(strings.TrimSpace(referer))
	if err != nil || referer == "" || target.Scheme != "" || target.Host != "" || !strings.HasPrefix(target.Path, "/") || strings.HasPrefix(target.Path, "//") {
		target, _ = url.Parse(fallback)
	}
	query := target.Query()
	query.Set(SettingsUpdatedParam, "true")
	target.RawQuery = query.Encode()
	return target.String()
}
