// Package settings wires the defaults provider, option store and registry
// into the settings page lifecycle: seed the record once, register the page
// every init cycle, then load and save the record per request.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/options"
	"github.com/goliatone/go-settingspage/pkg/registry"
	"github.com/goliatone/go-settingspage/pkg/store"
)

// Registration constants for the built-in page.
const (
	DefaultOptionName = "wporg_options"
	DefaultGroup      = "wporg"
	DefaultPageSlug   = "wporg"
	DefaultCapability = "manage_options"
	SectionID         = "wporg_section_developers"

	// MessagesSetting and MessageCode identify the saved notice.
	MessagesSetting = "wporg_messages"
	MessageCode     = "wporg_message"

	RowClass = "wporg_row"
)

// Option configures a Service.
type Option func(*Service)

// WithOptionName overrides the key the record is stored under.
func WithOptionName(name string) Option {
	return func(s *Service) {
		if name = strings.TrimSpace(name); name != "" {
			s.optionName = name
		}
	}
}

// WithProvider overrides the defaults provider used to seed the store.
func WithProvider(provider options.DefaultsProvider) Option {
	return func(s *Service) {
		s.provider = provider
	}
}

// WithSanitizer registers a sanitizer that runs on submitted records.
func WithSanitizer(fn registry.SanitizeFunc) Option {
	return func(s *Service) {
		s.sanitizer = fn
	}
}

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service owns the settings page lifecycle.
type Service struct {
	store      store.Store
	registry   *registry.Registry
	provider   options.DefaultsProvider
	optionName string
	sanitizer  registry.SanitizeFunc
	logger     zerolog.Logger
}

// New builds a Service. The store and registry are shared with the page
// controller.
func New(st store.Store, reg *registry.Registry, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("settings: store is required")
	}
	if reg == nil {
		return nil, errors.New("settings: registry is required")
	}
	svc := &Service{
		store:      st,
		registry:   reg,
		optionName: DefaultOptionName,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// OptionName is the store key the record lives under.
func (s *Service) OptionName() string { return s.optionName }

// Group is the settings group the form submits.
func (s *Service) Group() string { return DefaultGroup }

// PageSlug is the menu slug of the settings page.
func (s *Service) PageSlug() string { return DefaultPageSlug }

// Registry exposes the shared registration state.
func (s *Service) Registry() *registry.Registry { return s.registry }

// Init seeds the record with the provider's defaults when absent and then
// re-registers the page. It is safe to call on every init cycle: an existing
// record is never overwritten.
func (s *Service) Init(ctx context.Context) error {
	exists, err := s.store.Exists(ctx, s.optionName)
	if err != nil {
		return fmt.Errorf("settings: check %q: %w", s.optionName, err)
	}
	if !exists {
		created, err := s.store.Add(ctx, s.optionName, s.provider.Provide().Map())
		if err != nil {
			return fmt.Errorf("settings: seed %q: %w", s.optionName, err)
		}
		if created {
			s.logger.Info().Str("option", s.optionName).Msg("seeded settings record with defaults")
		} else {
			s.logger.Debug().Str("option", s.optionName).Msg("settings record created concurrently, keeping it")
		}
	}

	if err := s.register(); err != nil {
		return err
	}
	s.logger.Debug().Str("group", DefaultGroup).Int("fields", len(fieldSpecs)).Msg("registered settings page")
	return nil
}

type fieldSpec struct {
	id        string
	component string
}

var fieldSpecs = []fieldSpec{
	{id: "activate", component: model.ComponentSelect},
	{id: "radio", component: model.ComponentRadio},
	{id: "checkbox", component: model.ComponentCheckbox},
	{id: "text", component: model.ComponentText},
}

// register builds the page registrations aside and swaps them in, so a
// render running during a later init cycle never sees an empty registry.
func (s *Service) register() error {
	next := registry.New()
	if err := next.RegisterSetting(DefaultGroup, s.optionName, s.sanitizer); err != nil {
		return fmt.Errorf("settings: register setting: %w", err)
	}
	if err := next.AddMenuPage(model.MenuPage{
		Slug:       DefaultPageSlug,
		Title:      "WPOrg",
		MenuTitle:  "WPOrg Options",
		Capability: DefaultCapability,
	}); err != nil {
		return fmt.Errorf("settings: register menu page: %w", err)
	}
	if err := next.AddSection(model.Section{
		ID:          SectionID,
		Title:       "The Matrix has you.",
		Description: "Follow the white rabbit.",
		Page:        DefaultPageSlug,
	}); err != nil {
		return fmt.Errorf("settings: register section: %w", err)
	}
	for _, spec := range fieldSpecs {
		if err := next.AddField(model.Field{
			ID:        spec.id,
			Title:     "Activate?",
			Component: spec.component,
			Page:      DefaultPageSlug,
			Section:   SectionID,
			Args: model.Args{
				LabelFor:   spec.id,
				Class:      RowClass,
				CustomData: spec.id + "-yass-plugin",
			},
		}); err != nil {
			return fmt.Errorf("settings: register field %q: %w", spec.id, err)
		}
	}
	s.registry.Replace(next)
	return nil
}

// Load returns the stored record. A missing record yields the zero record so
// renderers show every field unset.
func (s *Service) Load(ctx context.Context) (options.Record, error) {
	raw, err := s.store.Get(ctx, s.optionName)
	if errors.Is(err, store.ErrNotFound) {
		return options.Record{}, nil
	}
	if err != nil {
		return options.Record{}, fmt.Errorf("settings: load %q: %w", s.optionName, err)
	}
	return options.FromMap(raw), nil
}

// Save overwrites the stored record wholesale.
func (s *Service) Save(ctx context.Context, record options.Record) error {
	if err := s.store.Put(ctx, s.optionName, record.Map()); err != nil {
		return fmt.Errorf("settings: save %q: %w", s.optionName, err)
	}
	s.logger.Info().Str("option", s.optionName).Msg("settings record saved")
	return nil
}
