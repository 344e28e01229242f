// Package registry holds settings registration state: option groups, menu
// pages, sections and fields. It replaces ambient global registration with an
// instance the store initializer and page controller share explicitly.
package registry

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/options"
)

// SanitizeFunc rewrites a submitted record before it is persisted.
type SanitizeFunc func(options.Record) options.Record

type settingEntry struct {
	setting  model.Setting
	sanitize SanitizeFunc
}

// Registry stores registration state in insertion order. It is safe for
// concurrent use. An init cycle re-registers by filling a fresh Registry and
// handing it to Replace, so readers never see a half-built state.
type Registry struct {
	mu       sync.RWMutex
	settings map[string]settingEntry
	menus    []model.MenuPage
	sections []model.Section
	fields   []model.Field
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{settings: make(map[string]settingEntry)}
}

// Reset drops all registration state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = make(map[string]settingEntry)
	r.menus = nil
	r.sections = nil
	r.fields = nil
}

// Replace swaps in the registrations held by next in one step.
func (r *Registry) Replace(next *Registry) {
	if next == nil || next == r {
		return
	}

	next.mu.RLock()
	settings := maps.Clone(next.settings)
	menus := slices.Clone(next.menus)
	sections := slices.Clone(next.sections)
	fields := slices.Clone(next.fields)
	next.mu.RUnlock()

	if settings == nil {
		settings = make(map[string]settingEntry)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	r.menus = menus
	r.sections = sections
	r.fields = fields
}

// RegisterSetting binds group to optionName. Registering a group twice
// replaces the earlier binding.
func (r *Registry) RegisterSetting(group, optionName string, sanitize SanitizeFunc) error {
	group = strings.TrimSpace(group)
	optionName = strings.TrimSpace(optionName)
	if group == "" {
		return fmt.Errorf("registry: setting group is required")
	}
	if optionName == "" {
		return fmt.Errorf("registry: option name is required for group %q", group)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[group] = settingEntry{
		setting:  model.Setting{Group: group, OptionName: optionName},
		sanitize: sanitize,
	}
	return nil
}

// Setting returns the binding for group and its sanitizer, if any.
func (r *Registry) Setting(group string) (model.Setting, SanitizeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.settings[strings.TrimSpace(group)]
	if !ok {
		return model.Setting{}, nil, false
	}
	return entry.setting, entry.sanitize, true
}

// AddMenuPage registers an admin page. Slugs must be unique.
func (r *Registry) AddMenuPage(menu model.MenuPage) error {
	menu.Slug = strings.TrimSpace(menu.Slug)
	if menu.Slug == "" {
		return fmt.Errorf("registry: menu slug is required")
	}
	if strings.TrimSpace(menu.Capability) == "" {
		return fmt.Errorf("registry: capability is required for menu %q", menu.Slug)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.menus {
		if existing.Slug == menu.Slug {
			return fmt.Errorf("registry: menu %q already registered", menu.Slug)
		}
	}
	r.menus = append(r.menus, menu)
	return nil
}

// MenuPage looks up a registered page by slug.
func (r *Registry) MenuPage(slug string) (model.MenuPage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slug = strings.TrimSpace(slug)
	for _, menu := range r.menus {
		if menu.Slug == slug {
			return menu, true
		}
	}
	return model.MenuPage{}, false
}

// MenuPages lists registered pages in registration order.
func (r *Registry) MenuPages() []model.MenuPage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.MenuPage, len(r.menus))
	copy(out, r.menus)
	return out
}

// AddSection registers a section on a page. Section ids are unique per page.
func (r *Registry) AddSection(section model.Section) error {
	section.ID = strings.TrimSpace(section.ID)
	section.Page = strings.TrimSpace(section.Page)
	if section.ID == "" {
		return fmt.Errorf("registry: section id is required")
	}
	if section.Page == "" {
		return fmt.Errorf("registry: page is required for section %q", section.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sections {
		if existing.Page == section.Page && existing.ID == section.ID {
			return fmt.Errorf("registry: section %q already registered on page %q", section.ID, section.Page)
		}
	}
	section.Fields = nil
	r.sections = append(r.sections, section)
	return nil
}

// AddField registers a field inside a page section. When Args.LabelFor is
// empty the field id is used.
func (r *Registry) AddField(field model.Field) error {
	field.ID = strings.TrimSpace(field.ID)
	field.Page = strings.TrimSpace(field.Page)
	field.Section = strings.TrimSpace(field.Section)
	if field.ID == "" {
		return fmt.Errorf("registry: field id is required")
	}
	if field.Page == "" || field.Section == "" {
		return fmt.Errorf("registry: page and section are required for field %q", field.ID)
	}
	if strings.TrimSpace(field.Component) == "" {
		return fmt.Errorf("registry: component is required for field %q", field.ID)
	}
	if field.Args.LabelFor == "" {
		field.Args.LabelFor = field.ID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.fields {
		if existing.Page == field.Page && existing.ID == field.ID {
			return fmt.Errorf("registry: field %q already registered on page %q", field.ID, field.Page)
		}
	}
	r.fields = append(r.fields, field)
	return nil
}

// Sections returns the page sections, each carrying its fields, in
// registration order. Fields whose section was never registered are omitted,
// matching how unregistered sections never render.
func (r *Registry) Sections(page string) []model.Section {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sectionsLocked(strings.TrimSpace(page))
}

func (r *Registry) sectionsLocked(page string) []model.Section {
	var out []model.Section
	for _, section := range r.sections {
		if section.Page != page {
			continue
		}
		for _, field := range r.fields {
			if field.Page == page && field.Section == section.ID {
				section.Fields = append(section.Fields, field)
			}
		}
		out = append(out, section)
	}
	return out
}

// Page assembles the render model for a menu page submitting the given group.
// The result comes from one consistent registration state.
func (r *Registry) Page(slug, group string) (model.Page, error) {
	slug = strings.TrimSpace(slug)
	group = strings.TrimSpace(group)

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := slices.IndexFunc(r.menus, func(menu model.MenuPage) bool { return menu.Slug == slug })
	if idx < 0 {
		return model.Page{}, fmt.Errorf("registry: menu %q not registered", slug)
	}
	entry, ok := r.settings[group]
	if !ok {
		return model.Page{}, fmt.Errorf("registry: setting group %q not registered", group)
	}
	return model.Page{
		Menu:     r.menus[idx],
		Setting:  entry.setting,
		Sections: r.sectionsLocked(slug),
	}, nil
}
