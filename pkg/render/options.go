package render

import (
	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/options"
)

// RenderOptions carry the per-request data renderers need without mutating
// the page model.
type RenderOptions struct {
	// Values is the options record loaded for this request. Renderers never
	// read the store themselves.
	Values options.Record
	// Notices are emitted above the form, in queue order.
	Notices []model.Notice
	// HiddenFields are emitted inside the form before the sections. Use
	// SettingsFields to build the standard set.
	HiddenFields map[string]string
	// Locale and Translator localise UI strings; a nil Translator leaves the
	// source strings untouched.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Theme supplies tokens, template overrides and asset URLs.
	Theme *ThemeConfig
}
