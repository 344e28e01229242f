package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Theme token names the HTML renderer reads. Missing tokens fall back to the
// classic admin class names.
const (
	TokenWrapClass   = "wrap_class"
	TokenTableClass  = "table_class"
	TokenSubmitClass = "submit_class"
	TokenNoticeClass = "notice_class"
)

// DefaultTokens are applied beneath any theme tokens.
func DefaultTokens() map[string]string {
	return map[string]string{
		TokenWrapClass:   "wrap",
		TokenTableClass:  "form-table",
		TokenSubmitClass: "button button-primary",
		TokenNoticeClass: "notice settings-error is-dismissible",
	}
}

// ThemeConfig is the renderer-facing projection of a go-theme selection.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Tokens   map[string]string
	Partials map[string]string
	AssetURL func(key string) string
}

// Token returns the themed value for name, or the built-in default.
func (c *ThemeConfig) Token(name string) string {
	if c != nil {
		if value := strings.TrimSpace(c.Tokens[name]); value != "" {
			return value
		}
	}
	return DefaultTokens()[name]
}

// Partial returns the template override registered for key, if any.
func (c *ThemeConfig) Partial(key string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Partials[key])
}

// ThemeConfigFromSelection merges the manifest with its selected variant:
// variant tokens, templates and asset files override the base manifest.
func ThemeConfigFromSelection(selection *theme.Selection) *ThemeConfig {
	if selection == nil {
		return nil
	}
	cfg := &ThemeConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   map[string]string{},
		Partials: map[string]string{},
	}

	prefix := ""
	files := map[string]string{}

	if manifest := selection.Manifest; manifest != nil {
		mergeInto(cfg.Tokens, manifest.Tokens)
		mergeInto(cfg.Partials, manifest.Templates)
		prefix = manifest.Assets.Prefix
		mergeInto(files, manifest.Assets.Files)

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			mergeInto(cfg.Tokens, variant.Tokens)
			mergeInto(cfg.Partials, variant.Templates)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
			mergeInto(files, variant.Assets.Files)
		}
	}

	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
	}
	return cfg
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
