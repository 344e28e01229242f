package render

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingTranslator is reported to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a UI string for a locale. Keys are the source strings,
// so an untranslated string is still readable.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a lookup fails.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) == 0 || !strings.Contains(key, "%") {
		return key
	}
	return fmt.Sprintf(key, args...)
}

// Translate localises text using the options translator, falling back to the
// source text.
func Translate(opts RenderOptions, text string, args ...any) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if opts.Translator == nil {
		return onMissing(opts.Locale, text, args, ErrMissingTranslator)
	}
	msg, err := opts.Translator.Translate(opts.Locale, text, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(opts.Locale, text, args, err)
	}
	return msg
}

// Catalog is an in-memory translator keyed by locale then source string.
type Catalog map[string]map[string]string

var _ Translator = Catalog(nil)

// Translate implements Translator. Locales fall back from "es-MX" to "es".
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		messages, ok := c[candidate]
		if !ok {
			continue
		}
		msg, ok := messages[key]
		if !ok || msg == "" {
			continue
		}
		if len(args) > 0 {
			msg = fmt.Sprintf(msg, args...)
		}
		return msg, nil
	}
	return "", fmt.Errorf("render: no translation for %q in locale %q", key, locale)
}

// LoadCatalog parses a YAML document shaped as `locale: {source: translation}`.
func LoadCatalog(fsys fs.FS, path string) (Catalog, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("render: read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses catalog YAML.
func ParseCatalog(data []byte) (Catalog, error) {
	catalog := Catalog{}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("render: parse catalog: %w", err)
	}
	return catalog, nil
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil
	}
	chain := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		chain = append(chain, locale[:idx])
	}
	return chain
}
