// Package themes loads go-theme manifests from a YAML file and resolves the
// theme configuration handed to the renderers.
package themes

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingspage/pkg/render"
)

var (
	// ErrUnknownTheme is returned when selecting a theme nobody loaded.
	ErrUnknownTheme = errors.New("themes: unknown theme")
	// ErrUnknownVariant is returned when a theme lacks the requested variant.
	ErrUnknownVariant = errors.New("themes: unknown variant")
)

type fileDocument struct {
	Default string         `yaml:"default"`
	Themes  []fileManifest `yaml:"themes"`
}

type fileManifest struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    fileAssets             `yaml:"assets"`
	Variants  map[string]fileVariant `yaml:"variants"`
}

type fileVariant struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    fileAssets        `yaml:"assets"`
}

type fileAssets struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

func (m fileManifest) manifest() *theme.Manifest {
	version := m.Version
	if version == "" {
		version = "1.0.0"
	}
	out := &theme.Manifest{
		Name:      m.Name,
		Version:   version,
		Tokens:    m.Tokens,
		Templates: m.Templates,
		Assets:    theme.Assets{Prefix: m.Assets.Prefix, Files: m.Assets.Files},
	}
	if len(m.Variants) > 0 {
		out.Variants = make(map[string]theme.Variant, len(m.Variants))
		for name, v := range m.Variants {
			out.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return out
}

type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

// Selector resolves theme selections from the manifests it holds.
type Selector struct {
	mu           sync.RWMutex
	registry     manifestRegistry
	manifests    map[string]*theme.Manifest
	defaultTheme string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector returns an empty Selector.
func NewSelector() *Selector {
	return &Selector{
		registry:  theme.NewRegistry(),
		manifests: map[string]*theme.Manifest{},
	}
}

// Register adds manifest. The first registered theme becomes the default.
func (s *Selector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("themes: manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("themes: register %q: %w", manifest.Name, err)
	}
	s.manifests[manifest.Name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	return nil
}

// Names lists the registered themes.
func (s *Selector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	return names
}

// Select implements theme.ThemeSelector. An empty name picks the default
// theme; an empty variant picks the base manifest.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name = strings.TrimSpace(name); name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant = strings.TrimSpace(variant); variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q in theme %q", ErrUnknownVariant, variant, name)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Config selects name/variant and projects it onto the renderer config.
func (s *Selector) Config(name, variant string) (*render.ThemeConfig, error) {
	selection, err := s.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return render.ThemeConfigFromSelection(selection), nil
}

// Parse reads a YAML theme file.
func Parse(data []byte) (*Selector, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("themes: decode: %w", err)
	}
	s := NewSelector()
	for _, m := range doc.Themes {
		if err := s.Register(m.manifest()); err != nil {
			return nil, err
		}
	}
	if doc.Default != "" {
		if _, ok := s.manifests[doc.Default]; !ok {
			return nil, fmt.Errorf("%w: default %q", ErrUnknownTheme, doc.Default)
		}
		s.defaultTheme = doc.Default
	}
	return s, nil
}

// LoadFile reads and parses the YAML theme file at path.
func LoadFile(path string) (*Selector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("themes: read %q: %w", path, err)
	}
	return Parse(data)
}
