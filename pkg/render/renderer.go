package render

import (
	"context"

	"github.com/goliatone/go-settingspage/pkg/model"
)

// Renderer converts a settings page model into a byte representation (HTML,
// a JSON payload collected from a terminal, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page model.Page, options RenderOptions) ([]byte, error)
}

// IndexEntry is one link on the admin index.
type IndexEntry struct {
	Href      string
	MenuTitle string
}

// IndexRenderer is implemented by renderers that can list admin pages.
type IndexRenderer interface {
	RenderIndex(ctx context.Context, entries []IndexEntry, options RenderOptions) ([]byte, error)
}
