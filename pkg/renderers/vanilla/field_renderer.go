package vanilla

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/render"
	"github.com/goliatone/go-settingspage/pkg/renderers/vanilla/components"
)

// renderControl resolves the field's component and renders its control with
// the record loaded for the request. Missing keys render as unset.
func (r *Renderer) renderControl(page model.Page, field model.Field, opts render.RenderOptions) (string, error) {
	descriptor, ok := r.components.Descriptor(field.Component)
	if !ok {
		return "", fmt.Errorf("vanilla renderer: component %q not registered for field %q", field.Component, field.ID)
	}

	data := components.ComponentData{
		Template:      r.templates,
		OptionName:    page.Setting.OptionName,
		Values:        opts.Values,
		ThemePartials: themePartials(opts.Theme),
		Translate: func(text string) string {
			return render.Translate(opts, text)
		},
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("vanilla renderer: render component %q for field %q: %w", field.Component, field.ID, err)
	}

	r.logger.Debug().
		Str("field", field.ID).
		Str("component", field.Component).
		Msg("rendered settings field")
	return control.String(), nil
}

func themePartials(theme *render.ThemeConfig) map[string]string {
	if theme == nil {
		return nil
	}
	return theme.Partials
}
