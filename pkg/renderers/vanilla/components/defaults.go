package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/render"
)

const (
	templatePrefix = "templates/components/"
)

// Partial keys a theme can override.
const (
	PartialSelect   = "forms.select"
	PartialRadio    = "forms.radio"
	PartialCheckbox = "forms.checkbox"
	PartialText     = "forms.text"
)

// Choice is one selectable value of a select, radio or checkbox control.
type Choice struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Label string `json:"label"`
	// Current is the stored value the choice is compared with.
	Current string `json:"current"`
}

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// settings controls.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(model.ComponentSelect, Descriptor{
		Renderer: templateComponentRenderer(PartialSelect, templatePrefix+"select.tmpl", selectPayload),
	})
	registry.MustRegister(model.ComponentRadio, Descriptor{
		Renderer: templateComponentRenderer(PartialRadio, templatePrefix+"radio.tmpl", radioPayload),
	})
	registry.MustRegister(model.ComponentCheckbox, Descriptor{
		Renderer: templateComponentRenderer(PartialCheckbox, templatePrefix+"checkbox.tmpl", checkboxPayload),
	})
	registry.MustRegister(model.ComponentText, Descriptor{
		Renderer: templateComponentRenderer(PartialText, templatePrefix+"text.tmpl", textPayload),
	})

	return registry
}

type payloadFunc func(field model.Field, data ComponentData) map[string]any

func templateComponentRenderer(partialKey, templateName string, payload payloadFunc) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
			resolvedTemplate = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload(field, data))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// ControlKey is the record key a single-valued control binds to.
func ControlKey(field model.Field) string {
	if key := strings.TrimSpace(field.Args.LabelFor); key != "" {
		return key
	}
	return field.ID
}

func basePayload(field model.Field, data ComponentData) map[string]any {
	key := ControlKey(field)
	return map[string]any{
		"id":     key,
		"name":   render.InputName(data.OptionName, key),
		"custom": field.Args.CustomData,
		"value":  data.Values.Lookup(key),
	}
}

func selectPayload(field model.Field, data ComponentData) map[string]any {
	payload := basePayload(field, data)
	current := data.Values.Lookup(ControlKey(field))
	payload["choices"] = []Choice{
		{Value: "activate", Label: data.translate("activate"), Current: current},
		{Value: "deactivate", Label: data.translate("deactivate"), Current: current},
	}
	return payload
}

func radioPayload(field model.Field, data ComponentData) map[string]any {
	payload := basePayload(field, data)
	key := ControlKey(field)
	current := data.Values.Lookup(key)
	name := render.InputName(data.OptionName, key)
	payload["choices"] = []Choice{
		{ID: key + "_option1", Name: name, Value: "1", Label: data.translate("Option 1"), Current: current},
		{ID: key + "_option2", Name: name, Value: "2", Label: data.translate("Option 2"), Current: current},
	}
	return payload
}

// checkboxPayload binds each box to its own key, <key>_option1 and
// <key>_option2, so an unchecked box posts nothing and clears its key.
func checkboxPayload(field model.Field, data ComponentData) map[string]any {
	payload := basePayload(field, data)
	base := ControlKey(field)
	choices := make([]Choice, 0, 2)
	for idx, value := range []string{"1", "2"} {
		key := fmt.Sprintf("%s_option%d", base, idx+1)
		choices = append(choices, Choice{
			ID:      key,
			Name:    render.InputName(data.OptionName, key),
			Value:   value,
			Label:   data.translate(fmt.Sprintf("Option %d", idx+1)),
			Current: data.Values.Lookup(key),
		})
	}
	payload["choices"] = choices
	return payload
}

func textPayload(field model.Field, data ComponentData) map[string]any {
	payload := basePayload(field, data)
	payload["label"] = data.translate("Label")
	return payload
}
