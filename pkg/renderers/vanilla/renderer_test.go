package vanilla_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/options"
	"github.com/goliatone/go-settingspage/pkg/render"
	"github.com/goliatone/go-settingspage/pkg/renderers/vanilla"
	"github.com/goliatone/go-settingspage/pkg/renderers/vanilla/components"
)

func settingsPage() model.Page {
	field := func(id, component string) model.Field {
		return model.Field{
			ID:        id,
			Title:     "Activate?",
			Component: component,
			Page:      "wporg",
			Section:   "wporg_section_developers",
			Args: model.Args{
				LabelFor:   id,
				Class:      "wporg_row",
				CustomData: id + "-yass-plugin",
			},
		}
	}
	return model.Page{
		Menu:        model.MenuPage{Slug: "wporg", Title: "WPOrg", MenuTitle: "WPOrg Options", Capability: "manage_options"},
		Setting:     model.Setting{Group: "wporg", OptionName: "wporg_options"},
		Action:      "/admin/options",
		SubmitLabel: "Save Settings",
		Sections: []model.Section{{
			ID:          "wporg_section_developers",
			Title:       "The Matrix has you.",
			Description: "Follow the white rabbit.",
			Page:        "wporg",
			Fields: []model.Field{
				field("activate", model.ComponentSelect),
				field("radio", model.ComponentRadio),
				field("checkbox", model.ComponentCheckbox),
				field("text", model.ComponentText),
			},
		}},
	}
}

func newRenderer(t *testing.T, opts ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderField(t *testing.T, id string, values options.Record) string {
	t.Helper()
	page := settingsPage()
	for _, field := range page.Fields() {
		if field.ID != id {
			continue
		}
		out, err := newRenderer(t).RenderField(context.Background(), page, field, render.RenderOptions{Values: values})
		if err != nil {
			t.Fatalf("render field %s: %v", id, err)
		}
		return out
	}
	t.Fatalf("field %s not found", id)
	return ""
}

func assertContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, out)
		}
	}
}

func assertNotContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(out, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, out)
		}
	}
}

func TestSelectMarksStoredValue(t *testing.T) {
	out := renderField(t, "activate", options.Record{Activate: "activate"})
	assertContains(t, out,
		`<select id="activate" data-custom="activate-yass-plugin" name="wporg_options[activate]">`,
		`<option value="activate" selected="selected">activate</option>`,
		`<option value="deactivate">deactivate</option>`,
	)

	out = renderField(t, "activate", options.Record{Activate: "deactivate"})
	assertContains(t, out,
		`<option value="activate">activate</option>`,
		`<option value="deactivate" selected="selected">deactivate</option>`,
	)
}

func TestRadioMarksStoredValue(t *testing.T) {
	out := renderField(t, "radio", options.Record{Radio: "2"})
	assertContains(t, out,
		`<input type="radio" id="radio_option1" data-custom="radio-yass-plugin" name="wporg_options[radio]" value="1">`,
		`<input type="radio" id="radio_option2" data-custom="radio-yass-plugin" name="wporg_options[radio]" value="2" checked="checked">`,
		`<label for="radio_option1">Option 1</label>`,
	)
}

func TestCheckboxChecksOnlyMatchingBox(t *testing.T) {
	out := renderField(t, "checkbox", options.Record{CheckboxOption1: "1"})
	assertContains(t, out,
		`<input type="checkbox" id="checkbox_option1" data-custom="checkbox-yass-plugin" name="wporg_options[checkbox_option1]" value="1" checked="checked">`,
		`<input type="checkbox" id="checkbox_option2" data-custom="checkbox-yass-plugin" name="wporg_options[checkbox_option2]" value="2">`,
	)
}

func TestTextValueIsEscaped(t *testing.T) {
	out := renderField(t, "text", options.Record{Text: `"><script>alert(1)</script>`})
	assertNotContains(t, out, "<script>")
	assertContains(t, out,
		`name="wporg_options[text]"`,
		`value="&quot;&gt;&lt;script&gt;alert(1)&lt;/script&gt;"`,
		`<label for="text">Label</label>`,
	)
}

func TestMissingKeysRenderUnset(t *testing.T) {
	for _, id := range []string{"activate", "radio", "checkbox", "text"} {
		out := renderField(t, id, options.Record{})
		assertNotContains(t, out, "selected=", "checked=")
		if id == "text" {
			assertContains(t, out, `value=""`)
		}
	}
}

func TestRenderPageStructure(t *testing.T) {
	renderer := newRenderer(t, vanilla.WithStylesheet("/assets/settingspage.css"))
	out, err := renderer.Render(context.Background(), settingsPage(), render.RenderOptions{
		Values:       options.Record{Activate: "activate", Text: "hello"},
		HiddenFields: render.SettingsFields("wporg", "tok-1", "/admin/wporg"),
		Notices: []model.Notice{
			{Setting: "wporg_messages", Code: "wporg_message", Message: "Settings Saved", Type: model.NoticeUpdated},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	assertContains(t, html,
		`<link rel="stylesheet" href="/assets/settingspage.css">`,
		`<div id="setting-error-wporg_message" class="notice settings-error is-dismissible notice-success">`,
		`<p><strong>Settings Saved</strong></p>`,
		`<div class="wrap">`,
		`<h1>WPOrg</h1>`,
		`<form action="/admin/options" method="post">`,
		`<input type="hidden" name="option_page" value="wporg">`,
		`<input type="hidden" name="action" value="update">`,
		`<input type="hidden" name="_csrf" value="tok-1">`,
		`<input type="hidden" name="_http_referer" value="/admin/wporg">`,
		`<h2>The Matrix has you.</h2>`,
		`<p id="wporg_section_developers">Follow the white rabbit.</p>`,
		`<table class="form-table" role="presentation">`,
		`<tr class="wporg_row">`,
		`<th scope="row"><label for="activate">Activate?</label></th>`,
		`value="hello"`,
		`<p class="submit"><input type="submit" name="submit" id="submit" class="button button-primary" value="Save Settings"></p>`,
	)

	// notices precede the wrapper; fields follow registration order
	order := []string{"setting-error-wporg_message", `<div class="wrap">`, `id="activate"`, `id="radio_option1"`, `id="checkbox_option1"`, `id="text"`, `type="submit"`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(html, marker)
		if idx <= last {
			t.Fatalf("marker %q out of order (index %d after %d)", marker, idx, last)
		}
		last = idx
	}
}

func TestRenderWithoutNoticesOrStylesheet(t *testing.T) {
	out, err := newRenderer(t).Render(context.Background(), settingsPage(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertNotContains(t, string(out), "setting-error", "<link")
}

func TestRenderTranslatesUIStrings(t *testing.T) {
	catalog := render.Catalog{"es": {
		"WPOrg":         "WPOrg ES",
		"Save Settings": "Guardar ajustes",
		"Option 1":      "Opción 1",
	}}
	out, err := newRenderer(t).Render(context.Background(), settingsPage(), render.RenderOptions{
		Locale:     "es",
		Translator: catalog,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), "<h1>WPOrg ES</h1>", `value="Guardar ajustes"`, "Opción 1")
}

func TestRenderUsesThemeTokensAndPartials(t *testing.T) {
	overlay := fstest.MapFS{
		"themes/admin/text.tmpl": {Data: []byte(`<input class="themed" name="{{ name }}" value="{{ value }}">`)},
	}
	renderer := newRenderer(t, vanilla.WithTemplatesFS(overlay))

	theme := &render.ThemeConfig{
		Theme:    "admin",
		Tokens:   map[string]string{render.TokenWrapClass: "wrap admin", render.TokenSubmitClass: "btn"},
		Partials: map[string]string{"forms.text": "themes/admin/text.tmpl"},
		AssetURL: func(key string) string {
			if key == "stylesheet" {
				return "/assets/themes/admin.css"
			}
			return ""
		},
	}
	out, err := renderer.Render(context.Background(), settingsPage(), render.RenderOptions{
		Values: options.Record{Text: "x"},
		Theme:  theme,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out),
		`<div class="wrap admin">`,
		`class="btn"`,
		`<input class="themed" name="wporg_options[text]" value="x">`,
		`href="/assets/themes/admin.css"`,
	)
}

func TestRenderUnknownComponent(t *testing.T) {
	page := settingsPage()
	page.Sections[0].Fields[0].Component = "color"
	if _, err := newRenderer(t).Render(context.Background(), page, render.RenderOptions{}); err == nil {
		t.Fatalf("expected unknown component error")
	}
}

func TestRenderIndex(t *testing.T) {
	out, err := newRenderer(t).RenderIndex(context.Background(), []render.IndexEntry{
		{Href: "/admin/wporg", MenuTitle: "WPOrg Options"},
	}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render index: %v", err)
	}
	assertContains(t, string(out), `<li><a href="/admin/wporg">WPOrg Options</a></li>`)

	empty, err := newRenderer(t).RenderIndex(context.Background(), nil, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render empty index: %v", err)
	}
	assertContains(t, string(empty), "No settings pages available.")
}

func TestAssetsFSServesStylesheet(t *testing.T) {
	file, err := vanilla.AssetsFS().Open(vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
	_ = file.Close()
}

func TestComponentRegistryOverride(t *testing.T) {
	registry := components.NewDefaultRegistry().Clone()
	registry.MustRegister(model.ComponentText, components.Descriptor{
		Renderer: func(buf *bytes.Buffer, field model.Field, data components.ComponentData) error {
			fmt.Fprintf(buf, `<textarea name="%s">%s</textarea>`,
				render.InputName(data.OptionName, components.ControlKey(field)),
				data.Values.Lookup(components.ControlKey(field)))
			return nil
		},
	})

	renderer := newRenderer(t, vanilla.WithComponentRegistry(registry))
	page := settingsPage()
	out, err := renderer.RenderField(context.Background(), page, page.Sections[0].Fields[3], render.RenderOptions{
		Values: options.Record{Text: "notes"},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	assertContains(t, out, `<textarea name="wporg_options[text]">notes</textarea>`)

	if _, ok := components.NewDefaultRegistry().Descriptor(model.ComponentText); !ok {
		t.Fatalf("default registry must keep the text component")
	}
}

func TestTemplatesDirOverridesComponent(t *testing.T) {
	dir := t.TempDir()
	componentsDir := filepath.Join(dir, "templates", "components")
	if err := os.MkdirAll(componentsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	tmpl := `<input type="search" id="{{ id }}" name="{{ name }}" value="{{ value }}">`
	if err := os.WriteFile(filepath.Join(componentsDir, "text.tmpl"), []byte(tmpl), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	renderer := newRenderer(t, vanilla.WithTemplatesDir(dir))
	page := settingsPage()
	out, err := renderer.RenderField(context.Background(), page, page.Sections[0].Fields[3], render.RenderOptions{
		Values: options.Record{Text: "q"},
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	assertContains(t, out, `<input type="search" id="text" name="wporg_options[text]" value="q">`)

	// controls without an override still come from the embedded bundle
	out, err = renderer.RenderField(context.Background(), page, page.Sections[0].Fields[0], render.RenderOptions{})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	assertContains(t, out, `<option value="activate">`)
}

func TestRenderLinksComponentStylesheets(t *testing.T) {
	registry := components.NewDefaultRegistry().Clone()
	text, _ := registry.Descriptor(model.ComponentText)
	text.Stylesheets = []string{"/assets/settingspage.css", "/assets/text.css"}
	registry.MustRegister(model.ComponentText, text)

	renderer := newRenderer(t,
		vanilla.WithComponentRegistry(registry),
		vanilla.WithStylesheet("/assets/settingspage.css"),
	)
	out, err := renderer.Render(context.Background(), settingsPage(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if strings.Count(html, `href="/assets/settingspage.css"`) != 1 {
		t.Fatalf("expected page stylesheet once\n%s", html)
	}
	base := strings.Index(html, `href="/assets/settingspage.css"`)
	component := strings.Index(html, `<link rel="stylesheet" href="/assets/text.css">`)
	if component < 0 || component < base {
		t.Fatalf("expected component stylesheet after the page stylesheet\n%s", html)
	}
}

type fixedTemplates struct {
	names []string
}

func (f *fixedTemplates) RenderTemplate(name string, _ any, _ ...io.Writer) (string, error) {
	f.names = append(f.names, name)
	return "[" + name + "]", nil
}

func TestTemplateRendererOverride(t *testing.T) {
	templates := &fixedTemplates{}
	renderer := newRenderer(t, vanilla.WithTemplateRenderer(templates))
	out, err := renderer.Render(context.Background(), settingsPage(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "[templates/page.tmpl]" {
		t.Fatalf("unexpected output %q", out)
	}
	if templates.names[0] != "templates/components/select.tmpl" {
		t.Fatalf("expected controls to render first, got %v", templates.names)
	}
}
