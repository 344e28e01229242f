package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/options"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("TEST")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if diff := cmp.Diff([]string{"/a.css"}, original.Stylesheets); diff != "" {
		t.Fatalf("registry descriptor mutated (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsInvalidDescriptors(t *testing.T) {
	reg := New()
	if err := reg.Register(" ", Descriptor{Renderer: func(*bytes.Buffer, model.Field, ComponentData) error { return nil }}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("select", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistryStylesheetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	reg.MustRegister("text", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/text.css"}})
	reg.MustRegister("select", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/select.css"}})

	got := reg.Stylesheets([]string{"text", "select", "missing"})
	want := []string{"/shared.css", "/text.css", "/select.css"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultRegistryNames(t *testing.T) {
	want := []string{"checkbox", "radio", "select", "text"}
	if diff := cmp.Diff(want, NewDefaultRegistry().Names()); diff != "" {
		t.Fatalf("default components mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckboxPayloadBindsOneKeyPerBox(t *testing.T) {
	field := model.Field{ID: "checkbox", Component: model.ComponentCheckbox, Args: model.Args{LabelFor: "checkbox", CustomData: "checkbox-yass-plugin"}}
	payload := checkboxPayload(field, ComponentData{
		OptionName: "wporg_options",
		Values:     options.Record{CheckboxOption1: "1"},
	})

	want := []Choice{
		{ID: "checkbox_option1", Name: "wporg_options[checkbox_option1]", Value: "1", Label: "Option 1", Current: "1"},
		{ID: "checkbox_option2", Name: "wporg_options[checkbox_option2]", Value: "2", Label: "Option 2", Current: ""},
	}
	if diff := cmp.Diff(want, payload["choices"]); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestControlKeyFallsBackToFieldID(t *testing.T) {
	if got := ControlKey(model.Field{ID: "text"}); got != "text" {
		t.Fatalf("expected field id, got %q", got)
	}
	if got := ControlKey(model.Field{ID: "text", Args: model.Args{LabelFor: "custom"}}); got != "custom" {
		t.Fatalf("expected label_for, got %q", got)
	}
}
