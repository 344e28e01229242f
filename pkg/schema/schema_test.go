package schema_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingspage/pkg/options"
	"github.com/goliatone/go-settingspage/pkg/schema"
	"github.com/goliatone/go-settingspage/pkg/testsupport"
)

func TestValidateAcceptsKnownValues(t *testing.T) {
	got, err := schema.Validate([]byte(`{"activate":"deactivate","radio":"2","checkbox_option1":"1","text":"<b>hi</b>"}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := options.Record{Activate: "deactivate", Radio: "2", CheckboxOption1: "1", Text: "<b>hi</b>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAcceptsEmptyObject(t *testing.T) {
	got, err := schema.Validate([]byte(`{}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff(options.Record{}, got); diff != "" {
		t.Fatalf("expected zero record (-want +got):\n%s", diff)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"enum":          `{"activate":"maybe"}`,
		"checkbox":      `{"checkbox_option2":"1"}`,
		"type":          `{"radio":1}`,
		"unknown key":   `{"color":"red"}`,
		"not an object": `["activate"]`,
		"malformed":     `{`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := schema.Validate([]byte(payload)); !errors.Is(err, schema.ErrInvalidRecord) {
				t.Fatalf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestDocumentIsValid(t *testing.T) {
	doc := schema.Document("")
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("document invalid: %v", err)
	}
	if doc.Paths.Find("/api/options") == nil {
		t.Fatalf("expected /api/options path")
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", decoded["openapi"])
	}
}

func TestValidateFixtureRecord(t *testing.T) {
	path := filepath.Join("testdata", "record.json")
	want := testsupport.MustLoadRecord(t, path)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	got, err := schema.Validate(raw)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fixture mismatch (-want +got):\n%s", diff)
	}
}
