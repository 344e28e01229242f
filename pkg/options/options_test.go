package options_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingspage/pkg/options"
)

func TestDefaultsAreEmpty(t *testing.T) {
	got := options.Defaults().Map()
	want := map[string]string{
		"activate":         "",
		"radio":            "",
		"checkbox_option1": "",
		"checkbox_option2": "",
		"text":             "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMapFillsMissingAndDropsUnknown(t *testing.T) {
	rec := options.FromMap(map[string]string{
		"checkbox_option1": "1",
		"legacy":           "x",
	})

	want := options.Record{CheckboxOption1: "1"}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if got := rec.Lookup(options.KeyCheckboxOption2); got != "" {
		t.Fatalf("expected missing key to read empty, got %q", got)
	}
	if got := rec.Lookup("legacy"); got != "" {
		t.Fatalf("expected unknown key to read empty, got %q", got)
	}
}

func TestFromMapNil(t *testing.T) {
	if diff := cmp.Diff(options.Record{}, options.FromMap(nil)); diff != "" {
		t.Fatalf("nil map should decode to zero record (-want +got):\n%s", diff)
	}
}

func TestWithIgnoresUnknownKeys(t *testing.T) {
	rec := options.Record{Text: "keep"}
	if diff := cmp.Diff(rec, rec.With("unknown", "x")); diff != "" {
		t.Fatalf("unexpected mutation (-want +got):\n%s", diff)
	}
	if got := rec.With(options.KeyRadio, "2").Radio; got != "2" {
		t.Fatalf("expected radio to be set, got %q", got)
	}
}

func TestIsKnown(t *testing.T) {
	for _, key := range options.Keys() {
		if !options.IsKnown(key) {
			t.Fatalf("expected %q to be known", key)
		}
	}
	if options.IsKnown("checkbox") {
		t.Fatalf("checkbox is a field id, not a record key")
	}
}

func TestHooksApplyByPriorityThenOrder(t *testing.T) {
	hooks := options.NewHooks()
	var calls []string

	hooks.AddFilter(options.HookDefaultOptions, 20, func(r options.Record) options.Record {
		calls = append(calls, "late")
		return r.With(options.KeyText, r.Text+"-late")
	})
	hooks.AddFilter(options.HookDefaultOptions, 5, func(r options.Record) options.Record {
		calls = append(calls, "early")
		return r.With(options.KeyText, "early")
	})
	hooks.AddFilter(options.HookDefaultOptions, 5, func(r options.Record) options.Record {
		calls = append(calls, "early-second")
		return r.With(options.KeyActivate, "activate")
	})
	hooks.AddFilter("other", options.DefaultPriority, func(r options.Record) options.Record {
		t.Fatalf("unrelated hook must not run")
		return r
	})

	got := hooks.Apply(options.HookDefaultOptions, options.Defaults())
	want := options.Record{Activate: "activate", Text: "early-late"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filtered record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"early", "early-second", "late"}, calls); diff != "" {
		t.Fatalf("filter order mismatch (-want +got):\n%s", diff)
	}
}

func TestHooksRemoveAll(t *testing.T) {
	hooks := options.NewHooks()
	hooks.AddFilter(options.HookDefaultOptions, options.DefaultPriority, func(r options.Record) options.Record {
		return r.With(options.KeyText, "changed")
	})
	if !hooks.HasFilters(options.HookDefaultOptions) {
		t.Fatalf("expected filter registered")
	}
	hooks.RemoveAll(options.HookDefaultOptions)
	if got := hooks.Apply(options.HookDefaultOptions, options.Defaults()); got.Text != "" {
		t.Fatalf("expected filters removed, got %q", got.Text)
	}
}

func TestDefaultsProvider(t *testing.T) {
	var nilProvider options.DefaultsProvider
	if diff := cmp.Diff(options.Defaults(), nilProvider.Provide()); diff != "" {
		t.Fatalf("nil hooks should yield defaults (-want +got):\n%s", diff)
	}

	hooks := options.NewHooks()
	hooks.AddFilter(options.HookDefaultOptions, options.DefaultPriority, func(r options.Record) options.Record {
		return r.With(options.KeyRadio, "1")
	})
	provider := options.NewDefaultsProvider(hooks)
	if got := provider.Provide().Radio; got != "1" {
		t.Fatalf("expected filtered radio default, got %q", got)
	}
}
