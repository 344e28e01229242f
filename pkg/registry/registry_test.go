package registry_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/options"
	"github.com/goliatone/go-settingspage/pkg/registry"
)

func seeded(t *testing.T) *registry.Registry {
	t.Helper()

	reg := registry.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	must(reg.RegisterSetting("wporg", "wporg_options", nil))
	must(reg.AddMenuPage(model.MenuPage{Slug: "wporg", Title: "WPOrg", MenuTitle: "WPOrg Options", Capability: "manage_options"}))
	must(reg.AddSection(model.Section{ID: "second", Title: "Second", Page: "wporg"}))
	must(reg.AddSection(model.Section{ID: "first", Title: "First", Page: "wporg"}))
	must(reg.AddField(model.Field{ID: "b", Component: model.ComponentText, Page: "wporg", Section: "first"}))
	must(reg.AddField(model.Field{ID: "a", Component: model.ComponentSelect, Page: "wporg", Section: "second"}))
	must(reg.AddField(model.Field{ID: "c", Component: model.ComponentRadio, Page: "wporg", Section: "first", Args: model.Args{LabelFor: "custom"}}))
	must(reg.AddField(model.Field{ID: "orphan", Component: model.ComponentText, Page: "wporg", Section: "missing"}))
	return reg
}

func TestSectionsPreserveRegistrationOrder(t *testing.T) {
	reg := seeded(t)

	var got []string
	for _, section := range reg.Sections("wporg") {
		got = append(got, section.ID)
		for _, field := range section.Fields {
			got = append(got, section.ID+"/"+field.ID+"@"+field.Args.LabelFor)
		}
	}

	want := []string{"second", "second/a@a", "first", "first/b@b", "first/c@custom"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestPageAssemblesMenuAndSetting(t *testing.T) {
	reg := seeded(t)

	page, err := reg.Page("wporg", "wporg")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Menu.Title != "WPOrg" || page.Setting.OptionName != "wporg_options" {
		t.Fatalf("unexpected page header: %+v", page)
	}
	if got := len(page.Fields()); got != 3 {
		t.Fatalf("expected 3 fields, got %d", got)
	}

	if _, err := reg.Page("missing", "wporg"); err == nil {
		t.Fatalf("expected unknown menu error")
	}
	if _, err := reg.Page("wporg", "missing"); err == nil {
		t.Fatalf("expected unknown group error")
	}
}

func TestDuplicatesRejected(t *testing.T) {
	reg := seeded(t)

	if err := reg.AddMenuPage(model.MenuPage{Slug: "wporg", Capability: "manage_options"}); err == nil {
		t.Fatalf("expected duplicate menu error")
	}
	if err := reg.AddSection(model.Section{ID: "first", Page: "wporg"}); err == nil {
		t.Fatalf("expected duplicate section error")
	}
	if err := reg.AddField(model.Field{ID: "a", Component: model.ComponentText, Page: "wporg", Section: "first"}); err == nil {
		t.Fatalf("expected duplicate field error")
	}
	if err := reg.AddSection(model.Section{ID: "first", Page: "other"}); err != nil {
		t.Fatalf("same section id on another page should be allowed: %v", err)
	}
}

func TestValidation(t *testing.T) {
	reg := registry.New()

	cases := []struct {
		name string
		err  error
	}{
		{"empty group", reg.RegisterSetting("", "opt", nil)},
		{"empty option", reg.RegisterSetting("g", " ", nil)},
		{"menu without capability", reg.AddMenuPage(model.MenuPage{Slug: "x"})},
		{"section without page", reg.AddSection(model.Section{ID: "s"})},
		{"field without component", reg.AddField(model.Field{ID: "f", Page: "p", Section: "s"})},
		{"field without section", reg.AddField(model.Field{ID: "f", Page: "p", Component: "text"})},
	}
	for _, tc := range cases {
		if tc.err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestSettingSanitizerAndReset(t *testing.T) {
	reg := registry.New()
	sanitize := func(r options.Record) options.Record { return r.With(options.KeyText, "clean") }
	if err := reg.RegisterSetting("wporg", "wporg_options", sanitize); err != nil {
		t.Fatalf("register: %v", err)
	}

	setting, fn, ok := reg.Setting(" wporg ")
	if !ok || setting.OptionName != "wporg_options" || fn == nil {
		t.Fatalf("expected registered setting, got %+v ok=%v", setting, ok)
	}
	if got := fn(options.Record{Text: "dirty"}).Text; got != "clean" {
		t.Fatalf("sanitizer not returned, got %q", got)
	}

	reg.Reset()
	if _, _, ok := reg.Setting("wporg"); ok {
		t.Fatalf("expected reset to drop settings")
	}
	if len(reg.MenuPages()) != 0 {
		t.Fatalf("expected reset to drop menus")
	}
}

func TestReplaceSwapsRegistrations(t *testing.T) {
	reg := seeded(t)

	next := registry.New()
	if err := next.RegisterSetting("other", "other_options", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := next.AddMenuPage(model.MenuPage{Slug: "other", Title: "Other", Capability: "manage_options"}); err != nil {
		t.Fatalf("add menu: %v", err)
	}
	reg.Replace(next)

	if _, _, ok := reg.Setting("wporg"); ok {
		t.Fatalf("expected earlier setting to be gone")
	}
	if diff := cmp.Diff([]string{"other"}, slugs(reg.MenuPages())); diff != "" {
		t.Fatalf("menus mismatch (-want +got):\n%s", diff)
	}

	// later changes to next must not leak into reg
	if err := next.AddMenuPage(model.MenuPage{Slug: "late", Capability: "manage_options"}); err != nil {
		t.Fatalf("add menu: %v", err)
	}
	if _, ok := reg.MenuPage("late"); ok {
		t.Fatalf("replace must copy, not share, registration state")
	}

	reg.Replace(nil)
	if _, ok := reg.MenuPage("other"); !ok {
		t.Fatalf("replacing with nil must keep the current state")
	}
}

func slugs(menus []model.MenuPage) []string {
	out := make([]string, 0, len(menus))
	for _, menu := range menus {
		out = append(out, menu.Slug)
	}
	return out
}
