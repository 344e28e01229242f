package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingspage/pkg/options"
	"github.com/goliatone/go-settingspage/pkg/renderers/tui"
)

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settingsd.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestShowDefaultsFromMemoryStore(t *testing.T) {
	out, err := run(t, &app{}, "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var got options.Record
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if diff := cmp.Diff(options.Defaults(), got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestShowHTML(t *testing.T) {
	out, err := run(t, &app{}, "show", "--format", "html")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "<h1>WPOrg</h1>") || !strings.Contains(out, `name="wporg_options[text]"`) {
		t.Fatalf("unexpected html\n%s", out)
	}
}

func TestShowUnknownFormat(t *testing.T) {
	if _, err := run(t, &app{}, "show", "--format", "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

type scriptedDriver struct{}

func (scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	return "<b>typed</b>", nil
}
func (scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return true, nil
}
func (scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) { return 1, nil }
func (scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return []int{1}, nil
}
func (scriptedDriver) Info(context.Context, string) error { return nil }

func TestEditPersistsToFileStore(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "store:\n  driver: file\n  path: "+filepath.Join(dir, "options.yaml")+"\npage:\n  sanitize_input: true\n")

	out, err := run(t, &app{driver: scriptedDriver{}}, "--config", cfg, "edit", "--format", "pretty")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	want := "activate: activate\nradio: 1\ncheckbox_option1: \ncheckbox_option2: 2\ntext: typed\n"
	if strings.TrimSuffix(out, "\n") != strings.TrimSuffix(want, "\n") {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, out)
	}

	out, err = run(t, &app{}, "--config", cfg, "show", "--format", "yaml")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "checkbox_option2: \"2\"") || !strings.Contains(out, "text: typed") {
		t.Fatalf("edit was not persisted\n%s", out)
	}
}

func TestInitAcrossDrivers(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()
	cases := map[string]string{
		"sqlite": "store:\n  driver: sqlite\n  path: " + filepath.Join(dir, "options.db") + "\n",
		"badger": "store:\n  driver: badger\n  path: " + filepath.Join(dir, "badger") + "\n",
		"redis":  "store:\n  driver: redis\n  redis_addr: " + mr.Addr() + "\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := writeConfig(t, body)
			out, err := run(t, &app{}, "--config", cfg, "init")
			if err != nil {
				t.Fatalf("init: %v", err)
			}
			if out != "wporg_options ready in "+name+" store\n" {
				t.Fatalf("unexpected output %q", out)
			}
		})
	}
	if !mr.Exists("options:wporg_options") {
		t.Fatalf("expected redis key, have %v", mr.Keys())
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "store:\n  driver: etcd\n")
	if _, err := run(t, &app{}, "--config", cfg, "show"); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestEnvListsVariables(t *testing.T) {
	out, err := run(t, &app{}, "env")
	if err != nil {
		t.Fatalf("env: %v", err)
	}
	if !strings.Contains(out, "SETTINGSD_HTTP_ADDR") {
		t.Fatalf("expected variables in output\n%s", out)
	}
}

func TestThemeAndTranslationsFromConfig(t *testing.T) {
	dir := t.TempDir()
	themeFile := filepath.Join(dir, "themes.yaml")
	catalog := filepath.Join(dir, "i18n.yaml")
	if err := os.WriteFile(themeFile, []byte("themes:\n  - name: admin\n    tokens:\n      wrap_class: wrap admin\n"), 0o600); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	if err := os.WriteFile(catalog, []byte("es:\n  Save Settings: Guardar\n"), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfg := writeConfig(t, "page:\n  locale: es\n  translations: "+catalog+"\n  theme_file: "+themeFile+"\n  theme: admin\n")

	out, err := run(t, &app{}, "--config", cfg, "show", "--format", "html")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, `<div class="wrap admin">`) || !strings.Contains(out, `value="Guardar"`) {
		t.Fatalf("expected themed, translated page\n%s", out)
	}
}

func TestSingleLineRejectsBreaks(t *testing.T) {
	if err := singleLine("plain text"); err != nil {
		t.Fatalf("expected plain text to pass, got %v", err)
	}
	for _, value := range []string{"a\nb", "a\r\nb"} {
		if err := singleLine(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}
