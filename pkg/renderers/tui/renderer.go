package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-settingspage/pkg/model"
	"github.com/goliatone/go-settingspage/pkg/options"
	"github.com/goliatone/go-settingspage/pkg/render"
	"github.com/goliatone/go-settingspage/pkg/renderers/vanilla/components"
)

// Renderer implements render.Renderer for terminal sessions. It prompts for
// every registered field, starting from the record in RenderOptions.Values,
// and serializes the edited record.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	confirmSave       bool
	textValidator     TextValidator
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render walks the page sections in registration order and returns the
// edited record.
func (r *Renderer) Render(ctx context.Context, page model.Page, opts render.RenderOptions) ([]byte, error) {
	record, err := r.Edit(ctx, page, opts)
	if err != nil {
		return nil, err
	}
	return r.Encode(page.Setting.OptionName, record)
}

// Edit runs the prompts and returns the edited record without serializing it.
func (r *Renderer) Edit(ctx context.Context, page model.Page, opts render.RenderOptions) (options.Record, error) {
	if ctx == nil {
		return options.Record{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return options.Record{}, err
	}
	if r.driver == nil {
		return options.Record{}, errors.New("tui: prompt driver is nil")
	}

	record := opts.Values
	if err := r.info(ctx, render.Translate(opts, page.Menu.Title)); err != nil {
		return options.Record{}, err
	}

	for _, section := range page.Sections {
		if title := render.Translate(opts, section.Title); title != "" {
			if err := r.info(ctx, title); err != nil {
				return options.Record{}, err
			}
		}
		for _, field := range section.Fields {
			next, err := r.promptField(ctx, field, record, opts)
			if err != nil {
				return options.Record{}, err
			}
			record = next
		}
	}

	if r.confirmSave {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: render.Translate(opts, "Save Settings"),
			Default: true,
		})
		if err != nil {
			return options.Record{}, err
		}
		if !ok {
			return options.Record{}, ErrAborted
		}
	}

	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(record)
		if err != nil {
			return options.Record{}, fmt.Errorf("tui: submit transformer: %w", err)
		}
		record = transformed
	}
	return record, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, record options.Record, opts render.RenderOptions) (options.Record, error) {
	key := components.ControlKey(field)
	message := fmt.Sprintf("%s (%s)", render.Translate(opts, field.Title), field.ID)

	switch field.Component {
	case model.ComponentSelect:
		return r.promptChoice(ctx, message, key, record, []choice{
			{label: render.Translate(opts, "activate"), value: "activate"},
			{label: render.Translate(opts, "deactivate"), value: "deactivate"},
		}, opts)
	case model.ComponentRadio:
		return r.promptChoice(ctx, message, key, record, []choice{
			{label: render.Translate(opts, "Option 1"), value: "1"},
			{label: render.Translate(opts, "Option 2"), value: "2"},
		}, opts)
	case model.ComponentCheckbox:
		return r.promptCheckboxes(ctx, message, key, record, opts)
	case model.ComponentText:
		value, err := r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   record.Lookup(key),
			Help:      field.Args.CustomData,
			Validator: r.textValidator,
		})
		if err != nil {
			return options.Record{}, err
		}
		return record.With(key, value), nil
	default:
		return options.Record{}, fmt.Errorf("%w: %q for field %q", ErrUnsupportedComponent, field.Component, field.ID)
	}
}

type choice struct {
	label string
	value string
}

// promptChoice offers an explicit unset entry first so a stored value can be
// cleared from the terminal.
func (r *Renderer) promptChoice(ctx context.Context, message, key string, record options.Record, choices []choice, opts render.RenderOptions) (options.Record, error) {
	labels := []string{render.Translate(opts, "(unset)")}
	values := []string{""}
	defaultIndex := 0
	current := record.Lookup(key)
	for _, c := range choices {
		if c.value == current {
			defaultIndex = len(labels)
		}
		labels = append(labels, c.label)
		values = append(values, c.value)
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return options.Record{}, err
	}
	if idx < 0 || idx >= len(values) {
		return options.Record{}, fmt.Errorf("tui: selection %d out of range for %q", idx, key)
	}
	return record.With(key, values[idx]), nil
}

// promptCheckboxes maps the two boxes onto <key>_option1 = "1" and
// <key>_option2 = "2"; an unselected box clears its key.
func (r *Renderer) promptCheckboxes(ctx context.Context, message, key string, record options.Record, opts render.RenderOptions) (options.Record, error) {
	keys := []string{key + "_option1", key + "_option2"}
	values := []string{"1", "2"}
	labels := []string{render.Translate(opts, "Option 1"), render.Translate(opts, "Option 2")}

	var defaults []int
	for idx, k := range keys {
		if record.Lookup(k) == values[idx] {
			defaults = append(defaults, idx)
		}
	}

	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  message,
		Options:  labels,
		Defaults: defaults,
	})
	if err != nil {
		return options.Record{}, err
	}

	selected := make(map[int]bool, len(picked))
	for _, idx := range picked {
		selected[idx] = true
	}
	for idx, k := range keys {
		value := ""
		if selected[idx] {
			value = values[idx]
		}
		record = record.With(k, value)
	}
	return record, nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

// Encode serializes record in the configured output format.
func (r *Renderer) Encode(optionName string, record options.Record) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for _, key := range options.Keys() {
			form.Set(render.InputName(optionName, key), record.Lookup(key))
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, key := range options.Keys() {
			fmt.Fprintf(&b, "%s: %s\n", key, record.Lookup(key))
		}
		return []byte(b.String()), nil
	default:
		data, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("tui: encode record: %w", err)
		}
		return data, nil
	}
}
