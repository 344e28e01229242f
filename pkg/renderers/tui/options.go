package tui

import "github.com/goliatone/go-settingspage/pkg/options"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the record as application/json.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits option_name[key]=value pairs, the same
	// shape the HTML form posts.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the renderer applies to informational
// messages.
type Theme struct {
	InfoPrefix string
}

// SubmitTransformer mutates the collected record before serialization.
type SubmitTransformer func(options.Record) (options.Record, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer lets callers rewrite the collected record prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithConfirmSave asks for confirmation after the last field; declining
// returns ErrAborted.
func WithConfirmSave(confirm bool) Option {
	return func(r *Renderer) {
		r.confirmSave = confirm
	}
}

// WithTextValidator checks text answers at the prompt; the terminal asks
// again until the validator accepts the value.
func WithTextValidator(fn TextValidator) Option {
	return func(r *Renderer) {
		r.textValidator = fn
	}
}
