package settings

import (
	"html"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-settingspage/pkg/options"
	"github.com/goliatone/go-settingspage/pkg/registry"
)

// maxSanitizePasses bounds the decode/strip loop for nested entity encodings.
const maxSanitizePasses = 8

// StrictSanitizer strips every HTML tag from submitted values, including
// tags smuggled in as entities. The stored text is plain, so the renderer's
// escaping is applied exactly once.
func StrictSanitizer() registry.SanitizeFunc {
	policy := bluemonday.StrictPolicy()
	return func(record options.Record) options.Record {
		out := record
		for _, key := range options.Keys() {
			out = out.With(key, stripMarkup(policy, record.Lookup(key)))
		}
		return out
	}
}

// stripMarkup decodes and strips until the value stops changing. A value
// that never settles keeps the policy's escaped form.
func stripMarkup(policy *bluemonday.Policy, value string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(policy.Sanitize(value))
		if next == value {
			return next
		}
		value = next
	}
	return policy.Sanitize(value)
}
