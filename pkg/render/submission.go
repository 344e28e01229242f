package render

import (
	"fmt"
	"sort"
	"strings"
)

// Hidden input names emitted with every settings form.
const (
	FieldOptionPage = "option_page"
	FieldAction     = "action"
	FieldCSRF       = "_csrf"
	FieldReferer    = "_http_referer"

	ActionUpdate = "update"
)

// InputName returns the form name that posts value into the options record:
// option_name[key].
func InputName(optionName, key string) string {
	return optionName + "[" + key + "]"
}

// HiddenField represents a hidden form input emitted alongside the visible
// sections.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs the hidden field carrying the form token.
func CSRFToken(token string) HiddenField {
	return Hidden(FieldCSRF, token)
}

// SettingsFields returns the hidden inputs a settings form needs to be
// accepted on submit: the option group, the update action, the CSRF token and
// the page the submission should return to. Empty token or referer are
// omitted.
func SettingsFields(group, token, referer string) map[string]string {
	fields := []HiddenField{
		Hidden(FieldOptionPage, group),
		Hidden(FieldAction, ActionUpdate),
	}
	if strings.TrimSpace(token) != "" {
		fields = append(fields, CSRFToken(token))
	}
	if strings.TrimSpace(referer) != "" {
		fields = append(fields, Hidden(FieldReferer, referer))
	}
	return MergeHiddenFields(nil, fields...)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders hidden fields by name for deterministic output.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	result := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		result = append(result, HiddenField{Name: name, Value: value})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
