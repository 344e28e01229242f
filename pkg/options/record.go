package options

// Known option keys. The set is fixed; stored maps carrying other keys are
// trimmed when decoded into a Record.
const (
	KeyActivate        = "activate"
	KeyRadio           = "radio"
	KeyCheckboxOption1 = "checkbox_option1"
	KeyCheckboxOption2 = "checkbox_option2"
	KeyText            = "text"
)

// Keys lists every known key in declaration order.
func Keys() []string {
	return []string{
		KeyActivate,
		KeyRadio,
		KeyCheckboxOption1,
		KeyCheckboxOption2,
		KeyText,
	}
}

// IsKnown reports whether key belongs to the record.
func IsKnown(key string) bool {
	switch key {
	case KeyActivate, KeyRadio, KeyCheckboxOption1, KeyCheckboxOption2, KeyText:
		return true
	default:
		return false
	}
}

// Record is the settings page options record. Every known key is a field, so
// a Record is always complete and reads never need existence checks.
type Record struct {
	Activate        string `json:"activate" yaml:"activate"`
	Radio           string `json:"radio" yaml:"radio"`
	CheckboxOption1 string `json:"checkbox_option1" yaml:"checkbox_option1"`
	CheckboxOption2 string `json:"checkbox_option2" yaml:"checkbox_option2"`
	Text            string `json:"text" yaml:"text"`
}

// Lookup returns the value stored under key, or "" for unknown keys.
func (r Record) Lookup(key string) string {
	switch key {
	case KeyActivate:
		return r.Activate
	case KeyRadio:
		return r.Radio
	case KeyCheckboxOption1:
		return r.CheckboxOption1
	case KeyCheckboxOption2:
		return r.CheckboxOption2
	case KeyText:
		return r.Text
	default:
		return ""
	}
}

// With returns a copy of r with key set to value. Unknown keys leave the
// record untouched.
func (r Record) With(key, value string) Record {
	switch key {
	case KeyActivate:
		r.Activate = value
	case KeyRadio:
		r.Radio = value
	case KeyCheckboxOption1:
		r.CheckboxOption1 = value
	case KeyCheckboxOption2:
		r.CheckboxOption2 = value
	case KeyText:
		r.Text = value
	}
	return r
}

// Map projects the record into the flat map persisted by option stores. The
// map always carries every known key.
func (r Record) Map() map[string]string {
	out := make(map[string]string, 5)
	for _, key := range Keys() {
		out[key] = r.Lookup(key)
	}
	return out
}

// FromMap decodes a stored map. Missing keys read as "" and unknown keys are
// dropped; a nil map yields the zero record.
func FromMap(values map[string]string) Record {
	var rec Record
	for key, value := range values {
		rec = rec.With(key, value)
	}
	return rec
}
