package options

// Defaults returns the canonical default record: every field empty.
func Defaults() Record {
	return Record{}
}

// DefaultsProvider supplies the record used to seed the option store. Hooks
// registered under HookDefaultOptions may alter it.
type DefaultsProvider struct {
	Hooks *Hooks
}

// NewDefaultsProvider wires a provider to the supplied filter table. A nil
// table yields the plain defaults.
func NewDefaultsProvider(hooks *Hooks) DefaultsProvider {
	return DefaultsProvider{Hooks: hooks}
}

// Provide returns the filtered defaults.
func (p DefaultsProvider) Provide() Record {
	return p.Hooks.Apply(HookDefaultOptions, Defaults())
}
