package domain

// Configuration is the immutable result of resolving every setting. It is
// built in one pass by the resolver and only read afterwards.
type Configuration struct {
	order    []string
	values   map[string]ResolvedValue
	derived  Derived
	warnings []string
}

// Derived holds the values computed from several settings at once.
type Derived struct {
	Provider     ProviderID
	Frontend     Frontend
	OutputFormat OutputFormat
	Profile      ProviderProfile
}

// NewConfiguration copies values so later changes to the inputs cannot leak
// into the configuration.
func NewConfiguration(order []string, values map[string]ResolvedValue, derived Derived, warnings []string) *Configuration {
	copied := make(map[string]ResolvedValue, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Configuration{
		order:    append([]string(nil), order...),
		values:   copied,
		derived:  derived,
		warnings: append([]string(nil), warnings...),
	}
}

// Keys returns setting keys in schema order.
func (c *Configuration) Keys() []string {
	return append([]string(nil), c.order...)
}

// Get returns the resolved value of key.
func (c *Configuration) Get(key string) (ResolvedValue, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Ref returns a FieldRef for key, used in error messages.
func (c *Configuration) Ref(key string) FieldRef {
	v := c.values[key]
	return FieldRef{Key: key, Source: v.Source, Origin: v.Origin}
}

// String returns the string value of key or "" when unset.
func (c *Configuration) String(key string) string {
	if s, ok := c.values[key].Value.(string); ok {
		return s
	}
	return ""
}

// Int returns the integer value of key or 0 when unset.
func (c *Configuration) Int(key string) int {
	switch v := c.values[key].Value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the float value of key or 0 when unset.
func (c *Configuration) Float(key string) float64 {
	switch v := c.values[key].Value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns the boolean value of key or false when unset.
func (c *Configuration) Bool(key string) bool {
	b, _ := c.values[key].Value.(bool)
	return b
}

// Provider is the active backend.
func (c *Configuration) Provider() ProviderID {
	return c.derived.Provider
}

// Frontend is the effective frontend, never FrontendAutomatic.
func (c *Configuration) Frontend() Frontend {
	return c.derived.Frontend
}

// OutputFormat is the effective output format.
func (c *Configuration) OutputFormat() OutputFormat {
	return c.derived.OutputFormat
}

// Profile is the provider profile of the active backend.
func (c *Configuration) Profile() ProviderProfile {
	return c.derived.Profile
}

// DebugLevel is the configured logging threshold.
func (c *Configuration) DebugLevel() DebugLevel {
	if s := c.String(KeyDebug); s != "" {
		return DebugLevel(s)
	}
	return DebugWarn
}

// Warnings are non-fatal notes gathered during resolution, such as unknown
// config file keys.
func (c *Configuration) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

// EffectiveModel returns the model in use together with its provenance. A
// global model wins over the provider-specific one.
func (c *Configuration) EffectiveModel() ResolvedValue {
	if v, ok := c.values[KeyModel]; ok && v.IsSet() {
		return v
	}
	return c.values[ProviderKey(c.derived.Provider, FieldModel)]
}

// EffectiveMaxTokens returns the token limit in use, which may be unset.
func (c *Configuration) EffectiveMaxTokens() ResolvedValue {
	if v, ok := c.values[KeyMaxTokens]; ok && v.IsSet() {
		return v
	}
	return c.values[ProviderKey(c.derived.Provider, FieldMaxTokens)]
}

// SuggestionCount returns how many parallel requests the interactive
// frontends issue.
func (c *Configuration) SuggestionCount() int {
	if n := c.Int(KeySuggestionCount); n > 0 {
		return n
	}
	return DefaultSuggestionCount
}

// RequestCount is the number of suggestion calls to issue. Scripted human
// output only ever prints the first suggestion, so one call suffices.
func (c *Configuration) RequestCount() int {
	if c.Frontend() == FrontendNoninteractive && c.OutputFormat() == OutputHuman {
		return 1
	}
	return c.SuggestionCount()
}
