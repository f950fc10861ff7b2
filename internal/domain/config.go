package domain

// Source records which configuration layer supplied a resolved setting.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceCLI     Source = "cli"
)

// ResolvedValue is a setting value paired with its provenance. Origin names
// the concrete place the value came from: an environment variable, a flag,
// or a config file path.
type ResolvedValue struct {
	Value  interface{}
	Source Source
	Origin string
}

// IsSet reports whether the value carries anything. Optional settings
// without a default resolve to a nil value.
func (v ResolvedValue) IsSet() bool {
	return v.Value != nil
}

// Frontend selects the interaction model.
type Frontend string

const (
	FrontendAutomatic      Frontend = "automatic"
	FrontendDialog         Frontend = "dialog"
	FrontendReadline       Frontend = "readline"
	FrontendNoninteractive Frontend = "noninteractive"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	OutputHuman OutputFormat = "human"
	OutputJSON  OutputFormat = "json"
)

// DebugLevel is the logging threshold.
type DebugLevel string

const (
	DebugOff   DebugLevel = "off"
	DebugError DebugLevel = "error"
	DebugWarn  DebugLevel = "warn"
	DebugInfo  DebugLevel = "info"
	DebugDebug DebugLevel = "debug"
	DebugTrace DebugLevel = "trace"
)

// FileFormat identifies which config file format produced file values.
type FileFormat string

const (
	FileFormatTOML FileFormat = "toml"
	FileFormatJSON FileFormat = "json"
)

// FileLayer is one config file that contributed values.
type FileLayer struct {
	Path   string
	Format FileFormat
}

// FileContents is the flattened content of the config files. Provider
// tables are flattened into dotted keys such as "openai.api_key". Path and
// Format name the first file read; Origins records the file of each key
// when more than one was merged.
type FileContents struct {
	Path    string
	Format  FileFormat
	Values  map[string]interface{}
	Layers  []FileLayer
	Origins map[string]FileLayer
}

// Found reports whether a config file was read at all.
func (f FileContents) Found() bool {
	return f.Path != ""
}

// OriginOf returns the file that supplied key.
func (f FileContents) OriginOf(key string) FileLayer {
	if layer, ok := f.Origins[key]; ok {
		return layer
	}
	return FileLayer{Path: f.Path, Format: f.Format}
}

// Global setting keys.
const (
	KeyProvider          = "provider"
	KeyModel             = "model"
	KeyFrontend          = "frontend"
	KeyOutputFormat      = "output_format"
	KeyDebug             = "debug"
	KeyMaxTokens         = "max_tokens"
	KeyTemperature       = "temperature"
	KeySuggestionCount   = "suggestion_count"
	KeyMaxReferenceChars = "max_reference_chars"
	KeySkipConfirm       = "skip_confirm"

	KeyRetryMaxAttempts = "retry.max_attempts"
	KeyRetryBaseDelay   = "retry.base_delay_ms"
	KeyRetryMaxDelay    = "retry.max_delay_ms"
	KeyRetryJitter      = "retry.jitter"
)

// Per-provider field names. Combine with ProviderKey.
const (
	FieldAPIKey         = "api_key"
	FieldAPIBase        = "api_base"
	FieldModel          = "model"
	FieldMaxTokens      = "max_tokens"
	FieldOrganization   = "organization"
	FieldDeploymentName = "deployment_name"
	FieldAPIVersion     = "api_version"
)

// ProviderKey builds the dotted key of a provider sub-field.
func ProviderKey(id ProviderID, field string) string {
	return string(id) + "." + field
}
