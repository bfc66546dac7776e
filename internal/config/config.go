package config

import "time"

// Document identity.
const (
	APIVersionPrefix = "conneg.avapigw.io/"
	APIVersion       = APIVersionPrefix + "v1"
	Kind             = "ContentNegotiation"
)

// Formatter kinds.
const (
	FormatterKindJSON        = "json"
	FormatterKindXML         = "xml"
	FormatterKindYAML        = "yaml"
	FormatterKindProtobuf    = "protobuf"
	FormatterKindText        = "text"
	FormatterKindOctetStream = "octet-stream"
)

// FormatterKinds lists every known formatter kind.
var FormatterKinds = []string{
	FormatterKindJSON,
	FormatterKindXML,
	FormatterKindYAML,
	FormatterKindProtobuf,
	FormatterKindText,
	FormatterKindOctetStream,
}

// Server defaults.
const (
	DefaultAddress         = ":8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodyBytes    = 1 << 20
	DefaultMetricsPath     = "/metrics"
)

// Config is the root configuration document.
type Config struct {
	APIVersion string   `yaml:"apiVersion" json:"apiVersion"`
	Kind       string   `yaml:"kind" json:"kind"`
	Metadata   Metadata `yaml:"metadata" json:"metadata"`
	Spec       Spec     `yaml:"spec" json:"spec"`
}

// Metadata identifies the configuration.
type Metadata struct {
	Name   string            `yaml:"name" json:"name"`
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// Spec holds the negotiation settings.
type Spec struct {
	Server ServerConfig `yaml:"server" json:"server"`

	// Languages lists the languages responses can be produced in, most
	// preferred first.
	Languages []string `yaml:"languages,omitempty" json:"languages,omitempty"`

	// DefaultMediaType is reported for request bodies without a
	// Content-Type. Empty means application/octet-stream.
	DefaultMediaType string `yaml:"defaultMediaType,omitempty" json:"defaultMediaType,omitempty"`

	// Formatters are consulted in order; the first one wins ties.
	Formatters []FormatterConfig `yaml:"formatters" json:"formatters"`

	Observability *ObservabilityConfig `yaml:"observability,omitempty" json:"observability,omitempty"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string   `yaml:"address,omitempty" json:"address,omitempty"`
	ReadTimeout     Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	WriteTimeout    Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
	MaxBodyBytes    int64    `yaml:"maxBodyBytes,omitempty" json:"maxBodyBytes,omitempty"`
}

// FormatterConfig declares one formatter.
type FormatterConfig struct {
	Name string `yaml:"name" json:"name"`
	Kind string `yaml:"kind" json:"kind"`

	// MediaTypes and Encodings override the kind's defaults. The first
	// element of each is the formatter's default unless DefaultMediaType or
	// DefaultEncoding is set.
	MediaTypes       []string `yaml:"mediaTypes,omitempty" json:"mediaTypes,omitempty"`
	Encodings        []string `yaml:"encodings,omitempty" json:"encodings,omitempty"`
	DefaultMediaType string   `yaml:"defaultMediaType,omitempty" json:"defaultMediaType,omitempty"`
	DefaultEncoding  string   `yaml:"defaultEncoding,omitempty" json:"defaultEncoding,omitempty"`

	// Filter is a CEL expression over name, kind and direction that must
	// hold for the formatter to read or write a type.
	Filter string `yaml:"filter,omitempty" json:"filter,omitempty"`

	JSON *JSONFormatterConfig `yaml:"json,omitempty" json:"json,omitempty"`
}

// JSONFormatterConfig contains JSON-specific options.
type JSONFormatterConfig struct {
	// PrettyPrint when true, formats output with indentation.
	PrettyPrint bool `yaml:"prettyPrint,omitempty" json:"prettyPrint,omitempty"`

	// EmitDefaults when true, includes zero-valued protobuf fields.
	EmitDefaults bool `yaml:"emitDefaults,omitempty" json:"emitDefaults,omitempty"`

	// UseProtoNames when true, uses proto field names instead of lowerCamelCase.
	UseProtoNames bool `yaml:"useProtoNames,omitempty" json:"useProtoNames,omitempty"`

	// EnumAsIntegers when true, encodes protobuf enums as numbers.
	EnumAsIntegers bool `yaml:"enumAsIntegers,omitempty" json:"enumAsIntegers,omitempty"`
}

// DefaultConfig returns a configuration with JSON, XML, YAML, text and
// byte-stream formatters and English responses.
func DefaultConfig() *Config {
	return &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata:   Metadata{Name: "default"},
		Spec: Spec{
			Server: ServerConfig{
				Address:         DefaultAddress,
				ReadTimeout:     Duration(DefaultReadTimeout),
				WriteTimeout:    Duration(DefaultWriteTimeout),
				ShutdownTimeout: Duration(DefaultShutdownTimeout),
				MaxBodyBytes:    DefaultMaxBodyBytes,
			},
			Languages: []string{"en"},
			Formatters: []FormatterConfig{
				{Name: "json", Kind: FormatterKindJSON},
				{Name: "xml", Kind: FormatterKindXML},
				{Name: "yaml", Kind: FormatterKindYAML},
				{Name: "text", Kind: FormatterKindText},
				{Name: "octet-stream", Kind: FormatterKindOctetStream},
			},
			Observability: &ObservabilityConfig{
				Logging: &LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
				Metrics: &MetricsConfig{Enabled: true, Path: DefaultMetricsPath},
				Tracing: &TracingConfig{Enabled: false},
			},
		},
	}
}

// ApplyDefaults fills unset server and observability fields.
func (c *Config) ApplyDefaults() {
	s := &c.Spec.Server
	if s.Address == "" {
		s.Address = DefaultAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if c.Spec.Observability == nil {
		c.Spec.Observability = &ObservabilityConfig{}
	}
	o := c.Spec.Observability
	if o.Logging == nil {
		o.Logging = &LoggingConfig{}
	}
	if o.Logging.Level == "" {
		o.Logging.Level = "info"
	}
	if o.Logging.Format == "" {
		o.Logging.Format = "json"
	}
	if o.Metrics != nil && o.Metrics.Path == "" {
		o.Metrics.Path = DefaultMetricsPath
	}
}
