package config

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/language"

	"github.com/vyrodovalexey/conneg/internal/negotiation"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, e[i].Error())
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "console"}
)

// Validator validates negotiation configuration. It collects every problem
// instead of stopping at the first.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// ValidateConfig validates a configuration.
func ValidateConfig(config *Config) error {
	return NewValidator().Validate(config)
}

// Validate validates the configuration and returns any errors as
// ValidationErrors.
func (v *Validator) Validate(config *Config) error {
	v.errors = make(ValidationErrors, 0)

	if config == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateRoot(config)
	v.validateServer(&config.Spec.Server)
	v.validateLanguages(config.Spec.Languages)
	if config.Spec.DefaultMediaType != "" {
		v.validateMediaType("spec.defaultMediaType", config.Spec.DefaultMediaType)
	}
	v.validateFormatters(config.Spec.Formatters)
	if config.Spec.Observability != nil {
		v.validateObservability(config.Spec.Observability)
	}

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validateRoot(config *Config) {
	if config.APIVersion == "" {
		v.addError("apiVersion", "apiVersion is required")
	} else if !strings.HasPrefix(config.APIVersion, APIVersionPrefix) {
		v.addError("apiVersion", "apiVersion must start with '"+APIVersionPrefix+"'")
	}

	if config.Kind == "" {
		v.addError("kind", "kind is required")
	} else if config.Kind != Kind {
		v.addError("kind", "kind must be '"+Kind+"'")
	}

	if config.Metadata.Name == "" {
		v.addError("metadata.name", "name is required")
	}
}

func (v *Validator) validateServer(server *ServerConfig) {
	if server.Address == "" {
		v.addError("spec.server.address", "address is required")
	}
	if server.ReadTimeout < 0 {
		v.addError("spec.server.readTimeout", "timeout cannot be negative")
	}
	if server.WriteTimeout < 0 {
		v.addError("spec.server.writeTimeout", "timeout cannot be negative")
	}
	if server.ShutdownTimeout < 0 {
		v.addError("spec.server.shutdownTimeout", "timeout cannot be negative")
	}
	if server.MaxBodyBytes < 0 {
		v.addError("spec.server.maxBodyBytes", "maxBodyBytes cannot be negative")
	}
}

func (v *Validator) validateLanguages(languages []string) {
	seen := make(map[string]bool)
	for i, lang := range languages {
		path := fmt.Sprintf("spec.languages[%d]", i)
		if _, err := language.Parse(lang); err != nil {
			v.addError(path, fmt.Sprintf("invalid language tag %q: %v", lang, err))
			continue
		}
		key := strings.ToLower(lang)
		if seen[key] {
			v.addError(path, fmt.Sprintf("duplicate language: %s", lang))
		}
		seen[key] = true
	}
}

func (v *Validator) validateFormatters(formatters []FormatterConfig) {
	if len(formatters) == 0 {
		v.addError("spec.formatters", "at least one formatter is required")
		return
	}

	names := make(map[string]bool)
	for i := range formatters {
		v.validateFormatter(&formatters[i], fmt.Sprintf("spec.formatters[%d]", i), names)
	}
}

func (v *Validator) validateFormatter(f *FormatterConfig, path string, names map[string]bool) {
	switch {
	case f.Name == "":
		v.addError(path+".name", "formatter name is required")
	case names[f.Name]:
		v.addError(path+".name", fmt.Sprintf("duplicate formatter name: %s", f.Name))
	}
	names[f.Name] = true

	if f.Kind == "" {
		v.addError(path+".kind", "formatter kind is required")
	} else if !slices.Contains(FormatterKinds, f.Kind) {
		v.addError(path+".kind", fmt.Sprintf("unknown formatter kind %q, must be one of %s",
			f.Kind, strings.Join(FormatterKinds, ", ")))
	}

	for j, mt := range f.MediaTypes {
		v.validateMediaType(fmt.Sprintf("%s.mediaTypes[%d]", path, j), mt)
	}
	for j, enc := range f.Encodings {
		v.validateCharset(fmt.Sprintf("%s.encodings[%d]", path, j), enc)
	}

	if f.DefaultMediaType != "" && len(f.MediaTypes) > 0 && !containsFold(f.MediaTypes, f.DefaultMediaType) {
		v.addError(path+".defaultMediaType", "default media type must be one of mediaTypes")
	}
	if f.DefaultEncoding != "" && len(f.Encodings) > 0 && !containsFold(f.Encodings, f.DefaultEncoding) {
		v.addError(path+".defaultEncoding", "default encoding must be one of encodings")
	}

	if f.JSON != nil && f.Kind != FormatterKindJSON {
		v.addError(path+".json", "json options are only valid for json formatters")
	}
}

func (v *Validator) validateMediaType(path, mediaType string) {
	r, err := negotiation.ParseMediaTypeRange(mediaType)
	if err != nil {
		v.addError(path, err.Error())
		return
	}
	if r.IsWildcard() {
		v.addError(path, fmt.Sprintf("media type %q must not contain wildcards", mediaType))
	}
}

func (v *Validator) validateCharset(path, charset string) {
	if _, err := htmlindex.Get(charset); err != nil {
		v.addError(path, fmt.Sprintf("unknown charset %q", charset))
	}
}

func (v *Validator) validateObservability(o *ObservabilityConfig) {
	if o.Logging != nil {
		if o.Logging.Level != "" && !slices.Contains(validLogLevels, o.Logging.Level) {
			v.addError("spec.observability.logging.level",
				"level must be one of "+strings.Join(validLogLevels, ", "))
		}
		if o.Logging.Format != "" && !slices.Contains(validLogFormats, o.Logging.Format) {
			v.addError("spec.observability.logging.format",
				"format must be one of "+strings.Join(validLogFormats, ", "))
		}
	}

	if o.Metrics != nil && o.Metrics.Enabled && !strings.HasPrefix(o.Metrics.Path, "/") {
		v.addError("spec.observability.metrics.path", "path must start with '/'")
	}

	if o.Tracing != nil && (o.Tracing.SamplingRate < 0 || o.Tracing.SamplingRate > 1) {
		v.addError("spec.observability.tracing.samplingRate", "samplingRate must be between 0 and 1")
	}
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func containsFold(values []string, s string) bool {
	return slices.ContainsFunc(values, func(v string) bool {
		return strings.EqualFold(v, s)
	})
}
