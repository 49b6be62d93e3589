package veil

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds process-wide masking configuration.
//
// A Config is immutable after construction and may be shared freely across
// concurrent walkers and stylers. To change configuration at runtime,
// construct a new Config and new components around it.
type Config struct {
	// Enabled toggles masking globally. When false every sensitivity check
	// reports false and walkers fall back to plain string rendering.
	Enabled bool `yaml:"enabled"`

	// Fields lists sensitive field names. Matching is case-insensitive and
	// ignores "_" and "-" separators, so "phoneNumber" also covers
	// "phone_number" and "PHONE-NUMBER". Matching is exact after
	// normalization; there is no substring or prefix matching.
	Fields []string `yaml:"fields"`

	// Style is the masking style applied when a field carries no directive.
	Style Style `yaml:"mask-style"`

	// MaskChar is the character used for masking when a directive does not
	// override it.
	MaskChar string `yaml:"mask-character"`
}

// DefaultFields is the sensitive-field set used by DefaultConfig.
var DefaultFields = []string{
	"email",
	"phoneNumber",
	"ssn",
	"creditCardNumber",
	"password",
	"cardNumber",
}

// DefaultConfig returns a Config with masking enabled, the DefaultFields
// sensitive set, partial masking, and "*" as the mask character.
func DefaultConfig() *Config {
	return &Config{
		Enabled:  true,
		Fields:   append([]string(nil), DefaultFields...),
		Style:    StylePartial,
		MaskChar: "*",
	}
}

// ConfigFromYAML parses configuration from YAML:
//
//	enabled: true
//	fields:
//	  - email
//	  - phoneNumber
//	mask-style: partial
//	mask-character: "*"
//
// Omitted keys take the DefaultConfig values.
func ConfigFromYAML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Style = Style(strings.ToLower(string(cfg.Style)))
	if cfg.Style == "" {
		cfg.Style = StylePartial
	}
	if !IsValidStyle(cfg.Style) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStyle, cfg.Style)
	}
	if cfg.MaskChar == "" {
		cfg.MaskChar = "*"
	}
	return cfg, nil
}

// IsSensitiveField reports whether the named field should be masked.
// It returns false when masking is disabled or name is empty.
//
// Both the queried name and the configured names are normalized by
// lower-casing and stripping "_" and "-" before comparing.
func (c *Config) IsSensitiveField(name string) bool {
	if !c.Enabled || name == "" {
		return false
	}
	normalized := normalizeFieldName(name)
	for _, f := range c.Fields {
		if normalizeFieldName(f) == normalized {
			return true
		}
	}
	return false
}

// normalizeFieldName lowercases and strips separators so camelCase and
// snake_case spellings of the same name compare equal.
func normalizeFieldName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "")
	return strings.ReplaceAll(name, "-", "")
}
