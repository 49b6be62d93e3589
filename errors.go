package veil

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidStyle indicates an unknown masking style name.
	ErrInvalidStyle = errors.New("invalid mask style")

	// ErrInvalidDirective indicates a mask struct tag has an invalid
	// format or value.
	ErrInvalidDirective = errors.New("invalid mask directive")

	// ErrInvalidConfig indicates configuration data could not be parsed.
	ErrInvalidConfig = errors.New("invalid config")
)

// DirectiveError reports an invalid mask tag on a specific field.
// It wraps ErrInvalidDirective or ErrInvalidStyle with the field name and
// the offending tag value.
type DirectiveError struct {
	Err   error  // Underlying sentinel error
	Field string // Field name that carries the bad tag
	Tag   string // Raw tag value
}

func (e *DirectiveError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %q (field %s)", e.Err.Error(), e.Tag, e.Field)
	}
	return fmt.Sprintf("%s %q", e.Err.Error(), e.Tag)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}
