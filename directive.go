package veil

import (
	"fmt"
	"strings"
)

// Directive is a per-field masking override declared via the mask struct tag.
//
// Tag syntax:
//
//	mask:"last4"          - explicit style, configured character
//	mask:"full,char=#"    - explicit style and character
//	mask:"default"        - force masking with the configured style
//
// A directive's presence always takes precedence over config-driven field
// name matching. Style and character are resolved from the directive alone
// (falling back to the configured defaults where unset); there is no merging
// between directive and config-matched decisions.
type Directive struct {
	// Style to apply. StyleDefault defers to the configured style.
	Style Style

	// MaskChar overrides the configured mask character when non-empty.
	MaskChar string
}

// parseDirective parses a mask tag value into a Directive.
// The empty value is valid and means "mask with configured defaults".
func parseDirective(tag string) (Directive, error) {
	d := Directive{Style: StyleDefault}
	if tag == "" {
		return d, nil
	}

	parts := strings.Split(tag, ",")
	style, err := ParseStyle(strings.TrimSpace(parts[0]))
	if err != nil {
		return d, err
	}
	d.Style = style

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "char="):
			d.MaskChar = strings.TrimPrefix(part, "char=")
		case part == "":
			// trailing comma, ignore
		default:
			return d, fmt.Errorf("%w: unknown option %q", ErrInvalidDirective, part)
		}
	}

	return d, nil
}
