package veil

import (
	"fmt"
	"strings"
	"unicode"
)

// Style represents a masking style.
// Use these constants in struct tags: `mask:"last4"`
type Style string

const (
	// StyleDefault defers to the globally configured style.
	StyleDefault Style = "default"

	// StyleFull replaces every character with the mask character.
	StyleFull Style = "full"

	// StylePartial applies content-aware partial masking, preserving
	// contextual prefix/suffix characters.
	StylePartial Style = "partial"

	// StyleLast4 reveals only the trailing 4 characters.
	StyleLast4 Style = "last4"
)

// validStyles contains all valid styles for tag validation.
var validStyles = map[Style]bool{
	StyleDefault: true,
	StyleFull:    true,
	StylePartial: true,
	StyleLast4:   true,
}

// IsValidStyle returns true if the style is a known masking style.
func IsValidStyle(s Style) bool {
	return validStyles[s]
}

// ParseStyle converts a string into a Style.
// The empty string parses as StyleDefault.
func ParseStyle(s string) (Style, error) {
	if s == "" {
		return StyleDefault, nil
	}
	style := Style(strings.ToLower(s))
	if !IsValidStyle(style) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStyle, s)
	}
	return style, nil
}

// Styler applies string-level masking. It is stateless aside from the
// immutable Config it resolves defaults from, and is safe for concurrent use.
//
// Styler never modifies anything; it returns a new masked string.
type Styler struct {
	cfg *Config
}

// NewStyler returns a Styler resolving defaults from cfg.
func NewStyler(cfg *Config) *Styler {
	return &Styler{cfg: cfg}
}

// MaskDefault masks value using the globally configured style and character.
func (s *Styler) MaskDefault(value string) string {
	return s.Mask(value, StyleDefault, "")
}

// Mask masks value using an explicit style, falling back to the configured
// defaults for StyleDefault and a blank mask character.
//
// Empty and all-whitespace values are returned unchanged.
func (s *Styler) Mask(value string, style Style, maskChar string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}

	effectiveStyle := style
	if effectiveStyle == "" || effectiveStyle == StyleDefault {
		effectiveStyle = s.cfg.Style
	}

	effectiveChar := maskChar
	if strings.TrimSpace(effectiveChar) == "" {
		effectiveChar = s.cfg.MaskChar
	}

	switch effectiveStyle {
	case StyleFull:
		return maskFull(value, effectiveChar)
	case StyleLast4:
		return maskLast4(value, effectiveChar)
	default:
		return maskPartial(value, effectiveChar)
	}
}

// maskFull replaces every character with the mask character.
// "hello" -> "*****"
func maskFull(value, maskChar string) string {
	return strings.Repeat(maskChar, len([]rune(value)))
}

// maskLast4 reveals only the trailing 4 characters.
// "4111111111111234" -> "************1234"
// Values of 4 characters or fewer are too short to usefully mask and are
// returned unchanged.
func maskLast4(value, maskChar string) string {
	runes := []rune(value)
	if len(runes) <= 4 {
		return value
	}
	return strings.Repeat(maskChar, len(runes)-4) + string(runes[len(runes)-4:])
}

// maskPartial applies content-aware masking:
//   - emails keep up to 2 leading username characters and the full domain:
//     "john@gmail.com" -> "jo**@gmail.com"
//   - digit-heavy values keep up to 3 leading and trailing characters:
//     "0712345678" -> "071****678"
//   - generic strings of 6+ characters keep the first and last quarter:
//     "password123" -> "pa*******23"
//   - shorter strings are fully masked
func maskPartial(value, maskChar string) string {
	if strings.Contains(value, "@") {
		return maskEmail(value, maskChar)
	}

	runes := []rune(value)
	digits := 0
	for _, r := range runes {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if float64(digits)/float64(len(runes)) > 0.5 {
		return maskPhone(value, maskChar)
	}

	n := len(runes)
	if n < 6 {
		return maskFull(value, maskChar)
	}
	showStart := max(1, n/4)
	showEnd := max(1, n/4)
	return string(runes[:showStart]) +
		strings.Repeat(maskChar, n-showStart-showEnd) +
		string(runes[n-showEnd:])
}

// maskEmail keeps min(2, len/2) leading username characters and the domain.
// "john.doe@gmail.com" -> "jo******@gmail.com"
func maskEmail(email, maskChar string) string {
	atIdx := strings.Index(email, "@")
	if atIdx <= 0 {
		return maskFull(email, maskChar)
	}

	username := []rune(email[:atIdx])
	domain := email[atIdx:] // includes '@'

	if len(username) <= 2 {
		return strings.Repeat(maskChar, len(username)) + domain
	}
	show := min(2, len(username)/2)
	return string(username[:show]) +
		strings.Repeat(maskChar, len(username)-show) +
		domain
}

// maskPhone keeps min(3, len/3) leading and trailing characters with at
// least one masked character between.
// "0712345678" -> "071****678"
func maskPhone(phone, maskChar string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return maskFull(phone, maskChar)
	}
	showStart := min(3, n/3)
	showEnd := min(3, n/3)
	return string(runes[:showStart]) +
		strings.Repeat(maskChar, max(1, n-showStart-showEnd)) +
		string(runes[n-showEnd:])
}
