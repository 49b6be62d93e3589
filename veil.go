// Package veil produces masked, log-safe representations of structured values.
//
// The package walks an arbitrary value graph and builds a fresh render tree
// in which sensitive string fields are masked. The original value is never
// modified: masking exists to keep secrets out of log lines, not to transform
// data on its way to storage or API responses. Masked output must never be
// fed back into persisted or response paths.
//
// # Styles
//
// Three masking styles are supported:
//
//   - full: replace every character ("hello" → "*****")
//   - partial: content-aware partial reveal ("john@gmail.com" → "jo**@gmail.com",
//     "0712345678" → "071****678", "password123" → "pa*******23")
//   - last4: reveal only the trailing 4 characters ("4111111111111234" → "************1234")
//
// # Sensitive fields
//
// A field is masked when its name matches the configured sensitive set
// (case- and separator-insensitive, so phone_number, PhoneNumber and
// phonenumber are equivalent), or when it carries an explicit mask tag.
// A tag always wins over the configured set:
//
//	type User struct {
//	    Name  string `json:"name"`
//	    Email string `json:"email"`                  // masked via config ("email" is a default)
//	    Card  string `json:"card" mask:"last4"`      // masked via directive
//	    PIN   string `json:"pin" mask:"full,char=#"` // directive with explicit character
//	}
//
// # Basic usage
//
//	cfg := veil.DefaultConfig()
//	w := veil.New(cfg)
//
//	w.String(user)
//	// {"name":"John Smith","email":"jo**@gmail.com","card":"************1111","pin":"####"}
//
// # Logging
//
// Lazy wraps a value so traversal only happens when a log sink actually
// renders the entry:
//
//	slog.Debug("creating user", "user", w.Lazy(user))
//
// LazyValue implements slog.LogValuer, and Walker.ReplaceAttr can be wired
// into slog.HandlerOptions to mask plain string attributes by key.
//
// # Safety
//
// Masking is best-effort infrastructure. Traversal and rendering failures
// are recovered internally and degrade to the value's plain string form;
// they never abort the calling operation. Cyclic graphs terminate with a
// cycle marker, and traversal depth is bounded (WithMaxDepth).
//
// # Codec providers
//
// The masked tree renders as ordered JSON by default. Alternative renderings
// are available as subpackages implementing Codec:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
package veil

// Codec renders a masked tree (or any value) in a concrete wire format.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)
}

// Maskable bypasses reflection-based traversal.
// When a type implements Maskable, the Walker uses the returned value as the
// masked representation instead of walking the type's fields.
//
// The returned value must not alias mutable state of the receiver; it is
// handed to the rendering codec as-is. This interface is designed for
// codegen: a generator can implement it from mask tags for hot-path types.
type Maskable interface {
	// MaskedValue returns the log-safe representation of the receiver.
	MaskedValue() any
}
