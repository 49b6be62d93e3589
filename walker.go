package veil

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// DefaultMaxDepth bounds traversal of non-cyclic chains. Cycles are caught
// by identity tracking; the depth ceiling guards against adversarially deep
// acyclic graphs exhausting the stack.
const DefaultMaxDepth = 32

// Walker traverses a value graph and produces a masked render tree.
//
// Walkers are stateless aside from their immutable Config; every traversal
// carries its own visited set, so a single Walker is safe for concurrent
// use without synchronization. The walked value is never modified.
type Walker struct {
	cfg      *Config
	styler   *Styler
	codec    Codec
	maxDepth int
}

// Option configures a Walker.
type Option func(*Walker)

// WithCodec sets the codec used by String to render the masked tree.
// The default is ordered JSON.
func WithCodec(c Codec) Option {
	return func(w *Walker) { w.codec = c }
}

// WithMaxDepth sets the traversal depth ceiling. Values nested deeper are
// replaced with a truncation marker.
func WithMaxDepth(n int) Option {
	return func(w *Walker) {
		if n > 0 {
			w.maxDepth = n
		}
	}
}

// New returns a Walker reading defaults from cfg.
func New(cfg *Config, opts ...Option) *Walker {
	w := &Walker{
		cfg:      cfg,
		styler:   NewStyler(cfg),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(w)
	}

	contentType := "application/json"
	if w.codec != nil {
		contentType = w.codec.ContentType()
	}
	emitWalkerCreated(context.Background(), contentType, w.maxDepth)
	return w
}

// Styler returns the string-level masking engine the walker delegates to.
func (w *Walker) Styler() *Styler {
	return w.styler
}

// String returns the masked rendering of v.
//
// Masking is best-effort: any traversal or rendering failure degrades to the
// value's plain string form and is never surfaced to the caller. A nil value
// renders as "null", and with masking disabled the plain string form is
// returned without traversal.
func (w *Walker) String(v any) string {
	return w.StringContext(context.Background(), v)
}

// StringContext is String with a caller-supplied context for emitted signals.
func (w *Walker) StringContext(ctx context.Context, v any) string {
	if v == nil {
		return "null"
	}
	if !w.cfg.Enabled {
		return plainString(v)
	}

	typeName := typeNameOf(reflect.TypeOf(v))
	start := time.Now()
	emitMaskStart(ctx, typeName)

	out, masked, err := w.render(v)
	emitMaskComplete(ctx, typeName, len(out), time.Since(start), masked, err)
	if err != nil {
		emitMaskFallback(ctx, typeName, err)
		return plainString(v)
	}
	return out
}

// Mask returns the masked render tree for v without serializing it.
// With masking disabled the tree degenerates to a single scalar holding
// the plain string form.
func (w *Walker) Mask(v any) Node {
	if v == nil {
		return Scalar(nil)
	}
	if !w.cfg.Enabled {
		return Scalar(plainString(v))
	}

	node, _, err := w.walk(v)
	if err != nil {
		return Scalar(plainString(v))
	}
	return node
}

// render builds the tree and serializes it, converting panics into errors
// so callers can fall back to the plain form.
func (w *Walker) render(v any) (out string, masked int, err error) {
	node, masked, err := w.walk(v)
	if err != nil {
		return "", masked, err
	}

	var data []byte
	if w.codec != nil {
		data, err = w.codec.Marshal(node)
	} else {
		data, err = json.Marshal(node)
	}
	if err != nil {
		return "", masked, fmt.Errorf("render: %w", err)
	}
	return string(data), masked, nil
}

// walk is the recovered traversal entry point.
func (w *Walker) walk(v any) (node Node, masked int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("traversal: %v", r)
		}
	}()

	st := &walkState{visited: make(map[visitRef]struct{})}
	node = w.walkValue(reflect.ValueOf(v), false, nil, st, 0)
	return node, st.masked, nil
}

// visitRef identifies a visited value by pointer identity and type, so a
// struct and its first field do not collide at the same address.
type visitRef struct {
	ptr uintptr
	typ reflect.Type
}

// walkState is scoped to a single top-level traversal. It is never shared
// across calls.
type walkState struct {
	visited map[visitRef]struct{}
	masked  int
}

// visit records a pointer-identified value, reporting whether it was
// already seen in this traversal.
func (st *walkState) visit(rv reflect.Value) bool {
	ref := visitRef{ptr: rv.Pointer(), typ: rv.Type()}
	if _, seen := st.visited[ref]; seen {
		return true
	}
	st.visited[ref] = struct{}{}
	return false
}

// walkValue dispatches on the value's kind. maskFlag and dir carry the
// enclosing field's masking applicability into collections, per the rule
// that elements are masked according to the parent field's decision.
func (w *Walker) walkValue(rv reflect.Value, maskFlag bool, dir *Directive, st *walkState, depth int) Node {
	if !rv.IsValid() {
		return Scalar(nil)
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return Scalar(nil)
		}
		return w.walkValue(rv.Elem(), maskFlag, dir, st, depth)

	case reflect.Pointer:
		if rv.IsNil() {
			return Scalar(nil)
		}
		if m, ok := rv.Interface().(Maskable); ok {
			return Scalar(m.MaskedValue())
		}
		if st.visit(rv) {
			return Cyclic(typeNameOf(rv.Type().Elem()))
		}
		return w.walkValue(rv.Elem(), maskFlag, dir, st, depth)

	case reflect.String:
		s := rv.String()
		if maskFlag {
			st.masked++
			return Masked(w.maskString(s, dir))
		}
		return Scalar(s)

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return Scalar(rv.Interface())

	case reflect.Slice:
		if rv.IsNil() {
			return Scalar(nil)
		}
		// Byte slices cannot carry the modeled sensitive strings
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar(rv.Interface())
		}
		// Empty slices all share the runtime's zero-size base address and
		// cannot form cycles, so they stay out of the visited set.
		if rv.Len() > 0 && st.visit(rv) {
			return Cyclic(typeNameOf(rv.Type()))
		}
		return w.walkSequence(rv, maskFlag, dir, st, depth)

	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar(rv.Interface())
		}
		return w.walkSequence(rv, maskFlag, dir, st, depth)

	case reflect.Map:
		// Maps pass through untraversed; sensitive strings are modeled as
		// named struct fields, not map values.
		if rv.IsNil() {
			return Scalar(nil)
		}
		return Scalar(rv.Interface())

	case reflect.Struct:
		return w.walkStruct(rv, st, depth)

	default:
		// Chan, Func, UnsafePointer: render the type, not the value
		return Scalar(rv.Type().String())
	}
}

// walkSequence walks slice or array elements under the parent field's
// masking decision.
func (w *Walker) walkSequence(rv reflect.Value, maskFlag bool, dir *Directive, st *walkState, depth int) Node {
	items := make([]Node, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items = append(items, w.walkValue(rv.Index(i), maskFlag, dir, st, depth+1))
	}
	return Sequence(items)
}

// walkStruct builds an ordered object node for a struct value, consulting
// the type's field plan for directives and output keys.
func (w *Walker) walkStruct(rv reflect.Value, st *walkState, depth int) Node {
	rt := rv.Type()

	if m, ok := rv.Interface().(Maskable); ok {
		return Scalar(m.MaskedValue())
	}
	if isPlatformType(rt) {
		return Scalar(rv.Interface())
	}
	if depth >= w.maxDepth {
		return Truncated(typeNameOf(rt))
	}

	plan := planFor(rt)
	obj := Object()
	for _, f := range plan.fields {
		fv, ok := fieldByPlan(rv, f)
		if !ok {
			obj.Set(f.key, Scalar(nil))
			continue
		}
		maskFlag := f.directive != nil || w.cfg.IsSensitiveField(f.name)
		obj.Set(f.key, w.walkValue(fv, maskFlag, f.directive, st, depth+1))
	}
	return obj
}

// maskString applies a field's directive, or the configured defaults when
// the field was matched by name alone.
func (w *Walker) maskString(s string, dir *Directive) string {
	if dir != nil {
		return w.styler.Mask(s, dir.Style, dir.MaskChar)
	}
	return w.styler.MaskDefault(s)
}

// isPlatformType reports whether a struct type belongs to the standard
// library (no domain in the import path root). Platform types such as
// time.Time are rendered as scalars rather than walked field by field.
func isPlatformType(rt reflect.Type) bool {
	pkg := rt.PkgPath()
	if pkg == "" {
		return false
	}
	root, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(root, ".")
}

// plainString is the unmasked fallback rendering.
func plainString(v any) string {
	return fmt.Sprint(v)
}
