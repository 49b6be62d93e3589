package veil

import (
	"log/slog"
	"reflect"
)

// LazyValue pairs a value with a Walker and defers masked rendering until a
// sink materializes it. If the consuming log channel is filtered out before
// rendering, no traversal or masking work happens at all.
//
// The wrapper is otherwise inert: it holds the target by reference and
// carries no other behavior.
type LazyValue struct {
	target any
	walker *Walker
}

// Lazy wraps v for deferred masked rendering:
//
//	slog.Debug("creating book", "book", w.Lazy(book))
func (w *Walker) Lazy(v any) LazyValue {
	return LazyValue{target: v, walker: w}
}

// String materializes the masked rendering. Called lazily by logging
// frameworks when the entry is actually written.
func (l LazyValue) String() string {
	return l.walker.String(l.target)
}

// LogValue implements slog.LogValuer, materializing on resolution.
func (l LazyValue) LogValue() slog.Value {
	return slog.StringValue(l.walker.String(l.target))
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook that masks string
// attributes whose key matches the sensitive set and renders struct-valued
// attributes through the walker:
//
//	slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
//	    ReplaceAttr: w.ReplaceAttr,
//	}))
func (w *Walker) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if !w.cfg.Enabled {
		return a
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if w.cfg.IsSensitiveField(a.Key) {
			a.Value = slog.StringValue(w.styler.MaskDefault(a.Value.String()))
		}
	case slog.KindAny:
		// Attr values are already resolved when ReplaceAttr runs, so the
		// masked form is rendered here rather than wrapped in a LazyValue.
		v := a.Value.Any()
		if v == nil {
			return a
		}
		rt := reflect.TypeOf(v)
		if rt.Kind() == reflect.Pointer {
			rt = rt.Elem()
		}
		if rt.Kind() == reflect.Struct && !isPlatformType(rt) {
			a.Value = slog.StringValue(w.String(v))
		}
	}
	return a
}
