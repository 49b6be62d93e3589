package veil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLazyString(t *testing.T) {
	w := New(DefaultConfig())
	b := sampleBook()

	lazy := w.Lazy(b)
	if lazy.String() != w.String(b) {
		t.Errorf("Lazy.String = %q, want %q", lazy.String(), w.String(b))
	}
}

func TestLazyLogValue(t *testing.T) {
	w := New(DefaultConfig())
	b := sampleBook()

	v := w.Lazy(b).LogValue()
	if v.Kind() != slog.KindString {
		t.Errorf("LogValue kind = %v, want string", v.Kind())
	}
	if v.String() != w.String(b) {
		t.Errorf("LogValue = %q, want %q", v.String(), w.String(b))
	}
}

func TestLazyDefersTraversal(t *testing.T) {
	w := New(DefaultConfig())

	// A value that would fail traversal-free rendering is fine to wrap;
	// nothing runs until a sink materializes the view.
	lazy := w.Lazy(sampleBook())
	_ = lazy

	// Filtered-out log entries never materialize the view.
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))
	logger.Debug("dropped", "book", w.Lazy(sampleBook()))
	if buf.Len() != 0 {
		t.Errorf("filtered entry produced output: %s", buf.String())
	}
}

func TestLazyWithSlog(t *testing.T) {
	w := New(DefaultConfig())

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("creating book", "book", w.Lazy(sampleBook()))

	out := buf.String()
	if !strings.Contains(out, "ro****@example.com") {
		t.Errorf("log line = %s, want masked email", out)
	}
	if strings.Contains(out, "robert@example.com") {
		t.Errorf("log line = %s, leaked unmasked email", out)
	}
}

func TestReplaceAttrMasksStrings(t *testing.T) {
	w := New(DefaultConfig())

	a := w.ReplaceAttr(nil, slog.String("email", "john@gmail.com"))
	if a.Value.String() != "jo**@gmail.com" {
		t.Errorf("ReplaceAttr(email) = %q, want masked", a.Value.String())
	}

	a = w.ReplaceAttr(nil, slog.String("title", "Clean Code"))
	if a.Value.String() != "Clean Code" {
		t.Errorf("ReplaceAttr(title) = %q, want unchanged", a.Value.String())
	}
}

func TestReplaceAttrRendersStructs(t *testing.T) {
	w := New(DefaultConfig())

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: w.ReplaceAttr,
	}))
	logger.Info("created", "book", sampleBook(), "phoneNumber", "0712345678")

	out := buf.String()
	if !strings.Contains(out, "ro****@example.com") {
		t.Errorf("log line = %s, want masked struct field", out)
	}
	if !strings.Contains(out, "071****678") {
		t.Errorf("log line = %s, want masked string attr", out)
	}
	if strings.Contains(out, "robert@example.com") || strings.Contains(out, "0712345678") {
		t.Errorf("log line = %s, leaked sensitive values", out)
	}
}

func TestReplaceAttrDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	w := New(cfg)

	a := w.ReplaceAttr(nil, slog.String("email", "john@gmail.com"))
	if a.Value.String() != "john@gmail.com" {
		t.Errorf("ReplaceAttr with masking disabled = %q, want unchanged", a.Value.String())
	}
}
