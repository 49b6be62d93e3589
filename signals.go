package veil

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for masking events.
var (
	SignalWalkerCreated = capitan.NewSignal("veil.walker.created", "Walker instantiated")
	SignalMaskStart     = capitan.NewSignal("veil.mask.start", "Masked rendering beginning")
	SignalMaskComplete  = capitan.NewSignal("veil.mask.complete", "Masked rendering finished")
	SignalMaskFallback  = capitan.NewSignal("veil.mask.fallback", "Masked rendering fell back to the plain form")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyMaxDepth    = capitan.NewIntKey("max_depth")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyMaskedCount = capitan.NewIntKey("masked_count")
	KeyError       = capitan.NewErrorKey("error")
)

// emitWalkerCreated emits an event when a walker is created.
func emitWalkerCreated(ctx context.Context, contentType string, maxDepth int) {
	capitan.Emit(ctx, SignalWalkerCreated,
		KeyContentType.Field(contentType),
		KeyMaxDepth.Field(maxDepth),
	)
}

// emitMaskStart emits an event when a masked rendering begins.
func emitMaskStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalMaskStart,
		KeyTypeName.Field(typeName),
	)
}

// emitMaskComplete emits an event when a masked rendering finishes.
func emitMaskComplete(ctx context.Context, typeName string, size int, duration time.Duration, masked int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyMaskedCount.Field(masked),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMaskComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMaskComplete, fields...)
	}
}

// emitMaskFallback emits an event when a rendering degrades to the plain
// string form. This is the only diagnostic trace of a recovered traversal
// failure; the caller never sees the error.
func emitMaskFallback(ctx context.Context, typeName string, err error) {
	capitan.Error(ctx, SignalMaskFallback,
		KeyTypeName.Field(typeName),
		KeyError.Field(err),
	)
}
