package trace

import "context"

type ctxKey uint8

const (
	tracerKey ctxKey = iota
	spanKey
)

// SpanContext identifies the span new work should nest under.
type SpanContext struct {
	SpanID uint64
}

// WithTracer returns a context carrying t; nil stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey, t)
}

// FromContext returns the tracer stored in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithSpanContext marks sc as the current span of ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanKey, sc)
}

// CurrentSpan returns the span set by WithSpanContext; zero when absent.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

// StartSpan opens a span under the current span of ctx using the tracer of
// ctx, and returns a context in which the new span is current. When the
// scope is not traced ctx is returned unchanged with a nil span.
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if span == nil {
		return ctx, nil
	}
	return WithSpanContext(ctx, SpanContext{SpanID: span.id}), span
}
