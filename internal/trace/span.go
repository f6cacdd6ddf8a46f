package trace

import (
	"strconv"
	"sync/atomic"
	"time"
)

var (
	spanIDs   atomic.Uint64
	openSpans atomic.Int64
)

// Span is an open interval of work. A nil *Span is valid and does nothing,
// which is what Begin returns when the scope is not traced.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !Enabled(t, scope) {
		return nil
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	openSpans.Add(1)
	ev := newEvent(KindSpanBegin, scope, name)
	ev.SpanID, ev.ParentID, ev.Time = s.id, parent, s.started
	t.Emit(ev)
	return s
}

// WithExtra attaches a key to the closing event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil {
		return nil
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// WithCount is WithExtra for integer values.
func (s *Span) WithCount(key string, n int) *Span {
	if s == nil {
		return nil
	}
	return s.WithExtra(key, strconv.Itoa(n))
}

// End closes the span and returns its duration. Calling End twice emits
// one event.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	ev := newEvent(KindSpanEnd, s.scope, s.name)
	ev.SpanID, ev.ParentID = s.id, s.parent
	ev.Detail = detail
	ev.Elapsed = ev.Time.Sub(s.started)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	s.tracer = nil
	openSpans.Add(-1)
	return ev.Elapsed
}

// ID returns the span id, 0 for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
