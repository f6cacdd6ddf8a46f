package trace

import (
	"sync/atomic"
	"time"
)

// Kind distinguishes span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{"", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event: a command, a pass over one file,
// a whole file inside check, or a single grammar rule.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1
	ScopePass
	ScopeFile
	ScopeRule
)

var scopeNames = [...]string{"", "driver", "pass", "file", "rule"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record in a trace.
type Event struct {
	Time     time.Time
	Seq      uint64 // порядок выпуска, общий для процесса
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "lex", "parse", "file:main.ql", "stmt"
	Detail   string
	Elapsed  time.Duration // только у KindSpanEnd
	Extra    map[string]string
}

var seq atomic.Uint64

func newEvent(kind Kind, scope Scope, name string) *Event {
	return &Event{Time: time.Now(), Seq: seq.Add(1), Kind: kind, Scope: scope, Name: name}
}

// Point records an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !Enabled(t, scope) {
		return
	}
	ev := newEvent(KindPoint, scope, name)
	ev.ParentID = parent
	ev.Detail = detail
	t.Emit(ev)
}
