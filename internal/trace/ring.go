package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory. It is meant for
// --trace-mode ring: cheap while running, dumped once at exit.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64 // сколько событий принято за всё время
	level Level
}

// NewRingTracer keeps the last capacity events of level.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !admits(t.level, ev) {
		return
	}
	t.mu.Lock()
	t.buf[t.total%uint64(len(t.buf))] = *ev
	t.total++
	t.mu.Unlock()
}

// Snapshot returns the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	n := min(t.total, size)
	out := make([]Event, n)
	first := t.total - n
	for i := range n {
		out[i] = t.buf[(first+i)%size]
	}
	return out
}

// Overwritten counts events pushed out by newer ones.
func (t *RingTracer) Overwritten() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total - min(t.total, uint64(len(t.buf)))
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Close() error { return nil }
