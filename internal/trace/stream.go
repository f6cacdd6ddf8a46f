package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer formats each event onto a writer as it arrives. Output is
// buffered per event, so a crash loses at most the event being written.
type StreamTracer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	level  Level
	format Format
	closer io.Closer // файл, открытый New; чужие писатели не закрываем
	err    error
}

// NewStreamTracer writes events of level to w. w is never closed.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: bufio.NewWriter(w), level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !admits(t.level, ev) {
		return
	}
	line := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	// ошибка записи трассы не прерывает прогон, она вернётся из Close
	if _, err := t.w.Write(line); err != nil {
		t.err = err
		return
	}
	t.err = t.w.Flush()
}

func (t *StreamTracer) Level() Level { return t.level }

// Close reports the first write error and closes a file opened by New.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.err
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
		t.closer = nil
	}
	return err
}
