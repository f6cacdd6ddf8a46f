package trace

import (
	"strconv"
	"sync"
	"time"
)

// StartHeartbeat emits a heartbeat event every interval until the returned
// stop function is called. Each beat carries the number of spans still
// open, so a trace whose beats keep reporting the same open spans points at
// a stuck pass. stop waits for the goroutine and may be called repeatedly.
func StartHeartbeat(t Tracer, every time.Duration) (stop func()) {
	if t == nil || t.Level() == LevelOff || every <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for beat := 1; ; beat++ {
			select {
			case <-done:
				return
			case <-ticker.C:
				ev := newEvent(KindHeartbeat, ScopeDriver, "heartbeat")
				ev.Detail = "#" + strconv.Itoa(beat)
				ev.Extra = map[string]string{"open_spans": strconv.FormatInt(openSpans.Load(), 10)}
				t.Emit(ev)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
