package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives events. Implementations must be safe for concurrent use:
// check traces files from several goroutines at once.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	// Close flushes pending output and releases the destination.
	Close() error
}

// Enabled reports whether t records events of scope.
func Enabled(t Tracer, scope Scope) bool {
	return t != nil && t.Level().Allows(scope)
}

// admits фильтр для реализаций: пульс проходит при любом включённом уровне.
func admits(l Level, ev *Event) bool {
	if ev.Kind == KindHeartbeat {
		return l > LevelOff
	}
	return l.Allows(ev.Scope)
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop discards everything.
var Nop Tracer = nopTracer{}

// Fanout sends every event to several tracers.
type Fanout struct {
	level   Level
	targets []Tracer
}

// NewFanout builds a Fanout reporting level.
func NewFanout(level Level, targets ...Tracer) *Fanout {
	return &Fanout{level: level, targets: targets}
}

func (f *Fanout) Emit(ev *Event) {
	for _, t := range f.targets {
		t.Emit(ev)
	}
}

func (f *Fanout) Level() Level { return f.level }

// Close closes every target and joins their errors.
func (f *Fanout) Close() error {
	var errs []error
	for _, t := range f.targets {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

// Ring returns the first RingTracer among the targets, if any.
func (f *Fanout) Ring() *RingTracer {
	for _, t := range f.targets {
		if r, ok := t.(*RingTracer); ok {
			return r
		}
	}
	return nil
}

// StorageMode selects where New sends events.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write each event as it happens
	ModeRing                          // keep the last events, dump at exit
	ModeBoth
)

var modeNames = [...]string{"", "stream", "ring", "both"}

func (m StorageMode) String() string {
	if m > 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode reads a storage mode name.
func ParseMode(s string) (StorageMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i := 1; i < len(modeNames); i++ {
		if modeNames[i] == name {
			return StorageMode(i), nil
		}
	}
	return ModeStream, fmt.Errorf("invalid trace mode %q (expected stream|ring|both)", s)
}

// DefaultRingSize is used when Config.RingSize is not positive.
const DefaultRingSize = 4096

// Config describes the tracer built by New.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "-" or empty means stderr
	RingSize   int
	Heartbeat  time.Duration // read by the CLI; New ignores it
}

// New builds a tracer from cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = DefaultRingSize
	}
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
		cfg.Format = FormatNDJSON
	}

	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
		stream, err := openStream(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return NewFanout(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
	default:
		return nil, fmt.Errorf("unknown trace mode %v", cfg.Mode)
	}
}

func openStream(cfg Config) (*StreamTracer, error) {
	switch {
	case cfg.Output != nil:
		return NewStreamTracer(cfg.Output, cfg.Level, cfg.Format), nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return NewStreamTracer(os.Stderr, cfg.Level, cfg.Format), nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	st := NewStreamTracer(f, cfg.Level, cfg.Format)
	st.closer = f
	return st, nil
}
