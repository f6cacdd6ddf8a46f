package driver

import "time"

// Stage describes a pipeline phase reported to progress sinks.
type Stage string

const (
	// StageLoad is reading and normalizing the file.
	StageLoad Stage = "load"
	// StageLex is tokenization.
	StageLex Stage = "lex"
	// StageParse is parsing and post-parse checks.
	StageParse Stage = "parse"
	// StageCache is a disk cache replay.
	StageCache Stage = "cache"
)

// Progress captures progress state within a stage.
type Progress string

const (
	// ProgressQueued indicates the file is waiting for a worker.
	ProgressQueued Progress = "queued"
	// ProgressWorking indicates the file is being processed.
	ProgressWorking Progress = "working"
	// ProgressDone indicates the file finished without diagnostics.
	ProgressDone Progress = "done"
	// ProgressError indicates the file produced diagnostics or failed to load.
	ProgressError Progress = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Progress
	Err     error
	Elapsed time.Duration
}

// ProgressSink receives pipeline events. Implementations must be safe for
// concurrent use: CheckDir emits from several workers.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
