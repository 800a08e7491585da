package driver

import "time"

// Status is the state of one file in a run.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
)

// Reasons a file contributes no diagnostics without being clean.
const (
	ReasonUnreadable = "unreadable"
	ReasonMalformed  = "malformed"
	ReasonCanceled   = "canceled"
)

// Event reports progress for a file.
type Event struct {
	File        string
	Status      Status
	Reason      string // set for StatusSkipped
	Diagnostics int
	Elapsed     time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func (s *Session) emit(ev Event) {
	if s.Progress != nil {
		s.Progress.OnEvent(ev)
	}
}
