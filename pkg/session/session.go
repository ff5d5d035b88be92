package session

import (
	"sync"

	"github.com/entrhq/scout/pkg/report"
	"github.com/entrhq/scout/pkg/types"
)

// Session is the state of one logical research workflow. At most one
// background task is ever live per session; its callbacks and the
// orchestrator are the only writers. The internal lock makes transcript and
// fact access safe when the task runs on its own goroutine.
type Session struct {
	mu         sync.Mutex
	identity   string
	transcript []*types.Message
	facts      *report.Facts
	reportHTML string
	queue      *Queue
}

// New creates an empty session.
func New() *Session {
	return &Session{
		facts: report.NewFacts(),
		queue: NewQueue(),
	}
}

// Queue returns the session's update queue.
func (s *Session) Queue() *Queue {
	return s.queue
}

// Identity returns the identity string of the current run.
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Append adds a message to the transcript.
func (s *Session) Append(msg *types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, msg)
}

// TranscriptLen returns the number of transcript entries. The poll loop uses
// this to detect growth between ticks.
func (s *Session) TranscriptLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transcript)
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []*types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*types.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// WithFacts runs fn against the aggregated facts under the session lock.
// A callback that aggregates and then renders inside one WithFacts call gets
// a report consistent with the facts as of that moment.
func (s *Session) WithFacts(fn func(*report.Facts)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.facts)
}

// SetReport stores the latest rendered report document.
func (s *Session) SetReport(html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportHTML = html
}

// Report returns the latest rendered report document, or "" before the
// first render.
func (s *Session) Report() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportHTML
}

// BeginRun resets per-run state for a new submit: facts, rows, screenshots,
// and the report are cleared, pending fragments from a previous run are
// discarded, and the identity is recorded. The transcript survives across
// runs; only Reset clears it.
func (s *Session) BeginRun(identity string) {
	s.mu.Lock()
	s.identity = identity
	s.facts.Reset()
	s.reportHTML = ""
	s.mu.Unlock()

	s.queue.DrainAll()
}

// Reset unconditionally clears all session state: transcript, facts, report,
// identity, and any queued fragments.
func (s *Session) Reset() {
	s.mu.Lock()
	s.identity = ""
	s.transcript = nil
	s.facts.Reset()
	s.reportHTML = ""
	s.mu.Unlock()

	s.queue.DrainAll()
}
