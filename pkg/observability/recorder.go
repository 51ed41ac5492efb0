package observability

import (
	"context"
	"sync"
)

// EventKind identifies a recorded event.
type EventKind string

const (
	EventRunStart          EventKind = "run_start"
	EventSourceResolved    EventKind = "source_resolved"
	EventScanStart         EventKind = "scan_start"
	EventScanComplete      EventKind = "scan_complete"
	EventPrimaryEnumerated EventKind = "primary_enumerated"
	EventCustomIcons       EventKind = "custom_icons"
	EventFailure           EventKind = "failure"
	EventCompileStart      EventKind = "compile_start"
	EventCompileComplete   EventKind = "compile_complete"
	EventSummary           EventKind = "summary"
)

// Event is one recorded Reporter call. Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Run      RunInfo
	Scan     ScanSummary
	Stats    RunStats
	Severity Severity
	Err      error
	Source   string // compile source or resolved package
	Version  string
	Dir      string
	Names    []string
	Found    bool
	Count    int // files, icons, or processed count depending on Kind
	Total    int
}

// Recorder is a Reporter that stores every event in order. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns the recorded events of the given kind.
func (r *Recorder) Filter(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Failures returns the errors of all recorded failure events.
func (r *Recorder) Failures() []error {
	var out []error
	for _, e := range r.Filter(EventFailure) {
		out = append(out, e.Err)
	}
	return out
}

func (r *Recorder) OnRunStart(_ context.Context, info RunInfo) {
	r.add(Event{Kind: EventRunStart, Run: info})
}

func (r *Recorder) OnSourceResolved(_ context.Context, pkg, version, dir string) {
	r.add(Event{Kind: EventSourceResolved, Source: pkg, Version: version, Dir: dir})
}

func (r *Recorder) OnScanStart(_ context.Context, files int) {
	r.add(Event{Kind: EventScanStart, Count: files})
}

func (r *Recorder) OnScanComplete(_ context.Context, summary ScanSummary) {
	r.add(Event{Kind: EventScanComplete, Scan: summary})
}

func (r *Recorder) OnPrimaryEnumerated(_ context.Context, count int) {
	r.add(Event{Kind: EventPrimaryEnumerated, Count: count})
}

func (r *Recorder) OnCustomIcons(_ context.Context, names []string, found bool) {
	r.add(Event{Kind: EventCustomIcons, Names: names, Found: found})
}

func (r *Recorder) OnFailure(_ context.Context, severity Severity, err error) {
	r.add(Event{Kind: EventFailure, Severity: severity, Err: err})
}

func (r *Recorder) OnCompileStart(_ context.Context, source string, total int) {
	r.add(Event{Kind: EventCompileStart, Source: source, Total: total})
}

func (r *Recorder) OnCompileComplete(_ context.Context, source string, processed, total int) {
	r.add(Event{Kind: EventCompileComplete, Source: source, Count: processed, Total: total})
}

func (r *Recorder) OnSummary(_ context.Context, stats RunStats) {
	r.add(Event{Kind: EventSummary, Stats: stats})
}

// Ensure Recorder implements Reporter.
var _ Reporter = (*Recorder)(nil)
