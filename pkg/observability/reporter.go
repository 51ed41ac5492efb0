// Package observability defines the Reporter sink that receives progress and
// summary events from a sprite build.
//
// The scanner, resolver and compiler never write to the terminal. They emit
// events to a Reporter, which the CLI implements with styled console output.
// Libraries and tests can pass [Noop] or a [Recorder].
//
// # Usage
//
//	rec := &observability.Recorder{}
//	c := sprite.NewCompiler(transformer, nil, nil, rec)
//	result, _ := c.Compile(ctx, input)
//	for _, err := range rec.Failures() {
//	    // inspect structured failures
//	}
package observability

import (
	"context"
	"time"
)

// Severity grades a recoverable failure.
type Severity int

const (
	// SeverityWarning marks failures in the primary icon set (likely a
	// missing upstream icon).
	SeverityWarning Severity = iota
	// SeverityError marks failures in project-owned files.
	SeverityError
)

// String returns "warning" or "error".
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// RunInfo describes a build before it starts.
type RunInfo struct {
	WorkDir string
	Mode    string
	Output  string
}

// ScanSummary describes a finished usage scan.
type ScanSummary struct {
	Files          int      // source files scanned
	FilesWithIcons int      // files containing at least one literal icon name
	Failed         int      // files skipped because they could not be read or parsed
	Icons          []string // discovered names, sorted
}

// RunStats are the statistics of one build. They are computed once per run
// and never persisted.
type RunStats struct {
	ProcessedPrimary int
	ProcessedCustom  int
	Failed           int
	CacheHits        int
	OriginalBytes    int64
	FinalBytes       int64
	Duration         time.Duration
}

// Total returns the number of icons written to the sprite.
func (s RunStats) Total() int {
	return s.ProcessedPrimary + s.ProcessedCustom
}

// Savings returns the size reduction of the sprite against the summed source
// files, in percent. It is zero when no source bytes were read.
func (s RunStats) Savings() float64 {
	if s.OriginalBytes <= 0 {
		return 0
	}
	return (1 - float64(s.FinalBytes)/float64(s.OriginalBytes)) * 100
}

// Reporter receives build events. Implementations must tolerate being
// called from a single goroutine in any order.
type Reporter interface {
	// OnRunStart is called once before discovery.
	OnRunStart(ctx context.Context, info RunInfo)

	// OnSourceResolved reports the location of the primary icon set.
	OnSourceResolved(ctx context.Context, pkg, version, dir string)

	// OnScanStart is called before source files are parsed.
	OnScanStart(ctx context.Context, files int)
	// OnScanComplete reports the usage scan result.
	OnScanComplete(ctx context.Context, summary ScanSummary)

	// OnPrimaryEnumerated reports the size of the full icon set in generate-all mode.
	OnPrimaryEnumerated(ctx context.Context, count int)

	// OnCustomIcons reports the custom icon names found, sorted. found is
	// false when the custom icons directory does not exist.
	OnCustomIcons(ctx context.Context, names []string, found bool)

	// OnFailure reports a recoverable per-file or per-icon failure.
	OnFailure(ctx context.Context, severity Severity, err error)

	// OnCompileStart and OnCompileComplete bracket the processing of one icon source.
	OnCompileStart(ctx context.Context, source string, total int)
	OnCompileComplete(ctx context.Context, source string, processed, total int)

	// OnSummary is called once after the sprite has been assembled.
	OnSummary(ctx context.Context, stats RunStats)
}

// Noop is a Reporter that discards every event.
type Noop struct{}

func (Noop) OnRunStart(context.Context, RunInfo)                      {}
func (Noop) OnSourceResolved(context.Context, string, string, string) {}
func (Noop) OnScanStart(context.Context, int)                         {}
func (Noop) OnScanComplete(context.Context, ScanSummary)              {}
func (Noop) OnPrimaryEnumerated(context.Context, int)                 {}
func (Noop) OnCustomIcons(context.Context, []string, bool)            {}
func (Noop) OnFailure(context.Context, Severity, error)               {}
func (Noop) OnCompileStart(context.Context, string, int)              {}
func (Noop) OnCompileComplete(context.Context, string, int, int)      {}
func (Noop) OnSummary(context.Context, RunStats)                      {}

// OrNoop returns r, or Noop if r is nil.
func OrNoop(r Reporter) Reporter {
	if r == nil {
		return Noop{}
	}
	return r
}

// Ensure Noop implements Reporter.
var _ Reporter = Noop{}
