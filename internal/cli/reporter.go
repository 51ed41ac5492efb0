package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/iconsprite/pkg/errors"
	"github.com/matzehuels/iconsprite/pkg/observability"
)

// consoleReporter prints build progress for humans. Failures are always
// printed; everything else is suppressed in quiet mode. The spinner only
// runs when progress goes to a terminal.
type consoleReporter struct {
	out     printer
	w       io.Writer
	quiet   bool
	spin    bool
	spinner *Spinner
}

// newConsoleReporter creates a reporter writing to w.
func newConsoleReporter(w io.Writer, quiet bool) *consoleReporter {
	return &consoleReporter{
		out:   printer{w: w},
		w:     w,
		quiet: quiet,
		spin:  !quiet && isTerminal(w),
	}
}

func (r *consoleReporter) startSpinner(ctx context.Context, msg string) {
	if !r.spin {
		return
	}
	r.stopSpinner()
	r.spinner = newSpinnerWithContext(ctx, r.w, msg)
	r.spinner.Start()
}

func (r *consoleReporter) stopSpinner() {
	if r.spinner != nil {
		r.spinner.Stop()
		r.spinner = nil
	}
}

func (r *consoleReporter) OnRunStart(_ context.Context, info observability.RunInfo) {
	if r.quiet {
		return
	}
	r.out.info("Building sprite (%s mode)", info.Mode)
}

func (r *consoleReporter) OnSourceResolved(_ context.Context, pkg, version, dir string) {
	if r.quiet {
		return
	}
	if version != "" {
		pkg += "@" + version
	}
	r.out.detail("%s %s %s", pkg, iconArrow, dir)
}

func (r *consoleReporter) OnScanStart(ctx context.Context, files int) {
	r.startSpinner(ctx, fmt.Sprintf("Scanning %d source files...", files))
}

func (r *consoleReporter) OnScanComplete(_ context.Context, s observability.ScanSummary) {
	r.stopSpinner()
	if r.quiet {
		return
	}
	r.out.success("Found %s in %s",
		plural(len(s.Icons), "icon", "icons"),
		plural(s.Files, "file", "files"))
	if len(s.Icons) > 0 {
		r.out.detail("%s", strings.Join(s.Icons, ", "))
	}
}

func (r *consoleReporter) OnPrimaryEnumerated(_ context.Context, count int) {
	if r.quiet {
		return
	}
	r.out.success("Including all %s", plural(count, "icon", "icons"))
}

func (r *consoleReporter) OnCustomIcons(_ context.Context, names []string, found bool) {
	if r.quiet {
		return
	}
	if !found {
		r.out.info("No custom icons directory")
		return
	}
	r.out.success("Found %s", plural(len(names), "custom icon", "custom icons"))
	if len(names) > 0 {
		r.out.detail("%s", strings.Join(names, ", "))
	}
}

func (r *consoleReporter) OnFailure(ctx context.Context, severity observability.Severity, err error) {
	msg := r.pause()
	if severity == observability.SeverityError {
		r.out.error("%s", failureMessage(err))
	} else {
		r.out.warning("%s", failureMessage(err))
	}
	r.resume(ctx, msg)
}

func (r *consoleReporter) OnCompileStart(ctx context.Context, source string, total int) {
	if total == 0 {
		return
	}
	r.startSpinner(ctx, fmt.Sprintf("Optimizing %d %s icons...", total, source))
}

func (r *consoleReporter) OnCompileComplete(context.Context, string, int, int) {
	r.stopSpinner()
}

func (r *consoleReporter) OnSummary(_ context.Context, s observability.RunStats) {
	r.stopSpinner()
	if r.quiet {
		return
	}
	r.out.success("Sprite ready")
	r.out.keyValue("Icons", fmt.Sprintf("%d (%d primary, %d custom)", s.Total(), s.ProcessedPrimary, s.ProcessedCustom))
	if s.Failed > 0 {
		r.out.keyValue("Failed", fmt.Sprintf("%d", s.Failed))
	} else {
		r.out.keyValueDim("Failed", "0")
	}
	r.out.keyValue("Original size", humanize.Bytes(uint64(s.OriginalBytes)))
	r.out.keyValue("Sprite size", humanize.Bytes(uint64(s.FinalBytes)))
	r.out.keyValue("Savings", fmt.Sprintf("%.1f%%", s.Savings()))
	if s.CacheHits > 0 {
		r.out.keyValue("Cached", fmt.Sprintf("%d", s.CacheHits))
	}
	r.out.keyValue("Duration", s.Duration.Round(time.Millisecond).String())
}

// pause stops a running spinner so a line can be printed, returning its
// message for resume.
func (r *consoleReporter) pause() string {
	if r.spinner == nil {
		return ""
	}
	msg := r.spinner.message
	r.stopSpinner()
	return msg
}

func (r *consoleReporter) resume(ctx context.Context, msg string) {
	if msg != "" {
		r.startSpinner(ctx, msg)
	}
}

// failureMessage renders a recoverable failure with its location.
func failureMessage(err error) string {
	msg := errors.UserMessage(err)
	var e *errors.Error
	if stderrors.As(err, &e) && e.Path != "" && !strings.Contains(msg, e.Path) {
		msg += " (" + e.Path + ")"
	}
	return msg
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// Ensure consoleReporter implements Reporter.
var _ observability.Reporter = (*consoleReporter)(nil)
