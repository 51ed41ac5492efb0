package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/iconsprite/pkg/errors"
	"github.com/matzehuels/iconsprite/pkg/observability"
)

func TestConsoleReporterSummary(t *testing.T) {
	var buf bytes.Buffer
	r := newConsoleReporter(&buf, false)
	ctx := context.Background()

	r.OnRunStart(ctx, observability.RunInfo{Mode: "scan"})
	r.OnSourceResolved(ctx, "lucide-static", "0.460.0", "/p/node_modules/lucide-static/icons")
	r.OnScanStart(ctx, 3)
	r.OnScanComplete(ctx, observability.ScanSummary{Files: 3, FilesWithIcons: 2, Icons: []string{"activity", "home"}})
	r.OnCustomIcons(ctx, nil, false)
	r.OnSummary(ctx, observability.RunStats{
		ProcessedPrimary: 2,
		ProcessedCustom:  1,
		Failed:           1,
		OriginalBytes:    2000,
		FinalBytes:       500,
		Duration:         1500 * time.Millisecond,
	})

	out := buf.String()
	for _, want := range []string{
		"Building sprite (scan mode)",
		"lucide-static@0.460.0",
		"Found 2 icons in 3 files",
		"activity, home",
		"No custom icons directory",
		"3 (2 primary, 1 custom)",
		"2.0 kB",
		"500 B",
		"75.0%",
		"1.5s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleReporterSummaryListsZeroFailures(t *testing.T) {
	var buf bytes.Buffer
	r := newConsoleReporter(&buf, false)
	r.OnSummary(context.Background(), observability.RunStats{ProcessedPrimary: 2, OriginalBytes: 100, FinalBytes: 80})

	var failed string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "Failed") {
			failed = line
		}
	}
	if !strings.Contains(failed, "0") {
		t.Errorf("summary should list a zero failure count:\n%s", buf.String())
	}
}

func TestConsoleReporterQuiet(t *testing.T) {
	var buf bytes.Buffer
	r := newConsoleReporter(&buf, true)
	ctx := context.Background()

	r.OnRunStart(ctx, observability.RunInfo{Mode: "all"})
	r.OnPrimaryEnumerated(ctx, 1500)
	r.OnSummary(ctx, observability.RunStats{ProcessedPrimary: 1500})
	if buf.Len() != 0 {
		t.Errorf("quiet reporter printed progress:\n%s", buf.String())
	}

	r.OnFailure(ctx, observability.SeverityError,
		errors.New(errors.KindParse, "failed to parse src/Broken.tsx: syntax error at 1:10").WithPath("src/Broken.tsx"))
	if !strings.Contains(buf.String(), "syntax error at 1:10") {
		t.Errorf("quiet reporter must print failures, got %q", buf.String())
	}
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{
			errors.New(errors.KindIconRead, `failed to read custom icon "logo"`).WithPath("public/custom-icons/logo.svg"),
			`failed to read custom icon "logo" (public/custom-icons/logo.svg)`,
		},
		{
			errors.New(errors.KindParse, "failed to parse src/A.tsx").WithPath("src/A.tsx"),
			"failed to parse src/A.tsx",
		},
		{
			errors.New(errors.KindInvalidIconName, "icon name contains invalid characters"),
			"icon name contains invalid characters",
		},
	}
	for _, tt := range tests {
		if got := failureMessage(tt.err); got != tt.want {
			t.Errorf("failureMessage() = %q, want %q", got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "icon", "icons"); got != "1 icon" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(0, "icon", "icons"); got != "0 icons" {
		t.Errorf("plural(0) = %q", got)
	}
}
