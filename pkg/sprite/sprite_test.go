package sprite

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/iconsprite/pkg/cache"
	"github.com/matzehuels/iconsprite/pkg/errors"
	"github.com/matzehuels/iconsprite/pkg/icon"
	"github.com/matzehuels/iconsprite/pkg/observability"
	"github.com/matzehuels/iconsprite/pkg/svg"
)

// extractOnly skips optimization so expected output can be spelled out.
type extractOnly struct{ calls int }

func (e *extractOnly) Transform(raw []byte) svg.Icon {
	e.calls++
	return svg.Extract(string(raw))
}

func (e *extractOnly) Fingerprint() string { return "extract-only" }

const wrapper = `<svg xmlns="http://www.w3.org/2000/svg" style="display: none;">`

func iconSVG(body string) string {
	return `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" class="lucide">` + body + `</svg>`
}

func writeIcon(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSymbolString(t *testing.T) {
	tests := []struct {
		sym  Symbol
		want string
	}{
		{Symbol{ID: "home", Attributes: `viewBox="0 0 24 24"`, Content: `<path d="M1 1"/>`},
			`<symbol id="home" viewBox="0 0 24 24"><path d="M1 1"/></symbol>`},
		{Symbol{ID: "extend-dot", Content: `<circle r="1"/>`},
			`<symbol id="extend-dot"><circle r="1"/></symbol>`},
		{Symbol{ID: "empty"}, `<symbol id="empty"></symbol>`},
		{Symbol{ID: `extend-a&b"c`}, `<symbol id="extend-a&amp;b&#34;c"></symbol>`},
	}
	for _, tt := range tests {
		if got := tt.sym.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDocumentBytes(t *testing.T) {
	var d Document
	if got, want := string(d.Bytes()), wrapper+"</svg>"; got != want {
		t.Errorf("empty document = %q, want %q", got, want)
	}

	d.Add(Symbol{ID: "a", Content: "x"})
	d.Add(Symbol{ID: "b", Content: "y"})
	want := wrapper + `<symbol id="a">x</symbol><symbol id="b">y</symbol></svg>`
	if got := string(d.Bytes()); got != want {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}
	if !slices.Equal(d.IDs(), []string{"a", "b"}) || d.Len() != 2 {
		t.Errorf("IDs() = %v", d.IDs())
	}
}

func TestCompileIDsAndOrder(t *testing.T) {
	work := t.TempDir()
	primary := filepath.Join(work, "icons")
	writeIcon(t, primary, "home.svg", iconSVG(`<path d="M3 9l9-7"/>`))
	writeIcon(t, primary, "activity.svg", iconSVG(`<path d="M22 12h-4"/>`))
	writeIcon(t, primary, "bluetooth.svg", iconSVG(`<path d="m7 7 10 10"/>`))
	writeIcon(t, work, "public/custom-icons/my-logo.svg", `<svg viewBox="0 0 10 10"><rect/></svg>`)

	c := NewCompiler(&extractOnly{}, nil, nil, nil)
	res, err := c.Compile(context.Background(), Input{
		Primary:    icon.NewSet("home", "activity"),
		PrimaryDir: primary,
		Custom:     []icon.CustomFile{icon.NewCustomFile("public/custom-icons/my-logo.svg")},
		WorkDir:    work,
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := wrapper +
		`<symbol id="activity" viewBox="0 0 24 24"><path d="M22 12h-4"/></symbol>` +
		`<symbol id="home" viewBox="0 0 24 24"><path d="M3 9l9-7"/></symbol>` +
		`<symbol id="extend-my-logo" viewBox="0 0 10 10"><rect/></symbol>` +
		`</svg>`
	if got := string(res.Document.Bytes()); got != want {
		t.Errorf("sprite =\n%s\nwant\n%s", got, want)
	}

	s := res.Stats
	if s.ProcessedPrimary != 2 || s.ProcessedCustom != 1 || s.Failed != 0 || s.Total() != 3 {
		t.Errorf("stats = %+v", s)
	}
	if s.OriginalBytes == 0 {
		t.Error("OriginalBytes should count the source files read")
	}
}

func TestCompileMissingPrimaryIcon(t *testing.T) {
	primary := t.TempDir()
	writeIcon(t, primary, "a.svg", iconSVG("<g/>"))
	writeIcon(t, primary, "c.svg", iconSVG("<g/>"))

	rec := &observability.Recorder{}
	c := NewCompiler(&extractOnly{}, nil, nil, rec)
	res, err := c.Compile(context.Background(), Input{
		Primary:    icon.NewSet("a", "b", "c"),
		PrimaryDir: primary,
	})
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(res.Document.IDs(), []string{"a", "c"}) {
		t.Errorf("IDs() = %v, want [a c]", res.Document.IDs())
	}
	if res.Stats.Failed != 1 || res.Stats.ProcessedPrimary != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}

	events := rec.Filter(observability.EventFailure)
	if len(events) != 1 {
		t.Fatalf("got %d failures, want 1", len(events))
	}
	if events[0].Severity != observability.SeverityWarning {
		t.Errorf("severity = %v, want warning", events[0].Severity)
	}
	var e *errors.Error
	if !stderrors.As(events[0].Err, &e) || e.Kind != errors.KindIconRead || e.Icon != "b" {
		t.Errorf("failure = %#v, want ICON_READ_FAILURE for b", events[0].Err)
	}

	done := rec.Filter(observability.EventCompileComplete)
	if len(done) != 2 || done[0].Source != "primary" || done[0].Count != 2 || done[0].Total != 3 {
		t.Errorf("compile_complete events = %+v", done)
	}
}

func TestCompileCustomFailureIsError(t *testing.T) {
	rec := &observability.Recorder{}
	c := NewCompiler(&extractOnly{}, nil, nil, rec)
	res, err := c.Compile(context.Background(), Input{
		Primary: icon.NewSet(),
		Custom:  []icon.CustomFile{icon.NewCustomFile("public/custom-icons/gone.svg")},
		WorkDir: t.TempDir(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Failed != 1 || res.Document.Len() != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
	events := rec.Filter(observability.EventFailure)
	if len(events) != 1 || events[0].Severity != observability.SeverityError {
		t.Fatalf("failures = %+v, want one error", events)
	}
	var e *errors.Error
	if !stderrors.As(events[0].Err, &e) || e.Path != "public/custom-icons/gone.svg" {
		t.Errorf("failure = %v", events[0].Err)
	}
}

func TestCompileDuplicateCustomStem(t *testing.T) {
	work := t.TempDir()
	writeIcon(t, work, "public/custom-icons/a/logo.svg", iconSVG(`<circle r="1"/>`))
	writeIcon(t, work, "public/custom-icons/b/logo.svg", iconSVG(`<rect/>`))

	rec := &observability.Recorder{}
	c := NewCompiler(&extractOnly{}, nil, nil, rec)
	res, err := c.Compile(context.Background(), Input{
		Primary: icon.NewSet(),
		Custom: []icon.CustomFile{
			icon.NewCustomFile("public/custom-icons/a/logo.svg"),
			icon.NewCustomFile("public/custom-icons/b/logo.svg"),
		},
		WorkDir: work,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Document.IDs(), []string{"extend-logo"}) || res.Stats.ProcessedCustom != 1 || res.Stats.Failed != 1 {
		t.Fatalf("IDs() = %v, stats = %+v", res.Document.IDs(), res.Stats)
	}
	if !strings.Contains(res.Document.Symbols[0].Content, "circle") {
		t.Errorf("first definition should win, got %q", res.Document.Symbols[0].Content)
	}
	events := rec.Filter(observability.EventFailure)
	if len(events) != 1 || events[0].Severity != observability.SeverityWarning {
		t.Fatalf("failures = %+v, want one warning", events)
	}
	var e *errors.Error
	if !stderrors.As(events[0].Err, &e) || e.Path != "public/custom-icons/b/logo.svg" || e.Icon != "logo" {
		t.Errorf("failure = %v", events[0].Err)
	}
}

func TestCompileRejectsUnsafeNames(t *testing.T) {
	work := t.TempDir()
	primary := filepath.Join(work, "icons")
	writeIcon(t, work, "secret.svg", iconSVG("<g/>"))
	writeIcon(t, primary, "ok.svg", iconSVG("<g/>"))

	rec := &observability.Recorder{}
	c := NewCompiler(&extractOnly{}, nil, nil, rec)
	res, err := c.Compile(context.Background(), Input{
		Primary:    icon.NewSet("../secret", "ok"),
		PrimaryDir: primary,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Document.IDs(), []string{"ok"}) || res.Stats.Failed != 1 {
		t.Errorf("IDs() = %v, stats = %+v", res.Document.IDs(), res.Stats)
	}
	if f := rec.Failures(); len(f) != 1 || !errors.Is(f[0], errors.KindInvalidIconName) {
		t.Errorf("failures = %v, want INVALID_ICON_NAME", f)
	}
}

func TestCompileEmpty(t *testing.T) {
	c := NewCompiler(&extractOnly{}, nil, nil, nil)
	res, err := c.Compile(context.Background(), Input{Primary: icon.NewSet(), PrimaryDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(res.Document.Bytes()), wrapper+"</svg>"; got != want {
		t.Errorf("sprite = %q, want %q", got, want)
	}
	if res.Stats != (observability.RunStats{}) {
		t.Errorf("stats = %+v, want zero", res.Stats)
	}
}

func TestCompileUsesCache(t *testing.T) {
	primary := t.TempDir()
	writeIcon(t, primary, "a.svg", iconSVG(`<path d="M1 1"/>`))
	writeIcon(t, primary, "b.svg", iconSVG(`<path d="M2 2"/>`))

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	tr := &extractOnly{}
	c := NewCompiler(tr, fc, nil, nil)
	in := Input{Primary: icon.NewSet("a", "b"), PrimaryDir: primary}

	first, err := c.Compile(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Compile(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if first.Stats.CacheHits != 0 || second.Stats.CacheHits != 2 {
		t.Errorf("cache hits = %d, %d; want 0, 2", first.Stats.CacheHits, second.Stats.CacheHits)
	}
	if tr.calls != 2 {
		t.Errorf("transformer called %d times, want 2", tr.calls)
	}
	if string(first.Document.Bytes()) != string(second.Document.Bytes()) {
		t.Error("cached build differs from fresh build")
	}
}

func TestCompileRealTransformer(t *testing.T) {
	primary := t.TempDir()
	writeIcon(t, primary, "activity.svg", `<!-- @license lucide-static v0.460.0 - ISC -->
<svg
  class="lucide lucide-activity"
  xmlns="http://www.w3.org/2000/svg"
  width="24"
  height="24"
  viewBox="0 0 24 24"
  fill="none"
  stroke="currentColor"
  stroke-width="2"
  stroke-linecap="round"
  stroke-linejoin="round"
>
  <path d="M22 12h-2.48a2 2 0 0 0-1.93 1.46l-2.35 8.36a.25.25 0 0 1-.48 0L9.24 2.18a.25.25 0 0 0-.48 0l-2.35 8.36A2 2 0 0 1 4.49 12H2" />
</svg>
`)

	c := NewCompiler(svg.NewTransformer(svg.DefaultOptions()), nil, nil, nil)
	res, err := c.Compile(context.Background(), Input{Primary: icon.NewSet("activity"), PrimaryDir: primary})
	if err != nil {
		t.Fatal(err)
	}

	out := string(res.Document.Bytes())
	if !strings.HasPrefix(out, wrapper+`<symbol id="activity" `) || !strings.HasSuffix(out, "</symbol></svg>") {
		t.Errorf("unexpected sprite %q", out)
	}
	for _, stripped := range []string{"class=", " width=", "height=", "<!--"} {
		if strings.Contains(out, stripped) {
			t.Errorf("sprite contains %q: %s", stripped, out)
		}
	}
	if !strings.Contains(out, "<path") || !strings.Contains(out, "stroke") {
		t.Errorf("sprite lost geometry or theming: %s", out)
	}
	if res.Stats.FinalBytes != 0 {
		t.Error("FinalBytes is filled by the caller")
	}
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCompiler(&extractOnly{}, nil, nil, nil)
	_, err := c.Compile(ctx, Input{Primary: icon.NewSet("a"), PrimaryDir: t.TempDir()})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Compile() error = %v, want context.Canceled", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "public", "icons.svg")

	if err := WriteFile(out, []byte("first")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := WriteFile(out, []byte("second")); err != nil {
		t.Fatalf("WriteFile() overwrite error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWriteFileFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "public")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	err := WriteFile(filepath.Join(blocker, "icons.svg"), []byte("x"))
	if !errors.Is(err, errors.KindWrite) {
		t.Fatalf("WriteFile() error = %v, want WRITE_FAILURE", err)
	}
}
