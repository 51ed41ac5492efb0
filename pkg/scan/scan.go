// Package scan finds the icon names a project references in its source files.
//
// A reference is a JSX element whose tag is the icon component and whose
// name attribute is a string literal:
//
//	<LucideIcon name="activity" />
//	<LucideIcon name='home' size={16}>...</LucideIcon>
//
// Expression values such as name={icon} or name={"home"} cannot be resolved
// statically and are never reported. Files are parsed with tree-sitter; a
// file that does not parse cleanly is reported and skipped so one broken
// file never aborts the scan.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/matzehuels/iconsprite/pkg/errors"
	"github.com/matzehuels/iconsprite/pkg/icon"
	"github.com/matzehuels/iconsprite/pkg/observability"
)

// Options configures which files are scanned and which elements count as
// icon references.
type Options struct {
	Dirs       []string // top-level directories, relative to the work dir
	Extensions []string // file extensions without the dot
	Component  string   // JSX tag of the icon component
	Attribute  string   // attribute holding the icon name
}

// DefaultOptions returns the conventional layout: src/ and app/, JS and TS
// sources, <LucideIcon name="...">.
func DefaultOptions() Options {
	return Options{
		Dirs:       []string{"src", "app"},
		Extensions: []string{"js", "jsx", "ts", "tsx"},
		Component:  "LucideIcon",
		Attribute:  "name",
	}
}

// Result is the outcome of a scan.
type Result struct {
	Icons          icon.Set
	Files          []string // scanned files, slash-separated and sorted
	FilesWithIcons int
	Failed         int
}

// Scanner discovers icon references. It is not safe for concurrent use
// because it reuses one parser.
type Scanner struct {
	opts     Options
	reporter observability.Reporter
	parser   *sitter.Parser
}

// New creates a scanner. A nil reporter discards events.
func New(opts Options, reporter observability.Reporter) *Scanner {
	return &Scanner{
		opts:     opts,
		reporter: observability.OrNoop(reporter),
		parser:   sitter.NewParser(),
	}
}

// Close releases the parser.
func (s *Scanner) Close() {
	s.parser.Close()
}

// Scan parses every matching source file below workDir and returns the set
// of referenced icon names. Per-file failures are reported and counted; the
// only error returned is context cancellation or an invalid glob pattern.
func (s *Scanner) Scan(ctx context.Context, workDir string) (*Result, error) {
	files, err := s.SourceFiles(workDir)
	if err != nil {
		return nil, err
	}

	s.reporter.OnScanStart(ctx, len(files))

	res := &Result{Icons: icon.NewSet(), Files: files}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		names, err := s.scanFile(ctx, workDir, f)
		if err != nil {
			res.Failed++
			s.reporter.OnFailure(ctx, observability.SeverityError, err)
			continue
		}
		if names.Len() > 0 {
			res.FilesWithIcons++
			res.Icons.Union(names)
		}
	}

	s.reporter.OnScanComplete(ctx, observability.ScanSummary{
		Files:          len(files),
		FilesWithIcons: res.FilesWithIcons,
		Failed:         res.Failed,
		Icons:          res.Icons.Sorted(),
	})
	return res, nil
}

// Discover scans workDir and returns only the referenced icon names.
func (s *Scanner) Discover(ctx context.Context, workDir string) (icon.Set, error) {
	res, err := s.Scan(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return res.Icons, nil
}

// SourceFiles lists the files a scan would parse, relative to workDir.
// Missing directories contribute no files.
func (s *Scanner) SourceFiles(workDir string) ([]string, error) {
	fsys := os.DirFS(workDir)
	var files []string
	for _, pattern := range s.patterns() {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// patterns builds one doublestar pattern per directory, e.g.
// "src/**/*.{js,jsx,ts,tsx}".
func (s *Scanner) patterns() []string {
	exts := s.opts.Extensions
	var suffix string
	if len(exts) == 1 {
		suffix = "*." + exts[0]
	} else {
		suffix = "*.{" + strings.Join(exts, ",") + "}"
	}

	out := make([]string, 0, len(s.opts.Dirs))
	for _, d := range s.opts.Dirs {
		out = append(out, path.Join(strings.Trim(d, "/"), "**", suffix))
	}
	return out
}

// scanFile returns the icon names referenced in one file.
func (s *Scanner) scanFile(ctx context.Context, workDir, rel string) (icon.Set, error) {
	src, err := fs.ReadFile(os.DirFS(workDir), rel)
	if err != nil {
		return nil, errors.Wrap(errors.KindParse, err, "failed to read %s", rel).WithPath(rel)
	}
	return s.ScanSource(ctx, rel, src)
}

// ScanSource parses src as the dialect implied by the file name and returns
// the icon names it references.
func (s *Scanner) ScanSource(ctx context.Context, name string, src []byte) (icon.Set, error) {
	s.parser.SetLanguage(languageFor(name))
	tree, err := s.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrap(errors.KindParse, err, "failed to parse %s", name).WithPath(name)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, col := firstErrorPosition(root)
		return nil, errors.New(errors.KindParse, "failed to parse %s: syntax error at %d:%d", name, line, col).WithPath(name)
	}

	return collectIcons(root, src, s.opts.Component, s.opts.Attribute), nil
}
