// Package sprite compiles icons into a single SVG sprite document.
//
// Every selected icon becomes a <symbol> whose id is the bare icon name for
// the primary set and "extend-<name>" for custom icons:
//
//	<svg xmlns="http://www.w3.org/2000/svg" style="display: none;">
//	  <symbol id="activity" viewBox="0 0 24 24" ...>...</symbol>
//	  <symbol id="extend-my-logo" viewBox="0 0 24 24">...</symbol>
//	</svg>
//
// (Whitespace added for readability; symbols are concatenated without
// separators.) Primary icons come first in name order, then custom icons in
// path order, so identical inputs give byte-identical sprites.
//
// An icon that cannot be read is reported and skipped; it never aborts the
// build.
package sprite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/iconsprite/pkg/cache"
	"github.com/matzehuels/iconsprite/pkg/errors"
	"github.com/matzehuels/iconsprite/pkg/icon"
	"github.com/matzehuels/iconsprite/pkg/observability"
	"github.com/matzehuels/iconsprite/pkg/source"
	"github.com/matzehuels/iconsprite/pkg/svg"
)

// Transformer turns a raw SVG document into symbol content and attributes.
// *svg.Transformer implements it.
type Transformer interface {
	Transform(raw []byte) svg.Icon
	// Fingerprint identifies the transformation for cache keys.
	Fingerprint() string
}

// Input is the set of icons to compile.
type Input struct {
	Mode       source.Mode
	Primary    icon.Set          // primary icon names
	PrimaryDir string            // directory holding <name>.svg
	Custom     []icon.CustomFile // custom icons, paths relative to WorkDir
	WorkDir    string
}

// Result is a compiled sprite. Stats.FinalBytes and Stats.Duration are left
// for the caller, which knows when the build is complete.
type Result struct {
	Mode     source.Mode
	Document *Document
	Stats    observability.RunStats
}

// Compiler builds sprite documents.
type Compiler struct {
	transformer Transformer
	cache       cache.Cache
	keyer       cache.Keyer
	reporter    observability.Reporter
}

// NewCompiler creates a compiler. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil reporter discards events.
func NewCompiler(t Transformer, c cache.Cache, keyer cache.Keyer, reporter observability.Reporter) *Compiler {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Compiler{
		transformer: t,
		cache:       c,
		keyer:       keyer,
		reporter:    observability.OrNoop(reporter),
	}
}

// Compile reads, transforms and assembles every icon of in. The only error
// it returns is context cancellation; per-icon failures are reported and
// counted in Stats.Failed.
func (c *Compiler) Compile(ctx context.Context, in Input) (*Result, error) {
	res := &Result{Mode: in.Mode, Document: &Document{}}

	names := in.Primary.Sorted()
	c.reporter.OnCompileStart(ctx, icon.SourcePrimary.String(), len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := errors.ValidateIconName(name); err != nil {
			res.Stats.Failed++
			c.reporter.OnFailure(ctx, observability.SeverityWarning, err)
			continue
		}
		path := filepath.Join(in.PrimaryDir, name+".svg")
		if !c.add(ctx, res, icon.SourcePrimary, name, path, path) {
			continue
		}
		res.Stats.ProcessedPrimary++
	}
	c.reporter.OnCompileComplete(ctx, icon.SourcePrimary.String(), res.Stats.ProcessedPrimary, len(names))

	c.reporter.OnCompileStart(ctx, icon.SourceCustom.String(), len(in.Custom))
	defined := make(map[string]string, len(in.Custom))
	for _, f := range in.Custom {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Stems in different subdirectories map to the same symbol id.
		if first, ok := defined[f.Name]; ok {
			res.Stats.Failed++
			c.reporter.OnFailure(ctx, observability.SeverityWarning,
				errors.New(errors.KindInvalidIconName, "custom icon %q is already defined by %s", f.Name, first).
					WithIcon(f.Name).WithPath(f.Path))
			continue
		}
		path := filepath.Join(in.WorkDir, filepath.FromSlash(f.Path))
		if !c.add(ctx, res, icon.SourceCustom, f.Name, path, f.Path) {
			continue
		}
		defined[f.Name] = f.Path
		res.Stats.ProcessedCustom++
	}
	c.reporter.OnCompileComplete(ctx, icon.SourceCustom.String(), res.Stats.ProcessedCustom, len(in.Custom))

	return res, nil
}

// add reads and transforms one icon and appends its symbol. It reports
// whether the icon made it into the document.
func (c *Compiler) add(ctx context.Context, res *Result, src icon.Source, name, path, display string) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		res.Stats.Failed++
		c.reporter.OnFailure(ctx, severityOf(src),
			errors.Wrap(errors.KindIconRead, err, "failed to read %s icon %q", src, name).
				WithIcon(name).WithPath(display))
		return false
	}
	res.Stats.OriginalBytes += int64(len(raw))

	ic, hit := c.transform(ctx, raw)
	if hit {
		res.Stats.CacheHits++
	}
	res.Document.Add(Symbol{
		ID:         icon.SymbolID(src, name),
		Attributes: ic.Attributes,
		Content:    ic.Content,
	})
	return true
}

// transform runs the transformer through the cache. Cache errors count as
// misses.
func (c *Compiler) transform(ctx context.Context, raw []byte) (svg.Icon, bool) {
	key := c.keyer.TransformKey(cache.Hash(raw), cache.TransformKeyOpts{
		Fingerprint: c.transformer.Fingerprint(),
	})

	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var ic svg.Icon
		if json.Unmarshal(data, &ic) == nil {
			return ic, true
		}
	}

	ic := c.transformer.Transform(raw)
	if data, err := json.Marshal(ic); err == nil {
		_ = c.cache.Set(ctx, key, data, cache.TTLTransform)
	}
	return ic, false
}

// severityOf grades failures: a missing primary icon is usually a typo or
// an outdated package, a broken custom icon is a project bug.
func severityOf(src icon.Source) observability.Severity {
	if src == icon.SourceCustom {
		return observability.SeverityError
	}
	return observability.SeverityWarning
}
