package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/iconsprite/pkg/cache"
	"github.com/matzehuels/iconsprite/pkg/icon"
	"github.com/matzehuels/iconsprite/pkg/observability"
	"github.com/matzehuels/iconsprite/pkg/scan"
	"github.com/matzehuels/iconsprite/pkg/source"
	"github.com/matzehuels/iconsprite/pkg/sprite"
	"github.com/matzehuels/iconsprite/pkg/svg"
)

// Runner executes builds with a shared transform cache.
//
// The Runner keeps no per-build state. It is not meant for concurrent
// builds because the Reporter receives events in order.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Reporter observability.Reporter
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If reporter is nil, events are discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, reporter observability.Reporter) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Reporter: observability.OrNoop(reporter),
	}
}

// Execute runs resolve → discover → compile → write.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	cfg := opts.Config
	output := cfg.OutputPath(opts.WorkDir)

	r.Reporter.OnRunStart(ctx, observability.RunInfo{
		WorkDir: opts.WorkDir,
		Mode:    opts.Mode.String(),
		Output:  output,
	})

	// Stage 1: Resolve
	ro := cfg.ResolveOptions(opts.WorkDir)
	ro.SearchRoots = opts.SearchRoots
	primary, err := source.Resolve(ctx, ro)
	if err != nil {
		return nil, err
	}
	r.Reporter.OnSourceResolved(ctx, primary.Package, primary.Version, primary.Dir)
	r.Logger.Debug("resolved icon package",
		"package", primary.Package,
		"version", primary.Version,
		"dir", primary.Dir)

	// Stage 2: Discover
	names, err := r.primaryIcons(ctx, primary, opts)
	if err != nil {
		return nil, err
	}
	custom, err := r.customIcons(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Stage 3: Compile
	compileStart := time.Now()
	compiler := sprite.NewCompiler(svg.NewTransformer(cfg.TransformOptions()), r.Cache, r.Keyer, r.Reporter)
	compiled, err := compiler.Compile(ctx, sprite.Input{
		Mode:       opts.Mode,
		Primary:    names,
		PrimaryDir: primary.Dir,
		Custom:     custom,
		WorkDir:    opts.WorkDir,
	})
	if err != nil {
		return nil, err
	}
	data := compiled.Document.Bytes()
	r.Logger.Debug("compiled sprite",
		"symbols", compiled.Document.Len(),
		"cache_hits", compiled.Stats.CacheHits,
		"duration", time.Since(compileStart))

	result := &Result{
		Primary:  primary,
		Document: compiled.Document,
		Sprite:   data,
		Output:   output,
		Custom:   custom,
		Stats:    compiled.Stats,
	}
	result.Stats.FinalBytes = int64(len(data))

	// Stage 4: Write
	if opts.Write {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := sprite.WriteFile(output, data); err != nil {
			return nil, err
		}
		result.Written = true
		r.Logger.Debug("wrote sprite", "path", output, "bytes", len(data))
	}

	result.Stats.Duration = time.Since(start)
	r.Reporter.OnSummary(ctx, result.Stats)
	return result, nil
}

// Discover runs discovery only: the usage scan and the custom icon listing.
// It does not need the primary package.
func (r *Runner) Discover(ctx context.Context, opts Options) (*DiscoverResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	s := scan.New(opts.Config.ScanOptions(), r.Reporter)
	defer s.Close()

	res, err := s.Scan(ctx, opts.WorkDir)
	if err != nil {
		return nil, err
	}

	files, found, err := source.CustomIcons(opts.WorkDir, opts.Config.CustomDir)
	if err != nil {
		r.Reporter.OnFailure(ctx, observability.SeverityError, err)
	}
	r.Reporter.OnCustomIcons(ctx, source.CustomNames(files), found)

	return &DiscoverResult{Scan: res, Custom: files, CustomFound: found}, nil
}

// primaryIcons selects the primary icons for the build mode.
func (r *Runner) primaryIcons(ctx context.Context, primary *source.Primary, opts Options) (icon.Set, error) {
	var d source.Discoverer
	if opts.Mode == source.ModeScan {
		s := scan.New(opts.Config.ScanOptions(), r.Reporter)
		defer s.Close()
		d = s
	}

	names, err := primary.Icons(ctx, opts.Mode, opts.WorkDir, d)
	if err != nil {
		return nil, err
	}
	if opts.Mode == source.ModeAll {
		r.Reporter.OnPrimaryEnumerated(ctx, names.Len())
	}
	return names, nil
}

// customIcons lists the custom icons. A listing failure is reported and
// treated as an empty directory.
func (r *Runner) customIcons(ctx context.Context, opts Options) ([]icon.CustomFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, found, err := source.CustomIcons(opts.WorkDir, opts.Config.CustomDir)
	if err != nil {
		r.Reporter.OnFailure(ctx, observability.SeverityError, err)
		files = nil
	}
	r.Reporter.OnCustomIcons(ctx, source.CustomNames(files), found)
	return files, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
