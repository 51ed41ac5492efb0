// Package pipeline runs a complete sprite build.
//
// The CLI and the preview server share this package so both produce the same
// sprite for the same project.
//
// # Stages
//
//  1. Resolve: locate the installed primary icon package
//  2. Discover: scan source files (or list the whole package with ModeAll)
//     and enumerate the custom icons directory
//  3. Compile: transform every selected icon and assemble the sprite
//  4. Write: atomically replace the output file (optional)
//
// Progress and per-icon failures go to the runner's Reporter; only fatal
// errors (unresolvable package, write failure, cancellation) are returned.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger, reporter)
//	defer runner.Close()
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    WorkDir: dir,
//	    Config:  cfg,
//	    Write:   true,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Stats.Total(), "icons")
package pipeline

import (
	"github.com/matzehuels/iconsprite/pkg/config"
	"github.com/matzehuels/iconsprite/pkg/errors"
	"github.com/matzehuels/iconsprite/pkg/icon"
	"github.com/matzehuels/iconsprite/pkg/observability"
	"github.com/matzehuels/iconsprite/pkg/scan"
	"github.com/matzehuels/iconsprite/pkg/source"
	"github.com/matzehuels/iconsprite/pkg/sprite"
)

// Options configures one build.
type Options struct {
	WorkDir string
	Mode    source.Mode
	// Config holds the project settings. Nil means config.Default().
	Config *config.Config
	// Write persists the sprite to Config.OutputPath(WorkDir).
	Write bool
	// SearchRoots are extra package search roots; nil means the executable's
	// directory.
	SearchRoots []string
}

// ValidateAndSetDefaults fills in defaults and validates the options.
func (o *Options) ValidateAndSetDefaults() error {
	if o.WorkDir == "" {
		return errors.New(errors.KindInvalidConfig, "working directory is required")
	}
	if o.Config == nil {
		o.Config = config.Default()
	}
	return o.Config.Validate()
}

// Result is the outcome of a build.
type Result struct {
	// Primary is the resolved primary icon package.
	Primary *source.Primary

	// Document holds the assembled symbols.
	Document *sprite.Document

	// Sprite is the rendered sprite document.
	Sprite []byte

	// Output is the sprite path. It is set even when nothing was written.
	Output string

	// Written reports whether Output was replaced.
	Written bool

	// Custom lists the custom icons that were considered.
	Custom []icon.CustomFile

	// Stats are the final run statistics, as passed to OnSummary.
	Stats observability.RunStats
}

// DiscoverResult is the outcome of discovery without compilation.
type DiscoverResult struct {
	Scan        *scan.Result
	Custom      []icon.CustomFile
	CustomFound bool
}
