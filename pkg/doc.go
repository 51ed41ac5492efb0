// Package pkg provides the libraries behind the iconsprite CLI.
//
// # Overview
//
// iconsprite finds the icons a web project references and packs them into
// one hidden SVG sprite, so components render <use href="/icons.svg#home"/>
// instead of inlining markup. The pkg directory is organized into three areas:
//
//  1. Domain: [icon] (names, sets, symbol ids), [scan] (JSX usage scanner),
//     [source] (icon package resolution, custom icons), [svg] (optimization
//     and root extraction), [sprite] (compilation and output)
//  2. Infrastructure: [cache] (transform cache), [config] (settings),
//     [errors] (failure kinds), [observability] (Reporter events)
//  3. Orchestration: [pipeline] (resolve → discover → compile → write) and
//     [preview] (development server)
//
// # Architecture
//
// The data flow of a build:
//
//	node_modules/lucide-static        src/**/*.tsx       public/custom-icons
//	         ↓                              ↓                    ↓
//	    [source.Resolve]              [scan.Scanner]     [source.CustomIcons]
//	         └──────────────┬───────────────┘────────────────────┘
//	                        ↓
//	               [sprite.Compiler] ← [svg.Transformer] ↔ [cache]
//	                        ↓
//	                public/icons.svg
//
// # Quick Start
//
//	cfg, err := config.Load(config.LoadOptions{WorkDir: dir})
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, logger, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    WorkDir: dir,
//	    Config:  cfg,
//	    Write:   true,
//	})
package pkg
