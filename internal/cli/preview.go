package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/matzehuels/iconsprite/pkg/pipeline"
	"github.com/matzehuels/iconsprite/pkg/preview"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		bf   buildFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve a live gallery of the sprite",
		Long: `Build the sprite in memory and serve a gallery page listing every symbol.
The sprite is rebuilt on each request, so new icon references show up on
refresh. Nothing is written to disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd, bf, addr)
		},
	}
	cmd.Flags().BoolVar(&bf.all, "all", false, "include every icon of the package instead of scanning sources")
	cmd.Flags().StringVar(&addr, "addr", preview.DefaultAddr, "listen address")
	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, bf buildFlags, addr string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	workDir, err := c.workDir()
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(workDir, bf)
	if err != nil {
		return err
	}

	// Rebuilds only report failures; the gallery shows the rest.
	runner := c.newRunner(cfg, newConsoleReporter(c.stderr, true))
	defer runner.Close()

	var mu sync.Mutex
	build := func(ctx context.Context) (*preview.Sprite, error) {
		mu.Lock()
		defer mu.Unlock()

		p := newProgress(logger)
		res, err := runner.Execute(ctx, pipeline.Options{
			WorkDir: workDir,
			Mode:    bf.mode(),
			Config:  cfg,
		})
		if err != nil {
			return nil, err
		}
		p.done(fmt.Sprintf("Built sprite with %d icons", res.Stats.Total()))
		return &preview.Sprite{Data: res.Sprite, IDs: res.Document.IDs()}, nil
	}

	// Fail fast on configuration problems such as a missing package.
	if _, err := build(ctx); err != nil {
		return err
	}

	srv := preview.NewServer(build, logger)
	return srv.Serve(ctx, addr, func(bound string) {
		out := printer{w: c.stdout}
		out.success("Preview running at %s", StyleLink.Render("http://"+bound))
		out.detail("Press Ctrl+C to stop")
	})
}
