package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/iconsprite/pkg/pipeline"
)

// generateCommand creates the generate command. It is the same as running
// iconsprite without a subcommand.
func (c *CLI) generateCommand() *cobra.Command {
	var bf buildFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Scan sources and write the sprite",
		Long: `Scan source files for icon references and write the sprite.

With --all, every icon of the package is included and sources are not scanned.
Custom icons are always included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, bf)
		},
	}
	bf.register(cmd)
	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, bf buildFlags) error {
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

	runner := c.newRunner(cfg, newConsoleReporter(c.stdout, c.quiet))
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeline.Options{
		WorkDir: workDir,
		Mode:    bf.mode(),
		Config:  cfg,
		Write:   true,
	})
	if err != nil {
		return err
	}

	logger.Debug("sprite written", "path", result.Output, "symbols", result.Document.Len())
	if !c.quiet {
		printer{w: c.stdout}.file(result.Output)
	}
	return nil
}
