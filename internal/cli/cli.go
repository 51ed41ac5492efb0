// Package cli implements the iconsprite command-line interface.
//
// # Commands
//
//   - (root), generate: scan sources and write the sprite
//   - scan: list the icons a build would include, without writing
//   - preview: serve a live gallery of the sprite
//   - cache: manage the transform cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// Operator output (progress, failures, the summary) goes through a console
// Reporter. Debug logging via charmbracelet/log is enabled with --verbose and
// carried to commands through context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/iconsprite/pkg/buildinfo"
	"github.com/matzehuels/iconsprite/pkg/cache"
	"github.com/matzehuels/iconsprite/pkg/config"
	"github.com/matzehuels/iconsprite/pkg/errors"
	"github.com/matzehuels/iconsprite/pkg/observability"
	"github.com/matzehuels/iconsprite/pkg/pipeline"
	"github.com/matzehuels/iconsprite/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "iconsprite"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	stdout io.Writer
	stderr io.Writer

	// global flags
	dir        string
	configFile string
	noCache    bool
	quiet      bool
}

// New creates a new CLI instance. Command output goes to stdout, logs to
// stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		stdout: stdout,
		stderr: stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Run without a subcommand, it generates the sprite.
func (c *CLI) RootCommand() *cobra.Command {
	var bf buildFlags

	root := &cobra.Command{
		Use:   appName,
		Short: "iconsprite builds an SVG sprite of the icons your code uses",
		Long: `iconsprite scans JSX and TSX sources for <LucideIcon name="..."/> references,
collects the matching icons from the installed lucide-static package plus your
own custom icons, and writes them as <symbol> elements into one SVG sprite.`,
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, bf)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.dir, "dir", "C", ".", "project directory")
	pf.StringVar(&c.configFile, "config", "", "config file (default: iconsprite.toml in the project directory)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the transform cache")
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "only print failures")

	bf.register(root)

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Build Flags
// =============================================================================

// buildFlags are the flags shared by commands that build a sprite.
type buildFlags struct {
	all    bool
	output string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.all, "all", false, "include every icon of the package instead of scanning sources")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "sprite path (default "+config.DefaultOutput+")")
}

func (f buildFlags) mode() source.Mode {
	return source.ModeFromFlag(f.all)
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// workDir returns the absolute project directory.
func (c *CLI) workDir() (string, error) {
	return filepath.Abs(c.dir)
}

// loadConfig loads the project configuration and applies flag overrides.
func (c *CLI) loadConfig(workDir string, bf buildFlags) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{WorkDir: workDir, File: c.configFile})
	if err != nil {
		return nil, err
	}
	if bf.output != "" {
		cfg.Output = bf.output
	}
	if c.noCache {
		cfg.NoCache = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ErrorMessage renders a fatal error for stderr. Errors without a kind come
// from cobra's argument and flag parsing, so they get a usage hint.
func ErrorMessage(err error) string {
	msg := StyleError.Render("Error: " + errors.UserMessage(err))
	if errors.KindOf(err) == "" {
		msg += "\n" + StyleDim.Render("Run 'iconsprite --help' for usage.")
	}
	return msg
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg *config.Config, reporter observability.Reporter) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(cfg.NoCache), nil, c.Logger, reporter)
}

// newCache opens the transform cache. A cache directory that cannot be used
// disables caching for the run.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("transform cache disabled", "error", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("transform cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/iconsprite/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
