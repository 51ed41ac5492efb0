// Package config loads iconsprite settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. iconsprite.toml in the working directory, or an explicit --config file
//  3. ICONSPRITE_* variables from a .env file in the working directory
//  4. ICONSPRITE_* variables from the process environment
//  5. command-line flags, applied by the CLI after [Load]
//
// Example iconsprite.toml:
//
//	source_dirs = ["src", "app", "components"]
//	output      = "static/icons.svg"
//	custom_dir  = "assets/icons"
//	precision   = 6
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/matzehuels/iconsprite/pkg/errors"
	"github.com/matzehuels/iconsprite/pkg/scan"
	"github.com/matzehuels/iconsprite/pkg/source"
	"github.com/matzehuels/iconsprite/pkg/svg"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "iconsprite.toml"
	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "ICONSPRITE_"
	// DefaultOutput is where the sprite is written.
	DefaultOutput = "public/icons.svg"
	// MaxPrecision bounds Precision.
	MaxPrecision = 10
)

// Config holds every setting of a build.
type Config struct {
	SourceDirs []string `toml:"source_dirs" env:"SOURCE_DIRS" envSeparator:","`
	Extensions []string `toml:"extensions" env:"EXTENSIONS" envSeparator:","`
	Component  string   `toml:"component" env:"COMPONENT"`
	Attribute  string   `toml:"attribute" env:"ATTRIBUTE"`
	CustomDir  string   `toml:"custom_dir" env:"CUSTOM_DIR"`
	Output     string   `toml:"output" env:"OUTPUT"`
	Package    string   `toml:"package" env:"PACKAGE"`
	IconsDir   string   `toml:"icons_dir" env:"ICONS_DIR"`
	Precision  int      `toml:"precision" env:"PRECISION"`
	NoCache    bool     `toml:"no_cache" env:"NO_CACHE"`
}

// Default returns the built-in settings.
func Default() *Config {
	so := scan.DefaultOptions()
	return &Config{
		SourceDirs: so.Dirs,
		Extensions: so.Extensions,
		Component:  so.Component,
		Attribute:  so.Attribute,
		CustomDir:  source.DefaultCustomDir,
		Output:     DefaultOutput,
		Package:    source.DefaultPackage,
		IconsDir:   source.DefaultIconsDir,
		Precision:  svg.DefaultPrecision,
	}
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	WorkDir string
	// File is an explicit config file. It must exist. Empty means
	// iconsprite.toml in WorkDir, if present.
	File string
	// Environ is the process environment in os.Environ form. Nil means
	// os.Environ().
	Environ []string
}

// Load builds the configuration from defaults, the config file, .env and the
// environment, then validates it.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(opts); err != nil {
		return nil, err
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	vars, err := readDotEnv(filepath.Join(opts.WorkDir, ".env"))
	if err != nil {
		return nil, err
	}
	for k, v := range env.ToMap(environ) {
		vars[k] = v
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix, Environment: vars}); err != nil {
		return nil, errors.Wrap(errors.KindInvalidConfig, err, "invalid environment")
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(opts LoadOptions) error {
	path, explicit := opts.File, opts.File != ""
	if !explicit {
		path = filepath.Join(opts.WorkDir, FileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(opts.WorkDir, path)
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrap(errors.KindInvalidConfig, err, "failed to load %s", path).WithPath(path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.KindInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", ")).WithPath(path)
	}
	return nil
}

// readDotEnv returns the variables of a .env file, or an empty map if there
// is none. The process environment is left untouched.
func readDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.KindInvalidConfig, err, "failed to read %s", path).WithPath(path)
	}
	return vars, nil
}

// normalize trims separators and dots so "src/" and ".tsx" are accepted.
func (c *Config) normalize() {
	for i, d := range c.SourceDirs {
		c.SourceDirs[i] = strings.Trim(strings.TrimSpace(d), "/")
	}
	for i, e := range c.Extensions {
		c.Extensions[i] = strings.TrimPrefix(strings.TrimSpace(e), ".")
	}
	c.Extensions = slices.DeleteFunc(c.Extensions, func(e string) bool { return e == "" })
	c.CustomDir = strings.TrimSuffix(strings.TrimSpace(c.CustomDir), "/")
	c.Output = strings.TrimSpace(c.Output)
}

// Validate checks that the configuration can drive a build.
func (c *Config) Validate() error {
	if len(c.SourceDirs) == 0 {
		return errors.New(errors.KindInvalidConfig, "source_dirs cannot be empty")
	}
	for _, d := range c.SourceDirs {
		if err := errors.ValidateRelativePath(d); err != nil {
			return err
		}
	}
	if len(c.Extensions) == 0 {
		return errors.New(errors.KindInvalidConfig, "extensions cannot be empty")
	}
	if c.Component == "" {
		return errors.New(errors.KindInvalidConfig, "component cannot be empty")
	}
	if c.Attribute == "" {
		return errors.New(errors.KindInvalidConfig, "attribute cannot be empty")
	}
	if err := errors.ValidateRelativePath(c.CustomDir); err != nil {
		return err
	}
	if c.Output == "" {
		return errors.New(errors.KindInvalidConfig, "output cannot be empty")
	}
	if c.Package == "" {
		return errors.New(errors.KindInvalidConfig, "package cannot be empty")
	}
	if c.Precision < 0 || c.Precision > MaxPrecision {
		return errors.New(errors.KindInvalidConfig, "precision must be between 0 and %d, got %d", MaxPrecision, c.Precision)
	}
	return nil
}

// ScanOptions returns the usage scanner settings.
func (c *Config) ScanOptions() scan.Options {
	return scan.Options{
		Dirs:       c.SourceDirs,
		Extensions: c.Extensions,
		Component:  c.Component,
		Attribute:  c.Attribute,
	}
}

// ResolveOptions returns the package resolver settings for workDir.
func (c *Config) ResolveOptions(workDir string) source.ResolveOptions {
	return source.ResolveOptions{
		WorkDir:  workDir,
		Package:  c.Package,
		IconsDir: c.IconsDir,
	}
}

// TransformOptions returns the SVG optimizer settings.
func (c *Config) TransformOptions() svg.Options {
	return svg.Options{Precision: c.Precision}
}

// OutputPath resolves Output against workDir.
func (c *Config) OutputPath(workDir string) string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(workDir, filepath.FromSlash(c.Output))
}
