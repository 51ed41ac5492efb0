// Package source locates the icon files a sprite is built from.
//
// The primary icon set is an installed npm package (lucide-static by
// default) holding one SVG per icon. It is found with Node-style module
// resolution, walking up from the project directory and from the directory
// of the running executable, so the tool works both as a project-local and
// as a globally installed binary. Failing to find it is fatal.
//
// Custom icons are optional SVG files in a project directory. They are
// always included, whatever the [Mode].
package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/iconsprite/pkg/errors"
	"github.com/matzehuels/iconsprite/pkg/icon"
)

// Mode selects which primary icons a build includes.
type Mode int

const (
	// ModeScan includes only the icons referenced in source files.
	ModeScan Mode = iota
	// ModeAll includes every icon of the primary set.
	ModeAll
)

// String returns the display name of the mode.
func (m Mode) String() string {
	if m == ModeAll {
		return "all"
	}
	return "scan"
}

// ModeFromFlag maps the --all flag to a Mode.
func ModeFromFlag(all bool) Mode {
	if all {
		return ModeAll
	}
	return ModeScan
}

const (
	// DefaultPackage is the npm package holding the primary icon set.
	DefaultPackage = "lucide-static"
	// DefaultIconsDir is the icon directory inside the package.
	DefaultIconsDir = "icons"
)

// ResolveOptions configures package resolution.
type ResolveOptions struct {
	WorkDir  string
	Package  string // npm package name; DefaultPackage if empty
	IconsDir string // directory inside the package; DefaultIconsDir if empty
	// SearchRoots are tried after WorkDir. Nil means the executable's
	// directory.
	SearchRoots []string
}

// Primary is a resolved primary icon set.
type Primary struct {
	Package string
	Version string
	Dir     string // absolute directory holding <name>.svg files
}

// Discoverer finds the icons referenced by a project.
type Discoverer interface {
	Discover(ctx context.Context, workDir string) (icon.Set, error)
}

// DiscovererFunc adapts a function to the Discoverer interface.
type DiscovererFunc func(ctx context.Context, workDir string) (icon.Set, error)

// Discover implements Discoverer.
func (f DiscovererFunc) Discover(ctx context.Context, workDir string) (icon.Set, error) {
	return f(ctx, workDir)
}

// packageJSON holds the package.json fields we report.
type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Resolve finds the installed primary icon package.
func Resolve(ctx context.Context, opts ResolveOptions) (*Primary, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	iconsDir := opts.IconsDir
	if iconsDir == "" {
		iconsDir = DefaultIconsDir
	}

	roots := []string{opts.WorkDir}
	if opts.SearchRoots != nil {
		roots = append(roots, opts.SearchRoots...)
	} else if exe, err := os.Executable(); err == nil {
		roots = append(roots, filepath.Dir(exe))
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if root == "" {
			continue
		}
		pkgDir, ok := findPackage(root, pkg)
		if !ok {
			continue
		}

		p := &Primary{Package: pkg, Dir: filepath.Join(pkgDir, filepath.FromSlash(iconsDir))}
		if data, err := os.ReadFile(filepath.Join(pkgDir, "package.json")); err == nil {
			var meta packageJSON
			if json.Unmarshal(data, &meta) == nil {
				p.Version = meta.Version
			}
		}
		return p, nil
	}

	return nil, errors.New(errors.KindSourceResolution,
		"failed to resolve %s package. Make sure it is installed.", pkg)
}

// findPackage walks from dir up to the filesystem root looking for
// node_modules/<pkg>/package.json.
func findPackage(dir, pkg string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	parts := strings.Split(pkg, "/") // scoped packages: @scope/name

	for {
		if filepath.Base(abs) != "node_modules" {
			candidate := filepath.Join(append([]string{abs, "node_modules"}, parts...)...)
			if info, err := os.Stat(filepath.Join(candidate, "package.json")); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", false
		}
		abs = parent
	}
}

// Path returns the file of the named icon.
func (p *Primary) Path(name string) string {
	return filepath.Join(p.Dir, name+".svg")
}

// All lists every icon of the set.
func (p *Primary) All() (icon.Set, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, errors.Wrap(errors.KindSourceResolution, err, "failed to list %s icons", p.Package).WithPath(p.Dir)
	}

	names := icon.NewSet()
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".svg" {
			continue
		}
		names.Add(strings.TrimSuffix(e.Name(), ".svg"))
	}
	return names, nil
}

// Icons returns the primary icons to build. ModeAll enumerates the whole set
// and never consults d; ModeScan delegates to d.
func (p *Primary) Icons(ctx context.Context, mode Mode, workDir string, d Discoverer) (icon.Set, error) {
	if mode == ModeAll {
		return p.All()
	}
	return d.Discover(ctx, workDir)
}
