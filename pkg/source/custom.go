package source

import (
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/iconsprite/pkg/icon"
)

// DefaultCustomDir is where projects keep their own SVG icons.
const DefaultCustomDir = "public/custom-icons"

// CustomIcons lists the SVG files below dir (relative to workDir),
// recursively, sorted by path. A missing directory is not an error: it
// yields no icons and found == false.
func CustomIcons(workDir, dir string) (files []icon.CustomFile, found bool, err error) {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	info, err := os.Stat(filepath.Join(workDir, filepath.FromSlash(dir)))
	if err != nil || !info.IsDir() {
		return nil, false, nil
	}

	matches, err := doublestar.Glob(os.DirFS(workDir), path.Join(dir, "**", "*.svg"), doublestar.WithFilesOnly())
	if err != nil {
		return nil, true, err
	}
	slices.Sort(matches)

	files = make([]icon.CustomFile, 0, len(matches))
	for _, m := range matches {
		files = append(files, icon.NewCustomFile(m))
	}
	return files, true, nil
}

// CustomNames returns the sorted icon names of files.
func CustomNames(files []icon.CustomFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	slices.Sort(names)
	return names
}
