// Package icon defines the values shared by discovery and sprite compilation:
// icon names, name sets, custom icon files and symbol ids.
package icon

import (
	"path"
	"slices"
	"strings"
)

// CustomPrefix is prepended to the symbol id of every custom icon. Rendering
// components build "<sprite>#extend-<name>" references, so this value is part
// of the output contract and must not change.
const CustomPrefix = "extend-"

// Source tells which icon source a symbol came from.
type Source int

const (
	// SourcePrimary is the bundled icon package, addressed by bare name.
	SourcePrimary Source = iota
	// SourceCustom is the project-local custom icons directory.
	SourceCustom
)

// String returns the display name of the source.
func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// SymbolID returns the sprite fragment id for an icon from the given source.
func SymbolID(src Source, name string) string {
	if src == SourceCustom {
		return CustomPrefix + name
	}
	return name
}

// Set is an unordered set of icon names. The zero value is not usable;
// create sets with NewSet.
type Set map[string]struct{}

// NewSet returns a set containing names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name. Adding an existing name is a no-op.
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names.
func (s Set) Len() int {
	return len(s)
}

// Union adds every name of other to s.
func (s Set) Union(other Set) {
	for n := range other {
		s[n] = struct{}{}
	}
}

// Sorted returns the names in ascending order.
func (s Set) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// CustomFile is an SVG file found in the custom icons directory.
type CustomFile struct {
	Path string // slash-separated, relative to the working directory
	Name string // file stem
}

// NewCustomFile derives the icon name from the file stem of p.
func NewCustomFile(p string) CustomFile {
	base := path.Base(p)
	return CustomFile{Path: p, Name: strings.TrimSuffix(base, path.Ext(base))}
}
