package errors

import (
	"strings"
	"unicode"
)

// maxIconNameLength bounds icon names; real icon sets stay far below it.
const maxIconNameLength = 256

// ValidateIconName validates an icon name before it is joined into a file path.
// Names come from string literals in scanned source, so they are untrusted.
//
// The rules are conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or parent references
//   - Maximum length of 256 characters
func ValidateIconName(name string) error {
	if name == "" {
		return New(KindInvalidIconName, "icon name cannot be empty")
	}

	if len(name) > maxIconNameLength {
		return New(KindInvalidIconName, "icon name too long (max %d characters)", maxIconNameLength).WithIcon(name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(KindInvalidIconName, "icon name contains invalid control characters").WithIcon(name)
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(KindInvalidIconName, "icon name contains invalid characters: %q", pattern).WithIcon(name)
		}
	}

	return nil
}

// ValidateRelativePath validates a configured directory or file path that must
// stay inside the working directory.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateRelativePath(path string) error {
	if path == "" {
		return New(KindInvalidConfig, "path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(KindInvalidConfig, "path contains invalid characters").WithPath(path)
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(KindInvalidConfig, "path must be relative (cannot start with /)").WithPath(path)
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(KindInvalidConfig, "path cannot contain path traversal sequences (..)").WithPath(path)
		}
	}

	if strings.Contains(path, "\\") {
		return New(KindInvalidConfig, "path cannot contain backslashes").WithPath(path)
	}

	return nil
}
