// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Stdin is the file argument that means standard input.
const Stdin = "-"

// ExpandHome resolves a leading "~" to the user's home directory.
//
//   - "~" -> "/home/user"
//   - "~/langs" -> "/home/user/langs"
//   - "~other/langs" and anything else -> unchanged
//
// If the home directory cannot be determined the path is returned as is.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// IsStdin reports whether a file argument refers to standard input.
func IsStdin(path string) bool {
	return path == "" || path == Stdin
}

// Ext returns the extension used to pick a language for path, falling back
// to the base name for extensionless files like "Makefile" or ".bashrc".
func Ext(path string) string {
	if ext := filepath.Ext(path); ext != "" && ext != filepath.Base(path) {
		return ext
	}
	return filepath.Base(path)
}
