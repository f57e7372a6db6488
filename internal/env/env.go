// Package env reads configuration values from the environment, following the
// common convention of a `<NAME>_FILE` variable pointing at a file that holds
// the value (as used for Docker and Kubernetes secrets).
package env

import (
	"io/fs"
	"os"
	"strings"
)

// LookupFS retrieves the value of the environment variable named by key. If
// the variable is unset or empty, but key + "_FILE" is set, the referenced
// file is read from fsys and its trimmed contents are returned. The boolean
// reports whether a non-empty value was found by either route.
//
// Absolute file paths are resolved relative to the root of fsys, so fsys will
// normally be os.DirFS("/").
func LookupFS(fsys fs.FS, key string) (string, bool) {
	if val := os.Getenv(key); val != "" {
		return val, true
	}

	p := os.Getenv(key + "_FILE")
	if p == "" {
		return "", false
	}

	b, err := fs.ReadFile(fsys, strings.TrimPrefix(p, "/"))
	if err != nil {
		return "", false
	}

	val := strings.TrimSpace(string(b))

	return val, val != ""
}

// GetenvFS is like LookupFS, but returns def (if given) when no value is
// found.
func GetenvFS(fsys fs.FS, key string, def ...string) string {
	if val, ok := LookupFS(fsys, key); ok {
		return val
	}

	if len(def) > 0 {
		return def[0]
	}

	return ""
}
