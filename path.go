package smbclient

import (
	"path"
	"strings"
)

// normalizePath turns the path forms accepted by the afero adapter
// (Windows separators, relative paths) into the clean, absolute form
// appended to the client URI.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return p
}

// validatePath rejects paths that cannot be sent to the engine or that
// escape the share.
func validatePath(p string) error {
	if strings.IndexByte(p, 0) >= 0 {
		return ErrBadValue
	}
	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return ErrBadValue
	}
	return nil
}

// joinPath joins a directory and an entry name.
func joinPath(dir, name string) string {
	return path.Join(normalizePath(dir), name)
}
