package smbclient

import (
	"io/fs"
)

// Mode holds unix permission bits as passed to mkdir, chmod and open.
type Mode uint32

// ModeFromFileMode keeps the permission bits of m.
func ModeFromFileMode(m fs.FileMode) Mode {
	return Mode(m.Perm())
}

// FileMode returns the permission bits as an fs.FileMode.
func (m Mode) FileMode() fs.FileMode {
	return fs.FileMode(m & 0o777)
}

// User returns the owner's rwx bits.
func (m Mode) User() uint32 { return uint32(m>>6) & 0o7 }

// Group returns the group's rwx bits.
func (m Mode) Group() uint32 { return uint32(m>>3) & 0o7 }

// Others returns everyone else's rwx bits.
func (m Mode) Others() uint32 { return uint32(m) & 0o7 }

// String formats the mode as "rwxr-xr-x".
func (m Mode) String() string {
	return m.FileMode().String()[1:]
}
