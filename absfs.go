package smbclient

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/absfs/absfs"
)

// AbsFS presents a Client as an absfs.FileSystem. It shares the path and
// error handling of FileSystem; absfs.ExtendFiler supplies the working
// directory, so relative names resolve against Getwd.
type AbsFS struct {
	absfs.FileSystem
	fsys *FileSystem
}

// Ensure AbsFS implements absfs.FileSystem.
var _ absfs.FileSystem = (*AbsFS)(nil)

// NewAbsFS wraps c. Closing files obtained from it does not close c.
func NewAbsFS(c *Client) *AbsFS {
	fsys := NewFs(c)
	return &AbsFS{
		FileSystem: absfs.ExtendFiler(absFiler{fsys}),
		fsys:       fsys,
	}
}

// MkdirAll creates a directory and all parent directories. Unlike the
// generic absfs version it reports failures.
func (a *AbsFS) MkdirAll(name string, perm os.FileMode) error {
	return a.fsys.MkdirAll(a.abs(name), perm)
}

// RemoveAll removes a path and all children. A missing path is not an
// error.
func (a *AbsFS) RemoveAll(name string) error {
	return a.fsys.RemoveAll(a.abs(name))
}

// Truncate changes the size of the named file.
func (a *AbsFS) Truncate(name string, size int64) error {
	return a.fsys.truncate(a.abs(name), size)
}

// abs resolves name against the working directory.
func (a *AbsFS) abs(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if path.IsAbs(name) {
		return name
	}
	cwd, err := a.Getwd()
	if err != nil {
		return name
	}
	return path.Join(cwd, name)
}

// absFiler is the absfs.Filer handed to absfs.ExtendFiler.
type absFiler struct {
	fsys *FileSystem
}

var _ absfs.Filer = absFiler{}

func (f absFiler) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	file, err := f.fsys.openFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (f absFiler) Mkdir(name string, perm os.FileMode) error {
	return f.fsys.Mkdir(name, perm)
}

func (f absFiler) Remove(name string) error {
	return f.fsys.Remove(name)
}

func (f absFiler) Rename(oldpath, newpath string) error {
	return f.fsys.Rename(oldpath, newpath)
}

func (f absFiler) Stat(name string) (os.FileInfo, error) {
	return f.fsys.Stat(name)
}

func (f absFiler) Chmod(name string, mode os.FileMode) error {
	return f.fsys.Chmod(name, mode)
}

func (f absFiler) Chtimes(name string, atime, mtime time.Time) error {
	return f.fsys.Chtimes(name, atime, mtime)
}

func (f absFiler) Chown(name string, uid, gid int) error {
	return f.fsys.Chown(name, uid, gid)
}
