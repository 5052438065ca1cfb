package smbclient

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/afero"
	)

// FileSystem presents a Client as an afero.Fs rooted at the client's share.
// Paths may use either separator and are cleaned before use. Engine
// failures are reported as *fs.PathError wrapping the errno, as OsFs does.
type FileSystem struct {
	client *Client
}

// Ensure FileSystem implements afero.Fs.
var _ afero.Fs = (*FileSystem)(nil)

// NewFs wraps c. Closing files obtained from the Fs does not close c.
func NewFs(c *Client) *FileSystem {
	return &FileSystem{client: c}
}

// Name returns the client URI.
func (fsys *FileSystem) Name() string {
	return fsys.client.URI()
}

// Open opens a file for reading. Directories are opened for Readdir only.
func (fsys *FileSystem) Open(name string) (afero.File, error) {
	return fsys.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile opens a file with the specified flags and mode.
func (fsys *FileSystem) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := fsys.openFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (fsys *FileSystem) openFile(name string, flag int, perm os.FileMode) (*fsFile, error) {
	if err := validatePath(name); err != nil {
		return nil, wrapPathError("open", name, err)
	}
	name = normalizePath(name)

	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE) == 0 {
		info, err := fsys.Stat(name)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return &fsFile{fsys: fsys, name: name}, nil
		}
	}

	f, err := fsys.client.OpenWith(name, openOptionsFromFlags(flag, ModeFromFileMode(perm)))
	if err != nil {
		return nil, osError(err)
	}
	return &fsFile{fsys: fsys, name: name, file: f}, nil
}

// Create creates or truncates a file for writing.
func (fsys *FileSystem) Create(name string) (afero.File, error) {
	return fsys.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

// Stat returns file information.
func (fsys *FileSystem) Stat(name string) (os.FileInfo, error) {
	if err := validatePath(name); err != nil {
		return nil, wrapPathError("stat", name, err)
	}
	name = normalizePath(name)

	meta, err := fsys.client.Stat(name)
	if err != nil {
		return nil, osError(err)
	}
	return meta.FileInfo(name), nil
}

// Mkdir creates a directory.
func (fsys *FileSystem) Mkdir(name string, perm os.FileMode) error {
	if err := validatePath(name); err != nil {
		return wrapPathError("mkdir", name, err)
	}
	return osError(fsys.client.Mkdir(normalizePath(name), ModeFromFileMode(perm)))
}

// MkdirAll creates a directory and all parent directories.
func (fsys *FileSystem) MkdirAll(name string, perm os.FileMode) error {
	if err := validatePath(name); err != nil {
		return wrapPathError("mkdir", name, err)
	}
	name = normalizePath(name)

	if info, err := fsys.Stat(name); err == nil {
		if !info.IsDir() {
			return &fs.PathError{Op: "mkdir", Path: name, Err: syscall.ENOTDIR}
		}
		return nil
	}

	if parent := path.Dir(name); parent != "/" {
		if err := fsys.MkdirAll(parent, perm); err != nil {
			return err
		}
	}

	err := fsys.Mkdir(name, perm)
	if errors.Is(err, fs.ErrExist) {
		// lost a race with another creator
		return nil
	}
	return err
}

// Remove removes a file or empty directory.
func (fsys *FileSystem) Remove(name string) error {
	if err := validatePath(name); err != nil {
		return wrapPathError("remove", name, err)
	}
	name = normalizePath(name)

	info, err := fsys.Stat(name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return osError(fsys.client.Rmdir(name))
	}
	return osError(fsys.client.Unlink(name))
}

// RemoveAll removes a path and all children. A missing path is not an
// error.
func (fsys *FileSystem) RemoveAll(name string) error {
	if err := validatePath(name); err != nil {
		return wrapPathError("remove", name, err)
	}
	name = normalizePath(name)

	info, err := fsys.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return osError(fsys.client.Unlink(name))
	}

	entries, err := fsys.client.ListDirPlus(name)
	if err != nil {
		return osError(err)
	}
	for _, entry := range entries {
		if err := fsys.RemoveAll(joinPath(name, entry.Name)); err != nil {
			return err
		}
	}
	return osError(fsys.client.Rmdir(name))
}

// Rename renames (moves) a file or directory within the share.
func (fsys *FileSystem) Rename(oldname, newname string) error {
	if err := validatePath(oldname); err != nil {
		return wrapPathError("rename", oldname, err)
	}
	if err := validatePath(newname); err != nil {
		return wrapPathError("rename", newname, err)
	}
	return osError(fsys.client.Rename(normalizePath(oldname), normalizePath(newname)))
}

// Chmod changes the mode of a file.
func (fsys *FileSystem) Chmod(name string, mode os.FileMode) error {
	if err := validatePath(name); err != nil {
		return wrapPathError("chmod", name, err)
	}
	return osError(fsys.client.Chmod(normalizePath(name), ModeFromFileMode(mode)))
}

// truncate resizes name by rewriting it: SMB engines have no ftruncate.
// The kept prefix is read back and written to the emptied file, padded
// with zeros when growing.
func (fsys *FileSystem) truncate(name string, size int64) error {
	if err := validatePath(name); err != nil {
		return wrapPathError("truncate", name, err)
	}
	if size < 0 {
		return &fs.PathError{Op: "truncate", Path: name, Err: syscall.EINVAL}
	}
	name = normalizePath(name)

	info, err := fsys.Stat(name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "truncate", Path: name, Err: syscall.EISDIR}
	}
	if info.Size() == size {
		return nil
	}

	r, err := fsys.client.Open(name)
	if err != nil {
		return osError(err)
	}
	data, err := io.ReadAll(io.LimitReader(r, size))
	r.Close()
	if err != nil {
		return osError(err)
	}
	if pad := size - int64(len(data)); pad > 0 {
		data = append(data, make([]byte, pad)...)
	}

	w, err := fsys.client.OpenWith(name, OpenOptions{Write: true, Truncate: true})
	if err != nil {
		return osError(err)
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			w.Close()
			return osError(err)
		}
	}
	return osError(w.Close())
}

// Chown is not supported: SMB has no Unix ownership.
func (fsys *FileSystem) Chown(name string, uid, gid int) error {
	return wrapPathError("chown", name, ErrUnsupportedOperation)
}

// Chtimes changes the access and modification times of a file.
func (fsys *FileSystem) Chtimes(name string, atime, mtime time.Time) error {
	if err := validatePath(name); err != nil {
		return wrapPathError("chtimes", name, err)
	}
	return osError(fsys.client.Utimes(normalizePath(name), atime, mtime))
}

// osError converts an engine failure on a path into an *fs.PathError
// holding the bare errno, the form os.IsNotExist and afero's helpers
// understand. Other errors pass through.
func osError(err error) error {
	var pe *PathError
	var ioErr *IOError
	if errors.As(err, &pe) && errors.As(err, &ioErr) {
		return &fs.PathError{Op: pe.Op, Path: pe.Path, Err: ioErr.Code}
	}
	return err
}

// fsFile is an afero.File. Directories have no engine descriptor.
type fsFile struct {
	fsys *FileSystem
	name string
	file *File

	entries []os.FileInfo // loaded on first Readdir
	read    bool
}

var _ afero.File = (*fsFile)(nil)

func (f *fsFile) regular(op string) (*File, error) {
	if f.file == nil {
		return nil, &fs.PathError{Op: op, Path: f.name, Err: syscall.EISDIR}
	}
	return f.file, nil
}

func (f *fsFile) Name() string {
	return f.name
}

func (f *fsFile) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

func (f *fsFile) Read(p []byte) (int, error) {
	file, err := f.regular("read")
	if err != nil {
		return 0, err
	}
	return file.Read(p)
}

// ReadAt reads at off and restores the file offset afterwards.
func (f *fsFile) ReadAt(p []byte, off int64) (int, error) {
	file, err := f.regular("read")
	if err != nil {
		return 0, err
	}
	cur, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	if _, err := file.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	n, rerr := io.ReadFull(file, p)
	if _, err := file.Seek(cur, io.SeekStart); err != nil && rerr == nil {
		rerr = err
	}
	if rerr == io.ErrUnexpectedEOF {
		rerr = io.EOF
	}
	return n, rerr
}

func (f *fsFile) Seek(offset int64, whence int) (int64, error) {
	file, err := f.regular("seek")
	if err != nil {
		return 0, err
	}
	return file.Seek(offset, whence)
}

func (f *fsFile) Write(p []byte) (int, error) {
	file, err := f.regular("write")
	if err != nil {
		return 0, err
	}
	return file.Write(p)
}

// WriteAt writes at off and restores the file offset afterwards.
func (f *fsFile) WriteAt(p []byte, off int64) (int, error) {
	file, err := f.regular("write")
	if err != nil {
		return 0, err
	}
	cur, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	if _, err := file.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	n, werr := file.Write(p)
	if _, err := file.Seek(cur, io.SeekStart); err != nil && werr == nil {
		werr = err
	}
	return n, werr
}

func (f *fsFile) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

func (f *fsFile) Stat() (os.FileInfo, error) {
	return f.fsys.Stat(f.name)
}

// Sync is a no-op: every Write is already sent to the server.
func (f *fsFile) Sync() error {
	return nil
}

// Truncate is not supported by the engine.
func (f *fsFile) Truncate(size int64) error {
	return wrapPathError("truncate", f.name, ErrUnsupportedOperation)
}

// Readdir returns up to count entries, or all remaining ones for
// count <= 0, following the os.File conventions.
func (f *fsFile) Readdir(count int) ([]os.FileInfo, error) {
	if f.file != nil {
		return nil, &fs.PathError{Op: "readdir", Path: f.name, Err: syscall.ENOTDIR}
	}
	if !f.read {
		entries, err := f.fsys.client.ListDirPlus(f.name)
		if err != nil {
			return nil, osError(err)
		}
		for _, e := range entries {
			f.entries = append(f.entries, e.FileInfo())
		}
		sort.Slice(f.entries, func(i, j int) bool {
			return f.entries[i].Name() < f.entries[j].Name()
		})
		f.read = true
	}

	if count <= 0 {
		out := f.entries
		f.entries = nil
		return out, nil
	}
	if len(f.entries) == 0 {
		return nil, io.EOF
	}
	n := min(count, len(f.entries))
	out := f.entries[:n:n]
	f.entries = f.entries[n:]
	return out, nil
}

func (f *fsFile) Readdirnames(n int) ([]string, error) {
	infos, err := f.Readdir(n)
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}
	return names, err
}

// FileInfo presents a ListDirPlus entry as an fs.FileInfo.
func (d DirentInfo) FileInfo() fs.FileInfo {
	return direntFileInfo{d}
}

type direntFileInfo struct {
	d DirentInfo
}

func (fi direntFileInfo) Name() string       { return fi.d.Name }
func (fi direntFileInfo) Size() int64        { return int64(fi.d.Size) }
func (fi direntFileInfo) Mode() fs.FileMode  { return fi.d.Attrs.FileMode() }
func (fi direntFileInfo) ModTime() time.Time { return fi.d.ModTime }
func (fi direntFileInfo) IsDir() bool        { return fi.d.IsDir() }
func (fi direntFileInfo) Sys() any           { return fi.d }
