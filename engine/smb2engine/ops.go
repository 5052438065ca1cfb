package smb2engine

import (
	"context"
	"errors"
	"hash/fnv"
	"io"
	"io/fs"
	neturl "net/url"
	"os"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hirochachacha/go-smb2"

	"github.com/absfs/smbclient/engine"
)

// SMB file attribute bits reported by readdirplus.
const (
	attrReadOnly     uint32 = 0x0001
	attrDirectory    uint32 = 0x0010
	attrArchive      uint32 = 0x0020
	attrReparsePoint uint32 = 0x0400
)

// handle is the state behind an engine.File. Exactly one of file and
// entries is in use.
type handle struct {
	url   string
	share Share
	file  File

	dir     bool
	entries []dirEntry
	pos     int
}

type dirEntry struct {
	name    string
	typ     uint32
	comment string
	info    fs.FileInfo // nil for shares and the dot entries
}

func (c *Context) register(h *handle) *engine.File {
	fd := c.nextFD
	c.nextFD++
	c.handles[fd] = h
	return engine.NewFile(fd, h)
}

func (c *Context) lookup(f *engine.File, dir bool) (int64, *handle, error) {
	if f == nil || f.Handle() < 0 {
		return 0, nil, syscall.EBADF
	}
	h, ok := c.handles[f.Handle()]
	if !ok || h.dir != dir {
		return 0, nil, syscall.EBADF
	}
	return f.Handle(), h, nil
}

// share returns u's share bound to the call timeout.
func (c *Context) share(u smbURL) (Share, context.CancelFunc, error) {
	sh, err := c.mount(u)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := c.opContext()
	return sh.WithContext(ctx), cancel, nil
}

// checkCase fails with ENOENT when case-sensitive matching is on and the
// entry only exists under a different case.
func (c *Context) checkCase(sh Share, u smbURL) error {
	if !c.enabled(engine.OptionCaseSensitive) || u.path == "" {
		return nil
	}
	infos, err := sh.ReadDir(toSMBPath(path.Dir(u.path)))
	if err != nil {
		return nil
	}
	want := path.Base(u.path)
	folded := false
	for _, fi := range infos {
		if fi.Name() == want {
			return nil
		}
		if strings.EqualFold(fi.Name(), want) {
			folded = true
		}
	}
	if folded {
		return syscall.ENOENT
	}
	return nil
}

func open(ctx engine.Context, url string, flags int, mode uint32) *engine.File {
	c := contextOf(ctx)
	if c == nil {
		return nil
	}
	c.errno = 0

	u := parseURL(url)
	if u.path == "" {
		c.fail("open", url, syscall.EISDIR)
		return nil
	}
	sh, err := c.mount(u)
	if err != nil {
		c.fail("open", url, err)
		return nil
	}
	if err := c.checkCase(sh, u); err != nil {
		c.fail("open", url, err)
		return nil
	}

	// Files outlive the call, so they are opened on the unbound share.
	f, err := sh.OpenFile(u.smbPath(), flags, fs.FileMode(mode&0o777))
	if err != nil {
		c.fail("open", url, err)
		return nil
	}
	if flags&os.O_APPEND != 0 {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			c.fail("open", url, err)
			return nil
		}
	}
	return c.register(&handle{url: url, share: sh, file: f})
}

func read(ctx engine.Context, f *engine.File, buf []byte) int {
	c := contextOf(ctx)
	if c == nil {
		return -1
	}
	c.errno = 0

	_, h, err := c.lookup(f, false)
	if err != nil {
		c.fail("read", "", err)
		return -1
	}
	n, err := h.file.Read(buf)
	if n > 0 {
		return n
	}
	if err == nil || errors.Is(err, io.EOF) {
		return 0
	}
	c.fail("read", h.url, err)
	return -1
}

func write(ctx engine.Context, f *engine.File, buf []byte) int {
	c := contextOf(ctx)
	if c == nil {
		return -1
	}
	c.errno = 0

	_, h, err := c.lookup(f, false)
	if err != nil {
		c.fail("write", "", err)
		return -1
	}
	n, err := h.file.Write(buf)
	if err != nil {
		c.fail("write", h.url, err)
		return -1
	}
	return n
}

func lseek(ctx engine.Context, f *engine.File, offset int64, whence int) int64 {
	c := contextOf(ctx)
	if c == nil {
		return -1
	}
	c.errno = 0

	_, h, err := c.lookup(f, false)
	if err != nil {
		c.fail("lseek", "", err)
		return -1
	}
	pos, err := h.file.Seek(offset, whence)
	if err != nil {
		c.fail("lseek", h.url, err)
		return -1
	}
	return pos
}

func closeFile(ctx engine.Context, f *engine.File) int {
	c := contextOf(ctx)
	if c == nil {
		return -1
	}
	c.errno = 0

	fd, h, err := c.lookup(f, false)
	if err != nil {
		c.fail("close", "", err)
		return -1
	}
	delete(c.handles, fd)
	if err := h.file.Close(); err != nil {
		c.fail("close", h.url, err)
		return -1
	}
	return 0
}

func opendir(ctx engine.Context, url string) *engine.File {
	c := contextOf(ctx)
	if c == nil {
		return nil
	}
	c.errno = 0

	u := parseURL(url)
	var (
		entries []dirEntry
		sh      Share
		err     error
	)
	switch {
	case u.host == "":
		// workgroup and server browsing needs NetBIOS
		err = syscall.EOPNOTSUPP
	case u.share == "":
		entries, err = c.listShares(u)
	default:
		sh, entries, err = c.listDir(u)
	}
	if err != nil {
		c.fail("opendir", url, err)
		return nil
	}

	dots := []dirEntry{{name: ".", typ: engine.TypeDir}, {name: "..", typ: engine.TypeDir}}
	return c.register(&handle{
		url:     url,
		share:   sh,
		dir:     true,
		entries: append(dots, entries...),
	})
}

func (c *Context) listShares(u smbURL) ([]dirEntry, error) {
	srv, err := c.connect(u)
	if err != nil {
		return nil, err
	}
	names, err := srv.session.ListSharenames()
	if err != nil {
		return nil, err
	}
	entries := make([]dirEntry, 0, len(names))
	for _, name := range names {
		typ := engine.TypeFileShare
		if strings.EqualFold(name, "IPC$") {
			typ = engine.TypeIPCShare
		}
		entries = append(entries, dirEntry{name: name, typ: typ})
	}
	return entries, nil
}

func (c *Context) listDir(u smbURL) (Share, []dirEntry, error) {
	sh, cancel, err := c.share(u)
	if err != nil {
		return nil, nil, err
	}
	defer cancel()

	infos, err := sh.ReadDir(u.smbPath())
	if err != nil {
		return nil, nil, err
	}
	entries := make([]dirEntry, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, dirEntry{name: fi.Name(), typ: direntType(fi), info: fi})
	}
	return sh, entries, nil
}

func direntType(fi fs.FileInfo) uint32 {
	if st, ok := fi.(*smb2.FileStat); ok && st.FileAttributes&attrReparsePoint != 0 {
		return engine.TypeLink
	}
	switch {
	case fi.Mode()&fs.ModeSymlink != 0:
		return engine.TypeLink
	case fi.IsDir():
		return engine.TypeDir
	default:
		return engine.TypeFile
	}
}

// next returns the next entry of a directory handle, or nil at the end.
func (c *Context) next(op string, dir *engine.File) *dirEntry {
	_, h, err := c.lookup(dir, true)
	if err != nil {
		c.fail(op, "", err)
		return nil
	}
	if h.pos >= len(h.entries) {
		return nil
	}
	e := &h.entries[h.pos]
	h.pos++
	return e
}

func (c *Context) entryName(name string) []byte {
	if c.enabled(engine.OptionURLEncodeReaddirEntries) {
		name = neturl.PathEscape(name)
	}
	return []byte(name)
}

func readdir(ctx engine.Context, dir *engine.File) *engine.Dirent {
	c := contextOf(ctx)
	if c == nil {
		return nil
	}
	c.errno = 0

	e := c.next("readdir", dir)
	if e == nil {
		return nil
	}
	return &engine.Dirent{
		Type:    e.typ,
		Comment: []byte(e.comment),
		Name:    c.entryName(e.name),
	}
}

func readdirplus(ctx engine.Context, dir *engine.File) *engine.DirentPlus {
	c := contextOf(ctx)
	if c == nil {
		return nil
	}
	c.errno = 0

	e := c.next("readdirplus", dir)
	if e == nil {
		return nil
	}
	d := &engine.DirentPlus{Name: c.entryName(e.name)}
	if e.info == nil {
		d.Attrs = attrDirectory
		return d
	}

	d.Size = uint64(max(e.info.Size(), 0))
	if st, ok := e.info.(*smb2.FileStat); ok {
		d.Attrs = st.FileAttributes
		d.BirthTime = engine.NewTimespec(st.CreationTime)
		d.ModifyTime = engine.NewTimespec(st.LastWriteTime)
		d.AccessTime = engine.NewTimespec(st.LastAccessTime)
		d.ChangeTime = engine.NewTimespec(st.ChangeTime)
		return d
	}
	d.Attrs = attrsFromMode(e.info.Mode())
	mtime := engine.NewTimespec(e.info.ModTime())
	d.ModifyTime, d.AccessTime, d.ChangeTime = mtime, mtime, mtime
	return d
}

func attrsFromMode(m fs.FileMode) uint32 {
	var a uint32
	if m.IsDir() {
		a |= attrDirectory
	} else {
		a |= attrArchive
	}
	if m&0o222 == 0 {
		a |= attrReadOnly
	}
	if m&fs.ModeSymlink != 0 {
		a |= attrReparsePoint
	}
	return a
}

func closedir(ctx engine.Context, dir *engine.File) int {
	c := contextOf(ctx)
	if c == nil {
		return -1
	}
	c.errno = 0

	fd, _, err := c.lookup(dir, true)
	if err != nil {
		c.fail("closedir", "", err)
		return -1
	}
	delete(c.handles, fd)
	return 0
}

func stat(ctx engine.Context, url string, st *engine.Stat) int {
	c := contextOf(ctx)
	if c == nil {
		return -1
	}
	c.errno = 0

	u := parseURL(url)
	if u.share == "" {
		if u.host != "" {
			if _, err := c.connect(u); err != nil {
				c.fail("stat", url, err)
				return -1
			}
		}
		*st = engine.Stat{Mode: engine.ModeDir | 0o555, Nlink: 1, Ino: inode(u), Blksize: 512}
		return 0
	}

	sh, cancel, err := c.share(u)
	if err != nil {
		c.fail("stat", url, err)
		return -1
	}
	defer cancel()

	if err := c.checkCase(sh, u); err != nil {
		c.fail("stat", url, err)
		return -1
	}
	fi, err := sh.Stat(u.smbPath())
	if err != nil {
		c.fail("stat", url, err)
		return -1
	}
	fillStat(st, u, fi)
	return 0
}

func fillStat(st *engine.Stat, u smbURL, fi fs.FileInfo) {
	*st = engine.Stat{
		Ino:     inode(u),
		Nlink:   1,
		Size:    fi.Size(),
		Blksize: 512,
		Blocks:  (fi.Size() + 511) / 512,
	}

	perm := uint32(fi.Mode().Perm())
	switch {
	case fi.Mode()&fs.ModeSymlink != 0:
		st.Mode = engine.ModeSymlink | perm
	case fi.IsDir():
		st.Mode = engine.ModeDir | perm
	default:
		st.Mode = engine.ModeRegular | perm
	}

	if s, ok := fi.(*smb2.FileStat); ok {
		st.Blocks = (s.AllocationSize + 511) / 512
		st.Atim = engine.NewTimespec(s.LastAccessTime)
		st.Mtim = engine.NewTimespec(s.LastWriteTime)
		st.Ctim = engine.NewTimespec(s.ChangeTime)
		return
	}
	mtime := engine.NewTimespec(fi.ModTime())
	st.Atim, st.Mtim, st.Ctim = mtime, mtime, mtime
}

// inode derives a stable inode number from the URL; SMB2 file ids are not
// exposed by go-smb2.
func inode(u smbURL) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(u.host + "/" + u.share + "/" + u.path)))
	return h.Sum64()
}

func statvfs(ctx engine.Context, url string, st *engine.StatVFS) int {
	c := contextOf(ctx)
	if c == nil {
		return -1
	}
	c.errno = 0

	u := parseURL(url)
	sh, cancel, err := c.share(u)
	if err != nil {
		c.fail("statvfs", url, err)
		return -1
	}
	defer cancel()

	info, err := sh.Statfs(u.smbPath())
	if err != nil {
		c.fail("statvfs", url, err)
		return -1
	}
	*st = engine.StatVFS{
		Bsize:   info.BlockSize(),
		Frsize:  info.FragmentSize(),
		Blocks:  info.TotalBlockCount(),
		Bfree:   info.FreeBlockCount(),
		Bavail:  info.AvailableBlockCount(),
		Fsid:    inode(smbURL{host: u.host, share: u.share}),
		Namemax: 255,
	}
	return 0
}

// pathOp runs fn against the share of url with the call timeout applied.
func pathOp(ctx engine.Context, op, url string, fn func(c *Context, sh Share, u smbURL) error) int {
	c := contextOf(ctx)
	if c == nil {
		return -1
	}
	c.errno = 0

	u := parseURL(url)
	sh, cancel, err := c.share(u)
	if err != nil {
		c.fail(op, url, err)
		return -1
	}
	defer cancel()

	if err := fn(c, sh, u); err != nil {
		c.fail(op, url, err)
		return -1
	}
	return 0
}

func mkdir(ctx engine.Context, url string, mode uint32) int {
	return pathOp(ctx, "mkdir", url, func(_ *Context, sh Share, u smbURL) error {
		if u.path == "" {
			return syscall.EEXIST
		}
		return sh.Mkdir(u.smbPath(), fs.FileMode(mode&0o777))
	})
}

func rmdir(ctx engine.Context, url string) int {
	return pathOp(ctx, "rmdir", url, func(c *Context, sh Share, u smbURL) error {
		if u.path == "" {
			return syscall.EINVAL
		}
		fi, err := sh.Stat(u.smbPath())
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return syscall.ENOTDIR
		}
		return sh.Remove(u.smbPath())
	})
}

func unlink(ctx engine.Context, url string) int {
	return pathOp(ctx, "unlink", url, func(c *Context, sh Share, u smbURL) error {
		if u.path == "" {
			return syscall.EISDIR
		}
		if err := c.checkCase(sh, u); err != nil {
			return err
		}
		fi, err := sh.Stat(u.smbPath())
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return syscall.EISDIR
		}
		return sh.Remove(u.smbPath())
	})
}

func rename(octx engine.Context, oldURL string, nctx engine.Context, newURL string) int {
	c := contextOf(octx)
	if c == nil {
		return -1
	}
	c.errno = 0

	ou, nu := parseURL(oldURL), parseURL(newURL)
	if contextOf(nctx) != c || !ou.sameShare(nu) {
		c.fail("rename", oldURL, syscall.EXDEV)
		return -1
	}
	return pathOp(octx, "rename", oldURL, func(_ *Context, sh Share, u smbURL) error {
		if u.path == "" || nu.path == "" {
			return syscall.EINVAL
		}
		return sh.Rename(u.smbPath(), nu.smbPath())
	})
}

func chmod(ctx engine.Context, url string, mode uint32) int {
	return pathOp(ctx, "chmod", url, func(_ *Context, sh Share, u smbURL) error {
		return sh.Chmod(u.smbPath(), fs.FileMode(mode&0o777))
	})
}

func utimes(ctx engine.Context, url string, atime, mtime engine.Timespec) int {
	return pathOp(ctx, "utimes", url, func(_ *Context, sh Share, u smbURL) error {
		now := time.Now()
		a, m := atime.Time(), mtime.Time()
		if a.IsZero() {
			a = now
		}
		if m.IsZero() {
			m = now
		}
		return sh.Chtimes(u.smbPath(), a, m)
	})
}

// printFile spools the file at url into a uniquely named job file in the
// printQueue directory of pctx.
func printFile(ctx engine.Context, url string, pctx engine.Context, printQueue string) int {
	c := contextOf(ctx)
	if c == nil {
		return -1
	}
	c.errno = 0

	pc := contextOf(pctx)
	if pc == nil {
		c.fail("printfile", url, syscall.EINVAL)
		return -1
	}

	u := parseURL(url)
	src, err := c.mount(u)
	if err != nil {
		c.fail("printfile", url, err)
		return -1
	}
	in, err := src.OpenFile(u.smbPath(), os.O_RDONLY, 0)
	if err != nil {
		c.fail("printfile", url, err)
		return -1
	}
	defer in.Close()

	q := parseURL(printQueue)
	dst, err := pc.mount(q)
	if err != nil {
		c.fail("printfile", printQueue, err)
		return -1
	}
	job := path.Join(q.path, "job-"+uuid.NewString())
	out, err := dst.OpenFile(toSMBPath(job), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		c.fail("printfile", printQueue, err)
		return -1
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		c.fail("printfile", printQueue, err)
		return -1
	}
	if err := out.Close(); err != nil {
		c.fail("printfile", printQueue, err)
		return -1
	}
	return 0
}
