// Package smbtest provides in-memory doubles for testing code built on
// smbclient: a Backend that plays the SMB server behind the go-smb2
// engine, and a FaultEngine that wraps any engine and breaks it in
// controlled ways.
package smbtest

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hirochachacha/go-smb2"

	"github.com/absfs/smbclient/engine/smb2engine"
)

// DefaultShare is the share every new Backend exports.
const DefaultShare = "testshare"

// NTSTATUS codes returned by the backend.
const (
	StatusAccessDenied      uint32 = 0xC0000022
	StatusLogonFailure      uint32 = 0xC000006D
	StatusBadNetworkName    uint32 = 0xC00000CC
	StatusNameCollision     uint32 = 0xC0000035
	StatusDirectoryNotEmpty uint32 = 0xC0000101
	StatusNotADirectory     uint32 = 0xC0000103
	StatusFileIsADirectory  uint32 = 0xC00000BA
)

const (
	attrReadOnly  uint32 = 0x0001
	attrDirectory uint32 = 0x0010
	attrArchive   uint32 = 0x0020
)

// Backend is an in-memory SMB server. It implements
// smb2engine.ConnectionFactory, keeps one tree per share and records every
// operation for verification.
//
// Paths are matched case-insensitively and stored with their original
// case, as on a Windows server.
type Backend struct {
	mu sync.RWMutex

	shares map[string]*shareData // lower-cased share name
	users  map[string]string     // user -> password; empty accepts anyone
	volume volume

	errorOnPath map[string]error
	errorOnOp   map[string]error

	openFiles int

	// operation tracking (separate mutex to avoid lock contention)
	opMu       sync.Mutex
	operations []Operation
	logins     []smb2engine.DialParams
}

type shareData struct {
	name  string
	files map[string]*node // lower-cased clean path, "/" for the root
}

type node struct {
	name     string
	content  []byte
	attrs    uint32
	created  time.Time
	accessed time.Time
	modified time.Time
	changed  time.Time
}

func (n *node) isDir() bool {
	return n.attrs&attrDirectory != 0
}

func (n *node) stat() *smb2.FileStat {
	size := int64(len(n.content))
	return &smb2.FileStat{
		CreationTime:   n.created,
		LastAccessTime: n.accessed,
		LastWriteTime:  n.modified,
		ChangeTime:     n.changed,
		EndOfFile:      size,
		AllocationSize: (size + 4095) &^ 4095,
		FileAttributes: n.attrs,
		FileName:       n.name,
	}
}

func (n *node) touch() {
	now := time.Now()
	n.modified = now
	n.changed = now
}

// Operation records an operation performed on the backend.
type Operation struct {
	Op    string
	Share string
	Path  string
	Args  []any
	Time  time.Time
}

type volume struct {
	blockSize, total, free, avail uint64
}

func (v volume) BlockSize() uint64           { return v.blockSize }
func (v volume) FragmentSize() uint64        { return v.blockSize }
func (v volume) TotalBlockCount() uint64     { return v.total }
func (v volume) FreeBlockCount() uint64      { return v.free }
func (v volume) AvailableBlockCount() uint64 { return v.avail }

// NewBackend creates a backend exporting DefaultShare.
func NewBackend() *Backend {
	b := &Backend{
		shares:      make(map[string]*shareData),
		users:       make(map[string]string),
		volume:      volume{blockSize: 4096, total: 1 << 20, free: 1 << 19, avail: 1 << 19},
		errorOnPath: make(map[string]error),
		errorOnOp:   make(map[string]error),
	}
	b.AddShare(DefaultShare)
	return b
}

// AddShare exports an empty share.
func (b *Backend) AddShare(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := b.shares[key]; ok {
		return
	}
	now := time.Now()
	b.shares[key] = &shareData{
		name: name,
		files: map[string]*node{
			"/": {name: name, attrs: attrDirectory, created: now, accessed: now, modified: now, changed: now},
		},
	}
}

// AddUser restricts logins to the registered users.
func (b *Backend) AddUser(user, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[user] = password
}

// SetVolume sets what statvfs reports for every share.
func (b *Backend) SetVolume(blockSize, total, free, avail uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.volume = volume{blockSize: blockSize, total: total, free: free, avail: avail}
}

// AddFile adds a file, creating missing parent directories.
func (b *Backend) AddFile(share, p string, content []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sd := b.mustShare(share)
	p = normalizePath(p)
	now := time.Now()
	sd.files[key(p)] = &node{
		name:     path.Base(p),
		content:  append([]byte(nil), content...),
		attrs:    attrArchive,
		created:  now,
		accessed: now,
		modified: now,
		changed:  now,
	}
	sd.ensureParentDirs(p)
}

// AddDir adds a directory, creating missing parent directories.
func (b *Backend) AddDir(share, p string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sd := b.mustShare(share)
	p = normalizePath(p)
	sd.files[key(p)] = newDir(path.Base(p))
	sd.ensureParentDirs(p)
}

// SetAttributes overwrites the SMB attribute bits of an existing entry.
func (b *Backend) SetAttributes(share, p string, attrs uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n, ok := b.mustShare(share).files[key(normalizePath(p))]; ok {
		n.attrs = attrs
	}
}

func (b *Backend) mustShare(name string) *shareData {
	sd, ok := b.shares[strings.ToLower(name)]
	if !ok {
		panic("smbtest: unknown share " + name)
	}
	return sd
}

// SetError makes every operation on p fail with err.
func (b *Backend) SetError(p string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errorOnPath[key(normalizePath(p))] = err
}

// SetOperationError makes every operation of the given kind fail with err.
// Kinds are the names recorded in Operations: connect, mount, listshares,
// open, read, write, stat, statfs, readdir, mkdir, remove, rename, chmod,
// chtimes.
func (b *Backend) SetOperationError(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errorOnOp[op] = err
}

// ClearErrors removes all injected errors.
func (b *Backend) ClearErrors() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errorOnPath = make(map[string]error)
	b.errorOnOp = make(map[string]error)
}

// Operations returns the recorded operations.
func (b *Backend) Operations() []Operation {
	b.opMu.Lock()
	defer b.opMu.Unlock()
	ops := make([]Operation, len(b.operations))
	copy(ops, b.operations)
	return ops
}

// CountOperations returns how many operations of kind op were recorded.
func (b *Backend) CountOperations(op string) int {
	b.opMu.Lock()
	defer b.opMu.Unlock()
	n := 0
	for _, o := range b.operations {
		if o.Op == op {
			n++
		}
	}
	return n
}

// ClearOperations clears the operation history.
func (b *Backend) ClearOperations() {
	b.opMu.Lock()
	defer b.opMu.Unlock()
	b.operations = nil
}

// Logins returns the parameters of every successful session setup.
func (b *Backend) Logins() []smb2engine.DialParams {
	b.opMu.Lock()
	defer b.opMu.Unlock()
	return append([]smb2engine.DialParams(nil), b.logins...)
}

// OpenFiles returns the number of files opened and not yet closed.
func (b *Backend) OpenFiles() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.openFiles
}

// File returns the content of a file.
func (b *Backend) File(share, p string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n, ok := b.mustShare(share).files[key(normalizePath(p))]
	if !ok || n.isDir() {
		return nil, false
	}
	return append([]byte(nil), n.content...), true
}

// Exists reports whether p exists on share.
func (b *Backend) Exists(share, p string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.mustShare(share).files[key(normalizePath(p))]
	return ok
}

// Names lists the entries of directory p on share, sorted.
func (b *Backend) Names(share, p string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var names []string
	for _, n := range b.mustShare(share).children(normalizePath(p)) {
		names = append(names, n.name)
	}
	return names
}

func (b *Backend) recordOp(op, share, p string, args ...any) {
	b.opMu.Lock()
	defer b.opMu.Unlock()
	b.operations = append(b.operations, Operation{
		Op:    op,
		Share: share,
		Path:  p,
		Args:  args,
		Time:  time.Now(),
	})
}

// checkError returns the injected error for op or p. Callers hold mu.
func (b *Backend) checkError(op, p string) error {
	if err, ok := b.errorOnOp[op]; ok {
		return err
	}
	if err, ok := b.errorOnPath[key(p)]; ok {
		return err
	}
	return nil
}

// Connect implements smb2engine.ConnectionFactory.
func (b *Backend) Connect(ctx context.Context, params smb2engine.DialParams) (smb2engine.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	err := b.checkError("connect", "")
	if err == nil && len(b.users) > 0 {
		if pw, ok := b.users[params.User]; !ok || pw != params.Password {
			err = &smb2.ResponseError{Code: StatusLogonFailure}
		}
	}
	b.mu.RUnlock()

	b.recordOp("connect", "", "", params.User, params.Domain)
	if err != nil {
		return nil, err
	}

	b.opMu.Lock()
	b.logins = append(b.logins, params)
	b.opMu.Unlock()

	return &session{backend: b}, nil
}

// session implements smb2engine.Session.
type session struct {
	backend   *Backend
	mu        sync.Mutex
	loggedOff bool
}

var errLoggedOff = errors.New("smbtest: session logged off")

func (s *session) Mount(shareName string) (smb2engine.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loggedOff {
		return nil, errLoggedOff
	}

	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkError("mount", ""); err != nil {
		return nil, err
	}
	sd, ok := b.shares[strings.ToLower(shareName)]
	if !ok {
		return nil, &smb2.ResponseError{Code: StatusBadNetworkName}
	}
	b.recordOp("mount", sd.name, "")
	return &share{
		backend:   b,
		data:      sd,
		ctx:       context.Background(),
		mu:        new(sync.Mutex),
		unmounted: new(bool),
	}, nil
}

func (s *session) ListSharenames() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loggedOff {
		return nil, errLoggedOff
	}

	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkError("listshares", ""); err != nil {
		return nil, err
	}
	b.recordOp("listshares", "", "")

	names := []string{"IPC$"}
	for _, sd := range b.shares {
		names = append(names, sd.name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *session) Logoff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loggedOff {
		return nil
	}
	s.loggedOff = true
	s.backend.recordOp("logoff", "", "")
	return nil
}

// share implements smb2engine.Share.
type share struct {
	backend *Backend
	data    *shareData
	ctx     context.Context

	// shared with WithContext views
	mu        *sync.Mutex
	unmounted *bool
}

func (sh *share) WithContext(ctx context.Context) smb2engine.Share {
	view := *sh
	view.ctx = ctx
	return &view
}

// begin checks the share is usable and the call is not canceled.
func (sh *share) begin(op, p string) error {
	sh.mu.Lock()
	gone := *sh.unmounted
	sh.mu.Unlock()
	if gone {
		return &fs.PathError{Op: op, Path: p, Err: fs.ErrClosed}
	}
	if err := sh.ctx.Err(); err != nil {
		return &fs.PathError{Op: op, Path: p, Err: err}
	}
	return sh.backend.checkError(op, p)
}

func (sh *share) OpenFile(name string, flag int, perm fs.FileMode) (smb2engine.File, error) {
	b := sh.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	name = normalizePath(name)
	if err := sh.begin("open", name); err != nil {
		return nil, err
	}
	b.recordOp("open", sh.data.name, name, flag, perm)

	n, exists := sh.data.files[key(name)]
	if exists && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrExist}
	}
	if !exists {
		if flag&os.O_CREATE == 0 {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		parent, ok := sh.data.files[key(path.Dir(name))]
		if !ok {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		if !parent.isDir() {
			return nil, &smb2.ResponseError{Code: StatusNotADirectory}
		}
		now := time.Now()
		n = &node{name: path.Base(name), attrs: attrArchive, created: now, accessed: now, modified: now, changed: now}
		if perm&0o200 == 0 {
			n.attrs |= attrReadOnly
		}
		sh.data.files[key(name)] = n
	}

	writable := flag&(os.O_WRONLY|os.O_RDWR) != 0
	if n.isDir() && writable {
		return nil, &smb2.ResponseError{Code: StatusFileIsADirectory}
	}
	if writable && exists && n.attrs&attrReadOnly != 0 {
		return nil, &smb2.ResponseError{Code: StatusAccessDenied}
	}
	if flag&os.O_TRUNC != 0 && writable && !n.isDir() {
		n.content = nil
		n.touch()
	}

	b.openFiles++
	return &file{backend: b, share: sh.data.name, path: name, data: n, flag: flag}, nil
}

func (sh *share) Stat(name string) (fs.FileInfo, error) {
	b := sh.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	name = normalizePath(name)
	if err := sh.begin("stat", name); err != nil {
		return nil, err
	}
	b.recordOp("stat", sh.data.name, name)

	n, ok := sh.data.files[key(name)]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return n.stat(), nil
}

func (sh *share) Statfs(name string) (smb2engine.FsInfo, error) {
	b := sh.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	name = normalizePath(name)
	if err := sh.begin("statfs", name); err != nil {
		return nil, err
	}
	b.recordOp("statfs", sh.data.name, name)

	if _, ok := sh.data.files[key(name)]; !ok {
		return nil, &fs.PathError{Op: "statfs", Path: name, Err: fs.ErrNotExist}
	}
	return b.volume, nil
}

func (sh *share) ReadDir(name string) ([]fs.FileInfo, error) {
	b := sh.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	name = normalizePath(name)
	if err := sh.begin("readdir", name); err != nil {
		return nil, err
	}
	b.recordOp("readdir", sh.data.name, name)

	n, ok := sh.data.files[key(name)]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	if !n.isDir() {
		return nil, &smb2.ResponseError{Code: StatusNotADirectory}
	}

	var infos []fs.FileInfo
	for _, child := range sh.data.children(name) {
		infos = append(infos, child.stat())
	}
	return infos, nil
}

func (sh *share) Mkdir(name string, perm fs.FileMode) error {
	b := sh.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	name = normalizePath(name)
	if err := sh.begin("mkdir", name); err != nil {
		return err
	}
	b.recordOp("mkdir", sh.data.name, name, perm)

	if _, ok := sh.data.files[key(name)]; ok {
		return &smb2.ResponseError{Code: StatusNameCollision}
	}
	parent, ok := sh.data.files[key(path.Dir(name))]
	if !ok {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrNotExist}
	}
	if !parent.isDir() {
		return &smb2.ResponseError{Code: StatusNotADirectory}
	}
	sh.data.files[key(name)] = newDir(path.Base(name))
	return nil
}

func (sh *share) Remove(name string) error {
	b := sh.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	name = normalizePath(name)
	if err := sh.begin("remove", name); err != nil {
		return err
	}
	b.recordOp("remove", sh.data.name, name)

	n, ok := sh.data.files[key(name)]
	if !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	if n.isDir() && len(sh.data.children(name)) > 0 {
		return &smb2.ResponseError{Code: StatusDirectoryNotEmpty}
	}
	delete(sh.data.files, key(name))
	return nil
}

func (sh *share) Rename(oldname, newname string) error {
	b := sh.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	oldname = normalizePath(oldname)
	newname = normalizePath(newname)
	if err := sh.begin("rename", oldname); err != nil {
		return err
	}
	b.recordOp("rename", sh.data.name, oldname, newname)

	n, ok := sh.data.files[key(oldname)]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldname, Err: fs.ErrNotExist}
	}
	if _, ok := sh.data.files[key(newname)]; ok {
		return &smb2.ResponseError{Code: StatusNameCollision}
	}
	if _, ok := sh.data.files[key(path.Dir(newname))]; !ok {
		return &fs.PathError{Op: "rename", Path: newname, Err: fs.ErrNotExist}
	}

	oldKey, newKey := key(oldname), key(newname)
	delete(sh.data.files, oldKey)
	n.name = path.Base(newname)
	n.changed = time.Now()
	sh.data.files[newKey] = n

	if n.isDir() {
		moved := make(map[string]*node)
		for k, child := range sh.data.files {
			if strings.HasPrefix(k, oldKey+"/") {
				moved[newKey+strings.TrimPrefix(k, oldKey)] = child
				delete(sh.data.files, k)
			}
		}
		for k, child := range moved {
			sh.data.files[k] = child
		}
	}
	return nil
}

// Chmod only toggles the read-only attribute, as on a real server.
func (sh *share) Chmod(name string, mode fs.FileMode) error {
	b := sh.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	name = normalizePath(name)
	if err := sh.begin("chmod", name); err != nil {
		return err
	}
	b.recordOp("chmod", sh.data.name, name, mode)

	n, ok := sh.data.files[key(name)]
	if !ok {
		return &fs.PathError{Op: "chmod", Path: name, Err: fs.ErrNotExist}
	}
	if mode&0o200 == 0 {
		n.attrs |= attrReadOnly
	} else {
		n.attrs &^= attrReadOnly
	}
	n.changed = time.Now()
	return nil
}

func (sh *share) Chtimes(name string, atime, mtime time.Time) error {
	b := sh.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	name = normalizePath(name)
	if err := sh.begin("chtimes", name); err != nil {
		return err
	}
	b.recordOp("chtimes", sh.data.name, name, atime, mtime)

	n, ok := sh.data.files[key(name)]
	if !ok {
		return &fs.PathError{Op: "chtimes", Path: name, Err: fs.ErrNotExist}
	}
	n.accessed = atime
	n.modified = mtime
	n.changed = time.Now()
	return nil
}

func (sh *share) Umount() error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if *sh.unmounted {
		return nil
	}
	*sh.unmounted = true
	sh.backend.recordOp("umount", sh.data.name, "")
	return nil
}

// file implements smb2engine.File.
type file struct {
	backend *Backend
	share   string
	path    string
	data    *node
	flag    int

	mu     sync.Mutex
	offset int64
	closed bool
}

func (f *file) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, fs.ErrClosed
	}

	b := f.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkError("read", f.path); err != nil {
		return 0, err
	}
	if f.data.isDir() {
		return 0, &smb2.ResponseError{Code: StatusFileIsADirectory}
	}
	if f.offset >= int64(len(f.data.content)) {
		return 0, io.EOF
	}
	n := copy(p, f.data.content[f.offset:])
	f.offset += int64(n)
	return n, nil
}

func (f *file) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, fs.ErrClosed
	}
	if f.flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return 0, &smb2.ResponseError{Code: StatusAccessDenied}
	}

	b := f.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkError("write", f.path); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	end := f.offset + int64(len(p))
	if end > int64(len(f.data.content)) {
		grown := make([]byte, end)
		copy(grown, f.data.content)
		f.data.content = grown
	}
	n := copy(f.data.content[f.offset:], p)
	f.offset += int64(n)
	f.data.touch()
	return n, nil
}

func (f *file) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, fs.ErrClosed
	}

	f.backend.mu.RLock()
	size := int64(len(f.data.content))
	f.backend.mu.RUnlock()

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.offset + offset
	case io.SeekEnd:
		abs = size + offset
	default:
		return 0, fs.ErrInvalid
	}
	if abs < 0 {
		return 0, fs.ErrInvalid
	}
	f.offset = abs
	return abs, nil
}

func (f *file) Stat() (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, fs.ErrClosed
	}

	f.backend.mu.RLock()
	defer f.backend.mu.RUnlock()
	return f.data.stat(), nil
}

func (f *file) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	b := f.backend
	b.mu.Lock()
	b.openFiles--
	b.mu.Unlock()
	b.recordOp("close", f.share, f.path)
	return nil
}

func newDir(name string) *node {
	now := time.Now()
	return &node{name: name, attrs: attrDirectory, created: now, accessed: now, modified: now, changed: now}
}

// ensureParentDirs creates the missing parents of p.
func (sd *shareData) ensureParentDirs(p string) {
	dir := path.Dir(p)
	if dir == p || dir == "/" {
		return
	}
	if _, ok := sd.files[key(dir)]; !ok {
		sd.files[key(dir)] = newDir(path.Base(dir))
		sd.ensureParentDirs(dir)
	}
}

// children returns the direct children of dir sorted by name.
func (sd *shareData) children(dir string) []*node {
	prefix := key(dir)
	if prefix != "/" {
		prefix += "/"
	}

	var nodes []*node
	for k, n := range sd.files {
		if k == "/" || !strings.HasPrefix(k, prefix) {
			continue
		}
		if strings.Contains(strings.TrimPrefix(k, prefix), "/") {
			continue
		}
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].name < nodes[j].name
	})
	return nodes
}

// normalizePath converts an SMB or slash path to a clean absolute slash
// path.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func key(p string) string {
	return strings.ToLower(p)
}
