package engine

import "time"

// File is an engine file or directory descriptor. A nil *File is the null
// descriptor. A non-nil File with a negative handle is also invalid.
type File struct {
	handle int64
	impl   any
}

// NewFile wraps engine-private state in a descriptor.
func NewFile(handle int64, impl any) *File {
	return &File{handle: handle, impl: impl}
}

// Handle returns the descriptor number.
func (f *File) Handle() int64 {
	return f.handle
}

// Impl returns the engine-private state attached by NewFile.
func (f *File) Impl() any {
	return f.impl
}

// Dirent types, numbered as in libsmbclient.
const (
	TypeWorkgroup    uint32 = 1
	TypeServer       uint32 = 2
	TypeFileShare    uint32 = 3
	TypePrinterShare uint32 = 4
	TypeCommsShare   uint32 = 5
	TypeIPCShare     uint32 = 6
	TypeDir          uint32 = 7
	TypeFile         uint32 = 8
	TypeLink         uint32 = 9
)

// Dirent is a raw directory record.
type Dirent struct {
	Type    uint32
	Comment []byte
	Name    []byte
}

// DirentPlus is a raw directory record carrying file metadata.
type DirentPlus struct {
	Name       []byte
	ShortName  []byte
	Size       uint64
	Attrs      uint32
	UID        uint32
	GID        uint32
	BirthTime  Timespec
	ModifyTime Timespec
	AccessTime Timespec
	ChangeTime Timespec
}

// Timespec is a seconds/nanoseconds timestamp.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// NewTimespec converts t. The zero time maps to the zero Timespec.
func NewTimespec(t time.Time) Timespec {
	if t.IsZero() {
		return Timespec{}
	}
	return Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// Time converts ts back to a time.Time.
func (ts Timespec) Time() time.Time {
	if ts.Sec == 0 && ts.Nsec == 0 {
		return time.Time{}
	}
	return time.Unix(ts.Sec, ts.Nsec)
}

// File type bits of Stat.Mode.
const (
	ModeTypeMask uint32 = 0o170000
	ModeDir      uint32 = 0o040000
	ModeRegular  uint32 = 0o100000
	ModeSymlink  uint32 = 0o120000
)

// Stat mirrors struct stat.
type Stat struct {
	Dev     uint64
	Ino     uint64
	Mode    uint32
	Nlink   uint64
	UID     uint32
	GID     uint32
	Rdev    uint64
	Size    int64
	Blksize int64
	Blocks  int64
	Atim    Timespec
	Mtim    Timespec
	Ctim    Timespec
}

// StatVFS mirrors struct statvfs.
type StatVFS struct {
	Bsize   uint64
	Frsize  uint64
	Blocks  uint64
	Bfree   uint64
	Bavail  uint64
	Files   uint64
	Ffree   uint64
	Favail  uint64
	Fsid    uint64
	Flag    uint64
	Namemax uint64
}

// Capability signatures. Integer results are negative on failure, with
// the cause available from Context.Errno.
type (
	OpenFunc        func(ctx Context, url string, flags int, mode uint32) *File
	ReadFunc        func(ctx Context, f *File, buf []byte) int
	WriteFunc       func(ctx Context, f *File, buf []byte) int
	LseekFunc       func(ctx Context, f *File, offset int64, whence int) int64
	CloseFunc       func(ctx Context, f *File) int
	OpendirFunc     func(ctx Context, url string) *File
	ReaddirFunc     func(ctx Context, dir *File) *Dirent
	ReaddirPlusFunc func(ctx Context, dir *File) *DirentPlus
	ClosedirFunc    func(ctx Context, dir *File) int
	StatFunc        func(ctx Context, url string, st *Stat) int
	StatVFSFunc     func(ctx Context, url string, st *StatVFS) int
	MkdirFunc       func(ctx Context, url string, mode uint32) int
	RmdirFunc       func(ctx Context, url string) int
	UnlinkFunc      func(ctx Context, url string) int
	RenameFunc      func(octx Context, oldURL string, nctx Context, newURL string) int
	ChmodFunc       func(ctx Context, url string, mode uint32) int
	UtimesFunc      func(ctx Context, url string, atime, mtime Timespec) int
	PrintFileFunc   func(ctx Context, url string, pctx Context, printQueue string) int
)
