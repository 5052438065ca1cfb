package smb2engine

import (
	"context"
	"io/fs"
	"time"
)

// Session abstracts an authenticated SMB session.
// The real implementation wraps *smb2.Session.
type Session interface {
	// Mount connects to a share.
	Mount(shareName string) (Share, error)
	// ListSharenames returns the names of the shares on the server.
	ListSharenames() ([]string, error)
	// Logoff ends the session and closes the connection.
	Logoff() error
}

// Share abstracts a mounted share.
// The real implementation wraps *smb2.Share.
type Share interface {
	// WithContext returns a view of the share whose calls are bound to ctx.
	WithContext(ctx context.Context) Share

	OpenFile(name string, flag int, perm fs.FileMode) (File, error)
	Stat(name string) (fs.FileInfo, error)
	Statfs(name string) (FsInfo, error)
	ReadDir(name string) ([]fs.FileInfo, error)
	Mkdir(name string, perm fs.FileMode) error
	Remove(name string) error
	Rename(oldname, newname string) error
	Chmod(name string, mode fs.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error
	Umount() error
}

// File abstracts an open file.
// The real implementation wraps *smb2.File.
type File interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Seek(offset int64, whence int) (int64, error)
	Stat() (fs.FileInfo, error)
	Close() error
}

// FsInfo describes the volume holding a share. It has the method set of
// smb2.FileFsInfo.
type FsInfo interface {
	BlockSize() uint64
	FragmentSize() uint64
	TotalBlockCount() uint64
	FreeBlockCount() uint64
	AvailableBlockCount() uint64
}

// DialParams are the resolved settings for one connection.
type DialParams struct {
	Addr        string // host:port
	User        string
	Password    string
	Domain      string
	Workstation string

	// RequireSigning makes the negotiator insist on signed messages.
	RequireSigning bool

	// Timeout bounds the TCP connect.
	Timeout time.Duration
}

// ConnectionFactory establishes sessions. Tests replace the network
// implementation with an in-memory one.
type ConnectionFactory interface {
	Connect(ctx context.Context, params DialParams) (Session, error)
}
