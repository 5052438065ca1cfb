package smbclient

import (
	"io"
	"io/fs"
	"time"

	"github.com/absfs/smbclient/engine"
)

// File is an open file on the client's share.
//
// Every Read, Write and Seek is exactly one engine call; there is no
// buffering. A File is only usable while its client is open: closing the
// client closes the file.
type File struct {
	client *Client
	fd     *engine.File // nil once closed; guarded by client.mu
	path   string
	opts   OpenOptions
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.path
}

// descriptor returns the open descriptor or ErrClosed. Must be called with
// the client lock held.
func (f *File) descriptor() (*engine.File, error) {
	if f.fd == nil {
		return nil, ErrClosed
	}
	return f.fd, nil
}

// Read reads up to len(p) bytes into p. At end of file it returns 0, io.EOF.
func (f *File) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var n int
	err := f.client.call("read", func(ctx engine.Context) error {
		fd, err := f.descriptor()
		if err != nil {
			return err
		}
		read, err := resolve[engine.ReadFunc](ctx, engine.OpRead)
		if err != nil {
			return err
		}
		rc := read(ctx, fd, p)
		if rc < 0 {
			return lastError(ctx)
		}
		n = rc
		return nil
	})
	if err != nil {
		return 0, wrapPathError("read", f.path, err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write writes p in a single engine call. A short count is reported as
// io.ErrShortWrite.
func (f *File) Write(p []byte) (int, error) {
	var n int
	err := f.client.call("write", func(ctx engine.Context) error {
		fd, err := f.descriptor()
		if err != nil {
			return err
		}
		write, err := resolve[engine.WriteFunc](ctx, engine.OpWrite)
		if err != nil {
			return err
		}
		rc := write(ctx, fd, p)
		if rc < 0 {
			return lastError(ctx)
		}
		n = rc
		return nil
	})
	if err != nil {
		return 0, wrapPathError("write", f.path, err)
	}
	if n < len(p) {
		return n, wrapPathError("write", f.path, io.ErrShortWrite)
	}
	return n, nil
}

// WriteString is like Write, but writes the contents of string s.
func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

// Seek sets the offset for the next Read or Write.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	err := f.client.call("lseek", func(ctx engine.Context) error {
		fd, err := f.descriptor()
		if err != nil {
			return err
		}
		lseek, err := resolve[engine.LseekFunc](ctx, engine.OpLseek)
		if err != nil {
			return err
		}
		pos = lseek(ctx, fd, offset, whence)
		if pos < 0 {
			return lastError(ctx)
		}
		return nil
	})
	if err != nil {
		return 0, wrapPathError("seek", f.path, err)
	}
	return pos, nil
}

// Stat returns the metadata of the file.
func (f *File) Stat() (fs.FileInfo, error) {
	meta, err := f.client.Stat(f.path)
	if err != nil {
		return nil, err
	}
	return meta.FileInfo(f.path), nil
}

// Close closes the file. Only the first call reaches the engine; later
// calls return nil.
func (f *File) Close() error {
	c := f.client
	c.mu.Lock()
	defer c.mu.Unlock()

	if f.fd == nil || c.handle == nil {
		return nil
	}
	start := time.Now()
	err := f.closeLocked(c.handle.ctx)
	c.metrics.observe("close", start, err)
	return wrapPathError("close", f.path, err)
}

// closeLocked releases the descriptor. The file counts as closed even if
// the engine reports an error, so the descriptor is never closed twice.
func (f *File) closeLocked(ctx engine.Context) error {
	fd := f.fd
	f.fd = nil
	delete(f.client.files, f)

	closeFn, err := resolve[engine.CloseFunc](ctx, engine.OpClose)
	if err != nil {
		return err
	}
	return checkResult(ctx, closeFn(ctx, fd))
}
