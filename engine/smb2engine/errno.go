package smb2engine

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"os"
	"syscall"

	"github.com/hirochachacha/go-smb2"
)

// NTSTATUS codes with a direct errno equivalent.
var ntStatusErrno = map[uint32]syscall.Errno{
	0xC0000022: syscall.EACCES,     // STATUS_ACCESS_DENIED
	0xC000006D: syscall.EACCES,     // STATUS_LOGON_FAILURE
	0xC000006E: syscall.EACCES,     // STATUS_ACCOUNT_RESTRICTION
	0xC0000072: syscall.EACCES,     // STATUS_ACCOUNT_DISABLED
	0xC0000034: syscall.ENOENT,     // STATUS_OBJECT_NAME_NOT_FOUND
	0xC000003A: syscall.ENOENT,     // STATUS_OBJECT_PATH_NOT_FOUND
	0xC00000CC: syscall.ENOENT,     // STATUS_BAD_NETWORK_NAME
	0xC0000033: syscall.EINVAL,     // STATUS_OBJECT_NAME_INVALID
	0xC000000D: syscall.EINVAL,     // STATUS_INVALID_PARAMETER
	0xC0000035: syscall.EEXIST,     // STATUS_OBJECT_NAME_COLLISION
	0xC0000101: syscall.ENOTEMPTY,  // STATUS_DIRECTORY_NOT_EMPTY
	0xC0000103: syscall.ENOTDIR,    // STATUS_NOT_A_DIRECTORY
	0xC00000BA: syscall.EISDIR,     // STATUS_FILE_IS_A_DIRECTORY
	0xC0000043: syscall.EBUSY,      // STATUS_SHARING_VIOLATION
	0xC0000054: syscall.EBUSY,      // STATUS_FILE_LOCK_CONFLICT
	0xC00000BB: syscall.EOPNOTSUPP, // STATUS_NOT_SUPPORTED
	0xC000007F: syscall.ENOSPC,     // STATUS_DISK_FULL
	0xC00000B5: syscall.ETIMEDOUT,  // STATUS_IO_TIMEOUT
	0xC0000128: syscall.EBADF,      // STATUS_FILE_CLOSED
	0xC00000A2: syscall.EROFS,      // STATUS_MEDIA_WRITE_PROTECTED
}

// toErrno maps an error from go-smb2, the network or a Share
// implementation to the errno the engine reports.
func toErrno(err error) syscall.Errno {
	if err == nil {
		return 0
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}

	var re *smb2.ResponseError
	if errors.As(err, &re) {
		if code, ok := ntStatusErrno[re.Code]; ok {
			return code
		}
		return syscall.EIO
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), os.IsTimeout(err):
		return syscall.ETIMEDOUT
	case errors.Is(err, context.Canceled):
		return syscall.ECANCELED
	case errors.Is(err, fs.ErrNotExist):
		return syscall.ENOENT
	case errors.Is(err, fs.ErrExist):
		return syscall.EEXIST
	case errors.Is(err, fs.ErrPermission):
		return syscall.EACCES
	case errors.Is(err, fs.ErrClosed):
		return syscall.EBADF
	case errors.Is(err, fs.ErrInvalid):
		return syscall.EINVAL
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return syscall.ECONNREFUSED
		}
		return syscall.ECONNRESET
	}

	return syscall.EIO
}
