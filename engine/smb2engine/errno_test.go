package smb2engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"syscall"
	"testing"

	"github.com/hirochachacha/go-smb2"
)

func TestToErrno(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want syscall.Errno
	}{
		{"nil", nil, 0},
		{"errno passes through", syscall.EXDEV, syscall.EXDEV},
		{"wrapped errno", fmt.Errorf("rename: %w", syscall.EXDEV), syscall.EXDEV},
		{"access denied", &smb2.ResponseError{Code: 0xC0000022}, syscall.EACCES},
		{"logon failure", &smb2.ResponseError{Code: 0xC000006D}, syscall.EACCES},
		{"name not found", &smb2.ResponseError{Code: 0xC0000034}, syscall.ENOENT},
		{"bad network name", &smb2.ResponseError{Code: 0xC00000CC}, syscall.ENOENT},
		{"name collision", &smb2.ResponseError{Code: 0xC0000035}, syscall.EEXIST},
		{"not empty", &smb2.ResponseError{Code: 0xC0000101}, syscall.ENOTEMPTY},
		{"not a directory", &smb2.ResponseError{Code: 0xC0000103}, syscall.ENOTDIR},
		{"is a directory", &smb2.ResponseError{Code: 0xC00000BA}, syscall.EISDIR},
		{"sharing violation", &smb2.ResponseError{Code: 0xC0000043}, syscall.EBUSY},
		{"unknown status", &smb2.ResponseError{Code: 0xC0001234}, syscall.EIO},
		{"path error not exist", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, syscall.ENOENT},
		{"exist", fs.ErrExist, syscall.EEXIST},
		{"permission", fs.ErrPermission, syscall.EACCES},
		{"closed", fs.ErrClosed, syscall.EBADF},
		{"invalid", fs.ErrInvalid, syscall.EINVAL},
		{"deadline", context.DeadlineExceeded, syscall.ETIMEDOUT},
		{"canceled", context.Canceled, syscall.ECANCELED},
		{"dial failure", &net.OpError{Op: "dial", Err: errors.New("refused")}, syscall.ECONNREFUSED},
		{"read failure", &net.OpError{Op: "read", Err: errors.New("reset")}, syscall.ECONNRESET},
		{"anything else", errors.New("boom"), syscall.EIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toErrno(tt.err); got != tt.want {
				t.Errorf("toErrno(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
