package smbclient

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/absfs/smbclient/engine"
)

var (
	// ErrEngineInit indicates the engine context could not be allocated or
	// initialized.
	ErrEngineInit = errors.New("engine context initialization failed")

	// ErrBadFileDescriptor indicates the engine returned a null or negative
	// file or directory descriptor.
	ErrBadFileDescriptor = errors.New("bad file descriptor")

	// ErrBadValue indicates a string returned by the engine is not valid text.
	ErrBadValue = errors.New("bad value")

	// ErrUnsupportedOperation indicates the engine does not provide the
	// requested capability.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClosed indicates the client or file has been closed.
	ErrClosed = fs.ErrClosed
)

// UnsupportedOperationError reports which capability was missing.
type UnsupportedOperationError struct {
	Op engine.Op
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, ErrUnsupportedOperation)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// IOError wraps the errno reported by the engine for a failed call.
type IOError struct {
	Code syscall.Errno
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o error %d: %s", int(e.Code), e.Code.Error())
}

// Unwrap exposes the errno, so errors.Is(err, fs.ErrNotExist) and friends
// behave as they do for syscalls.
func (e *IOError) Unwrap() error {
	return e.Code
}

// PathError records an error and the operation and path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// wrapPathError wraps an error with operation and path information.
func wrapPathError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	// If it's already a PathError for the same path, don't double-wrap
	var pe *PathError
	if errors.As(err, &pe) && pe.Path == path {
		return err
	}

	return &PathError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// lastError converts the context errno into an IOError. An engine that
// signals failure without setting errno is reported as EIO.
func lastError(ctx engine.Context) error {
	code := ctx.Errno()
	if code == 0 {
		code = syscall.EIO
	}
	return &IOError{Code: code}
}

// checkResult translates an integer return value.
func checkResult(ctx engine.Context, rc int) error {
	if rc < 0 {
		return lastError(ctx)
	}
	return nil
}

// checkDescriptor rejects the null descriptor and descriptors with a
// negative handle. Both can come back from open. When the engine recorded
// an errno the result also wraps it, so errors.Is(err, fs.ErrNotExist)
// still works for a missing file.
func checkDescriptor(ctx engine.Context, fd *engine.File) (*engine.File, error) {
	if fd != nil && fd.Handle() >= 0 {
		return fd, nil
	}
	if code := ctx.Errno(); code != 0 {
		return nil, fmt.Errorf("%w: %w", ErrBadFileDescriptor, &IOError{Code: code})
	}
	return nil, ErrBadFileDescriptor
}

// decodeString converts an engine string. A nil slice is the null pointer.
func decodeString(b []byte) (string, error) {
	if b == nil {
		return "", ErrBadValue
	}
	s, ok := cString(b)
	if !ok {
		return "", ErrBadValue
	}
	return s, nil
}
