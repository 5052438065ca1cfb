// Package engine describes the boundary between smbclient and the protocol
// engine that speaks SMB on the wire.
//
// The boundary follows the conventions of C SMB client libraries: contexts
// are opaque handles, operations are fetched from a context as function
// values that may be absent, failures are reported with negative return
// values or nil sentinels plus an errno recorded on the context, and
// credentials are requested through a single process-wide callback that
// receives nothing but the context.
//
// Engine implementations must return pointer-typed Contexts. The context's
// address is its identity.
package engine

import (
	"syscall"
)

// Op names a capability in a context's function table.
type Op string

// Capabilities an engine may expose.
const (
	OpOpen        Op = "open"
	OpRead        Op = "read"
	OpWrite       Op = "write"
	OpLseek       Op = "lseek"
	OpClose       Op = "close"
	OpOpendir     Op = "opendir"
	OpReaddir     Op = "readdir"
	OpReaddirPlus Op = "readdirplus"
	OpClosedir    Op = "closedir"
	OpStat        Op = "stat"
	OpStatVFS     Op = "statvfs"
	OpMkdir       Op = "mkdir"
	OpRmdir       Op = "rmdir"
	OpUnlink      Op = "unlink"
	OpRename      Op = "rename"
	OpChmod       Op = "chmod"
	OpUtimes      Op = "utimes"
	OpPrintFile   Op = "printfile"
)

// Ops lists every capability, in table order.
var Ops = []Op{
	OpOpen, OpRead, OpWrite, OpLseek, OpClose,
	OpOpendir, OpReaddir, OpReaddirPlus, OpClosedir,
	OpStat, OpStatVFS, OpMkdir, OpRmdir, OpUnlink,
	OpRename, OpChmod, OpUtimes, OpPrintFile,
}

// Option identifies a per-context engine option.
type Option int

// Per-context options. Values are passed as ints; booleans use 0 and 1.
const (
	OptionCaseSensitive Option = iota
	OptionUseKerberos
	OptionFallbackAfterKerberos
	OptionUseCCache
	OptionEncryptionLevel
	OptionOpenShareMode
	OptionBrowseMaxLMBCount
	OptionNoAutoAnonymousLogin
	OptionOneSharePerServer
	OptionURLEncodeReaddirEntries
)

// AuthFunc is invoked by the engine whenever a session needs credentials.
// The workgroup, username and password buffers have the length the engine
// allows; implementations must write NUL-terminated values that fit.
type AuthFunc func(ctx Context, server, share string, workgroup, username, password []byte)

// Engine allocates contexts and exposes library-wide state.
//
// NewContext, InitContext and FreeContext are not safe for concurrent use;
// callers serialize them.
type Engine interface {
	// NewContext allocates a context. It returns nil on failure.
	NewContext() Context
	// InitContext initializes an allocated context and returns it, or nil
	// on failure.
	InitContext(ctx Context) Context
	// FreeContext releases a context. With shutdown set, open files and
	// connections are closed first. It returns 0 on success.
	FreeContext(ctx Context, shutdown bool) int
	// SetAuthFunction installs the credential callback used by ctx.
	SetAuthFunction(ctx Context, fn AuthFunc)
	// Version returns the library version string, or nil.
	Version() []byte
}

// Context is an engine session handle.
type Context interface {
	// Function returns the capability registered for op, or nil if the
	// engine does not provide it.
	Function(op Op) any
	// Errno reports the error code of the last failed call.
	Errno() syscall.Errno

	NetbiosName() []byte
	SetNetbiosName(name string)
	Workgroup() []byte
	SetWorkgroup(name string)
	User() []byte
	SetUser(name string)
	// Timeout is the per-call timeout in milliseconds.
	Timeout() int
	SetTimeout(ms int)

	SetOption(opt Option, value int)
	GetOption(opt Option) int
}
