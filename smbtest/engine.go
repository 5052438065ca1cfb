package smbtest

import (
	"sync"

	"github.com/absfs/smbclient/engine"
	"github.com/absfs/smbclient/engine/smb2engine"
)

// NewEngine returns a go-smb2 engine whose connections are served by b.
func NewEngine(b *Backend, opts ...smb2engine.Option) *smb2engine.Engine {
	return smb2engine.New(append([]smb2engine.Option{smb2engine.WithConnectionFactory(b)}, opts...)...)
}

// FaultEngine wraps an engine and injects the failures a C engine can
// produce: missing capabilities, failed context setup, undecodable
// directory records and invalid descriptors. It also counts close calls.
type FaultEngine struct {
	inner engine.Engine

	mu                 sync.Mutex
	disabled           map[engine.Op]bool
	corrupt            map[string]bool
	failNewContext     bool
	failInitContext    bool
	negativeDescriptor bool
	contexts           map[engine.Context]*faultContext // inner -> wrapper

	closes    int
	closedirs int
	frees     int
}

// NewFaultEngine wraps inner.
func NewFaultEngine(inner engine.Engine) *FaultEngine {
	return &FaultEngine{
		inner:    inner,
		disabled: make(map[engine.Op]bool),
		corrupt:  make(map[string]bool),
		contexts: make(map[engine.Context]*faultContext),
	}
}

// Disable removes op from the function table of every context.
func (e *FaultEngine) Disable(ops ...engine.Op) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, op := range ops {
		e.disabled[op] = true
	}
}

// FailNewContext makes NewContext return nil.
func (e *FaultEngine) FailNewContext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failNewContext = true
}

// FailInitContext makes InitContext return nil.
func (e *FaultEngine) FailInitContext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failInitContext = true
}

// CorruptEntries makes readdir and readdirplus return the named entries
// with a name that is not valid UTF-8.
func (e *FaultEngine) CorruptEntries(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, name := range names {
		e.corrupt[name] = true
	}
}

// NegativeDescriptor makes open and opendir return a non-nil descriptor
// with a negative handle.
func (e *FaultEngine) NegativeDescriptor() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.negativeDescriptor = true
}

// Closes returns the number of close calls that reached the engine.
func (e *FaultEngine) Closes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closes
}

// Closedirs returns the number of closedir calls that reached the engine.
func (e *FaultEngine) Closedirs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closedirs
}

// Frees returns the number of FreeContext calls.
func (e *FaultEngine) Frees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frees
}

// Contexts returns the number of live contexts.
func (e *FaultEngine) Contexts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.contexts)
}

func (e *FaultEngine) NewContext() engine.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failNewContext {
		return nil
	}
	in := e.inner.NewContext()
	if in == nil {
		return nil
	}
	fc := &faultContext{Context: in, engine: e}
	e.contexts[in] = fc
	return fc
}

func (e *FaultEngine) InitContext(ctx engine.Context) engine.Context {
	fc, ok := ctx.(*faultContext)
	if !ok {
		return nil
	}

	e.mu.Lock()
	fail := e.failInitContext
	e.mu.Unlock()
	if fail {
		return nil
	}

	in := e.inner.InitContext(fc.Context)
	if in == nil {
		return nil
	}

	e.mu.Lock()
	delete(e.contexts, fc.Context)
	fc.Context = in
	e.contexts[in] = fc
	e.mu.Unlock()
	return fc
}

func (e *FaultEngine) FreeContext(ctx engine.Context, shutdown bool) int {
	e.mu.Lock()
	e.frees++
	e.mu.Unlock()

	fc, ok := ctx.(*faultContext)
	if !ok {
		return 1
	}
	rc := e.inner.FreeContext(fc.Context, shutdown)
	if rc == 0 {
		e.mu.Lock()
		delete(e.contexts, fc.Context)
		e.mu.Unlock()
	}
	return rc
}

// SetAuthFunction installs fn on the inner context. The engine calls back
// with its own context, which is mapped back to the wrapper the caller
// knows.
func (e *FaultEngine) SetAuthFunction(ctx engine.Context, fn engine.AuthFunc) {
	fc, ok := ctx.(*faultContext)
	if !ok {
		return
	}
	e.inner.SetAuthFunction(fc.Context, func(in engine.Context, server, share string, wg, user, pw []byte) {
		fn(e.wrapperOf(in), server, share, wg, user, pw)
	})
}

func (e *FaultEngine) Version() []byte {
	return e.inner.Version()
}

func (e *FaultEngine) wrapperOf(in engine.Context) engine.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fc, ok := e.contexts[in]; ok {
		return fc
	}
	return in
}

func (e *FaultEngine) isDisabled(op engine.Op) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled[op]
}

func (e *FaultEngine) isCorrupt(name []byte) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.corrupt[string(name)]
}

func (e *FaultEngine) descriptor(f *engine.File) *engine.File {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f == nil || !e.negativeDescriptor {
		return f
	}
	return engine.NewFile(-1, f.Impl())
}

func (e *FaultEngine) count(n *int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	*n++
}

var corruptName = []byte{0xff, 0xfe, 0xfd}

// faultContext wraps an inner context. Getters, setters and options pass
// through; the function table is rewrapped so the inner functions receive
// the inner context.
type faultContext struct {
	engine.Context
	engine *FaultEngine
}

func unwrap(ctx engine.Context) engine.Context {
	if fc, ok := ctx.(*faultContext); ok {
		return fc.Context
	}
	return ctx
}

func (c *faultContext) Function(op engine.Op) any {
	e := c.engine
	if e.isDisabled(op) {
		return nil
	}

	switch fn := c.Context.Function(op).(type) {
	case engine.OpenFunc:
		return engine.OpenFunc(func(ctx engine.Context, url string, flags int, mode uint32) *engine.File {
			return e.descriptor(fn(unwrap(ctx), url, flags, mode))
		})
	case engine.ReadFunc:
		return engine.ReadFunc(func(ctx engine.Context, f *engine.File, buf []byte) int {
			return fn(unwrap(ctx), f, buf)
		})
	case engine.WriteFunc:
		return engine.WriteFunc(func(ctx engine.Context, f *engine.File, buf []byte) int {
			return fn(unwrap(ctx), f, buf)
		})
	case engine.LseekFunc:
		return engine.LseekFunc(func(ctx engine.Context, f *engine.File, offset int64, whence int) int64 {
			return fn(unwrap(ctx), f, offset, whence)
		})
	case engine.CloseFunc:
		return engine.CloseFunc(func(ctx engine.Context, f *engine.File) int {
			e.count(&e.closes)
			return fn(unwrap(ctx), f)
		})
	case engine.OpendirFunc:
		return engine.OpendirFunc(func(ctx engine.Context, url string) *engine.File {
			return e.descriptor(fn(unwrap(ctx), url))
		})
	case engine.ReaddirFunc:
		return engine.ReaddirFunc(func(ctx engine.Context, dir *engine.File) *engine.Dirent {
			d := fn(unwrap(ctx), dir)
			if d != nil && e.isCorrupt(d.Name) {
				d.Name = corruptName
			}
			return d
		})
	case engine.ReaddirPlusFunc:
		return engine.ReaddirPlusFunc(func(ctx engine.Context, dir *engine.File) *engine.DirentPlus {
			d := fn(unwrap(ctx), dir)
			if d != nil && e.isCorrupt(d.Name) {
				d.Name = corruptName
			}
			return d
		})
	case engine.ClosedirFunc:
		return engine.ClosedirFunc(func(ctx engine.Context, dir *engine.File) int {
			e.count(&e.closedirs)
			return fn(unwrap(ctx), dir)
		})
	case engine.StatFunc:
		return engine.StatFunc(func(ctx engine.Context, url string, st *engine.Stat) int {
			return fn(unwrap(ctx), url, st)
		})
	case engine.StatVFSFunc:
		return engine.StatVFSFunc(func(ctx engine.Context, url string, st *engine.StatVFS) int {
			return fn(unwrap(ctx), url, st)
		})
	case engine.MkdirFunc:
		return engine.MkdirFunc(func(ctx engine.Context, url string, mode uint32) int {
			return fn(unwrap(ctx), url, mode)
		})
	case engine.RmdirFunc:
		return engine.RmdirFunc(func(ctx engine.Context, url string) int {
			return fn(unwrap(ctx), url)
		})
	case engine.UnlinkFunc:
		return engine.UnlinkFunc(func(ctx engine.Context, url string) int {
			return fn(unwrap(ctx), url)
		})
	case engine.RenameFunc:
		return engine.RenameFunc(func(octx engine.Context, oldURL string, nctx engine.Context, newURL string) int {
			return fn(unwrap(octx), oldURL, unwrap(nctx), newURL)
		})
	case engine.ChmodFunc:
		return engine.ChmodFunc(func(ctx engine.Context, url string, mode uint32) int {
			return fn(unwrap(ctx), url, mode)
		})
	case engine.UtimesFunc:
		return engine.UtimesFunc(func(ctx engine.Context, url string, atime, mtime engine.Timespec) int {
			return fn(unwrap(ctx), url, atime, mtime)
		})
	case engine.PrintFileFunc:
		return engine.PrintFileFunc(func(ctx engine.Context, url string, pctx engine.Context, queue string) int {
			return fn(unwrap(ctx), url, unwrap(pctx), queue)
		})
	}
	return nil
}
