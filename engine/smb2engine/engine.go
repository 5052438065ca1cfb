// Package smb2engine implements engine.Engine on top of
// github.com/hirochachacha/go-smb2.
//
// Sessions are opened lazily, one per server, the first time a context
// touches a URL on that server. Credentials come from the auth callback
// installed with SetAuthFunction; NTLM is done by go-smb2.
//
//	eng := smb2engine.New()
//	ctx := eng.InitContext(eng.NewContext())
//	eng.SetAuthFunction(ctx, auth)
//	stat := ctx.Function(engine.OpStat).(engine.StatFunc)
package smb2engine

import (
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/absfs/smbclient/engine"
)

const (
	// authBufferSize is the length of each buffer handed to the auth
	// callback.
	authBufferSize = 256

	defaultTimeoutMS = 20000
	defaultWorkgroup = "WORKGROUP"
	defaultUser      = "guest"

	smb2Module = "github.com/hirochachacha/go-smb2"
)

// Engine creates contexts that share a connection factory.
type Engine struct {
	factory ConnectionFactory
	log     logrus.FieldLogger
	ccache  string
}

// Option configures an Engine.
type Option func(*Engine)

// WithConnectionFactory replaces the TCP/NTLM connection factory.
func WithConnectionFactory(f ConnectionFactory) Option {
	return func(e *Engine) {
		e.factory = f
	}
}

// WithLogger sets the logger (default: logrus standard logger).
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithCCachePath sets the Kerberos credential cache consulted when
// OptionUseCCache is on (default: KRB5CCNAME, then /tmp/krb5cc_<uid>).
func WithCCachePath(path string) Option {
	return func(e *Engine) {
		e.ccache = path
	}
}

// New returns an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		factory: &NetConnectionFactory{},
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewContext allocates an uninitialized context.
func (e *Engine) NewContext() engine.Context {
	return newContext(e)
}

// InitContext applies the defaults to a context created by this engine.
// It returns nil for foreign contexts.
func (e *Engine) InitContext(ctx engine.Context) engine.Context {
	c, ok := ctx.(*Context)
	if !ok || c == nil || c.engine != e {
		return nil
	}
	c.init()
	return c
}

// FreeContext releases the context's files, shares and sessions. Without
// shutdown it refuses, with EBUSY, to free a context that has open files.
func (e *Engine) FreeContext(ctx engine.Context, shutdown bool) int {
	c, ok := ctx.(*Context)
	if !ok || c == nil || c.engine != e {
		return 1
	}
	if !shutdown && len(c.handles) > 0 {
		c.errno = syscall.EBUSY
		return 1
	}
	c.shutdown()
	return 0
}

// SetAuthFunction installs fn as the context's credential callback.
func (e *Engine) SetAuthFunction(ctx engine.Context, fn engine.AuthFunc) {
	if c, ok := ctx.(*Context); ok && c != nil {
		c.auth = fn
	}
}

var versionOnce = sync.OnceValue(func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == smb2Module {
				return "go-smb2 " + dep.Version
			}
		}
	}
	return "go-smb2"
})

// Version reports the go-smb2 module version linked into the binary.
func (e *Engine) Version() []byte {
	return []byte(versionOnce())
}
