package smb2engine

import (
	"os"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/absfs/smbclient/engine"
)

// Context is the engine.Context of this engine. It is not safe for
// concurrent use.
type Context struct {
	engine *Engine
	log    logrus.FieldLogger

	initialized bool
	errno       syscall.Errno
	auth        engine.AuthFunc

	netbios   string
	workgroup string
	user      string
	timeout   int
	options   [engine.OptionURLEncodeReaddirEntries + 1]int

	servers map[string]*server
	handles map[int64]*handle
	nextFD  int64
	funcs   map[engine.Op]any
}

func newContext(e *Engine) *Context {
	c := &Context{
		engine:  e,
		log:     e.log,
		servers: make(map[string]*server),
		handles: make(map[int64]*handle),
		nextFD:  1,
	}
	c.funcs = map[engine.Op]any{
		engine.OpOpen:        engine.OpenFunc(open),
		engine.OpRead:        engine.ReadFunc(read),
		engine.OpWrite:       engine.WriteFunc(write),
		engine.OpLseek:       engine.LseekFunc(lseek),
		engine.OpClose:       engine.CloseFunc(closeFile),
		engine.OpOpendir:     engine.OpendirFunc(opendir),
		engine.OpReaddir:     engine.ReaddirFunc(readdir),
		engine.OpReaddirPlus: engine.ReaddirPlusFunc(readdirplus),
		engine.OpClosedir:    engine.ClosedirFunc(closedir),
		engine.OpStat:        engine.StatFunc(stat),
		engine.OpStatVFS:     engine.StatVFSFunc(statvfs),
		engine.OpMkdir:       engine.MkdirFunc(mkdir),
		engine.OpRmdir:       engine.RmdirFunc(rmdir),
		engine.OpUnlink:      engine.UnlinkFunc(unlink),
		engine.OpRename:      engine.RenameFunc(rename),
		engine.OpChmod:       engine.ChmodFunc(chmod),
		engine.OpUtimes:      engine.UtimesFunc(utimes),
		engine.OpPrintFile:   engine.PrintFileFunc(printFile),
	}
	return c
}

// init applies the engine defaults.
func (c *Context) init() {
	if c.initialized {
		return
	}
	c.netbios = defaultNetbiosName()
	c.workgroup = defaultWorkgroup
	c.user = defaultUser
	c.timeout = defaultTimeoutMS
	c.options[engine.OptionUseCCache] = 1
	c.options[engine.OptionOpenShareMode] = 4 // deny none
	c.options[engine.OptionBrowseMaxLMBCount] = 3
	c.initialized = true
}

// defaultNetbiosName derives a netbios name from the host name: the first
// label, upper case, at most 15 characters.
func defaultNetbiosName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "SMBCLIENT"
	}
	host, _, _ = strings.Cut(host, ".")
	host = strings.ToUpper(host)
	if len(host) > 15 {
		host = host[:15]
	}
	return host
}

// contextOf returns the initialized *Context behind ctx, or nil.
func contextOf(ctx engine.Context) *Context {
	c, ok := ctx.(*Context)
	if !ok || c == nil || !c.initialized {
		return nil
	}
	return c
}

// Function implements engine.Context.
func (c *Context) Function(op engine.Op) any {
	return c.funcs[op]
}

// Errno implements engine.Context.
func (c *Context) Errno() syscall.Errno {
	return c.errno
}

func (c *Context) NetbiosName() []byte { return []byte(c.netbios) }
func (c *Context) SetNetbiosName(n string) { c.netbios = n }
func (c *Context) Workgroup() []byte { return []byte(c.workgroup) }
func (c *Context) SetWorkgroup(n string) { c.workgroup = n }
func (c *Context) User() []byte { return []byte(c.user) }
func (c *Context) SetUser(n string) { c.user = n }
func (c *Context) Timeout() int { return c.timeout }
func (c *Context) SetTimeout(ms int) { c.timeout = ms }

// SetOption implements engine.Context. Unknown options are ignored.
func (c *Context) SetOption(opt engine.Option, value int) {
	if opt < 0 || int(opt) >= len(c.options) {
		return
	}
	c.options[opt] = value
}

// GetOption implements engine.Context. Unknown options read as 0.
func (c *Context) GetOption(opt engine.Option) int {
	if opt < 0 || int(opt) >= len(c.options) {
		return 0
	}
	return c.options[opt]
}

func (c *Context) enabled(opt engine.Option) bool {
	return c.GetOption(opt) != 0
}

// fail records err as the context errno.
func (c *Context) fail(op, url string, err error) {
	c.errno = toErrno(err)
	c.log.WithFields(logrus.Fields{
		"op":    op,
		"url":   url,
		"errno": int(c.errno),
	}).Debugf("smb2engine: %v", err)
}
