package smbclient

import (
	"runtime"
	"sync"
	"time"

	"github.com/absfs/smbclient/engine"
	"github.com/absfs/smbclient/engine/smb2engine"
)

// Client is a session with one SMB share.
//
// All operations on a Client are serialized: the engine context is not safe
// for concurrent use, so each call holds the client's lock for its whole
// duration, including any network I/O. Use separate clients for parallel
// work.
//
// Close releases the engine context, the registered credentials and any
// Files still open. A Client that becomes unreachable without being closed
// has its context and credentials released by the garbage collector at
// some later point; Files keep their Client reachable.
type Client struct {
	uri     string
	eng     engine.Engine
	log     logger
	metrics *clientMetrics

	mu     sync.Mutex
	handle *engineHandle // nil once closed
	id     string
	files  map[*File]struct{}

	cleanup runtime.Cleanup
}

// clientRelease is what the garbage collector needs to release a dropped
// client. It must not reference the Client itself.
type clientRelease struct {
	h  *engineHandle
	id string
}

func releaseClient(r clientRelease) {
	credentialRegistry.remove(r.id)
	r.h.destroy()
}

// New creates a client from config. The engine context is created and
// configured before New returns; no connection is made until the first
// operation.
func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}
	cfg := *config
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	eng := cfg.Engine
	if eng == nil {
		eng = smb2engine.New()
	}

	c := &Client{
		uri:     buildURI(cfg.Server, cfg.Share),
		eng:     eng,
		log:     newLogger(cfg.Logger),
		metrics: newClientMetrics(cfg.Registerer),
		files:   make(map[*File]struct{}),
	}

	h, err := newEngineHandle(eng)
	if err != nil {
		c.log.errorf("failed to create engine context: %v", err)
		return nil, err
	}
	c.handle = h
	c.id = contextIdentity(h.ctx)

	// The callback must be in place, and the credentials registered,
	// before anything can open a session.
	eng.SetAuthFunction(h.ctx, authBridge)
	cfg.Options.apply(h.ctx)
	credentialRegistry.insert(c.id, cfg.Credentials)
	c.cleanup = runtime.AddCleanup(c, releaseClient, clientRelease{h: h, id: c.id})

	if cfg.NetbiosName != "" {
		h.ctx.SetNetbiosName(cfg.NetbiosName)
	}
	if cfg.Timeout > 0 {
		h.ctx.SetTimeout(int(cfg.Timeout.Milliseconds()))
	}

	c.log.tracef("created client for %s", c.uri)
	return c, nil
}

// NewClient creates a client for creds with the given options.
func NewClient(creds Credentials, opts Options) (*Client, error) {
	return New(&Config{Credentials: creds, Options: &opts})
}

// URI returns the base URI every path is appended to: the configured
// server, prefixed with "smb://" when it carries no scheme of its own,
// joined to the share with "/" unless the share already starts with one.
// Neither part is otherwise escaped or normalized.
func (c *Client) URI() string {
	return c.uri
}

// call runs fn with the client's context while holding the client lock.
func (c *Client) call(op string, fn func(ctx engine.Context) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		return ErrClosed
	}
	start := time.Now()
	err := fn(c.handle.ctx)
	c.metrics.observe(op, start, err)
	return err
}

// do is call for operations on a path.
func (c *Client) do(op, p string, fn func(ctx engine.Context) error) error {
	c.log.tracef("%s %s", op, p)
	return wrapPathError(op, p, c.call(op, fn))
}

// NetbiosName returns the netbios name the engine announces.
func (c *Client) NetbiosName() (string, error) {
	var name string
	err := c.call("get_netbios_name", func(ctx engine.Context) (err error) {
		name, err = decodeString(ctx.NetbiosName())
		return err
	})
	return name, err
}

// SetNetbiosName sets the netbios name. The engine gives no indication of
// whether the value was accepted; the only possible error is ErrClosed.
func (c *Client) SetNetbiosName(name string) error {
	c.log.tracef("setting netbios name to %s", name)
	return c.call("set_netbios_name", func(ctx engine.Context) error {
		ctx.SetNetbiosName(name)
		return nil
	})
}

// Workgroup returns the workgroup configured on the context.
func (c *Client) Workgroup() (string, error) {
	var wg string
	err := c.call("get_workgroup", func(ctx engine.Context) (err error) {
		wg, err = decodeString(ctx.Workgroup())
		return err
	})
	return wg, err
}

// SetWorkgroup sets the context workgroup. Like SetNetbiosName it cannot
// report whether the engine applied the value.
func (c *Client) SetWorkgroup(name string) error {
	c.log.tracef("setting workgroup to %s", name)
	return c.call("set_workgroup", func(ctx engine.Context) error {
		ctx.SetWorkgroup(name)
		return nil
	})
}

// User returns the user configured on the context.
func (c *Client) User() (string, error) {
	var user string
	err := c.call("get_user", func(ctx engine.Context) (err error) {
		user, err = decodeString(ctx.User())
		return err
	})
	return user, err
}

// SetUser sets the context user.
func (c *Client) SetUser(name string) error {
	c.log.tracef("setting user to %s", name)
	return c.call("set_user", func(ctx engine.Context) error {
		ctx.SetUser(name)
		return nil
	})
}

// Timeout returns the engine's per-call timeout.
func (c *Client) Timeout() (time.Duration, error) {
	var d time.Duration
	err := c.call("get_timeout", func(ctx engine.Context) error {
		d = time.Duration(ctx.Timeout()) * time.Millisecond
		return nil
	})
	return d, err
}

// SetTimeout sets the engine's per-call timeout, truncated to milliseconds.
func (c *Client) SetTimeout(d time.Duration) error {
	c.log.tracef("setting timeout to %dms", d.Milliseconds())
	return c.call("set_timeout", func(ctx engine.Context) error {
		ctx.SetTimeout(int(d.Milliseconds()))
		return nil
	})
}

// Version returns the engine library version. It does not depend on the
// client's context and works after Close.
func (c *Client) Version() (string, error) {
	return decodeString(c.eng.Version())
}

// Unlink removes the file at p.
func (c *Client) Unlink(p string) error {
	return c.do("unlink", p, func(ctx engine.Context) error {
		unlink, err := resolve[engine.UnlinkFunc](ctx, engine.OpUnlink)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		return checkResult(ctx, unlink(ctx, u))
	})
}

// Rmdir removes the empty directory at p.
func (c *Client) Rmdir(p string) error {
	return c.do("rmdir", p, func(ctx engine.Context) error {
		rmdir, err := resolve[engine.RmdirFunc](ctx, engine.OpRmdir)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		return checkResult(ctx, rmdir(ctx, u))
	})
}

// Mkdir creates the directory p with the given mode.
func (c *Client) Mkdir(p string, mode Mode) error {
	return c.do("mkdir", p, func(ctx engine.Context) error {
		mkdir, err := resolve[engine.MkdirFunc](ctx, engine.OpMkdir)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		return checkResult(ctx, mkdir(ctx, u, uint32(mode)))
	})
}

// Chmod changes the mode of p.
func (c *Client) Chmod(p string, mode Mode) error {
	return c.do("chmod", p, func(ctx engine.Context) error {
		chmod, err := resolve[engine.ChmodFunc](ctx, engine.OpChmod)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		return checkResult(ctx, chmod(ctx, u, uint32(mode)))
	})
}

// Rename moves from to to. Both paths are on this client's share.
func (c *Client) Rename(from, to string) error {
	return c.do("rename", from, func(ctx engine.Context) error {
		rename, err := resolve[engine.RenameFunc](ctx, engine.OpRename)
		if err != nil {
			return err
		}
		oldURL, err := c.url(from)
		if err != nil {
			return err
		}
		newURL, err := c.url(to)
		if err != nil {
			return err
		}
		return checkResult(ctx, rename(ctx, oldURL, ctx, newURL))
	})
}

// Print sends the file at p to the print queue, which is also a path on
// this client's server.
func (c *Client) Print(p, queue string) error {
	return c.do("print", p, func(ctx engine.Context) error {
		printFile, err := resolve[engine.PrintFileFunc](ctx, engine.OpPrintFile)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		q, err := c.url(queue)
		if err != nil {
			return err
		}
		return checkResult(ctx, printFile(ctx, u, ctx, q))
	})
}

// Utimes sets the access and modification times of p.
func (c *Client) Utimes(p string, atime, mtime time.Time) error {
	return c.do("utimes", p, func(ctx engine.Context) error {
		utimes, err := resolve[engine.UtimesFunc](ctx, engine.OpUtimes)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		return checkResult(ctx, utimes(ctx, u, engine.NewTimespec(atime), engine.NewTimespec(mtime)))
	})
}

// Stat returns the metadata of p.
func (c *Client) Stat(p string) (Metadata, error) {
	var meta Metadata
	err := c.do("stat", p, func(ctx engine.Context) error {
		stat, err := resolve[engine.StatFunc](ctx, engine.OpStat)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		var st engine.Stat
		if err := checkResult(ctx, stat(ctx, u, &st)); err != nil {
			c.log.tracef("failed to stat %s: %v", u, err)
			return err
		}
		meta = metadataFromStat(&st)
		return nil
	})
	return meta, err
}

// StatVFS returns the metadata of the filesystem holding p.
func (c *Client) StatVFS(p string) (FilesystemMetadata, error) {
	var meta FilesystemMetadata
	err := c.do("statvfs", p, func(ctx engine.Context) error {
		statvfs, err := resolve[engine.StatVFSFunc](ctx, engine.OpStatVFS)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		var st engine.StatVFS
		if err := checkResult(ctx, statvfs(ctx, u, &st)); err != nil {
			c.log.errorf("failed to stat filesystem at %s: %v", u, err)
			return err
		}
		meta = filesystemMetadataFromStatVFS(&st)
		return nil
	})
	return meta, err
}

// Open opens p for reading.
func (c *Client) Open(p string) (*File, error) {
	return c.OpenWith(p, OpenOptions{Read: true})
}

// OpenWith opens p with the given options. The returned File must be
// closed; Close on the client closes any file still open.
func (c *Client) OpenWith(p string, opts OpenOptions) (*File, error) {
	var f *File
	err := c.do("open", p, func(ctx engine.Context) error {
		open, err := resolve[engine.OpenFunc](ctx, engine.OpOpen)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		raw := open(ctx, u, opts.Flags(), uint32(opts.mode()))
		fd, err := checkDescriptor(ctx, raw)
		if err != nil {
			if raw != nil {
				c.log.errorf("open %s: got a negative file descriptor", u)
			}
			return err
		}
		f = &File{client: c, fd: fd, path: p, opts: opts}
		c.files[f] = struct{}{}
		return nil
	})
	return f, err
}

// Close closes any files still open, forgets the client's credentials and
// frees the engine context. Operations after Close fail with ErrClosed.
// Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	h := c.handle
	if h == nil {
		c.mu.Unlock()
		return nil
	}
	for f := range c.files {
		if err := f.closeLocked(h.ctx); err != nil {
			c.log.errorf("closing %s: %v", f.path, err)
		}
	}
	c.files = nil
	// Stopped first: a late cleanup would remove the entry of whichever
	// client next reuses this identity.
	c.cleanup.Stop()
	credentialRegistry.remove(c.id)
	c.handle = nil
	c.mu.Unlock()

	// The engine lock is never taken with the client lock held.
	h.destroy()
	c.log.tracef("closed client for %s", c.uri)
	return nil
}
