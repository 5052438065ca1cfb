package smb2engine

import (
	"bytes"
	"context"
	"strings"
	"syscall"
	"time"

	"github.com/absfs/smbclient/engine"
)

// server is an authenticated session and the shares mounted on it.
type server struct {
	session Session
	shares  map[string]Share // lower-cased share name
}

// callTimeout is the per-call timeout, or 0 for none.
func (c *Context) callTimeout() time.Duration {
	if c.timeout <= 0 {
		return 0
	}
	return time.Duration(c.timeout) * time.Millisecond
}

// opContext bounds one engine call by the configured timeout.
func (c *Context) opContext() (context.Context, context.CancelFunc) {
	if d := c.callTimeout(); d > 0 {
		return context.WithTimeout(context.Background(), d)
	}
	return context.WithCancel(context.Background())
}

// connect returns the session for u's server, dialing it on first use.
func (c *Context) connect(u smbURL) (*server, error) {
	if u.host == "" {
		return nil, syscall.EINVAL
	}
	if srv, ok := c.servers[u.host]; ok {
		return srv, nil
	}

	params, err := c.dialParams(u)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.opContext()
	defer cancel()

	c.log.WithField("server", u.host).Debugf("smb2engine: connecting as %q", params.User)
	session, err := c.engine.factory.Connect(ctx, params)
	if err != nil {
		return nil, err
	}

	srv := &server{session: session, shares: make(map[string]Share)}
	c.servers[u.host] = srv
	return srv, nil
}

// dialParams asks the auth callback for credentials. The buffers are
// pre-filled with the context's workgroup and user so a callback that
// leaves them alone keeps the defaults.
func (c *Context) dialParams(u smbURL) (DialParams, error) {
	wg := make([]byte, authBufferSize)
	un := make([]byte, authBufferSize)
	pw := make([]byte, authBufferSize)
	copy(wg[:authBufferSize-1], c.workgroup)
	copy(un[:authBufferSize-1], c.user)

	if c.auth != nil {
		c.auth(c, u.hostname(), u.share, wg, un, pw)
	}

	domain := cString(wg)
	user := cString(un)
	password := cString(pw)

	if c.enabled(engine.OptionUseKerberos) {
		// go-smb2 only speaks NTLM
		if !c.enabled(engine.OptionFallbackAfterKerberos) {
			return DialParams{}, syscall.EOPNOTSUPP
		}
		if user == "" && c.enabled(engine.OptionUseCCache) {
			name, realm, err := ccachePrincipal(c.engine.ccache)
			if err != nil {
				c.log.WithError(err).Debug("smb2engine: no usable credential cache")
			} else {
				user = name
				if domain == "" {
					domain = realm
				}
			}
		}
	}

	if user == "" && c.enabled(engine.OptionNoAutoAnonymousLogin) {
		return DialParams{}, syscall.EACCES
	}

	return DialParams{
		Addr:           u.host,
		User:           user,
		Password:       password,
		Domain:         domain,
		Workstation:    c.netbios,
		RequireSigning: c.GetOption(engine.OptionEncryptionLevel) >= 2,
		Timeout:        c.callTimeout(),
	}, nil
}

// mount returns the share for u, mounting it on first use.
func (c *Context) mount(u smbURL) (Share, error) {
	if u.share == "" {
		return nil, syscall.EINVAL
	}
	srv, err := c.connect(u)
	if err != nil {
		return nil, err
	}

	key := strings.ToLower(u.share)
	if sh, ok := srv.shares[key]; ok {
		return sh, nil
	}

	if c.enabled(engine.OptionOneSharePerServer) {
		for name, sh := range srv.shares {
			if c.shareInUse(sh) {
				continue
			}
			if err := sh.Umount(); err != nil {
				c.log.WithError(err).Debugf("smb2engine: umount %s", name)
			}
			delete(srv.shares, name)
		}
	}

	sh, err := srv.session.Mount(u.share)
	if err != nil {
		return nil, err
	}
	srv.shares[key] = sh
	return sh, nil
}

func (c *Context) shareInUse(sh Share) bool {
	for _, h := range c.handles {
		if h.share == sh {
			return true
		}
	}
	return false
}

// shutdown closes every handle, share and session of the context.
func (c *Context) shutdown() {
	for fd, h := range c.handles {
		if h.file != nil {
			h.file.Close()
		}
		delete(c.handles, fd)
	}
	for host, srv := range c.servers {
		for _, sh := range srv.shares {
			sh.Umount()
		}
		if err := srv.session.Logoff(); err != nil {
			c.log.WithError(err).Debugf("smb2engine: logoff %s", host)
		}
		delete(c.servers, host)
	}
}

// cString reads a NUL-terminated buffer.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
