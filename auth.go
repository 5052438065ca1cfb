package smbclient

import (
	"bytes"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/absfs/smbclient/engine"
)

// Credentials identify the share and the account used to access it.
type Credentials struct {
	Server    string `mapstructure:"server"`
	Share     string `mapstructure:"share"`
	Workgroup string `mapstructure:"workgroup"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

// authService maps context identities to credentials.
//
// The engine's auth callback carries no user data, so this table is the
// only way back from a context to its client's credentials. Identities are
// context addresses: once a context is freed its address may be handed out
// again, which is why entries must be removed when the owning client closes.
type authService struct {
	mu      sync.Mutex
	entries map[string]Credentials
}

var credentialRegistry = &authService{entries: make(map[string]Credentials)}

func (s *authService) insert(id string, creds Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = creds
}

// get returns the credentials for id, or empty credentials if there are
// none. It must not panic: it runs inside engine callbacks.
func (s *authService) get(id string) Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[id]
}

func (s *authService) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *authService) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// contextIdentity derives the registry key for ctx from its address.
func contextIdentity(ctx engine.Context) string {
	return fmt.Sprintf("%p", ctx)
}

// authBridge is the engine.AuthFunc installed on every context. It runs on
// whatever goroutine the engine is using, usually while the owning client's
// lock is held, so it only touches the registry.
func authBridge(ctx engine.Context, server, share string, workgroup, username, password []byte) {
	creds := credentialRegistry.get(contextIdentity(ctx))
	defaultLogger().tracef("authenticating on %s\\%s", server, share)
	writeCString(workgroup, creds.Workgroup)
	writeCString(username, creds.Username)
	writeCString(password, creds.Password)
}

// writeCString copies s into dst as a NUL-terminated string, truncating it
// to fit. It never writes past len(dst) and returns the number of bytes
// written including the terminator.
func writeCString(dst []byte, s string) int {
	if len(dst) == 0 {
		return 0
	}
	n := copy(dst[:len(dst)-1], s)
	dst[n] = 0
	return n + 1
}

// cString reads a NUL-terminated string from b and reports whether it is
// valid UTF-8. Without a terminator the whole slice is used.
func cString(b []byte) (string, bool) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}
