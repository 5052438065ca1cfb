package smb2engine

import (
	"net"
	"path"
	"strings"
)

const defaultPort = "445"

// smbURL is a parsed smb://[user@]host[:port]/share/path URL.
type smbURL struct {
	host  string // host:port, empty for smb://
	share string // empty for smb://host/
	path  string // share-relative, slash-separated, without leading slash
}

// parseURL splits an engine URL. The scheme is optional. Paths are taken
// literally: no percent-decoding and no resolution of "..".
func parseURL(raw string) smbURL {
	rest := raw
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	} else {
		rest = strings.TrimLeft(rest, "/")
	}

	authority, p, _ := strings.Cut(rest, "/")
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		authority = authority[i+1:]
	}

	var u smbURL
	if authority != "" {
		if _, _, err := net.SplitHostPort(authority); err != nil {
			authority = net.JoinHostPort(strings.Trim(authority, "[]"), defaultPort)
		}
		u.host = authority
	}

	u.share, p, _ = strings.Cut(p, "/")
	u.path = strings.Trim(p, "/")
	return u
}

// hostname returns the host without the port.
func (u smbURL) hostname() string {
	h, _, err := net.SplitHostPort(u.host)
	if err != nil {
		return u.host
	}
	return h
}

// smbPath converts the share-relative path to SMB form: backslash
// separated, no leading separator.
func (u smbURL) smbPath() string {
	return toSMBPath(u.path)
}

// base returns the last element of the path, or the share name for the
// share root.
func (u smbURL) base() string {
	if u.path == "" {
		return u.share
	}
	return path.Base(u.path)
}

func toSMBPath(p string) string {
	p = strings.TrimPrefix(p, "/")
	return strings.ReplaceAll(p, "/", `\`)
}

// sameShare reports whether u and v are on the same mounted share.
func (u smbURL) sameShare(v smbURL) bool {
	return strings.EqualFold(u.host, v.host) && strings.EqualFold(u.share, v.share)
}
