package smbclient

import (
	"strings"
)

// buildURI joins server and share into the client's base URI. A share that
// already starts with "/" is appended as is. Servers given without a scheme
// get "smb://".
func buildURI(server, share string) string {
	if !strings.Contains(server, "://") {
		server = "smb://" + server
	}
	if strings.HasPrefix(share, "/") {
		return server + share
	}
	return server + "/" + share
}

// url returns the engine URL for p. Paths are appended to the base URI
// without normalization; a leading "/" is the caller's business.
func (c *Client) url(p string) (string, error) {
	if strings.IndexByte(p, 0) >= 0 {
		return "", ErrBadValue
	}
	return c.uri + p, nil
}
