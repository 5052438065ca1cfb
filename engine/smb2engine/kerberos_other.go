//go:build !unix

package smb2engine

import "errors"

// defaultCcachePath fails where there is no FILE ccache convention; set
// KRB5CCNAME or use WithCCachePath instead.
func defaultCcachePath() (string, error) {
	return "", errors.New("no default kerberos credential cache: set KRB5CCNAME")
}
