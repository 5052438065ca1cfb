//go:build unix

package smb2engine

import (
	"strconv"

	"golang.org/x/sys/unix"
)

func defaultCcachePath() (string, error) {
	return "/tmp/krb5cc_" + strconv.Itoa(unix.Getuid()), nil
}
