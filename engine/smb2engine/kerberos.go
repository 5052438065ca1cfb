package smb2engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcmturner/gokrb5/v8/credentials"
)

// resolveCcachePath finds the credential cache the way the MIT tools do:
// KRB5CCNAME with FILE: or DIR: prefixes, else /tmp/krb5cc_<uid>.
func resolveCcachePath(ccachePath string) (string, error) {
	if ccachePath == "" {
		ccachePath = os.Getenv("KRB5CCNAME")
	}

	switch {
	case strings.Contains(ccachePath, ":"):
		prefix, path, _ := strings.Cut(ccachePath, ":")
		switch prefix {
		case "FILE":
			return path, nil
		case "DIR":
			primary, err := os.ReadFile(filepath.Join(path, "primary"))
			if err != nil {
				return "", err
			}
			return filepath.Join(path, strings.TrimSpace(string(primary))), nil
		default:
			return "", fmt.Errorf("unsupported KRB5CCNAME: %s", ccachePath)
		}
	case ccachePath == "":
		return defaultCcachePath()
	default:
		return ccachePath, nil
	}
}

// ccachePrincipal returns the default principal and realm of the ticket
// cache at ccachePath ("" = resolve from the environment).
func ccachePrincipal(ccachePath string) (name, realm string, err error) {
	ccachePath, err = resolveCcachePath(ccachePath)
	if err != nil {
		return "", "", err
	}
	cc, err := credentials.LoadCCache(ccachePath)
	if err != nil {
		return "", "", err
	}
	return cc.GetClientPrincipalName().PrincipalNameString(), cc.GetClientRealm(), nil
}
