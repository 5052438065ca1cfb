package smb2engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveCcachePath(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		got, err := resolveCcachePath("/var/run/krb5cc")
		if err != nil || got != "/var/run/krb5cc" {
			t.Errorf("resolveCcachePath() = %q, %v", got, err)
		}
	})

	t.Run("FILE prefix from the environment", func(t *testing.T) {
		t.Setenv("KRB5CCNAME", "FILE:/tmp/krb5cc_test")
		got, err := resolveCcachePath("")
		if err != nil || got != "/tmp/krb5cc_test" {
			t.Errorf("resolveCcachePath() = %q, %v", got, err)
		}
	})

	t.Run("DIR prefix follows primary", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "primary"), []byte("tkt-abc\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		got, err := resolveCcachePath("DIR:" + dir)
		if err != nil || got != filepath.Join(dir, "tkt-abc") {
			t.Errorf("resolveCcachePath() = %q, %v", got, err)
		}
	})

	t.Run("DIR without primary", func(t *testing.T) {
		if _, err := resolveCcachePath("DIR:" + t.TempDir()); err == nil {
			t.Error("resolveCcachePath() error = nil, want error")
		}
	})

	t.Run("unsupported prefix", func(t *testing.T) {
		if _, err := resolveCcachePath("KEYRING:persistent:1000"); err == nil {
			t.Error("resolveCcachePath() error = nil, want error")
		}
	})
}

func TestCcachePrincipal_Missing(t *testing.T) {
	_, _, err := ccachePrincipal(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Error("ccachePrincipal() error = nil, want error")
	}
}
