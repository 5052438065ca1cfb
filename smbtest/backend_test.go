package smbtest

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"testing"

	"github.com/hirochachacha/go-smb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absfs/smbclient/engine/smb2engine"
)

func mountDefault(t *testing.T, b *Backend) smb2engine.Share {
	t.Helper()
	s, err := b.Connect(context.Background(), smb2engine.DialParams{User: "u"})
	require.NoError(t, err)
	sh, err := s.Mount(DefaultShare)
	require.NoError(t, err)
	return sh
}

func TestBackend_FileLifecycle(t *testing.T) {
	b := NewBackend()
	sh := mountDefault(t, b)

	f, err := sh.OpenFile(`dir\file.txt`, os.O_RDWR|os.O_CREATE, 0o644)
	require.Error(t, err, "parent does not exist")

	require.NoError(t, sh.Mkdir("dir", 0o755))
	f, err = sh.OpenFile(`dir\file.txt`, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	assert.Equal(t, 1, b.OpenFiles())

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.Equal(t, 0, b.OpenFiles())

	content, ok := b.File(DefaultShare, "/DIR/FILE.TXT")
	assert.True(t, ok, "lookups ignore case")
	assert.Equal(t, "hello", string(content))
	assert.Equal(t, []string{"file.txt"}, b.Names(DefaultShare, "/dir"))
}

func TestBackend_OpenFlags(t *testing.T) {
	b := NewBackend()
	b.AddFile(DefaultShare, "/f", []byte("abc"))
	sh := mountDefault(t, b)

	_, err := sh.OpenFile("f", os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	assert.ErrorIs(t, err, fs.ErrExist)

	_, err = sh.OpenFile("missing", os.O_RDONLY, 0)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	f, err := sh.OpenFile("f", os.O_WRONLY|os.O_TRUNC, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	content, _ := b.File(DefaultShare, "/f")
	assert.Empty(t, content)

	_, err = sh.OpenFile("", os.O_RDWR, 0)
	var re *smb2.ResponseError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StatusFileIsADirectory, re.Code)

	f, err = sh.OpenFile("ro", os.O_RDWR|os.O_CREATE, 0o444)
	require.NoError(t, err, "creating a read-only file is allowed")
	require.NoError(t, f.Close())
	_, err = sh.OpenFile("ro", os.O_RDWR, 0)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StatusAccessDenied, re.Code)

	f, err = sh.OpenFile("f", os.O_RDONLY, 0)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Write([]byte("x"))
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StatusAccessDenied, re.Code)
}

func TestBackend_DirectoryOps(t *testing.T) {
	b := NewBackend()
	b.AddFile(DefaultShare, "/a/b/c.txt", []byte("c"))
	sh := mountDefault(t, b)

	infos, err := sh.ReadDir("a")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "b", infos[0].Name())
	assert.True(t, infos[0].IsDir())

	var re *smb2.ResponseError
	err = sh.Remove(`a\b`)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StatusDirectoryNotEmpty, re.Code)

	err = sh.Mkdir("a", 0o755)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StatusNameCollision, re.Code)

	require.NoError(t, sh.Rename("a", "z"))
	assert.False(t, b.Exists(DefaultShare, "/a/b/c.txt"))
	content, ok := b.File(DefaultShare, "/z/b/c.txt")
	assert.True(t, ok)
	assert.Equal(t, "c", string(content))

	_, err = sh.ReadDir(`z\b\c.txt`)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StatusNotADirectory, re.Code)
}

func TestBackend_Chmod(t *testing.T) {
	b := NewBackend()
	b.AddFile(DefaultShare, "/f", nil)
	sh := mountDefault(t, b)

	require.NoError(t, sh.Chmod("f", 0o444))
	fi, err := sh.Stat("f")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o444), fi.Mode().Perm())

	require.NoError(t, sh.Chmod("f", 0o644))
	fi, err = sh.Stat("f")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o666), fi.Mode().Perm())
}

func TestBackend_Statfs(t *testing.T) {
	b := NewBackend()
	b.SetVolume(512, 100, 40, 30)
	sh := mountDefault(t, b)

	info, err := sh.Statfs("")
	require.NoError(t, err)
	assert.Equal(t, uint64(512), info.BlockSize())
	assert.Equal(t, uint64(100), info.TotalBlockCount())
	assert.Equal(t, uint64(40), info.FreeBlockCount())
	assert.Equal(t, uint64(30), info.AvailableBlockCount())
}

func TestBackend_Sessions(t *testing.T) {
	b := NewBackend()
	b.AddShare("Media")
	b.AddUser("alice", "secret")

	_, err := b.Connect(context.Background(), smb2engine.DialParams{User: "alice", Password: "wrong"})
	var re *smb2.ResponseError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StatusLogonFailure, re.Code)
	assert.Empty(t, b.Logins())

	s, err := b.Connect(context.Background(), smb2engine.DialParams{User: "alice", Password: "secret"})
	require.NoError(t, err)
	require.Len(t, b.Logins(), 1)

	names, err := s.ListSharenames()
	require.NoError(t, err)
	assert.Equal(t, []string{"IPC$", "Media", DefaultShare}, names)

	_, err = s.Mount("nope")
	require.ErrorAs(t, err, &re)
	assert.Equal(t, StatusBadNetworkName, re.Code)

	sh, err := s.Mount("media")
	require.NoError(t, err)
	require.NoError(t, sh.Umount())
	_, err = sh.Stat("")
	assert.ErrorIs(t, err, fs.ErrClosed)

	require.NoError(t, s.Logoff())
	require.NoError(t, s.Logoff())
	_, err = s.Mount(DefaultShare)
	assert.Error(t, err)
	assert.Equal(t, 1, b.CountOperations("logoff"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Connect(ctx, smb2engine.DialParams{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackend_InjectedErrors(t *testing.T) {
	b := NewBackend()
	b.AddFile(DefaultShare, "/f", []byte("x"))
	sh := mountDefault(t, b)
	boom := errors.New("boom")

	b.SetError("/f", boom)
	_, err := sh.Stat("f")
	assert.ErrorIs(t, err, boom)

	b.ClearErrors()
	b.SetOperationError("mkdir", boom)
	assert.ErrorIs(t, sh.Mkdir("d", 0o755), boom)
	_, err = sh.Stat("f")
	assert.NoError(t, err)

	b.ClearErrors()
	b.ClearOperations()
	require.NoError(t, sh.Mkdir("d", 0o755))
	ops := b.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, "mkdir", ops[0].Op)
	assert.Equal(t, DefaultShare, ops[0].Share)
	assert.Equal(t, "/d", ops[0].Path)
}

func TestBackend_ContextBoundShare(t *testing.T) {
	b := NewBackend()
	sh := mountDefault(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	bound := sh.WithContext(ctx)
	_, err := bound.Stat("")
	require.NoError(t, err)

	cancel()
	_, err = bound.Stat("")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = sh.Stat("")
	assert.NoError(t, err, "the unbound share is unaffected")
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":           "/",
		`a\b`:        "/a/b",
		"/a/./b/../": "/a",
		"a//b":       "/a/b",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizePath(in), in)
	}
}
