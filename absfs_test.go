package smbclient

import (
	"io"
	"io/fs"
	"os"
	"testing"

	absfsCore "github.com/absfs/absfs"
	"github.com/absfs/fstesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absfs/smbclient/smbtest"
)

func setupAbsFS(t *testing.T) (*AbsFS, *smbtest.Backend) {
	t.Helper()
	c, backend, _ := setupClient(t)
	return NewAbsFS(c), backend
}

func TestAbsFS_InterfaceCompliance(t *testing.T) {
	var _ absfsCore.FileSystem = (*AbsFS)(nil)
	var _ absfsCore.File = (*fsFile)(nil)
}

// TestAbsFS_Suite runs the absfs conformance suite against the in-memory
// backend. SMB only maps the owner write bit to the read-only attribute,
// so Unix permissions are not checked.
func TestAbsFS_Suite(t *testing.T) {
	fsys, _ := setupAbsFS(t)

	suite := &fstesting.Suite{
		FS: fsys,
		Features: fstesting.Features{
			Symlinks:      false,
			HardLinks:     false,
			Permissions:   false,
			Timestamps:    true,
			CaseSensitive: false,
			AtomicRename:  true,
			SparseFiles:   false,
			LargeFiles:    true,
		},
		TestDir:     "/fstesting",
		KeepTestDir: false,
	}
	suite.Run(t)
}

func TestAbsFS_QuickCheck(t *testing.T) {
	fsys, backend := setupAbsFS(t)
	backend.AddDir(smbtest.DefaultShare, "/tmp")

	suite := &fstesting.Suite{FS: fsys}
	suite.QuickCheck(t)
}

func TestAbsFS_Separators(t *testing.T) {
	fsys, _ := setupAbsFS(t)
	assert.Equal(t, uint8('/'), fsys.Separator())
	assert.Equal(t, uint8(':'), fsys.ListSeparator())
	assert.Equal(t, "/tmp", fsys.TempDir())
}

func TestAbsFS_WorkingDirectory(t *testing.T) {
	fsys, backend := setupAbsFS(t)
	backend.AddFile(smbtest.DefaultShare, "/projects/app/main.go", []byte("package main"))

	wd, err := fsys.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/", wd)

	require.NoError(t, fsys.Chdir("/projects"))
	wd, err = fsys.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/projects", wd)

	f, err := fsys.Open("app/main.go")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "package main", string(data))

	require.NoError(t, fsys.MkdirAll("build/out", 0o755))
	assert.True(t, backend.Exists(smbtest.DefaultShare, "/projects/build/out"))

	require.NoError(t, fsys.RemoveAll("build"))
	assert.False(t, backend.Exists(smbtest.DefaultShare, "/projects/build"))

	err = fsys.Chdir("/projects/app/main.go")
	assert.Error(t, err, "chdir into a file")
	err = fsys.Chdir("/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestAbsFS_Truncate(t *testing.T) {
	fsys, backend := setupAbsFS(t)
	backend.AddFile(smbtest.DefaultShare, "/log.txt", []byte("hello, world"))

	require.NoError(t, fsys.Truncate("/log.txt", 5))
	content, _ := backend.File(smbtest.DefaultShare, "/log.txt")
	assert.Equal(t, "hello", string(content))

	require.NoError(t, fsys.Truncate("/log.txt", 8))
	content, _ = backend.File(smbtest.DefaultShare, "/log.txt")
	assert.Equal(t, "hello\x00\x00\x00", string(content))

	require.NoError(t, fsys.Truncate("/log.txt", 0))
	content, _ = backend.File(smbtest.DefaultShare, "/log.txt")
	assert.Empty(t, content)

	assert.ErrorIs(t, fsys.Truncate("/missing", 0), fs.ErrNotExist)
	assert.Error(t, fsys.Truncate("/log.txt", -1))

	backend.AddDir(smbtest.DefaultShare, "/dir")
	assert.Error(t, fsys.Truncate("/dir", 0))
}

func TestAbsFS_ErrorSemantics(t *testing.T) {
	fsys, backend := setupAbsFS(t)
	backend.AddDir(smbtest.DefaultShare, "/exists")

	_, err := fsys.Stat("/nope")
	assert.True(t, os.IsNotExist(err), "got %v", err)

	_, err = fsys.OpenFile("/nope", os.O_RDONLY, 0)
	assert.True(t, os.IsNotExist(err), "got %v", err)

	err = fsys.Mkdir("/exists", 0o755)
	assert.True(t, os.IsExist(err), "got %v", err)

	assert.NoError(t, fsys.RemoveAll("/nope"), "missing paths are not an error")
}
