package smbclient

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sort"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absfs/smbclient/smbtest"
)

func setupFs(t *testing.T) (*FileSystem, *smbtest.Backend) {
	t.Helper()
	c, backend, _ := setupClient(t)
	return NewFs(c), backend
}

func TestFileSystem_InterfaceCompliance(t *testing.T) {
	var _ afero.Fs = (*FileSystem)(nil)
	var _ afero.File = (*fsFile)(nil)
}

func TestFileSystem_Name(t *testing.T) {
	fsys, _ := setupFs(t)
	assert.Equal(t, "smb://test-server/testshare", fsys.Name())
}

func TestFileSystem_WriteReadFile(t *testing.T) {
	fsys, backend := setupFs(t)

	require.NoError(t, afero.WriteFile(fsys, "/notes.txt", []byte("first version"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/notes.txt", []byte("second"), 0o644))

	data, err := afero.ReadFile(fsys, "/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data), "Create truncates")

	stored, _ := backend.File(smbtest.DefaultShare, "/notes.txt")
	assert.Equal(t, "second", string(stored))
}

func TestFileSystem_Stat(t *testing.T) {
	fsys, backend := setupFs(t)
	backend.AddFile(smbtest.DefaultShare, "/dir/file.txt", []byte("abc"))

	tests := []struct {
		name  string
		path  string
		isDir bool
		size  int64
	}{
		{"file", "/dir/file.txt", false, 3},
		{"windows separators", `\dir\file.txt`, false, 3},
		{"relative", "dir/file.txt", false, 3},
		{"directory", "/dir", true, 0},
		{"share root", "/", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := fsys.Stat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.isDir, info.IsDir())
			if !tt.isDir {
				assert.Equal(t, tt.size, info.Size())
				assert.Equal(t, "file.txt", info.Name())
			}
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := fsys.Stat("/nope")
		assert.True(t, os.IsNotExist(err), "got %v", err)

		var pe *fs.PathError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "stat", pe.Op)
	})

	t.Run("escaping the share", func(t *testing.T) {
		_, err := fsys.Stat("../etc/passwd")
		assert.ErrorIs(t, err, ErrBadValue)
	})
}

func TestFileSystem_Exists(t *testing.T) {
	fsys, backend := setupFs(t)
	backend.AddFile(smbtest.DefaultShare, "/a", nil)

	ok, err := afero.Exists(fsys, "/a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = afero.Exists(fsys, "/b")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = afero.DirExists(fsys, "/")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileSystem_MkdirAll(t *testing.T) {
	fsys, backend := setupFs(t)

	require.NoError(t, fsys.MkdirAll("/a/b/c", 0o755))
	assert.True(t, backend.Exists(smbtest.DefaultShare, "/a"))
	assert.True(t, backend.Exists(smbtest.DefaultShare, "/a/b"))
	assert.True(t, backend.Exists(smbtest.DefaultShare, "/a/b/c"))

	// Existing directories are fine.
	require.NoError(t, fsys.MkdirAll("/a/b", 0o755))

	backend.AddFile(smbtest.DefaultShare, "/a/file", nil)
	err := fsys.MkdirAll("/a/file/sub", 0o755)
	assert.Error(t, err)
	err = fsys.MkdirAll("/a/file", 0o755)
	assert.ErrorIs(t, err, syscall.ENOTDIR, "a file is in the way")
}

func TestFileSystem_Mkdir(t *testing.T) {
	fsys, _ := setupFs(t)

	require.NoError(t, fsys.Mkdir("/dir", 0o755))
	err := fsys.Mkdir("/dir", 0o755)
	assert.True(t, os.IsExist(err), "got %v", err)

	err = fsys.Mkdir("/missing/dir", 0o755)
	assert.True(t, os.IsNotExist(err), "got %v", err)
}

func TestFileSystem_Remove(t *testing.T) {
	fsys, backend := setupFs(t)
	backend.AddFile(smbtest.DefaultShare, "/dir/file", []byte("x"))

	err := fsys.Remove("/dir")
	assert.Error(t, err, "directory is not empty")

	require.NoError(t, fsys.Remove("/dir/file"))
	require.NoError(t, fsys.Remove("/dir"))
	assert.False(t, backend.Exists(smbtest.DefaultShare, "/dir"))

	err = fsys.Remove("/dir")
	assert.True(t, os.IsNotExist(err), "got %v", err)
}

func TestFileSystem_RemoveAll(t *testing.T) {
	fsys, backend := setupFs(t)
	share := smbtest.DefaultShare
	backend.AddFile(share, "/tree/a.txt", []byte("a"))
	backend.AddFile(share, "/tree/sub/b.txt", []byte("b"))
	backend.AddDir(share, "/tree/sub/empty")
	backend.AddFile(share, "/keep.txt", []byte("k"))

	require.NoError(t, fsys.RemoveAll("/tree"))
	assert.False(t, backend.Exists(share, "/tree"))
	assert.True(t, backend.Exists(share, "/keep.txt"))

	assert.NoError(t, fsys.RemoveAll("/tree"), "missing path is not an error")

	require.NoError(t, fsys.RemoveAll("/keep.txt"))
	assert.False(t, backend.Exists(share, "/keep.txt"))
}

func TestFileSystem_Rename(t *testing.T) {
	fsys, backend := setupFs(t)
	backend.AddFile(smbtest.DefaultShare, "/old/file.txt", []byte("content"))

	require.NoError(t, fsys.Rename("/old", "/new"))

	data, err := afero.ReadFile(fsys, "/new/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	_, err = fsys.Stat("/old")
	assert.True(t, os.IsNotExist(err))
}

func TestFileSystem_ChmodChtimes(t *testing.T) {
	fsys, backend := setupFs(t)
	backend.AddFile(smbtest.DefaultShare, "/f", nil)

	require.NoError(t, fsys.Chmod("/f", 0o444))
	info, err := fsys.Stat("/f")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o444), info.Mode())

	require.NoError(t, fsys.Chmod("/f", 0o644))
	info, err = fsys.Stat("/f")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o666), info.Mode(), "SMB only keeps the read-only bit")

	mtime := time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, fsys.Chtimes("/f", mtime, mtime))
	info, err = fsys.Stat("/f")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))

	assert.ErrorIs(t, fsys.Chown("/f", 1000, 1000), ErrUnsupportedOperation)
}

func TestFileSystem_ReadDir(t *testing.T) {
	fsys, backend := setupFs(t)
	share := smbtest.DefaultShare
	backend.AddFile(share, "/d/zeta", []byte("zz"))
	backend.AddFile(share, "/d/alpha", []byte("a"))
	backend.AddDir(share, "/d/mid")

	infos, err := afero.ReadDir(fsys, "/d")
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "alpha", infos[0].Name())
	assert.Equal(t, int64(1), infos[0].Size())
	assert.Equal(t, "mid", infos[1].Name())
	assert.True(t, infos[1].IsDir())
	assert.Equal(t, "zeta", infos[2].Name())
}

func TestFileSystem_ReaddirCount(t *testing.T) {
	fsys, backend := setupFs(t)
	for _, name := range []string{"/d/1", "/d/2", "/d/3"} {
		backend.AddFile(smbtest.DefaultShare, name, nil)
	}

	f, err := fsys.Open("/d")
	require.NoError(t, err)
	defer f.Close()

	first, err := f.Readdir(2)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	rest, err := f.Readdirnames(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, rest)

	_, err = f.Readdir(1)
	assert.Equal(t, io.EOF, err)

	all, err := f.Readdir(-1)
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileSystem_DirectoryFile(t *testing.T) {
	fsys, backend := setupFs(t)
	backend.AddDir(smbtest.DefaultShare, "/d")
	backend.AddFile(smbtest.DefaultShare, "/f", []byte("x"))

	d, err := fsys.Open("/d")
	require.NoError(t, err)
	_, err = d.Read(make([]byte, 1))
	assert.Error(t, err)
	info, err := d.Stat()
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, d.Close())

	f, err := fsys.Open("/f")
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Readdir(-1)
	assert.Error(t, err)
}

func TestFileSystem_ReadAtWriteAt(t *testing.T) {
	fsys, backend := setupFs(t)
	backend.AddFile(smbtest.DefaultShare, "/f", []byte("hello world"))

	f, err := fsys.OpenFile("/f", os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 5)
	n, err := f.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, "world", string(buf[:n]))

	// The offset is unchanged by ReadAt.
	n, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	_, err = f.WriteAt([]byte("WORLD"), 6)
	require.NoError(t, err)

	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)

	n, err = f.ReadAt(make([]byte, 20), 6)
	assert.Equal(t, 5, n)
	assert.Equal(t, io.EOF, err)

	data, _ := backend.File(smbtest.DefaultShare, "/f")
	assert.Equal(t, "hello WORLD", string(data))

	assert.ErrorIs(t, f.Truncate(0), ErrUnsupportedOperation)
	assert.NoError(t, f.Sync())
}

func TestFileSystem_OpenFileFlags(t *testing.T) {
	fsys, _ := setupFs(t)

	_, err := fsys.OpenFile("/new", os.O_RDONLY, 0)
	assert.True(t, os.IsNotExist(err), "got %v", err)

	f, err := fsys.OpenFile("/new", os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("one\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = fsys.OpenFile("/new", os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	assert.True(t, os.IsExist(err), "got %v", err)

	f, err = fsys.OpenFile("/new", os.O_WRONLY|os.O_APPEND, 0)
	require.NoError(t, err)
	_, err = f.WriteString("two\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := afero.ReadFile(fsys, "/new")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestFileSystem_Walk(t *testing.T) {
	fsys, backend := setupFs(t)
	share := smbtest.DefaultShare
	backend.AddFile(share, "/w/a.txt", nil)
	backend.AddFile(share, "/w/sub/b.txt", nil)
	backend.AddDir(share, "/w/sub/c")

	var visited []string
	err := afero.Walk(fsys, "/w", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, p)
		return nil
	})
	require.NoError(t, err)

	sort.Strings(visited)
	assert.Equal(t, []string{"/w", "/w/a.txt", "/w/sub", "/w/sub/b.txt", "/w/sub/c"}, visited)
}

func TestFileSystem_ClosedClient(t *testing.T) {
	fsys, _ := setupFs(t)
	require.NoError(t, fsys.client.Close())

	_, err := fsys.Stat("/")
	assert.True(t, errors.Is(err, ErrClosed), "got %v", err)
}
