package smbclient

import (
	"io/fs"
	"path"
	"time"

	"github.com/absfs/smbclient/engine"
)

// Metadata is the result of Stat.
type Metadata struct {
	Dev      uint64
	Ino      uint64
	Mode     Mode
	IsDir    bool
	Nlink    uint64
	UID      uint32
	GID      uint32
	Rdev     uint64
	Size     int64
	Blksize  int64
	Blocks   int64
	Accessed time.Time
	Modified time.Time
	Created  time.Time
}

func metadataFromStat(st *engine.Stat) Metadata {
	return Metadata{
		Dev:      st.Dev,
		Ino:      st.Ino,
		Mode:     Mode(st.Mode & 0o777),
		IsDir:    st.Mode&engine.ModeTypeMask == engine.ModeDir,
		Nlink:    st.Nlink,
		UID:      st.UID,
		GID:      st.GID,
		Rdev:     st.Rdev,
		Size:     st.Size,
		Blksize:  st.Blksize,
		Blocks:   st.Blocks,
		Accessed: st.Atim.Time(),
		Modified: st.Mtim.Time(),
		Created:  st.Ctim.Time(),
	}
}

// FileMode combines the permission bits with the directory flag.
func (m Metadata) FileMode() fs.FileMode {
	mode := m.Mode.FileMode()
	if m.IsDir {
		mode |= fs.ModeDir
	}
	return mode
}

// FileInfo presents the metadata of the file at p as an fs.FileInfo.
func (m Metadata) FileInfo(p string) fs.FileInfo {
	return &fileInfo{name: path.Base(p), meta: m}
}

// FilesystemMetadata is the result of StatVFS.
type FilesystemMetadata struct {
	BlockSize       uint64
	FragmentSize    uint64
	Blocks          uint64
	BlocksFree      uint64
	BlocksAvailable uint64
	Files           uint64
	FilesFree       uint64
	FilesAvailable  uint64
	FSID            uint64
	Flags           uint64
	NameMax         uint64
}

func filesystemMetadataFromStatVFS(st *engine.StatVFS) FilesystemMetadata {
	return FilesystemMetadata{
		BlockSize:       st.Bsize,
		FragmentSize:    st.Frsize,
		Blocks:          st.Blocks,
		BlocksFree:      st.Bfree,
		BlocksAvailable: st.Bavail,
		Files:           st.Files,
		FilesFree:       st.Ffree,
		FilesAvailable:  st.Favail,
		FSID:            st.Fsid,
		Flags:           st.Flag,
		NameMax:         st.Namemax,
	}
}

// fileInfo implements fs.FileInfo over Metadata.
type fileInfo struct {
	name string
	meta Metadata
}

func (fi *fileInfo) Name() string {
	return fi.name
}

func (fi *fileInfo) Size() int64 {
	return fi.meta.Size
}

func (fi *fileInfo) Mode() fs.FileMode {
	return fi.meta.FileMode()
}

func (fi *fileInfo) ModTime() time.Time {
	return fi.meta.Modified
}

func (fi *fileInfo) IsDir() bool {
	return fi.meta.IsDir
}

func (fi *fileInfo) Sys() any {
	return fi.meta
}
