package smbclient

import (
	"io/fs"
	"strings"
)

// DOS file attribute bits (MS-FSCC 2.6) as carried by ListDirPlus entries.
const (
	AttrReadOnly          Attributes = 0x00000001
	AttrHidden            Attributes = 0x00000002
	AttrSystem            Attributes = 0x00000004
	AttrVolume            Attributes = 0x00000008
	AttrDirectory         Attributes = 0x00000010
	AttrArchive           Attributes = 0x00000020
	AttrDevice            Attributes = 0x00000040
	AttrNormal            Attributes = 0x00000080
	AttrTemporary         Attributes = 0x00000100
	AttrSparseFile        Attributes = 0x00000200
	AttrReparsePoint      Attributes = 0x00000400
	AttrCompressed        Attributes = 0x00000800
	AttrOffline           Attributes = 0x00001000
	AttrNotContentIndexed Attributes = 0x00002000
	AttrEncrypted         Attributes = 0x00004000
)

// Attributes is a set of DOS file attribute bits.
type Attributes uint32

var attributeNames = []struct {
	bit  Attributes
	name string
}{
	{AttrReadOnly, "ReadOnly"},
	{AttrHidden, "Hidden"},
	{AttrSystem, "System"},
	{AttrVolume, "Volume"},
	{AttrDirectory, "Directory"},
	{AttrArchive, "Archive"},
	{AttrDevice, "Device"},
	{AttrTemporary, "Temporary"},
	{AttrSparseFile, "Sparse"},
	{AttrReparsePoint, "ReparsePoint"},
	{AttrCompressed, "Compressed"},
	{AttrOffline, "Offline"},
	{AttrNotContentIndexed, "NotContentIndexed"},
	{AttrEncrypted, "Encrypted"},
}

// Has reports whether every bit of flag is set.
func (a Attributes) Has(flag Attributes) bool {
	return a&flag == flag
}

func (a Attributes) IsDir() bool          { return a.Has(AttrDirectory) }
func (a Attributes) IsReadOnly() bool     { return a.Has(AttrReadOnly) }
func (a Attributes) IsHidden() bool       { return a.Has(AttrHidden) }
func (a Attributes) IsSystem() bool       { return a.Has(AttrSystem) }
func (a Attributes) IsArchive() bool      { return a.Has(AttrArchive) }
func (a Attributes) IsReparsePoint() bool { return a.Has(AttrReparsePoint) }

// String lists the set attributes, e.g. "ReadOnly|Hidden". An empty set,
// or one with only AttrNormal, is "Normal".
func (a Attributes) String() string {
	var names []string
	for _, n := range attributeNames {
		if a.Has(n.bit) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "Normal"
	}
	return strings.Join(names, "|")
}

// FileMode maps the attributes to a unix mode. The mapping is lossy:
// read-only drops the write bits and reparse points become symlinks.
func (a Attributes) FileMode() fs.FileMode {
	var mode fs.FileMode = 0o666
	if a.IsDir() {
		mode = fs.ModeDir | 0o777
	}
	if a.IsReadOnly() {
		mode &^= 0o222
	}
	if a.IsReparsePoint() {
		mode |= fs.ModeSymlink
	}
	if a.Has(AttrDevice) {
		mode |= fs.ModeDevice
	}
	return mode
}

// AttributesFromFileMode is the inverse of FileMode. Regular files get the
// archive bit, as Windows sets it on creation.
func AttributesFromFileMode(mode fs.FileMode) Attributes {
	var a Attributes
	if mode&0o222 == 0 {
		a |= AttrReadOnly
	}
	if mode.IsDir() {
		a |= AttrDirectory
	}
	if mode&fs.ModeSymlink != 0 {
		a |= AttrReparsePoint
	}
	if mode&fs.ModeDevice != 0 {
		a |= AttrDevice
	}
	if mode.IsRegular() {
		a |= AttrArchive
	}
	if a == 0 {
		a = AttrNormal
	}
	return a
}
