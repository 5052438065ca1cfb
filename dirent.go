package smbclient

import (
	"fmt"
	"time"

	"github.com/absfs/smbclient/engine"
)

// DirentType is the kind of object a directory entry names.
type DirentType uint32

const (
	DirentWorkgroup    DirentType = DirentType(engine.TypeWorkgroup)
	DirentServer       DirentType = DirentType(engine.TypeServer)
	DirentFileShare    DirentType = DirentType(engine.TypeFileShare)
	DirentPrinterShare DirentType = DirentType(engine.TypePrinterShare)
	DirentCommsShare   DirentType = DirentType(engine.TypeCommsShare)
	DirentIPCShare     DirentType = DirentType(engine.TypeIPCShare)
	DirentDir          DirentType = DirentType(engine.TypeDir)
	DirentFile         DirentType = DirentType(engine.TypeFile)
	DirentLink         DirentType = DirentType(engine.TypeLink)
)

// String returns a human-readable name for the type.
func (t DirentType) String() string {
	switch t {
	case DirentWorkgroup:
		return "Workgroup"
	case DirentServer:
		return "Server"
	case DirentFileShare:
		return "FileShare"
	case DirentPrinterShare:
		return "PrinterShare"
	case DirentCommsShare:
		return "CommsShare"
	case DirentIPCShare:
		return "IPCShare"
	case DirentDir:
		return "Dir"
	case DirentFile:
		return "File"
	case DirentLink:
		return "Link"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(t))
	}
}

func (t DirentType) valid() bool {
	return t >= DirentWorkgroup && t <= DirentLink
}

// IsShare reports whether the entry is a share of any kind.
func (t DirentType) IsShare() bool {
	return t >= DirentFileShare && t <= DirentIPCShare
}

// Dirent is an entry returned by ListDir.
type Dirent struct {
	Name    string
	Comment string
	Type    DirentType
}

func (d Dirent) String() string {
	return d.Name + ":" + d.Type.String()
}

// DirentInfo is an entry returned by ListDirPlus.
type DirentInfo struct {
	Name       string
	ShortName  string
	Size       uint64
	Attrs      Attributes
	UID        uint32
	GID        uint32
	BirthTime  time.Time
	ModTime    time.Time
	AccessTime time.Time
	ChangeTime time.Time
}

// Type derives the entry type from its attributes.
func (d DirentInfo) Type() DirentType {
	if d.Attrs.IsDir() {
		return DirentDir
	}
	return DirentFile
}

// IsDir reports whether the entry is a directory.
func (d DirentInfo) IsDir() bool {
	return d.Attrs.IsDir()
}

// decodeDirent validates a raw record. The name must be valid text and the
// type one of the known kinds; a bad comment is dropped.
func decodeDirent(raw *engine.Dirent) (Dirent, error) {
	name, err := decodeString(raw.Name)
	if err != nil {
		return Dirent{}, fmt.Errorf("entry name: %w", err)
	}
	typ := DirentType(raw.Type)
	if !typ.valid() {
		return Dirent{}, fmt.Errorf("entry %q: %w: type %d", name, ErrBadValue, raw.Type)
	}
	comment, _ := cString(raw.Comment)
	return Dirent{Name: name, Comment: comment, Type: typ}, nil
}

func decodeDirentInfo(raw *engine.DirentPlus) (DirentInfo, error) {
	name, err := decodeString(raw.Name)
	if err != nil {
		return DirentInfo{}, fmt.Errorf("entry name: %w", err)
	}
	short, _ := cString(raw.ShortName)
	return DirentInfo{
		Name:       name,
		ShortName:  short,
		Size:       raw.Size,
		Attrs:      Attributes(raw.Attrs),
		UID:        raw.UID,
		GID:        raw.GID,
		BirthTime:  raw.BirthTime.Time(),
		ModTime:    raw.ModifyTime.Time(),
		AccessTime: raw.AccessTime.Time(),
		ChangeTime: raw.ChangeTime.Time(),
	}, nil
}
