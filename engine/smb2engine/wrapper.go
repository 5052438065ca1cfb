package smb2engine

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/hirochachacha/go-smb2"
)

// realSession wraps a go-smb2 Session to implement Session.
type realSession struct {
	session *smb2.Session
	conn    net.Conn
}

func (s *realSession) Mount(shareName string) (Share, error) {
	share, err := s.session.Mount(shareName)
	if err != nil {
		return nil, err
	}
	return &realShare{share: share}, nil
}

func (s *realSession) ListSharenames() ([]string, error) {
	return s.session.ListSharenames()
}

// Logoff ends the session. The TCP connection is closed even if the logoff
// request fails.
func (s *realSession) Logoff() error {
	err := s.session.Logoff()
	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

// realShare wraps a go-smb2 Share to implement Share.
type realShare struct {
	share *smb2.Share
}

func (sh *realShare) WithContext(ctx context.Context) Share {
	return &realShare{share: sh.share.WithContext(ctx)}
}

func (sh *realShare) OpenFile(name string, flag int, perm fs.FileMode) (File, error) {
	file, err := sh.share.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (sh *realShare) Stat(name string) (fs.FileInfo, error) {
	return sh.share.Stat(name)
}

func (sh *realShare) Statfs(name string) (FsInfo, error) {
	return sh.share.Statfs(name)
}

func (sh *realShare) ReadDir(name string) ([]fs.FileInfo, error) {
	return sh.share.ReadDir(name)
}

func (sh *realShare) Mkdir(name string, perm fs.FileMode) error {
	return sh.share.Mkdir(name, perm)
}

func (sh *realShare) Remove(name string) error {
	return sh.share.Remove(name)
}

func (sh *realShare) Rename(oldname, newname string) error {
	return sh.share.Rename(oldname, newname)
}

func (sh *realShare) Chmod(name string, mode fs.FileMode) error {
	return sh.share.Chmod(name, mode)
}

func (sh *realShare) Chtimes(name string, atime, mtime time.Time) error {
	return sh.share.Chtimes(name, atime, mtime)
}

func (sh *realShare) Umount() error {
	return sh.share.Umount()
}

// NetConnectionFactory dials SMB servers over TCP and authenticates with
// NTLM.
type NetConnectionFactory struct {
	// ClientGUID identifies this client to servers (zero = random per
	// connection).
	ClientGUID uuid.UUID
}

// Connect dials params.Addr and sets up a session.
func (f *NetConnectionFactory) Connect(ctx context.Context, params DialParams) (Session, error) {
	dialer := &net.Dialer{
		Timeout: params.Timeout,
	}

	netConn, err := dialer.DialContext(ctx, "tcp", params.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", params.Addr, err)
	}

	guid := f.ClientGUID
	if guid == uuid.Nil {
		guid = uuid.New()
	}

	user := params.User
	if user == "" {
		// go-smb2 has no anonymous login
		user = defaultUser
	}

	d := &smb2.Dialer{
		Negotiator: smb2.Negotiator{
			RequireMessageSigning: params.RequireSigning,
			ClientGuid:            guid,
		},
		Initiator: &smb2.NTLMInitiator{
			User:        user,
			Password:    params.Password,
			Domain:      params.Domain,
			Workstation: params.Workstation,
		},
	}

	session, err := d.DialContext(ctx, netConn)
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("SMB session setup failed: %w", err)
	}

	return &realSession{session: session, conn: netConn}, nil
}
