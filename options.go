package smbclient

import (
	"fmt"
	"os"
	"strings"

	"github.com/absfs/smbclient/engine"
)

// EncryptionLevel selects how strongly the engine insists on SMB
// encryption.
type EncryptionLevel int

const (
	EncryptionNone EncryptionLevel = iota
	EncryptionRequest
	EncryptionRequire
)

// String returns the level name used in configuration files.
func (l EncryptionLevel) String() string {
	switch l {
	case EncryptionNone:
		return "none"
	case EncryptionRequest:
		return "request"
	case EncryptionRequire:
		return "require"
	default:
		return fmt.Sprintf("EncryptionLevel(%d)", int(l))
	}
}

// ParseEncryptionLevel parses "none", "request" or "require".
func ParseEncryptionLevel(s string) (EncryptionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return EncryptionNone, nil
	case "request":
		return EncryptionRequest, nil
	case "require":
		return EncryptionRequire, nil
	}
	return 0, fmt.Errorf("%w: unknown encryption level %q", ErrInvalidConfig, s)
}

// ShareMode is the share access requested when opening files, numbered as
// in libsmbclient.
type ShareMode int

const (
	ShareModeDenyDOS   ShareMode = 0
	ShareModeDenyAll   ShareMode = 1
	ShareModeDenyWrite ShareMode = 2
	ShareModeDenyRead  ShareMode = 3
	ShareModeDenyNone  ShareMode = 4
	ShareModeDenyFCB   ShareMode = 7
)

var shareModeNames = map[ShareMode]string{
	ShareModeDenyDOS:   "deny_dos",
	ShareModeDenyAll:   "deny_all",
	ShareModeDenyWrite: "deny_write",
	ShareModeDenyRead:  "deny_read",
	ShareModeDenyNone:  "deny_none",
	ShareModeDenyFCB:   "deny_fcb",
}

func (m ShareMode) String() string {
	if name, ok := shareModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ShareMode(%d)", int(m))
}

// ParseShareMode parses names such as "deny_none" or "deny-write".
func ParseShareMode(s string) (ShareMode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for mode, n := range shareModeNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown share mode %q", ErrInvalidConfig, s)
}

// Options configure the engine context. The zero value is not the engine
// default; start from DefaultOptions.
type Options struct {
	CaseSensitive           bool            `mapstructure:"case_sensitive"`
	UseKerberos             bool            `mapstructure:"use_kerberos"`
	FallbackAfterKerberos   bool            `mapstructure:"fallback_after_kerberos"`
	UseCCache               bool            `mapstructure:"use_ccache"`
	EncryptionLevel         EncryptionLevel `mapstructure:"encryption_level"`
	OpenShareMode           ShareMode       `mapstructure:"open_share_mode"`
	BrowseMaxLMBCount       int             `mapstructure:"browse_max_lmb_count"`
	NoAutoAnonymousLogin    bool            `mapstructure:"no_auto_anonymous_login"`
	OneSharePerServer       bool            `mapstructure:"one_share_per_server"`
	URLEncodeReaddirEntries bool            `mapstructure:"url_encode_readdir_entries"`
}

// DefaultOptions returns the engine's own defaults.
func DefaultOptions() Options {
	return Options{
		UseCCache:         true,
		EncryptionLevel:   EncryptionNone,
		OpenShareMode:     ShareModeDenyNone,
		BrowseMaxLMBCount: 3,
	}
}

func boolOption(b bool) int {
	if b {
		return 1
	}
	return 0
}

// apply pushes every option into ctx.
func (o Options) apply(ctx engine.Context) {
	ctx.SetOption(engine.OptionBrowseMaxLMBCount, o.BrowseMaxLMBCount)
	ctx.SetOption(engine.OptionCaseSensitive, boolOption(o.CaseSensitive))
	ctx.SetOption(engine.OptionFallbackAfterKerberos, boolOption(o.FallbackAfterKerberos))
	ctx.SetOption(engine.OptionNoAutoAnonymousLogin, boolOption(o.NoAutoAnonymousLogin))
	ctx.SetOption(engine.OptionOneSharePerServer, boolOption(o.OneSharePerServer))
	ctx.SetOption(engine.OptionOpenShareMode, int(o.OpenShareMode))
	ctx.SetOption(engine.OptionEncryptionLevel, int(o.EncryptionLevel))
	ctx.SetOption(engine.OptionURLEncodeReaddirEntries, boolOption(o.URLEncodeReaddirEntries))
	ctx.SetOption(engine.OptionUseCCache, boolOption(o.UseCCache))
	ctx.SetOption(engine.OptionUseKerberos, boolOption(o.UseKerberos))
}

// OpenOptions select how a file is opened.
type OpenOptions struct {
	Read     bool
	Write    bool
	Append   bool
	Create   bool
	Truncate bool

	// Exclusive makes Create fail if the file exists.
	Exclusive bool
	// Mode is used when the file is created. Zero means 0644.
	Mode Mode
}

// Flags converts the options to os.O_* open flags.
func (o OpenOptions) Flags() int {
	var flags int
	switch {
	case o.Read && (o.Write || o.Append):
		flags = os.O_RDWR
	case o.Write || o.Append:
		flags = os.O_WRONLY
	default:
		flags = os.O_RDONLY
	}
	if o.Append {
		flags |= os.O_APPEND
	}
	if o.Create {
		flags |= os.O_CREATE
	}
	if o.Truncate {
		flags |= os.O_TRUNC
	}
	if o.Exclusive {
		flags |= os.O_EXCL
	}
	return flags
}

func (o OpenOptions) mode() Mode {
	if o.Mode == 0 {
		return 0o644
	}
	return o.Mode
}

// openOptionsFromFlags is the inverse of Flags, used by the afero adapter.
func openOptionsFromFlags(flag int, mode Mode) OpenOptions {
	o := OpenOptions{
		Append:    flag&os.O_APPEND != 0,
		Create:    flag&os.O_CREATE != 0,
		Truncate:  flag&os.O_TRUNC != 0,
		Exclusive: flag&os.O_EXCL != 0,
		Mode:      mode,
	}
	switch flag & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR) {
	case os.O_WRONLY:
		o.Write = true
	case os.O_RDWR:
		o.Read, o.Write = true, true
	default:
		o.Read = true
	}
	return o
}
