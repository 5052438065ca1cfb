package smbclient

import (
	"errors"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"simple path", "/path/to/file", "/path/to/file"},
		{"windows-style path", "\\path\\to\\file", "/path/to/file"},
		{"mixed separators", "/path\\to/file", "/path/to/file"},
		{"path with ..", "/path/to/../file", "/path/file"},
		{"path with .", "/path/./to/file", "/path/to/file"},
		{"path without leading slash", "path/to/file", "/path/to/file"},
		{"case is preserved", "/PATH/To/FILE", "/PATH/To/FILE"},
		{"multiple slashes", "/path///to////file", "/path/to/file"},
		{"trailing slash", "/path/to/dir/", "/path/to/dir"},
		{"root path", "/", "/"},
		{"empty becomes root", "", "/"},
		{"cannot climb above root", "/../../x", "/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizePath(tt.path)

			if result != tt.expected {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		dir      string
		name     string
		expected string
	}{
		{"/path", "file", "/path/file"},
		{"", "file", "/file"},
		{"/", "file", "/file"},
		{"\\path\\to", "file", "/path/to/file"},
	}

	for _, tt := range tests {
		t.Run(tt.dir+"+"+tt.name, func(t *testing.T) {
			result := joinPath(tt.dir, tt.name)

			if result != tt.expected {
				t.Errorf("joinPath(%q, %q) = %q, want %q", tt.dir, tt.name, result, tt.expected)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "valid path",
			path:    "/path/to/file",
			wantErr: false,
		},
		{
			name:    "valid windows path",
			path:    "\\path\\to\\file",
			wantErr: false,
		},
		{
			name:    "valid relative path",
			path:    "path/to/file",
			wantErr: false,
		},
		{
			name:    "empty path is the share root",
			path:    "",
			wantErr: false,
		},
		{
			name:    "path with null byte",
			path:    "/path/to\x00/file",
			wantErr: true,
		},
		{
			name:    "path traversal with leading ..",
			path:    "../../../etc/passwd",
			wantErr: true,
		},
		{
			name:    "bare ..",
			path:    "..",
			wantErr: true,
		},
		{
			name:    "path traversal in middle (becomes /etc/passwd which is valid)",
			path:    "/path/../../etc/passwd",
			wantErr: false,
		},
		{
			name:    "safe path with ..",
			path:    "/path/to/../file",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePath(tt.path)

			if tt.wantErr && !errors.Is(err, ErrBadValue) {
				t.Errorf("validatePath(%q) = %v, want ErrBadValue", tt.path, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validatePath(%q) unexpected error = %v", tt.path, err)
			}
		})
	}
}

func TestBuildURI(t *testing.T) {
	tests := []struct {
		server   string
		share    string
		expected string
	}{
		{"smb://localhost", "share", "smb://localhost/share"},
		{"localhost", "share", "smb://localhost/share"},
		{"smb://localhost", "/share", "smb://localhost/share"},
		{"smb://localhost:1445", "", "smb://localhost:1445/"},
		{"cifs://localhost", "share", "cifs://localhost/share"},
		{"localhost/", "share", "smb://localhost//share"},
		{"localhost", "my share", "smb://localhost/my share"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := buildURI(tt.server, tt.share); got != tt.expected {
				t.Errorf("buildURI(%q, %q) = %q, want %q", tt.server, tt.share, got, tt.expected)
			}
		})
	}
}
