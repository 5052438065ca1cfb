package smb2engine

import (
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw   string
		host  string
		share string
		path  string
	}{
		{"smb://server/share/dir/file.txt", "server:445", "share", "dir/file.txt"},
		{"smb://server:10445/share", "server:10445", "share", ""},
		{"smb://server/share/", "server:445", "share", ""},
		{"smb://server/", "server:445", "", ""},
		{"smb://server", "server:445", "", ""},
		{"smb://", "", "", ""},
		{"smb://user@server/share/a", "server:445", "share", "a"},
		{"smb://WG;user:pw@server/share/a", "server:445", "share", "a"},
		{"smb://[::1]/share", "[::1]:445", "share", ""},
		{"smb://[::1]:10445/share", "[::1]:10445", "share", ""},
		{"//server/share/x", "server:445", "share", "x"},
		{"smb://server/share//double//slash/", "server:445", "share", "double//slash"},
		{"smb://server/share/with%20space", "server:445", "share", "with%20space"},
		{"smb://server/share/a/../b", "server:445", "share", "a/../b"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u := parseURL(tt.raw)
			if u.host != tt.host {
				t.Errorf("host = %q, want %q", u.host, tt.host)
			}
			if u.share != tt.share {
				t.Errorf("share = %q, want %q", u.share, tt.share)
			}
			if u.path != tt.path {
				t.Errorf("path = %q, want %q", u.path, tt.path)
			}
		})
	}
}

func TestSMBURL_Helpers(t *testing.T) {
	u := parseURL("smb://fileserver:10445/Data/reports/q1.txt")

	if got := u.hostname(); got != "fileserver" {
		t.Errorf("hostname() = %q, want fileserver", got)
	}
	if got := u.smbPath(); got != `reports\q1.txt` {
		t.Errorf("smbPath() = %q, want reports\\q1.txt", got)
	}
	if got := u.base(); got != "q1.txt" {
		t.Errorf("base() = %q, want q1.txt", got)
	}
	if got := parseURL("smb://fileserver/Data").base(); got != "Data" {
		t.Errorf("base() of share root = %q, want Data", got)
	}
}

func TestSMBURL_SameShare(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"smb://server/share/a", "smb://server/share/b", true},
		{"smb://SERVER/Share/a", "smb://server/share/b", true},
		{"smb://server/share/a", "smb://server/other/b", false},
		{"smb://server/share/a", "smb://other/share/b", false},
		{"smb://server:445/share/a", "smb://server/share/b", true},
		{"smb://server:10445/share/a", "smb://server/share/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+" "+tt.b, func(t *testing.T) {
			if got := parseURL(tt.a).sameShare(parseURL(tt.b)); got != tt.want {
				t.Errorf("sameShare() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToSMBPath(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"/":         "",
		"a":         "a",
		"/a/b/c":    `a\b\c`,
		"dir/file":  `dir\file`,
		"/trailing": "trailing",
	}
	for in, want := range tests {
		if got := toSMBPath(in); got != want {
			t.Errorf("toSMBPath(%q) = %q, want %q", in, got, want)
		}
	}
}
