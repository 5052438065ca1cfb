package smbclient

import (
	"github.com/absfs/smbclient/engine"
)

// ListDir returns the entries of the directory at p, without "." and "..".
// Entries the engine returns in a form that cannot be decoded are logged
// and skipped.
func (c *Client) ListDir(p string) ([]Dirent, error) {
	var entries []Dirent
	err := c.do("list_dir", p, func(ctx engine.Context) error {
		readdir, err := resolve[engine.ReaddirFunc](ctx, engine.OpReaddir)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		entries, err = enumerate[engine.Dirent, Dirent](ctx, c.log, u, readdir, decodeDirent,
			func(d Dirent) string { return d.Name })
		return err
	})
	return entries, err
}

// ListDirPlus is ListDir with per-entry metadata.
func (c *Client) ListDirPlus(p string) ([]DirentInfo, error) {
	var entries []DirentInfo
	err := c.do("list_dirplus", p, func(ctx engine.Context) error {
		readdirplus, err := resolve[engine.ReaddirPlusFunc](ctx, engine.OpReaddirPlus)
		if err != nil {
			return err
		}
		u, err := c.url(p)
		if err != nil {
			return err
		}
		entries, err = enumerate[engine.DirentPlus, DirentInfo](ctx, c.log, u, readdirplus, decodeDirentInfo,
			func(d DirentInfo) string { return d.Name })
		return err
	})
	return entries, err
}

// enumerate runs opendir, readdir until the end marker, then closedir.
// Both opendir and closedir are resolved before the directory is opened so
// that an opened directory is always closed exactly once.
func enumerate[R, T any](
	ctx engine.Context,
	log logger,
	url string,
	readdir func(engine.Context, *engine.File) *R,
	decode func(*R) (T, error),
	name func(T) string,
) ([]T, error) {
	opendir, err := resolve[engine.OpendirFunc](ctx, engine.OpOpendir)
	if err != nil {
		return nil, err
	}
	closedir, err := resolve[engine.ClosedirFunc](ctx, engine.OpClosedir)
	if err != nil {
		return nil, err
	}

	dir, err := checkDescriptor(ctx, opendir(ctx, url))
	if err != nil {
		log.errorf("failed to open directory %s: %v", url, err)
		return nil, err
	}
	// The closedir result is not reported.
	defer closedir(ctx, dir)

	entries := make([]T, 0)
	for {
		raw := readdir(ctx, dir)
		if raw == nil {
			break
		}
		entry, err := decode(raw)
		if err != nil {
			log.errorf("skipping entry in %s: %v", url, err)
			continue
		}
		switch name(entry) {
		case "", ".", "..":
			continue
		}
		entries = append(entries, entry)
	}
	log.tracef("decoded %d entries from %s", len(entries), url)
	return entries, nil
}
