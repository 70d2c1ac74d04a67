// Package fsprobe is a thin, stateful, read-only view of the filesystem.
//
// The resolver's decisions about the live state of a destination path
// funnel through an FsProbe, so tests can inject a fake and exercise
// resolution logic without touching a real filesystem. The Tree action's
// subtree hash comparison is the exception: it reads the real filesystem.
package fsprobe

import (
	"errors"
	"io/fs"
	"os"
)

// Meta is the subset of file metadata the resolver needs. It always
// reflects symlink (lstat) metadata, never the metadata of a symlink's
// target.
type Meta struct {
	IsFile    bool
	IsDir     bool
	IsSymlink bool
}

// FsProbe answers read-only questions about the live filesystem. All
// queries return the zero value / false for both genuine non-existence and
// permission errors; the resolver treats those two cases identically.
type FsProbe interface {
	// Meta returns the symlink metadata for path, or (Meta{}, false) if the
	// path doesn't exist or can't be inspected.
	Meta(path string) (Meta, bool)

	// ReadLink returns the target of the symlink at path, or ("", false) if
	// path isn't a symlink or can't be read.
	ReadLink(path string) (string, bool)

	// ReadToString returns the full contents of the file at path, or
	// ("", false) if it can't be read as a regular file.
	ReadToString(path string) (string, bool)

	// ExistsSymlink reports whether path has any symlink metadata at all,
	// equivalent to Meta(path) returning ok=true.
	ExistsSymlink(path string) bool
}

// Real is the FsProbe backed by the actual OS filesystem.
type Real struct{}

var _ FsProbe = Real{}

func (Real) Meta(path string) (Meta, bool) {
	info, err := os.Lstat(path)
	if err != nil {
		// Insufficient permissions; treat as nonexistent, same as a genuine
		// ENOENT. The resolver can't usefully distinguish the two.
		return Meta{}, false
	}
	mode := info.Mode()
	return Meta{
		IsFile:    mode.IsRegular(),
		IsDir:     mode.IsDir(),
		IsSymlink: mode&os.ModeSymlink != 0,
	}, true
}

func (Real) ReadLink(path string) (string, bool) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", false
	}
	return target, true
}

func (Real) ReadToString(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (r Real) ExistsSymlink(path string) bool {
	_, ok := r.Meta(path)
	return ok
}

// IsNotExist reports whether err represents a path that doesn't exist, the
// same condition FsProbe collapses permission errors into.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
