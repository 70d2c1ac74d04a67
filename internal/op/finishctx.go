package op

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/abcxyz/pkg/logging"
)

// FinishCtx is the scoped execution context carried into every Op.Finish
// call. It owns the backup directory that overwrite-inverting ops stage
// their pre-overwrite bytes into.
type FinishCtx struct {
	// BackupDir is a directory that exists and is writable for the lifetime
	// of the executor session. Ops whose inverse needs to preserve
	// overwritten bytes copy them here during Finish.
	BackupDir string

	// Clock is fakeable for tests; defaults to the real clock.
	Clock clock.Clock

	// Runner executes Command ops; defaults to ExecRunner.
	Runner CommandRunner

	// Dispatcher executes Function ops by calling into the embedded
	// scripting host; nil means Function ops always fail.
	Dispatcher FunctionDispatcher

	fs backupFS

	// backupSeq numbers each staged backup so two backups of the same path
	// within one session never overwrite each other.
	backupSeq int
}

// backupFS is the minimal os surface FinishCtx needs; split out so tests can
// fake it without needing a full fsprobe.FsProbe.
type backupFS interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type realBackupFS struct{}

func (realBackupFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (realBackupFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// NewFinishCtx creates a FinishCtx rooted at backupRoot. A fresh,
// timestamped subdirectory is used for this session's backups, the same way
// the teacher's render command roots backups at
// "$HOME/.abc/backups/$timestamp".
func NewFinishCtx(backupRoot string, clk clock.Clock) *FinishCtx {
	if clk == nil {
		clk = clock.New()
	}
	sessionDir := filepath.Join(backupRoot, clk.Now().UTC().Format(time.RFC3339Nano))
	return &FinishCtx{
		BackupDir: sessionDir,
		Clock:     clk,
		fs:        realBackupFS{},
	}
}

// Acquire ensures the backup directory exists. It must be called before the
// first Op.Finish in a session.
func (c *FinishCtx) Acquire() error {
	if err := c.fs.MkdirAll(c.BackupDir, 0o700); err != nil {
		return fmt.Errorf("creating backup directory %q: %w", c.BackupDir, err)
	}
	return nil
}

// Release is called when the executor session ends. It never removes the
// backup directory, whatever keep says: keep only selects which debug line
// is logged ("retaining" when true, "eligible for removal" when false).
// Removing the directory is left to the caller, since backups must remain
// valid until the user explicitly discards the deployment (spec.md Design
// Notes, "Backups for undo").
func (c *FinishCtx) Release(ctx context.Context, keep bool) {
	logger := logging.FromContext(ctx).With("logger", "FinishCtx.Release")
	if keep {
		logger.DebugContext(ctx, "retaining backup directory", "path", c.BackupDir)
		return
	}
	logger.DebugContext(ctx, "backup directory eligible for removal", "path", c.BackupDir)
}

// backupPath returns a fresh location under BackupDir for staging a backup
// tagged tag; every call yields a distinct path.
func (c *FinishCtx) backupPath(tag string) string {
	c.backupSeq++
	return filepath.Join(c.BackupDir, strconv.Itoa(c.backupSeq), tag)
}

// backupBytes stages b under a path derived from originalPath, returning
// the backup path so the inverse op can reference it later.
func (c *FinishCtx) backupBytes(originalPath string, b []byte) (string, error) {
	tag := backupTag(originalPath)
	dst := c.backupPath(tag)
	if err := c.fs.MkdirAll(filepath.Dir(dst), 0o700); err != nil {
		return "", fmt.Errorf("creating backup parent for %q: %w", originalPath, err)
	}
	if err := c.fs.WriteFile(dst, b, 0o600); err != nil {
		return "", fmt.Errorf("writing backup for %q: %w", originalPath, err)
	}
	return dst, nil
}

// backupTag turns an absolute path into a filesystem-safe relative path
// underneath BackupDir, preserving enough structure for debugging.
func backupTag(absPath string) string {
	return filepath.Join("files", filepath.FromSlash(absPath))
}

// backupTree stages an entire directory tree rooted at srcRoot underneath
// BackupDir, returning the root of the staged copy.
func (c *FinishCtx) backupTree(srcRoot string) (string, error) {
	dst := c.backupPath(backupTag(srcRoot))
	if err := c.fs.MkdirAll(dst, 0o700); err != nil {
		return "", fmt.Errorf("creating backup dir for %q: %w", srcRoot, err)
	}
	if err := copyTree(srcRoot, dst); err != nil {
		return "", fmt.Errorf("backing up tree %q: %w", srcRoot, err)
	}
	return dst, nil
}
