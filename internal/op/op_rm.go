package op

import (
	"context"
	"os"
)

// finishRm removes the file, symlink, or directory at o.RmPath. Before
// removing, it stages enough state into FinishCtx.BackupDir for the
// inverse to fully restore what was there:
//   - a symlink's target is remembered directly (no backup file needed);
//   - a regular file's bytes are copied into the backup dir;
//   - a directory's entire subtree (even an empty one) is copied into the
//     backup dir, so the inverse can restore it with a single Copy;
//   - an already-absent path needs nothing backed up at all.
func finishRm(ctx context.Context, c *FinishCtx, o Op) (Finished, error) {
	info, err := os.Lstat(o.RmPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Already gone; removing is a no-op, and so is its inverse.
			return Finished{kind: KindRm, rmPath: o.RmPath, rmDir: o.RmDir}, nil
		}
		return Finished{}, &OpError{Kind: KindRm, Path: o.RmPath, Err: err}
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(o.RmPath)
		if err != nil {
			return Finished{}, &OpError{Kind: KindRm, Path: o.RmPath, Err: err}
		}
		if err := os.Remove(o.RmPath); err != nil {
			return Finished{}, &OpError{Kind: KindRm, Path: o.RmPath, Err: err}
		}
		return Finished{
			kind:            KindRm,
			rmPath:          o.RmPath,
			rmDir:           o.RmDir,
			rmWasSymlink:    true,
			rmSymlinkTarget: target,
		}, nil
	}

	if !o.RmDir || !info.IsDir() {
		prev, rerr := os.ReadFile(o.RmPath)
		if rerr != nil {
			return Finished{}, &OpError{Kind: KindRm, Path: o.RmPath, Err: rerr}
		}
		backupPath, berr := c.backupBytes(o.RmPath, prev)
		if berr != nil {
			return Finished{}, &OpError{Kind: KindRm, Path: o.RmPath, Err: berr}
		}
		if err := os.Remove(o.RmPath); err != nil {
			return Finished{}, &OpError{Kind: KindRm, Path: o.RmPath, Err: err}
		}
		return Finished{kind: KindRm, rmPath: o.RmPath, rmDir: o.RmDir, rmBackupPath: backupPath}, nil
	}

	// Directory removal.
	backupPath, err := c.backupTree(o.RmPath)
	if err != nil {
		return Finished{}, &OpError{Kind: KindRm, Path: o.RmPath, Err: err}
	}
	if err := os.RemoveAll(o.RmPath); err != nil {
		return Finished{}, &OpError{Kind: KindRm, Path: o.RmPath, Err: err}
	}
	return Finished{kind: KindRm, rmPath: o.RmPath, rmDir: true, rmBackupPath: backupPath}, nil
}
