package op

import (
	"context"
	"os"
	"path/filepath"
)

// finishWrite truncates (or creates) o.WritePath and writes o.WriteBytes.
// If a file already existed there, its previous bytes are staged into
// FinishCtx.BackupDir first so the inverse can restore them; if nothing
// existed, the inverse is simply removing the file Write created.
func finishWrite(ctx context.Context, c *FinishCtx, o Op) (Finished, error) {
	var existed bool
	var backupPath string

	if prev, err := os.ReadFile(o.WritePath); err == nil {
		existed = true
		backupPath, err = c.backupBytes(o.WritePath, prev)
		if err != nil {
			return Finished{}, &OpError{Kind: KindWrite, Path: o.WritePath, Err: err}
		}
	} else if !os.IsNotExist(err) {
		return Finished{}, &OpError{Kind: KindWrite, Path: o.WritePath, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(o.WritePath), 0o700); err != nil {
		return Finished{}, &OpError{Kind: KindWrite, Path: o.WritePath, Err: err}
	}
	if err := os.WriteFile(o.WritePath, o.WriteBytes, 0o600); err != nil {
		return Finished{}, &OpError{Kind: KindWrite, Path: o.WritePath, Err: err}
	}

	return Finished{
		kind:         KindWrite,
		writePath:    o.WritePath,
		writeExisted: existed,
		writeBackup:  backupPath,
	}, nil
}
