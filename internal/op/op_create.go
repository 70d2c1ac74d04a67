package op

import (
	"context"
	"os"
	"path/filepath"
)

// finishCreate creates an empty file at o.Path. Its inverse removes it.
func finishCreate(ctx context.Context, c *FinishCtx, o Op) (Finished, error) {
	if err := os.MkdirAll(filepath.Dir(o.Path), 0o700); err != nil {
		return Finished{}, &OpError{Kind: KindCreate, Path: o.Path, Err: err}
	}
	f, err := os.OpenFile(o.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return Finished{}, &OpError{Kind: KindCreate, Path: o.Path, Err: err}
	}
	if err := f.Close(); err != nil {
		return Finished{}, &OpError{Kind: KindCreate, Path: o.Path, Err: err}
	}
	return Finished{kind: KindCreate, createPath: o.Path}, nil
}
