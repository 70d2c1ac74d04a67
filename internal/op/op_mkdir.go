package op

import (
	"context"
	"os"
)

// finishMkdir creates exactly one directory level. Its inverse is an Rm
// with dir set. Composition (L3) undoes children before their parent
// directory, so the directory is normally empty by then; the inverse does
// not check this, and a directory that still has contents is removed with
// them, after they are staged into the backup directory like any other Rm.
func finishMkdir(ctx context.Context, c *FinishCtx, o Op) (Finished, error) {
	if err := os.Mkdir(o.Path, 0o700); err != nil {
		return Finished{}, &OpError{Kind: KindMkdir, Path: o.Path, Err: err}
	}
	return Finished{kind: KindMkdir, mkdirPath: o.Path}, nil
}
