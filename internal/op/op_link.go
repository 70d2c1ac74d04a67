package op

import (
	"context"
	"fmt"
	"os"
	"runtime"
)

// ErrUnsupportedPlatform is returned by Link.Finish on platforms where the
// core declines to attempt a platform-specific symlink API rather than risk
// non-deterministic behavior (spec.md Design Notes, open question (b)).
var ErrUnsupportedPlatform = fmt.Errorf("symlink creation is not supported on %s", runtime.GOOS)

// finishLink creates a symlink at dest pointing to src. Its inverse is a
// plain removal of the link; no content backup is needed because a symlink
// has no bytes of its own to preserve.
func finishLink(ctx context.Context, c *FinishCtx, o Op) (Finished, error) {
	if runtime.GOOS == "windows" {
		return Finished{}, &OpError{Kind: KindLink, Path: o.Dest, Err: ErrUnsupportedPlatform}
	}
	if err := os.Symlink(o.Src, o.Dest); err != nil {
		return Finished{}, &OpError{Kind: KindLink, Path: o.Dest, Err: err}
	}
	return Finished{kind: KindLink, linkDest: o.Dest}, nil
}
