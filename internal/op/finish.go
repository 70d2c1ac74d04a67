package op

import (
	"context"
	"errors"
)

var errNoDispatcher = errors.New("no function dispatcher configured")

// Finish executes o against the live filesystem (or, for Command/Function,
// against whatever external system they target), returning a Finished
// value whose Rollback() is the inverse Op.
//
// Per spec.md §4.3 law L1, Finish is deterministic: given identical
// filesystem state it produces identical observable effects and an
// identical inverse.
func (o Op) Finish(ctx context.Context, c *FinishCtx) (Finished, error) {
	switch o.Kind {
	case KindLink:
		return finishLink(ctx, c, o)
	case KindCopy:
		return finishCopy(ctx, c, o)
	case KindCreate:
		return finishCreate(ctx, c, o)
	case KindWrite:
		return finishWrite(ctx, c, o)
	case KindMkdir:
		return finishMkdir(ctx, c, o)
	case KindRm:
		return finishRm(ctx, c, o)
	case KindCommand:
		return finishCommand(ctx, c, o)
	case KindFunction:
		return finishFunction(ctx, c, o)
	case KindNoOp:
		return Finished{kind: KindNoOp}, nil
	default:
		return Finished{}, &OpError{Kind: o.Kind, Path: o.path(), Err: errors.New("unknown op kind")}
	}
}

// IsNoInverse reports whether f's inverse is a KindNoOp, i.e. f came from
// finishing a Command or Function op (or an Rm of a path that was already
// absent).
func (f Finished) IsNoInverse() bool {
	return f.Rollback().Kind == KindNoOp
}
