package op

import (
	"context"

	"github.com/abcxyz/pkg/logging"
)

// FunctionDispatcher invokes a function hook registered in the embedded
// scripting host. The core stores only the opaque FunctionHandle and never
// introspects it (spec.md Design Notes, "Embedded scripting host"); calling
// it is entirely delegated to this interface.
type FunctionDispatcher interface {
	Call(ctx context.Context, handle FunctionHandle, args map[string]string) error
}

// finishFunction invokes a registered callback in the embedded host.
// Rollback for function hooks is undefined (spec.md Design Notes); like
// Command, a failure aborts the action without compensating any external
// side effect the function already committed.
func finishFunction(ctx context.Context, c *FinishCtx, o Op) (Finished, error) {
	logger := logging.FromContext(ctx).With("logger", "op.Function")
	if c.Dispatcher == nil {
		return Finished{}, &OpError{Kind: KindFunction, Path: o.Function.Name, Err: errNoDispatcher}
	}
	logger.DebugContext(ctx, "dispatching function hook", "handle", o.Function.Name)
	if err := c.Dispatcher.Call(ctx, o.Function, o.FunctionArgs); err != nil {
		return Finished{}, &OpError{Kind: KindFunction, Path: o.Function.Name, Err: err}
	}
	return Finished{kind: KindFunction}, nil
}
