// Copyright 2026 The Authors (see AUTHORS file)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package executor drives an action.Stream through the resolver and the
// primitive Op model, appending each op's inverse to a Journal as it
// succeeds and emitting a Commit once an action's ops all land.
//
// There's no single teacher file this mirrors one-to-one: the step loop is
// grounded on templates/commands/render/render.go's per-step execution
// loop, generalized with the spec's journal/rollback bookkeeping the
// teacher doesn't need (it never undoes a render).
package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/abcxyz/pkg/logging"

	"github.com/mirryi/dotctl/internal/action"
	"github.com/mirryi/dotctl/internal/journal"
	"github.com/mirryi/dotctl/internal/op"
	"github.com/mirryi/dotctl/internal/resolve"
)

// Renderer renders a template action's source file against vars, producing
// the bytes a Write op should land at dest. Template engines are an
// external collaborator per spec.md §1 ("Out of scope") — the core only
// depends on this interface, the same way op.FunctionDispatcher keeps the
// embedded scripting host opaque.
type Renderer interface {
	Render(ctx context.Context, kind action.Kind, templateSrc string, vars map[string]string) ([]byte, error)
}

// Marshaler turns a Generated{Yaml,Toml,Json} action's Data into the bytes a
// Write op lands at dest. Unlike Renderer this isn't an external
// collaborator — it's plain structured-data serialization — so the default
// Marshalers value backs it directly rather than requiring injection.
type Marshaler interface {
	Marshal(data any) ([]byte, error)
}

// Reporter receives a per-action status as the executor resolves and
// applies it, so a caller (internal/ui, or a test) can observe progress
// without the executor depending on any printer.
type Reporter interface {
	Resolved(a action.Action, res resolve.Res)
	Applied(a action.Action, o op.Op)
}

// noopReporter discards everything; New installs it so an Executor built by
// New is usable without wiring one up.
type noopReporter struct{}

func (noopReporter) Resolved(action.Action, resolve.Res) {}
func (noopReporter) Applied(action.Action, op.Op)         {}

// ErrRolledBack wraps the original failure that triggered an in-transaction
// rollback, also surfacing whether the rollback itself completed cleanly.
type ErrRolledBack struct {
	Cause       error
	RollbackErr error
}

func (e *ErrRolledBack) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("action failed (%v); rollback also failed: %v", e.Cause, e.RollbackErr)
	}
	return fmt.Sprintf("action failed, rolled back: %v", e.Cause)
}

func (e *ErrRolledBack) Unwrap() error { return e.Cause }

// Executor drives actions to completion against the live filesystem,
// journaling an inverse for every op it applies.
type Executor struct {
	Resolver  *resolve.Resolver
	FinishCtx *op.FinishCtx
	Journal   *journal.Journal[JournalOp]

	Renderer   Renderer
	Marshalers Marshalers
	Reporter   Reporter
}

// New builds an Executor with the default yaml/toml/json Marshalers and a
// Reporter that discards everything. No Renderer is set.
func New(r *resolve.Resolver, fctx *op.FinishCtx, j *journal.Journal[JournalOp]) *Executor {
	return &Executor{
		Resolver:   r,
		FinishCtx:  fctx,
		Journal:    j,
		Marshalers: defaultMarshalers(),
		Reporter:   noopReporter{},
	}
}

// Run drives every action in the stream to completion in order, stopping at
// the first error (spec.md §4.5's ordering guarantee: ops within an action
// run in resolver order; actions run in the stream's order).
func (e *Executor) Run(ctx context.Context, stream *action.Stream) error {
	logger := logging.FromContext(ctx).With("logger", "executor")

	if err := e.FinishCtx.Acquire(); err != nil {
		return fmt.Errorf("executor: acquiring backup directory: %w", err)
	}
	failed := false
	defer func() {
		e.FinishCtx.Release(ctx, failed)
	}()

	for {
		a, ok, err := stream.Next()
		if err != nil {
			failed = true
			return fmt.Errorf("executor: reading next action: %w", err)
		}
		if !ok {
			return nil
		}
		if err := e.RunAction(ctx, a); err != nil {
			failed = true
			logger.ErrorContext(ctx, "action failed", "action", a.String(), "error", err)
			return err
		}
	}
}

// RunAction resolves and applies a single action. Resolution errors are
// surfaced without touching the journal (spec.md §7: "nothing was
// performed"); op errors trigger immediate in-transaction rollback.
func (e *Executor) RunAction(ctx context.Context, a action.Action) error {
	logger := logging.FromContext(ctx).With("logger", "executor")

	res, err := e.resolve(ctx, a)
	if err != nil {
		return fmt.Errorf("executor: resolving %s: %w", a.String(), err)
	}
	e.Reporter.Resolved(a, res)

	if res.Outcome == resolve.Skip {
		logger.DebugContext(ctx, "skipped action", "action", a.String(), "reason", res.Reason.String())
		return nil
	}

	for _, o := range res.Ops {
		finished, ferr := o.Finish(ctx, e.FinishCtx)
		if ferr != nil {
			rerr := e.rollbackTransaction(ctx)
			return &ErrRolledBack{Cause: ferr, RollbackErr: rerr}
		}
		e.Reporter.Applied(a, o)
		logger.DebugContext(ctx, "finished op", "kind", o.Kind.String())

		if err := e.Journal.AppendAction(e.wrap(finished.Rollback())); err != nil {
			// Fatal to the session: the journal's state is now indeterminate
			// (spec.md §7), so the executor doesn't attempt to continue or
			// roll back a write that may not have landed.
			return fmt.Errorf("executor: journal error, state indeterminate: %w", err)
		}
	}

	if err := e.Journal.AppendCommit(); err != nil {
		return fmt.Errorf("executor: journal error appending commit, state indeterminate: %w", err)
	}
	return nil
}

// rollbackTransaction unwinds whatever ops of the current action already
// succeeded, via the journal's own rollback iterator.
func (e *Executor) rollbackTransaction(ctx context.Context) error {
	if _, err := e.Journal.Rollback().Drain(ctx); err != nil {
		return err
	}
	return nil
}

// wrap adapts an op.Op into this executor's FinishCtx-carrying JournalOp so
// it satisfies journal.Invertible without the FinishCtx itself ever hitting
// the wire.
func (e *Executor) wrap(o op.Op) JournalOp {
	return JournalOp{Op: o, fctx: e.FinishCtx}
}

// Resolve exposes the action-to-Res dispatch without applying anything, for
// callers (like a --dry-run CLI path) that want to preview a deployment.
func (e *Executor) Resolve(ctx context.Context, a action.Action) (resolve.Res, error) {
	return e.resolve(ctx, a)
}

// resolve dispatches an Action to the matching Resolver method, rendering
// or marshaling template/generated actions down to the Write op path
// spec.md §4.2 says they share.
func (e *Executor) resolve(ctx context.Context, a action.Action) (resolve.Res, error) {
	switch a.Kind {
	case action.KindLink:
		return e.Resolver.LinkAction(a.Src, a.Dest, a.Copy, a.Optional)
	case action.KindWrite:
		return e.Resolver.WriteAction(a.Dest, a.Contents), nil
	case action.KindMkdir:
		return e.Resolver.MkdirAction(a.Dest, a.Parents), nil
	case action.KindTree:
		return e.Resolver.TreeAction(a.Src, a.Dest, a.Copy)
	case action.KindHandlebars, action.KindLiquid:
		if e.Renderer == nil {
			return resolve.Res{}, errors.New("executor: no Renderer configured for templated action")
		}
		rendered, err := e.Renderer.Render(ctx, a.Kind, a.Src, a.Vars)
		if err != nil {
			return resolve.Res{}, fmt.Errorf("rendering %q: %w", a.Src, err)
		}
		return e.Resolver.WriteAction(a.Dest, rendered), nil
	case action.KindYAML:
		b, err := e.Marshalers.YAML.Marshal(a.Data)
		if err != nil {
			return resolve.Res{}, fmt.Errorf("marshaling yaml for %q: %w", a.Dest, err)
		}
		return e.Resolver.WriteAction(a.Dest, b), nil
	case action.KindTOML:
		b, err := e.Marshalers.TOML.Marshal(a.Data)
		if err != nil {
			return resolve.Res{}, fmt.Errorf("marshaling toml for %q: %w", a.Dest, err)
		}
		return e.Resolver.WriteAction(a.Dest, b), nil
	case action.KindJSON:
		b, err := e.Marshalers.JSON.Marshal(a.Data)
		if err != nil {
			return resolve.Res{}, fmt.Errorf("marshaling json for %q: %w", a.Dest, err)
		}
		return e.Resolver.WriteAction(a.Dest, b), nil
	case action.KindCommand:
		return resolve.Res{Outcome: resolve.Normal, Ops: []op.Op{
			op.NewCommand(a.CommandLine, a.CommandEnv, a.CommandDir),
		}}, nil
	case action.KindFunction:
		return resolve.Res{Outcome: resolve.Normal, Ops: []op.Op{
			op.NewFunction(a.Function, a.FunctionArgs),
		}}, nil
	default:
		return resolve.Res{}, fmt.Errorf("executor: unsupported action kind %q", a.Kind)
	}
}
