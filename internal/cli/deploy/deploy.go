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

// Package deploy implements "dotctl deploy": load a package, resolve its
// action stream, and run it through the Executor, journaling as it goes.
//
// Grounded on the teacher's templates/commands/render/render.go Run
// pipeline (parse flags -> set up logging -> load source -> execute ->
// report), generalized with this system's journal/backup bookkeeping.
package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abcxyz/pkg/cli"
	"github.com/abcxyz/pkg/logging"
	"github.com/benbjohnson/clock"

	"github.com/mirryi/dotctl/internal/action"
	dotctlcli "github.com/mirryi/dotctl/internal/cli"
	"github.com/mirryi/dotctl/internal/executor"
	"github.com/mirryi/dotctl/internal/fsprobe"
	"github.com/mirryi/dotctl/internal/op"
	"github.com/mirryi/dotctl/internal/pkgdata"
	"github.com/mirryi/dotctl/internal/resolve"
	"github.com/mirryi/dotctl/internal/ui"
)

const journalDirName = ".dotctl"

// Command implements cli.Command for "dotctl deploy".
type Command struct {
	cli.BaseCommand
	flags Flags
}

func (c *Command) Desc() string {
	return "materialize a package's directives onto the filesystem"
}

func (c *Command) Help() string {
	return `
Usage: {{ COMMAND }} [options] <package>

The {{ COMMAND }} command deploys the package at the given directory: it
reads its dotfile.yaml, resolves every directive against the live state of
the destination, and applies the resulting filesystem operations, recording
an undo journal as it goes.`
}

func (c *Command) Flags() *cli.FlagSet {
	set := c.NewFlagSet()
	c.flags.Register(set)
	return set
}

func (c *Command) Run(ctx context.Context, args []string) error {
	if err := c.Flags().Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	f := c.flags

	logger := logging.FromContext(ctx).With("logger", "deploy")

	if f.Dest == "" {
		return &dotctlcli.RunError{Code: 2, Err: fmt.Errorf("--dest is required (or $HOME must be set)")}
	}

	unread := pkgdata.NewUnreadPackage(f.Package)
	read, err := unread.Load()
	if err != nil {
		return &dotctlcli.RunError{Code: 1, Err: fmt.Errorf("loading package: %w", err)}
	}
	evaluated, err := read.Evaluate(f.Vars)
	if err != nil {
		return &dotctlcli.RunError{Code: 1, Err: fmt.Errorf("evaluating package: %w", err)}
	}

	stream := action.NewStream(evaluated, f.Dest)
	resolver := resolve.New(fsprobe.Real{})
	printer := ui.New(c.Stdout(), ui.Verbosity(f.Verbosity()))

	if f.DryRun {
		return c.runDryRun(ctx, stream, resolver, printer)
	}

	dotctlDir := filepath.Join(f.Dest, journalDirName)
	if err := os.MkdirAll(dotctlDir, 0o700); err != nil {
		return &dotctlcli.RunError{Code: 1, Err: fmt.Errorf("creating %s: %w", dotctlDir, err)}
	}

	journalPath := filepath.Join(dotctlDir, "journal.yaml")
	jf, err := os.Create(journalPath)
	if err != nil {
		return &dotctlcli.RunError{Code: 1, Err: fmt.Errorf("creating journal: %w", err)}
	}
	defer jf.Close()

	fctx := op.NewFinishCtx(filepath.Join(dotctlDir, "backups"), clock.New())
	ex := executor.New(resolver, fctx, executor.NewJournal(jf))
	ex.Reporter = printer

	if err := ex.Run(ctx, stream); err != nil {
		logger.ErrorContext(ctx, "deployment failed", "error", err)
		return &dotctlcli.RunError{Code: 1, Err: err}
	}

	if !f.KeepJournal {
		if err := os.Remove(journalPath); err != nil {
			logger.WarnContext(ctx, "failed to remove journal after successful deployment", "error", err)
		}
	}

	return nil
}

func (c *Command) runDryRun(ctx context.Context, stream *action.Stream, resolver *resolve.Resolver, printer *ui.Printer) error {
	// A throwaway executor is enough to reuse the action->Res dispatch
	// without ever touching a FinishCtx or journal.
	ex := executor.New(resolver, nil, nil)
	for {
		a, ok, err := stream.Next()
		if err != nil {
			return &dotctlcli.RunError{Code: 1, Err: err}
		}
		if !ok {
			return nil
		}
		res, err := ex.Resolve(ctx, a)
		if err != nil {
			return &dotctlcli.RunError{Code: 1, Err: err}
		}
		printer.Resolved(a, res)
	}
}
