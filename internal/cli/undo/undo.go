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

// Package undo implements "dotctl undo": open a previously-written journal
// and replay it backwards, via journal.RollbackIter, against the live
// filesystem.
package undo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abcxyz/pkg/cli"
	"github.com/abcxyz/pkg/logging"
	"github.com/benbjohnson/clock"

	dotctlcli "github.com/mirryi/dotctl/internal/cli"
	"github.com/mirryi/dotctl/internal/executor"
	"github.com/mirryi/dotctl/internal/op"
	"github.com/mirryi/dotctl/internal/ui"
)

const journalDirName = ".dotctl"

// Command implements cli.Command for "dotctl undo".
type Command struct {
	cli.BaseCommand
	flags Flags
}

func (c *Command) Desc() string {
	return "roll back a previous deployment using its journal"
}

func (c *Command) Help() string {
	return `
Usage: {{ COMMAND }} [options]

The {{ COMMAND }} command opens the journal left by a previous "dotctl
deploy" at --dest and replays it backwards, applying each record's inverse
operation to the live filesystem.`
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
	logger := logging.FromContext(ctx).With("logger", "undo")

	dotctlDir := filepath.Join(f.Dest, journalDirName)
	journalPath := filepath.Join(dotctlDir, "journal.yaml")

	jf, err := os.OpenFile(journalPath, os.O_RDWR, 0o600)
	if err != nil {
		return &dotctlcli.RunError{Code: 1, Err: fmt.Errorf("opening journal %s: %w", journalPath, err)}
	}
	defer jf.Close()

	fctx := op.NewFinishCtx(filepath.Join(dotctlDir, "backups"), clock.New())
	if err := fctx.Acquire(); err != nil {
		return &dotctlcli.RunError{Code: 1, Err: err}
	}

	records, err := executor.LoadJournal(jf, fctx)
	if err != nil {
		return &dotctlcli.RunError{Code: 1, Err: fmt.Errorf("loading journal: %w", err)}
	}

	// Append further records at the end of the same file.
	if _, err := jf.Seek(0, os.SEEK_END); err != nil {
		return &dotctlcli.RunError{Code: 1, Err: err}
	}
	j := executor.ResumeJournal(jf, records)

	var iter interface {
		Drain(ctx context.Context) ([]executor.JournalOp, error)
	}

	if f.All {
		iter = j.Rollback()
	} else {
		ri, ok := j.RollbackLast()
		if !ok {
			return &dotctlcli.RunError{Code: 1, Err: fmt.Errorf("journal at %s doesn't end in a committed transaction", journalPath)}
		}
		iter = ri
	}

	redos, err := iter.Drain(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "rollback failed", "error", err)
		return &dotctlcli.RunError{Code: 1, Err: err}
	}

	if !f.Quiet {
		printer := ui.New(c.Stdout(), ui.Normal)
		for _, redo := range redos {
			printer.RolledBack(redo.Op)
		}
	}

	fctx.Release(ctx, true)
	return nil
}
