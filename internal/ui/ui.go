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

// Package ui renders per-action status lines and content diffs for the
// CLI layer. It's independently unit-testable and never touches the
// filesystem itself — it only formats what the executor reports.
//
// Grounded on the teacher's isatty.IsTerminal-gated color usage in
// templates/commands/render/render.go and templates/common/input/input.go.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/mirryi/dotctl/internal/action"
	"github.com/mirryi/dotctl/internal/op"
	"github.com/mirryi/dotctl/internal/resolve"
)

// Verbosity mirrors spec.md §6's --verbosity/--quiet CLI knobs: a printer
// threshold, kept distinct from the logging package's level.
type Verbosity int

const (
	// Quiet prints nothing but errors.
	Quiet Verbosity = iota
	// Normal prints one line per non-skipped action.
	Normal
	// Verbose also prints skipped actions and per-op detail.
	Verbose
)

// Printer writes colorized, human-readable status lines for a deployment.
type Printer struct {
	w     io.Writer
	level Verbosity
	color bool
}

// New builds a Printer writing to w. Color is enabled only when w is a
// terminal, the same isatty gate the teacher applies before using
// fatih/color.
func New(w io.Writer, level Verbosity) *Printer {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd())
	}
	return &Printer{w: w, level: level, color: useColor}
}

func (p *Printer) colorize(c *color.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

// Resolved prints one status line for a resolved action, following
// spec.md's Res outcomes: Normal/Overwrite get a verb and the action's
// description; Skip is only shown at Verbose. Nothing is shown at Quiet.
func (p *Printer) Resolved(a action.Action, res resolve.Res) {
	if p.level == Quiet {
		return
	}
	switch res.Outcome {
	case resolve.Normal:
		fmt.Fprintf(p.w, "%s %s\n", p.colorize(color.New(color.FgGreen), "link"), a.String())
	case resolve.Overwrite:
		fmt.Fprintf(p.w, "%s %s\n", p.colorize(color.New(color.FgYellow), "overwrite"), a.String())
	case resolve.Skip:
		if p.level < Verbose {
			return
		}
		fmt.Fprintf(p.w, "%s %s (%s)\n", p.colorize(color.New(color.FgHiBlack), "skip"), a.String(), res.Reason.String())
	}
}

// Applied prints a per-op trace line, shown only at Verbose.
func (p *Printer) Applied(a action.Action, o op.Op) {
	if p.level < Verbose {
		return
	}
	fmt.Fprintf(p.w, "  %s %s\n", p.colorize(color.New(color.FgCyan), o.Kind.String()), o.Dest)
}

// RolledBack prints a status line for an inverse op applied during undo.
func (p *Printer) RolledBack(o op.Op) {
	if p.level == Quiet {
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.colorize(color.New(color.FgMagenta), "rollback"), o.Kind.String())
}

// Diff renders an inline diff between old and new file contents, with
// insertions and deletions marked by ANSI colors. No CLI command prints it.
func Diff(old, new string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}
