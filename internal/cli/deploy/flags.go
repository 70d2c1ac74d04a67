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

package deploy

import (
	"fmt"
	"os"
	"strings"

	"github.com/abcxyz/pkg/cli"
	"github.com/posener/complete/v2/predict"
)

const defaultLogLevel = "warn"

// Flags describes one "dotctl deploy" invocation.
type Flags struct {
	// Package is the positional argument: a package directory containing a
	// dotfile.yaml.
	Package string

	// Dest is the target directory the package deploys into; defaults to
	// $HOME, mirroring the teacher's render command defaulting Dest to ".".
	Dest string

	// Vars provide the key=val scope passed to the package's directives,
	// analogous to render's --input.
	Vars map[string]string

	LogLevel    string
	DryRun      bool
	Force       bool
	KeepJournal bool
	Verbose     bool
	Quiet       bool
}

func (f *Flags) Register(set *cli.FlagSet) {
	s := set.NewSection("DEPLOY OPTIONS")

	s.StringVar(&cli.StringVar{
		Name:    "dest",
		Aliases: []string{"d"},
		Example: "/home/me",
		Target:  &f.Dest,
		Default: os.Getenv("HOME"),
		Predict: predict.Dirs("*"),
		Usage:   "The target directory to deploy the package into.",
	})

	s.StringMapVar(&cli.StringMapVar{
		Name:    "var",
		Example: "editor=nvim",
		Target:  &f.Vars,
		Usage:   "The key=val pairs passed to the package's template and function directives; may be repeated.",
	})

	s.StringVar(&cli.StringVar{
		Name:    "log-level",
		Example: "info",
		Default: defaultLogLevel,
		Target:  &f.LogLevel,
		Usage:   "Accepted but not applied; the log level comes from DOTCTL_LOG_LEVEL.",
	})

	s.BoolVar(&cli.BoolVar{
		Name:    "dry-run",
		Target:  &f.DryRun,
		Default: false,
		Usage:   "Resolve and print every action without applying any ops.",
	})

	s.BoolVar(&cli.BoolVar{
		Name:    "force",
		Target:  &f.Force,
		Default: false,
		Usage:   "Has no effect; existing destination files are overwritten without prompting either way.",
	})

	s.BoolVar(&cli.BoolVar{
		Name:    "keep-journal",
		Target:  &f.KeepJournal,
		Default: true,
		Usage:   "Keep the deployment journal after a successful commit, for later undo.",
	})

	s.BoolVar(&cli.BoolVar{
		Name:    "verbose",
		Target:  &f.Verbose,
		Default: false,
		Usage:   "Also print skipped actions and per-op detail.",
	})

	s.BoolVar(&cli.BoolVar{
		Name:    "quiet",
		Target:  &f.Quiet,
		Default: false,
		Usage:   "Print nothing but errors.",
	})

	set.AfterParse(func(existingErr error) error {
		f.Package = strings.TrimSpace(set.Arg(0))
		if f.Package == "" {
			return fmt.Errorf("missing <package> argument")
		}
		return nil
	})
}

// Verbosity translates the Quiet/Verbose flag pair into an internal/ui
// Verbosity level: --quiet wins over --verbose if both are set.
func (f *Flags) Verbosity() int {
	switch {
	case f.Quiet:
		return 0
	case f.Verbose:
		return 2
	default:
		return 1
	}
}
