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

package undo

import (
	"fmt"
	"os"

	"github.com/abcxyz/pkg/cli"
	"github.com/posener/complete/v2/predict"
)

// Flags describes one "dotctl undo" invocation.
type Flags struct {
	// Dest is the directory a package was previously deployed into; its
	// .dotctl/journal.yaml is opened for rollback.
	Dest string

	// Last rewinds exactly one committed transaction
	// (journal.Journal.RollbackLast). All rewinds only the trailing run of
	// records after the latest Commit (journal.Journal.Rollback), such as
	// an interrupted deployment; a journal that ends in a Commit is left
	// unchanged. All takes precedence over Last; with neither set, Last's
	// behavior applies.
	Last bool
	All  bool

	Quiet bool
}

func (f *Flags) Register(set *cli.FlagSet) {
	s := set.NewSection("UNDO OPTIONS")

	s.StringVar(&cli.StringVar{
		Name:    "dest",
		Aliases: []string{"d"},
		Example: "/home/me",
		Target:  &f.Dest,
		Default: os.Getenv("HOME"),
		Predict: predict.Dirs("*"),
		Usage:   "The directory a package was deployed into.",
	})

	s.BoolVar(&cli.BoolVar{
		Name:    "last",
		Target:  &f.Last,
		Default: true,
		Usage:   "Undo only the most recent completed transaction.",
	})

	s.BoolVar(&cli.BoolVar{
		Name:    "all",
		Target:  &f.All,
		Default: false,
		Usage:   "Undo the uncommitted records after the latest commit (an interrupted deployment) instead of the last transaction.",
	})

	s.BoolVar(&cli.BoolVar{
		Name:    "quiet",
		Target:  &f.Quiet,
		Default: false,
		Usage:   "Print nothing but errors.",
	})

	set.AfterParse(func(existingErr error) error {
		if f.Dest == "" {
			return fmt.Errorf("--dest is required (or $HOME must be set)")
		}
		if f.All {
			f.Last = false
		}
		return nil
	})
}
