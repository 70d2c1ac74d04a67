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

package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mirryi/dotctl/internal/action"
	"github.com/mirryi/dotctl/internal/resolve"
)

func TestPrinter_Resolved_SkipHiddenAtNormal(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := New(&buf, Normal)
	p.Resolved(action.Action{Kind: action.KindLink, Dest: "/home/a"}, resolve.Res{Outcome: resolve.Skip, Reason: resolve.DestExists})
	if buf.Len() != 0 {
		t.Fatalf("expected no output for Skip at Normal verbosity, got %q", buf.String())
	}
}

func TestPrinter_Resolved_SkipShownAtVerbose(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := New(&buf, Verbose)
	p.Resolved(action.Action{Kind: action.KindLink, Dest: "/home/a"}, resolve.Res{Outcome: resolve.Skip, Reason: resolve.DestExists})
	if !strings.Contains(buf.String(), "skip") {
		t.Fatalf("output = %q, want it to mention skip", buf.String())
	}
}

func TestPrinter_Resolved_Normal(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := New(&buf, Normal)
	a := action.Action{Kind: action.KindLink, Src: "/pkg/a", Dest: "/home/a"}
	p.Resolved(a, resolve.Res{Outcome: resolve.Normal})
	if !strings.Contains(buf.String(), "/pkg/a -> /home/a") {
		t.Fatalf("output = %q, want it to describe the action", buf.String())
	}
}

func TestDiff_ShowsChanges(t *testing.T) {
	t.Parallel()
	out := Diff("hello\n", "goodbye\n")
	if out == "" {
		t.Fatal("Diff() returned empty string for differing inputs")
	}
}
