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

package action

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/mirryi/dotctl/internal/op"
	"github.com/mirryi/dotctl/internal/pkgdata"
	"github.com/mirryi/dotctl/internal/spec"
)

// Stream is a lazy, in-order, restartable enumeration of Actions derived
// from an EvaluatedPackage's directive list. Restarting is simply calling
// NewStream again against the same EvaluatedPackage: directives are never
// mutated once evaluated, so a fresh Stream always reproduces the same
// sequence.
type Stream struct {
	destRoot string
	pkg      *pkgdata.EvaluatedPackage
	idx      int
}

// NewStream builds a Stream that will normalize every directive's paths
// against pkg.Root (for sources) and destRoot (for destinations).
func NewStream(pkg *pkgdata.EvaluatedPackage, destRoot string) *Stream {
	return &Stream{destRoot: destRoot, pkg: pkg}
}

// Reset rewinds the stream to its first Action, the restart operation
// spec.md §6 requires of an ActionStream.
func (s *Stream) Reset() {
	s.idx = 0
}

// Next returns the next Action in directive order, or ok=false once the
// directive list is exhausted.
func (s *Stream) Next() (a Action, ok bool, err error) {
	if s.idx >= len(s.pkg.Spec.Directives) {
		return Action{}, false, nil
	}
	d := s.pkg.Spec.Directives[s.idx]
	s.idx++

	a, err = fromDirective(d, s.pkg, s.destRoot)
	if err != nil {
		return Action{}, false, fmt.Errorf("directive %d: %w", s.idx-1, err)
	}
	return a, true, nil
}

// All drains the stream into a slice, for callers (like tests) that don't
// need the lazy interface. It does not disturb Reset semantics: callers
// wanting to re-drain must call Reset first.
func (s *Stream) All() ([]Action, error) {
	var out []Action
	for {
		a, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, a)
	}
}

func fromDirective(d spec.Directive, pkg *pkgdata.EvaluatedPackage, destRoot string) (Action, error) {
	if d.File != nil {
		return fromFileDirective(*d.File, pkg, destRoot)
	}
	return fromHookDirective(*d.Hook, pkg.Scope)
}

func fromFileDirective(f spec.FileDirective, pkg *pkgdata.EvaluatedPackage, destRoot string) (Action, error) {
	dest, err := normalizeDest(f.Dest, destRoot)
	if err != nil {
		return Action{}, err
	}

	switch f.Kind {
	case spec.FileRegular:
		src, err := normalizeSrc(f.Src, pkg.Root)
		if err != nil {
			return Action{}, err
		}
		return newLink(src, dest, f.Copy, f.Optional), nil
	case spec.FileTree:
		src, err := normalizeSrc(f.Src, pkg.Root)
		if err != nil {
			return Action{}, err
		}
		return newTree(src, dest, f.Copy), nil
	case spec.FileTemplatedHandle:
		src, err := normalizeSrc(f.Src, pkg.Root)
		if err != nil {
			return Action{}, err
		}
		return newTemplate(KindHandlebars, src, dest, pkg.Scope), nil
	case spec.FileTemplatedLiquid:
		src, err := normalizeSrc(f.Src, pkg.Root)
		if err != nil {
			return Action{}, err
		}
		return newTemplate(KindLiquid, src, dest, pkg.Scope), nil
	case spec.FileGeneratedEmpty:
		return newWrite(dest, nil), nil
	case spec.FileGeneratedString:
		s, _ := f.Content.(string)
		return newWrite(dest, []byte(s)), nil
	case spec.FileGeneratedYAML:
		return newGenerated(KindYAML, dest, f.Content), nil
	case spec.FileGeneratedTOML:
		return newGenerated(KindTOML, dest, f.Content), nil
	case spec.FileGeneratedJSON:
		return newGenerated(KindJSON, dest, f.Content), nil
	case spec.FileDir:
		return newMkdir(dest, f.Parents), nil
	default:
		return Action{}, fmt.Errorf("unsupported file directive kind %q", f.Kind)
	}
}

func fromHookDirective(h spec.HookDirective, scope map[string]string) (Action, error) {
	switch h.Kind {
	case spec.HookCmd:
		env := slices.Clone(h.Env)
		return newCommand(h.Command, env, h.Dir), nil
	case spec.HookFun:
		args := make(map[string]string, len(h.FunctionArgs)+len(scope))
		for k, v := range scope {
			args[k] = v
		}
		for k, v := range h.FunctionArgs {
			args[k] = v
		}
		return newFunction(op.FunctionHandle{Name: h.FunctionName}, args), nil
	default:
		return Action{}, fmt.Errorf("unsupported hook directive kind %q", h.Kind)
	}
}

// normalizeSrc joins a package-relative src path against the package root.
// An absolute src is cleaned and used as-is.
func normalizeSrc(p, root string) (string, error) {
	return normalize(p, root)
}

// normalizeDest expands a leading "~" to destRoot, then joins any other
// relative path against destRoot. Absolute paths are cleaned and used
// as-is.
func normalizeDest(p, destRoot string) (string, error) {
	if strings.HasPrefix(p, "~/") {
		p = p[len("~/"):]
	} else if p == "~" {
		p = "."
	}
	return normalize(p, destRoot)
}

func normalize(p, root string) (string, error) {
	if strings.Contains(p, "..") {
		return "", fmt.Errorf("path %q must not contain \"..\"", p)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	return filepath.Clean(filepath.Join(root, p)), nil
}
