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

// Package resolve turns an Action into a concrete, ordered list of
// primitive ops, after inspecting live destination state through an
// FsProbe. Decisions funnel through the probe so tests can inject a fake;
// the one exception is TreeAction's subtree hash comparison, which reads
// both trees from the real filesystem.
package resolve

import (
	"fmt"
	"path/filepath"

	"golang.org/x/mod/sumdb/dirhash"

	"github.com/mirryi/dotctl/internal/fsprobe"
	"github.com/mirryi/dotctl/internal/op"
)

// Outcome tags which case a resolution landed in.
type Outcome int

const (
	Normal Outcome = iota
	Overwrite
	Skip
)

// SkipReason explains why an action needed no ops.
type SkipReason int

const (
	NoSkip SkipReason = iota
	SameSrcDest
	OptMissing
	DestExists
)

func (r SkipReason) String() string {
	switch r {
	case SameSrcDest:
		return "same source and destination"
	case OptMissing:
		return "optional source is missing"
	case DestExists:
		return "destination already satisfies the action"
	default:
		return "no skip"
	}
}

// Res is the resolver's verdict for one action: an ordered op list to
// execute, or a reason nothing needs to happen.
type Res struct {
	Outcome Outcome
	Ops     []op.Op
	Reason  SkipReason
}

func normal(ops ...op.Op) Res    { return Res{Outcome: Normal, Ops: ops} }
func overwrite(ops ...op.Op) Res { return Res{Outcome: Overwrite, Ops: ops} }
func skip(reason SkipReason) Res { return Res{Outcome: Skip, Reason: reason} }

// ErrSrcMissing is returned when a required (non-optional) Link/Tree source
// doesn't exist.
type ErrSrcMissing struct{ Path string }

func (e *ErrSrcMissing) Error() string { return fmt.Sprintf("resolve: source missing: %s", e.Path) }

// Resolver decides, for each action, the concrete op list that would bring
// the destination into the declared state.
type Resolver struct {
	FS fsprobe.FsProbe
}

// New builds a Resolver over fs.
func New(fs fsprobe.FsProbe) *Resolver {
	return &Resolver{FS: fs}
}

// LinkAction implements spec.md §4.2's LinkAction decision tree.
func (r *Resolver) LinkAction(src, dest string, cp, optional bool) (Res, error) {
	if src == dest {
		return skip(SameSrcDest), nil
	}
	if !r.FS.ExistsSymlink(src) {
		if optional {
			return skip(OptMissing), nil
		}
		return Res{}, &ErrSrcMissing{Path: src}
	}

	if cp {
		return r.resolveCopyBranch(src, dest)
	}
	return r.resolveLinkBranch(src, dest)
}

func (r *Resolver) resolveLinkBranch(src, dest string) (Res, error) {
	meta, exists := r.FS.Meta(dest)
	if !exists {
		ops := append(missingAncestorMkdirs(r.FS, dest), op.NewLink(src, dest))
		return normal(ops...), nil
	}
	if meta.IsSymlink {
		if target, ok := r.FS.ReadLink(dest); ok && target == src {
			return skip(DestExists), nil
		}
		return overwrite(op.NewRm(dest, false), op.NewLink(src, dest)), nil
	}
	if meta.IsDir {
		return overwrite(op.NewRm(dest, true), op.NewLink(src, dest)), nil
	}
	return overwrite(op.NewRm(dest, false), op.NewLink(src, dest)), nil
}

func (r *Resolver) resolveCopyBranch(src, dest string) (Res, error) {
	srcMeta, _ := r.FS.Meta(src)
	destMeta, exists := r.FS.Meta(dest)

	if !exists {
		ops := append(missingAncestorMkdirs(r.FS, dest), op.NewCopy(src, dest, srcMeta.IsDir))
		return normal(ops...), nil
	}
	if destMeta.IsFile && srcMeta.IsFile {
		srcContents, srcOK := r.FS.ReadToString(src)
		destContents, destOK := r.FS.ReadToString(dest)
		if srcOK && destOK && srcContents == destContents {
			return skip(DestExists), nil
		}
		return overwrite(op.NewRm(dest, false), op.NewCopy(src, dest, srcMeta.IsDir)), nil
	}
	return overwrite(op.NewRm(dest, destMeta.IsDir), op.NewCopy(src, dest, srcMeta.IsDir)), nil
}

// WriteAction implements spec.md §4.2's WriteAction: it never skips and
// never fails.
//
// TODO: skip when dest is a regular file whose contents already match
// contents byte-for-byte; the source this is modeled on has the same
// optimization left as a TODO, and spec.md's Open Questions (a) pins the
// current always-overwrite behavior until that lands.
func (r *Resolver) WriteAction(dest string, contents []byte) Res {
	var ops []op.Op
	meta, exists := r.FS.Meta(dest)
	switch {
	case exists && meta.IsFile:
		ops = append(ops, op.NewRm(dest, false), op.NewCreate(dest))
	case exists && (meta.IsDir || meta.IsSymlink):
		ops = append(ops, op.NewRm(dest, meta.IsDir))
	default:
		ops = append(ops, op.NewCreate(dest))
	}
	ops = append(ops, missingAncestorMkdirs(r.FS, dest)...)
	ops = append(ops, op.NewWrite(dest, contents))
	return normal(ops...)
}

// MkdirAction implements spec.md §4.2's MkdirAction.
func (r *Resolver) MkdirAction(path string, parents bool) Res {
	meta, exists := r.FS.Meta(path)
	if exists && meta.IsDir {
		return skip(DestExists)
	}
	if exists {
		ops := []op.Op{op.NewRm(path, false)}
		if parents {
			ops = append(ops, missingAncestorMkdirs(r.FS, path)...)
		}
		ops = append(ops, op.NewMkdir(path))
		return overwrite(ops...)
	}
	var ops []op.Op
	if parents {
		ops = append(ops, missingAncestorMkdirs(r.FS, path)...)
	}
	ops = append(ops, op.NewMkdir(path))
	return normal(ops...)
}

// TreeAction copies an entire subtree; it never emits Link ops. When cp is
// set and dest is already a directory, it short-circuits to Skip if dest
// holds a byte-identical tree (via a whole-subtree hash comparison rather
// than a recursive walk of every individual file). Any other existing dest
// is removed and replaced by a fresh copy.
func (r *Resolver) TreeAction(src, dest string, cp bool) (Res, error) {
	if src == dest {
		return skip(SameSrcDest), nil
	}
	if !r.FS.ExistsSymlink(src) {
		return Res{}, &ErrSrcMissing{Path: src}
	}

	destMeta, exists := r.FS.Meta(dest)
	if exists && destMeta.IsDir && cp {
		same, err := sameTreeHash(src, dest)
		if err != nil {
			return Res{}, fmt.Errorf("hashing tree %q vs %q: %w", src, dest, err)
		}
		if same {
			return skip(DestExists), nil
		}
		return overwrite(op.NewRm(dest, true), op.NewCopy(src, dest, true)), nil
	}
	if exists {
		return overwrite(op.NewRm(dest, destMeta.IsDir), op.NewCopy(src, dest, true)), nil
	}
	ops := append(missingAncestorMkdirs(r.FS, dest), op.NewCopy(src, dest, true))
	return normal(ops...), nil
}

// sameTreeHash compares two directory trees by content hash, the idempotence
// shortcut spec.md's Tree action needs so re-resolving a fully-deployed tree
// yields Skip without a byte-by-byte walk of every file.
func sameTreeHash(src, dest string) (bool, error) {
	srcHash, err := dirhash.HashDir(src, "", dirhash.Hash1)
	if err != nil {
		return false, err
	}
	destHash, err := dirhash.HashDir(dest, "", dirhash.Hash1)
	if err != nil {
		return false, err
	}
	return srcHash == destHash, nil
}

// missingAncestorMkdirs walks the parents of target from deepest to root,
// collecting those that don't exist, then returns Mkdir ops for them in
// root-first order (spec.md §4.2, Open Question (c)).
func missingAncestorMkdirs(fs fsprobe.FsProbe, target string) []op.Op {
	var missing []string
	dir := filepath.Dir(target)
	for {
		if fs.ExistsSymlink(dir) {
			break
		}
		missing = append(missing, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	ops := make([]op.Op, len(missing))
	for i, d := range missing {
		ops[len(missing)-1-i] = op.NewMkdir(d)
	}
	return ops
}
