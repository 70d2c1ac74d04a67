// Package pkgdata implements the typestate loader from spec.md's Design
// Notes §9: "unread → read → evaluated" modeled as three named struct
// types, each exposing only the methods valid for its stage, rather than a
// single mutable struct with a status flag.
package pkgdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jinzhu/copier"

	"github.com/mirryi/dotctl/internal/spec"
)

const specFileName = "dotfile.yaml"

// UnreadPackage only knows that a package directory exists on disk. It has
// not opened or decoded anything yet.
type UnreadPackage struct {
	Root string
}

// NewUnreadPackage anchors a package at root without touching the
// filesystem, mirroring how the teacher's render pipeline accepts a source
// location before any IO happens.
func NewUnreadPackage(root string) *UnreadPackage {
	return &UnreadPackage{Root: root}
}

// Load opens and decodes the package's dotfile.yaml, producing a
// ReadPackage. The Spec is validated by spec.Decode before this method
// returns, so a ReadPackage can never wrap an invalid Spec.
func (p *UnreadPackage) Load() (*ReadPackage, error) {
	path := filepath.Join(p.Root, specFileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	s, err := spec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading package at %q: %w", p.Root, err)
	}

	var root string
	if err := copier.Copy(&root, &p.Root); err != nil {
		return nil, fmt.Errorf("copying package root: %w", err)
	}

	return &ReadPackage{Root: root, Spec: s}, nil
}

// ReadPackage has a validated Spec, but no variable scope attached yet.
type ReadPackage struct {
	Root string
	Spec *spec.Spec
}

// Evaluate freezes the Spec and vars into an EvaluatedPackage, with vars
// stored unchanged as its Scope; no directive field is substituted with
// vars here. It deep-copies the Spec with copier so neither package
// can observe a mutation made to the other's copy afterward — the same
// isolation the Design Notes ask the typestate boundary to enforce.
func (p *ReadPackage) Evaluate(vars map[string]string) (*EvaluatedPackage, error) {
	var specCopy spec.Spec
	if err := copier.CopyWithOption(&specCopy, p.Spec, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("evaluating package %q: copying spec: %w", p.Spec.Name, err)
	}

	scope := make(map[string]string, len(vars))
	if err := copier.CopyWithOption(&scope, vars, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("evaluating package %q: copying scope: %w", p.Spec.Name, err)
	}

	return &EvaluatedPackage{
		Root:  p.Root,
		Spec:  &specCopy,
		Scope: scope,
	}, nil
}

// EvaluatedPackage is the spec.md §3 PackageData: a fully-resolved package
// ready to be walked into an ActionStream. It is read-only — nothing in
// this package mutates it after construction.
type EvaluatedPackage struct {
	Root  string
	Spec  *spec.Spec
	Scope map[string]string
}
