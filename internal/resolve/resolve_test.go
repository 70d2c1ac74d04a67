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

package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mirryi/dotctl/internal/fsprobe"
	"github.com/mirryi/dotctl/internal/op"
)

func TestLinkAction_SameSrcDest(t *testing.T) {
	t.Parallel()
	r := New(fsprobe.NewFake().WithFile("/pkg/a", ""))
	res, err := r.LinkAction("/pkg/a", "/pkg/a", false, false)
	if err != nil {
		t.Fatalf("LinkAction(): %v", err)
	}
	if res.Outcome != Skip || res.Reason != SameSrcDest {
		t.Errorf("got %+v, want Skip(SameSrcDest)", res)
	}
}

func TestLinkAction_OptionalMissingSrc(t *testing.T) {
	t.Parallel()
	r := New(fsprobe.NewFake())
	res, err := r.LinkAction("/pkg/missing", "/home/a", false, true)
	if err != nil {
		t.Fatalf("LinkAction(): %v", err)
	}
	if res.Outcome != Skip || res.Reason != OptMissing {
		t.Errorf("got %+v, want Skip(OptMissing)", res)
	}
}

func TestLinkAction_RequiredMissingSrc(t *testing.T) {
	t.Parallel()
	r := New(fsprobe.NewFake())
	_, err := r.LinkAction("/pkg/missing", "/home/a", false, false)
	var srcMissing *ErrSrcMissing
	if err == nil {
		t.Fatal("expected ErrSrcMissing")
	}
	if !asSrcMissing(err, &srcMissing) {
		t.Fatalf("got %v, want *ErrSrcMissing", err)
	}
}

func asSrcMissing(err error, target **ErrSrcMissing) bool {
	e, ok := err.(*ErrSrcMissing)
	if ok {
		*target = e
	}
	return ok
}

func TestLinkAction_NewDest_EmitsMkdirThenLink(t *testing.T) {
	t.Parallel()
	fake := fsprobe.NewFake().WithFile("/pkg/a", "").WithDir("/home")
	r := New(fake)
	res, err := r.LinkAction("/pkg/a", "/home/sub/a", false, false)
	if err != nil {
		t.Fatalf("LinkAction(): %v", err)
	}
	if res.Outcome != Normal {
		t.Fatalf("Outcome = %v, want Normal", res.Outcome)
	}
	if len(res.Ops) != 2 {
		t.Fatalf("len(Ops) = %d, want 2 (Mkdir, Link): %+v", len(res.Ops), res.Ops)
	}
	if res.Ops[0].Kind != op.KindMkdir || res.Ops[1].Kind != op.KindLink {
		t.Errorf("Ops = %+v, want [Mkdir, Link]", res.Ops)
	}
}

func TestLinkAction_ExistingMatchingSymlink_Skips(t *testing.T) {
	t.Parallel()
	fake := fsprobe.NewFake().WithFile("/pkg/a", "").WithSymlink("/home/a", "/pkg/a")
	r := New(fake)
	res, err := r.LinkAction("/pkg/a", "/home/a", false, false)
	if err != nil {
		t.Fatalf("LinkAction(): %v", err)
	}
	if res.Outcome != Skip || res.Reason != DestExists {
		t.Errorf("got %+v, want Skip(DestExists)", res)
	}
}

func TestLinkAction_ExistingFile_Overwrites(t *testing.T) {
	t.Parallel()
	fake := fsprobe.NewFake().WithFile("/pkg/a", "").WithFile("/home/a", "old")
	r := New(fake)
	res, err := r.LinkAction("/pkg/a", "/home/a", false, false)
	if err != nil {
		t.Fatalf("LinkAction(): %v", err)
	}
	if res.Outcome != Overwrite {
		t.Fatalf("Outcome = %v, want Overwrite", res.Outcome)
	}
	if res.Ops[0].Kind != op.KindRm || res.Ops[0].RmDir {
		t.Errorf("Ops[0] = %+v, want Rm{dir:false}", res.Ops[0])
	}
}

func TestLinkAction_CopyBranch_ByteEqualSkips(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")
	if err := os.WriteFile(src, []byte("same"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte("same"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := New(fsprobe.Real{})
	res, err := r.LinkAction(src, dest, true, false)
	if err != nil {
		t.Fatalf("LinkAction(): %v", err)
	}
	if res.Outcome != Skip || res.Reason != DestExists {
		t.Errorf("got %+v, want Skip(DestExists)", res)
	}
}

func TestLinkAction_CopyBranch_ByteDifferentOverwrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")
	if err := os.WriteFile(src, []byte("new"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := New(fsprobe.Real{})
	res, err := r.LinkAction(src, dest, true, false)
	if err != nil {
		t.Fatalf("LinkAction(): %v", err)
	}
	if res.Outcome != Overwrite {
		t.Fatalf("Outcome = %v, want Overwrite", res.Outcome)
	}
}

func TestWriteAction_NewFile(t *testing.T) {
	t.Parallel()
	fake := fsprobe.NewFake().WithDir("/home")
	r := New(fake)
	res := r.WriteAction("/home/.x", []byte("hello"))
	if res.Outcome != Normal {
		t.Fatalf("Outcome = %v, want Normal", res.Outcome)
	}
	wantKinds := []op.Kind{op.KindCreate, op.KindWrite}
	if len(res.Ops) != len(wantKinds) {
		t.Fatalf("Ops = %+v, want len %d", res.Ops, len(wantKinds))
	}
	for i, k := range wantKinds {
		if res.Ops[i].Kind != k {
			t.Errorf("Ops[%d].Kind = %v, want %v", i, res.Ops[i].Kind, k)
		}
	}
}

func TestWriteAction_ExistingFile_AlwaysOverwrites(t *testing.T) {
	t.Parallel()
	fake := fsprobe.NewFake().WithFile("/home/.x", "hello")
	r := New(fake)
	res := r.WriteAction("/home/.x", []byte("hello"))
	if res.Outcome != Normal {
		t.Fatalf("Outcome = %v, want Normal (WriteAction never skips)", res.Outcome)
	}
	if res.Ops[0].Kind != op.KindRm || res.Ops[1].Kind != op.KindCreate {
		t.Errorf("Ops = %+v, want [Rm, Create, ...]", res.Ops)
	}
}

func TestMkdirAction_AlreadyDir_Skips(t *testing.T) {
	t.Parallel()
	fake := fsprobe.NewFake().WithDir("/home/a")
	r := New(fake)
	res := r.MkdirAction("/home/a", false)
	if res.Outcome != Skip || res.Reason != DestExists {
		t.Errorf("got %+v, want Skip(DestExists)", res)
	}
}

func TestMkdirAction_Parents(t *testing.T) {
	t.Parallel()
	fake := fsprobe.NewFake().WithDir("/home")
	r := New(fake)
	res := r.MkdirAction("/home/a/b/c", true)
	if res.Outcome != Normal {
		t.Fatalf("Outcome = %v, want Normal", res.Outcome)
	}
	want := []string{"/home/a", "/home/a/b", "/home/a/b/c"}
	if len(res.Ops) != len(want) {
		t.Fatalf("Ops = %+v, want %d mkdirs", res.Ops, len(want))
	}
	for i, p := range want {
		if res.Ops[i].Kind != op.KindMkdir || res.Ops[i].Path != p {
			t.Errorf("Ops[%d] = %+v, want Mkdir(%q)", i, res.Ops[i], p)
		}
	}
}

func TestMkdirAction_NonDirExists_Overwrites(t *testing.T) {
	t.Parallel()
	fake := fsprobe.NewFake().WithFile("/home/a", "x")
	r := New(fake)
	res := r.MkdirAction("/home/a", false)
	if res.Outcome != Overwrite {
		t.Fatalf("Outcome = %v, want Overwrite", res.Outcome)
	}
	if res.Ops[0].Kind != op.KindRm || res.Ops[len(res.Ops)-1].Kind != op.KindMkdir {
		t.Errorf("Ops = %+v, want [Rm, ..., Mkdir]", res.Ops)
	}
}

func TestTreeAction_SameSrcDest(t *testing.T) {
	t.Parallel()
	r := New(fsprobe.NewFake().WithDir("/pkg/a"))
	res, err := r.TreeAction("/pkg/a", "/pkg/a", true)
	if err != nil {
		t.Fatalf("TreeAction(): %v", err)
	}
	if res.Outcome != Skip || res.Reason != SameSrcDest {
		t.Errorf("got %+v, want Skip(SameSrcDest)", res)
	}
}

func TestTreeAction_IdempotentHashMatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")
	for _, d := range []string{src, dest} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(d, "f.txt"), []byte("same"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	r := New(fsprobe.Real{})
	res, err := r.TreeAction(src, dest, true)
	if err != nil {
		t.Fatalf("TreeAction(): %v", err)
	}
	if res.Outcome != Skip || res.Reason != DestExists {
		t.Errorf("got %+v, want Skip(DestExists)", res)
	}
}
