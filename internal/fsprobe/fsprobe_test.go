package fsprobe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReal_Meta(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(file, link); err != nil {
		t.Fatal(err)
	}
	subdir := filepath.Join(dir, "sub")
	if err := os.Mkdir(subdir, 0o700); err != nil {
		t.Fatal(err)
	}

	var r Real

	cases := []struct {
		name string
		path string
		want Meta
		ok   bool
	}{
		{"file", file, Meta{IsFile: true}, true},
		{"dir", subdir, Meta{IsDir: true}, true},
		{"symlink", link, Meta{IsSymlink: true}, true},
		{"missing", filepath.Join(dir, "nope"), Meta{}, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := r.Meta(tc.path)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Meta() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReal_ReadLinkAndContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(file, link); err != nil {
		t.Fatal(err)
	}

	var r Real

	if got, ok := r.ReadLink(link); !ok || got != file {
		t.Errorf("ReadLink() = (%q, %v), want (%q, true)", got, ok, file)
	}
	if _, ok := r.ReadLink(file); ok {
		t.Errorf("ReadLink() on a regular file should fail")
	}
	if got, ok := r.ReadToString(file); !ok || got != "hello" {
		t.Errorf("ReadToString() = (%q, %v), want (%q, true)", got, ok, "hello")
	}
}

func TestFake(t *testing.T) {
	t.Parallel()

	f := NewFake().
		WithFile("/home/a", "contents").
		WithDir("/home/dir").
		WithSymlink("/home/link", "/pkg/a")

	if _, ok := f.Meta("/home/a"); !ok {
		t.Errorf("expected /home/a to exist")
	}
	if !f.ExistsSymlink("/home/link") {
		t.Errorf("expected /home/link to exist")
	}
	if target, ok := f.ReadLink("/home/link"); !ok || target != "/pkg/a" {
		t.Errorf("ReadLink() = (%q, %v), want (/pkg/a, true)", target, ok)
	}
	if f.ExistsSymlink("/home/missing") {
		t.Errorf("expected /home/missing to be absent")
	}
	if content, ok := f.ReadToString("/home/a"); !ok || content != "contents" {
		t.Errorf("ReadToString() = (%q, %v), want (contents, true)", content, ok)
	}
}
