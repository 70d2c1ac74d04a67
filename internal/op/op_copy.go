package op

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// finishCopy recursively copies src to dest (a single file, or a directory
// tree when o.Dir is set). By the time this runs, the resolver has already
// emitted a preceding Rm for any pre-existing dest, so Copy never itself
// needs to back anything up: its inverse is simply removing what it
// created. Copy is also reused internally as the inverse of Write and Rm,
// restoring a single backed-up file from FinishCtx.BackupDir.
func finishCopy(ctx context.Context, c *FinishCtx, o Op) (Finished, error) {
	if o.Dir {
		if err := copyTree(o.Src, o.Dest); err != nil {
			return Finished{}, &OpError{Kind: KindCopy, Path: o.Dest, Err: err}
		}
	} else {
		if err := copyOneFile(o.Src, o.Dest); err != nil {
			return Finished{}, &OpError{Kind: KindCopy, Path: o.Dest, Err: err}
		}
	}
	return Finished{kind: KindCopy, copyDest: o.Dest, copyDir: o.Dir}, nil
}

func copyOneFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat(%q): %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o700); err != nil {
		return fmt.Errorf("mkdirall(%q): %w", filepath.Dir(dest), err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open(%q): %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("openfile(%q): %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy(%q -> %q): %w", src, dest, err)
	}
	return nil
}

func copyTree(srcRoot, destRoot string) error {
	return filepath.WalkDir(srcRoot, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return fmt.Errorf("rel(%q,%q): %w", srcRoot, path, err)
		}
		dest := filepath.Join(destRoot, rel)
		if de.IsDir() {
			return os.MkdirAll(dest, 0o700)
		}
		return copyOneFile(path, dest)
	})
}

// ContentEqual reports whether the regular files at a and b contain
// byte-identical content.
func ContentEqual(a, b string) (bool, error) {
	af, err := os.ReadFile(a)
	if err != nil {
		return false, err
	}
	bf, err := os.ReadFile(b)
	if err != nil {
		return false, err
	}
	return string(af) == string(bf), nil
}
