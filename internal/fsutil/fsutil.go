// Package fsutil holds the small file helpers shared by the installers.
package fsutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/creachadair/atomicfile"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CopyFile copies src to dst, creating dst's parent directories. dst is
// replaced atomically and gets src's permission bits.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return patcherr.IO("open", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return patcherr.IO("stat", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return patcherr.IO("create dir", filepath.Dir(dst), err)
	}

	out, err := atomicfile.New(dst, info.Mode().Perm())
	if err != nil {
		return patcherr.IO("create", dst, err)
	}
	defer out.Cancel()

	if _, err := io.Copy(out, in); err != nil {
		return patcherr.IO("copy", dst, err)
	}
	return patcherr.IO("replace", dst, out.Close())
}

// CopyTree copies every regular file under src into dst, keeping relative
// paths. skip, when non-nil, is consulted with the relative path and the
// destination path of each file.
func CopyTree(src, dst string, skip func(rel, target string) bool) (int, error) {
	copied := 0
	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if skip != nil && skip(rel, target) {
			return nil
		}
		if err := CopyFile(path, target); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil && !patcherr.IsIO(err) {
		err = patcherr.IO("walk", src, err)
	}
	return copied, err
}

// RemoveIfExists deletes path and reports whether anything was removed.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, patcherr.IO("remove", path, err)
	}
}
