package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// Format is an archive container recognised by its file name suffix.
type Format string

const (
	FormatZip    Format = "zip"
	FormatTarGz  Format = "tar.gz"
	FormatTarXz  Format = "tar.xz"
	FormatTarBz2 Format = "tar.bz2"
	FormatTarZst Format = "tar.zst"
)

var suffixes = []struct {
	suffix string
	format Format
}{
	{".zip", FormatZip},
	{".tar.gz", FormatTarGz},
	{".tgz", FormatTarGz},
	{".tar.xz", FormatTarXz},
	{".tar.bz2", FormatTarBz2},
	{".tar.zst", FormatTarZst},
	{".tzst", FormatTarZst},
}

// DetectFormat maps a file name to its archive format.
func DetectFormat(name string) (Format, bool) {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.format, true
		}
	}
	return "", false
}

// Extract unpacks archive into dest, creating dest if needed. Entries that
// would land outside dest are rejected as malformed.
func Extract(archive, dest string) error {
	format, ok := DetectFormat(archive)
	if !ok {
		return patcherr.Malformed("unsupported archive format: %s", filepath.Base(archive))
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return patcherr.IO("create dir", dest, err)
	}

	if format == FormatZip {
		return extractZip(archive, dest)
	}

	f, err := os.Open(archive)
	if err != nil {
		return patcherr.IO("open", archive, err)
	}
	defer f.Close()

	var r io.Reader
	switch format {
	case FormatTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return patcherr.Malformed("gzip %s: %v", archive, err)
		}
		defer gz.Close()
		r = gz
	case FormatTarXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			return patcherr.Malformed("xz %s: %v", archive, err)
		}
		r = xr
	case FormatTarBz2:
		r = bzip2.NewReader(f)
	case FormatTarZst:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return patcherr.Malformed("zstd %s: %v", archive, err)
		}
		defer zr.Close()
		r = zr
	}
	return extractTar(r, dest)
}

func extractTar(r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return patcherr.Malformed("read tar: %v", err)
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return patcherr.IO("create dir", target, err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, hdr.FileInfo().Mode().Perm(), tr); err != nil {
				return err
			}
		}
	}
}

func extractZip(archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return patcherr.Malformed("open zip %s: %v", archive, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return patcherr.IO("create dir", target, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return patcherr.Malformed("open %s in zip: %v", f.Name, err)
		}
		err = writeEntry(target, f.Mode().Perm(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(target string, perm os.FileMode, r io.Reader) error {
	if perm == 0 {
		perm = 0644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return patcherr.IO("create dir", filepath.Dir(target), err)
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return patcherr.IO("create", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return patcherr.IO("write", target, err)
	}
	return patcherr.IO("close", target, out.Close())
}

// safeJoin resolves an archive entry name under dest.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", patcherr.Malformed("archive entry %q escapes %s", name, dest)
	}
	return target, nil
}
