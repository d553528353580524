package dxvk

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/CodexForgeBR/patchops/internal/fetch"
	"github.com/CodexForgeBR/patchops/internal/fsutil"
	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// Files are the DLLs DXVK replaces in the game directory.
var Files = []string{"dxgi.dll", "d3d11.dll"}

const (
	extractDir      = "dxvk_extracted"
	fallbackArchive = "dxvk-gplasync.zip"
	preferredArch   = "x64"
)

// IsInstalled reports whether every DXVK DLL is present in gameDir.
func IsInstalled(gameDir string) bool {
	for _, f := range Files {
		if !fsutil.Exists(filepath.Join(gameDir, f)) {
			return false
		}
	}
	return true
}

// Status describes the DXVK files in a game directory.
type Status struct {
	Installed bool
	Conf      string // contents of dxvk.conf, empty when absent
}

// ReadStatus reports whether DXVK is installed and returns its conf.
func ReadStatus(gameDir string) (Status, error) {
	s := Status{Installed: IsInstalled(gameDir)}
	path := filepath.Join(gameDir, ConfFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		s.Conf = string(data)
	case !os.IsNotExist(err):
		return s, patcherr.IO("read", path, err)
	}
	return s, nil
}

// Installer downloads the latest release into ModDir and installs it into
// GameDir.
type Installer struct {
	GameDir     string
	ModDir      string
	Client      *fetch.Client
	Log         *logging.Logger
	ReleasesAPI string
}

// NewInstaller returns an Installer using the public releases API.
func NewInstaller(gameDir, modDir string, client *fetch.Client, log *logging.Logger) *Installer {
	if log == nil {
		log = logging.Discard()
	}
	return &Installer{
		GameDir:     gameDir,
		ModDir:      modDir,
		Client:      client,
		Log:         log,
		ReleasesAPI: ReleasesAPI,
	}
}

// Install fetches the latest release, copies its DLLs into the game
// directory and writes dxvk.conf from settings. An existing installation is
// left untouched.
func (in *Installer) Install(ctx context.Context, settings Settings) error {
	if IsInstalled(in.GameDir) {
		in.Log.Info("DXVK-GPLAsync is already installed")
		return nil
	}

	in.Log.Info("Querying DXVK-GPLAsync releases...")
	release, err := LatestRelease(ctx, in.Client, in.ReleasesAPI)
	if err != nil {
		return err
	}
	in.Log.Info(fmt.Sprintf("Latest DXVK-GPLAsync release: %s", release.DisplayName()))

	assetURL, err := release.PreferredAssetURL()
	if err != nil {
		return err
	}
	archive := filepath.Join(in.ModDir, archiveName(assetURL))
	if _, err := in.Client.Download(ctx, assetURL, archive); err != nil {
		return err
	}
	in.Log.Success(fmt.Sprintf("Downloaded DXVK archive from %s", assetURL))

	dest := filepath.Join(in.ModDir, extractDir)
	if err := os.RemoveAll(dest); err != nil {
		return patcherr.IO("remove", dest, err)
	}
	if err := fetch.Extract(archive, dest); err != nil {
		return err
	}
	in.Log.Success("Extracted DXVK archive")

	dllDir, err := findDLLDir(dest)
	if err != nil {
		return err
	}
	for _, f := range Files {
		if err := fsutil.CopyFile(filepath.Join(dllDir, f), filepath.Join(in.GameDir, f)); err != nil {
			return err
		}
		in.Log.Success(fmt.Sprintf("Installed %s", f))
	}

	includeCache := release.SupportsGPLAsyncCache()
	if settings.GPLAsyncCache && !includeCache {
		in.Log.Info("dxvk.gplAsyncCache skipped: gplasync 2.7+ no longer supports it")
	}
	if err := WriteConf(in.GameDir, settings, includeCache); err != nil {
		return err
	}
	in.Log.Success("Wrote dxvk.conf")
	return nil
}

// Uninstall removes the DXVK DLLs and dxvk.conf from gameDir.
func Uninstall(gameDir string, log *logging.Logger) error {
	if !IsInstalled(gameDir) {
		log.Info("DXVK-GPLAsync is not installed")
		return nil
	}
	for _, f := range append(append([]string{}, Files...), ConfFile) {
		removed, err := fsutil.RemoveIfExists(filepath.Join(gameDir, f))
		if err != nil {
			return err
		}
		if removed {
			log.Success(fmt.Sprintf("Removed %s", f))
		}
	}
	log.Success("DXVK-GPLAsync has been uninstalled")
	return nil
}

// findDLLDir returns the directory under root holding every DXVK DLL,
// preferring one named x64 when several qualify.
func findDLLDir(root string) (string, error) {
	var candidates []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		for _, f := range Files {
			if !fsutil.Exists(filepath.Join(p, f)) {
				return nil
			}
		}
		candidates = append(candidates, p)
		return nil
	})
	if err != nil {
		return "", patcherr.IO("walk", root, err)
	}
	if len(candidates) == 0 {
		return "", patcherr.Malformed("required DXVK files (%s) not found in extracted archive",
			strings.Join(Files, ", "))
	}
	for _, c := range candidates {
		if strings.EqualFold(filepath.Base(c), preferredArch) {
			return c, nil
		}
	}
	return candidates[0], nil
}

// archiveName derives a local file name from the asset URL, keeping its
// archive suffix.
func archiveName(assetURL string) string {
	u, err := url.Parse(assetURL)
	if err != nil {
		return fallbackArchive
	}
	name := path.Base(u.Path)
	if _, ok := fetch.DetectFormat(name); !ok {
		return fallbackArchive
	}
	return name
}
