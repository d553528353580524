package t7patch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/CodexForgeBR/patchops/internal/fetch"
	"github.com/CodexForgeBR/patchops/internal/fsutil"
	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

const (
	// PatchURL is the T7 patch release archive.
	PatchURL = "https://github.com/shiversoftdev/t7patch/releases/download/Current/Linux.Steamdeck.and.Manual.Windows.Install.zip"
	// LPCURL is the archive of replacement LPC fast files.
	LPCURL = "https://github.com/shiversoftdev/t7patch/releases/download/Current/LPC.1.zip"

	patchArchive = "T7Patch.zip"
	lpcArchive   = "LPC.zip"
	payloadDir   = "linux"
	lpcTempDir   = "LPC_temp"
	lpcDir       = "LPC"
	fastFileExt  = ".ff"
	backupSuffix = ".bak"
)

// PatchFiles are the files the patch drops into the game directory.
var PatchFiles = []string{
	"t7patch.dll",
	ConfFile,
	"discord_game_sdk.dll",
	"dsound.dll",
	"t7patchloader.dll",
	"zbr2.dll",
}

// IsInstalled reports whether the patch loader is present in gameDir.
func IsInstalled(gameDir string) bool {
	return fsutil.Exists(filepath.Join(gameDir, "t7patch.dll")) ||
		fsutil.Exists(filepath.Join(gameDir, "t7patchloader.dll"))
}

// Installer downloads and installs the patch into one game directory.
type Installer struct {
	GameDir  string
	ModDir   string
	Client   *fetch.Client
	Log      *logging.Logger
	PatchURL string
	LPCURL   string
}

// NewInstaller returns an Installer using the public release URLs.
func NewInstaller(gameDir, modDir string, client *fetch.Client, log *logging.Logger) *Installer {
	if log == nil {
		log = logging.Discard()
	}
	return &Installer{
		GameDir:  gameDir,
		ModDir:   modDir,
		Client:   client,
		Log:      log,
		PatchURL: PatchURL,
		LPCURL:   LPCURL,
	}
}

// Install fetches the patch and LPC archives in parallel, copies the patch
// payload into the game directory (keeping an existing t7patch.conf) and
// installs the LPC files with backups of the originals.
func (in *Installer) Install(ctx context.Context) error {
	patchZip := filepath.Join(in.ModDir, patchArchive)
	lpcZip := filepath.Join(in.ModDir, lpcArchive)

	in.Log.Info("Downloading T7 Patch...")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := in.Client.Download(gctx, in.PatchURL, patchZip)
		return err
	})
	g.Go(func() error {
		_, err := in.Client.Download(gctx, in.LPCURL, lpcZip)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	payload := filepath.Join(in.ModDir, payloadDir)
	if err := os.RemoveAll(payload); err != nil {
		return patcherr.IO("remove", payload, err)
	}
	if err := fetch.Extract(patchZip, in.ModDir); err != nil {
		return err
	}
	in.Log.Success("Extracted T7 Patch archive")
	if !fsutil.IsDir(payload) {
		return patcherr.Malformed("extracted archive did not contain %s/ directory", payloadDir)
	}

	copied, err := fsutil.CopyTree(payload, in.GameDir, func(rel, target string) bool {
		return strings.EqualFold(filepath.Base(rel), ConfFile) && fsutil.Exists(target)
	})
	if err != nil {
		return err
	}
	in.Log.Debug(fmt.Sprintf("Copied %d patch files to %s", copied, in.GameDir))

	if err := in.installLPC(lpcZip); err != nil {
		return err
	}
	in.Log.Success("T7 Patch installation complete")
	return nil
}

func (in *Installer) installLPC(archive string) error {
	temp := filepath.Join(in.ModDir, lpcTempDir)
	if err := os.RemoveAll(temp); err != nil {
		return patcherr.IO("remove", temp, err)
	}
	defer os.RemoveAll(temp)

	if err := fetch.Extract(archive, temp); err != nil {
		return err
	}

	dest := filepath.Join(in.GameDir, lpcDir)
	if err := BackupLPC(in.GameDir, in.Log); err != nil {
		return err
	}

	src := temp
	if fsutil.IsDir(filepath.Join(temp, lpcDir)) {
		src = filepath.Join(temp, lpcDir)
	}
	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), fastFileExt) {
			return fsutil.CopyFile(path, filepath.Join(dest, d.Name()))
		}
		return nil
	})
	if err != nil {
		if patcherr.IsIO(err) {
			return err
		}
		return patcherr.IO("walk", src, err)
	}

	os.Remove(archive)
	in.Log.Success("Installed LPC files successfully")
	return nil
}

// BackupLPC renames each LPC/*.ff to *.ff.bak unless a backup already
// exists.
func BackupLPC(gameDir string, log *logging.Logger) error {
	dir := filepath.Join(gameDir, lpcDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return patcherr.IO("create dir", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return patcherr.IO("read dir", dir, err)
	}

	backedUp := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), fastFileExt) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if fsutil.Exists(path + backupSuffix) {
			continue
		}
		if err := os.Rename(path, path+backupSuffix); err != nil {
			return patcherr.IO("rename", path, err)
		}
		backedUp++
	}
	if backedUp > 0 {
		log.Success(fmt.Sprintf("Created backups for %d LPC files", backedUp))
	}
	return nil
}

// RestoreLPC moves every LPC/*.ff.bak back over its fast file.
func RestoreLPC(gameDir string, log *logging.Logger) error {
	dir := filepath.Join(gameDir, lpcDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return patcherr.IO("read dir", dir, err)
	}

	restored := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), fastFileExt+backupSuffix) {
			continue
		}
		backup := filepath.Join(dir, name)
		original := backup[:len(backup)-len(backupSuffix)]
		if _, err := fsutil.RemoveIfExists(original); err != nil {
			return err
		}
		if err := os.Rename(backup, original); err != nil {
			return patcherr.IO("rename", backup, err)
		}
		restored++
	}
	if restored > 0 {
		log.Success(fmt.Sprintf("Restored %d LPC backup files", restored))
	}
	return nil
}

// Uninstall removes the patch files from gameDir, clears the extracted
// payload from modDir and restores the original LPC files. Individual
// removal failures are logged and do not stop the uninstall.
func Uninstall(gameDir, modDir string, log *logging.Logger) error {
	for _, name := range PatchFiles {
		path := filepath.Join(gameDir, name)
		removed, err := fsutil.RemoveIfExists(path)
		if err != nil {
			log.Warn(err.Error())
			continue
		}
		if removed {
			log.Debug(fmt.Sprintf("Removed %s", name))
		}
	}

	if err := os.RemoveAll(filepath.Join(modDir, payloadDir)); err != nil {
		log.Warn(fmt.Sprintf("Failed to remove %s: %v", payloadDir, err))
	}
	if _, err := fsutil.RemoveIfExists(filepath.Join(modDir, patchArchive)); err != nil {
		log.Warn(err.Error())
	}
	if err := RestoreLPC(gameDir, log); err != nil {
		log.Error(fmt.Sprintf("Error restoring LPC backups: %v", err))
	}

	log.Success("T7 Patch has been completely uninstalled")
	return nil
}
