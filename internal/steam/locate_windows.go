//go:build windows

package steam

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

var registryValues = []struct {
	root  registry.Key
	path  string
	value string
}{
	{registry.CURRENT_USER, `Software\Valve\Steam`, "SteamPath"},
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Valve\Steam`, "InstallPath"},
	{registry.LOCAL_MACHINE, `SOFTWARE\Valve\Steam`, "InstallPath"},
}

func readRegistryString(root registry.Key, path, value string) (string, bool) {
	k, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer k.Close()
	s, _, err := k.GetStringValue(value)
	if err != nil || s == "" {
		return "", false
	}
	return filepath.Clean(s), true
}

func platformLocator() Locator {
	return LocatorFunc(func() (InstallPaths, bool) {
		var roots []string
		for _, rv := range registryValues {
			if s, ok := readRegistryString(rv.root, rv.path, rv.value); ok {
				roots = append(roots, s)
			}
		}
		for _, env := range []string{"PROGRAMFILES(X86)", "PROGRAMFILES"} {
			if pf := os.Getenv(env); pf != "" {
				roots = append(roots, filepath.Join(pf, "Steam"))
			}
		}
		roots = append(roots, `C:\Program Files (x86)\Steam`, `C:\Program Files\Steam`)

		return DirLocator{
			Roots:             roots,
			Executable:        func(root string) string { return filepath.Join(root, "steam.exe") },
			RequireExecutable: true,
		}.Locate()
	})
}
