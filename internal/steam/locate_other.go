//go:build !windows && !linux && !darwin

package steam

func platformLocator() Locator {
	return LocatorFunc(func() (InstallPaths, bool) { return InstallPaths{}, false })
}
