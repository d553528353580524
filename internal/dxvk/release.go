// Package dxvk installs DXVK-GPLAsync into the game directory and writes
// its dxvk.conf.
package dxvk

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/CodexForgeBR/patchops/internal/fetch"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// ReleasesAPI lists DXVK-GPLAsync releases, newest first.
const ReleasesAPI = "https://gitlab.com/api/v4/projects/Ph42oN%2Fdxvk-gplasync/releases"

// preferredSuffixes is the download preference among archive formats.
var preferredSuffixes = []string{".zip", ".tar.xz", ".tar.gz", ".tar.bz2", ".tar.zst", ".tzst"}

// Asset is a downloadable release link or generated source archive.
type Asset struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Release is the subset of the GitLab release payload used here.
type Release struct {
	Name    string `json:"name"`
	TagName string `json:"tag_name"`
	Assets  struct {
		Links   []Asset `json:"links"`
		Sources []Asset `json:"sources"`
	} `json:"assets"`
}

// DisplayName is the release name, falling back to its tag.
func (r Release) DisplayName() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.TagName != "":
		return r.TagName
	default:
		return "Unknown"
	}
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// SupportsGPLAsyncCache reports whether the release still understands
// dxvk.gplAsyncCache, which was dropped in 2.7. Unversioned releases are
// assumed to support it.
func (r Release) SupportsGPLAsyncCache() bool {
	tag := r.TagName
	if tag == "" {
		tag = r.Name
	}
	m := versionPattern.FindStringSubmatch(tag)
	if m == nil {
		return true
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return major < 2 || (major == 2 && minor < 7)
}

// PreferredAssetURL picks the archive to download. Release links are used
// when present, otherwise the generated source archives. Among them the
// first match in suffix preference order wins, then the first asset.
func (r Release) PreferredAssetURL() (string, error) {
	candidates := r.Assets.Links
	if len(candidates) == 0 {
		candidates = r.Assets.Sources
	}
	if len(candidates) == 0 {
		return "", patcherr.Malformed("no downloadable asset found in release %s", r.DisplayName())
	}
	for _, suffix := range preferredSuffixes {
		for _, a := range candidates {
			if strings.HasSuffix(strings.ToLower(a.URL), suffix) {
				return a.URL, nil
			}
		}
	}
	return candidates[0].URL, nil
}

// LatestRelease returns the first release listed at api.
func LatestRelease(ctx context.Context, client *fetch.Client, api string) (Release, error) {
	var releases []Release
	if err := client.GetJSON(ctx, api, &releases); err != nil {
		return Release{}, err
	}
	if len(releases) == 0 {
		return Release{}, patcherr.Remote("no releases returned from %s", api)
	}
	return releases[0], nil
}
