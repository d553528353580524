package dxvk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/patchops/internal/dxvk"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

func TestPresetRecommended(t *testing.T) {
	for _, name := range []string{"", "recommended", "Default"} {
		s, err := dxvk.Preset(name)
		require.NoError(t, err)
		assert.True(t, s.EnableAsync)
		assert.True(t, s.GPLAsyncCache)
		assert.Equal(t, 1, s.MaxFrameLatency)
		assert.Equal(t, "True", s.TearFree)
	}
}

func TestPresetUnknown(t *testing.T) {
	_, err := dxvk.Preset("ultra")
	assert.ErrorIs(t, err, patcherr.ErrNotFound)
}

func TestBuildConfWithCache(t *testing.T) {
	s, err := dxvk.Preset("recommended")
	require.NoError(t, err)

	want := "dxvk.enableAsync=true\n" +
		"dxvk.gplAsyncCache=true\n" +
		"dxvk.numCompilerThreads=0\n" +
		"dxgi.maxFrameRate=0\n" +
		"dxgi.maxFrameLatency=1\n" +
		"dxvk.tearFree=True\n"
	assert.Equal(t, want, dxvk.BuildConf(s, true))
}

func TestBuildConfOmitsCacheWhenUnsupported(t *testing.T) {
	s, err := dxvk.Preset("recommended")
	require.NoError(t, err)
	assert.NotContains(t, dxvk.BuildConf(s, false), "gplAsyncCache")
}

func TestBuildConfNonePreset(t *testing.T) {
	s, err := dxvk.Preset("none")
	require.NoError(t, err)

	conf := dxvk.BuildConf(s, true)
	assert.NotContains(t, conf, "gplAsyncCache")
	assert.Contains(t, conf, "dxvk.tearFree=Auto\n")
	assert.NotContains(t, conf, "dxvk.hud")
}

func TestBuildConfCustomValues(t *testing.T) {
	conf := dxvk.BuildConf(dxvk.Settings{NumCompilerThreads: 6, MaxFrameRate: 144, HUD: true}, true)
	assert.Contains(t, conf, "dxvk.enableAsync=false\n")
	assert.Contains(t, conf, "dxvk.numCompilerThreads=6\n")
	assert.Contains(t, conf, "dxgi.maxFrameRate=144\n")
	assert.Contains(t, conf, "dxvk.tearFree=Auto\n")
	assert.Contains(t, conf, "dxvk.hud=fps,frametimes,gpuload\n")
}

func TestWriteConfReplacesExisting(t *testing.T) {
	game := t.TempDir()
	path := filepath.Join(game, dxvk.ConfFile)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	s, err := dxvk.Preset("none")
	require.NoError(t, err)
	require.NoError(t, dxvk.WriteConf(game, s, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dxvk.BuildConf(s, true), string(data))
}

func TestWriteConfMissingDir(t *testing.T) {
	err := dxvk.WriteConf(filepath.Join(t.TempDir(), "missing"), dxvk.Settings{}, true)
	assert.True(t, patcherr.IsIO(err))
}
