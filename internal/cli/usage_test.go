package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpText_ContainsCommandsAndFlags(t *testing.T) {
	required := []string{
		"status", "preset apply", "vram on|off", "stutter on|off", "intro skip|restore",
		"lock on|off", "t7 install", "t7 name", "dxvk install", "gamedir", "launch", "history",
		"--game-dir", "--mod-dir", "--presets", "--config", "--log-file", "--data-dir",
		"--lock-config", "--verbose", "--no-color", "--retries", "--timeout",
	}
	for _, s := range required {
		assert.Contains(t, helpText, s)
	}
}

func TestHelpText_ListsExitCodes(t *testing.T) {
	for _, s := range []string{"NotFound", "Malformed", "IOFailure", "RemoteFailure", "Busy", "130 Interrupted"} {
		assert.Contains(t, helpText, s)
	}
}

func TestSetCustomHelp_RootOnly(t *testing.T) {
	root := &cobra.Command{Use: "patchops"}
	sub := &cobra.Command{Use: "status", Short: "Show status", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(sub)
	SetCustomHelp(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "EXIT CODES")

	out.Reset()
	root.SetArgs([]string{"status", "--help"})
	require.NoError(t, root.Execute())
	assert.NotContains(t, out.String(), "EXIT CODES")
	assert.Contains(t, out.String(), "Show status")
}
