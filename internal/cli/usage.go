package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const helpText = `patchops - Black Ops III configuration and patch manager

USAGE
  patchops <command> [flags]

COMMANDS
  Game configuration:
    status                                 Show essential config.ini settings and patch state
    preset list                            List available graphics presets
    preset apply <name>                    Apply a graphics preset to config.ini
    set <key> <value> [--comment <text>]   Set one config.ini value
    vram on|off                            Use all available video memory
    stutter on|off                         Toggle the stutter-reduction DLL
    intro skip|restore [--all]             Skip or restore intro videos
    lock on|off                            Make config.ini read-only or writable

  T7 network patch:
    t7 install|uninstall|status            Manage the T7 patch and LPC files
    t7 name <tag> [--color ^N]             Set the gamertag, optionally colored
    t7 password <pw>                       Set the network password ("" clears it)
    t7 friends-only on|off                 Restrict lobbies to friends

  DXVK-GPLAsync:
    dxvk install [--preset <name>]         Install the latest release and write dxvk.conf
    dxvk uninstall|status                  Remove DXVK or show its state

  Game directory:
    gamedir show|set <path>|detect         Show, save or auto-detect the game directory
    launch                                 Launch Black Ops III through Steam
    history [--limit N]                    Show recent operations

GLOBAL FLAGS
    --game-dir <path>                      Game directory (default: saved, then detected)
    --mod-dir <path>                       Download directory (default: <data-dir>/BO3 Mod Files)
    --presets <path>                       Preset table, .json/.yaml/.yml (default: built-in)
    --config <path>                        Path to additional config file
    --log-file <path>                      Log file (default: <data-dir>/PatchOpsIII.log)
    --data-dir <path>                      Settings, history and log directory
    --lock-config                          Keep config.ini read-only after changes
    --retries <int>                        Download retries (default: 3)
    --timeout <seconds>                    Download timeout (default: 300)
    -v, --verbose                          Show debug output
    --no-color                             Disable colored output
    -h, --help                             Show this help text
    --version                              Show version, commit, build date

EXIT CODES
  0   Success              Operation completed
  1   Error                Invalid arguments or unclassified failure
  2   NotFound             Config, preset, game directory or archive member missing
  3   Malformed            Unparsable preset data or archive contents
  4   IOFailure            Filesystem failure or read-only config.ini
  5   RemoteFailure        Download failed or no releases returned
  6   Busy                 Another operation on the same target is running
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Apply the Quality preset and keep config.ini locked
  patchops preset apply Quality --lock-config

  # Set a colored gamertag for the T7 patch
  patchops t7 name Player --color ^1

  # Install DXVK-GPLAsync without the async cache
  patchops dxvk install --preset none

For more information, see: https://github.com/CodexForgeBR/patchops
`

// SetCustomHelp shows the full command overview for cmd itself while its
// subcommands keep cobra's generated help.
func SetCustomHelp(cmd *cobra.Command) {
	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		if c != cmd {
			defaultHelp(c, args)
			return
		}
		fmt.Fprint(c.OutOrStdout(), helpText)
	})
}
