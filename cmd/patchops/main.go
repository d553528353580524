package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/patchops/internal/cli"
	"github.com/CodexForgeBR/patchops/internal/config"
	"github.com/CodexForgeBR/patchops/internal/exitcode"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	a := &app{cfg: config.NewDefaultConfig()}
	rootCmd := newRootCmd(a)

	err := rootCmd.Execute()
	code := a.finish(err)
	os.Exit(code)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "patchops",
		Short:   "Black Ops III configuration and patch manager",
		Long:    "patchops tunes Black Ops III's config.ini and manages the T7 network patch and DXVK-GPLAsync.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags after parsing
			if err := cli.ValidateFlags(a.cfg); err != nil {
				return err
			}
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Bind all global flags to the config
	cli.BindFlags(rootCmd, a.cfg)

	// Set custom help template
	cli.SetCustomHelp(rootCmd)

	rootCmd.AddCommand(
		newStatusCmd(a),
		newPresetCmd(a),
		newSetCmd(a),
		newVRAMCmd(a),
		newStutterCmd(a),
		newIntroCmd(a),
		newLockCmd(a),
		newT7Cmd(a),
		newDXVKCmd(a),
		newGameDirCmd(a),
		newLaunchCmd(a),
		newHistoryCmd(a),
	)
	return rootCmd
}

// finish reports err, releases resources and returns the process exit code.
func (a *app) finish(err error) int {
	code := exitcode.FromError(err)
	if a.interrupt != nil && a.interrupt.Received() {
		code = exitcode.Interrupted
	}

	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		if a.log != nil {
			a.log.Error(err.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	a.close()
	return code
}
