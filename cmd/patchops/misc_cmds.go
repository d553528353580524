package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/patchops/internal/banner"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
	"github.com/CodexForgeBR/patchops/internal/state"
	"github.com/CodexForgeBR/patchops/internal/steam"
)

func newGameDirCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gamedir",
		Short: "Show, save or auto-detect the game directory",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the game directory in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.resolveGameDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <path>",
		Short: "Save the game directory in the settings file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return a.saveGameDir(dir)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "detect",
		Short: "Find the game through Steam and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := steam.DetectGameDir(a.locator, executableDir())
			if err != nil {
				return err
			}
			a.log.Info(fmt.Sprintf("Detected game directory: %s", dir))
			return a.saveGameDir(dir)
		},
	})
	return cmd
}

func (a *app) saveGameDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return patcherr.NotFound("game directory", dir)
	}
	if !steam.HasGameExecutable(dir) {
		a.log.Warn(fmt.Sprintf("No Black Ops III executable found in %s", dir))
	}
	if err := state.SaveGameDirectory(a.cfg.DataDir, dir); err != nil {
		return err
	}
	a.gameDir = dir
	a.log.Success(fmt.Sprintf("Game directory set to %s", dir))
	return nil
}

func newLaunchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "launch",
		Short: "Launch Black Ops III through Steam",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, found := a.locator.Locate()
			argv := steam.LaunchCommand(runtime.GOOS, paths, found)
			a.log.Debug(fmt.Sprintf("Launch command: %v", argv))
			if err := steam.Launch(argv); err != nil {
				return err
			}
			a.log.Success("Launching Black Ops III through Steam")
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return fmt.Errorf("operation history is unavailable: %w", patcherr.ErrNotFound)
			}
			entries, err := a.store.List(a.ctx, limit)
			if err != nil {
				return err
			}
			banner.PrintHistoryBanner(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show (0 for all)")
	return cmd
}
