package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/patchops/internal/banner"
	"github.com/CodexForgeBR/patchops/internal/dxvk"
	"github.com/CodexForgeBR/patchops/internal/gameconfig"
	"github.com/CodexForgeBR/patchops/internal/t7patch"
)

// parseOnOff accepts on/off and the usual boolean spellings.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes", "enable":
		return true, nil
	case "off", "false", "0", "no", "disable":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show essential config.ini settings and patch state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.resolveGameDir()
			if err != nil {
				return err
			}
			cfgStatus, err := gameconfig.ReadStatus(dir)
			if err != nil {
				return err
			}
			if !cfgStatus.ConfigFound {
				a.log.Warn("config.ini not found; showing defaults")
			}
			t7Status, err := t7patch.ReadStatus(dir)
			if err != nil {
				return err
			}
			dxStatus, err := dxvk.ReadStatus(dir)
			if err != nil {
				return err
			}
			banner.PrintStartupBanner(cmd.OutOrStdout(), version, dir)
			banner.PrintStatusBanner(cmd.OutOrStdout(), cfgStatus, t7Status, dxStatus)
			return nil
		},
	}
}

func newPresetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "List or apply graphics presets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available graphics presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.presets()
			if err != nil {
				return err
			}
			for _, name := range table.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "apply <name>",
		Short: "Apply a graphics preset to config.ini",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.presets()
			if err != nil {
				return err
			}
			return a.runConfigWrite("preset apply", func(p *gameconfig.Patcher) error {
				return p.ApplyPreset(args[0], table)
			})
		},
	})
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one config.ini value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigWrite("set "+args[0], func(p *gameconfig.Patcher) error {
				return p.SetValue(args[0], args[1], comment)
			})
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "Trailing comment (default: the setting's known range)")
	return cmd
}

func newVRAMCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vram on|off",
		Short: "Use all available video memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return a.runConfigWrite("vram", func(p *gameconfig.Patcher) error {
				return p.SetFullVRAM(on)
			})
		},
	}
}

func newStutterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stutter on|off",
		Short: "Toggle the stutter-reduction DLL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			p, err := a.patcher()
			if err != nil {
				return err
			}
			return a.run("stutter", func(ctx context.Context) error {
				return p.SetStutterReduction(on)
			})
		},
	}
}

func newIntroCmd(a *app) *cobra.Command {
	var all, keepMain bool
	cmd := &cobra.Command{
		Use:   "intro skip|restore",
		Short: "Skip or restore intro videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var skip bool
			switch args[0] {
			case "skip":
				skip = true
			case "restore":
			default:
				return fmt.Errorf("expected skip or restore, got %q", args[0])
			}
			p, err := a.patcher()
			if err != nil {
				return err
			}
			return a.run("intro "+args[0], func(ctx context.Context) error {
				if all {
					return p.SkipAllIntros(skip, keepMain)
				}
				return p.SkipIntro(skip)
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Apply to every intro video, not just the main logo sequence")
	cmd.Flags().BoolVar(&keepMain, "keep-main", false, "With restore --all, keep the main intro skipped")
	return cmd
}

func newLockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lock on|off",
		Short: "Make config.ini read-only or writable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			p, err := a.patcher()
			if err != nil {
				return err
			}
			return a.run("lock", func(ctx context.Context) error {
				return p.SetReadOnly(on)
			})
		},
	}
}
