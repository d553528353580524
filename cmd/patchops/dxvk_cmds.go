package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/patchops/internal/dxvk"
)

func newDXVKCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dxvk",
		Short: "Manage DXVK-GPLAsync",
	}

	var preset string
	install := &cobra.Command{
		Use:   "install",
		Short: "Install the latest DXVK-GPLAsync release and write dxvk.conf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := dxvk.Preset(preset)
			if err != nil {
				return err
			}
			dir, err := a.resolveGameDir()
			if err != nil {
				return err
			}
			in := dxvk.NewInstaller(dir, a.cfg.ModDir, a.client(), a.log)
			return a.run("dxvk install", func(ctx context.Context) error {
				return in.Install(ctx, settings)
			})
		},
	}
	install.Flags().StringVar(&preset, "preset", "recommended",
		fmt.Sprintf("dxvk.conf preset (%s)", strings.Join(dxvk.PresetNames, ", ")))

	uninstall := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the DXVK DLLs and dxvk.conf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.resolveGameDir()
			if err != nil {
				return err
			}
			return a.run("dxvk uninstall", func(ctx context.Context) error {
				return dxvk.Uninstall(dir, a.log)
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether DXVK is installed and its dxvk.conf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.resolveGameDir()
			if err != nil {
				return err
			}
			s, err := dxvk.ReadStatus(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Installed: %t\n", s.Installed)
			if s.Conf != "" {
				fmt.Fprintf(out, "\n%s:\n%s", dxvk.ConfFile, s.Conf)
			}
			return nil
		},
	}

	cmd.AddCommand(install, uninstall, status)
	return cmd
}
