package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/patchops/internal/t7patch"
)

func newT7Cmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "t7",
		Short: "Manage the T7 network patch",
	}
	cmd.AddCommand(
		newT7InstallCmd(a),
		newT7UninstallCmd(a),
		newT7StatusCmd(a),
		newT7NameCmd(a),
		newT7PasswordCmd(a),
		newT7FriendsOnlyCmd(a),
	)
	return cmd
}

func newT7InstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download and install the T7 patch and LPC files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.resolveGameDir()
			if err != nil {
				return err
			}
			in := t7patch.NewInstaller(dir, a.cfg.ModDir, a.client(), a.log)
			return a.run("t7 install", in.Install)
		},
	}
}

func newT7UninstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the T7 patch and restore the original LPC files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.resolveGameDir()
			if err != nil {
				return err
			}
			return a.run("t7 uninstall", func(ctx context.Context) error {
				return t7patch.Uninstall(dir, a.cfg.ModDir, a.log)
			})
		},
	}
}

func newT7StatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the T7 patch settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.resolveGameDir()
			if err != nil {
				return err
			}
			s, err := t7patch.ReadStatus(dir)
			if err != nil {
				return err
			}
			printT7Status(cmd, s)
			return nil
		},
	}
}

func printT7Status(cmd *cobra.Command, s t7patch.Status) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Installed:     %t\n", s.Installed)
	if !s.ConfFound {
		fmt.Fprintf(out, "%s not found\n", t7patch.ConfFile)
		return
	}
	fmt.Fprintf(out, "Gamertag:      %s\n", orUnset(s.PlainName))
	color := "none"
	if s.ColorCode != nil {
		color = *s.ColorCode
		if c, ok := t7patch.LookupColor(color); ok {
			color = fmt.Sprintf("%s (%s)", c.Code, c.Label)
		}
	}
	fmt.Fprintf(out, "Colour:        %s\n", color)
	password := "(not set)"
	if s.Password != nil && *s.Password != "" {
		password = "(set)"
	}
	fmt.Fprintf(out, "Password:      %s\n", password)
	friends := "(not set)"
	if s.FriendsOnly != nil {
		friends = fmt.Sprintf("%t", *s.FriendsOnly)
	}
	fmt.Fprintf(out, "Friends only:  %s\n", friends)
}

func orUnset(s *string) string {
	if s == nil {
		return "(not set)"
	}
	return *s
}

func newT7NameCmd(a *app) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "name <tag>",
		Short: "Set the gamertag, optionally colored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := t7patch.ComposeGamertag(color, args[0])
			if err != nil {
				return err
			}
			return a.updateT7("t7 name", t7patch.Update{Name: &tag})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Colour code (^0-^9) or name (red, green, ...)")
	return cmd
}

func newT7PasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "password <pw>",
		Short: `Set the network password ("" clears it)`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw := args[0]
			return a.updateT7("t7 password", t7patch.Update{Password: &pw})
		},
	}
}

func newT7FriendsOnlyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "friends-only on|off",
		Short: "Restrict lobbies to friends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return a.updateT7("t7 friends-only", t7patch.Update{FriendsOnly: &on})
		},
	}
}

func (a *app) updateT7(kind string, u t7patch.Update) error {
	dir, err := a.resolveGameDir()
	if err != nil {
		return err
	}
	return a.run(kind, func(ctx context.Context) error {
		return t7patch.UpdateConf(dir, u, a.log)
	})
}
