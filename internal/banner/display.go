// Package banner renders the colored status, history and interruption
// blocks printed by the patchops CLI.
package banner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/patchops/internal/dxvk"
	"github.com/CodexForgeBR/patchops/internal/gameconfig"
	"github.com/CodexForgeBR/patchops/internal/history"
	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/t7patch"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

// PrintStartupBanner displays the tool header with the game directory in use.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  patchops - Black Ops III patch manager
//	═══════════════════════════════════════════════════
//	  Version:    v1.2.0
//	  Game dir:   /games/Call of Duty Black Ops III
//	═══════════════════════════════════════════════════
func PrintStartupBanner(w io.Writer, version, gameDir string) {
	sep := headerColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  patchops - Black Ops III patch manager"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Version:    %s\n", version)
	fmt.Fprintf(w, "  Game dir:   %s\n", gameDir)
	fmt.Fprintln(w, sep)
}

// PrintStatusBanner displays the essential config.ini settings followed by
// the state of the T7 patch and DXVK.
func PrintStatusBanner(w io.Writer, s gameconfig.EssentialStatus, t7 t7patch.Status, dx dxvk.Status) {
	sep := strings.Repeat("─", 50)
	fmt.Fprintln(w, sep)
	if !s.ConfigFound {
		fmt.Fprintln(w, warnColor("  config.ini not found, showing defaults"))
	}
	fmt.Fprintf(w, "  Max FPS:            %d\n", s.MaxFPS)
	fmt.Fprintf(w, "  FOV:                %d\n", s.FOV)
	fmt.Fprintf(w, "  Display mode:       %s\n", displayMode(s.FullScreenMode))
	fmt.Fprintf(w, "  Resolution:         %s @ %gHz (%d%%)\n", s.WindowSize, s.RefreshRate, s.ResolutionPercent)
	fmt.Fprintf(w, "  V-sync:             %s\n", onOff(s.Vsync))
	fmt.Fprintf(w, "  Draw FPS:           %s\n", onOff(s.DrawFPS))
	fmt.Fprintf(w, "  Smooth framerate:   %s\n", onOff(s.SmoothFramerate))
	fmt.Fprintf(w, "  Unlocked options:   %s\n", onOff(!s.RestrictGraphicsOptions))
	fmt.Fprintf(w, "  Video memory:       %g (override %s)\n", s.VideoMemory, onOff(s.VRAMOverride))
	fmt.Fprintf(w, "  Max frame latency:  %d\n", s.MaxFrameLatency)
	fmt.Fprintf(w, "  Reduce CPU usage:   %s\n", onOff(s.ReduceCPU))
	fmt.Fprintf(w, "  Stutter reduction:  %s\n", onOff(s.ReduceStutter))
	fmt.Fprintf(w, "  Skip intro:         %s\n", introState(s))
	fmt.Fprintf(w, "  config.ini locked:  %s\n", onOff(s.ReadOnly))
	fmt.Fprintln(w, sep)

	fmt.Fprintf(w, "  T7 patch:           %s\n", installed(t7.Installed))
	if t7.Gamertag != nil {
		fmt.Fprintf(w, "  Gamertag:           %s", deref(t7.PlainName))
		if t7.ColorCode != nil {
			fmt.Fprintf(w, " (color %s)", *t7.ColorCode)
		}
		fmt.Fprintln(w)
	}
	if t7.Password != nil {
		fmt.Fprintf(w, "  Network password:   %s\n", setOrEmpty(*t7.Password))
	}
	if t7.FriendsOnly != nil {
		fmt.Fprintf(w, "  Friends only:       %s\n", onOff(*t7.FriendsOnly))
	}
	fmt.Fprintf(w, "  DXVK-GPLAsync:      %s\n", installed(dx.Installed))
	fmt.Fprintln(w, sep)
}

// PrintHistoryBanner lists recorded operations, newest first.
//
// Example output:
//
//	──────────────────────────────────────────────────
//	  2026-03-04 10:00:00  Success      preset apply  2s
//	  2026-03-04 09:58:12  Remote       dxvk install  1m 3s
//	──────────────────────────────────────────────────
func PrintHistoryBanner(w io.Writer, entries []history.Entry) {
	sep := strings.Repeat("─", 50)
	fmt.Fprintln(w, sep)
	if len(entries) == 0 {
		fmt.Fprintln(w, "  No operations recorded yet")
	}
	for _, e := range entries {
		status := e.Status()
		if e.ExitCode == 0 {
			status = successColor(fmt.Sprintf("%-13s", status))
		} else {
			status = errorColor(fmt.Sprintf("%-13s", status))
		}
		elapsed := logging.FormatDuration(int(e.Finished.Sub(e.Started).Seconds()))
		fmt.Fprintf(w, "  %s  %s %-14s %s\n", e.Started.Local().Format("2006-01-02 15:04:05"), status, e.Kind, elapsed)
		if e.Error != "" {
			fmt.Fprintf(w, "      %s\n", e.Error)
		}
	}
	fmt.Fprintln(w, sep)
}

// PrintInterruptedBanner displays when an operation is cancelled by a signal.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Interrupted: dxvk install
//	  Partial downloads were discarded
//	═══════════════════════════════════════════════════
func PrintInterruptedBanner(w io.Writer, kind string) {
	sep := warnColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, warnColor("  ⚠ Interrupted: "+kind))
	fmt.Fprintln(w, "  Partial downloads were discarded")
	fmt.Fprintln(w, sep)
}

func displayMode(mode int) string {
	switch mode {
	case 0:
		return "Windowed"
	case 1:
		return "Fullscreen"
	case 2:
		return "Borderless window"
	default:
		return fmt.Sprintf("Unknown (%d)", mode)
	}
}

func introState(s gameconfig.EssentialStatus) string {
	switch {
	case s.AllIntrosSkipped:
		return "all"
	case s.SkipIntro:
		return "main"
	default:
		return "off"
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func installed(b bool) string {
	if b {
		return "installed"
	}
	return "not installed"
}

func setOrEmpty(s string) string {
	if s == "" {
		return "(none)"
	}
	return "set"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
