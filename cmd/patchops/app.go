package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/patchops/internal/banner"
	"github.com/CodexForgeBR/patchops/internal/cli"
	"github.com/CodexForgeBR/patchops/internal/config"
	"github.com/CodexForgeBR/patchops/internal/fetch"
	"github.com/CodexForgeBR/patchops/internal/gameconfig"
	"github.com/CodexForgeBR/patchops/internal/history"
	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/runner"
	sighandler "github.com/CodexForgeBR/patchops/internal/signal"
	"github.com/CodexForgeBR/patchops/internal/state"
	"github.com/CodexForgeBR/patchops/internal/steam"
)

// reportedError marks a failure the runner has already logged.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// app carries the state shared by every subcommand for one invocation.
type app struct {
	cfg       *config.Config
	log       *logging.Logger
	runner    *runner.Runner
	store     *history.Store
	interrupt *sighandler.Interrupt
	ctx       context.Context
	cancel    context.CancelFunc
	locator   steam.Locator

	gameDir string
}

// setup loads the configuration chain and builds the logger, the signal
// handler, the history store and the runner.
func (a *app) setup(cmd *cobra.Command) error {
	// CLI flags are already bound to cfg, now layer the config files under them
	overrides := cli.BuildOverrides(cmd, a.cfg)
	cfg, err := config.LoadWithPrecedence(config.GlobalConfigPath(), a.cfg.ConfigFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ConfigFile = a.cfg.ConfigFile
	cfg.NoColor = a.cfg.NoColor
	a.cfg = cfg

	if cfg.NoColor {
		color.NoColor = true
	}

	a.log = logging.New(logging.WithVerbose(cfg.Verbose))
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err == nil {
		if err := a.log.OpenFile(cfg.LogFile); err != nil {
			a.log.Warn(fmt.Sprintf("Log file disabled: %v", err))
		}
	}

	a.ctx, a.cancel = context.WithCancel(cmd.Context())
	a.interrupt = sighandler.SetupSignalHandler(a.ctx, a.cancel, func() {
		banner.PrintInterruptedBanner(os.Stderr, cmd.Name())
	})

	opts := []runner.Option{runner.WithLockDir(filepath.Join(cfg.DataDir, "locks"))}
	store, err := history.Open(cfg.DataDir)
	if err != nil {
		a.log.Warn(fmt.Sprintf("Operation history disabled: %v", err))
	} else {
		a.store = store
		opts = append(opts, runner.WithRecorder(store))
	}
	a.runner = runner.New(a.log, opts...)

	if a.locator == nil {
		a.locator = steam.Default()
	}
	return nil
}

func (a *app) close() {
	if a.runner != nil {
		a.runner.Wait()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.log != nil {
		a.log.Close()
	}
}

// resolveGameDir picks the game directory from the flag or config, then
// the saved settings, then Steam discovery.
func (a *app) resolveGameDir() (string, error) {
	if a.gameDir != "" {
		return a.gameDir, nil
	}

	if a.cfg.GameDir != "" {
		if !steam.HasGameExecutable(a.cfg.GameDir) {
			a.log.Warn(fmt.Sprintf("No Black Ops III executable found in %s", a.cfg.GameDir))
		}
		a.gameDir = a.cfg.GameDir
		return a.gameDir, nil
	}

	settings, err := state.Load(a.cfg.DataDir)
	if err != nil {
		a.log.Warn(fmt.Sprintf("Ignoring saved settings: %v", err))
	} else if settings.GameDirectory != "" {
		a.log.Debug(fmt.Sprintf("Using saved game directory %s", settings.GameDirectory))
		a.gameDir = settings.GameDirectory
		return a.gameDir, nil
	}

	dir, err := steam.DetectGameDir(a.locator, executableDir())
	if err != nil {
		return "", fmt.Errorf("game directory not set; pass --game-dir or run 'patchops gamedir set <path>': %w", err)
	}
	a.log.Info(fmt.Sprintf("Detected game directory: %s", dir))
	a.gameDir = dir
	return dir, nil
}

// patcher returns a config.ini patcher for the resolved game directory.
func (a *app) patcher() (*gameconfig.Patcher, error) {
	dir, err := a.resolveGameDir()
	if err != nil {
		return nil, err
	}
	return gameconfig.NewPatcher(dir, a.log), nil
}

// presets returns the preset table from --presets, or the built-in one.
func (a *app) presets() (*gameconfig.Table, error) {
	if a.cfg.PresetsFile == "" {
		return gameconfig.DefaultPresets(), nil
	}
	return gameconfig.LoadPresets(a.cfg.PresetsFile)
}

func (a *app) client() *fetch.Client {
	return fetch.NewClient(time.Duration(a.cfg.DownloadTimeout)*time.Second, a.cfg.DownloadRetries, a.log)
}

// run executes fn through the runner with the game directory as target.
// Failures of an operation that ran come back already logged.
func (a *app) run(kind string, fn runner.Func) error {
	dir, err := a.resolveGameDir()
	if err != nil {
		return err
	}
	res, err := a.runner.Run(a.ctx, kind, dir, fn)
	if err != nil && res.ID != "" {
		return &reportedError{err: err}
	}
	return err
}

// runConfigWrite runs a config.ini rewrite. A locked config.ini is unlocked
// for the write and relocked afterwards; with --lock-config it is locked
// after every write.
func (a *app) runConfigWrite(kind string, fn func(p *gameconfig.Patcher) error) error {
	p, err := a.patcher()
	if err != nil {
		return err
	}
	return a.run(kind, func(ctx context.Context) error {
		if err := p.WithWritable(func() error { return fn(p) }); err != nil {
			return err
		}
		if a.cfg.LockConfig {
			return p.SetReadOnly(true)
		}
		return nil
	})
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
