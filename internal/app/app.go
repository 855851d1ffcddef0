/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

// Package app wires the tunnel workflow: preflight, configuration, tunnel
// creation, then DNS routing, project integration and the tunnel process.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/automationd/egtunnel/internal/browser"
	"github.com/automationd/egtunnel/internal/cloudflared"
	"github.com/automationd/egtunnel/internal/config"
	"github.com/automationd/egtunnel/internal/constraints"
	"github.com/automationd/egtunnel/internal/logger"
	"github.com/automationd/egtunnel/internal/project"
	"github.com/automationd/egtunnel/internal/runner"
	"github.com/automationd/egtunnel/internal/tunnel"
	"github.com/automationd/egtunnel/internal/ux"
	"github.com/automationd/egtunnel/internal/version"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"
)

const (
	namePrompt = "Enter tunnel name:"
	portPrompt = "Enter port:"
)

// TunnelRunner keeps the tunnel process in the foreground until it exits.
type TunnelRunner interface {
	Run(ctx context.Context) error
}

// URLOpener opens a URL without reporting the outcome.
type URLOpener interface {
	Open(url string)
}

type App struct {
	Settings      *config.Settings
	Daemon        cloudflared.Daemon
	Prompter      config.Prompter
	Opener        URLOpener
	Runner        TunnelRunner
	Integrate     func(dir string) error
	ReleaseClient *http.Client
}

// New builds an App backed by the real cloudflared, terminal and browser.
func New(settings *config.Settings) *App {
	return &App{
		Settings:      settings,
		Daemon:        cloudflared.NewClient(settings.DaemonBin),
		Prompter:      ux.NewSurveyPrompter(),
		Opener:        browser.NewOpener(),
		Runner:        runner.New(settings.RunnerBin, settings.WorkDir),
		Integrate:     project.Integrate,
		ReleaseClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Run executes the workflow. With exactly two args they are used as tunnel
// name and port; otherwise both are prompted for.
func (a *App) Run(ctx context.Context, args []string) error {
	checks := []constraints.Option{
		constraints.WithDaemon(a.Daemon),
		constraints.WithMinDaemonVersion(constraints.MinDaemonVersion),
	}
	if a.Settings.CheckUpdates {
		checks = append(checks, constraints.WithLatestRelease(a.ReleaseClient, version.DaemonReleasesURL))
	}

	if err := constraints.CheckConstraints(ctx, checks...); err != nil {
		return err
	}

	cfg, err := config.EnsurePersisted(a.Settings.ConfigFile, a.Prompter)
	if err != nil {
		return err
	}

	name, port, err := a.tunnelArgs(args)
	if err != nil {
		return err
	}

	provisioner := &tunnel.Provisioner{
		Daemon:  a.Daemon,
		HomeDir: a.Settings.HomeDir,
		WorkDir: a.Settings.WorkDir,
	}

	// Spinners and debug/info log lines garble each other
	showSpinner := !a.Settings.LogPlainText && a.Settings.LogLevel != "debug" && a.Settings.LogLevel != "info"
	spinner := ux.NewProgressSpinner(fmt.Sprintf("Creating tunnel %s...", name), !showSpinner)
	provisioner.Progress = func(message string) { spinner.UpdateText(message) }

	d, routingFile, err := provisioner.Create(ctx, name, port)
	if err != nil {
		spinner.Fail(fmt.Sprintf("Failed to create tunnel %s", name), "error", err)
		return err
	}

	spinner.Success(fmt.Sprintf("Tunnel %s created successfully.", name), "id", d.ID)

	publicURL := browser.URL(d.Name, cfg.BaseURL)
	spinner.Status(d, publicURL, routingFile)

	// No shared context: one branch failing must not stop the others.
	var g errgroup.Group

	g.Go(func() error {
		if err := provisioner.RouteDNS(ctx, d); err != nil {
			logger.Error("Error routing DNS", "name", d.Name, "id", d.ID, "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := a.Integrate(a.Settings.WorkDir); err != nil {
			logger.Error("Error updating package.json", "error", err)
			return err
		}
		pterm.Success.Println("Added tunnel script to package.json")

		a.Opener.Open(publicURL)
		return nil
	})

	g.Go(func() error {
		return a.Runner.Run(ctx)
	})

	return g.Wait()
}

func (a *App) tunnelArgs(args []string) (string, string, error) {
	if len(args) == 2 {
		return strings.TrimSpace(args[0]), strings.TrimSpace(args[1]), nil
	}

	name, err := a.Prompter.Ask(namePrompt)
	if err != nil {
		return "", "", fmt.Errorf("can't read tunnel name: %w", err)
	}

	port, err := a.Prompter.Ask(portPrompt)
	if err != nil {
		return "", "", fmt.Errorf("can't read port: %w", err)
	}

	return strings.TrimSpace(name), strings.TrimSpace(port), nil
}
