/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package constraints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/Masterminds/semver"
	"github.com/automationd/egtunnel/internal/cloudflared"
	"github.com/automationd/egtunnel/internal/logger"
	"github.com/automationd/egtunnel/internal/version"
	"github.com/pterm/pterm"
)

const (
	InstallHelpURL = "https://developers.cloudflare.com/cloudflare-one/connections/connect-apps/install-and-setup/installation"

	// MinDaemonVersion is the first cloudflared release with `route dns` by UUID and `--config ... run`.
	MinDaemonVersion = ">= 2022.3.0"
)

// ErrDaemonMissing means cloudflared could not be invoked at all.
var ErrDaemonMissing = errors.New("cloudflared is not installed. Please install cloudflared to use this tool. (" + InstallHelpURL + ")")

var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

type constraints struct {
	daemon           cloudflared.Daemon
	minDaemonVersion string
	releaseClient    *http.Client
	releaseURL       string
}

// CheckConstraints checks if the constraints are met
func CheckConstraints(ctx context.Context, options ...Option) error {
	r := constraints{}
	for _, opt := range options {
		opt(&r)
	}

	if r.daemon != nil {
		if err := r.checkDaemon(ctx); err != nil {
			return err
		}
	}

	return nil
}

type Option func(*constraints)

// WithDaemon requires cloudflared to answer a version query.
func WithDaemon(d cloudflared.Daemon) Option {
	return func(r *constraints) {
		r.daemon = d
	}
}

// WithMinDaemonVersion warns when the reported cloudflared version doesn't satisfy constraint.
func WithMinDaemonVersion(constraint string) Option {
	return func(r *constraints) {
		r.minDaemonVersion = constraint
	}
}

// WithLatestRelease compares the installed cloudflared against the latest release published at url.
func WithLatestRelease(client *http.Client, url string) Option {
	return func(r *constraints) {
		r.releaseClient = client
		r.releaseURL = url
	}
}

func (r *constraints) checkDaemon(ctx context.Context) error {
	versionLine, err := r.daemon.Version(ctx)
	if err != nil {
		logger.Debug("cloudflared version query failed", "error", err)
		return ErrDaemonMissing
	}

	pterm.Info.Println("cloudflared is installed:", versionLine)

	if r.minDaemonVersion == "" && r.releaseURL == "" {
		return nil
	}

	v, err := ParseDaemonVersion(versionLine)
	if err != nil {
		logger.Debug("Can't parse cloudflared version, skipping version check", "version", versionLine, "error", err)
		return nil
	}

	if r.minDaemonVersion != "" {
		c, err := semver.NewConstraint(r.minDaemonVersion)
		if err != nil {
			return err
		}

		if !c.Check(v) {
			logger.Warn("cloudflared version is older than supported. Some commands may fail", "version", v.String(), "required", r.minDaemonVersion)
		}
	}

	if r.releaseURL != "" {
		version.CheckLatestDaemonRelease(ctx, r.releaseClient, r.releaseURL, v)
	}

	return nil
}

// ParseDaemonVersion extracts the first x.y.z out of a `cloudflared --version` line.
func ParseDaemonVersion(versionLine string) (*semver.Version, error) {
	raw := versionPattern.FindString(versionLine)
	if raw == "" {
		return nil, fmt.Errorf("no version number in %q", versionLine)
	}
	return semver.NewVersion(raw)
}
