/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	"github.com/automationd/egtunnel/internal/logger"
	"github.com/pterm/pterm"
)

// DaemonReleasesURL is the GitHub API endpoint for the latest cloudflared release.
const DaemonReleasesURL = "https://api.github.com/repos/cloudflare/cloudflared/releases/latest"

var (
	GitCommit string
	Version   = "0.0.0"
)

func FullVersionNumber() string {
	v := Version

	if Version == "dev" || Version == "0.0.0" {
		v = v + fmt.Sprintf(" dev %s", time.Now().Format("2006-01-02T15:04:05"))
	}

	if GitCommit != "" {
		v = v + fmt.Sprintf(" (%s)", GitCommit)
	}

	return v
}

type gitResponse struct {
	Version string `json:"tag_name"`
}

// LatestDaemonRelease fetches the tag of the newest cloudflared release from url.
func LatestDaemonRelease(ctx context.Context, client *http.Client, url string) (*semver.Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// GitHub rate limiting shows up as a non-200 here
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}

	var gr gitResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, err
	}

	return semver.NewVersion(strings.TrimPrefix(gr.Version, "v"))
}

// CheckLatestDaemonRelease warns when installed is older than the latest
// cloudflared release. Lookup failures are only debug-logged.
func CheckLatestDaemonRelease(ctx context.Context, client *http.Client, url string, installed *semver.Version) bool {
	latest, err := LatestDaemonRelease(ctx, client, url)
	if err != nil {
		logger.Debug("Failed to check for the latest cloudflared version", "error", err)
		return false
	}

	if installed.LessThan(latest) {
		pterm.Warning.Printfln("The newest cloudflared version is %s, but yours is %s. Consider upgrading.", latest, installed)
		return true
	}
	return false
}
