//go:build !windows

/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/automationd/egtunnel/internal/cloudflared"
	"github.com/automationd/egtunnel/internal/config"
	"github.com/automationd/egtunnel/internal/project"
	"github.com/automationd/egtunnel/internal/runner"
	"github.com/automationd/egtunnel/internal/tunnel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// fakeCloudflared mimics the daemon's create/route/version output and records every invocation.
const fakeCloudflared = `#!/bin/sh
echo "$@" >> "$(dirname "$0")/calls.log"
case "$1" in
  --version) echo "cloudflared version 2024.6.1 (built 2024-06-12-1334 UTC)" ;;
  tunnel)
    case "$2" in
      create) echo "Tunnel credentials written to $HOME/.cloudflared/11111111-2222-3333-4444-555555555555.json."
              echo "Created tunnel $3 with id 11111111-2222-3333-4444-555555555555" ;;
      route) echo "Added CNAME $5 which will route to this tunnel" ;;
    esac ;;
esac
`

const fakeNpm = `#!/bin/sh
echo "npm $@"
cat tunnel.yml
`

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0755))
	return path
}

func TestRunAgainstFakeBinaries(t *testing.T) {
	bin := t.TempDir()
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)

	settings := &config.Settings{
		HomeDir:      home,
		WorkDir:      work,
		ConfigFile:   filepath.Join(home, config.PersistedConfigName),
		DaemonBin:    writeScript(t, bin, "cloudflared", fakeCloudflared),
		RunnerBin:    writeScript(t, bin, "npm", fakeNpm),
		LogPlainText: true,
	}
	require.NoError(t, config.SavePersisted(settings.ConfigFile, config.PersistedConfig{BaseURL: "example.com"}))
	require.NoError(t, os.WriteFile(filepath.Join(work, project.ManifestName), []byte(`{"name":"web","scripts":{"dev":"vite"}}`), 0644))

	var out bytes.Buffer
	tunnelRunner := runner.New(settings.RunnerBin, work)
	tunnelRunner.Stdin = strings.NewReader("")
	tunnelRunner.Stdout = &out
	tunnelRunner.Stderr = &out

	opener := &fakeOpener{}
	a := &App{
		Settings:  settings,
		Daemon:    cloudflared.NewClient(settings.DaemonBin),
		Prompter:  &fakePrompter{},
		Opener:    opener,
		Runner:    tunnelRunner,
		Integrate: project.Integrate,
	}

	require.NoError(t, a.Run(context.Background(), []string{"demo", "3000"}))

	routing, err := os.ReadFile(filepath.Join(work, tunnel.RoutingFileName))
	require.NoError(t, err)
	assert.Equal(t,
		"url: http://localhost:3000\n"+
			"tunnel: 11111111-2222-3333-4444-555555555555\n"+
			"credentials-file: "+filepath.Join(home, ".cloudflared", "11111111-2222-3333-4444-555555555555.json")+"\n",
		string(routing))

	manifest, err := os.ReadFile(filepath.Join(work, project.ManifestName))
	require.NoError(t, err)
	assert.Equal(t, project.RunScript, gjson.GetBytes(manifest, "scripts.tunnel").String())
	assert.Equal(t, "vite", gjson.GetBytes(manifest, "scripts.dev").String())

	calls, err := os.ReadFile(filepath.Join(bin, "calls.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--version",
		"tunnel create demo",
		"tunnel route dns 11111111-2222-3333-4444-555555555555 demo",
	}, strings.Split(strings.TrimSpace(string(calls)), "\n"))

	assert.Contains(t, out.String(), "npm run tunnel")
	assert.Contains(t, out.String(), "tunnel: 11111111-2222-3333-4444-555555555555")
	assert.Equal(t, []string{"https://demo.example.com"}, opener.urls)
}
