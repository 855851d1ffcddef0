//go:build !windows

/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/automationd/egtunnel/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBin(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-npm")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

func TestRunPassesScriptAndDir(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer
	r := &Runner{
		Bin:    fakeBin(t, "echo \"$@\"\npwd\n"),
		Dir:    dir,
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stdout,
	}

	require.NoError(t, r.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "run tunnel", lines[0])

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved, lines[1])
}

func TestRunNonZeroExit(t *testing.T) {
	r := &Runner{Bin: fakeBin(t, "exit 3\n"), Dir: t.TempDir()}

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 3")
}

func TestRunMissingBinary(t *testing.T) {
	r := &Runner{Bin: filepath.Join(t.TempDir(), "does-not-exist"), Dir: t.TempDir()}

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't start tunnel")
}

func TestRunCancelStopsProcessGroup(t *testing.T) {
	r := &Runner{Bin: fakeBin(t, "sleep 30\n"), Dir: t.TempDir()}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	require.NoError(t, r.Run(ctx))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunLogsExitCodeAtDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	restore := logger.SetOutput(&buf)
	defer restore()
	logger.Initialize("warning", true)

	r := &Runner{Bin: fakeBin(t, "exit 0\n"), Dir: t.TempDir()}

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, buf.String(), "Starting tunnel...")
	assert.Contains(t, buf.String(), "Tunnel process exited with code 0")
}

func TestCommandProcessGroup(t *testing.T) {
	notTTY, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer notTTY.Close()

	for _, stdin := range []io.Reader{nil, strings.NewReader(""), notTTY} {
		r := &Runner{Bin: "npm", Dir: t.TempDir(), Stdin: stdin}

		c := r.command(context.Background())
		require.NotNil(t, c.SysProcAttr)
		assert.True(t, c.SysProcAttr.Setpgid)
		assert.NotNil(t, c.Cancel)
	}

	assert.False(t, attachedToTerminal(notTTY))
}
