//go:build !windows
// +build !windows

/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package runner

import (
	"os/exec"
	"syscall"
)

// setupSysProcAttr puts the tunnel in its own group when ownGroup is set so
// npm and cloudflared go down together. On a terminal the process shares our
// foreground group instead: a background group reading the tty gets SIGTTIN,
// and Ctrl-C already reaches every process in the foreground group.
func setupSysProcAttr(c *exec.Cmd, ownGroup bool) {
	if !ownGroup {
		c.Cancel = func() error {
			return c.Process.Signal(syscall.SIGTERM)
		}
		return
	}

	c.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
	c.Cancel = func() error {
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
}
