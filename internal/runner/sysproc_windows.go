//go:build windows
// +build windows

/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package runner

import (
	"os/exec"
	"syscall"
)

// A new process group ignores Ctrl-C, so it is only used when stdin is not a console.
func setupSysProcAttr(c *exec.Cmd, ownGroup bool) {
	if ownGroup {
		c.SysProcAttr = &syscall.SysProcAttr{
			CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
		}
	}
	c.Cancel = func() error {
		return c.Process.Kill()
	}
}
