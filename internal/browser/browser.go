/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package browser

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/automationd/egtunnel/internal/logger"
	"github.com/pterm/pterm"
)

// openCommands maps GOOS to the argv that opens a URL in the default browser.
var openCommands = map[string]func(url string) []string{
	"windows": func(url string) []string { return []string{"cmd", "/c", "start", "", url} },
	"darwin":  func(url string) []string { return []string{"open", url} },
	"linux":   func(url string) []string { return []string{"xdg-open", url} },
}

// Launcher starts a process without waiting for it.
type Launcher interface {
	Start(name string, args ...string) error
}

// ExecLauncher starts processes with os/exec and reaps them in the background.
type ExecLauncher struct{}

func (ExecLauncher) Start(name string, args ...string) error {
	c := exec.Command(name, args...)
	if err := c.Start(); err != nil {
		return err
	}
	go func() {
		if err := c.Wait(); err != nil {
			logger.Debug("Open command finished with error", "cmd", c.String(), "error", err)
		}
	}()
	return nil
}

// URL is the public address of a tunnel.
func URL(name, baseURL string) string {
	return fmt.Sprintf("https://%s.%s", name, baseURL)
}

type Opener struct {
	GOOS     string
	Launcher Launcher
}

func NewOpener() *Opener {
	return &Opener{GOOS: runtime.GOOS, Launcher: ExecLauncher{}}
}

// Supported reports whether there is an open command for goos.
func Supported(goos string) bool {
	_, ok := openCommands[goos]
	return ok
}

// Open hands url to the platform's opener. Unsupported platforms are logged
// and skipped; the opener's own result is not checked.
func (o *Opener) Open(url string) {
	if !Supported(o.GOOS) {
		logger.Error("Platform not supported for opening URLs", "platform", o.GOOS)
		return
	}

	pterm.Info.Printfln("Opening %s", url)

	argv := openCommands[o.GOOS](url)
	if err := o.Launcher.Start(argv[0], argv[1:]...); err != nil {
		logger.Debug("Can't launch open command", "cmd", argv[0], "error", err)
	}
}
