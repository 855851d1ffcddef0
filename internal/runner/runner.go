/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

// Package runner launches the project's registered tunnel script in the foreground.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/automationd/egtunnel/internal/logger"
	"github.com/automationd/egtunnel/internal/project"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Runner runs `<bin> run tunnel` in Dir with the terminal's streams attached.
type Runner struct {
	Bin    string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func New(bin, dir string) *Runner {
	return &Runner{
		Bin:    bin,
		Dir:    dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (r *Runner) command(ctx context.Context) *exec.Cmd {
	c := exec.CommandContext(ctx, r.Bin, "run", project.ScriptName)
	c.Dir = r.Dir
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	setupSysProcAttr(c, !attachedToTerminal(r.Stdin))
	return c
}

// attachedToTerminal reports whether in is a terminal. Such a process must
// stay in the terminal's foreground group to read from it.
func attachedToTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run blocks until the tunnel process exits or ctx is cancelled. An
// interrupted tunnel is not an error.
func (r *Runner) Run(ctx context.Context) error {
	pterm.Info.Println("Starting tunnel...")

	c := r.command(ctx)
	logger.Debug("Launching tunnel process", "cmd", c.String(), "dir", c.Dir)

	if err := c.Start(); err != nil {
		logger.Error("Error starting tunnel", "error", err)
		return fmt.Errorf("can't start tunnel: %w", err)
	}

	err := c.Wait()
	code := c.ProcessState.ExitCode()
	logger.Notice(fmt.Sprintf("Tunnel process exited with code %d", code))

	if ctx.Err() != nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("tunnel process exited with code %d", code)
	}
	return err
}
