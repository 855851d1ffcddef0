/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

// Package cloudflared wraps the cloudflared CLI. Only free-text stdout is
// parsed, so every parsing rule lives here and can be swapped out when the
// daemon output changes.
package cloudflared

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/automationd/egtunnel/internal/logger"
	"github.com/google/uuid"
)

var (
	// ErrCreateTunnel is returned when `tunnel create` fails or writes to stderr.
	ErrCreateTunnel = errors.New("tunnel create failed")
	// ErrRouteDNS is returned when `tunnel route dns` fails or writes to stderr.
	ErrRouteDNS = errors.New("tunnel route dns failed")
)

// Executor runs a command to completion and returns its captured streams.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecExecutor runs commands with os/exec.
type ExecExecutor struct{}

func (ExecExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running command", "cmd", cmd.String())
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Daemon is what the rest of the tool needs from cloudflared.
type Daemon interface {
	Version(ctx context.Context) (string, error)
	CreateTunnel(ctx context.Context, name string) (string, error)
	RouteDNS(ctx context.Context, tunnelID, name string) (string, error)
}

// Client talks to cloudflared through an Executor.
type Client struct {
	Bin  string
	Exec Executor
}

func NewClient(bin string) *Client {
	return &Client{Bin: bin, Exec: ExecExecutor{}}
}

// Version returns the trimmed output of `cloudflared --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	stdout, _, err := c.Exec.Run(ctx, c.Bin, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}

// CreateTunnel runs `cloudflared tunnel create <name>` and returns the new tunnel identifier.
func (c *Client) CreateTunnel(ctx context.Context, name string) (string, error) {
	stdout, stderr, err := c.Exec.Run(ctx, c.Bin, "tunnel", "create", name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCreateTunnel, err)
	}
	if len(stderr) > 0 {
		return "", fmt.Errorf("%w: %s", ErrCreateTunnel, strings.TrimSpace(string(stderr)))
	}

	id, err := ParseTunnelID(string(stdout))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCreateTunnel, err)
	}

	if _, err := uuid.Parse(id); err != nil {
		logger.Warn("Tunnel identifier doesn't look like a UUID. cloudflared output format may have changed", "id", id)
	}

	return id, nil
}

// RouteDNS runs `cloudflared tunnel route dns <id> <name>` and returns its stdout.
func (c *Client) RouteDNS(ctx context.Context, tunnelID, name string) (string, error) {
	stdout, stderr, err := c.Exec.Run(ctx, c.Bin, "tunnel", "route", "dns", tunnelID, name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRouteDNS, err)
	}
	if len(stderr) > 0 {
		return "", fmt.Errorf("%w: %s", ErrRouteDNS, strings.TrimSpace(string(stderr)))
	}
	return strings.TrimSpace(string(stdout)), nil
}

// ParseTunnelID extracts the identifier from `tunnel create` output: the last
// whitespace-delimited token.
func ParseTunnelID(stdout string) (string, error) {
	fields := strings.Fields(stdout)
	if len(fields) == 0 {
		return "", errors.New("no tunnel identifier in empty output")
	}
	return fields[len(fields)-1], nil
}
