/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package tunnel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/automationd/egtunnel/internal/cloudflared"
	"github.com/automationd/egtunnel/internal/logger"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// RoutingFileName is the cloudflared config written into the project directory.
const RoutingFileName = "tunnel.yml"

// Descriptor is everything known about a freshly created tunnel.
type Descriptor struct {
	Name            string
	ID              string
	Port            string
	CredentialsFile string
}

// RoutingFile is the on-disk cloudflared config. Field order is the file's line order.
type RoutingFile struct {
	URL             string `yaml:"url"`
	Tunnel          string `yaml:"tunnel"`
	CredentialsFile string `yaml:"credentials-file"`
}

// LocalURL is where cloudflared proxies traffic to.
func (d Descriptor) LocalURL() string {
	return fmt.Sprintf("http://localhost:%s", d.Port)
}

func (d Descriptor) RoutingFile() RoutingFile {
	return RoutingFile{
		URL:             d.LocalURL(),
		Tunnel:          d.ID,
		CredentialsFile: d.CredentialsFile,
	}
}

// CredentialsPath is where `cloudflared tunnel create` stores the tunnel secret.
func CredentialsPath(homeDir, tunnelID string) string {
	return filepath.Join(homeDir, ".cloudflared", tunnelID+".json")
}

// WriteRoutingFile overwrites dir/tunnel.yml and returns its path.
func WriteRoutingFile(dir string, rf RoutingFile) (string, error) {
	data, err := yaml.Marshal(rf)
	if err != nil {
		return "", fmt.Errorf("can't encode %s: %w", RoutingFileName, err)
	}

	path := filepath.Join(dir, RoutingFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("can't write %s: %w", path, err)
	}

	return path, nil
}

// Provisioner creates tunnels and binds their DNS routes.
type Provisioner struct {
	Daemon  cloudflared.Daemon
	HomeDir string
	WorkDir string

	// Progress, when set, receives a line per step of Create.
	Progress func(message string)
}

func (p *Provisioner) progress(message string) {
	if p.Progress != nil {
		p.Progress(message)
	}
}

// Create creates the tunnel upstream and writes the routing file. Nothing is
// written locally unless the daemon call succeeds.
func (p *Provisioner) Create(ctx context.Context, name, port string) (Descriptor, string, error) {
	logger.Debug("Creating tunnel", "name", name, "port", port)

	id, err := p.Daemon.CreateTunnel(ctx, name)
	if err != nil {
		return Descriptor{}, "", err
	}

	logger.Debug("Tunnel created", "name", name, "id", id)
	p.progress(fmt.Sprintf("Writing %s for tunnel %s...", RoutingFileName, id))

	d := Descriptor{
		Name:            name,
		ID:              id,
		Port:            port,
		CredentialsFile: CredentialsPath(p.HomeDir, id),
	}

	path, err := WriteRoutingFile(p.WorkDir, d.RoutingFile())
	if err != nil {
		return d, "", err
	}

	logger.Debug("Routing file written", "path", path)
	return d, path, nil
}

// RouteDNS binds <name>.<zone> to the tunnel.
func (p *Provisioner) RouteDNS(ctx context.Context, d Descriptor) error {
	out, err := p.Daemon.RouteDNS(ctx, d.ID, d.Name)
	if err != nil {
		return err
	}

	if out != "" {
		logger.Notice(out)
		return nil
	}
	logger.Notice("DNS route added", "name", d.Name, "id", d.ID)
	return nil
}

// RenderSummaryTable prints what was provisioned.
func RenderSummaryTable(d Descriptor, publicURL, routingFile string) error {
	pterm.DefaultSection.Println("Tunnel " + d.Name)

	return pterm.DefaultTable.WithData(pterm.TableData{
		{"ID", d.ID},
		{"Local", d.LocalURL()},
		{"Public", publicURL},
		{"Routing file", routingFile},
		{"Credentials", d.CredentialsFile},
	}).WithLeftAlignment().Render()
}
