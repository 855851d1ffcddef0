/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

// Package project registers the tunnel run script in the project's package.json.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/automationd/egtunnel/internal/logger"
	"github.com/automationd/egtunnel/internal/tunnel"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	ManifestName = "package.json"
	ScriptName   = "tunnel"
)

// RunScript is the command stored under scripts.tunnel.
var RunScript = fmt.Sprintf("cloudflared tunnel --config %s run", tunnel.RoutingFileName)

// ErrMalformedManifest is returned when package.json is not a JSON object.
var ErrMalformedManifest = errors.New("malformed package.json")

// Width 0 keeps every array expanded, one element per line.
var indent = &pretty.Options{Width: 0, Prefix: "", Indent: "  ", SortKeys: false}

// Integrate sets scripts.tunnel in dir/package.json, creating scripts when
// missing. Key order and all other content are preserved.
func Integrate(dir string) error {
	path := filepath.Join(dir, ManifestName)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("can't read %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("can't read %s: %w", path, err)
	}

	patched, err := Patch(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		return fmt.Errorf("can't write %s: %w", path, err)
	}

	logger.Debug("Manifest updated", "path", path, "script", ScriptName)
	return nil
}

// Patch returns manifest with scripts.tunnel set to RunScript, re-indented with two spaces.
func Patch(manifest []byte) ([]byte, error) {
	if !gjson.ValidBytes(manifest) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedManifest)
	}

	root := gjson.ParseBytes(manifest)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformedManifest)
	}

	scripts := root.Get("scripts")
	if scripts.Exists() && !scripts.IsObject() && scripts.Type != gjson.Null {
		return nil, fmt.Errorf("%w: scripts is %s, not an object", ErrMalformedManifest, scripts.Type)
	}

	if scripts.Type == gjson.Null && scripts.Exists() {
		var err error
		manifest, err = sjson.SetRawBytes(manifest, "scripts", []byte("{}"))
		if err != nil {
			return nil, err
		}
	}

	patched, err := sjson.SetBytes(manifest, "scripts."+ScriptName, RunScript)
	if err != nil {
		return nil, err
	}

	return pretty.PrettyOptions(patched, indent), nil
}
