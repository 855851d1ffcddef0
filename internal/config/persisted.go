/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/automationd/egtunnel/internal/logger"
	"github.com/pterm/pterm"
)

const BaseURLQuestion = "Enter the base URL for your tunnels (e.g., graduatesapi.com):"

// ErrMalformedConfig is returned when the persisted config exists but is not valid JSON.
var ErrMalformedConfig = errors.New("malformed persisted config")

// PersistedConfig is the only state kept between runs.
type PersistedConfig struct {
	BaseURL string `json:"baseURL"`
}

// Prompter asks the user a single free-text question.
type Prompter interface {
	Ask(message string) (string, error)
}

// LoadPersisted reads the persisted config. found is false when the file does not exist.
func LoadPersisted(path string) (cfg PersistedConfig, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PersistedConfig{}, false, nil
		}
		return PersistedConfig{}, false, fmt.Errorf("can't read config file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return PersistedConfig{}, true, fmt.Errorf("%w %s: %v", ErrMalformedConfig, path, err)
	}

	return cfg, true, nil
}

// SavePersisted writes cfg as two-space indented JSON.
func SavePersisted(path string, cfg PersistedConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("can't write config file %s: %w", path, err)
	}
	return nil
}

// EnsurePersisted returns the stored config, prompting for the base domain and saving it on first run.
func EnsurePersisted(path string, prompter Prompter) (PersistedConfig, error) {
	cfg, found, err := LoadPersisted(path)
	if err != nil {
		return PersistedConfig{}, err
	}

	if found {
		logger.Debug("Loaded persisted config", "path", path, "baseURL", cfg.BaseURL)
		return cfg, nil
	}

	answer, err := prompter.Ask(BaseURLQuestion)
	if err != nil {
		return PersistedConfig{}, fmt.Errorf("can't read base URL: %w", err)
	}

	cfg = PersistedConfig{BaseURL: strings.TrimSpace(answer)}
	if err := SavePersisted(path, cfg); err != nil {
		return PersistedConfig{}, err
	}

	pterm.Info.Printfln("Configuration saved to %s", path)
	return cfg, nil
}
