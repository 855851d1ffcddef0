/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/automationd/egtunnel/internal/logger"
	"github.com/spf13/viper"
)

const (
	// PersistedConfigName is the per-user file holding the base domain.
	PersistedConfigName = ".egTunnelsConfig.json"

	DefaultDaemonBin = "cloudflared"
	DefaultRunnerBin = "npm"
)

// Settings holds the runtime knobs resolved from flags, env vars (EGTUNNEL_*) and egtunnel.toml.
type Settings struct {
	HomeDir      string
	WorkDir      string
	AppDir       string
	ConfigFile   string // persisted base domain file
	SettingsFile string // egtunnel.toml in use, if any
	DaemonBin    string
	RunnerBin    string
	LogLevel     string
	LogPlainText bool
	CheckUpdates bool
}

func Load() (*Settings, error) {
	viper.SetEnvPrefix("EGTUNNEL")

	replacer := strings.NewReplacer(".", "__")

	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	viper.SetConfigName("egtunnel")
	viper.SetConfigType("toml")

	viper.SetDefault("LOG_LEVEL", "warning")

	// Early logger so config discovery can be traced
	logger.Initialize(viper.GetString("LOG_LEVEL"), viper.GetBool("LOG_PLAIN_TEXT"))
	logger.Debug("Initialized config")

	currentDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("can't get current directory: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("can't get user home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, ".egtunnel")

	// Current directory takes priority over the home app dir
	viper.AddConfigPath(currentDir)
	viper.AddConfigPath(appDir)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("can't read settings file: %w", err)
		}
		logger.Debug("No settings file found. Using defaults and environment variables.")
	} else {
		logger.Debug("Using settings file", "settingsFile", viper.ConfigFileUsed())
	}

	logger.Initialize(viper.GetString("LOG_LEVEL"), viper.GetBool("LOG_PLAIN_TEXT"))

	viper.SetDefault("CONFIG_FILE", filepath.Join(homeDir, PersistedConfigName))
	viper.SetDefault("DAEMON_BIN", DefaultDaemonBin)
	viper.SetDefault("RUNNER_BIN", DefaultRunnerBin)
	viper.SetDefault("LOG_PLAIN_TEXT", false)
	viper.SetDefault("CHECK_UPDATES", false)

	return &Settings{
		HomeDir:      homeDir,
		WorkDir:      currentDir,
		AppDir:       appDir,
		ConfigFile:   viper.GetString("CONFIG_FILE"),
		SettingsFile: viper.ConfigFileUsed(),
		DaemonBin:    viper.GetString("DAEMON_BIN"),
		RunnerBin:    viper.GetString("RUNNER_BIN"),
		LogLevel:     viper.GetString("LOG_LEVEL"),
		LogPlainText: viper.GetBool("LOG_PLAIN_TEXT"),
		CheckUpdates: viper.GetBool("CHECK_UPDATES"),
	}, nil
}
