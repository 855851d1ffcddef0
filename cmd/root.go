/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/automationd/egtunnel/internal/app"
	"github.com/automationd/egtunnel/internal/config"
	"github.com/automationd/egtunnel/internal/constraints"
	"github.com/automationd/egtunnel/internal/logger"
	"github.com/automationd/egtunnel/internal/version"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var settings *config.Settings

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "egtunnel [name port]",
	Short: "Cloudflare tunnel for the current project",
	Long: `Creates a named cloudflared tunnel to a local port, writes tunnel.yml,
	routes <name>.<base domain> to it, registers a "tunnel" script in package.json,
	starts the tunnel and opens its public URL.

	With exactly two arguments they are used as tunnel name and port, otherwise both are prompted for.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version.FullVersionNumber(),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("Root command called", "args", args, "workDir", settings.WorkDir, "configFile", settings.ConfigFile)
		return app.New(settings).Run(cmd.Context(), args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Specify log level (debug/info/warning/error)")
	if err := viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		pterm.Info.Println("Not binding log-level flag (none provided)")
	}

	rootCmd.PersistentFlags().Bool("log-plain-text", false, "Disable colors and spinners")
	if err := viper.BindPFlag("LOG_PLAIN_TEXT", rootCmd.PersistentFlags().Lookup("log-plain-text")); err != nil {
		pterm.Info.Println("Not binding log-plain-text flag (none provided)")
	}

	rootCmd.PersistentFlags().Bool("check-updates", false, "Warn when a newer cloudflared release is available")
	if err := viper.BindPFlag("CHECK_UPDATES", rootCmd.PersistentFlags().Lookup("check-updates")); err != nil {
		pterm.Info.Println("Not binding check-updates flag (none provided)")
	}

	cobra.OnInitialize(initializeEgtunnel)
}

func initializeEgtunnel() {
	var err error
	settings, err = config.Load()
	if err != nil {
		logger.Fatal("Error loading settings", "error", err)
	}

	if !constraints.SupportsANSIEscapeCodes() || constraints.IsCI() {
		logger.Debug("Terminal supports ANSI escape codes", "supportsANSI", constraints.SupportsANSIEscapeCodes())
		logger.Debug("Terminal is CI", "isCI", constraints.IsCI())

		// Non-interactive or non-ANSI terminals always get plain text
		settings.LogPlainText = true
		logger.Initialize(settings.LogLevel, settings.LogPlainText)
	}
}
