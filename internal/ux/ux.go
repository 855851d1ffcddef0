/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package ux

import (
	"time"

	"github.com/automationd/egtunnel/internal/logger"
	"github.com/automationd/egtunnel/internal/tunnel"
	"github.com/pterm/pterm"
)

// ProgressSpinner is a wrapper around pterm.SpinnerPrinter that
// automatically falls back to logging when spinners are disabled
type ProgressSpinner struct {
	spinner *pterm.SpinnerPrinter
}

// StartCustomSpinner creates and starts a fresh custom spinner
func StartCustomSpinner(message string) *pterm.SpinnerPrinter {
	spinner := pterm.DefaultSpinner // copy

	spinner.Sequence = []string{
		"    ☁",
		"   ☁ ",
		"  ☁  ",
		" ☁   ",
		"☁    ",
	}

	spinner.Style = pterm.NewStyle(pterm.FgLightYellow)
	spinner.Delay = 150 * time.Millisecond

	s, _ := spinner.Start(message)
	return s
}

// NewProgressSpinner creates a new progress spinner, or only logs the message when plainText is set
func NewProgressSpinner(message string, plainText bool) *ProgressSpinner {
	ps := &ProgressSpinner{}

	if !plainText {
		ps.spinner = StartCustomSpinner(message)
	} else {
		logger.Notice(message)
	}

	return ps
}

// UpdateText updates the spinner text or logs the message
func (ps *ProgressSpinner) UpdateText(message string, keysAndValues ...interface{}) *ProgressSpinner {
	if ps.spinner != nil {
		ps.spinner.UpdateText(message)
	} else {
		logger.Notice(message, keysAndValues...)
	}
	return ps
}

// Success marks the spinner as successful or logs a success message
func (ps *ProgressSpinner) Success(message string, keysAndValues ...interface{}) *ProgressSpinner {
	if ps.spinner != nil {
		ps.spinner.Success(message)
	} else {
		logger.Success(message, keysAndValues...)
	}
	return ps
}

func (ps *ProgressSpinner) Fail(message string, keysAndValues ...interface{}) *ProgressSpinner {
	if ps.spinner != nil {
		ps.spinner.Fail(message)
	} else {
		logger.Error(message, keysAndValues...)
	}
	return ps
}

// Status renders the provisioned tunnel as a table, or logs it in plain mode
func (ps *ProgressSpinner) Status(d tunnel.Descriptor, publicURL, routingFile string) {
	if ps.spinner != nil {
		if err := tunnel.RenderSummaryTable(d, publicURL, routingFile); err != nil {
			logger.Error("Error rendering tunnel table", "error", err)
		}
		return
	}
	logger.Notice("Tunnel ready", "name", d.Name, "id", d.ID, "local", d.LocalURL(), "public", publicURL, "routingFile", routingFile)
}
