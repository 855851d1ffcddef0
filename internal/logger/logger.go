/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

var defaultLogger *slog.Logger

// Initialize sets up the logger with a specified log level
func Initialize(logLevel string, logPlainText bool) {
	// Map log levels from configuration to pterm log levels
	var ptermLogLevel pterm.LogLevel
	switch strings.ToLower(logLevel) {
	case "debug":
		ptermLogLevel = pterm.LogLevelDebug
	case "info":
		ptermLogLevel = pterm.LogLevelInfo
	case "warn", "warning":
		ptermLogLevel = pterm.LogLevelWarn
	case "error":
		ptermLogLevel = pterm.LogLevelError
	case "fatal":
		ptermLogLevel = pterm.LogLevelError
	default:
		ptermLogLevel = pterm.LogLevelInfo
	}

	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)

	pterm.DefaultLogger.Level = ptermLogLevel
	if logPlainText {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
		ApplyPtermTheme(0)
	}

	defaultLogger = slog.New(handler)
}

// SetOutput redirects log lines and user-facing notices to w and returns a
// func restoring the previous writers.
func SetOutput(w io.Writer) func() {
	previousLog, previousInfo, previousSuccess := pterm.DefaultLogger.Writer, pterm.Info.Writer, pterm.Success.Writer
	pterm.DefaultLogger.Writer = w
	pterm.Info.Writer = w
	pterm.Success.Writer = w
	return func() {
		pterm.DefaultLogger.Writer = previousLog
		pterm.Info.Writer = previousInfo
		pterm.Success.Writer = previousSuccess
	}
}

// Info logs an info message
func Info(msg string, keysAndValues ...interface{}) {
	defaultLogger.Info(msg, keysAndValues...)
}

// Debug logs a debug message
func Debug(msg string, keysAndValues ...interface{}) {
	defaultLogger.Debug(msg, keysAndValues...)
}

// Warn logs a warning message
func Warn(msg string, keysAndValues ...interface{}) {
	defaultLogger.Warn(msg, keysAndValues...)
}

// Error logs an error message
func Error(msg string, keysAndValues ...interface{}) {
	defaultLogger.Error(msg, keysAndValues...)
}

// Fatal logs a fatal error message and exits the application
func Fatal(msg string, keysAndValues ...interface{}) {
	defaultLogger.Error(msg, keysAndValues...)
	os.Exit(1)
}

// Success prints a user-facing success message. It is shown at every log level.
func Success(msg string, keysAndValues ...interface{}) {
	pterm.Success.Println(withFields(msg, keysAndValues))
}

// Notice prints a user-facing progress line. It is shown at every log level.
func Notice(msg string, keysAndValues ...interface{}) {
	pterm.Info.Println(withFields(msg, keysAndValues))
}

func withFields(msg string, keysAndValues []interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, " %v", keysAndValues[i])
		}
	}
	return b.String()
}

func init() {
	Initialize("warning", false)
}

// ApplyPtermTheme applies custom styles to pterm
func ApplyPtermTheme(indent int) {
	indentLevel := strings.Repeat(" ", indent)

	pterm.Info.Prefix = pterm.Prefix{
		Text:  fmt.Sprintf("%sℹ", indentLevel),
		Style: pterm.NewStyle(pterm.FgCyan, pterm.Bold),
	}

	pterm.Warning.Prefix = pterm.Prefix{
		Text:  fmt.Sprintf(`%s⚠`, indentLevel),
		Style: pterm.NewStyle(pterm.FgYellow, pterm.Bold),
	}

	pterm.Success.Prefix = pterm.Prefix{
		Text:  fmt.Sprintf("%s✔", indentLevel),
		Style: pterm.NewStyle(pterm.FgLightGreen, pterm.Bold),
	}

	pterm.Error.Prefix = pterm.Prefix{
		Text:  fmt.Sprintf("%s⨯", indentLevel),
		Style: pterm.NewStyle(pterm.FgRed, pterm.Bold),
	}

	// No timestamp on debug lines
	pterm.Debug.Prefix = pterm.Prefix{
		Text:  fmt.Sprintf("%s⚙︎", indentLevel),
		Style: pterm.NewStyle(pterm.FgMagenta),
	}
}
