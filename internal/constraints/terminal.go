/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package constraints

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// SupportsANSIEscapeCodes reports whether stdout is a terminal that can render colors and spinners.
func SupportsANSIEscapeCodes() bool {
	if strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractiveTerminal reports whether stdin is attached to a terminal.
func IsInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func IsCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE"} {
		if v := os.Getenv(key); v != "" && v != "false" && v != "0" {
			return true
		}
	}
	return false
}
