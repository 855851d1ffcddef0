/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2024 Dmitry Kireev
 */

package main

import "github.com/automationd/egtunnel/cmd"

func main() {
	cmd.Execute()
}
