/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package ux

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/automationd/egtunnel/internal/constraints"
	"github.com/automationd/egtunnel/internal/logger"
	"github.com/automationd/egtunnel/internal/tunnel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressSpinnerPlainTextLogs(t *testing.T) {
	var buf bytes.Buffer
	restore := logger.SetOutput(&buf)
	defer restore()
	logger.Initialize("warning", true)

	ps := NewProgressSpinner("Creating tunnel demo", true)
	ps.UpdateText("Writing routing file").Success("Tunnel created")
	ps.Fail("Route failed", "error", "boom")
	ps.Status(tunnel.Descriptor{Name: "demo", ID: "abc", Port: "3000"}, "https://demo.example.com", "/work/tunnel.yml")

	out := buf.String()
	for _, want := range []string{"Creating tunnel demo", "Writing routing file", "Tunnel created", "Route failed", "Tunnel ready", "https://demo.example.com"} {
		assert.Contains(t, out, want)
	}
}

func TestSurveyPrompterReadsPipedLines(t *testing.T) {
	var out bytes.Buffer
	p := &SurveyPrompter{lines: bufio.NewReader(strings.NewReader("demo\n3000")), out: &out}

	name, err := p.Ask("Enter tunnel name:")
	require.NoError(t, err)
	port, err := p.Ask("Enter port:")
	require.NoError(t, err)

	assert.Equal(t, "demo", name)
	assert.Equal(t, "3000", port)
	assert.Equal(t, "Enter tunnel name: Enter port: ", out.String())

	_, err = p.Ask("Enter base URL:")
	require.ErrorIs(t, err, io.EOF)
}

func TestNewSurveyPrompterWithoutTerminalReadsStdin(t *testing.T) {
	if constraints.IsInteractiveTerminal() {
		t.Skip("stdin is a terminal")
	}

	assert.NotNil(t, NewSurveyPrompter().lines)
}
