/*
 * SPDX-License-Identifier: Apache-2.0
 * SPDX-FileCopyrightText: © 2025 Dmitry Kireev
 */

package ux

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/automationd/egtunnel/internal/constraints"
)

// SurveyPrompter asks questions on the controlling terminal. Without one,
// answers are read line by line from stdin so they can be piped in.
type SurveyPrompter struct {
	opts []survey.AskOpt

	// Set when stdin is not a terminal; shared so buffered answers survive between questions
	lines *bufio.Reader
	out   io.Writer
}

func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	p := &SurveyPrompter{opts: opts}
	if len(opts) == 0 && !constraints.IsInteractiveTerminal() {
		p.lines = bufio.NewReader(os.Stdin)
		p.out = os.Stdout
	}
	return p
}

func (p *SurveyPrompter) Ask(message string) (string, error) {
	if p.lines != nil {
		return p.readLine(message)
	}

	var answer string
	err := survey.AskOne(&survey.Input{Message: message}, &answer, p.opts...)
	return answer, err
}

func (p *SurveyPrompter) readLine(message string) (string, error) {
	fmt.Fprint(p.out, message+" ")

	line, err := p.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("can't read answer to %q: %w", message, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
