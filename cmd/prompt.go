package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// LinePrompter answers editor prompts from a line-oriented reader such as
// stdin. End of input cancels the prompt.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Prompt(message, initial string) (string, bool) {
	if initial != "" {
		fmt.Fprintf(p.out, "%s [%s] ", message, initial)
	} else {
		fmt.Fprintf(p.out, "%s ", message)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" && initial != "" {
		return initial, true
	}
	return line, true
}

// StderrNotifier shows editor notifications on stderr.
type StderrNotifier struct {
	out    io.Writer
	logger *logrus.Entry
}

func NewStderrNotifier(out io.Writer, logger *logrus.Entry) *StderrNotifier {
	return &StderrNotifier{out: out, logger: logger}
}

func (n *StderrNotifier) Notify(message string) {
	n.logger.WithField("notification", message).Debug("Notified user")
	fmt.Fprintln(n.out, message)
}
