// Package prompt asks the operator yes/no questions. The scaffolder only
// depends on the Confirmer interface so tests can answer deterministically.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the operator hits Ctrl-C at a prompt.
var ErrInterrupted = errors.New("prompt interrupted")

// Confirmer asks a yes/no question and blocks until it is answered.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// IsAffirmative reports whether answer is a yes. Only "y" and "Y" count;
// anything else, including an empty answer, is a no.
func IsAffirmative(answer string) bool {
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

// Static always returns the same answer without asking.
type Static bool

// Confirm implements Confirmer.
func (s Static) Confirm(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(s), nil
}

// Line reads a single line from an io.Reader. Reaching EOF without an
// answer is treated as a no.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine creates a line-reading confirmer that writes the question to out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

// Confirm implements Confirmer.
func (l *Line) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(l.out, "%s [y/N] ", message); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := l.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	return IsAffirmative(answer), nil
}

// Survey prompts on the controlling terminal using survey.
type Survey struct {
	opts []survey.AskOpt
}

// NewSurvey creates a terminal confirmer. Options are passed through to
// survey.AskOne (e.g. survey.WithStdio).
func NewSurvey(opts ...survey.AskOpt) *Survey {
	return &Survey{opts: opts}
}

// Confirm implements Confirmer. survey.Confirm is not used because it
// re-asks on unrecognized input; here anything but y/Y is a no.
func (s *Survey) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var answer string
	q := &survey.Input{
		Message: message + " [y/N]",
	}
	if err := survey.AskOne(q, &answer, s.opts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return IsAffirmative(answer), nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return err
}

// Auto picks a survey prompt when in is a terminal and a line reader
// otherwise (pipes, redirected stdin). Either way the question is drawn on
// out, never on stdout.
func Auto(in *os.File, out io.Writer) Confirmer {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		w := terminalWriter(out)
		return NewSurvey(survey.WithStdio(in, w, w))
	}
	return NewLine(in, out)
}

// terminalWriter returns out when survey can draw on it, and stderr otherwise.
func terminalWriter(out io.Writer) terminal.FileWriter {
	if fw, ok := out.(terminal.FileWriter); ok {
		return fw
	}
	return os.Stderr
}
