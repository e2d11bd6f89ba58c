package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
)

// Confirmer asks yes/no questions. On an interactive terminal it renders a
// huh confirm field; otherwise it reads a y/N line from the reader.
type Confirmer struct {
	reader      io.Reader
	writer      io.Writer
	interactive bool
}

// NewConfirmer creates a Confirmer on stdin and stderr.
func NewConfirmer() *Confirmer {
	return &Confirmer{
		reader:      os.Stdin,
		writer:      os.Stderr,
		interactive: logging.IsInteractive(os.Stdin),
	}
}

// NewConfirmerWithIO creates a line-based Confirmer for tests and pipes.
func NewConfirmerWithIO(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{reader: r, writer: w}
}

// Confirm returns true when the user accepts. EOF and empty input decline.
// Aborting the terminal form (Ctrl+C) returns ErrSelectionCancelled.
func (c *Confirmer) Confirm(question string) (bool, error) {
	if c.interactive {
		return c.confirmForm(question)
	}

	fmt.Fprintf(c.writer, "%s [y/N]: ", question)
	line, err := bufio.NewReader(c.reader).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, errors.Wrap(err, "reading answer")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (c *Confirmer) confirmForm(question string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrSelectionCancelled
		}
		return false, errors.Wrap(err, "prompt failed")
	}
	return ok, nil
}
