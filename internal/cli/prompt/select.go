// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/marketplace"
)

// Sentinel errors for component selection.
var (
	ErrNoComponents       = errors.New("no components to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector asks the user to pick one of several same-named components.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{reader: r, writer: w}
}

// SelectComponent prompts the user to choose from components.
//
// Returns:
//   - ErrNoComponents if the list is empty
//   - The component if only one exists (auto-selects without prompting)
//   - The selected component based on user input, the first on empty input
//   - ErrInvalidSelection if the selection is not a number in range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectComponent(query string, components []marketplace.Component) (*marketplace.Component, error) {
	if len(components) == 0 {
		return nil, ErrNoComponents
	}
	if len(components) == 1 {
		return &components[0], nil
	}

	fmt.Fprintf(s.writer, "Multiple components named %q:\n", query)
	for i, c := range components {
		fmt.Fprintf(s.writer, "  [%d] %s %s (%s)\n", i+1, c.Kind, c.Name, c.Plugin)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "reading selection")
		}
		if input == "" {
			return nil, ErrSelectionCancelled
		}
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return &components[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(components) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(components))
	}

	return &components[selection-1], nil
}
