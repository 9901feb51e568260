package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/spinflip/pkg/errors"
)

// Prompter asks line-oriented questions. It reads plain lines so answers
// can be piped in as well as typed.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter reading answers from in
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer, or def when the
// answer is empty. End of input counts as an empty answer.
func (p *Prompter) Ask(question, def string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", errors.Wrap(err, errors.ErrFileWrite, "failed to write prompt")
	}
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, errors.ErrFileAccess, "failed to read answer")
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
