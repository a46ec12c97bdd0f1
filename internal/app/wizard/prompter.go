package wizard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

// Prompter collects form input from the author.
type Prompter interface {
	Metadata(ctx context.Context) (Metadata, error)
	SlideCount(ctx context.Context, module int) (int, error)
	Slide(ctx context.Context, module, slide, total int) (SlideInput, error)
	// ConfirmNextModule asks whether to move past module; there is no way back.
	ConfirmNextModule(ctx context.Context, module int) (bool, error)
	ShowErrors(err *apperrors.ValidationError)
	ShowMessage(msg string)
}

// TerminalPrompter asks one question per line on a text terminal
type TerminalPrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

var _ Prompter = (*TerminalPrompter)(nil)

// NewTerminalPrompter creates a prompter reading answers from in and writing prompts to out
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewScanner(in), out: out}
}

// ask prints label and returns the next input line, trimmed
func (p *TerminalPrompter) ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// askInt repeats the question until a whole number is entered
func (p *TerminalPrompter) askInt(ctx context.Context, label string) (int, error) {
	for {
		raw, err := p.ask(ctx, label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(raw)
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(p.out, "  please enter a whole number")
	}
}

func (p *TerminalPrompter) Metadata(ctx context.Context) (Metadata, error) {
	var (
		m   Metadata
		err error
	)
	fmt.Fprintln(p.out, "== Course details ==")
	if m.Title, err = p.ask(ctx, "Course title"); err != nil {
		return m, err
	}
	if m.Duration, err = p.ask(ctx, "Duration"); err != nil {
		return m, err
	}
	if m.Author, err = p.ask(ctx, "Author"); err != nil {
		return m, err
	}
	if m.Modules, err = p.askInt(ctx, "Number of modules"); err != nil {
		return m, err
	}
	if m.Overview, err = p.ask(ctx, "Course overview (optional)"); err != nil {
		return m, err
	}
	return m, nil
}

func (p *TerminalPrompter) SlideCount(ctx context.Context, module int) (int, error) {
	fmt.Fprintf(p.out, "== Module %d ==\n", module)
	return p.askInt(ctx, fmt.Sprintf("Number of slides (1-%d)", domain.MaxSlidesPerModule))
}

func (p *TerminalPrompter) Slide(ctx context.Context, module, slide, total int) (SlideInput, error) {
	var (
		in  SlideInput
		err error
	)
	fmt.Fprintf(p.out, "-- Module %d, slide %d of %d --\n", module, slide, total)
	if in.Header, err = p.ask(ctx, "Header"); err != nil {
		return in, err
	}
	if in.Media, err = p.ask(ctx, "Media file, URL or embed link"); err != nil {
		return in, err
	}
	if in.Paragraph, err = p.ask(ctx, "Paragraph"); err != nil {
		return in, err
	}
	if in.Question, err = p.ask(ctx, "Question (leave blank for none)"); err != nil {
		return in, err
	}
	if in.Question == "" {
		return in, nil
	}
	for i, letter := range []string{"A", "B", "C", "D"} {
		if in.Options[i], err = p.ask(ctx, "Option "+letter); err != nil {
			return in, err
		}
	}
	if in.Answer, err = p.ask(ctx, "Correct answer (letter or text)"); err != nil {
		return in, err
	}
	return in, nil
}

func (p *TerminalPrompter) ConfirmNextModule(ctx context.Context, module int) (bool, error) {
	raw, err := p.ask(ctx, fmt.Sprintf("Module %d saved. Proceed to the next module? You cannot go back. [y/N]", module))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(raw) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *TerminalPrompter) ShowErrors(err *apperrors.ValidationError) {
	fmt.Fprintln(p.out, "Please fix the following:")
	for _, f := range err.Fields {
		fmt.Fprintf(p.out, "  - %s\n", f.Message)
	}
}

func (p *TerminalPrompter) ShowMessage(msg string) {
	fmt.Fprintln(p.out, msg)
}
