package domain

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrMissingAnswer     = errors.New("a correct answer is required when a question is set")
	ErrAnswerNotAnOption = errors.New("the correct answer must be one of the options (A-D or the option text)")
)

// QuestionKind is the tagged variant of a quiz question, chosen once from the number of
// populated option fields.
type QuestionKind interface {
	isQuestionKind()
	// Name is a short label used in logs
	Name() string
}

// FreeText is answered by typing; the answer is compared trimmed and case-insensitively.
type FreeText struct {
	Answer string
}

// Binary offers exactly two options.
type Binary struct {
	Options [2]Option
	Correct int // index into Options
}

// MultipleChoice offers four options A to D.
type MultipleChoice struct {
	Options [4]Option
	Correct int // index into Options
}

// Option is one selectable answer. Letter is the option slot (A-D) it was entered in.
type Option struct {
	Letter string
	Text   string
}

func (FreeText) isQuestionKind()       {}
func (Binary) isQuestionKind()         {}
func (MultipleChoice) isQuestionKind() {}

func (FreeText) Name() string       { return "free_text" }
func (Binary) Name() string         { return "binary" }
func (MultipleChoice) Name() string { return "multiple_choice" }

// Accepts reports whether given matches the expected answer.
func (q FreeText) Accepts(given string) bool {
	return NormalizeAnswer(given) == NormalizeAnswer(q.Answer)
}

// CorrectOption returns the option that must be chosen
func (q Binary) CorrectOption() Option { return q.Options[q.Correct] }

// CorrectOption returns the option that must be chosen
func (q MultipleChoice) CorrectOption() Option { return q.Options[q.Correct] }

// Question is the quiz attached to a slide.
type Question struct {
	Text string
	Kind QuestionKind
}

// NormalizeAnswer trims surrounding whitespace and lowers s, so " Paris " equals "paris".
// The trimmed set is the one String.prototype.trim uses in the slide page, so expected
// and typed answers are normalized alike.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimFunc(s, isScriptSpace))
}

// isScriptSpace reports whether JavaScript treats r as white space or a line terminator.
// Unlike unicode.IsSpace that excludes U+0085 and includes U+FEFF.
func isScriptSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return r == '\ufeff' || unicode.IsSpace(r)
}

var optionLetters = [OptionSlots]string{"A", "B", "C", "D"}

// PopulatedOptions returns the non-blank options of the four slots, in slot order.
func PopulatedOptions(slots [OptionSlots]string) []Option {
	var opts []Option
	for i, s := range slots {
		if s = strings.TrimSpace(s); s != "" {
			opts = append(opts, Option{Letter: optionLetters[i], Text: s})
		}
	}
	return opts
}

// NewQuestion builds the question variant from its raw form fields. Four populated options
// make a MultipleChoice, two make a Binary and none make a FreeText. Any other count falls
// back to FreeText; the caller can detect it with PopulatedOptions.
// A blank text means the slide has no question and nil is returned.
func NewQuestion(text string, slots [OptionSlots]string, answer string) (*Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	answer = strings.TrimFunc(answer, isScriptSpace)
	if answer == "" {
		return nil, ErrMissingAnswer
	}

	opts := PopulatedOptions(slots)
	switch len(opts) {
	case 4:
		idx, ok := resolveAnswer(opts, answer)
		if !ok {
			return nil, ErrAnswerNotAnOption
		}
		mc := MultipleChoice{Correct: idx}
		copy(mc.Options[:], opts)
		return &Question{Text: text, Kind: mc}, nil
	case 2:
		idx, ok := resolveAnswer(opts, answer)
		if !ok {
			return nil, ErrAnswerNotAnOption
		}
		b := Binary{Correct: idx}
		copy(b.Options[:], opts)
		return &Question{Text: text, Kind: b}, nil
	default:
		return &Question{Text: text, Kind: FreeText{Answer: answer}}, nil
	}
}

// resolveAnswer finds the option named by answer, first by slot letter, then by text.
func resolveAnswer(opts []Option, answer string) (int, bool) {
	for i, o := range opts {
		if strings.EqualFold(o.Letter, answer) {
			return i, true
		}
	}
	for i, o := range opts {
		if NormalizeAnswer(o.Text) == NormalizeAnswer(answer) {
			return i, true
		}
	}
	return 0, false
}
