// Package manifest reads and writes the YAML form of a course.
package manifest

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/elitelearners/coursegen/internal/app/wizard"
	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/validation"
)

// Manifest is the document root
type Manifest struct {
	Title    string   `yaml:"title"`
	Author   string   `yaml:"author"`
	Duration string   `yaml:"duration"`
	Overview string   `yaml:"overview,omitempty"`
	Modules  []Module `yaml:"modules"`
}

// Module lists the slides of one module in order
type Module struct {
	Slides []Slide `yaml:"slides"`
}

// Slide is one slide as written by an author
type Slide struct {
	Header    string   `yaml:"header,omitempty"`
	Media     string   `yaml:"media,omitempty"`
	Paragraph string   `yaml:"paragraph,omitempty"`
	Question  string   `yaml:"question,omitempty"`
	Options   *Options `yaml:"options,omitempty"`
	Answer    string   `yaml:"answer,omitempty"`
}

// Options are the four answer slots A to D
type Options struct {
	A string `yaml:"a,omitempty"`
	B string `yaml:"b,omitempty"`
	C string `yaml:"c,omitempty"`
	D string `yaml:"d,omitempty"`
}

func (o *Options) slots() [domain.OptionSlots]string {
	if o == nil {
		return [domain.OptionSlots]string{}
	}
	return [domain.OptionSlots]string{o.A, o.B, o.C, o.D}
}

func (o *Options) set(letter, text string) {
	switch letter {
	case "A":
		o.A = text
	case "B":
		o.B = text
	case "C":
		o.C = text
	case "D":
		o.D = text
	}
}

// Load reads a manifest file and checks it through the form session
func Load(path string, validator *validation.Validator, logger zerolog.Logger) (domain.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Course{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, validator, logger)
}

// Parse decodes a manifest and checks it through the form session
func Parse(data []byte, validator *validation.Validator, logger zerolog.Logger) (domain.Course, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return domain.Course{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	meta, modules := m.Forms()
	return wizard.Replay(validator, logger, meta, modules)
}

// Forms converts the manifest into wizard form input
func (m Manifest) Forms() (wizard.Metadata, [][]wizard.SlideInput) {
	meta := wizard.Metadata{
		Title:    m.Title,
		Duration: m.Duration,
		Author:   m.Author,
		Overview: m.Overview,
		Modules:  len(m.Modules),
	}

	modules := make([][]wizard.SlideInput, 0, len(m.Modules))
	for _, mod := range m.Modules {
		inputs := make([]wizard.SlideInput, 0, len(mod.Slides))
		for _, s := range mod.Slides {
			inputs = append(inputs, wizard.SlideInput{
				Header:    s.Header,
				Media:     s.Media,
				Paragraph: s.Paragraph,
				Question:  s.Question,
				Options:   s.Options.slots(),
				Answer:    s.Answer,
			})
		}
		modules = append(modules, inputs)
	}
	return meta, modules
}

// FromCourse converts a course into its manifest form
func FromCourse(c domain.Course) Manifest {
	m := Manifest{
		Title:    c.Title,
		Author:   c.Author,
		Duration: c.Duration,
		Overview: c.Overview,
	}
	for _, mod := range c.Modules {
		out := Module{}
		for _, s := range mod.Slides {
			out.Slides = append(out.Slides, fromSlide(s))
		}
		m.Modules = append(m.Modules, out)
	}
	return m
}

func fromSlide(s domain.Slide) Slide {
	out := Slide{Header: s.Header, Media: s.Media, Paragraph: s.Paragraph}
	if s.Question == nil {
		return out
	}
	out.Question = s.Question.Text

	var opts []domain.Option
	switch k := s.Question.Kind.(type) {
	case domain.FreeText:
		out.Answer = k.Answer
		return out
	case domain.Binary:
		opts = k.Options[:]
		out.Answer = k.CorrectOption().Letter
	case domain.MultipleChoice:
		opts = k.Options[:]
		out.Answer = k.CorrectOption().Letter
	}

	out.Options = &Options{}
	for _, o := range opts {
		out.Options.set(o.Letter, o.Text)
	}
	return out
}

// Save writes the course as a manifest file, replacing an existing one
func Save(path string, c domain.Course) error {
	data, err := yaml.Marshal(FromCourse(c))
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
