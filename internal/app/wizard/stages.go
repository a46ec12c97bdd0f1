// Package wizard is the form session that collects a course: metadata first, then for
// every module a slide count followed by the content of each slide. Every stage is an
// immutable value; submitting input returns the next stage and leaves the receiver as it
// was, so a rejected submission never changes state.
package wizard

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/services"
	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
	"github.com/elitelearners/coursegen/internal/pkg/validation"
)

// Stage names used in validation errors and logs
const (
	StageMetadata     = "metadata"
	StageSlideCount   = "slide_count"
	StageSlideContent = "slide_content"
	StageCompleted    = "completed"
)

// Metadata is the course-level form
type Metadata struct {
	Title    string `json:"title" validate:"notblank"`
	Duration string `json:"duration" validate:"notblank"`
	Author   string `json:"author" validate:"notblank"`
	Overview string `json:"overview"`
	Modules  int    `json:"modules"`
}

// SlideInput is the raw form of one slide. Everything is optional, but a question needs
// an answer.
type SlideInput struct {
	Header    string
	Media     string
	Paragraph string
	Question  string
	Options   [domain.OptionSlots]string
	Answer    string
}

// Stage is one of MetadataStage, SlideCountStage, SlideContentStage or Completed
type Stage interface {
	Name() string
	isStage()
}

// session is shared, read-only state of all stages
type session struct {
	validator *validation.Validator
	logger    zerolog.Logger
}

// progress is the immutable part collected so far
type progress struct {
	info    services.CourseInfo
	modules []domain.Module
}

func (p progress) withModule(m domain.Module) progress {
	modules := make([]domain.Module, len(p.modules), len(p.modules)+1)
	copy(modules, p.modules)
	return progress{info: p.info, modules: append(modules, m)}
}

// MetadataStage waits for the course metadata
type MetadataStage struct {
	s *session
}

// SlideCountStage waits for the slide count of Module()
type SlideCountStage struct {
	s      *session
	p      progress
	module int
}

// SlideContentStage waits for the content of slide Slide() of Module()
type SlideContentStage struct {
	s      *session
	p      progress
	module int
	total  int
	slides []domain.Slide
}

// Completed holds the finished course
type Completed struct {
	course domain.Course
}

func (MetadataStage) Name() string     { return StageMetadata }
func (SlideCountStage) Name() string   { return StageSlideCount }
func (SlideContentStage) Name() string { return StageSlideContent }
func (Completed) Name() string         { return StageCompleted }

func (MetadataStage) isStage()     {}
func (SlideCountStage) isStage()   {}
func (SlideContentStage) isStage() {}
func (Completed) isStage()         {}

// NewSession starts a form session at the metadata stage
func NewSession(validator *validation.Validator, logger zerolog.Logger) MetadataStage {
	return MetadataStage{s: &session{validator: validator, logger: logger}}
}

// SubmitMetadata validates m and moves on to the slide count of module 1.
func (st MetadataStage) SubmitMetadata(m Metadata) (SlideCountStage, error) {
	if st.s == nil {
		return SlideCountStage{}, apperrors.ErrStageOutOfTurn
	}

	m.Title = strings.TrimSpace(m.Title)
	m.Duration = strings.TrimSpace(m.Duration)
	m.Author = strings.TrimSpace(m.Author)
	m.Overview = strings.TrimSpace(m.Overview)

	verr := apperrors.NewValidationError(StageMetadata)
	if err := st.s.validator.Struct(StageMetadata, m); err != nil {
		var fieldErrs *apperrors.ValidationError
		if !errors.As(err, &fieldErrs) {
			return SlideCountStage{}, err
		}
		verr.Fields = append(verr.Fields, fieldErrs.Fields...)
	}
	if m.Title != "" && domain.DirName(m.Title) == "" {
		verr.Fields = append(verr.Fields, apperrors.FieldError{Field: "title", Message: "title has no characters usable in a directory name"})
	}
	if count := validation.NewNumericValidation(m.Modules).WithMin(validation.ModuleMin); !count.Validate() {
		verr.Fields = append(verr.Fields, apperrors.FieldError{Field: "modules", Message: "modules " + count.Message()})
	}
	if len(verr.Fields) > 0 {
		return SlideCountStage{}, verr
	}

	info := services.CourseInfo{
		Title:       m.Title,
		Author:      m.Author,
		Duration:    m.Duration,
		Overview:    m.Overview,
		ModuleCount: m.Modules,
	}
	st.s.logger.Debug().Str("title", info.Title).Int("modules", info.ModuleCount).Msg("Course metadata accepted")
	return SlideCountStage{s: st.s, p: progress{info: info}, module: 1}, nil
}

// Info returns the accepted course metadata
func (st SlideCountStage) Info() services.CourseInfo { return st.p.info }

// Module returns the 1-based module the count is asked for
func (st SlideCountStage) Module() int { return st.module }

// SubmitSlideCount validates n and moves on to the first slide of the module.
func (st SlideCountStage) SubmitSlideCount(n int) (SlideContentStage, error) {
	if st.s == nil {
		return SlideContentStage{}, apperrors.ErrStageOutOfTurn
	}

	count := validation.NewNumericValidation(n).WithMin(validation.SlideMin).WithMax(validation.SlideMax)
	if !count.Validate() {
		return SlideContentStage{}, apperrors.NewValidationError(StageSlideCount, apperrors.FieldError{
			Field:   "slides",
			Message: "slides " + count.Message(),
		})
	}

	return SlideContentStage{s: st.s, p: st.p, module: st.module, total: n}, nil
}

// Info returns the accepted course metadata
func (st SlideContentStage) Info() services.CourseInfo { return st.p.info }

// Module returns the 1-based module being filled
func (st SlideContentStage) Module() int { return st.module }

// Total returns the slide count of the module
func (st SlideContentStage) Total() int { return st.total }

// Slide returns the 1-based index of the next slide to submit
func (st SlideContentStage) Slide() int { return len(st.slides) + 1 }

// ModuleComplete reports whether every slide of the module has been submitted
func (st SlideContentStage) ModuleComplete() bool { return st.total > 0 && len(st.slides) == st.total }

// SubmitSlide validates in and returns the stage with the slide appended.
func (st SlideContentStage) SubmitSlide(in SlideInput) (SlideContentStage, error) {
	if st.s == nil || st.ModuleComplete() {
		return st, apperrors.ErrStageOutOfTurn
	}

	slide, err := st.slideFrom(in)
	if err != nil {
		return st, err
	}

	slides := make([]domain.Slide, len(st.slides), len(st.slides)+1)
	copy(slides, st.slides)
	next := st
	next.slides = append(slides, slide)
	return next, nil
}

func (st SlideContentStage) slideFrom(in SlideInput) (domain.Slide, error) {
	index := st.Slide()
	q, err := domain.NewQuestion(in.Question, in.Options, in.Answer)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingAnswer), errors.Is(err, domain.ErrAnswerNotAnOption):
			return domain.Slide{}, apperrors.NewValidationError(StageSlideContent, apperrors.FieldError{
				Field:   "answer",
				Message: err.Error(),
			})
		default:
			return domain.Slide{}, err
		}
	}

	if q != nil {
		if n := len(domain.PopulatedOptions(in.Options)); n != 0 && n != 2 && n != domain.OptionSlots {
			st.s.logger.Warn().
				Int("module", st.module).
				Int("slide", index).
				Int("options", n).
				Msg("Question has an unsupported number of options, treating it as free text")
		}
	}

	return domain.Slide{
		Index:     index,
		Header:    strings.TrimSpace(in.Header),
		Media:     strings.TrimSpace(in.Media),
		Paragraph: strings.TrimSpace(in.Paragraph),
		Question:  q,
	}, nil
}

// FinishModule closes the module. The next stage is the SlideCountStage of the following
// module, or Completed after the last one.
func (st SlideContentStage) FinishModule() (domain.Module, Stage, error) {
	if st.s == nil || !st.ModuleComplete() {
		return domain.Module{}, nil, apperrors.ErrStageOutOfTurn
	}

	module := domain.Module{Index: st.module, Slides: st.slides}
	p := st.p.withModule(module)

	// the caller owns its copy of the slides
	out := domain.Module{Index: st.module, Slides: make([]domain.Slide, len(st.slides))}
	copy(out.Slides, st.slides)

	if st.module >= p.info.ModuleCount {
		st.s.logger.Debug().Int("modules", len(p.modules)).Msg("Form session completed")
		return out, Completed{course: domain.Course{
			Title:    p.info.Title,
			Author:   p.info.Author,
			Duration: p.info.Duration,
			Overview: p.info.Overview,
			Modules:  p.modules,
		}}, nil
	}
	return out, SlideCountStage{s: st.s, p: p, module: st.module + 1}, nil
}

// Course returns the collected course
func (c Completed) Course() domain.Course { return c.course }
