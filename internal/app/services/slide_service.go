package services

import (
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/layout"
	"github.com/elitelearners/coursegen/internal/app/render"
	"github.com/elitelearners/coursegen/internal/domain"
)

// SlideService defines the interface for slide page generation
type SlideService interface {
	RenderSlide(courseTitle string, slide domain.Slide, module, index, total int) (*Artifact, error)
	WriteSlide(l *layout.Layout, courseTitle string, slide domain.Slide, module, index, total int) (string, error)
}

// slideServiceImpl implements the SlideService interface
type slideServiceImpl struct {
	renderer *render.Renderer
	logger   zerolog.Logger
}

// NewSlideService creates a new slide service instance
func NewSlideService(renderer *render.Renderer, logger zerolog.Logger) SlideService {
	return &slideServiceImpl{
		renderer: renderer,
		logger:   logger,
	}
}

// RenderSlide renders slide index of total in module into its page
func (s *slideServiceImpl) RenderSlide(courseTitle string, slide domain.Slide, module, index, total int) (*Artifact, error) {
	if module < 1 || index < 1 || index > total {
		return nil, fmt.Errorf("invalid slide position: module %d slide %d of %d", module, index, total)
	}

	name := domain.SlideFileName(module, index)
	view := render.SlideView{
		Site:        s.renderer.Site(),
		CourseTitle: courseTitle,
		Module:      module,
		Slide:       index,
		SlideName:   name,
		Header:      strings.TrimSpace(slide.Header),
		Paragraph:   strings.TrimSpace(slide.Paragraph),
		Media:       mediaView(slide.Media),
		Question:    questionView(slide.Question),
		Nav:         domain.Navigate(module, index, total),
	}

	content, err := s.renderer.HTML(render.SlideTemplate, view)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Name:    path.Join(domain.ModuleDirName(module), name),
		Content: content,
	}, nil
}

// WriteSlide renders the slide and writes it into the module directory of l
func (s *slideServiceImpl) WriteSlide(l *layout.Layout, courseTitle string, slide domain.Slide, module, index, total int) (string, error) {
	artifact, err := s.RenderSlide(courseTitle, slide, module, index, total)
	if err != nil {
		return "", err
	}

	p, err := writeArtifact(l.Root, artifact)
	if err != nil {
		s.logger.Error().Err(err).Int("module", module).Int("slide", index).Msg("Failed to write slide")
		return "", err
	}
	s.logger.Debug().Str("path", p).Msg("Slide written")
	return p, nil
}

// mediaView maps a media reference onto the page's media block. Asset kinds point into
// ASSETS unless the reference is already an absolute URL.
func mediaView(ref string) *render.MediaView {
	ref = strings.TrimSpace(ref)
	kind := domain.ClassifyMedia(ref)
	if kind == domain.MediaNone {
		return nil
	}

	src := ref
	if kind.IsAsset() && !isURL(ref) {
		src = "../" + layout.AssetsDir + "/" + path.Base(strings.ReplaceAll(ref, `\`, "/"))
	}
	return &render.MediaView{Kind: string(kind), Src: src}
}

func isURL(ref string) bool {
	return strings.Contains(ref, "://")
}

func questionView(q *domain.Question) *render.QuestionView {
	if q == nil {
		return nil
	}

	v := &render.QuestionView{Text: q.Text, Kind: q.Kind.Name()}
	switch k := q.Kind.(type) {
	case domain.MultipleChoice:
		v.Options = k.Options[:]
		v.Correct = k.CorrectOption().Letter
	case domain.Binary:
		v.Options = k.Options[:]
		v.Correct = k.CorrectOption().Letter
	case domain.FreeText:
		v.Expected = domain.NormalizeAnswer(k.Answer)
	}
	return v
}
