package services

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/render"
	"github.com/elitelearners/coursegen/internal/pkg/validation"
)

// DefaultDescriptionImage is used when a description has no image URL
const DefaultDescriptionImage = "default.jpg"

// Description is the input of a stand-alone course description page
type Description struct {
	Title       string `json:"title" validate:"notblank,alphanum_"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description" validate:"notblank"`
	Objectives  string `json:"objectives"`
	Chapters    int    `json:"chapters" validate:"gte=0"`
	Duration    string `json:"duration"`
	Assessment  string `json:"assessment"`
}

// DescriptionService defines the interface for course description pages
type DescriptionService interface {
	Generate(dir string, d Description) (string, error)
}

// descriptionServiceImpl implements the DescriptionService interface
type descriptionServiceImpl struct {
	renderer  *render.Renderer
	readme    *ReadmeLog
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewDescriptionService creates a new description service instance
func NewDescriptionService(renderer *render.Renderer, readme *ReadmeLog, validator *validation.Validator, logger zerolog.Logger) DescriptionService {
	return &descriptionServiceImpl{
		renderer:  renderer,
		readme:    readme,
		validator: validator,
		logger:    logger,
	}
}

// Generate validates d, appends it to dir/README.md and writes dir/<title>.html.
// dir must exist.
func (s *descriptionServiceImpl) Generate(dir string, d Description) (string, error) {
	d.Title = strings.TrimSpace(d.Title)
	if err := s.validator.Struct("description", d); err != nil {
		return "", err
	}

	view := render.DescriptionView{
		Site:        s.renderer.Site(),
		Title:       d.Title,
		ImageURL:    strings.TrimSpace(d.ImageURL),
		Description: strings.TrimSpace(d.Description),
		Objectives:  strings.TrimSpace(d.Objectives),
		Chapters:    strconv.Itoa(d.Chapters),
		Duration:    strings.TrimSpace(d.Duration),
		Assessment:  strings.TrimSpace(d.Assessment),
	}
	if view.ImageURL == "" {
		view.ImageURL = DefaultDescriptionImage
	}

	if err := s.readme.AppendDescription(dir, view); err != nil {
		return "", err
	}

	content, err := s.renderer.HTML(render.DescriptionTemplate, view)
	if err != nil {
		return "", err
	}
	p, err := writeArtifact(dir, &Artifact{Name: d.Title + ".html", Content: content})
	if err != nil {
		s.logger.Error().Err(err).Str("title", d.Title).Msg("Failed to write course description")
		return "", err
	}

	s.logger.Info().Str("path", p).Msg("Course description written")
	return p, nil
}
