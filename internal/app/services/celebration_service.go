package services

import (
	"path"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/layout"
	"github.com/elitelearners/coursegen/internal/app/render"
	"github.com/elitelearners/coursegen/internal/domain"
)

// Celebration page behaviour
const (
	CelebrationCountdown = 15
	celebrationReturn    = "../" + IndexFile
)

// CelebrationService defines the interface for the end-of-module page
type CelebrationService interface {
	RenderCelebration(courseTitle string, module int) (*Artifact, error)
	WriteCelebration(l *layout.Layout, courseTitle string, module int) (string, error)
}

// celebrationServiceImpl implements the CelebrationService interface
type celebrationServiceImpl struct {
	renderer *render.Renderer
	logger   zerolog.Logger
}

// NewCelebrationService creates a new celebration service instance
func NewCelebrationService(renderer *render.Renderer, logger zerolog.Logger) CelebrationService {
	return &celebrationServiceImpl{
		renderer: renderer,
		logger:   logger,
	}
}

func (s *celebrationServiceImpl) RenderCelebration(courseTitle string, module int) (*Artifact, error) {
	content, err := s.renderer.HTML(render.CelebrationTemplate, render.CelebrationView{
		Site:        s.renderer.Site(),
		CourseTitle: courseTitle,
		Module:      module,
		Countdown:   CelebrationCountdown,
		Return:      celebrationReturn,
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Name:    path.Join(domain.ModuleDirName(module), domain.CelebrationFile),
		Content: content,
	}, nil
}

func (s *celebrationServiceImpl) WriteCelebration(l *layout.Layout, courseTitle string, module int) (string, error) {
	artifact, err := s.RenderCelebration(courseTitle, module)
	if err != nil {
		return "", err
	}

	p, err := writeArtifact(l.Root, artifact)
	if err != nil {
		s.logger.Error().Err(err).Int("module", module).Msg("Failed to write celebration page")
		return "", err
	}
	s.logger.Debug().Str("path", p).Msg("Celebration page written")
	return p, nil
}
