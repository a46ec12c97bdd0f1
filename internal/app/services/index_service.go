package services

import (
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/layout"
	"github.com/elitelearners/coursegen/internal/app/render"
	"github.com/elitelearners/coursegen/internal/domain"
)

// IndexFile is the course landing page at the root of the tree
const IndexFile = "index.html"

// CourseInfo is the metadata of a course known before any module is written
type CourseInfo struct {
	Title       string
	Author      string
	Duration    string
	Overview    string
	ModuleCount int
}

// Info returns the metadata part of a complete course
func Info(c domain.Course) CourseInfo {
	return CourseInfo{
		Title:       c.Title,
		Author:      c.Author,
		Duration:    c.Duration,
		Overview:    c.Overview,
		ModuleCount: c.ModuleCount(),
	}
}

// IndexService defines the interface for the course index page
type IndexService interface {
	RenderIndex(info CourseInfo) (*Artifact, error)
	WriteIndex(l *layout.Layout, info CourseInfo) (string, error)
}

// indexServiceImpl implements the IndexService interface
type indexServiceImpl struct {
	renderer *render.Renderer
	logger   zerolog.Logger
}

// NewIndexService creates a new index service instance
func NewIndexService(renderer *render.Renderer, logger zerolog.Logger) IndexService {
	return &indexServiceImpl{
		renderer: renderer,
		logger:   logger,
	}
}

// RenderIndex renders the index page. It depends only on the course metadata.
func (s *indexServiceImpl) RenderIndex(info CourseInfo) (*Artifact, error) {
	view := render.IndexView{
		Site:     s.renderer.Site(),
		Title:    strings.TrimSpace(info.Title),
		Author:   strings.TrimSpace(info.Author),
		Duration: strings.TrimSpace(info.Duration),
		Overview: strings.TrimSpace(info.Overview),
	}
	for m := 1; m <= info.ModuleCount; m++ {
		view.Modules = append(view.Modules, render.IndexModule{
			Index:      m,
			FirstSlide: path.Join(domain.ModuleDirName(m), domain.SlideFileName(m, 1)),
		})
	}

	content, err := s.renderer.HTML(render.IndexTemplate, view)
	if err != nil {
		return nil, err
	}
	return &Artifact{Name: IndexFile, Content: content}, nil
}

// WriteIndex renders the index and writes it to the course root
func (s *indexServiceImpl) WriteIndex(l *layout.Layout, info CourseInfo) (string, error) {
	artifact, err := s.RenderIndex(info)
	if err != nil {
		return "", err
	}

	p, err := writeArtifact(l.Root, artifact)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to write course index")
		return "", err
	}
	s.logger.Info().Str("path", p).Int("modules", info.ModuleCount).Msg("Course index written")
	return p, nil
}
