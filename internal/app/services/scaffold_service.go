package services

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/render"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

// Backend files written into AUTH/
const (
	ConfigPHPFile  = "config.php"
	HandlerPHPFile = "handler.php"
	HandlerJSFile  = "handler.js"
)

var scaffoldFiles = []struct {
	name     string
	template string
}{
	{ConfigPHPFile, render.ConfigPHPTemplate},
	{HandlerPHPFile, render.HandlerPHPTemplate},
	{HandlerJSFile, render.HandlerJSTemplate},
}

// ScaffoldReport lists which backend files a run created and which it left alone
type ScaffoldReport struct {
	Created []string
	Skipped []string
}

// ScaffoldService defines the interface for the AUTH/ backend emitter
type ScaffoldService interface {
	EmitScaffold(authDir string) (*ScaffoldReport, error)
}

// scaffoldServiceImpl implements the ScaffoldService interface
type scaffoldServiceImpl struct {
	renderer *render.Renderer
	settings render.ScaffoldView
	logger   zerolog.Logger
}

// NewScaffoldService creates a new scaffold service instance
func NewScaffoldService(renderer *render.Renderer, settings render.ScaffoldView, logger zerolog.Logger) ScaffoldService {
	return &scaffoldServiceImpl{
		renderer: renderer,
		settings: settings,
		logger:   logger,
	}
}

// EmitScaffold writes config.php, handler.php and handler.js into authDir. Files that
// already exist are never touched, so running it twice is safe.
func (s *scaffoldServiceImpl) EmitScaffold(authDir string) (*ScaffoldReport, error) {
	report := &ScaffoldReport{}

	for _, f := range scaffoldFiles {
		p := filepath.Join(authDir, f.name)

		content, err := s.renderer.Text(f.template, s.settings)
		if err != nil {
			return report, err
		}

		created, err := createIfAbsent(p, content)
		if err != nil {
			s.logger.Error().Err(err).Str("path", p).Msg("Failed to write scaffold file")
			return report, err
		}
		if !created {
			s.logger.Info().Str("path", p).Msg("Scaffold file exists, skipping")
			report.Skipped = append(report.Skipped, f.name)
			continue
		}
		report.Created = append(report.Created, f.name)
	}

	s.logger.Info().Str("dir", authDir).Int("created", len(report.Created)).Int("skipped", len(report.Skipped)).Msg("Scaffold emitted")
	return report, nil
}

// createIfAbsent creates path exclusively. It returns false without error when the file
// already exists.
func createIfAbsent(path string, content []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, apperrors.NewWriteError(path, err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return false, apperrors.NewWriteError(path, err)
	}
	if err := f.Close(); err != nil {
		return false, apperrors.NewWriteError(path, err)
	}
	return true, nil
}
