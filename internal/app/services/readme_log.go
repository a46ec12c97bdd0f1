package services

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/render"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

// ReadmeFile is the append-only build log at the course root
const ReadmeFile = "README.md"

const readmeTimeFormat = "2006-01-02 15:04:05"

// ReadmeLog appends build blocks to a README.md. It never rewrites existing content.
type ReadmeLog struct {
	renderer *render.Renderer
	logger   zerolog.Logger
	now      func() time.Time
}

// NewReadmeLog creates a new README log
func NewReadmeLog(renderer *render.Renderer, logger zerolog.Logger) *ReadmeLog {
	return &ReadmeLog{
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// AppendCourse records the creation of a course
func (r *ReadmeLog) AppendCourse(root string, info CourseInfo, buildID string) error {
	return r.append(root, render.ReadmeCourseTemplate, render.ReadmeCourseView{
		Title:     info.Title,
		BuildID:   buildID,
		CreatedAt: r.now().Format(readmeTimeFormat),
		Author:    info.Author,
		Duration:  info.Duration,
		Modules:   info.ModuleCount,
		Overview:  info.Overview,
	})
}

// AppendModule records a completed module
func (r *ReadmeLog) AppendModule(root string, module, slides int) error {
	return r.append(root, render.ReadmeModuleTemplate, render.ReadmeModuleView{
		Module:    module,
		Slides:    slides,
		CreatedAt: r.now().Format(readmeTimeFormat),
	})
}

// AppendDescription records a generated course description page
func (r *ReadmeLog) AppendDescription(dir string, view render.DescriptionView) error {
	return r.append(dir, render.ReadmeDescriptionTemplate, view)
}

func (r *ReadmeLog) append(dir, template string, data interface{}) error {
	block, err := r.renderer.Text(template, data)
	if err != nil {
		return err
	}

	p := filepath.Join(dir, ReadmeFile)
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_APPEND, filePerm)
	if err != nil {
		r.logger.Error().Err(err).Str("path", p).Msg("Failed to open README")
		return apperrors.NewWriteError(p, err)
	}
	defer f.Close()

	if _, err := f.Write(block); err != nil {
		r.logger.Error().Err(err).Str("path", p).Msg("Failed to append README block")
		return apperrors.NewWriteError(p, err)
	}
	return nil
}
