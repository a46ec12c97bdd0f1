package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/repositories"
	"github.com/elitelearners/coursegen/internal/db"
	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

// PublishResult summarizes a catalog publish
type PublishResult struct {
	CourseID int64
	BuildID  string
	Modules  int
	Slides   int
	Replaced bool
}

// CatalogService defines the interface for registering courses in the catalog database
type CatalogService interface {
	// Publish registers course, its modules and slide pages in one transaction. An existing
	// course with the same title is replaced only when replace is set.
	Publish(ctx context.Context, course domain.Course, replace bool) (*PublishResult, error)
}

// catalogServiceImpl implements the CatalogService interface
type catalogServiceImpl struct {
	db     db.Transactor
	logger zerolog.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(database db.Transactor, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		db:     database,
		logger: logger,
	}
}

func (s *catalogServiceImpl) Publish(ctx context.Context, course domain.Course, replace bool) (*PublishResult, error) {
	result := &PublishResult{BuildID: uuid.NewString()}

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := repositories.NewCatalogRepository(tx, s.logger)
		record := &repositories.CourseRecord{
			Title:    course.Title,
			Author:   course.Author,
			Duration: course.Duration,
			Overview: course.Overview,
			BuildID:  result.BuildID,
		}

		id, err := repo.FindCourseID(ctx, course.Title)
		switch {
		case err == nil:
			if !replace {
				return apperrors.ErrCourseAlreadyExists
			}
			record.ID = id
			if err := repo.UpdateCourse(ctx, record); err != nil {
				return err
			}
			// rows are matched on their natural keys so slide ids, and the progress
			// recorded against them, survive a replace
			last, err := repo.MaxModuleIndex(ctx, id)
			if err != nil {
				return err
			}
			if last > len(course.Modules) {
				if err := repo.DeleteModulesAfter(ctx, id, len(course.Modules)); err != nil {
					return err
				}
			}
			result.Replaced = true
		case errors.Is(err, apperrors.ErrCourseNotFound):
			// a concurrent publisher may still win the insert; the unique constraint reports it
			if id, err = repo.CreateCourse(ctx, record); err != nil {
				return err
			}
		default:
			return err
		}
		result.CourseID = id

		for _, m := range course.Modules {
			moduleID, err := repo.UpsertModule(ctx, &repositories.ModuleRecord{
				CourseID:   id,
				Index:      m.Index,
				SlideCount: len(m.Slides),
			})
			if err != nil {
				return err
			}
			if result.Replaced {
				if err := repo.DeleteSlidesAfter(ctx, moduleID, len(m.Slides)); err != nil {
					return err
				}
			}
			for i, slide := range m.Slides {
				rec := &repositories.SlideRecord{
					ModuleID: moduleID,
					Index:    i + 1,
					Name:     domain.SlideFileName(m.Index, i+1),
					Header:   slide.Header,
				}
				if slide.Question != nil {
					rec.QuestionKind = slide.Question.Kind.Name()
				}
				if _, err := repo.UpsertSlide(ctx, rec); err != nil {
					return err
				}
				result.Slides++
			}
			result.Modules++
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("title", course.Title).Msg("Failed to publish course")
		return nil, err
	}

	s.logger.Info().
		Int64("course_id", result.CourseID).
		Str("build_id", result.BuildID).
		Int("modules", result.Modules).
		Int("slides", result.Slides).
		Bool("replaced", result.Replaced).
		Msg("Course published")
	return result, nil
}
