package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
	"github.com/elitelearners/coursegen/internal/pkg/dberrors"
)

// Constraint names from the catalog migrations
const (
	courseTitleConstraint = "courses_title_key"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CourseRecord is a row of the courses table
type CourseRecord struct {
	ID       int64
	Title    string
	Author   string
	Duration string
	Overview string
	BuildID  string
}

// ModuleRecord is a row of the modules table
type ModuleRecord struct {
	ID         int64
	CourseID   int64
	Index      int
	SlideCount int
}

// SlideRecord is a row of the slides table
type SlideRecord struct {
	ID           int64
	ModuleID     int64
	Index        int
	Name         string
	Header       string
	QuestionKind string
}

// CatalogRepository handles course catalog database operations
type CatalogRepository struct {
	db DBTX
	// Use squirrel instance with placeholder format
	sb     squirrel.StatementBuilderType
	logger zerolog.Logger
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db DBTX, logger zerolog.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		logger: logger,
	}
}

// FindCourseID returns the id of the course with title
func (r *CatalogRepository) FindCourseID(ctx context.Context, title string) (int64, error) {
	sql, args, err := r.sb.Select("course_id").
		From("courses").
		Where(squirrel.Eq{"title": title}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build find course query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsNoRows(err) {
			return 0, apperrors.ErrCourseNotFound
		}
		r.logger.Error().Err(err).Str("title", title).Msg("Error executing find course query")
		return 0, fmt.Errorf("error finding course: %w", err)
	}
	return id, nil
}

// CreateCourse inserts a course and returns its id
func (r *CatalogRepository) CreateCourse(ctx context.Context, c *CourseRecord) (int64, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("title", "author", "duration", "overview", "build_id").
		Values(c.Title, c.Author, c.Duration, c.Overview, c.BuildID).
		Suffix("RETURNING course_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, courseTitleConstraint) {
			return 0, apperrors.ErrCourseAlreadyExists
		}
		r.logger.Error().Err(err).Str("title", c.Title).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}
	return id, nil
}

// UpdateCourse rewrites the metadata of course c.ID
func (r *CatalogRepository) UpdateCourse(ctx context.Context, c *CourseRecord) error {
	sql, args, err := r.sb.Update("courses").
		Set("author", c.Author).
		Set("duration", c.Duration).
		Set("overview", c.Overview).
		Set("build_id", c.BuildID).
		Set("published_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"course_id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Int64("course_id", c.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// MaxModuleIndex returns the highest module index stored for a course, 0 when it has none
func (r *CatalogRepository) MaxModuleIndex(ctx context.Context, courseID int64) (int, error) {
	sql, args, err := r.sb.Select("COALESCE(MAX(module_index), 0)").
		From("modules").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build max module query: %w", err)
	}

	var last int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&last); err != nil {
		r.logger.Error().Err(err).Int64("course_id", courseID).Msg("Error executing max module query")
		return 0, fmt.Errorf("error reading modules: %w", err)
	}
	return int(last), nil
}

// DeleteModulesAfter removes the modules of a course whose index is above last. Their
// slides and the progress recorded on them go with them.
func (r *CatalogRepository) DeleteModulesAfter(ctx context.Context, courseID int64, last int) error {
	sql, args, err := r.sb.Delete("modules").
		Where(squirrel.Eq{"course_id": courseID}).
		Where(squirrel.Gt{"module_index": last}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete modules query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		r.logger.Error().Err(err).Int64("course_id", courseID).Msg("Error executing delete modules query")
		return fmt.Errorf("error deleting modules: %w", err)
	}
	return nil
}

// UpsertModule inserts a module or updates the one with the same index, keeping its id
func (r *CatalogRepository) UpsertModule(ctx context.Context, m *ModuleRecord) (int64, error) {
	sql, args, err := r.sb.Insert("modules").
		Columns("course_id", "module_index", "slide_count").
		Values(m.CourseID, m.Index, m.SlideCount).
		Suffix("ON CONFLICT (course_id, module_index) DO UPDATE SET slide_count = EXCLUDED.slide_count RETURNING module_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build upsert module query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		r.logger.Error().Err(err).Int("module", m.Index).Msg("Error executing upsert module query")
		return 0, fmt.Errorf("error saving module %d: %w", m.Index, err)
	}
	return id, nil
}

// DeleteSlidesAfter removes the slides of a module whose index is above last
func (r *CatalogRepository) DeleteSlidesAfter(ctx context.Context, moduleID int64, last int) error {
	sql, args, err := r.sb.Delete("slides").
		Where(squirrel.Eq{"module_id": moduleID}).
		Where(squirrel.Gt{"slide_index": last}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete slides query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		r.logger.Error().Err(err).Int64("module_id", moduleID).Msg("Error executing delete slides query")
		return fmt.Errorf("error deleting slides: %w", err)
	}
	return nil
}

// UpsertSlide inserts a slide or updates the one with the same name, keeping its id so
// progress recorded against it survives
func (r *CatalogRepository) UpsertSlide(ctx context.Context, s *SlideRecord) (int64, error) {
	sql, args, err := r.sb.Insert("slides").
		Columns("module_id", "slide_index", "slide_name", "header", "question_kind").
		Values(s.ModuleID, s.Index, s.Name, s.Header, s.QuestionKind).
		Suffix("ON CONFLICT (module_id, slide_name) DO UPDATE SET slide_index = EXCLUDED.slide_index, " +
			"header = EXCLUDED.header, question_kind = EXCLUDED.question_kind RETURNING slide_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build upsert slide query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		r.logger.Error().Err(err).Str("slide", s.Name).Msg("Error executing upsert slide query")
		return 0, fmt.Errorf("error saving slide %s: %w", s.Name, err)
	}
	return id, nil
}
