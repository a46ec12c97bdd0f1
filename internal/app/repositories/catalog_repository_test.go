package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

func TestFindCourseID(t *testing.T) {
	db := &fakeDB{rows: []fakeRow{{id: 7}, {err: pgx.ErrNoRows}}}
	repo := NewCatalogRepository(db, zerolog.Nop())

	id, err := repo.FindCourseID(context.Background(), "Intro to Algebra")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "SELECT course_id FROM courses WHERE title = $1 LIMIT 1", db.queries[0].sql)
	assert.Equal(t, []any{"Intro to Algebra"}, db.queries[0].args)

	_, err = repo.FindCourseID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCreateCourse(t *testing.T) {
	db := &fakeDB{nextID: 41}
	repo := NewCatalogRepository(db, zerolog.Nop())

	id, err := repo.CreateCourse(context.Background(), &CourseRecord{Title: "T", Author: "A", Duration: "D", BuildID: "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "INSERT INTO courses (title,author,duration,overview,build_id) VALUES ($1,$2,$3,$4,$5) RETURNING course_id", db.queries[0].sql)
}

func TestCreateCourseDuplicate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "title taken", err: &pgconn.PgError{Code: "23505", ConstraintName: "courses_title_key"}, wantErr: apperrors.ErrCourseAlreadyExists},
		{name: "other failure", err: errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewCatalogRepository(&fakeDB{rows: []fakeRow{{err: tt.err}}}, zerolog.Nop())
			_, err := repo.CreateCourse(context.Background(), &CourseRecord{Title: "T"})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NotErrorIs(t, err, apperrors.ErrCourseAlreadyExists)
			}
		})
	}
}

func TestUpdateCourse(t *testing.T) {
	db := &fakeDB{affected: 1}
	repo := NewCatalogRepository(db, zerolog.Nop())
	require.NoError(t, repo.UpdateCourse(context.Background(), &CourseRecord{ID: 3, Author: "A"}))
	assert.Contains(t, db.queries[0].sql, "UPDATE courses SET author = $1")
	assert.Contains(t, db.queries[0].sql, "published_at = NOW()")

	db.affected = 0
	assert.ErrorIs(t, repo.UpdateCourse(context.Background(), &CourseRecord{ID: 4}), apperrors.ErrCourseNotFound)
}

func TestUpsertModuleAndSlide(t *testing.T) {
	db := &fakeDB{}
	repo := NewCatalogRepository(db, zerolog.Nop())

	mid, err := repo.UpsertModule(context.Background(), &ModuleRecord{CourseID: 9, Index: 1, SlideCount: 2})
	require.NoError(t, err)
	sid, err := repo.UpsertSlide(context.Background(), &SlideRecord{ModuleID: mid, Index: 1, Name: "module_1_slide_1.html"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mid)
	assert.Equal(t, int64(2), sid)

	require.Len(t, db.queries, 2)
	assert.Equal(t, "INSERT INTO modules (course_id,module_index,slide_count) VALUES ($1,$2,$3) "+
		"ON CONFLICT (course_id, module_index) DO UPDATE SET slide_count = EXCLUDED.slide_count RETURNING module_id", db.queries[0].sql)
	assert.Equal(t, []any{int64(9), 1, 2}, db.queries[0].args)
	assert.Contains(t, db.queries[1].sql, "ON CONFLICT (module_id, slide_name) DO UPDATE SET slide_index = EXCLUDED.slide_index")
	assert.Equal(t, "module_1_slide_1.html", db.queries[1].args[2])
}

func TestPruneStaleRows(t *testing.T) {
	db := &fakeDB{rows: []fakeRow{{id: 3}}}
	repo := NewCatalogRepository(db, zerolog.Nop())

	last, err := repo.MaxModuleIndex(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 3, last)
	require.NoError(t, repo.DeleteModulesAfter(context.Background(), 9, 2))
	require.NoError(t, repo.DeleteSlidesAfter(context.Background(), 4, 5))

	require.Len(t, db.queries, 3)
	assert.Equal(t, "SELECT COALESCE(MAX(module_index), 0) FROM modules WHERE course_id = $1", db.queries[0].sql)
	assert.Equal(t, "DELETE FROM modules WHERE course_id = $1 AND module_index > $2", db.queries[1].sql)
	assert.Equal(t, []any{int64(9), 2}, db.queries[1].args)
	assert.Equal(t, "DELETE FROM slides WHERE module_id = $1 AND slide_index > $2", db.queries[2].sql)
}
