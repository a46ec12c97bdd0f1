package services

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

func TestDescriptionGenerate(t *testing.T) {
	svc := newTestDescriptionService(t)
	dir := t.TempDir()

	p, err := svc.Generate(dir, Description{
		Title:       "Intro to Algebra",
		Description: "Equations and graphs",
		Objectives:  "Solve linear equations",
		Chapters:    6,
		Duration:    "4 weeks",
		Assessment:  "Quizzes",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Intro to Algebra.html"), p)
	assert.Contains(t, readFile(t, p), "Equations and graphs")

	readme := readFile(t, filepath.Join(dir, ReadmeFile))
	assert.Contains(t, readme, DefaultDescriptionImage)
	assert.Contains(t, readme, "Intro to Algebra")
}

func TestDescriptionGenerateValidation(t *testing.T) {
	svc := newTestDescriptionService(t)

	tests := []struct {
		name  string
		in    Description
		field string
	}{
		{name: "blank title", in: Description{Title: " ", Description: "d"}, field: "title"},
		{name: "title with slash", in: Description{Title: "a/b", Description: "d"}, field: "title"},
		{name: "title with newline", in: Description{Title: "Intro\nAlgebra", Description: "d"}, field: "title"},
		{name: "blank description", in: Description{Title: "Algebra"}, field: "description"},
		{name: "negative chapters", in: Description{Title: "Algebra", Description: "d", Chapters: -1}, field: "chapters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := svc.Generate(dir, tt.in)
			require.Error(t, err)

			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.Has(tt.field))
			assert.NoFileExists(t, filepath.Join(dir, ReadmeFile))
		})
	}
}
