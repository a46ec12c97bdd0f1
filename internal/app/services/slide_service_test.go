package services

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitelearners/coursegen/internal/app/layout"
	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

func TestRenderSlideMultipleChoice(t *testing.T) {
	svc := NewSlideService(newTestRenderer(t), zerolog.Nop())

	slide := domain.Slide{
		Header:   "Variables",
		Question: mustQuestion(t, "What is x if x+1=3?", [4]string{"1", "2", "3", "4"}, "B"),
	}
	a, err := svc.RenderSlide("INTRO TO ALGEBRA", slide, 1, 1, 3)
	require.NoError(t, err)

	page := string(a.Content)
	assert.Equal(t, "module1/module_1_slide_1.html", a.Name)
	for _, letter := range []string{"A", "B", "C", "D"} {
		assert.Contains(t, page, `id="opt`+letter+`"`)
	}
	assert.Contains(t, page, `const correctAnswer = "B"`)
	assert.Contains(t, page, `const nextTarget = "module_1_slide_2.html"`)
	assert.NotContains(t, page, `id="previousButton"`)
}

func TestRenderSlideNavigation(t *testing.T) {
	svc := NewSlideService(newTestRenderer(t), zerolog.Nop())

	a, err := svc.RenderSlide("T", domain.Slide{Header: "End"}, 2, 3, 3)
	require.NoError(t, err)
	page := string(a.Content)
	assert.Contains(t, page, `const nextTarget = "celebration.html"`)
	assert.Contains(t, page, `href="module_2_slide_2.html"`)
	assert.Contains(t, page, `id="continueButton"`)

	_, err = svc.RenderSlide("T", domain.Slide{}, 1, 4, 3)
	assert.Error(t, err)
}

func TestRenderSlideFreeTextFallback(t *testing.T) {
	svc := NewSlideService(newTestRenderer(t), zerolog.Nop())

	// three options are not a valid choice question and render as free text
	q := mustQuestion(t, "Capital of France?", [4]string{"Paris", "Rome", "Oslo", ""}, " Paris ")
	a, err := svc.RenderSlide("T", domain.Slide{Question: q}, 1, 1, 1)
	require.NoError(t, err)

	page := string(a.Content)
	assert.Contains(t, page, `id="userAnswer"`)
	assert.Contains(t, page, `const expectedAnswer = "paris"`)
	assert.NotContains(t, page, `type="radio"`)
}

func TestMediaView(t *testing.T) {
	tests := []struct {
		ref      string
		wantNil  bool
		wantKind domain.MediaKind
		wantSrc  string
	}{
		{ref: "", wantNil: true},
		{ref: "notes.pdf", wantKind: domain.MediaDocument, wantSrc: "../ASSETS/notes.pdf"},
		{ref: "logo.svg", wantKind: domain.MediaDocument, wantSrc: "../ASSETS/logo.svg"},
		{ref: "photo.JPG", wantKind: domain.MediaImage, wantSrc: "../ASSETS/photo.JPG"},
		{ref: "song.ogg", wantKind: domain.MediaAudio, wantSrc: "../ASSETS/song.ogg"},
		{ref: "/home/ada/lesson.mp4", wantKind: domain.MediaVideo, wantSrc: "../ASSETS/lesson.mp4"},
		{ref: "https://cdn.example.com/a.mp4", wantKind: domain.MediaVideo, wantSrc: "https://cdn.example.com/a.mp4"},
		{ref: "https://www.youtube.com/embed/xyz", wantKind: domain.MediaEmbed, wantSrc: "https://www.youtube.com/embed/xyz"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			v := mediaView(tt.ref)
			if tt.wantNil {
				assert.Nil(t, v)
				return
			}
			require.NotNil(t, v)
			assert.Equal(t, string(tt.wantKind), v.Kind)
			assert.Equal(t, tt.wantSrc, v.Src)
		})
	}
}

func TestWriteSlide(t *testing.T) {
	svc := NewSlideService(newTestRenderer(t), zerolog.Nop())
	l := testLayout(t, 1)

	p, err := svc.WriteSlide(l, "T", domain.Slide{Header: "one"}, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(l.Root, "module1", "module_1_slide_1.html"), p)
	assert.Contains(t, readFile(t, p), "one")

	// rewriting replaces the page
	_, err = svc.WriteSlide(l, "T", domain.Slide{Header: "two"}, 1, 1, 1)
	require.NoError(t, err)
	assert.NotContains(t, readFile(t, p), ">one<")
}

func TestWriteSlideMissingModuleDir(t *testing.T) {
	svc := NewSlideService(newTestRenderer(t), zerolog.Nop())
	l := layout.Open(t.TempDir(), 1)

	_, err := svc.WriteSlide(l, "T", domain.Slide{}, 1, 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrWrite))

	var werr *apperrors.WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, filepath.Join(l.Root, "module1", "module_1_slide_1.html"), werr.Path)
	assert.NoDirExists(t, filepath.Join(l.Root, "module1"))
}
