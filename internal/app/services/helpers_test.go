package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/elitelearners/coursegen/internal/app/layout"
	"github.com/elitelearners/coursegen/internal/app/render"
	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/validation"
)

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(render.Site{StaticBaseURL: "https://static.example.com", LearningBaseURL: "https://learn.example.com"})
	require.NoError(t, err)
	return r
}

func testScaffoldSettings() render.ScaffoldView {
	return render.ScaffoldView{DBHost: "localhost", DBName: "courses", DBUser: "app", DBPassword: "secret", LoginURL: "login.php"}
}

func newTestCourseService(t *testing.T, base string) CourseService {
	t.Helper()
	r := newTestRenderer(t)
	lgr := zerolog.Nop()
	return NewCourseService(CourseServiceDeps{
		Layouts:     layout.NewBuilder(base, lgr),
		Index:       NewIndexService(r, lgr),
		Slides:      NewSlideService(r, lgr),
		Celebration: NewCelebrationService(r, lgr),
		Scaffold:    NewScaffoldService(r, testScaffoldSettings(), lgr),
		Readme:      NewReadmeLog(r, lgr),
	}, lgr)
}

func newTestDescriptionService(t *testing.T) DescriptionService {
	t.Helper()
	r := newTestRenderer(t)
	return NewDescriptionService(r, NewReadmeLog(r, zerolog.Nop()), validation.New(), zerolog.Nop())
}

func mustQuestion(t *testing.T, text string, slots [domain.OptionSlots]string, answer string) *domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(text, slots, answer)
	require.NoError(t, err)
	return q
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func testLayout(t *testing.T, modules int) *layout.Layout {
	t.Helper()
	l, err := layout.NewBuilder(t.TempDir(), zerolog.Nop()).CreateLayout("Test Course", modules)
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(l.Root, "module1"))
	return l
}
