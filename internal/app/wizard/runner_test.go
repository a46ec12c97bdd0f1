package wizard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitelearners/coursegen/internal/app/layout"
	"github.com/elitelearners/coursegen/internal/app/render"
	"github.com/elitelearners/coursegen/internal/app/services"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
	"github.com/elitelearners/coursegen/internal/pkg/validation"
)

// scriptedPrompter replays canned answers in order
type scriptedPrompter struct {
	metadata []Metadata
	counts   []int
	slides   []SlideInput
	confirms []bool

	onMetadata func(call int)
	onCount    func(call int)

	metadataCalls int
	countCalls    int
	errors        []*apperrors.ValidationError
	messages      []string
}

func (p *scriptedPrompter) Metadata(context.Context) (Metadata, error) {
	if p.onMetadata != nil {
		p.onMetadata(p.metadataCalls)
	}
	p.metadataCalls++
	if len(p.metadata) == 0 {
		return Metadata{}, errors.New("script exhausted: metadata")
	}
	m := p.metadata[0]
	p.metadata = p.metadata[1:]
	return m, nil
}

func (p *scriptedPrompter) SlideCount(context.Context, int) (int, error) {
	if p.onCount != nil {
		p.onCount(p.countCalls)
	}
	p.countCalls++
	if len(p.counts) == 0 {
		return 0, errors.New("script exhausted: slide count")
	}
	n := p.counts[0]
	p.counts = p.counts[1:]
	return n, nil
}

func (p *scriptedPrompter) Slide(context.Context, int, int, int) (SlideInput, error) {
	if len(p.slides) == 0 {
		return SlideInput{}, errors.New("script exhausted: slide")
	}
	in := p.slides[0]
	p.slides = p.slides[1:]
	return in, nil
}

func (p *scriptedPrompter) ConfirmNextModule(context.Context, int) (bool, error) {
	if len(p.confirms) == 0 {
		return false, errors.New("script exhausted: confirm")
	}
	ok := p.confirms[0]
	p.confirms = p.confirms[1:]
	return ok, nil
}

func (p *scriptedPrompter) ShowErrors(err *apperrors.ValidationError) {
	p.errors = append(p.errors, err)
}

func (p *scriptedPrompter) ShowMessage(msg string) {
	p.messages = append(p.messages, msg)
}

func newRunner(t *testing.T, base string, p Prompter, interval time.Duration) *Runner {
	t.Helper()
	r, err := render.New(render.Site{StaticBaseURL: "https://static.example.com"})
	require.NoError(t, err)
	lgr := zerolog.Nop()

	courses := services.NewCourseService(services.CourseServiceDeps{
		Layouts:     layout.NewBuilder(base, lgr),
		Index:       services.NewIndexService(r, lgr),
		Slides:      services.NewSlideService(r, lgr),
		Celebration: services.NewCelebrationService(r, lgr),
		Scaffold:    services.NewScaffoldService(r, render.ScaffoldView{LoginURL: "login.php"}, lgr),
		Readme:      services.NewReadmeLog(r, lgr),
	}, lgr)
	return NewRunner(p, courses, validation.New(), interval, lgr)
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunnerCompletesCourse(t *testing.T) {
	base := t.TempDir()
	p := &scriptedPrompter{
		metadata: []Metadata{{Title: "Intro to Algebra", Duration: "4 weeks", Author: "Ada", Modules: 2}},
		counts:   []int{2, 1},
		slides: []SlideInput{
			{Header: "Welcome"},
			{Header: "Quiz", Question: "2+2?", Options: [4]string{"3", "4", "5", "6"}, Answer: "B"},
			{Header: "Wrap up"},
		},
		confirms: []bool{true},
	}

	res, err := newRunner(t, base, p, 0).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Course.ModuleCount())
	assert.Equal(t, 3, res.Course.SlideCount())
	assert.Equal(t, []int{1, 2}, res.Build.ModulesWritten)

	root := filepath.Join(base, "INTRO TO ALGEBRA")
	assert.FileExists(t, filepath.Join(root, "module1", "module_1_slide_2.html"))
	assert.FileExists(t, filepath.Join(root, "module2", "celebration.html"))
	assert.Equal(t, []string{"All modules completed and saved."}, p.messages)
}

func TestRunnerRejectsBadCountsBeforeWriting(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "ALGEBRA")

	p := &scriptedPrompter{
		metadata: []Metadata{
			{Title: "Algebra", Duration: "1h", Author: "Ada", Modules: 0},
			{Title: "Algebra", Duration: "1h", Author: "Ada", Modules: 1},
		},
		counts: []int{31, 1},
		slides: []SlideInput{{Header: "only"}},
		onMetadata: func(call int) {
			// the rejected module count left nothing on disk
			assert.Empty(t, dirEntries(t, base))
		},
		onCount: func(call int) {
			if call == 1 {
				assert.Empty(t, dirEntries(t, filepath.Join(root, "module1")))
			}
		},
	}

	_, err := newRunner(t, base, p, 0).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, p.errors, 2)
	assert.True(t, p.errors[0].Has("modules"))
	assert.True(t, p.errors[1].Has("slides"))
	assert.Equal(t, 2, p.metadataCalls)
	assert.Equal(t, 2, p.countCalls)
}

func TestRunnerReasksInvalidSlide(t *testing.T) {
	p := &scriptedPrompter{
		metadata: []Metadata{{Title: "Geo", Duration: "1h", Author: "Ada", Modules: 1}},
		counts:   []int{1},
		slides: []SlideInput{
			{Question: "Capital of France?"},
			{Question: "Capital of France?", Answer: "Paris"},
		},
	}

	res, err := newRunner(t, t.TempDir(), p, 0).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, p.errors, 1)
	assert.True(t, p.errors[0].Has("answer"))
	assert.Equal(t, 1, res.Course.SlideCount())
}

func TestRunnerAbortKeepsWrittenModules(t *testing.T) {
	base := t.TempDir()
	p := &scriptedPrompter{
		metadata: []Metadata{{Title: "Stop", Duration: "1h", Author: "Ada", Modules: 2}},
		counts:   []int{1},
		slides:   []SlideInput{{Header: "first"}},
		confirms: []bool{false},
	}

	_, err := newRunner(t, base, p, 0).Run(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrAborted)

	root := filepath.Join(base, "STOP")
	assert.FileExists(t, filepath.Join(root, "module1", "module_1_slide_1.html"))
	assert.Empty(t, dirEntries(t, filepath.Join(root, "module2")))

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(readme), "Module 1 saved"))
}

func TestRunnerOnlyOnce(t *testing.T) {
	p := &scriptedPrompter{}
	r := newRunner(t, t.TempDir(), p, 0)

	_, err := r.Run(context.Background())
	assert.Error(t, err)

	_, err = r.Run(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSessionClosed)
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := strings.NewReader("Title\n")
	_, err := newRunner(t, t.TempDir(), NewTerminalPrompter(in, &strings.Builder{}), time.Second).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
