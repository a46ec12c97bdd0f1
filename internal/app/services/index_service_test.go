package services

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIndex(t *testing.T) {
	svc := NewIndexService(newTestRenderer(t), zerolog.Nop())

	info := CourseInfo{Title: "Intro to Algebra", Author: "Ada", Duration: "4 weeks", Overview: "Basics", ModuleCount: 3}
	a, err := svc.RenderIndex(info)
	require.NoError(t, err)
	assert.Equal(t, IndexFile, a.Name)

	page := string(a.Content)
	for _, link := range []string{"module1/module_1_slide_1.html", "module2/module_2_slide_1.html", "module3/module_3_slide_1.html"} {
		assert.Contains(t, page, link)
	}
	assert.NotContains(t, page, "module4/")
	assert.Contains(t, page, "Ada")

	// pure function of the metadata
	again, err := svc.RenderIndex(info)
	require.NoError(t, err)
	assert.Equal(t, a.Content, again.Content)
}

func TestWriteIndex(t *testing.T) {
	svc := NewIndexService(newTestRenderer(t), zerolog.Nop())
	l := testLayout(t, 1)

	p, err := svc.WriteIndex(l, CourseInfo{Title: "T", Author: "A", Duration: "1h", ModuleCount: 1})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(l.Root, "index.html"), p)
	assert.FileExists(t, p)
}
