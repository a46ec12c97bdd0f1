package render

import "github.com/elitelearners/coursegen/internal/domain"

// MediaView is the media block of a slide page
type MediaView struct {
	Kind string
	Src  string
}

// QuestionView is the quiz block of a slide page
type QuestionView struct {
	Text     string
	Kind     string
	Options  []domain.Option
	Correct  string // letter of the correct option for choice questions
	Expected string // normalized answer for free text questions
}

// SlideView is the data of one slide page
type SlideView struct {
	Site        Site
	CourseTitle string
	Module      int
	Slide       int
	SlideName   string
	Header      string
	Paragraph   string
	Media       *MediaView
	Question    *QuestionView
	Nav         domain.Navigation
}

// IndexModule is one module entry of the course index
type IndexModule struct {
	Index      int
	FirstSlide string
}

// IndexView is the data of the course index page
type IndexView struct {
	Site     Site
	Title    string
	Author   string
	Duration string
	Overview string
	Modules  []IndexModule
}

// CelebrationView is the data of a module's celebration page
type CelebrationView struct {
	Site        Site
	CourseTitle string
	Module      int
	Countdown   int
	Return      string
}

// DescriptionView is the data of a course description page
type DescriptionView struct {
	Site        Site
	Title       string
	ImageURL    string
	Description string
	Objectives  string
	Chapters    string
	Duration    string
	Assessment  string
}

// ScaffoldView is the data of the AUTH/ backend files
type ScaffoldView struct {
	DBHost     string
	DBName     string
	DBUser     string
	DBPassword string
	LoginURL   string
}

// ReadmeCourseView is the README block appended when a course is created
type ReadmeCourseView struct {
	Title     string
	BuildID   string
	CreatedAt string
	Author    string
	Duration  string
	Modules   int
	Overview  string
}

// ReadmeModuleView is the README block appended when a module is saved
type ReadmeModuleView struct {
	Module    int
	Slides    int
	CreatedAt string
}
