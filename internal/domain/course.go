package domain

import (
	"strings"
	"unicode"
)

// Slide limits
const (
	MaxSlidesPerModule = 30
	OptionSlots        = 4
)

// Course is the root of a generated course tree. It owns its modules.
type Course struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Duration string   `json:"duration"`
	Overview string   `json:"overview,omitempty"`
	Modules  []Module `json:"modules"`
}

// Module is an ordered group of slides stored in its own subdirectory.
type Module struct {
	Index  int     `json:"index"`
	Slides []Slide `json:"slides"`
}

// Slide is one page of content with optional media and an optional quiz question.
type Slide struct {
	Index     int       `json:"index"`
	Header    string    `json:"header,omitempty"`
	Media     string    `json:"media,omitempty"`
	Paragraph string    `json:"paragraph,omitempty"`
	Question  *Question `json:"question,omitempty"`
}

// ModuleCount returns the number of modules in the course
func (c Course) ModuleCount() int {
	return len(c.Modules)
}

// SlideCount returns the total number of slides across all modules
func (c Course) SlideCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Slides)
	}
	return n
}

// DirName returns the filesystem-safe, upper-cased directory name for the course title.
// Path separators, control characters and characters reserved on common filesystems are
// dropped, and whitespace runs collapse to a single space. The result is empty if nothing
// usable remains.
func DirName(title string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		case unicode.IsControl(r), strings.ContainsRune(`/\:*?"<>|`, r):
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		lastSpace = false
	}

	name := strings.Trim(b.String(), " .")
	if name == "" || strings.Trim(name, ".") == "" {
		return ""
	}
	return name
}
