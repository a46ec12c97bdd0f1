package domain

import "fmt"

// CelebrationFile is the terminal page every module's last slide leads to
const CelebrationFile = "celebration.html"

// Navigation holds the derived links of a slide. It is never stored.
type Navigation struct {
	Previous string // empty for the first slide
	Next     string
	Last     bool
}

// SlideFileName returns the page name of slide i in module m
func SlideFileName(module, slide int) string {
	return fmt.Sprintf("module_%d_slide_%d.html", module, slide)
}

// ModuleDirName returns the subdirectory name of module m
func ModuleDirName(module int) string {
	return fmt.Sprintf("module%d", module)
}

// Navigate computes the links for slide i of total in module m.
func Navigate(module, slide, total int) Navigation {
	nav := Navigation{}
	if slide > 1 {
		nav.Previous = SlideFileName(module, slide-1)
	}
	if slide >= total {
		nav.Next = CelebrationFile
		nav.Last = true
	} else {
		nav.Next = SlideFileName(module, slide+1)
	}
	return nav
}
