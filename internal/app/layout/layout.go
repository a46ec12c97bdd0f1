package layout

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

// Fixed directory names inside a course root
const (
	AssetsDir = "ASSETS"
	AuthDir   = "AUTH"
)

const dirPerm = 0o755

// Layout is the materialized directory tree of one course
type Layout struct {
	Root    string
	Assets  string
	Auth    string
	Modules []string // index 0 holds module1
}

// ModuleDir returns the directory of the 1-based module index
func (l Layout) ModuleDir(module int) string {
	return filepath.Join(l.Root, domain.ModuleDirName(module))
}

// Open describes the layout of an existing course root without touching the disk
func Open(root string, moduleCount int) *Layout {
	l := &Layout{
		Root:   root,
		Assets: filepath.Join(root, AssetsDir),
		Auth:   filepath.Join(root, AuthDir),
	}
	for i := 1; i <= moduleCount; i++ {
		l.Modules = append(l.Modules, l.ModuleDir(i))
	}
	return l
}

// Builder creates course directory trees below a base directory
type Builder struct {
	base   string
	logger zerolog.Logger
}

// NewBuilder creates a Builder rooted at base (usually the user's home directory)
func NewBuilder(base string, logger zerolog.Logger) *Builder {
	return &Builder{base: base, logger: logger}
}

// RootFor returns the course root a title maps to
func (b *Builder) RootFor(courseTitle string) (string, error) {
	name := domain.DirName(courseTitle)
	if name == "" {
		return "", apperrors.NewValidationError("layout", apperrors.FieldError{
			Field:   "title",
			Message: "the title has no characters usable in a directory name",
		})
	}
	return filepath.Join(b.base, name), nil
}

// CreateLayout creates the course root with ASSETS, AUTH and module1..moduleCount.
// Directories that already exist are reused.
func (b *Builder) CreateLayout(courseTitle string, moduleCount int) (*Layout, error) {
	if moduleCount < 1 {
		return nil, apperrors.NewValidationError("layout", apperrors.FieldError{
			Field:   "modules",
			Message: "must be a positive integer",
		})
	}
	root, err := b.RootFor(courseTitle)
	if err != nil {
		return nil, err
	}

	l := Open(root, moduleCount)
	dirs := append([]string{l.Root, l.Assets, l.Auth}, l.Modules...)
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			b.logger.Error().Err(err).Str("path", dir).Msg("Failed to create course directory")
			return nil, apperrors.NewFilesystemError(dir, err)
		}
	}

	b.logger.Info().Str("root", l.Root).Int("modules", moduleCount).Msg("Course layout ensured")
	return l, nil
}
