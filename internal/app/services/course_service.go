package services

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/elitelearners/coursegen/internal/app/layout"
	"github.com/elitelearners/coursegen/internal/domain"
	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
	"github.com/elitelearners/coursegen/internal/pkg/filestorage"
)

// StorageFactory opens the asset storage of a course
type StorageFactory func(assetsDir string) (filestorage.FileStorage, error)

// Build is the state of one course generation run
type Build struct {
	ID             string
	Info           CourseInfo
	Layout         *layout.Layout
	ModulesWritten []int

	// assets is shared by all modules so that stored names stay unique per course
	assets filestorage.FileStorage
}

// CourseService defines the interface for generating a course tree
type CourseService interface {
	// Begin creates the layout, the index, the AUTH/ scaffold and the README course block
	Begin(info CourseInfo) (*Build, error)
	// WriteModule imports local media, then writes every slide and the celebration page
	// of module and appends its README block. module may be modified by the import.
	WriteModule(b *Build, module *domain.Module) error
	// Build runs Begin and WriteModule for a complete course
	Build(course domain.Course) (*Build, error)
}

// CourseServiceDeps groups the collaborators of the course service
type CourseServiceDeps struct {
	Layouts     *layout.Builder
	Index       IndexService
	Slides      SlideService
	Celebration CelebrationService
	Scaffold    ScaffoldService
	Readme      *ReadmeLog
	Storage     StorageFactory
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	deps   CourseServiceDeps
	logger zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(deps CourseServiceDeps, logger zerolog.Logger) CourseService {
	if deps.Storage == nil {
		deps.Storage = func(dir string) (filestorage.FileStorage, error) {
			return filestorage.NewLocalStorage(dir, logger)
		}
	}
	return &courseServiceImpl{
		deps:   deps,
		logger: logger,
	}
}

func (s *courseServiceImpl) Begin(info CourseInfo) (*Build, error) {
	l, err := s.deps.Layouts.CreateLayout(info.Title, info.ModuleCount)
	if err != nil {
		return nil, err
	}

	b := &Build{ID: uuid.NewString(), Info: info, Layout: l}
	log := s.logger.With().Str("build_id", b.ID).Str("course", info.Title).Logger()

	if _, err := s.deps.Index.WriteIndex(l, info); err != nil {
		return nil, err
	}

	report, err := s.deps.Scaffold.EmitScaffold(l.Auth)
	if err != nil {
		return nil, err
	}
	if len(report.Skipped) > 0 {
		log.Info().Strs("skipped", report.Skipped).Msg("Existing backend files kept")
	}

	if err := s.deps.Readme.AppendCourse(l.Root, info, b.ID); err != nil {
		return nil, err
	}

	log.Info().Str("root", l.Root).Int("modules", info.ModuleCount).Msg("Course started")
	return b, nil
}

func (s *courseServiceImpl) WriteModule(b *Build, module *domain.Module) error {
	if b == nil || b.Layout == nil {
		return errors.New("course build has not been started")
	}
	if module.Index < 1 || module.Index > b.Info.ModuleCount {
		return fmt.Errorf("module %d is outside the course (1..%d)", module.Index, b.Info.ModuleCount)
	}
	total := len(module.Slides)
	if total < 1 || total > domain.MaxSlidesPerModule {
		return fmt.Errorf("module %d has %d slides (want 1..%d)", module.Index, total, domain.MaxSlidesPerModule)
	}

	log := s.logger.With().Str("build_id", b.ID).Int("module", module.Index).Logger()

	if err := s.importAssets(b, module, log); err != nil {
		return err
	}

	for i := range module.Slides {
		if _, err := s.deps.Slides.WriteSlide(b.Layout, b.Info.Title, module.Slides[i], module.Index, i+1, total); err != nil {
			return err
		}
	}

	if _, err := s.deps.Celebration.WriteCelebration(b.Layout, b.Info.Title, module.Index); err != nil {
		return err
	}

	if err := s.deps.Readme.AppendModule(b.Layout.Root, module.Index, total); err != nil {
		return err
	}

	b.ModulesWritten = append(b.ModulesWritten, module.Index)
	log.Info().Int("slides", total).Msg("Module written")
	return nil
}

func (s *courseServiceImpl) Build(course domain.Course) (*Build, error) {
	b, err := s.Begin(Info(course))
	if err != nil {
		return nil, err
	}
	for i := range course.Modules {
		if err := s.WriteModule(b, &course.Modules[i]); err != nil {
			return b, err
		}
	}
	return b, nil
}

// importAssets copies slide media that names an existing local file into ASSETS and
// rewrites the reference to the stored name.
func (s *courseServiceImpl) importAssets(b *Build, module *domain.Module, log zerolog.Logger) error {
	for i := range module.Slides {
		slide := &module.Slides[i]
		ref := strings.TrimSpace(slide.Media)
		kind := domain.ClassifyMedia(ref)
		if !kind.IsAsset() || isURL(ref) || !isLocalFile(ref) {
			continue
		}

		if b.assets == nil {
			storage, err := s.deps.Storage(b.Layout.Assets)
			if err != nil {
				return apperrors.NewWriteError(b.Layout.Assets, err)
			}
			b.assets = storage
		}

		info, err := b.assets.SaveFile(ref)
		if err != nil {
			return apperrors.NewWriteError(b.assets.GetFullPath(ref), err)
		}
		if want := expectedTopLevel(kind); want != "" && info.TopLevelType() != want {
			log.Warn().Str("file", info.Filename).Str("mime", info.MimeType).Str("kind", string(kind)).Msg("Media content does not match its extension")
		}
		slide.Media = info.Filename
	}
	return nil
}

func isLocalFile(ref string) bool {
	fi, err := os.Stat(ref)
	return err == nil && fi.Mode().IsRegular()
}

// expectedTopLevel returns the MIME top-level type of kind, or "" when documents of
// several types share the kind.
func expectedTopLevel(kind domain.MediaKind) string {
	switch kind {
	case domain.MediaImage:
		return "image"
	case domain.MediaAudio:
		return "audio"
	case domain.MediaVideo:
		return "video"
	}
	return ""
}
