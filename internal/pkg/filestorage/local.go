package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// LocalStorage copies media files into a course's ASSETS directory. Every distinct
// source gets its own stored name for the lifetime of the storage.
type LocalStorage struct {
	basePath string // The directory where files are stored
	baseAbs  string
	logger   zerolog.Logger

	mu      sync.Mutex
	claimed map[string]string // stored name -> absolute source path
	sources map[string]string // absolute source path -> stored name
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed.
func NewLocalStorage(basePath string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseAbs:  baseAbs,
		logger:   logger,
		claimed:  make(map[string]string),
		sources:  make(map[string]string),
	}, nil
}

// SaveFile copies srcPath into storage under its base name. When a different source
// already claimed that name, the copy is stored as name-2.ext, name-3.ext and so on.
// The same source always maps to the same name. A file that already lives in storage is
// only sniffed.
func (ls *LocalStorage) SaveFile(srcPath string) (*FileInfo, error) {
	base := filepath.Base(srcPath)
	if base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file path: %s", srcPath)
	}

	srcAbs, err := filepath.Abs(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", srcPath, err)
	}
	filename := ls.claim(base, srcAbs)
	dstPath := filepath.Join(ls.basePath, filename)
	dstAbs := filepath.Join(ls.baseAbs, filename)

	if srcAbs != dstAbs {
		if err := ls.copy(srcPath, dstPath); err != nil {
			ls.release(srcAbs)
			return nil, err
		}
	}

	fi, err := os.Stat(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat stored file: %w", err)
	}

	mtype, err := mimetype.DetectFile(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type of %s: %w", dstPath, err)
	}

	info := &FileInfo{
		Path:     dstPath,
		Filename: filename,
		FileSize: fi.Size(),
		MimeType: mtype.String(),
	}
	if filename != base {
		ls.logger.Warn().Str("source", srcPath).Str("saved_as", filename).Msg("Asset name taken by another file, renamed")
	}
	ls.logger.Info().Str("source", srcPath).Str("saved_as", filename).Str("mime", info.MimeType).Int64("size", info.FileSize).Msg("Asset saved")
	return info, nil
}

// claim returns the stored name of srcAbs, reserving base or the first free suffixed
// variant of it
func (ls *LocalStorage) claim(base, srcAbs string) string {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if name, ok := ls.sources[srcAbs]; ok {
		return name
	}
	// a file already inside storage keeps its own name
	if filepath.Dir(srcAbs) == ls.baseAbs {
		ls.sources[srcAbs] = base
		if _, taken := ls.claimed[base]; !taken {
			ls.claimed[base] = srcAbs
		}
		return base
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := base
	for n := 2; ; n++ {
		if _, taken := ls.claimed[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
	ls.claimed[name] = srcAbs
	ls.sources[srcAbs] = name
	return name
}

// release drops the name reserved for srcAbs
func (ls *LocalStorage) release(srcAbs string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if name, ok := ls.sources[srcAbs]; ok {
		delete(ls.sources, srcAbs)
		if ls.claimed[name] == srcAbs {
			delete(ls.claimed, name)
		}
	}
}

func (ls *LocalStorage) copy(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		ls.logger.Error().Err(err).Str("path", srcPath).Msg("Failed to open source file")
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy file content")
		// Attempt to remove the partially written file
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to save file content: %w", err)
	}
	return nil
}

// GetFullPath returns the full filesystem path for a stored file name.
func (ls *LocalStorage) GetFullPath(filename string) string {
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}
