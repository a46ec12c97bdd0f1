package services

import (
	"os"
	"path/filepath"

	"github.com/elitelearners/coursegen/internal/pkg/apperrors"
)

const filePerm = 0o644

// Artifact is one rendered file. Name is relative to the course root.
type Artifact struct {
	Name    string
	Content []byte
}

// writeArtifact writes a under root, replacing any existing file. The parent directory
// must already exist; it is never created here.
func writeArtifact(root string, a *Artifact) (string, error) {
	path := filepath.Join(root, filepath.FromSlash(a.Name))
	if err := os.WriteFile(path, a.Content, filePerm); err != nil {
		return "", apperrors.NewWriteError(path, err)
	}
	return path, nil
}
