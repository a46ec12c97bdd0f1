package filestorage

// FileInfo represents information about a stored file
type FileInfo struct {
	Path     string // Full path where the file is stored
	Filename string // Name inside the storage directory
	FileSize int64  // Size in bytes
	MimeType string // Sniffed MIME type of the content
}

// TopLevelType returns the part of MimeType before the '/', e.g. "image"
func (fi FileInfo) TopLevelType() string {
	for i := 0; i < len(fi.MimeType); i++ {
		if fi.MimeType[i] == '/' {
			return fi.MimeType[:i]
		}
	}
	return fi.MimeType
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile copies a local file into storage and reports the name it was stored under
	SaveFile(srcPath string) (*FileInfo, error)

	// GetFullPath returns the full filesystem path for a stored file name
	GetFullPath(filename string) string
}
